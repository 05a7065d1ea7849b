package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"coachpulse/internal/analysis"
	"coachpulse/internal/store"
)

type AnalysisHandler struct {
	records *store.RecordStore
	scorer  *analysis.Scorer
}

func NewAnalysisHandler(records *store.RecordStore, scorer *analysis.Scorer) *AnalysisHandler {
	return &AnalysisHandler{records: records, scorer: scorer}
}

func windowDays(r *http.Request, fallback int) int {
	if s := r.URL.Query().Get("days"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 365 {
			return n
		}
	}
	return fallback
}

// Trends godoc
// @Summary Trend analysis over recent check-ins
// @Tags analysis
// @Produce json
// @Security BearerAuth
// @Param days query int false "window size in days (default 90)"
// @Success 200 {array} analysis.TrendResult
// @Router /analysis/trends [get]
func (h *AnalysisHandler) Trends(w http.ResponseWriter, r *http.Request) {
	clientID := r.Context().Value("clientID").(int)
	days := windowDays(r, 90)

	checkins, err := h.records.CheckinsSince(r.Context(), clientID, time.Now().UTC().AddDate(0, 0, -days))
	if err != nil {
		http.Error(w, "could not fetch check-ins", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(analysis.AnalyzeTrends(checkins))
}

// Progress godoc
// @Summary Coach-style progress report
// @Tags analysis
// @Produce json
// @Security BearerAuth
// @Param days query int false "window size in days (default 90)"
// @Success 200 {object} analysis.AnalysisResult
// @Router /analysis/progress [get]
func (h *AnalysisHandler) Progress(w http.ResponseWriter, r *http.Request) {
	clientID := r.Context().Value("clientID").(int)
	days := windowDays(r, 90)

	checkins, err := h.records.CheckinsSince(r.Context(), clientID, time.Now().UTC().AddDate(0, 0, -days))
	if err != nil {
		http.Error(w, "could not fetch check-ins", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.scorer.Analyze(r.Context(), checkins))
}
