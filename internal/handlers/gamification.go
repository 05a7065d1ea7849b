package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"coachpulse/internal/gamification"
	"coachpulse/internal/store"
)

type GamificationHandler struct {
	records *store.RecordStore
	engine  *gamification.Engine
	ledger  *gamification.Ledger
}

func NewGamificationHandler(records *store.RecordStore, engine *gamification.Engine, ledger *gamification.Ledger) *GamificationHandler {
	return &GamificationHandler{records: records, engine: engine, ledger: ledger}
}

// Check runs the achievement engine over the trailing 30 days and refreshes
// the attendance streaks, returning any newly unlocked achievements.
func (h *GamificationHandler) Check(w http.ResponseWriter, r *http.Request) {
	clientID := r.Context().Value("clientID").(int)
	today := time.Now().UTC()
	since := today.AddDate(0, 0, -30)

	checkins, err := h.records.CheckinsSince(r.Context(), clientID, since)
	if err != nil {
		http.Error(w, "could not fetch check-ins", http.StatusInternalServerError)
		return
	}
	days, err := h.records.DailyCompletionsSince(r.Context(), clientID, since)
	if err != nil {
		http.Error(w, "could not fetch daily completions", http.StatusInternalServerError)
		return
	}

	unlocked, err := h.engine.CheckAndUnlock(r.Context(), clientID, gamification.ActivityWindow{
		Today:    today,
		Checkins: checkins,
		Days:     days,
	})
	if err != nil {
		http.Error(w, "could not evaluate achievements", http.StatusInternalServerError)
		return
	}

	dates, err := h.records.CheckinDates(r.Context(), clientID)
	if err != nil {
		http.Error(w, "could not fetch check-in dates", http.StatusInternalServerError)
		return
	}
	current, longest, err := h.ledger.UpdateStreaks(r.Context(), clientID, dates)
	if err != nil {
		http.Error(w, "could not update streaks", http.StatusInternalServerError)
		return
	}

	if unlocked == nil {
		unlocked = []gamification.UnlockedAchievement{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"unlocked":       unlocked,
		"current_streak": current,
		"longest_streak": longest,
	})
}

func (h *GamificationHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	clientID := r.Context().Value("clientID").(int)
	achievements, err := h.engine.Unlocked(r.Context(), clientID)
	if err != nil {
		http.Error(w, "could not fetch achievements", http.StatusInternalServerError)
		return
	}
	if achievements == nil {
		achievements = []gamification.UnlockedAchievement{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(achievements)
}

func (h *GamificationHandler) Points(w http.ResponseWriter, r *http.Request) {
	clientID := r.Context().Value("clientID").(int)
	ledger, err := h.ledger.Summary(r.Context(), clientID)
	if err != nil {
		http.Error(w, "could not fetch points", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ledger)
}

type earnPointsRequest struct {
	Amount      int    `json:"amount"`
	ActionType  string `json:"action_type"`
	Description string `json:"description"`
}

// EarnPoints records a manual point-earning event, e.g. a consumed meal or a
// daily-completion bonus. Daily actions are one-per-day; a repeat returns
// 409 with the ledger unchanged.
func (h *GamificationHandler) EarnPoints(w http.ResponseWriter, r *http.Request) {
	clientID := r.Context().Value("clientID").(int)
	var req earnPointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount <= 0 || req.ActionType == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	ledger, err := h.ledger.AddPoints(r.Context(), clientID, req.Amount, req.ActionType, req.Description)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateAward) {
			http.Error(w, "already awarded today", http.StatusConflict)
			return
		}
		http.Error(w, "could not add points", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ledger)
}

func (h *GamificationHandler) PointsHistory(w http.ResponseWriter, r *http.Request) {
	clientID := r.Context().Value("clientID").(int)
	history, err := h.ledger.History(r.Context(), clientID, 50)
	if err != nil {
		http.Error(w, "could not fetch history", http.StatusInternalServerError)
		return
	}
	if history == nil {
		history = []gamification.HistoryEntry{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(history)
}
