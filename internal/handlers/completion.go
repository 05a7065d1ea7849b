package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
)

// CompletionHandler records the daily plan completions the achievement
// engine evaluates. Written by the meal-tracking intake, one row per client
// per day.
type CompletionHandler struct {
	db *sqlx.DB
}

func NewCompletionHandler(db *sqlx.DB) *CompletionHandler {
	return &CompletionHandler{db: db}
}

type completionRequest struct {
	LocalDate         string  `json:"local_date"`
	CompletionPercent float64 `json:"completion_percent"`
	ItemsTracked      int     `json:"items_tracked"`
	ProteinConsumed   float64 `json:"protein_consumed"`
	ProteinTarget     float64 `json:"protein_target"`
	CarbsConsumed     float64 `json:"carbs_consumed"`
	CarbsTarget       float64 `json:"carbs_target"`
	FatConsumed       float64 `json:"fat_consumed"`
	FatTarget         float64 `json:"fat_target"`
}

func (h *CompletionHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	clientID := r.Context().Value("clientID").(int)
	var req completionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LocalDate == "" ||
		req.CompletionPercent < 0 || req.CompletionPercent > 100 || req.ItemsTracked < 0 {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	parsedLocalDate, err := time.Parse("2006-01-02", req.LocalDate)
	if err != nil {
		http.Error(w, "invalid local_date format; expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	_, err = h.db.Exec(`INSERT INTO daily_completions
	        (client_id, local_date, completion_percent, items_tracked,
	         protein_consumed, protein_target, carbs_consumed, carbs_target, fat_consumed, fat_target)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	      ON CONFLICT (client_id, local_date)
	      DO UPDATE SET
	        completion_percent = EXCLUDED.completion_percent,
	        items_tracked = EXCLUDED.items_tracked,
	        protein_consumed = EXCLUDED.protein_consumed,
	        protein_target = EXCLUDED.protein_target,
	        carbs_consumed = EXCLUDED.carbs_consumed,
	        carbs_target = EXCLUDED.carbs_target,
	        fat_consumed = EXCLUDED.fat_consumed,
	        fat_target = EXCLUDED.fat_target`,
		clientID, parsedLocalDate, req.CompletionPercent, req.ItemsTracked,
		req.ProteinConsumed, req.ProteinTarget, req.CarbsConsumed, req.CarbsTarget,
		req.FatConsumed, req.FatTarget)
	if err != nil {
		http.Error(w, "could not save", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
