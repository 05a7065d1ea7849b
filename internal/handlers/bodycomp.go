package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"coachpulse/internal/analysis"
	"coachpulse/internal/models"
	"coachpulse/internal/store"
)

type BodyCompHandler struct {
	db      *sqlx.DB
	records *store.RecordStore
}

func NewBodyCompHandler(db *sqlx.DB, records *store.RecordStore) *BodyCompHandler {
	return &BodyCompHandler{db: db, records: records}
}

type bodyCompRequest struct {
	LocalDate      string  `json:"local_date"`
	BodyFatPercent float64 `json:"body_fat_percent"`
	Weight         float64 `json:"weight"`
	LeanMass       float64 `json:"lean_mass"`
	FatMass        float64 `json:"fat_mass"`
	BMI            float64 `json:"bmi"`
	BMR            float64 `json:"bmr"`
	Classification string  `json:"classification"`
}

func (h *BodyCompHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	clientID := r.Context().Value("clientID").(int)
	var req bodyCompRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LocalDate == "" || req.Weight <= 0 {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	parsedLocalDate, err := time.Parse("2006-01-02", req.LocalDate)
	if err != nil {
		http.Error(w, "invalid local_date format; expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	_, err = h.db.Exec(`INSERT INTO body_composition
	        (client_id, local_date, body_fat_percent, weight, lean_mass, fat_mass, bmi, bmr, classification)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	      ON CONFLICT (client_id, local_date)
	      DO UPDATE SET
	        body_fat_percent = EXCLUDED.body_fat_percent,
	        weight = EXCLUDED.weight,
	        lean_mass = EXCLUDED.lean_mass,
	        fat_mass = EXCLUDED.fat_mass,
	        bmi = EXCLUDED.bmi,
	        bmr = EXCLUDED.bmr,
	        classification = EXCLUDED.classification`,
		clientID, parsedLocalDate, req.BodyFatPercent, req.Weight, req.LeanMass,
		req.FatMass, req.BMI, req.BMR, req.Classification)
	if err != nil {
		http.Error(w, "could not save", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BodyCompHandler) List(w http.ResponseWriter, r *http.Request) {
	clientID := r.Context().Value("clientID").(int)
	var out []models.BodyCompositionRecord
	err := h.db.Select(&out,
		`SELECT id, client_id, local_date, body_fat_percent, weight, lean_mass, fat_mass, bmi, bmr, classification
		 FROM body_composition WHERE client_id=$1 ORDER BY local_date DESC LIMIT 100`, clientID)
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// Compare returns the earliest-vs-latest delta over the requested window
// (days query param, default 90).
func (h *BodyCompHandler) Compare(w http.ResponseWriter, r *http.Request) {
	clientID := r.Context().Value("clientID").(int)
	days := windowDays(r, 90)

	records, err := h.records.BodyCompositionSince(r.Context(), clientID, time.Now().UTC().AddDate(0, 0, -days))
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	delta, ok := analysis.CompareBodyComposition(records)
	if !ok {
		http.Error(w, "need at least two measurements", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(delta)
}
