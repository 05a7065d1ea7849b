package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"coachpulse/internal/models"
)

type CheckinHandler struct {
	db *sqlx.DB
}

func NewCheckinHandler(db *sqlx.DB) *CheckinHandler {
	return &CheckinHandler{db: db}
}

type checkinRequest struct {
	LocalDate    string   `json:"local_date"` // YYYY-MM-DD provided by frontend
	Weight       float64  `json:"weight"`
	WorkoutScore *float64 `json:"workout_score"`
	CardioScore  *float64 `json:"cardio_score"`
	SleepScore   *float64 `json:"sleep_score"`
	WaterScore   *float64 `json:"water_score"`
	StressScore  *float64 `json:"stress_score"`
	LibidoScore  *float64 `json:"libido_score"`
	TotalScore   float64  `json:"total_score"`
	Difficulties string   `json:"difficulties"`
	Goal         string   `json:"goal"`
}

func validScore(v *float64) bool {
	return v == nil || (*v >= 0 && *v <= 10)
}

// Upsert creates or replaces the check-in for the same client and local date.
func (h *CheckinHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	clientID := r.Context().Value("clientID").(int)
	var req checkinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LocalDate == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	for _, s := range []*float64{req.WorkoutScore, req.CardioScore, req.SleepScore, req.WaterScore, req.StressScore, req.LibidoScore} {
		if !validScore(s) {
			http.Error(w, "scores must be between 0 and 10", http.StatusBadRequest)
			return
		}
	}
	if req.TotalScore < 0 || req.TotalScore > 10 || req.Weight < 0 {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	parsedLocalDate, err := time.Parse("2006-01-02", req.LocalDate)
	if err != nil {
		http.Error(w, "invalid local_date format; expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	var isInsert bool
	err = h.db.QueryRow(`INSERT INTO checkins
	        (client_id, local_date, weight, workout_score, cardio_score, sleep_score, water_score,
	         stress_score, libido_score, total_score, difficulties, goal, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
	      ON CONFLICT (client_id, local_date)
	      DO UPDATE SET
	        weight = EXCLUDED.weight,
	        workout_score = EXCLUDED.workout_score,
	        cardio_score = EXCLUDED.cardio_score,
	        sleep_score = EXCLUDED.sleep_score,
	        water_score = EXCLUDED.water_score,
	        stress_score = EXCLUDED.stress_score,
	        libido_score = EXCLUDED.libido_score,
	        total_score = EXCLUDED.total_score,
	        difficulties = EXCLUDED.difficulties,
	        goal = EXCLUDED.goal,
	        updated_at = NOW()
	      RETURNING (xmax = 0)`,
		clientID, parsedLocalDate, req.Weight, req.WorkoutScore, req.CardioScore, req.SleepScore,
		req.WaterScore, req.StressScore, req.LibidoScore, req.TotalScore, req.Difficulties, req.Goal).Scan(&isInsert)
	if err != nil {
		http.Error(w, "could not save", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"message":    "Check-in saved successfully",
		"local_date": parsedLocalDate.Format("2006-01-02"),
		"is_update":  !isInsert,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// List returns the client's check-ins, optionally filtered by
// start_date/end_date query params (YYYY-MM-DD), newest first.
func (h *CheckinHandler) List(w http.ResponseWriter, r *http.Request) {
	clientID := r.Context().Value("clientID").(int)
	q := r.URL.Query()

	where := "WHERE client_id=$1"
	args := []interface{}{clientID}

	if startDateStr := q.Get("start_date"); startDateStr != "" {
		startDate, err := time.Parse("2006-01-02", startDateStr)
		if err != nil {
			http.Error(w, "invalid start_date format; expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		args = append(args, startDate)
		where += fmt.Sprintf(" AND local_date >= $%d", len(args))
	}
	if endDateStr := q.Get("end_date"); endDateStr != "" {
		endDate, err := time.Parse("2006-01-02", endDateStr)
		if err != nil {
			http.Error(w, "invalid end_date format; expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		args = append(args, endDate)
		where += fmt.Sprintf(" AND local_date <= $%d", len(args))
	}

	query := `SELECT id, client_id, local_date, weight, workout_score, cardio_score, sleep_score,
	                 water_score, stress_score, libido_score, total_score, difficulties, goal,
	                 created_at, updated_at
	          FROM checkins ` + where + ` ORDER BY local_date DESC LIMIT 100`
	var out []models.CheckinRecord
	if err := h.db.Select(&out, query, args...); err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// Delete removes a check-in for the authenticated client by local_date.
func (h *CheckinHandler) Delete(w http.ResponseWriter, r *http.Request) {
	clientID := r.Context().Value("clientID").(int)

	var body struct {
		LocalDate string `json:"local_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.LocalDate == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	parsedLocalDate, err := time.Parse("2006-01-02", body.LocalDate)
	if err != nil {
		http.Error(w, "invalid local_date format; expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	res, err := h.db.Exec(`DELETE FROM checkins WHERE client_id = $1 AND local_date = $2`, clientID, parsedLocalDate)
	if err != nil {
		http.Error(w, "could not delete", http.StatusInternalServerError)
		return
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
