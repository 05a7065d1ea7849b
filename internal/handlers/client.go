package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"coachpulse/internal/models"
)

type ClientHandler struct {
	db *sqlx.DB
}

func NewClientHandler(db *sqlx.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

// GetMe returns the current client's profile.
func (h *ClientHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	clientID := r.Context().Value("clientID").(int)
	var c models.Client
	if err := h.db.Get(&c, `SELECT id, email, password_hash, created_at, first_name, last_name, goal, start_date, is_coach
	                         FROM clients WHERE id=$1`, clientID); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}

// UpdateMe updates provided fields on the current client's profile.
func (h *ClientHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	clientID := r.Context().Value("clientID").(int)
	var body struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Goal      *string `json:"goal"`
		StartDate *string `json:"start_date"` // YYYY-MM-DD
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1
	if body.FirstName != nil {
		setClauses = append(setClauses, "first_name=$"+strconv.Itoa(argIdx))
		args = append(args, *body.FirstName)
		argIdx++
	}
	if body.LastName != nil {
		setClauses = append(setClauses, "last_name=$"+strconv.Itoa(argIdx))
		args = append(args, *body.LastName)
		argIdx++
	}
	if body.Goal != nil {
		setClauses = append(setClauses, "goal=$"+strconv.Itoa(argIdx))
		args = append(args, *body.Goal)
		argIdx++
	}
	if body.StartDate != nil {
		if *body.StartDate == "" {
			setClauses = append(setClauses, "start_date=NULL")
		} else {
			if _, err := time.Parse("2006-01-02", *body.StartDate); err != nil {
				http.Error(w, "invalid start_date; expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			setClauses = append(setClauses, "start_date=$"+strconv.Itoa(argIdx))
			args = append(args, *body.StartDate)
			argIdx++
		}
	}
	if len(setClauses) == 0 {
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}

	args = append(args, clientID)
	query := "UPDATE clients SET " + strings.Join(setClauses, ", ") + " WHERE id=$" + strconv.Itoa(argIdx)
	if _, err := h.db.Exec(query, args...); err != nil {
		http.Error(w, "could not update", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
