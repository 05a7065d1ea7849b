package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"coachpulse/internal/analysis"
	"coachpulse/internal/gamification"
	"coachpulse/internal/store"
)

type DashboardHandler struct {
	db      *sqlx.DB
	records *store.RecordStore
	ledger  *gamification.Ledger
}

func NewDashboardHandler(db *sqlx.DB, records *store.RecordStore, ledger *gamification.Ledger) *DashboardHandler {
	return &DashboardHandler{db: db, records: records, ledger: ledger}
}

type dashboardResponse struct {
	ReferenceDate    string                         `json:"reference_date"`
	HasTodayCheckin  bool                           `json:"has_today_checkin"`
	CheckinsThisWeek int                            `json:"checkins_this_week"`
	OverallScore     float64                        `json:"overall_score"`
	Trend            analysis.Trend                 `json:"trend"`
	Ledger           gamification.PointsLedgerEntry `json:"ledger"`
}

// Get aggregates the metrics that power the client's home screen. Accepts an
// optional query param local_date=YYYY-MM-DD to use as the client's "today".
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	clientID := r.Context().Value("clientID").(int)

	refDateStr := r.URL.Query().Get("local_date")
	var refDate time.Time
	var err error
	if refDateStr == "" {
		if err = h.db.QueryRowx("SELECT CURRENT_DATE").Scan(&refDate); err != nil {
			http.Error(w, "could not determine current date", http.StatusInternalServerError)
			return
		}
	} else {
		refDate, err = time.Parse("2006-01-02", refDateStr)
		if err != nil {
			http.Error(w, "invalid local_date format; expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	var hasToday bool
	if err := h.db.QueryRowx(`SELECT EXISTS (SELECT 1 FROM checkins WHERE client_id=$1 AND local_date=$2)`,
		clientID, refDate).Scan(&hasToday); err != nil {
		http.Error(w, "could not check today's check-in", http.StatusInternalServerError)
		return
	}

	var thisWeek int
	if err := h.db.QueryRowx(
		`SELECT COUNT(*) FROM checkins
		 WHERE client_id=$1 AND local_date >= date_trunc('week', $2::timestamp)::date AND local_date <= $2`,
		clientID, refDate).Scan(&thisWeek); err != nil {
		http.Error(w, "could not fetch aggregates", http.StatusInternalServerError)
		return
	}

	checkins, err := h.records.CheckinsSince(r.Context(), clientID, refDate.AddDate(0, 0, -90))
	if err != nil {
		http.Error(w, "could not fetch check-ins", http.StatusInternalServerError)
		return
	}
	report := analysis.AnalyzeProgress(checkins)

	ledger, err := h.ledger.Summary(r.Context(), clientID)
	if err != nil {
		http.Error(w, "could not fetch ledger", http.StatusInternalServerError)
		return
	}

	resp := dashboardResponse{
		ReferenceDate:    refDate.Format("2006-01-02"),
		HasTodayCheckin:  hasToday,
		CheckinsThisWeek: thisWeek,
		OverallScore:     report.OverallScore,
		Trend:            report.Trend,
		Ledger:           ledger,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
