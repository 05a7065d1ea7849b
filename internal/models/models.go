package models

import "time"

type Client struct {
	ID           int        `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	FirstName    *string    `db:"first_name" json:"first_name,omitempty"`
	LastName     *string    `db:"last_name" json:"last_name,omitempty"`
	Goal         *string    `db:"goal" json:"goal,omitempty"`
	StartDate    *time.Time `db:"start_date" json:"start_date,omitempty"`
	IsCoach      bool       `db:"is_coach" json:"is_coach"`
}

// CheckinRecord is a periodic client check-in. Category scores are pointers:
// nil means the client did not report that category, while a non-nil zero is a
// valid low score and still counts toward averages.
type CheckinRecord struct {
	ID           int       `db:"id" json:"id"`
	ClientID     int       `db:"client_id" json:"client_id"`
	Date         time.Time `db:"local_date" json:"local_date"`
	Weight       float64   `db:"weight" json:"weight"` // 0 = not measured
	WorkoutScore *float64  `db:"workout_score" json:"workout_score,omitempty"`
	CardioScore  *float64  `db:"cardio_score" json:"cardio_score,omitempty"`
	SleepScore   *float64  `db:"sleep_score" json:"sleep_score,omitempty"`
	WaterScore   *float64  `db:"water_score" json:"water_score,omitempty"`
	StressScore  *float64  `db:"stress_score" json:"stress_score,omitempty"`
	LibidoScore  *float64  `db:"libido_score" json:"libido_score,omitempty"`
	TotalScore   float64   `db:"total_score" json:"total_score"`
	Difficulties string    `db:"difficulties" json:"difficulties"`
	Goal         string    `db:"goal" json:"goal"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type BodyCompositionRecord struct {
	ID             int       `db:"id" json:"id"`
	ClientID       int       `db:"client_id" json:"client_id"`
	Date           time.Time `db:"local_date" json:"local_date"`
	BodyFatPercent float64   `db:"body_fat_percent" json:"body_fat_percent"`
	Weight         float64   `db:"weight" json:"weight"`
	LeanMass       float64   `db:"lean_mass" json:"lean_mass"`
	FatMass        float64   `db:"fat_mass" json:"fat_mass"`
	BMI            float64   `db:"bmi" json:"bmi"`
	BMR            float64   `db:"bmr" json:"bmr"`
	Classification string    `db:"classification" json:"classification"`
}

// DailyCompletion summarizes one day of the client's meal plan: how much of
// the plan was ticked off and the macros consumed against their targets. The
// achievement engine evaluates its unlock rules over these.
type DailyCompletion struct {
	ClientID          int       `db:"client_id" json:"client_id"`
	Date              time.Time `db:"local_date" json:"local_date"`
	CompletionPercent float64   `db:"completion_percent" json:"completion_percent"`
	ItemsTracked      int       `db:"items_tracked" json:"items_tracked"`
	ProteinConsumed   float64   `db:"protein_consumed" json:"protein_consumed"`
	ProteinTarget     float64   `db:"protein_target" json:"protein_target"`
	CarbsConsumed     float64   `db:"carbs_consumed" json:"carbs_consumed"`
	CarbsTarget       float64   `db:"carbs_target" json:"carbs_target"`
	FatConsumed       float64   `db:"fat_consumed" json:"fat_consumed"`
	FatTarget         float64   `db:"fat_target" json:"fat_target"`
}
