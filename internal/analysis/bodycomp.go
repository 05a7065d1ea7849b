package analysis

import (
	"sort"

	"coachpulse/internal/models"
)

// BodyCompositionDelta compares the earliest and latest measurement in a
// window field by field.
type BodyCompositionDelta struct {
	From           models.BodyCompositionRecord `json:"from"`
	To             models.BodyCompositionRecord `json:"to"`
	BodyFatPercent float64                      `json:"body_fat_percent_delta"`
	Weight         float64                      `json:"weight_delta"`
	LeanMass       float64                      `json:"lean_mass_delta"`
	FatMass        float64                      `json:"fat_mass_delta"`
	BMI            float64                      `json:"bmi_delta"`
}

// CompareBodyComposition returns the earliest-to-latest delta for a window of
// measurements, or false when fewer than two exist.
func CompareBodyComposition(records []models.BodyCompositionRecord) (BodyCompositionDelta, bool) {
	if len(records) < 2 {
		return BodyCompositionDelta{}, false
	}
	sorted := make([]models.BodyCompositionRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	from, to := sorted[0], sorted[len(sorted)-1]
	return BodyCompositionDelta{
		From:           from,
		To:             to,
		BodyFatPercent: to.BodyFatPercent - from.BodyFatPercent,
		Weight:         to.Weight - from.Weight,
		LeanMass:       to.LeanMass - from.LeanMass,
		FatMass:        to.FatMass - from.FatMass,
		BMI:            to.BMI - from.BMI,
	}, true
}
