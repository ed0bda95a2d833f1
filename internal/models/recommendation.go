package models

import (
	"time"

	"github.com/google/uuid"
)

// Recommendation is a persisted row of the recommendations table. The whole
// table is cleared and repopulated on every engine run; rows are never
// updated in place.
type Recommendation struct {
	ID                uuid.UUID `db:"id"`
	ActivityID        int64     `db:"activity_id"`
	Text              string    `db:"recommendation_text"`
	Criteria          Criterion `db:"criteria"`
	CurrentKgCO2e     float64   `db:"current_kg_co2e"`
	RecommendedKgCO2e float64   `db:"recommended_kg_co2e"`
	SavingKgCO2e      float64   `db:"saving_kg_co2e"`
	Score             float64   `db:"score"`
	SourceParsedID    *int64    `db:"source_parsed_id"`
	RecordCount       int       `db:"record_count"`
	CreatedAt         time.Time `db:"created_at"`
}

// Priority buckets per-record savings into display tiers. A presentation
// concern layered on the stored score, not part of generation.
func (r Recommendation) Priority() string {
	switch {
	case r.SavingKgCO2e > 3:
		return "high"
	case r.SavingKgCO2e > 1:
		return "medium"
	default:
		return "low"
	}
}
