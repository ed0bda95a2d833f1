package models

import (
	"fmt"
	"strings"
)

// Criterion identifies one of the five recommendation strategies.
type Criterion string

const (
	CriterionBetterCloserHauler   Criterion = "better_closer_hauler"
	CriterionAlternativeMaterial  Criterion = "alternative_material"
	CriterionChangeShipmentMethod Criterion = "change_shipment_method"
	CriterionReduceFuelEmissions  Criterion = "reduce_fuel_emissions"
	CriterionGreenElectricity     Criterion = "green_electricity"
)

// Criteria lists every criterion in generation order.
var Criteria = []Criterion{
	CriterionBetterCloserHauler,
	CriterionAlternativeMaterial,
	CriterionChangeShipmentMethod,
	CriterionReduceFuelEmissions,
	CriterionGreenElectricity,
}

// ParseCriterion validates a criterion string coming from the API.
func ParseCriterion(s string) (Criterion, error) {
	for _, c := range Criteria {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown criterion %q", s)
}

// Title returns the human-readable form, e.g. "Better Closer Hauler".
func (c Criterion) Title() string {
	words := strings.Split(string(c), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Candidate is one unpersisted recommendation proposal produced during a
// single engine run. Fields unused by a criterion stay at their zero value
// (e.g. Similarity for generators that never compare against a vendor).
// Only Score is written after construction, by the normalizer.
type Candidate struct {
	Criterion      Criterion
	ActivityID     *int64
	SourceParsedID *int64
	CurrentKg      float64
	RecommendedKg  float64
	SavingKg       float64 // per unit / per record
	TotalSavingKg  float64 // SavingKg scaled by the record group size
	RawScore       float64
	Score          float64 // set by NormalizeScores
	RecordCount    int
	Similarity     float64
	FeatureVec     []float64 // consumed by the MMR reranker
	Text           string
}
