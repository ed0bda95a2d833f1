package dto

// RecommendationEcho is the inline view of one persisted recommendation
// returned from a generate run.
type RecommendationEcho struct {
	Criteria        string  `json:"criteria"`
	RecordsAffected int     `json:"records_affected"`
	SavingKg        float64 `json:"saving_kg"`
	TotalSavingKg   float64 `json:"total_saving_kg"`
	Score           float64 `json:"score"`
	Similarity      float64 `json:"similarity"`
	Text            string  `json:"text"`
}

// CandidateCounts breaks down generated candidates per criterion.
type CandidateCounts struct {
	Hauler      int `json:"hauler"`
	Material    int `json:"material"`
	Mode        int `json:"mode"`
	Fuel        int `json:"fuel"`
	Electricity int `json:"electricity"`
}

// GenerateSummary is the result of one full engine run.
type GenerateSummary struct {
	VendorsUsed          int                  `json:"vendors_used"`
	ShippingGroups       int                  `json:"shipping_groups"`
	VehicleFuelGroups    int                  `json:"vehicle_fuel_groups"`
	StationaryFuelGroups int                  `json:"stationary_fuel_groups"`
	Candidates           CandidateCounts      `json:"candidates"`
	AfterDiversity       int                  `json:"after_diversity"`
	Saved                int                  `json:"saved"`
	TotalSavingKg        float64              `json:"total_saving_kg"`
	Recommendations      []RecommendationEcho `json:"recommendations"`
}

// RecommendationResponse is one stored recommendation as served to the
// dashboard, with the derived priority tier.
type RecommendationResponse struct {
	ID                string  `json:"id"`
	Criteria          string  `json:"criteria"`
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	CurrentKgCO2e     float64 `json:"current_kg_co2e"`
	RecommendedKgCO2e float64 `json:"recommended_kg_co2e"`
	SavingKgCO2e      float64 `json:"saving_kg_co2e"`
	Score             float64 `json:"score"`
	RecordsAffected   int     `json:"records_affected"`
	Priority          string  `json:"priority"`
	Category          string  `json:"category"`
}
