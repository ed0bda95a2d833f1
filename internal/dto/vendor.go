package dto

// VendorResponse is the read-only vendor registry view.
type VendorResponse struct {
	ID                  string  `json:"vendor_id"`
	Name                string  `json:"vendor_name"`
	Category            string  `json:"category"`
	ProductOrService    string  `json:"product_or_service"`
	CarbonIntensity     float64 `json:"carbon_intensity"`
	SustainabilityScore int     `json:"sustainability_score"`
	DistanceKm          float64 `json:"distance_km_from_sme"`
}
