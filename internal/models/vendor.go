package models

import "time"

// Vendor categories with special meaning to the recommendation engine.
// Any other category string is treated as a material/service category.
const (
	CategoryLogistics      = "Logistics"
	CategoryEnergy         = "Energy"
	CategoryEnergyProvider = "Energy Provider"
)

// Vendor is a row of the vendor knowledge base. Reference data, loaded
// fresh on every engine run and never written by this service.
type Vendor struct {
	ID                  string    `db:"vendor_id"`
	Name                string    `db:"vendor_name"`
	Category            string    `db:"category"`
	ProductOrService    string    `db:"product_or_service"`
	CarbonIntensity     float64   `db:"carbon_intensity"`      // kg CO2e per unit
	SustainabilityScore int       `db:"sustainability_score"`  // 0-100
	DistanceKm          float64   `db:"distance_km_from_sme"`
	CreatedAt           time.Time `db:"created_at"`
}

// IsEnergy reports whether the vendor supplies energy. The registry has
// used both spellings historically.
func (v Vendor) IsEnergy() bool {
	return v.Category == CategoryEnergy || v.Category == CategoryEnergyProvider
}
