package service

import (
	"math"
	"strings"

	"carbonlens/internal/models"
)

// Grouping collapses near-identical activity records (recurring shipments,
// repeated fuel deliveries) into one bucket so the generators emit a single
// recommendation scaled by the bucket size instead of one per invoice line.
// Group order follows first appearance in the input, keeping runs
// deterministic.

type shippingKey struct {
	DistanceMiles float64 // rounded to integer
	WeightTons    float64 // rounded to 1 decimal
	Mode          string
}

type fuelKey struct {
	FuelType string
	Unit     string
	Quantity float64 // rounded to 1 decimal
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// GroupShipping buckets shipping records on (rounded distance, rounded
// weight, mode). Unknown modes default to truck.
func GroupShipping(records []models.ShippingRecord) [][]models.ShippingRecord {
	index := make(map[shippingKey]int)
	var groups [][]models.ShippingRecord
	for _, rec := range records {
		mode := strings.ToLower(rec.TransportMode)
		if mode == "" {
			mode = "truck"
		}
		key := shippingKey{
			DistanceMiles: math.Round(rec.DistanceMiles),
			WeightTons:    round1(rec.WeightTons),
			Mode:          mode,
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], rec)
	}
	return groups
}

// GroupFuel buckets fuel records on (fuel type, unit, rounded quantity).
// defaultUnit fills records with no unit: gallon for vehicle fuel, therm
// for stationary fuel.
func GroupFuel(records []models.FuelRecord, defaultUnit string) [][]models.FuelRecord {
	index := make(map[fuelKey]int)
	var groups [][]models.FuelRecord
	for _, rec := range records {
		unit := strings.ToLower(rec.Unit)
		if unit == "" {
			unit = defaultUnit
		}
		key := fuelKey{
			FuelType: strings.ToLower(rec.FuelType),
			Unit:     unit,
			Quantity: round1(rec.Quantity),
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], rec)
	}
	return groups
}
