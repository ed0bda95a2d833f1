package service

import (
	"testing"

	"carbonlens/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupShippingCollapsesNearIdenticalRecords(t *testing.T) {
	records := []models.ShippingRecord{
		{ParsedID: 1, DistanceMiles: 500.2, WeightTons: 2.01, TransportMode: "Truck"},
		{ParsedID: 2, DistanceMiles: 499.8, WeightTons: 2.04, TransportMode: "truck"},
		{ParsedID: 3, DistanceMiles: 500.0, WeightTons: 2.0, TransportMode: ""},
		{ParsedID: 4, DistanceMiles: 120.0, WeightTons: 2.0, TransportMode: "truck"},
	}

	groups := GroupShipping(records)

	require.Len(t, groups, 2)
	// First-appearance order: the 500-mile bucket comes first.
	assert.Len(t, groups[0], 3)
	assert.Len(t, groups[1], 1)
	assert.Equal(t, int64(1), groups[0][0].ParsedID)
	assert.Equal(t, int64(4), groups[1][0].ParsedID)
}

func TestGroupShippingRoundingSplitsDistinctQuantities(t *testing.T) {
	records := []models.ShippingRecord{
		{ParsedID: 1, DistanceMiles: 100, WeightTons: 2.0, TransportMode: "truck"},
		{ParsedID: 2, DistanceMiles: 100, WeightTons: 2.2, TransportMode: "truck"},
		{ParsedID: 3, DistanceMiles: 100, WeightTons: 2.0, TransportMode: "rail"},
	}

	groups := GroupShipping(records)
	assert.Len(t, groups, 3)
}

func TestGroupFuelDefaultsUnit(t *testing.T) {
	records := []models.FuelRecord{
		{ParsedID: 1, FuelType: "Diesel", Quantity: 120.0, Unit: ""},
		{ParsedID: 2, FuelType: "diesel", Quantity: 120.04, Unit: "gallon"},
		{ParsedID: 3, FuelType: "diesel", Quantity: 120.0, Unit: "liter"},
	}

	groups := GroupFuel(records, "gallon")

	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 2)
	assert.Len(t, groups[1], 1)
}

func TestGroupOfOneBehavesLikeUngroupedRecord(t *testing.T) {
	records := []models.ShippingRecord{
		{ParsedID: 7, DistanceMiles: 42, WeightTons: 1.0, TransportMode: "truck"},
	}

	groups := GroupShipping(records)

	require.Len(t, groups, 1)
	require.Len(t, groups[0], 1)
	assert.Equal(t, records[0], groups[0][0])
}
