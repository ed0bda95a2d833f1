package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"carbonlens/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeVendorSource struct {
	vendors []models.Vendor
	err     error
}

func (f *fakeVendorSource) List(context.Context) ([]models.Vendor, error) {
	return f.vendors, f.err
}

type fakeActivitySource struct {
	shipping    []models.ShippingRecord
	vehicleFuel []models.FuelRecord
	stationary  []models.FuelRecord
	electricity []models.ElectricityRecord
	fallback    *int64
}

func (f *fakeActivitySource) ListShipping(context.Context) ([]models.ShippingRecord, error) {
	return f.shipping, nil
}

func (f *fakeActivitySource) ListVehicleFuel(context.Context) ([]models.FuelRecord, error) {
	return f.vehicleFuel, nil
}

func (f *fakeActivitySource) ListStationaryFuel(context.Context) ([]models.FuelRecord, error) {
	return f.stationary, nil
}

func (f *fakeActivitySource) ListElectricity(context.Context) ([]models.ElectricityRecord, error) {
	return f.electricity, nil
}

func (f *fakeActivitySource) FallbackActivityID(context.Context) (*int64, error) {
	return f.fallback, nil
}

type fakeRecommendationStore struct {
	recs        []models.Recommendation
	failReplace bool
}

func (f *fakeRecommendationStore) ReplaceAll(_ context.Context, recs []models.Recommendation) error {
	if f.failReplace {
		// Simulated rollback: the stored set stays untouched.
		return errors.New("write failed")
	}
	f.recs = append([]models.Recommendation(nil), recs...)
	return nil
}

func (f *fakeRecommendationStore) List(_ context.Context, criterion *models.Criterion) ([]models.Recommendation, error) {
	var out []models.Recommendation
	for _, rec := range f.recs {
		if criterion == nil || rec.Criteria == *criterion {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

type fakeSnapshotRefresher struct {
	err   error
	calls int
}

func (f *fakeSnapshotRefresher) Refresh(context.Context) error {
	f.calls++
	return f.err
}

func testFixtures() (*fakeVendorSource, *fakeActivitySource) {
	fallback := int64(1)
	vendors := &fakeVendorSource{vendors: []models.Vendor{
		{ID: "V-1", Name: "GreenHaul Freight", Category: "Logistics", CarbonIntensity: 0.095, SustainabilityScore: 90, DistanceKm: 200},
		{ID: "V-2", Name: "Continental Carriers", Category: "Logistics", CarbonIntensity: 0.148, SustainabilityScore: 55, DistanceKm: 900},
		{ID: "V-3", Name: "Clearwind Power", Category: "Energy", CarbonIntensity: 0.05, SustainabilityScore: 92, DistanceKm: 120},
		{ID: "V-4", Name: "EverBoard Supply", Category: "Materials", CarbonIntensity: 50, SustainabilityScore: 42, DistanceKm: 310},
		{ID: "V-5", Name: "Verdant Materials", Category: "Materials", CarbonIntensity: 20, SustainabilityScore: 85, DistanceKm: 150},
	}}

	shipAct := []int64{10, 11, 12}
	activities := &fakeActivitySource{
		shipping: []models.ShippingRecord{
			{ParsedID: 1, DistanceMiles: 500, WeightTons: 2.0, TransportMode: "truck", ActivityID: &shipAct[0]},
			{ParsedID: 2, DistanceMiles: 500, WeightTons: 2.0, TransportMode: "truck", ActivityID: &shipAct[1]},
			{ParsedID: 3, DistanceMiles: 500, WeightTons: 2.0, TransportMode: "truck", ActivityID: &shipAct[2]},
		},
		vehicleFuel: []models.FuelRecord{
			{ParsedID: 4, FuelType: "diesel", Quantity: 120, Unit: "gallon", ActivityID: int64Ptr(13)},
		},
		stationary: []models.FuelRecord{
			{ParsedID: 5, FuelType: "heating_oil", Quantity: 200, Unit: "gallon", ActivityID: int64Ptr(14)},
		},
		electricity: []models.ElectricityRecord{
			{ParsedID: 6, KWh: 6200, ActivityID: int64Ptr(15)},
			{ParsedID: 7, KWh: 3800, ActivityID: int64Ptr(16)},
		},
		fallback: &fallback,
	}
	return vendors, activities
}

func newTestService(vendors *fakeVendorSource, activities *fakeActivitySource, store *fakeRecommendationStore, snapshots *fakeSnapshotRefresher) *RecommendationService {
	return NewRecommendationService(vendors, activities, store, snapshots, DefaultParams(), zap.NewNop())
}

func TestGenerateFullRun(t *testing.T) {
	vendors, activities := testFixtures()
	store := &fakeRecommendationStore{}
	snapshots := &fakeSnapshotRefresher{}
	svc := newTestService(vendors, activities, store, snapshots)

	summary, err := svc.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, summary.VendorsUsed)
	assert.Equal(t, 1, summary.ShippingGroups)
	assert.Equal(t, 1, summary.VehicleFuelGroups)
	assert.Equal(t, 1, summary.StationaryFuelGroups)
	assert.Equal(t, 1, summary.Candidates.Hauler)
	assert.Equal(t, 1, summary.Candidates.Material)
	assert.Equal(t, 1, summary.Candidates.Mode)
	assert.Equal(t, 2, summary.Candidates.Fuel)
	assert.Equal(t, 1, summary.Candidates.Electricity)
	assert.Equal(t, summary.Saved, len(store.recs))
	assert.Equal(t, 1, snapshots.calls)
	assert.Positive(t, summary.TotalSavingKg)

	for _, rec := range store.recs {
		assert.NotZero(t, rec.ActivityID)
		assert.GreaterOrEqual(t, rec.Score, 0.0)
		assert.LessOrEqual(t, rec.Score, 1.0)
		assert.Positive(t, rec.SavingKgCO2e)
	}
}

type persistedKey struct {
	Criteria models.Criterion
	Text     string
	Score    float64
	Saving   float64
	Count    int
}

func persistedKeys(recs []models.Recommendation) []persistedKey {
	keys := make([]persistedKey, 0, len(recs))
	for _, rec := range recs {
		keys = append(keys, persistedKey{
			Criteria: rec.Criteria,
			Text:     rec.Text,
			Score:    rec.Score,
			Saving:   rec.SavingKgCO2e,
			Count:    rec.RecordCount,
		})
	}
	return keys
}

func TestGenerateIdempotentOnUnchangedStore(t *testing.T) {
	vendors, activities := testFixtures()
	store := &fakeRecommendationStore{}
	svc := newTestService(vendors, activities, store, &fakeSnapshotRefresher{})

	_, err := svc.Generate(context.Background())
	require.NoError(t, err)
	first := persistedKeys(store.recs)

	_, err = svc.Generate(context.Background())
	require.NoError(t, err)
	second := persistedKeys(store.recs)

	// Row ids and timestamps differ between runs; everything else must not.
	assert.Equal(t, first, second)
}

func TestGenerateFailedWriteLeavesOldSetIntact(t *testing.T) {
	old := []models.Recommendation{
		{ID: uuid.New(), ActivityID: 1, Text: "previous", Criteria: models.CriterionGreenElectricity, Score: 0.4, RecordCount: 1, CreatedAt: time.Now()},
	}
	vendors, activities := testFixtures()
	store := &fakeRecommendationStore{recs: old, failReplace: true}
	snapshots := &fakeSnapshotRefresher{}
	svc := newTestService(vendors, activities, store, snapshots)

	_, err := svc.Generate(context.Background())
	require.Error(t, err)

	fetched, err := store.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, fetched, 1)
	assert.Equal(t, "previous", fetched[0].Text)
	// The snapshot must not refresh after a failed write.
	assert.Zero(t, snapshots.calls)
}

func TestGenerateSnapshotFailureDoesNotFailRun(t *testing.T) {
	vendors, activities := testFixtures()
	store := &fakeRecommendationStore{}
	snapshots := &fakeSnapshotRefresher{err: errors.New("snapshot down")}
	svc := newTestService(vendors, activities, store, snapshots)

	summary, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, store.recs)
	assert.Equal(t, summary.Saved, len(store.recs))
}

func TestGenerateDropsCandidatesWithoutActivity(t *testing.T) {
	// Material substitution advice needs the fallback activity; without one
	// it is generated but cannot be persisted.
	vendors := &fakeVendorSource{vendors: []models.Vendor{
		{ID: "V-4", Name: "EverBoard Supply", Category: "Materials", CarbonIntensity: 50, SustainabilityScore: 42, DistanceKm: 310},
		{ID: "V-5", Name: "Verdant Materials", Category: "Materials", CarbonIntensity: 20, SustainabilityScore: 85, DistanceKm: 150},
	}}
	activities := &fakeActivitySource{fallback: nil}
	store := &fakeRecommendationStore{}
	svc := newTestService(vendors, activities, store, &fakeSnapshotRefresher{})

	summary, err := svc.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Candidates.Material)
	assert.Equal(t, 1, summary.AfterDiversity)
	assert.Zero(t, summary.Saved)
	assert.Empty(t, store.recs)
}

func TestGenerateAbortsBeforeWriteWhenLoadFails(t *testing.T) {
	vendors := &fakeVendorSource{err: errors.New("store unreachable")}
	store := &fakeRecommendationStore{recs: []models.Recommendation{
		{ID: uuid.New(), ActivityID: 1, Text: "previous", Criteria: models.CriterionGreenElectricity},
	}}
	svc := newTestService(vendors, &fakeActivitySource{}, store, &fakeSnapshotRefresher{})

	_, err := svc.Generate(context.Background())
	require.Error(t, err)
	assert.Len(t, store.recs, 1)
}

func TestFetchDerivesPriorityTiers(t *testing.T) {
	store := &fakeRecommendationStore{recs: []models.Recommendation{
		{ID: uuid.New(), ActivityID: 1, Criteria: models.CriterionBetterCloserHauler, SavingKgCO2e: 5.0, Score: 0.9, Text: "big", RecordCount: 3},
		{ID: uuid.New(), ActivityID: 2, Criteria: models.CriterionReduceFuelEmissions, SavingKgCO2e: 2.0, Score: 0.5, Text: "mid", RecordCount: 1},
		{ID: uuid.New(), ActivityID: 3, Criteria: models.CriterionGreenElectricity, SavingKgCO2e: 0.4, Score: 0.1, Text: "small", RecordCount: 1},
	}}
	svc := newTestService(&fakeVendorSource{}, &fakeActivitySource{}, store, &fakeSnapshotRefresher{})

	out, err := svc.Fetch(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "high", out[0].Priority)
	assert.Equal(t, "medium", out[1].Priority)
	assert.Equal(t, "low", out[2].Priority)
	// Ordered by score descending.
	assert.Equal(t, "big", out[0].Description)
	assert.Equal(t, "Better Closer Hauler", out[0].Title)
}

func TestFetchFiltersByCriterion(t *testing.T) {
	store := &fakeRecommendationStore{recs: []models.Recommendation{
		{ID: uuid.New(), ActivityID: 1, Criteria: models.CriterionBetterCloserHauler, Score: 0.9, Text: "hauler"},
		{ID: uuid.New(), ActivityID: 2, Criteria: models.CriterionGreenElectricity, Score: 0.5, Text: "electricity"},
	}}
	svc := newTestService(&fakeVendorSource{}, &fakeActivitySource{}, store, &fakeSnapshotRefresher{})

	crit := models.CriterionGreenElectricity
	out, err := svc.Fetch(context.Background(), &crit)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "electricity", out[0].Description)
}
