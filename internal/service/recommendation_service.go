package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"carbonlens/internal/dto"
	"carbonlens/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Collaborator interfaces. The repositories implement these; tests supply
// in-memory fakes.

type VendorSource interface {
	List(ctx context.Context) ([]models.Vendor, error)
}

type ActivitySource interface {
	ListShipping(ctx context.Context) ([]models.ShippingRecord, error)
	ListVehicleFuel(ctx context.Context) ([]models.FuelRecord, error)
	ListStationaryFuel(ctx context.Context) ([]models.FuelRecord, error)
	ListElectricity(ctx context.Context) ([]models.ElectricityRecord, error)
	FallbackActivityID(ctx context.Context) (*int64, error)
}

type RecommendationStore interface {
	ReplaceAll(ctx context.Context, recs []models.Recommendation) error
	List(ctx context.Context, criterion *models.Criterion) ([]models.Recommendation, error)
}

type SnapshotRefresher interface {
	Refresh(ctx context.Context) error
}

// RecommendationService runs the content-based recommendation pipeline:
// load, group, generate candidates per criterion, normalize scores
// globally, MMR-rerank per criterion, then atomically replace the stored
// set and refresh the dashboard snapshot.
type RecommendationService struct {
	vendors    VendorSource
	activities ActivitySource
	store      RecommendationStore
	snapshots  SnapshotRefresher
	params     Params
	logger     *zap.Logger
}

func NewRecommendationService(
	vendors VendorSource,
	activities ActivitySource,
	store RecommendationStore,
	snapshots SnapshotRefresher,
	params Params,
	logger *zap.Logger,
) *RecommendationService {
	return &RecommendationService{
		vendors:    vendors,
		activities: activities,
		store:      store,
		snapshots:  snapshots,
		params:     params,
		logger:     logger,
	}
}

// Generate runs the full pipeline once. Not safe for concurrent overlapping
// runs against the same store; callers must serialize.
func (s *RecommendationService) Generate(ctx context.Context) (*dto.GenerateSummary, error) {
	vendors, err := s.vendors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendors: %w", err)
	}
	shipping, err := s.activities.ListShipping(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load shipping records: %w", err)
	}
	vehicleFuel, err := s.activities.ListVehicleFuel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicle fuel records: %w", err)
	}
	stationaryFuel, err := s.activities.ListStationaryFuel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stationary fuel records: %w", err)
	}
	electricity, err := s.activities.ListElectricity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load electricity records: %w", err)
	}
	fallbackActivityID, err := s.activities.FallbackActivityID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load fallback activity: %w", err)
	}

	var logistics, energy []models.Vendor
	for _, v := range vendors {
		switch {
		case v.Category == models.CategoryLogistics:
			logistics = append(logistics, v)
		case v.IsEnergy():
			energy = append(energy, v)
		}
	}

	shipGroups := GroupShipping(shipping)
	vehGroups := GroupFuel(vehicleFuel, "gallon")
	statGroups := GroupFuel(stationaryFuel, "therm")

	c1 := CloserHaulerCandidates(shipGroups, logistics, s.params)
	c2 := AlternativeMaterialCandidates(vendors, fallbackActivityID, s.params)
	c3 := ChangeShipmentCandidates(shipGroups, s.params)
	c4 := ReduceFuelCandidates(vehGroups, statGroups, energy, s.params)
	c5 := GreenElectricityCandidates(electricity, energy, s.params)

	all := make([]models.Candidate, 0, len(c1)+len(c2)+len(c3)+len(c4)+len(c5))
	all = append(all, c1...)
	all = append(all, c2...)
	all = append(all, c3...)
	all = append(all, c4...)
	all = append(all, c5...)

	s.logger.Info("Candidates generated",
		zap.Int("hauler", len(c1)),
		zap.Int("material", len(c2)),
		zap.Int("mode", len(c3)),
		zap.Int("fuel", len(c4)),
		zap.Int("electricity", len(c5)),
		zap.Int("total", len(all)),
	)

	NormalizeScores(all)

	// MMR runs per criterion so every criterion present in the input stays
	// represented in the output, while near-duplicates within one criterion
	// are suppressed.
	byCriterion := make(map[models.Criterion][]models.Candidate)
	var criterionOrder []models.Criterion
	for _, c := range all {
		if _, ok := byCriterion[c.Criterion]; !ok {
			criterionOrder = append(criterionOrder, c.Criterion)
		}
		byCriterion[c.Criterion] = append(byCriterion[c.Criterion], c)
	}

	var selected []models.Candidate
	for _, crit := range criterionOrder {
		cands := byCriterion[crit]
		sort.SliceStable(cands, func(i, j int) bool {
			return cands[i].Score > cands[j].Score
		})
		diverse := MMRRerank(cands, s.params.Lambda, s.params.DuplicateThreshold)
		if len(diverse) > s.params.TopN {
			diverse = diverse[:s.params.TopN]
		}
		selected = append(selected, diverse...)
	}

	now := time.Now().UTC()
	recs := make([]models.Recommendation, 0, len(selected))
	for _, c := range selected {
		if c.ActivityID == nil {
			// Cannot be shown against a specific activity in the UI.
			continue
		}
		recs = append(recs, models.Recommendation{
			ID:                uuid.New(),
			ActivityID:        *c.ActivityID,
			Text:              c.Text,
			Criteria:          c.Criterion,
			CurrentKgCO2e:     c.CurrentKg,
			RecommendedKgCO2e: c.RecommendedKg,
			SavingKgCO2e:      c.SavingKg,
			Score:             c.Score,
			SourceParsedID:    c.SourceParsedID,
			RecordCount:       c.RecordCount,
			CreatedAt:         now,
		})
	}

	if err := s.store.ReplaceAll(ctx, recs); err != nil {
		return nil, fmt.Errorf("failed to persist recommendations: %w", err)
	}

	if err := s.snapshots.Refresh(ctx); err != nil {
		// The authoritative write already succeeded; a stale snapshot is
		// tolerable.
		s.logger.Warn("Could not refresh dashboard snapshot", zap.Error(err))
	}

	totalSaving := 0.0
	echoes := make([]dto.RecommendationEcho, 0, len(selected))
	for _, c := range selected {
		totalSaving += c.TotalSavingKg
		echoes = append(echoes, dto.RecommendationEcho{
			Criteria:        string(c.Criterion),
			RecordsAffected: c.RecordCount,
			SavingKg:        c.SavingKg,
			TotalSavingKg:   c.TotalSavingKg,
			Score:           c.Score,
			Similarity:      c.Similarity,
			Text:            c.Text,
		})
	}

	return &dto.GenerateSummary{
		VendorsUsed:          len(vendors),
		ShippingGroups:       len(shipGroups),
		VehicleFuelGroups:    len(vehGroups),
		StationaryFuelGroups: len(statGroups),
		Candidates: dto.CandidateCounts{
			Hauler:      len(c1),
			Material:    len(c2),
			Mode:        len(c3),
			Fuel:        len(c4),
			Electricity: len(c5),
		},
		AfterDiversity:  len(selected),
		Saved:           len(recs),
		TotalSavingKg:   round4(totalSaving),
		Recommendations: echoes,
	}, nil
}

// Fetch reads back the persisted recommendations ordered by score,
// optionally filtered by criterion, annotated with the display priority
// tier.
func (s *RecommendationService) Fetch(ctx context.Context, criterion *models.Criterion) ([]dto.RecommendationResponse, error) {
	recs, err := s.store.List(ctx, criterion)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recommendations: %w", err)
	}

	out := make([]dto.RecommendationResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, dto.RecommendationResponse{
			ID:                rec.ID.String(),
			Criteria:          string(rec.Criteria),
			Title:             rec.Criteria.Title(),
			Description:       rec.Text,
			CurrentKgCO2e:     rec.CurrentKgCO2e,
			RecommendedKgCO2e: rec.RecommendedKgCO2e,
			SavingKgCO2e:      rec.SavingKgCO2e,
			Score:             rec.Score,
			RecordsAffected:   rec.RecordCount,
			Priority:          rec.Priority(),
			Category:          string(rec.Criteria),
		})
	}
	return out, nil
}
