package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// SnapshotRepository refreshes the cached dashboard payload after a
// successful engine run so the dashboard can serve without recomputing.
type SnapshotRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSnapshotRepository(db *pgxpool.Pool, logger *zap.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		db:     db,
		logger: logger,
	}
}

type snapshotRecommendation struct {
	Criteria        string  `json:"criteria"`
	Description     string  `json:"description"`
	SavingKgCO2e    float64 `json:"saving_kg_co2e"`
	Score           float64 `json:"score"`
	RecordsAffected int     `json:"records_affected"`
	Priority        string  `json:"priority"`
}

type snapshotPayload struct {
	Recommendations []snapshotRecommendation `json:"recommendations"`
	TotalSavingKg   float64                  `json:"total_saving_kg"`
	RefreshedAt     time.Time                `json:"refreshed_at"`
}

// Refresh rebuilds the recommendation section of the dashboard snapshot
// from the currently stored set and upserts the singleton snapshot row.
func (r *SnapshotRepository) Refresh(ctx context.Context) error {
	recRepo := NewRecommendationRepository(r.db, r.logger)
	recs, err := recRepo.List(ctx, nil)
	if err != nil {
		return err
	}

	payload := snapshotPayload{
		Recommendations: make([]snapshotRecommendation, 0, len(recs)),
		RefreshedAt:     time.Now().UTC(),
	}
	for _, rec := range recs {
		payload.Recommendations = append(payload.Recommendations, snapshotRecommendation{
			Criteria:        string(rec.Criteria),
			Description:     rec.Text,
			SavingKgCO2e:    rec.SavingKgCO2e,
			Score:           rec.Score,
			RecordsAffected: rec.RecordCount,
			Priority:        rec.Priority(),
		})
		payload.TotalSavingKg += rec.SavingKgCO2e * float64(rec.RecordCount)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	sql, args, err := squirrel.Insert("dashboard_snapshot").
		Columns("id", "payload", "refreshed_at").
		Values(1, raw, squirrel.Expr("NOW()")).
		Suffix("ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, refreshed_at = NOW()").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return err
	}

	r.logger.Info("Dashboard snapshot refreshed", zap.Int("recommendations", len(recs)))
	return nil
}
