package repository

import (
	"context"
	"fmt"

	"carbonlens/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type RecommendationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewRecommendationRepository(db *pgxpool.Pool, logger *zap.Logger) *RecommendationRepository {
	return &RecommendationRepository{
		db:     db,
		logger: logger,
	}
}

// ReplaceAll deletes every stored recommendation and inserts the given set
// in one transaction. On any failure the transaction rolls back and the
// previous set stays visible to readers.
func (r *RecommendationRepository) ReplaceAll(ctx context.Context, recs []models.Recommendation) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM recommendations"); err != nil {
		return fmt.Errorf("failed to clear recommendations: %w", err)
	}

	for _, rec := range recs {
		sql, args, err := squirrel.Insert("recommendations").
			Columns("id", "activity_id", "recommendation_text", "criteria",
				"current_kg_co2e", "recommended_kg_co2e", "saving_kg_co2e",
				"score", "source_parsed_id", "record_count", "created_at").
			Values(rec.ID, rec.ActivityID, rec.Text, rec.Criteria,
				rec.CurrentKgCO2e, rec.RecommendedKgCO2e, rec.SavingKgCO2e,
				rec.Score, rec.SourceParsedID, rec.RecordCount, rec.CreatedAt).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("failed to insert recommendation: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit recommendations: %w", err)
	}

	r.logger.Info("Recommendations replaced", zap.Int("count", len(recs)))
	return nil
}

// List returns stored recommendations ordered by score descending,
// optionally filtered by criterion.
func (r *RecommendationRepository) List(ctx context.Context, criterion *models.Criterion) ([]models.Recommendation, error) {
	query := squirrel.Select("id", "activity_id", "recommendation_text", "criteria",
		"current_kg_co2e", "recommended_kg_co2e", "saving_kg_co2e",
		"score", "source_parsed_id", "record_count", "created_at").
		From("recommendations").
		OrderBy("score DESC", "created_at").
		PlaceholderFormat(squirrel.Dollar)

	if criterion != nil {
		query = query.Where(squirrel.Eq{"criteria": *criterion})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []models.Recommendation
	for rows.Next() {
		var rec models.Recommendation
		if err := rows.Scan(
			&rec.ID, &rec.ActivityID, &rec.Text, &rec.Criteria,
			&rec.CurrentKgCO2e, &rec.RecommendedKgCO2e, &rec.SavingKgCO2e,
			&rec.Score, &rec.SourceParsedID, &rec.RecordCount, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}
