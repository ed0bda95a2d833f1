package repository

import (
	"context"

	"carbonlens/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type VendorRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewVendorRepository(db *pgxpool.Pool, logger *zap.Logger) *VendorRepository {
	return &VendorRepository{
		db:     db,
		logger: logger,
	}
}

// List returns every vendor, best sustainability score first. The secondary
// name ordering keeps the result deterministic across runs.
func (r *VendorRepository) List(ctx context.Context) ([]models.Vendor, error) {
	query := squirrel.Select(
		"vendor_id", "vendor_name", "category", "product_or_service",
		"carbon_intensity", "sustainability_score", "distance_km_from_sme",
		"created_at",
	).
		From("vendors").
		OrderBy("sustainability_score DESC", "vendor_name").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []models.Vendor
	for rows.Next() {
		var v models.Vendor
		var distance *float64
		if err := rows.Scan(
			&v.ID, &v.Name, &v.Category, &v.ProductOrService,
			&v.CarbonIntensity, &v.SustainabilityScore, &distance, &v.CreatedAt,
		); err != nil {
			return nil, err
		}
		if distance != nil {
			v.DistanceKm = *distance
		}
		vendors = append(vendors, v)
	}

	return vendors, rows.Err()
}
