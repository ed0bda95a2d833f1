package repository

import (
	"context"
	"errors"

	"carbonlens/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ActivityRepository reads the parsed activity records produced by the
// extraction pipeline, left-joined to their activity and emission rows.
// Emission figures may be missing when calculation has not run yet.
type ActivityRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewActivityRepository(db *pgxpool.Pool, logger *zap.Logger) *ActivityRepository {
	return &ActivityRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ActivityRepository) recordQuery(table string, columns ...string) squirrel.SelectBuilder {
	cols := append([]string{"t.parsed_id", "t.document_id"}, columns...)
	cols = append(cols, "a.activity_id", "e.emissions_kg_co2e")
	return squirrel.Select(cols...).
		From(table + " t").
		LeftJoin("activities a ON a.parsed_table = '" + table + "' AND a.parsed_id = t.parsed_id").
		LeftJoin("emissions e ON e.activity_id = a.activity_id").
		OrderBy("t.parsed_id").
		PlaceholderFormat(squirrel.Dollar)
}

func (r *ActivityRepository) ListShipping(ctx context.Context) ([]models.ShippingRecord, error) {
	sql, args, err := r.recordQuery("parsed_shipping",
		"t.weight_tons", "t.distance_miles", "t.transport_mode").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.ShippingRecord
	for rows.Next() {
		var rec models.ShippingRecord
		var docID *int64
		var weight, distance *float64
		var mode *string
		if err := rows.Scan(
			&rec.ParsedID, &docID, &weight, &distance, &mode,
			&rec.ActivityID, &rec.EmissionsKg,
		); err != nil {
			return nil, err
		}
		if docID != nil {
			rec.DocumentID = *docID
		}
		if weight != nil {
			rec.WeightTons = *weight
		}
		if distance != nil {
			rec.DistanceMiles = *distance
		}
		if mode != nil {
			rec.TransportMode = *mode
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *ActivityRepository) ListVehicleFuel(ctx context.Context) ([]models.FuelRecord, error) {
	return r.listFuel(ctx, "parsed_vehicle_fuel")
}

func (r *ActivityRepository) ListStationaryFuel(ctx context.Context) ([]models.FuelRecord, error) {
	return r.listFuel(ctx, "parsed_stationary_fuel")
}

func (r *ActivityRepository) listFuel(ctx context.Context, table string) ([]models.FuelRecord, error) {
	sql, args, err := r.recordQuery(table, "t.fuel_type", "t.quantity", "t.unit").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.FuelRecord
	for rows.Next() {
		var rec models.FuelRecord
		var docID *int64
		var fuelType, unit *string
		var quantity *float64
		if err := rows.Scan(
			&rec.ParsedID, &docID, &fuelType, &quantity, &unit,
			&rec.ActivityID, &rec.EmissionsKg,
		); err != nil {
			return nil, err
		}
		if docID != nil {
			rec.DocumentID = *docID
		}
		if fuelType != nil {
			rec.FuelType = *fuelType
		}
		if quantity != nil {
			rec.Quantity = *quantity
		}
		if unit != nil {
			rec.Unit = *unit
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *ActivityRepository) ListElectricity(ctx context.Context) ([]models.ElectricityRecord, error) {
	sql, args, err := r.recordQuery("parsed_electricity",
		"t.kwh", "t.unit", "t.location").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.ElectricityRecord
	for rows.Next() {
		var rec models.ElectricityRecord
		var docID *int64
		var kwh *float64
		var unit, location *string
		if err := rows.Scan(
			&rec.ParsedID, &docID, &kwh, &unit, &location,
			&rec.ActivityID, &rec.EmissionsKg,
		); err != nil {
			return nil, err
		}
		if docID != nil {
			rec.DocumentID = *docID
		}
		if kwh != nil {
			rec.KWh = *kwh
		}
		if unit != nil {
			rec.Unit = *unit
		}
		if location != nil {
			rec.Location = *location
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// FallbackActivityID returns the lowest existing activity id, used to
// anchor candidates that have no natural activity link. Nil when the
// activities table is empty.
func (r *ActivityRepository) FallbackActivityID(ctx context.Context) (*int64, error) {
	sql, args, err := squirrel.Select("activity_id").
		From("activities").
		OrderBy("activity_id").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}
