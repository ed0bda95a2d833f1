package main

import (
	"context"
	"log"

	"carbonlens/pkg/config"
	"carbonlens/pkg/logger"
	"carbonlens/pkg/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Seeds a sample vendor registry and a small synthetic set of parsed
// records so a fresh database can exercise the recommendation engine.
// Vendors are upserted; synthetic records are only inserted into an empty
// database.

type vendor struct {
	ID               string
	Name             string
	Category         string
	ProductOrService string
	CarbonIntensity  float64
	Sustainability   int
	DistanceKm       float64
}

var sampleVendors = []vendor{
	{"V-001", "GreenHaul Freight", "Logistics", "Regional trucking", 0.0950, 90, 200},
	{"V-002", "Continental Carriers", "Logistics", "Long-haul trucking", 0.1480, 55, 900},
	{"V-003", "Clearwind Power", "Energy", "Renewable electricity supply", 0.0500, 92, 120},
	{"V-004", "Metro Gas & Electric", "Energy", "Grid electricity and gas", 0.4100, 48, 40},
	{"V-005", "EverBoard Supply", "Materials", "Corrugated board", 50.0000, 42, 310},
	{"V-006", "Verdant Materials", "Materials", "Recycled corrugated board", 20.0000, 85, 150},
	{"V-007", "PackRight Co", "Packaging", "Mixed packaging", 34.5000, 51, 220},
	{"V-008", "LoopPack", "Packaging", "Reusable packaging", 12.2000, 88, 95},
}

type shipment struct {
	WeightTons    float64
	DistanceMiles float64
	Mode          string
	Repeat        int
}

var sampleShipments = []shipment{
	{2.0, 500, "truck", 3},
	{0.8, 850, "air", 1},
	{5.0, 300, "truck", 2},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()

	if err := postgres.RunMigrations(ctx, &cfg.Database); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	appLogger.Info("Seeding vendors")
	if err := seedVendors(ctx, db); err != nil {
		appLogger.Fatal("Failed to seed vendors", zap.Error(err))
	}

	appLogger.Info("Seeding synthetic records")
	if err := seedRecords(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to seed records", zap.Error(err))
	}

	appLogger.Info("Seeding completed")
}

func seedVendors(ctx context.Context, db *pgxpool.Pool) error {
	const upsert = `
		INSERT INTO vendors
			(vendor_id, vendor_name, category, product_or_service,
			 carbon_intensity, sustainability_score, distance_km_from_sme)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (vendor_id) DO UPDATE SET
			vendor_name          = EXCLUDED.vendor_name,
			category             = EXCLUDED.category,
			product_or_service   = EXCLUDED.product_or_service,
			carbon_intensity     = EXCLUDED.carbon_intensity,
			sustainability_score = EXCLUDED.sustainability_score,
			distance_km_from_sme = EXCLUDED.distance_km_from_sme`

	for _, v := range sampleVendors {
		if _, err := db.Exec(ctx, upsert,
			v.ID, v.Name, v.Category, v.ProductOrService,
			v.CarbonIntensity, v.Sustainability, v.DistanceKm,
		); err != nil {
			return err
		}
	}
	return nil
}

func seedRecords(ctx context.Context, db *pgxpool.Pool, appLogger *zap.Logger) error {
	var existing int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM parsed_shipping").Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		appLogger.Info("Parsed records already present, skipping", zap.Int("shipping", existing))
		return nil
	}

	var docID int64
	err := db.QueryRow(ctx,
		"INSERT INTO documents (file_name, doc_type) VALUES ($1, $2) RETURNING document_id",
		"synthetic_seed.pdf", "synthetic",
	).Scan(&docID)
	if err != nil {
		return err
	}

	addActivity := func(parsedTable string, parsedID int64, activityType string, scope int, emissionsKg float64) error {
		var activityID int64
		err := db.QueryRow(ctx,
			`INSERT INTO activities (parsed_table, parsed_id, activity_type, scope)
			 VALUES ($1, $2, $3, $4) RETURNING activity_id`,
			parsedTable, parsedID, activityType, scope,
		).Scan(&activityID)
		if err != nil {
			return err
		}
		_, err = db.Exec(ctx,
			"INSERT INTO emissions (activity_id, emissions_kg_co2e) VALUES ($1, $2)",
			activityID, emissionsKg,
		)
		return err
	}

	for _, s := range sampleShipments {
		for i := 0; i < s.Repeat; i++ {
			var parsedID int64
			err := db.QueryRow(ctx,
				`INSERT INTO parsed_shipping (document_id, weight_tons, distance_miles, transport_mode)
				 VALUES ($1, $2, $3, $4) RETURNING parsed_id`,
				docID, s.WeightTons, s.DistanceMiles, s.Mode,
			).Scan(&parsedID)
			if err != nil {
				return err
			}
			if err := addActivity("parsed_shipping", parsedID, "shipping", 3, s.WeightTons*s.DistanceMiles*0.1693); err != nil {
				return err
			}
		}
	}

	vehicleFuel := []struct {
		Fuel     string
		Quantity float64
		Unit     string
	}{
		{"diesel", 120.0, "gallon"},
		{"diesel", 120.0, "gallon"},
		{"gasoline", 60.0, "gallon"},
	}
	for _, f := range vehicleFuel {
		var parsedID int64
		err := db.QueryRow(ctx,
			`INSERT INTO parsed_vehicle_fuel (document_id, fuel_type, quantity, unit)
			 VALUES ($1, $2, $3, $4) RETURNING parsed_id`,
			docID, f.Fuel, f.Quantity, f.Unit,
		).Scan(&parsedID)
		if err != nil {
			return err
		}
		if err := addActivity("parsed_vehicle_fuel", parsedID, "vehicle_fuel", 1, f.Quantity*10.18); err != nil {
			return err
		}
	}

	var statParsedID int64
	err = db.QueryRow(ctx,
		`INSERT INTO parsed_stationary_fuel (document_id, fuel_type, quantity, unit)
		 VALUES ($1, $2, $3, $4) RETURNING parsed_id`,
		docID, "heating_oil", 200.0, "gallon",
	).Scan(&statParsedID)
	if err != nil {
		return err
	}
	if err := addActivity("parsed_stationary_fuel", statParsedID, "stationary_fuel", 1, 200.0*10.153); err != nil {
		return err
	}

	for _, kwh := range []float64{6200, 3800} {
		var parsedID int64
		err := db.QueryRow(ctx,
			`INSERT INTO parsed_electricity (document_id, kwh, unit, location)
			 VALUES ($1, $2, $3, $4) RETURNING parsed_id`,
			docID, kwh, "kWh", "main site",
		).Scan(&parsedID)
		if err != nil {
			return err
		}
		if err := addActivity("parsed_electricity", parsedID, "electricity", 2, kwh*0.3862); err != nil {
			return err
		}
	}

	return nil
}
