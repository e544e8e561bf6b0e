package coldchain

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const selectFarmRecords = `
SELECT farm_location, crop, cold_storage_location,
       farm_to_storage_km, farm_to_storage_hrs,
       market_location, storage_to_market_km, storage_to_market_hrs,
       optimal_storage_temp_c, spoilage_rate_pct_per_week,
       storage_cost_per_crate_day, transport_cost_per_ton_km
  FROM farm_records
 ORDER BY id`

const insertFarmRecord = `
INSERT INTO farm_records (
    farm_location, crop, cold_storage_location,
    farm_to_storage_km, farm_to_storage_hrs,
    market_location, storage_to_market_km, storage_to_market_hrs,
    optimal_storage_temp_c, spoilage_rate_pct_per_week,
    storage_cost_per_crate_day, transport_cost_per_ton_km
) VALUES (
    :farm_location, :crop, :cold_storage_location,
    :farm_to_storage_km, :farm_to_storage_hrs,
    :market_location, :storage_to_market_km, :storage_to_market_hrs,
    :optimal_storage_temp_c, :spoilage_rate_pct_per_week,
    :storage_cost_per_crate_day, :transport_cost_per_ton_km
)`

// ConnectDB opens the PostgreSQL connection configured by DATABASE_URL and
// applies schema.sql when present. For production, use migrations.
func ConnectDB() (*sqlx.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if schema, err := os.ReadFile("schema.sql"); err == nil {
		db.MustExec(string(schema))
		log.Println("Applied schema.sql successfully.")
	}
	return db, nil
}

// LoadDatasetFromDB reads the farm_records table and runs it through the
// same cleaning as the CSV path. Row order follows insert order, so
// tie-breaking matches a dataset imported by cmd/import-dataset.
func LoadDatasetFromDB(db *sqlx.DB) (*Dataset, error) {
	var raw []FarmRecord
	if err := db.Select(&raw, selectFarmRecords); err != nil {
		return nil, fmt.Errorf("select farm_records: %w", err)
	}

	outcome := ValidationOutcome{OK: true, NullCounts: make(map[string]int)}
	records := make([]FarmRecord, 0, len(raw))
	for _, rec := range raw {
		countRecordNulls(rec, outcome.NullCounts)
		if !normalizeRecord(&rec) {
			outcome.DroppedRows++
			continue
		}
		records = append(records, rec)
	}

	return &Dataset{
		Records:    records,
		Validation: outcome,
		Source:     "postgres",
		LoadedAt:   time.Now(),
	}, nil
}

// ImportRecords inserts a cleaned dataset into farm_records, preserving
// dataset order. Failed rows are logged and skipped so one bad row does not
// abort the batch.
func ImportRecords(db *sqlx.DB, ds *Dataset, truncate bool) (int, error) {
	if truncate {
		if _, err := db.Exec("TRUNCATE farm_records RESTART IDENTITY"); err != nil {
			return 0, fmt.Errorf("truncate farm_records: %w", err)
		}
	}

	count := 0
	for _, rec := range ds.Records {
		if _, err := db.NamedExec(insertFarmRecord, rec); err != nil {
			log.Printf("[import] failed to insert record for %s/%s: %v", rec.FarmLocation, rec.Crop, err)
			continue
		}
		count++
	}
	return count, nil
}

func countRecordNulls(rec FarmRecord, counts map[string]int) {
	stringCols := map[string]string{
		ColFarmLocation:    rec.FarmLocation,
		ColCrop:            rec.Crop,
		ColStorageLocation: rec.ColdStorageLocation,
		ColMarketLocation:  rec.MarketLocation,
	}
	for col, v := range stringCols {
		if isNull(v) {
			counts[col]++
		}
	}

	numericCols := map[string]bool{
		ColStorageKM:     rec.FarmToStorageKM.Valid,
		ColStorageHrs:    rec.FarmToStorageHrs.Valid,
		ColMarketKM:      rec.StorageToMarketKM.Valid,
		ColMarketHrs:     rec.StorageToMarketHrs.Valid,
		ColOptimalTemp:   rec.OptimalStorageTempC.Valid,
		ColSpoilageRate:  rec.SpoilageRatePctWeek.Valid,
		ColStorageCost:   rec.StorageCostPerCrateDay.Valid,
		ColTransportCost: rec.TransportCostPerTonKM.Valid,
	}
	for col, valid := range numericCols {
		if !valid {
			counts[col]++
		}
	}
}
