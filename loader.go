package coldchain

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Canonical column names: the source table headers, trimmed and lower-cased.
const (
	ColFarmLocation    = "farm location"
	ColCrop            = "crop"
	ColStorageLocation = "cold storage location"
	ColStorageKM       = "farm to cold storage(km)"
	ColStorageHrs      = "farm to cold storage(hrs)"
	ColMarketLocation  = "market location"
	ColMarketKM        = "cold storage to market(km)"
	ColMarketHrs       = "cold storage to market(hrs)"
	ColOptimalTemp     = "optimal storage temp(degree c)"
	ColSpoilageRate    = "spoilage rate at optimal temp(%)per week"
	ColStorageCost     = "storage cost(#/crate/day)"
	ColTransportCost   = "transport cost for 20 ton load(#/km)"
)

// RequiredColumns must all be present or the load is rejected wholesale.
var RequiredColumns = []string{
	ColFarmLocation,
	ColCrop,
	ColStorageLocation,
	ColStorageKM,
	ColStorageHrs,
	ColMarketLocation,
	ColMarketKM,
	ColMarketHrs,
	ColOptimalTemp,
	ColSpoilageRate,
	ColStorageCost,
	ColTransportCost,
}

// MissingColumnsError rejects a table whose header lacks required columns.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("dataset is missing required columns: %s", strings.Join(e.Columns, ", "))
}

// LoadCSVFile loads and validates the dataset from a CSV file.
func LoadCSVFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Load(f, path)
}

// Load reads a delimited table, checks the required columns, counts nulls,
// and cleans the rows into an immutable Dataset. A missing column aborts the
// load with *MissingColumnsError before any row is read.
func Load(r io.Reader, source string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(rows) == 0 {
		return nil, &MissingColumnsError{Columns: append([]string(nil), RequiredColumns...)}
	}

	index := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(header))] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	outcome := ValidationOutcome{OK: true, NullCounts: make(map[string]int)}
	records := make([]FarmRecord, 0, len(rows)-1)

	for _, row := range rows[1:] {
		cell := func(col string) string {
			i := index[col]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		num := func(col string) sql.NullFloat64 {
			v := cell(col)
			if isNull(v) {
				return sql.NullFloat64{}
			}
			f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
			if err != nil {
				outcome.ParseWarnings++
				return sql.NullFloat64{}
			}
			return sql.NullFloat64{Float64: f, Valid: true}
		}

		for _, col := range RequiredColumns {
			if isNull(cell(col)) {
				outcome.NullCounts[col]++
			}
		}

		rec := FarmRecord{
			FarmLocation:           cell(ColFarmLocation),
			Crop:                   cell(ColCrop),
			ColdStorageLocation:    cell(ColStorageLocation),
			FarmToStorageKM:        num(ColStorageKM),
			FarmToStorageHrs:       num(ColStorageHrs),
			MarketLocation:         cell(ColMarketLocation),
			StorageToMarketKM:      num(ColMarketKM),
			StorageToMarketHrs:     num(ColMarketHrs),
			OptimalStorageTempC:    num(ColOptimalTemp),
			SpoilageRatePctWeek:    num(ColSpoilageRate),
			StorageCostPerCrateDay: num(ColStorageCost),
			TransportCostPerTonKM:  num(ColTransportCost),
		}
		if !normalizeRecord(&rec) {
			outcome.DroppedRows++
			continue
		}
		records = append(records, rec)
	}

	return &Dataset{
		Records:    records,
		Validation: outcome,
		Source:     source,
		LoadedAt:   time.Now(),
	}, nil
}

// Validate runs the load pipeline and reports the outcome without keeping
// the data.
func Validate(r io.Reader) ValidationOutcome {
	ds, err := Load(r, "validate")
	if err != nil {
		var mce *MissingColumnsError
		if errors.As(err, &mce) {
			return ValidationOutcome{MissingColumns: mce.Columns}
		}
		return ValidationOutcome{}
	}
	return ds.Validation
}

// normalizeRecord trims the string fields in place and canonicalizes the
// crop to title case. It reports false when the record lacks a usable crop
// or farm location and should be dropped.
func normalizeRecord(rec *FarmRecord) bool {
	rec.FarmLocation = strings.TrimSpace(rec.FarmLocation)
	rec.Crop = strings.TrimSpace(rec.Crop)
	rec.ColdStorageLocation = strings.TrimSpace(rec.ColdStorageLocation)
	rec.MarketLocation = strings.TrimSpace(rec.MarketLocation)
	if isNull(rec.FarmLocation) || isNull(rec.Crop) {
		return false
	}
	rec.Crop = titleCase(rec.Crop)
	return true
}

// titleCase canonicalizes human-entered crop names ("TOMATO", "tomato") to
// one display form. A fresh Caser per call: cases.Caser is not safe to share
// across goroutines.
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}

func isNull(s string) bool {
	switch strings.ToLower(s) {
	case "", "na", "n/a", "nan", "null":
		return true
	}
	return false
}
