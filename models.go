package coldchain

import (
	"database/sql"
	"time"
)

// ---------- Dataset Models ----------

// FarmRecord is one observed farm → cold storage → market linkage.
// Numeric fields use sql.NullFloat64 so an unparseable or missing value
// stays distinguishable from zero all the way to the caller.
type FarmRecord struct {
	FarmLocation           string          `json:"farm_location" db:"farm_location"`
	Crop                   string          `json:"crop" db:"crop"`
	ColdStorageLocation    string          `json:"cold_storage_location" db:"cold_storage_location"`
	FarmToStorageKM        sql.NullFloat64 `json:"farm_to_storage_km" db:"farm_to_storage_km"`
	FarmToStorageHrs       sql.NullFloat64 `json:"farm_to_storage_hrs" db:"farm_to_storage_hrs"`
	MarketLocation         string          `json:"market_location" db:"market_location"`
	StorageToMarketKM      sql.NullFloat64 `json:"storage_to_market_km" db:"storage_to_market_km"`
	StorageToMarketHrs     sql.NullFloat64 `json:"storage_to_market_hrs" db:"storage_to_market_hrs"`
	OptimalStorageTempC    sql.NullFloat64 `json:"optimal_storage_temp_c" db:"optimal_storage_temp_c"`
	SpoilageRatePctWeek    sql.NullFloat64 `json:"spoilage_rate_pct_per_week" db:"spoilage_rate_pct_per_week"`
	StorageCostPerCrateDay sql.NullFloat64 `json:"storage_cost_per_crate_day" db:"storage_cost_per_crate_day"`
	TransportCostPerTonKM  sql.NullFloat64 `json:"transport_cost_per_ton_km" db:"transport_cost_per_ton_km"`
}

// ValidationOutcome reports what the load pipeline found in the raw table.
// MissingColumns is only populated when the load was rejected outright.
type ValidationOutcome struct {
	OK             bool           `json:"ok"`
	MissingColumns []string       `json:"missing_columns,omitempty"`
	NullCounts     map[string]int `json:"null_counts,omitempty"`
	DroppedRows    int            `json:"dropped_rows"`
	ParseWarnings  int            `json:"parse_warnings"`
}

// Dataset is the cleaned, immutable table every query runs against. It is
// built once per load; a reload produces a fresh value that the caller swaps
// in atomically.
type Dataset struct {
	Records    []FarmRecord      `json:"records"`
	Validation ValidationOutcome `json:"validation"`
	Source     string            `json:"source"`
	LoadedAt   time.Time         `json:"loaded_at"`
}

// ---------- API Response Models ----------

// RecommendationResult is the projection of the selected record returned to
// the caller. Pointer fields are nil when the underlying value was absent.
type RecommendationResult struct {
	FarmLocation           string   `json:"farm_location"`
	Crop                   string   `json:"crop"`
	StorageName            string   `json:"storage_name"`
	StorageKM              *float64 `json:"storage_km"`
	StorageHrs             *float64 `json:"storage_hrs"`
	MarketName             string   `json:"market_name"`
	MarketKM               *float64 `json:"market_km"`
	MarketHrs              *float64 `json:"market_hrs"`
	OptimalTempC           *float64 `json:"optimal_temp_c"`
	SpoilageRatePct        *float64 `json:"spoilage_rate_pct_per_week"`
	StorageCostPerCrateDay *float64 `json:"storage_cost_per_crate_day"`
	TransportCostPerTonKM  *float64 `json:"transport_cost_per_ton_km"`
	TransportCostTotal     *int64   `json:"transport_cost_total"`
	TotalTransitHrs        *float64 `json:"total_transit_hrs"`
	MatchedBy              string   `json:"matched_by"` // "exact" or "fuzzy"
}

// OutcomeKind distinguishes a found recommendation from an empty result and
// from an internal engine failure, so callers can message each differently.
type OutcomeKind string

const (
	OutcomeMatch   OutcomeKind = "match"
	OutcomeNoMatch OutcomeKind = "no_match"
	OutcomeFailure OutcomeKind = "engine_failure"
)

// RecommendationOutcome is the top-level payload of a single query.
type RecommendationOutcome struct {
	Kind    OutcomeKind           `json:"kind"`
	Result  *RecommendationResult `json:"result,omitempty"`
	Message string                `json:"message,omitempty"`
}

// StorageCount pairs a cold-storage facility with the number of farms it
// serves within one crop.
type StorageCount struct {
	Location string `json:"location"`
	Farms    int    `json:"farms"`
}

// CropSummary aggregates every record of one crop. The mean fields are nil
// when no row carried both a temperature and a spoilage rate.
type CropSummary struct {
	Crop             string         `json:"crop"`
	Records          int            `json:"records"`
	MeanOptimalTempC *float64       `json:"mean_optimal_temp_c"`
	MeanSpoilagePct  *float64       `json:"mean_spoilage_pct_per_week"`
	TopStorage       []StorageCount `json:"top_storage"`
}

// SpoilagePivot is a sparse location × crop matrix of mean weekly spoilage.
// A pair with no underlying data has no cell; zero-filling is left to
// whatever renders the matrix.
type SpoilagePivot struct {
	Locations []string                      `json:"locations"`
	Crops     []string                      `json:"crops"`
	Cells     map[string]map[string]float64 `json:"cells"`
}

// ROIEstimate is one row of the static infrastructure payback table.
type ROIEstimate struct {
	Project      string  `json:"project"`
	PaybackYears float64 `json:"payback_years"`
	KeyBenefit   string  `json:"key_benefit"`
}
