package coldchain

import (
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Recommend resolves a (farm location, crop) query against the dataset.
//
// Matching is case-insensitive and two-phase: exact equality first, then a
// substring-containment fallback that recovers partial names ("Kano" for
// "Kano State"). The fallback can pick up unrelated locations that share a
// substring; that is accepted behavior, and Result.MatchedBy reports which
// phase fired. Among the candidates the record with the minimum
// farm-to-storage distance wins, ties going to the first in dataset order.
//
// The function is pure over the immutable dataset. Any panic during
// selection is converted into an engine_failure outcome so a single bad
// query can never take the process down.
func Recommend(ds *Dataset, location, crop string) (out RecommendationOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = RecommendationOutcome{
				Kind:    OutcomeFailure,
				Message: fmt.Sprintf("recommendation failed: %v", r),
			}
		}
	}()

	if ds == nil {
		return RecommendationOutcome{Kind: OutcomeFailure, Message: "no dataset loaded"}
	}

	loc := strings.ToLower(strings.TrimSpace(location))
	cr := strings.ToLower(strings.TrimSpace(crop))
	if loc == "" || cr == "" {
		// An empty query would substring-match every record in the
		// fallback phase.
		return RecommendationOutcome{Kind: OutcomeNoMatch}
	}

	matchedBy := "exact"
	candidates := filterRecords(ds.Records, func(r FarmRecord) bool {
		return strings.ToLower(r.FarmLocation) == loc && strings.ToLower(r.Crop) == cr
	})
	if len(candidates) == 0 {
		matchedBy = "fuzzy"
		candidates = filterRecords(ds.Records, func(r FarmRecord) bool {
			return strings.Contains(strings.ToLower(r.FarmLocation), loc) &&
				strings.Contains(strings.ToLower(r.Crop), cr)
		})
	}
	if len(candidates) == 0 {
		return RecommendationOutcome{Kind: OutcomeNoMatch}
	}

	result := projectResult(nearestStorage(candidates))
	result.MatchedBy = matchedBy
	return RecommendationOutcome{Kind: OutcomeMatch, Result: &result}
}

func filterRecords(records []FarmRecord, keep func(FarmRecord) bool) []FarmRecord {
	var out []FarmRecord
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// nearestStorage picks the candidate with the smallest valid farm-to-storage
// distance. Records without a usable distance sort after all records that
// have one; if none has one, the first candidate wins. Strict less-than keeps
// the first occurrence on ties.
func nearestStorage(candidates []FarmRecord) FarmRecord {
	best := 0
	bestKM := math.Inf(1)
	for i, r := range candidates {
		km := math.Inf(1)
		if r.FarmToStorageKM.Valid {
			km = r.FarmToStorageKM.Float64
		}
		if km < bestKM {
			bestKM = km
			best = i
		}
	}
	return candidates[best]
}

func projectResult(rec FarmRecord) RecommendationResult {
	result := RecommendationResult{
		FarmLocation:           rec.FarmLocation,
		Crop:                   rec.Crop,
		StorageName:            rec.ColdStorageLocation,
		StorageKM:              floatPtr(rec.FarmToStorageKM),
		StorageHrs:             floatPtr(rec.FarmToStorageHrs),
		MarketName:             rec.MarketLocation,
		MarketKM:               floatPtr(rec.StorageToMarketKM),
		MarketHrs:              floatPtr(rec.StorageToMarketHrs),
		OptimalTempC:           floatPtr(rec.OptimalStorageTempC),
		SpoilageRatePct:        floatPtr(rec.SpoilageRatePctWeek),
		StorageCostPerCrateDay: floatPtr(rec.StorageCostPerCrateDay),
		TransportCostPerTonKM:  floatPtr(rec.TransportCostPerTonKM),
	}
	if rec.TransportCostPerTonKM.Valid && rec.FarmToStorageKM.Valid {
		total := int64(math.Round(rec.TransportCostPerTonKM.Float64 * rec.FarmToStorageKM.Float64))
		result.TransportCostTotal = &total
	}
	if rec.FarmToStorageHrs.Valid && rec.StorageToMarketHrs.Valid {
		transit := rec.FarmToStorageHrs.Float64 + rec.StorageToMarketHrs.Float64
		result.TotalTransitHrs = &transit
	}
	return result
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// ListDistinct returns the sorted unique non-empty values of one of the
// string columns, for populating selection choices.
func ListDistinct(ds *Dataset, field string) ([]string, error) {
	if ds == nil {
		return nil, fmt.Errorf("no dataset loaded")
	}
	pick, ok := map[string]func(FarmRecord) string{
		ColFarmLocation:    func(r FarmRecord) string { return r.FarmLocation },
		ColCrop:            func(r FarmRecord) string { return r.Crop },
		ColStorageLocation: func(r FarmRecord) string { return r.ColdStorageLocation },
		ColMarketLocation:  func(r FarmRecord) string { return r.MarketLocation },
	}[strings.ToLower(strings.TrimSpace(field))]
	if !ok {
		return nil, fmt.Errorf("unknown field %q", field)
	}

	seen := make(map[string]struct{})
	var values []string
	for _, r := range ds.Records {
		v := pick(r)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}
