package coldchain

import (
	"sort"
	"strings"
)

// FocusCrops are the five crops the advisory content targets.
var FocusCrops = []string{"Tomato", "Okra", "Cabbage", "Yam", "Pepper"}

// SummarizeCrop aggregates every record of one crop: mean optimal storage
// temperature and mean weekly spoilage over the rows where both are present,
// and the top three storage facilities by farm count. Mean fields stay nil
// when no row qualifies — absent data is never rendered as zero.
func SummarizeCrop(ds *Dataset, crop string) CropSummary {
	want := strings.ToLower(strings.TrimSpace(crop))
	summary := CropSummary{Crop: titleCase(want)}
	if ds == nil || want == "" {
		return summary
	}

	var tempSum, spoilSum float64
	var n int
	counts := make(map[string]int)
	var order []string

	for _, r := range ds.Records {
		if strings.ToLower(r.Crop) != want {
			continue
		}
		summary.Records++
		if r.ColdStorageLocation != "" {
			if _, seen := counts[r.ColdStorageLocation]; !seen {
				order = append(order, r.ColdStorageLocation)
			}
			counts[r.ColdStorageLocation]++
		}
		if r.OptimalStorageTempC.Valid && r.SpoilageRatePctWeek.Valid {
			tempSum += r.OptimalStorageTempC.Float64
			spoilSum += r.SpoilageRatePctWeek.Float64
			n++
		}
	}

	if n > 0 {
		meanTemp := tempSum / float64(n)
		meanSpoil := spoilSum / float64(n)
		summary.MeanOptimalTempC = &meanTemp
		summary.MeanSpoilagePct = &meanSpoil
	}

	// Stable sort keeps first-seen order on equal counts.
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	for _, loc := range order {
		if len(summary.TopStorage) == 3 {
			break
		}
		summary.TopStorage = append(summary.TopStorage, StorageCount{Location: loc, Farms: counts[loc]})
	}
	return summary
}

// SpoilageByRegion pivots the dataset into a location × crop matrix of mean
// weekly spoilage. Pairs with no non-null spoilage value get no cell.
func SpoilageByRegion(ds *Dataset) SpoilagePivot {
	pivot := SpoilagePivot{Cells: make(map[string]map[string]float64)}
	if ds == nil {
		return pivot
	}

	type pair struct{ loc, crop string }
	sums := make(map[pair]float64)
	counts := make(map[pair]int)
	for _, r := range ds.Records {
		if !r.SpoilageRatePctWeek.Valid {
			continue
		}
		k := pair{r.FarmLocation, r.Crop}
		sums[k] += r.SpoilageRatePctWeek.Float64
		counts[k]++
	}

	locSet := make(map[string]struct{})
	cropSet := make(map[string]struct{})
	for k, sum := range sums {
		row := pivot.Cells[k.loc]
		if row == nil {
			row = make(map[string]float64)
			pivot.Cells[k.loc] = row
		}
		row[k.crop] = sum / float64(counts[k])
		locSet[k.loc] = struct{}{}
		cropSet[k.crop] = struct{}{}
	}

	pivot.Locations = sortedKeys(locSet)
	pivot.Crops = sortedKeys(cropSet)
	return pivot
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CropGuidelines returns the knowledge-base summaries for the focus crops,
// in their fixed display order.
func CropGuidelines(ds *Dataset) []CropSummary {
	out := make([]CropSummary, 0, len(FocusCrops))
	for _, crop := range FocusCrops {
		out = append(out, SummarizeCrop(ds, crop))
	}
	return out
}

var investmentNeeds = map[string][]string{
	"tomato":  {"Cold storage hubs", "Evaporative coolers"},
	"yam":     {"Solar dryers", "Ventilated warehouses"},
	"okra":    {"Cooling systems", "Packaging lines"},
	"cabbage": {"Refrigerated transport", "Pre-coolers"},
	"pepper":  {"Drying facilities", "Controlled atmosphere storage"},
}

// InvestmentPriorities lists the infrastructure needs for a crop, with a
// general default for crops outside the advisory set.
func InvestmentPriorities(crop string) []string {
	if needs, ok := investmentNeeds[strings.ToLower(strings.TrimSpace(crop))]; ok {
		return needs
	}
	return []string{"General storage improvement"}
}

// InvestmentROITable returns the static payback estimates shown alongside
// the regional priorities.
func InvestmentROITable() []ROIEstimate {
	return []ROIEstimate{
		{Project: "Cold Storage Hub", PaybackYears: 3.2, KeyBenefit: "40-60% spoilage reduction (best for tomatoes/yam)"},
		{Project: "Processing Center", PaybackYears: 4.5, KeyBenefit: "Value addition for 80% of produce (okra/cabbage)"},
		{Project: "Mobile Cooling Units", PaybackYears: 2.8, KeyBenefit: "Youth-friendly low-cost entry (₦50k starter kits)"},
	}
}
