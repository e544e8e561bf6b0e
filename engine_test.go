package coldchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendExactPicksNearestStorage(t *testing.T) {
	ds := loadTestdata(t)

	out := Recommend(ds, "Kano State", "Tomato")
	require.Equal(t, OutcomeMatch, out.Kind)
	require.NotNil(t, out.Result)

	assert.Equal(t, "exact", out.Result.MatchedBy)
	assert.Equal(t, "ColdHub Kano", out.Result.StorageName)
	require.NotNil(t, out.Result.StorageKM)
	assert.Equal(t, 12.5, *out.Result.StorageKM)
	assert.Equal(t, "Kano Central Market", out.Result.MarketName)

	require.NotNil(t, out.Result.TransportCostTotal)
	assert.Equal(t, int64(47388), *out.Result.TransportCostTotal, "round(3791 * 12.5)")

	require.NotNil(t, out.Result.TotalTransitHrs)
	assert.InDelta(t, 0.9, *out.Result.TotalTransitHrs, 1e-9)
}

func TestRecommendCaseInsensitiveExact(t *testing.T) {
	ds := loadTestdata(t)

	out := Recommend(ds, "  kano state ", "TOMATO")
	require.Equal(t, OutcomeMatch, out.Kind)
	assert.Equal(t, "exact", out.Result.MatchedBy)
	assert.Equal(t, "ColdHub Kano", out.Result.StorageName)
}

func TestRecommendFallbackSubstring(t *testing.T) {
	ds := loadTestdata(t)

	// "Kano" is not an exact farm location but is contained in "Kano State".
	out := Recommend(ds, "Kano", "tomato")
	require.Equal(t, OutcomeMatch, out.Kind)
	assert.Equal(t, "fuzzy", out.Result.MatchedBy)
	assert.Equal(t, "ColdHub Kano", out.Result.StorageName)
	assert.Equal(t, "Kano State", out.Result.FarmLocation)
}

func TestRecommendNoMatch(t *testing.T) {
	ds := loadTestdata(t)

	out := Recommend(ds, "Lagos State", "Durian")
	assert.Equal(t, OutcomeNoMatch, out.Kind)
	assert.Nil(t, out.Result)
	assert.Empty(t, out.Message)
}

func TestRecommendEmptyQueryIsNoMatch(t *testing.T) {
	ds := loadTestdata(t)

	assert.Equal(t, OutcomeNoMatch, Recommend(ds, "", "Tomato").Kind)
	assert.Equal(t, OutcomeNoMatch, Recommend(ds, "Kano State", "  ").Kind)
}

func TestRecommendTieBreakIsDeterministic(t *testing.T) {
	ds := loadTestdata(t)

	// Both Oyo State yam rows sit 30 km from storage; the first in dataset
	// order must win, on every invocation.
	first := Recommend(ds, "Oyo State", "Yam")
	require.Equal(t, OutcomeMatch, first.Kind)
	assert.Equal(t, "ColdHub Ibadan", first.Result.StorageName)

	second := Recommend(ds, "Oyo State", "Yam")
	assert.Equal(t, first, second, "identical inputs over an unchanged dataset must give identical results")
}

func TestRecommendMissingNumericsStayAbsent(t *testing.T) {
	ds := loadTestdata(t)

	out := Recommend(ds, "Kwara State", "Okra")
	require.Equal(t, OutcomeMatch, out.Kind)
	assert.Nil(t, out.Result.StorageKM)
	assert.Nil(t, out.Result.TransportCostTotal)
	assert.Nil(t, out.Result.SpoilageRatePct)
	require.NotNil(t, out.Result.OptimalTempC)
	assert.Equal(t, 11.0, *out.Result.OptimalTempC)
}

func TestRecommendNilDatasetIsEngineFailure(t *testing.T) {
	out := Recommend(nil, "Kano State", "Tomato")
	assert.Equal(t, OutcomeFailure, out.Kind)
	assert.NotEmpty(t, out.Message)
}

func TestListDistinct(t *testing.T) {
	ds := loadTestdata(t)

	crops, err := ListDistinct(ds, ColCrop)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cabbage", "Okra", "Pepper", "Tomato", "Yam"}, crops)

	locations, err := ListDistinct(ds, "  Farm Location ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Benue State", "Kaduna State", "Kano State", "Kwara State", "Oyo State", "Plateau State"}, locations)

	_, err = ListDistinct(ds, "harvest season")
	assert.Error(t, err)

	_, err = ListDistinct(nil, ColCrop)
	assert.Error(t, err)
}
