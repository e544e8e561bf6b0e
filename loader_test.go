package coldchain

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestdata(t *testing.T) *Dataset {
	t.Helper()
	ds, err := LoadCSVFile(filepath.Join("testdata", "farm_records.csv"))
	require.NoError(t, err)
	return ds
}

func TestLoadCleansAndNormalizes(t *testing.T) {
	ds := loadTestdata(t)

	// 12 data rows, minus the row without a farm location and the row
	// without a crop.
	assert.Len(t, ds.Records, 10)
	assert.Equal(t, 2, ds.Validation.DroppedRows)
	assert.Equal(t, 1, ds.Validation.ParseWarnings)
	assert.True(t, ds.Validation.OK)

	crops := make(map[string]bool)
	for _, r := range ds.Records {
		crops[r.Crop] = true
	}
	assert.True(t, crops["Tomato"], "TOMATO and tomato should normalize to Tomato")
	assert.False(t, crops["TOMATO"])
	assert.False(t, crops["tomato"])

	var plateau bool
	for _, r := range ds.Records {
		if r.FarmLocation == "Plateau State" {
			plateau = true
			assert.Equal(t, "Cabbage", r.Crop)
		}
		assert.Equal(t, strings.TrimSpace(r.FarmLocation), r.FarmLocation)
	}
	assert.True(t, plateau, "farm location should be trimmed but keep its display case")
}

func TestLoadNullCounts(t *testing.T) {
	ds := loadTestdata(t)

	assert.Equal(t, 1, ds.Validation.NullCounts[ColFarmLocation])
	assert.Equal(t, 1, ds.Validation.NullCounts[ColCrop])
	assert.Equal(t, 1, ds.Validation.NullCounts[ColOptimalTemp])
	assert.Equal(t, 2, ds.Validation.NullCounts[ColSpoilageRate], "empty and n/a cells both count as null")
	assert.Zero(t, ds.Validation.NullCounts[ColStorageKM], "an unparseable value is a parse warning, not a null")
}

func TestLoadParseFailureKeepsRow(t *testing.T) {
	ds := loadTestdata(t)

	var found bool
	for _, r := range ds.Records {
		if r.FarmLocation == "Kwara State" && r.Crop == "Okra" {
			found = true
			assert.False(t, r.FarmToStorageKM.Valid)
			assert.False(t, r.SpoilageRatePctWeek.Valid)
			assert.True(t, r.OptimalStorageTempC.Valid)
		}
	}
	assert.True(t, found, "row with bad numerics must survive the load")
}

func TestLoadMissingColumnRejectsDataset(t *testing.T) {
	raw := "Farm Location,Crop,cold storage location,farm to cold storage(km),farm to cold storage(hrs)," +
		"market location,cold storage to market(km),cold storage to market(hrs)," +
		"spoilage rate at optimal temp(%)per week,storage cost(#/crate/day),transport cost for 20 ton load(#/km)\n" +
		"Kano State,Tomato,ColdHub Kano,12.5,0.5,Kano Central Market,8,0.4,4.5,150,3791\n"

	ds, err := Load(strings.NewReader(raw), "test")
	require.Error(t, err)
	assert.Nil(t, ds, "no partial dataset on a missing column")

	var mce *MissingColumnsError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{ColOptimalTemp}, mce.Columns)
}

func TestValidateOutcome(t *testing.T) {
	missing := "Farm Location,Crop\nKano State,Tomato\n"
	outcome := Validate(strings.NewReader(missing))
	assert.False(t, outcome.OK)
	assert.Contains(t, outcome.MissingColumns, ColOptimalTemp)
	assert.Contains(t, outcome.MissingColumns, ColSpoilageRate)

	good := "Farm Location,Crop,cold storage location,farm to cold storage(km),farm to cold storage(hrs)," +
		"market location,cold storage to market(km),cold storage to market(hrs)," +
		"optimal storage temp(degree c),spoilage rate at optimal temp(%)per week," +
		"storage cost(#/crate/day),transport cost for 20 ton load(#/km)\n" +
		"Kano State,Tomato,ColdHub Kano,12.5,0.5,Kano Central Market,8,0.4,12,,150,3791\n"
	outcome = Validate(strings.NewReader(good))
	assert.True(t, outcome.OK)
	assert.Empty(t, outcome.MissingColumns)
	assert.Equal(t, 1, outcome.NullCounts[ColSpoilageRate])
}

func TestLoadTrimsHeaders(t *testing.T) {
	raw := " Farm Location , Crop ,cold storage location,farm to cold storage(km),farm to cold storage(hrs)," +
		"market location,cold storage to market(km),cold storage to market(hrs)," +
		"optimal storage temp(degree c),spoilage rate at optimal temp(%)per week," +
		"storage cost(#/crate/day),transport cost for 20 ton load(#/km)\n" +
		"Kano State,Tomato,ColdHub Kano,12.5,0.5,Kano Central Market,8,0.4,12,4.5,150,3791\n"

	ds, err := Load(strings.NewReader(raw), "test")
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, "Kano State", ds.Records[0].FarmLocation)
}
