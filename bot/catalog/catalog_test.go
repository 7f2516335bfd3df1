package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/transitbot/bot/i18n"
)

func TestRegionsAreValid(t *testing.T) {
	regions := Regions()
	require.Len(t, regions, 5)
	for _, r := range regions {
		assert.True(t, ValidRegion(r), "region %s", r)
		assert.NotEmpty(t, Locations(r), "region %s", r)
	}
	assert.False(t, ValidRegion(Region("mars")))
}

func TestRegionNameFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, "Sectors 1-20", RegionName(RegionSectors1to20, i18n.LangEnglish))
	assert.Equal(t, "सेक्टर 1-20", RegionName(RegionSectors1to20, i18n.LangHindi))
	assert.Equal(t, "Landmarks", RegionName(RegionLandmarks, i18n.Lang("klingon")))
}

func TestLocationsReturnsCopy(t *testing.T) {
	locs := Locations(RegionLandmarks)
	locs[0] = "mutated"
	assert.Equal(t, "PGI", Locations(RegionLandmarks)[0])
}

func TestDestinationLocationsExcludeSource(t *testing.T) {
	for _, region := range Regions() {
		all := Locations(region)
		for _, source := range all {
			dests := DestinationLocations(region, source)
			assert.Len(t, dests, len(all)-1, "region %s source %s", region, source)
			assert.NotContains(t, dests, source, "region %s source %s", region, source)
		}
	}
}

func TestDestinationLocationsKeepForeignSource(t *testing.T) {
	dests := DestinationLocations(RegionLandmarks, "Sector 22")
	assert.Equal(t, Locations(RegionLandmarks), dests)
}

func TestDepartureBoard(t *testing.T) {
	board := DepartureBoard("Sector 17 ISBT", "PGI")
	require.Len(t, board, 3)
	for _, d := range board {
		assert.Equal(t, 30, d.Fare)
		assert.Positive(t, d.AvailableSeats)
	}
	assert.Equal(t, "CTU-101", board[0].BusNumber)
	assert.Equal(t, "10:00 AM", board[0].DepartureTime)
}

func TestPassInfo(t *testing.T) {
	cases := []struct {
		category PassCategory
		fare     int
		days     int
		docs     int
	}{
		{PassDailyAC, 60, 1, 0},
		{PassDailyNonAC, 40, 1, 0},
		{PassMonthlyAC, 800, 30, 0},
		{PassMonthlyNonAC, 600, 30, 0},
		{PassStudent, 300, 30, 2},
		{PassSenior, 300, 30, 1},
	}
	for _, tc := range cases {
		info, ok := PassInfo(tc.category)
		require.True(t, ok, "category %s", tc.category)
		assert.Equal(t, tc.fare, info.Fare, "category %s", tc.category)
		assert.Equal(t, tc.days, info.ValidityDays, "category %s", tc.category)
		assert.Equal(t, tc.docs, info.Documents, "category %s", tc.category)
	}

	_, ok := PassInfo(PassCategory("weekly"))
	assert.False(t, ok)
}

func TestPassCategoryByBusType(t *testing.T) {
	assert.Equal(t, PassDailyAC, DailyPass(BusAC))
	assert.Equal(t, PassDailyNonAC, DailyPass(BusNonAC))
	assert.Equal(t, PassMonthlyAC, MonthlyPass(BusAC))
	assert.Equal(t, PassMonthlyNonAC, MonthlyPass(BusNonAC))
}
