package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlotOrder(t *testing.T) {
	order := PlotOrder()
	require.Len(t, order, 12)
	assert.Equal(t, "L-PreAA_1", order[0])
	assert.Equal(t, "L-AfterBaking", order[5])
	assert.Equal(t, "R-PreAA_1", order[6])
	assert.Equal(t, "R-AfterBaking", order[11])
}

func TestStationOrderIndex(t *testing.T) {
	assert.Equal(t, 0, StationPreAA1.OrderIndex())
	assert.Equal(t, 5, StationAfterBaking.OrderIndex())
	// Unknown stations sort after every named one, never panic.
	assert.Greater(t, Station("Mystery").OrderIndex(), StationAfterBaking.OrderIndex())
}

func TestRecordDisplayLabelAndSortKey(t *testing.T) {
	l := Record{Side: SideLeft, Station: StationAA}
	r := Record{Side: SideRight, Station: StationAA}

	assert.Equal(t, "L-AA", l.DisplayLabel())
	assert.Equal(t, "R-AA", r.DisplayLabel())
	assert.True(t, l.Less(r), "left sorts before right for the same station")

	earlier := Record{Side: SideRight, Station: StationPreAA1}
	assert.True(t, earlier.Less(r), "station order holds within a side")
	assert.False(t, r.Less(earlier))
}

func TestDatasetSort(t *testing.T) {
	ds := Dataset{Records: []Record{
		{Side: SideRight, Station: StationPreAA1},
		{Side: SideLeft, Station: StationAfterBaking},
		{Side: SideLeft, Station: StationAA},
	}}
	ds.Sort()

	assert.Equal(t, "L-AA", ds.Records[0].DisplayLabel())
	assert.Equal(t, "L-AfterBaking", ds.Records[1].DisplayLabel())
	assert.Equal(t, "R-PreAA_1", ds.Records[2].DisplayLabel())
}

func TestDatasetPresentLabels(t *testing.T) {
	ds := Dataset{Records: []Record{
		{Side: SideRight, Station: StationAA},
		{Side: SideLeft, Station: StationAfterBaking},
		{Side: SideLeft, Station: StationAfterBaking},
	}}

	// Absent combinations are skipped, never padded.
	assert.Equal(t, []string{"L-AfterBaking", "R-AA"}, ds.PresentLabels())
	assert.Empty(t, Dataset{}.PresentLabels())
}

func TestDatasetLatestDate(t *testing.T) {
	day1 := time.Date(2024, 2, 10, 8, 30, 0, 0, time.UTC)
	day2 := time.Date(2024, 2, 11, 23, 59, 0, 0, time.UTC)
	ds := Dataset{Records: []Record{
		{CreateTime: day1, Side: SideLeft, Station: StationAA, Value: 1},
		{CreateTime: day2, Side: SideLeft, Station: StationAA, Value: 2},
		{Side: SideLeft, Station: StationAA, Value: 3}, // zero CreateTime
	}}

	latest, ok := ds.LatestDate()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC), latest)

	sub := ds.OnDate(latest)
	require.Equal(t, 1, sub.Len())
	assert.Equal(t, 2.0, sub.Records[0].Value)

	_, ok = Dataset{}.LatestDate()
	assert.False(t, ok)
}

func TestDatasetFilters(t *testing.T) {
	ds := Dataset{Records: []Record{
		{Side: SideLeft, Station: StationAfterBaking, Direction: DirectionH},
		{Side: SideLeft, Station: StationAA, Direction: DirectionV},
	}}

	assert.Equal(t, 1, ds.ByDirection(DirectionH).Len())
	assert.Equal(t, 1, ds.ByStation(StationAfterBaking).Len())
	assert.True(t, ds.HasStation(StationAA))
	assert.False(t, ds.HasStation(StationPreAA2))
}
