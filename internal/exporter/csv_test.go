package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optiqc/pkg/contracts/domain"
)

func sampleDataset() domain.Dataset {
	return domain.Dataset{Records: []domain.Record{
		{
			CreateTime: time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
			Side:       domain.SideRight,
			Station:    domain.StationAA,
			Direction:  domain.DirectionH,
			Source:     "RAA-R",
			Value:      0.125,
		},
		{
			CreateTime: time.Date(2024, 3, 15, 9, 31, 0, 0, time.UTC),
			Side:       domain.SideLeft,
			Station:    domain.StationPreAA1,
			Direction:  domain.DirectionV,
			Source:     "RAA-L",
			Value:      -0.02,
		},
	}}
}

func TestWriteDataset(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(nil)

	require.NoError(t, w.WriteDataset(&buf, sampleDataset()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"create_time", "side", "station", "direction", "label", "source", "value"}, records[0])

	// Left-side records come first in the plot ordering
	assert.Equal(t, "L-PreAA_1", records[1][4])
	assert.Equal(t, "-0.02", records[1][6])
	assert.Equal(t, "R-AA", records[2][4])
	assert.Equal(t, "2024-03-15 09:30:00", records[2][0])
}

func TestWriteDatasetEmptyTimestamp(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(nil)

	ds := domain.Dataset{Records: []domain.Record{
		{Side: domain.SideLeft, Station: domain.StationAA, Direction: domain.DirectionH, Value: 1},
	}}
	require.NoError(t, w.WriteDataset(&buf, ds))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Empty(t, records[1][0])
}

func TestWriteDatasetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "boresight_long.csv")
	w := NewCSVWriter(nil)

	require.NoError(t, w.WriteDatasetFile(path, sampleDataset()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// UTF-8 BOM for Excel
	assert.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
	assert.True(t, strings.Contains(string(data), "R-AA"))
}
