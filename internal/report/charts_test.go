package report

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optiqc/pkg/contracts/domain"
)

func testDataset() domain.Dataset {
	base := time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC)
	var ds domain.Dataset
	stations := []domain.Station{
		domain.StationPreAA1, domain.StationAA, domain.StationAfterBaking,
	}
	for _, side := range []domain.Side{domain.SideLeft, domain.SideRight} {
		for si, st := range stations {
			for i := 0; i < 5; i++ {
				ds.Records = append(ds.Records, domain.Record{
					CreateTime: base.Add(time.Duration(i) * time.Hour),
					Side:       side,
					Station:    st,
					Direction:  domain.DirectionH,
					Source:     "fixture.xlsx",
					Value:      float64(si)*0.01 + float64(i)*0.02 - 0.05,
				})
				ds.Records = append(ds.Records, domain.Record{
					CreateTime: base.Add(time.Duration(i) * time.Hour),
					Side:       side,
					Station:    st,
					Direction:  domain.DirectionV,
					Source:     "fixture.xlsx",
					Value:      float64(si)*-0.01 + float64(i)*0.01,
				})
			}
		}
	}
	ds.Sort()
	return ds
}

func decodePNG(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestBoxPlotRendersPNG(t *testing.T) {
	r := NewRenderer(DefaultStyle(), nil)

	img, err := r.BoxPlot(testDataset(), "Overall Summary", nil)
	require.NoError(t, err)
	w, h := decodePNG(t, img)
	assert.Greater(t, w, 0)
	assert.Greater(t, h, w/2, "two stacked panels should be taller than half the width")
}

func TestBoxPlotFixedScale(t *testing.T) {
	r := NewRenderer(DefaultStyle(), nil)

	fixed := Range{Min: -1.5, Max: 1.5}
	img, err := r.BoxPlot(testDataset(), "Overall Summary", &fixed)
	require.NoError(t, err)
	decodePNG(t, img)
}

func TestBoxPlotEmptyDataset(t *testing.T) {
	r := NewRenderer(DefaultStyle(), nil)

	// An empty dataset degrades to empty titled panels, not an error.
	img, err := r.BoxPlot(domain.Dataset{}, "Overall Summary", nil)
	require.NoError(t, err)
	decodePNG(t, img)
}

func TestControlChartRendersPNG(t *testing.T) {
	r := NewRenderer(DefaultStyle(), nil)

	img, err := r.ControlChart(testDataset(), nil)
	require.NoError(t, err)
	decodePNG(t, img)
}

func TestControlChartWithoutAfterBaking(t *testing.T) {
	r := NewRenderer(DefaultStyle(), nil)

	ds := testDataset().ByStation(domain.StationAA)
	img, err := r.ControlChart(ds, &Range{Min: -0.3, Max: 0.3})
	require.NoError(t, err)
	decodePNG(t, img)
}
