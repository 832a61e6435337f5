package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optiqc/pkg/contracts/domain"
)

func TestSheetAllowed(t *testing.T) {
	assert.True(t, SheetAllowed("RAA-R"))
	assert.True(t, SheetAllowed("RAA-L"))
	assert.True(t, SheetAllowed("IPQC-R"))
	assert.True(t, SheetAllowed(" IPQC-L "))
	assert.False(t, SheetAllowed("Sheet1"))
	assert.False(t, SheetAllowed("RAA"))
	assert.False(t, SheetAllowed(""))
}

func TestSheetSide(t *testing.T) {
	assert.Equal(t, domain.SideRight, SheetSide("RAA-R"))
	assert.Equal(t, domain.SideRight, SheetSide("IPQC-R"))
	assert.Equal(t, domain.SideLeft, SheetSide("RAA-L"))
	assert.Equal(t, domain.SideLeft, SheetSide("IPQC-L"))
}

func TestExtractSheetRejectsUnknownSheet(t *testing.T) {
	rows := [][]string{
		{"Tester", "CreateTime", "illu_Boresight_H_White_1"},
		{"T1", "2024-02-10 08:00:00", "0.1"},
	}
	assert.Nil(t, ExtractSheet("a.xlsx", "Summary", rows, 0))
}

func TestExtractSheetNoTargetColumns(t *testing.T) {
	rows := [][]string{
		{"Tester", "CreateTime", "Temperature"},
		{"T1", "2024-02-10 08:00:00", "23.5"},
	}
	// A qualifying sheet with no measurement columns yields zero
	// records, not an error.
	assert.Empty(t, ExtractSheet("a.xlsx", "RAA-L", rows, 0))
}

func TestExtractSheetPivot(t *testing.T) {
	rows := [][]string{
		{"export banner"},
		{"firmware 3.1"},
		{"Tester", "CreateTime", "illu_Boresight_H_White_1", "illu_Boresight_V_White_1"},
		{"T1", "2024-02-10 08:00:00", "0.10", "-0.05"},
		{"T1", "2024-02-10 08:05:00", "0.12", "0.01"},
		{"T1", "2024-02-10 08:10:00", "N/A", "0.02"},
	}

	ps := ExtractSheet("export.xlsx", "RAA-L", rows, 0)
	// 3 data rows x 2 target columns.
	require.Len(t, ps, 6)

	for _, p := range ps {
		assert.Equal(t, domain.SideLeft, p.Side)
		assert.Equal(t, "export.xlsx", p.Source)
		assert.False(t, p.StationOK, "illu_Boresight columns carry no station token")
		assert.Contains(t, []domain.Direction{domain.DirectionH, domain.DirectionV}, p.Direction)
		assert.Equal(t, 2024, p.CreateTime.Year())
	}
	assert.Equal(t, "0.10", ps[0].RawValue)
	assert.Equal(t, "-0.05", ps[1].RawValue)
	assert.Equal(t, "N/A", ps[4].RawValue)
}

func TestExtractSheetStationColumns(t *testing.T) {
	rows := [][]string{
		{"Tester", "CreateTime", "AfterBaking_Boresight_H_White_1", "PreAA_Boresight_H1"},
		{"T2", "2024-02-11 10:00:00", "0.2", "0.3"},
	}

	ps := ExtractSheet("b.xlsx", "IPQC-R", rows, 0)
	require.Len(t, ps, 2)

	assert.Equal(t, domain.StationAfterBaking, ps[0].Station)
	assert.True(t, ps[0].StationOK)
	assert.Equal(t, domain.DirectionH, ps[0].Direction)
	assert.Equal(t, domain.SideRight, ps[0].Side)

	assert.Equal(t, domain.StationPreAA1, ps[1].Station)
	assert.True(t, ps[1].StationOK)
}

func TestExtractSheetShortRows(t *testing.T) {
	rows := [][]string{
		{"Tester", "CreateTime", "AfterBaking_Boresight_H_White_1"},
		{"T1"}, // row shorter than the target column index
		{"T1", "2024-02-11 10:00:00", "0.5"},
	}

	ps := ExtractSheet("c.xlsx", "RAA-R", rows, 0)
	require.Len(t, ps, 1)
	assert.Equal(t, "0.5", ps[0].RawValue)
}

func TestParseCreateTime(t *testing.T) {
	tests := []struct {
		cell string
		zero bool
	}{
		{"2024-02-10 13:04:05", false},
		{"2024/02/10 13:04:05", false},
		{"2024-02-10", false},
		{"not a date", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got := parseCreateTime(tt.cell)
			assert.Equal(t, tt.zero, got.IsZero())
			if !tt.zero {
				assert.Equal(t, time.February, got.Month())
			}
		})
	}
}
