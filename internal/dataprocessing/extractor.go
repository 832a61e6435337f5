package dataprocessing

import (
	"strings"
	"time"

	"optiqc/pkg/contracts/domain"
)

// allowedSheets is the fixed allow-set of station-group tags. Sheets
// with any other name are skipped without error.
var allowedSheets = map[string]bool{
	"RAA-R":  true,
	"RAA-L":  true,
	"IPQC-R": true,
	"IPQC-L": true,
}

// createTimeColumn is the only identifier column carried through the
// wide-to-long reshape.
const createTimeColumn = "CreateTime"

// createTimeLayouts are tried in order when parsing CreateTime cells.
// excelize returns formatted cell text, and the formatting varies with
// the workbook's cell styles.
var createTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04",
	"01-02-06 15:04",
	"1/2/06 15:04",
	"2006-01-02",
	"2006/01/02",
}

// SheetAllowed reports whether the trimmed sheet name is in the fixed
// station-group allow-set.
func SheetAllowed(name string) bool {
	return allowedSheets[strings.TrimSpace(name)]
}

// SheetSide derives the module side from the sheet-name suffix.
func SheetSide(name string) domain.Side {
	if strings.Contains(strings.TrimSpace(name), "-R") {
		return domain.SideRight
	}
	return domain.SideLeft
}

// Precursor is one pivoted cell before numeric coercion: the record
// shape of the long table with the measurement still in raw text form.
// The assembler coerces Value and drops precursors that fail.
type Precursor struct {
	CreateTime time.Time
	RawColumn  string
	RawValue   string
	Side       domain.Side
	Source     string
	Station    domain.Station
	StationOK  bool
	Direction  domain.Direction
}

// ExtractSheet reshapes one raw sheet into precursors. rows is the full
// cell grid as read from the workbook, header position unknown. The
// sheet is skipped entirely (nil, no error) when its name is not in the
// allow-set or when no target columns survive classification.
func ExtractSheet(source, sheetName string, rows [][]string, scanDepth int) []Precursor {
	if !SheetAllowed(sheetName) {
		return nil
	}
	headerIdx := FindHeaderRow(rows, scanDepth)
	if headerIdx >= len(rows) {
		return nil
	}
	header := rows[headerIdx]
	side := SheetSide(sheetName)

	// Column indexes that survive the target-column test, plus the
	// CreateTime identifier if present.
	timeIdx := -1
	var targetIdx []int
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == createTimeColumn {
			timeIdx = i
			continue
		}
		if IsTargetColumn(name) {
			targetIdx = append(targetIdx, i)
		}
	}
	if len(targetIdx) == 0 {
		return nil
	}

	var out []Precursor
	for _, row := range rows[headerIdx+1:] {
		var createTime time.Time
		if timeIdx >= 0 && timeIdx < len(row) {
			createTime = parseCreateTime(row[timeIdx])
		}
		for _, ci := range targetIdx {
			if ci >= len(row) {
				continue
			}
			col := strings.TrimSpace(header[ci])
			station, ok := ClassifyStation(col)
			out = append(out, Precursor{
				CreateTime: createTime,
				RawColumn:  col,
				RawValue:   strings.TrimSpace(row[ci]),
				Side:       side,
				Source:     source,
				Station:    station,
				StationOK:  ok,
				Direction:  ClassifyDirection(col),
			})
		}
	}
	return out
}

// parseCreateTime parses a CreateTime cell best-effort. Failures yield
// the zero time; a record is never dropped for a bad timestamp alone.
func parseCreateTime(cell string) time.Time {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}
	}
	for _, layout := range createTimeLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t
		}
	}
	return time.Time{}
}
