package dataprocessing

import (
	"strings"
)

// DefaultHeaderScanDepth is how many leading rows are inspected when
// hunting for the header row. Instrument firmware revisions insert a
// variable number of banner rows before the real header, so the scan
// depth has to cover the worst observed case.
const DefaultHeaderScanDepth = 30

// headerToken is the literal the first cell of the real header row
// starts with, after trimming.
const headerToken = "Tester"

// FindHeaderRow scans up to scanDepth rows and returns the index of the
// first row whose first cell, trimmed, starts with "Tester". If no such
// row exists within the scan depth, or the sheet is empty, it returns 0
// so the first row is assumed to already be the header. It never fails:
// ingestion stays tolerant without per-file configuration.
func FindHeaderRow(rows [][]string, scanDepth int) int {
	if scanDepth <= 0 {
		scanDepth = DefaultHeaderScanDepth
	}
	for i, row := range rows {
		if i >= scanDepth {
			break
		}
		if len(row) == 0 {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(row[0]), headerToken) {
			return i
		}
	}
	return 0
}
