// Package dataprocessing normalizes factory optical-test spreadsheets
// into the tidy long table consumed by the report renderer.
//
// # Architecture
//
// The package is organized into four components, leaves first:
//
// 1. Header locator: finds the real header row inside loosely-structured sheets
// 2. Column classifier: maps raw column names onto the canonical station/direction taxonomy
// 3. Sheet extractor: reshapes one qualifying sheet from wide to long form
// 4. Assembler: runs the extractor over every sheet of every file and builds the Dataset
//
// # Data Flow
//
//	Excel files → extractor (per sheet) → precursors → assembler → domain.Dataset
//
// # Error Handling
//
// Nothing in this package is fatal to the batch. A file that cannot be
// read is reported by name and skipped; a sheet with no target columns
// yields zero records; a cell whose value will not coerce to a number
// is silently dropped during assembly. Only a batch that produces no
// usable records at all surfaces an error to the caller.
package dataprocessing
