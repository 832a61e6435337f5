// Package files provides workbook discovery and output writing for the
// report pipeline.
//
// Discovery scans measurement directories for .xlsx workbooks, skipping
// Excel lock files and subdirectories.
//
// Writer persists generated artifacts (decks, CSV exports) atomically:
// content lands in a temp file first and is renamed into place, so a
// crashed run never leaves a truncated report behind.
//
// Example usage:
//
//	workbooks, err := files.FindWorkbooks("line3/exports")
//
//	w := files.NewWriter(logger)
//	err = w.WriteAtomic("Factory_JMP_Report.pptx", deck)
package files
