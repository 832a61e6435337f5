// Package exporter writes the reshaped measurement table as CSV.
//
// The export mirrors the long format the charts are built from: one row
// per measurement with its timestamp, side, station, direction, and
// source sheet. Files are written with a UTF-8 BOM so Excel and JMP
// open them without an import dialog.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(logger)
//	err := w.WriteDatasetFile("boresight_long.csv", dataset)
package exporter
