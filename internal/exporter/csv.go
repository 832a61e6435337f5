package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"optiqc/pkg/contracts/domain"
)

// datasetHeader is the column layout of the long-format export.
var datasetHeader = []string{"create_time", "side", "station", "direction", "label", "source", "value"}

// timeLayout matches the timestamp format of the source workbooks.
const timeLayout = "2006-01-02 15:04:05"

// CSVWriter exports measurement datasets as CSV.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance.
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteDataset writes the dataset in long format to w, one row per
// measurement, in the plot ordering.
func (c *CSVWriter) WriteDataset(w io.Writer, ds domain.Dataset) error {
	ds.Sort()

	cw := csv.NewWriter(w)
	if err := cw.Write(datasetHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, rec := range ds.Records {
		ts := ""
		if !rec.CreateTime.IsZero() {
			ts = rec.CreateTime.Format(timeLayout)
		}
		row := []string{
			ts,
			string(rec.Side),
			string(rec.Station),
			string(rec.Direction),
			rec.DisplayLabel(),
			rec.Source,
			strconv.FormatFloat(rec.Value, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteDatasetFile writes the long-format export to a file, prefixed
// with a UTF-8 BOM so Excel recognizes the encoding.
func (c *CSVWriter) WriteDatasetFile(path string, ds domain.Dataset) error {
	c.logger.Info("Writing dataset CSV",
		slog.String("path", path),
		slog.Int("records", ds.Len()))

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	if err := c.WriteDataset(file, ds); err != nil {
		return err
	}

	return file.Sync()
}
