package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"optiqc/internal/infrastructure"
	"optiqc/pkg/contracts/domain"
)

// Input is one uploaded workbook: a name for error reporting and a
// reader positioned at the start of the file.
type Input struct {
	Name   string
	Reader io.Reader
}

// FileError names a workbook that could not be processed. File errors
// are non-fatal: the batch continues with the remaining files.
type FileError struct {
	File string `json:"file"`
	Err  error  `json:"-"`
}

func (e FileError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.File, e.Err)
}

// Message returns the user-facing description of the failure.
func (e FileError) Message() string {
	return e.Error()
}

// Result is the outcome of assembling one batch of uploads.
type Result struct {
	Dataset    domain.Dataset
	FileErrors []FileError
	FilesRead  int
	SheetsRead int
}

// Assembler runs the sheet extractor over every sheet of every
// workbook and builds the sorted long table.
type Assembler struct {
	scanDepth int
	logger    *slog.Logger
}

// NewAssembler creates an assembler. scanDepth bounds the header hunt;
// zero or negative selects DefaultHeaderScanDepth.
func NewAssembler(scanDepth int, logger *slog.Logger) *Assembler {
	if scanDepth <= 0 {
		scanDepth = DefaultHeaderScanDepth
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		scanDepth: scanDepth,
		logger:    infrastructure.WithComponent(logger, "assembler"),
	}
}

// Assemble processes every input sequentially and concatenates the
// extracted records. A batch with no inputs, or whose inputs yield no
// usable records, produces an explicitly empty Dataset, not an error.
func (a *Assembler) Assemble(ctx context.Context, inputs []Input) Result {
	var res Result
	var precursors []Precursor

	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			res.FileErrors = append(res.FileErrors, FileError{File: in.Name, Err: err})
			break
		}
		ps, sheets, err := a.extractWorkbook(in)
		if err != nil {
			a.logger.Warn("skipping unreadable workbook",
				slog.String("file", in.Name),
				slog.String("error", err.Error()))
			res.FileErrors = append(res.FileErrors, FileError{File: in.Name, Err: err})
			continue
		}
		res.FilesRead++
		res.SheetsRead += sheets
		precursors = append(precursors, ps...)
	}

	res.Dataset = assemble(precursors)
	a.logger.Info("batch assembled",
		slog.Int("files", res.FilesRead),
		slog.Int("sheets", res.SheetsRead),
		slog.Int("records", res.Dataset.Len()),
		slog.Int("file_errors", len(res.FileErrors)))
	return res
}

// AssembleFiles is the filesystem variant of Assemble used by the CLI.
func (a *Assembler) AssembleFiles(ctx context.Context, paths []string) Result {
	var res Result
	var precursors []Precursor
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			res.FileErrors = append(res.FileErrors, FileError{File: path, Err: err})
			break
		}
		f, err := excelize.OpenFile(path)
		if err != nil {
			a.logger.Warn("skipping unreadable workbook",
				slog.String("file", path),
				slog.String("error", err.Error()))
			res.FileErrors = append(res.FileErrors, FileError{File: path, Err: err})
			continue
		}
		ps, sheets := a.extractOpenWorkbook(path, f)
		f.Close()
		res.FilesRead++
		res.SheetsRead += sheets
		precursors = append(precursors, ps...)
	}

	res.Dataset = assemble(precursors)
	a.logger.Info("batch assembled",
		slog.Int("files", res.FilesRead),
		slog.Int("sheets", res.SheetsRead),
		slog.Int("records", res.Dataset.Len()),
		slog.Int("file_errors", len(res.FileErrors)))
	return res
}

// extractWorkbook opens one uploaded workbook and extracts precursors
// from every qualifying sheet.
func (a *Assembler) extractWorkbook(in Input) ([]Precursor, int, error) {
	f, err := excelize.OpenReader(in.Reader)
	if err != nil {
		return nil, 0, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	ps, sheets := a.extractOpenWorkbook(in.Name, f)
	return ps, sheets, nil
}

// extractOpenWorkbook walks the sheet list of an open workbook. Sheets
// outside the allow-set are skipped silently; a sheet that fails to
// read is logged and skipped without failing the file.
func (a *Assembler) extractOpenWorkbook(name string, f *excelize.File) ([]Precursor, int) {
	var out []Precursor
	sheets := 0
	for _, sheet := range f.GetSheetList() {
		if !SheetAllowed(sheet) {
			continue
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			a.logger.Warn("skipping unreadable sheet",
				slog.String("file", name),
				slog.String("sheet", sheet),
				slog.String("error", err.Error()))
			continue
		}
		ps := ExtractSheet(name, sheet, rows, a.scanDepth)
		if len(ps) == 0 {
			continue
		}
		sheets++
		out = append(out, ps...)
	}
	return out, sheets
}

// assemble coerces precursor values to numbers, drops records missing
// Value or Station, and sorts the surviving records into the stable
// display order.
func assemble(precursors []Precursor) domain.Dataset {
	var ds domain.Dataset
	for _, p := range precursors {
		if !p.StationOK {
			continue
		}
		value, ok := coerceValue(p.RawValue)
		if !ok {
			continue
		}
		ds.Records = append(ds.Records, domain.Record{
			CreateTime: p.CreateTime,
			Side:       p.Side,
			Station:    p.Station,
			Direction:  p.Direction,
			Source:     p.Source,
			Value:      value,
		})
	}
	ds.Sort()
	return ds
}

// coerceValue parses a measurement cell. Anything that is not a plain
// number, including comma-formatted text like "0,25", fails coercion
// and marks the record for dropping.
func coerceValue(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
