package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"optiqc/internal/dataprocessing"
	"optiqc/internal/infrastructure"
	"optiqc/internal/report"
	"optiqc/pkg/contracts/domain"
)

// ErrNoData is returned when an entire batch yields no usable records.
// It is surfaced to the user as a single explicit failure instead of
// producing an empty, misleading report.
var ErrNoData = errors.New("cannot parse data: check that sheets are named RAA-R/L or IPQC-R/L and columns follow the Boresight format")

// Summary is the user-facing outcome of one report generation.
type Summary struct {
	ReportID    string    `json:"report_id"`
	Rows        int       `json:"rows"`
	FilesRead   int       `json:"files_read"`
	SheetsRead  int       `json:"sheets_read"`
	PreAAFound  bool      `json:"preaa_found"`
	LatestDate  string    `json:"latest_date,omitempty"`
	FileErrors  []string  `json:"file_errors,omitempty"`
	Message     string    `json:"message"`
	Warning     string    `json:"warning,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ReportService turns uploaded workbooks into a finished report deck.
type ReportService struct {
	assembler *dataprocessing.Assembler
	renderer  *report.Renderer
	logger    *slog.Logger
}

// NewReportService wires the pipeline components together.
func NewReportService(assembler *dataprocessing.Assembler, renderer *report.Renderer, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		assembler: assembler,
		renderer:  renderer,
		logger:    infrastructure.WithComponent(logger, "report_service"),
	}
}

// Generate runs the full pipeline over uploaded workbooks: assemble the
// long table, render the chart set, and pack the deck. Per-file read
// failures are reported in the summary and never abort the batch; only
// a batch with no usable records at all fails, with ErrNoData.
func (s *ReportService) Generate(ctx context.Context, inputs []dataprocessing.Input) ([]byte, *Summary, error) {
	res := s.assembler.Assemble(ctx, inputs)
	return s.finish(ctx, res)
}

// GenerateFromFiles is the filesystem variant used by the CLI.
func (s *ReportService) GenerateFromFiles(ctx context.Context, paths []string) ([]byte, *Summary, error) {
	res := s.assembler.AssembleFiles(ctx, paths)
	return s.finish(ctx, res)
}

// GenerateFromResult finishes the pipeline over an already-assembled
// batch. Callers that need the intermediate long table, such as the CSV
// export, assemble once and hand the result here.
func (s *ReportService) GenerateFromResult(ctx context.Context, res dataprocessing.Result) ([]byte, *Summary, error) {
	return s.finish(ctx, res)
}

func (s *ReportService) finish(ctx context.Context, res dataprocessing.Result) ([]byte, *Summary, error) {
	summary := &Summary{
		ReportID:    uuid.New().String(),
		Rows:        res.Dataset.Len(),
		FilesRead:   res.FilesRead,
		SheetsRead:  res.SheetsRead,
		PreAAFound:  res.Dataset.HasStation(domain.StationPreAA1) || res.Dataset.HasStation(domain.StationPreAA2),
		GeneratedAt: time.Now(),
	}
	for _, fe := range res.FileErrors {
		summary.FileErrors = append(summary.FileErrors, fe.Message())
	}

	if res.Dataset.Empty() {
		s.logger.Warn("batch produced no usable records",
			slog.Int("files_read", res.FilesRead),
			slog.Int("file_errors", len(res.FileErrors)))
		summary.Message = ErrNoData.Error()
		return nil, summary, ErrNoData
	}

	if err := ctx.Err(); err != nil {
		return nil, summary, err
	}

	charts, err := s.renderer.RenderAll(res.Dataset)
	if err != nil {
		return nil, summary, fmt.Errorf("render charts: %w", err)
	}
	if charts.LatestOK {
		summary.LatestDate = charts.LatestDate.Format("2006-01-02")
	}

	deck, err := report.BuildDeck(charts).Bytes()
	if err != nil {
		return nil, summary, fmt.Errorf("assemble deck: %w", err)
	}

	if summary.PreAAFound {
		summary.Message = fmt.Sprintf("Successfully ingested %d rows (PreAA data included)", summary.Rows)
	} else {
		summary.Message = fmt.Sprintf("Successfully ingested %d rows", summary.Rows)
		summary.Warning = "PreAA data was not found; check the PreAA column names in the source workbooks"
	}

	s.logger.Info("report generated",
		slog.String("report_id", summary.ReportID),
		slog.Int("rows", summary.Rows),
		slog.Bool("preaa_found", summary.PreAAFound),
		slog.Int("deck_bytes", len(deck)))
	return deck, summary, nil
}
