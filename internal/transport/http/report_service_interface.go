package http

import (
	"context"

	"optiqc/internal/dataprocessing"
	"optiqc/internal/services"
)

// ReportServiceInterface defines the interface for the report service
type ReportServiceInterface interface {
	Generate(ctx context.Context, inputs []dataprocessing.Input) ([]byte, *services.Summary, error)
}
