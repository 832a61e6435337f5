package validation

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// zipMagic is the local-file-header signature every xlsx starts with.
var zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}

// maxFilenameLength bounds uploaded workbook names.
const maxFilenameLength = 255

// WorkbookValidator checks uploaded workbook names and content before
// they enter the report pipeline.
type WorkbookValidator struct {
	logger *slog.Logger
}

// NewWorkbookValidator creates a new workbook validator.
func NewWorkbookValidator(logger *slog.Logger) *WorkbookValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookValidator{logger: logger}
}

// ValidateName checks that name is a plausible workbook filename:
// an .xlsx extension, no path separators or traversal, bounded length.
func (v *WorkbookValidator) ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty filename")
	}
	if len(name) > maxFilenameLength {
		return fmt.Errorf("filename too long: %d characters", len(name))
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return fmt.Errorf("invalid filename: %s", name)
	}
	if !strings.HasSuffix(strings.ToLower(name), ".xlsx") {
		return fmt.Errorf("not an .xlsx workbook: %s", name)
	}
	return nil
}

// ValidateContent checks that r starts with the xlsx (zip) signature
// and rewinds r so the pipeline reads from the beginning. Renamed CSV
// or legacy .xls files are rejected here instead of failing deep inside
// the workbook parser.
func (v *WorkbookValidator) ValidateContent(r io.ReadSeeker) error {
	header := make([]byte, len(zipMagic))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("workbook too short to be valid: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind workbook: %w", err)
	}

	for i, b := range zipMagic {
		if header[i] != b {
			v.logger.Warn("Rejected upload with non-xlsx content",
				slog.String("header", fmt.Sprintf("% x", header)))
			return fmt.Errorf("content is not an xlsx workbook")
		}
	}
	return nil
}
