package services

import "errors"

// Service-level sentinel errors
var (
	// Upload errors
	ErrNoFilesFound    = errors.New("no files found")
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidFileType = errors.New("invalid file type")

	// General errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrOperationTimeout   = errors.New("operation timed out")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
