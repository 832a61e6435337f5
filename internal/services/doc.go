// Package services implements the business logic layer of the report
// application. It provides a clean separation between HTTP handlers and
// the processing pipeline, ensuring that business rules are centralized
// and testable.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Interface-driven design for testability
//	2. Context propagation for cancellation and tracing
//	3. Dependency injection for loose coupling
//	4. Domain-focused methods that encapsulate business rules
//
// # Available Services
//
// The package provides these core services:
//
//	- ReportService: Runs the workbook-to-deck pipeline
//	- ReportStore: Holds generated decks until they expire
//	- HealthService: Provides system health checks
//
// # Error Handling
//
// Services return domain-specific errors that handlers can transform:
//
//	- ErrNoData when a batch yields no usable records
//	- ErrReportNotFound for missing or expired reports
//	- Validation errors for invalid input
package services
