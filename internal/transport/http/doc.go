// Package http implements HTTP request handlers for the report web service.
// It provides a thin layer between HTTP transport and business logic, following
// the clean architecture principle of keeping handlers focused solely on HTTP concerns.
//
// # Architecture Principles
//
// Handlers in this package follow these principles:
//
//	1. Thin handlers - minimal logic, delegate to services
//	2. HTTP-only concerns - request parsing, response formatting
//	3. Error transformation - convert service errors to HTTP responses
//	4. No business logic - all logic belongs in the service layer
//
// # Request Flow
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → Service
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details specification:
//
//	{
//	    "type": "/errors/report/no-usable-data",
//	    "title": "No Usable Data",
//	    "status": 422,
//	    "detail": "cannot parse data: check that sheets are named RAA-R/L or IPQC-R/L",
//	    "instance": "/api/reports"
//	}
//
// # Middleware Integration
//
// Handlers work with these middleware:
//
//	- RequestID: Adds unique request ID for tracing
//	- StructuredLogger: Structured logging with slog
//	- Recoverer: Handles panics gracefully
//	- RateLimiter: Bounds request rates
//
// # Testing
//
// Handlers are tested using httptest with mock service dependencies.
package http
