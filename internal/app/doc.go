// Package app provides application initialization and lifecycle management
// for the optical report service. It wires configuration loading, logging,
// the report pipeline services, the HTTP router, and graceful shutdown.
//
// # Initialization Flow
//
// The typical initialization sequence:
//
//	1. Load configuration from environment and files
//	2. Initialize structured logging
//	3. Create the report assembler, renderer, service, and store
//	4. Set up HTTP handlers and middleware
//	5. Configure and start the HTTP server
//	6. Set up graceful shutdown handlers
//
// # Usage
//
// The main entry point is typically:
//
//	app, err := app.NewApplication(frontendFS)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// The package handles SIGINT and SIGTERM signals to ensure active
// requests complete, the report store janitor stops, and log files
// are flushed before exit.
//
// All initialization errors are returned to the caller. The app does
// not call os.Exit() directly, allowing main to control the exit
// process.
package app
