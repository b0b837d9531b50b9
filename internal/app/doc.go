// Package app wires the Academic Pulse web service together and manages its
// lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, config file and ACADPULSE_* variables
//	2. Resolve and create the reports and logs directories
//	3. Initialize the JSON logger and OpenTelemetry providers
//	4. Build the reconciliation engine, analysis, report and health services
//	5. Set up middleware, API routes, /ws and /metrics
//	6. Start the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    os.Exit(1)
//	}
//	if err := application.Run(); err != nil {
//	    os.Exit(1)
//	}
//
// Tests build an application with New, passing a configuration and paths
// rooted in a temporary directory.
//
// # Graceful Shutdown
//
// Run handles SIGINT and SIGTERM. Stop drains in-flight requests, stops the
// WebSocket hub, flushes telemetry and closes the log file.
//
// # Error Handling
//
// All initialization errors are returned to the caller. The package never
// calls os.Exit.
package app
