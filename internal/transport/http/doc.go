// Package http implements the HTTP handlers of the Academic Pulse web service.
// It provides a thin layer between HTTP transport and the services, keeping
// handlers focused on request parsing, response formatting and error mapping.
//
// # Architecture Principles
//
// Handlers in this package follow these principles:
//
//	1. Thin handlers - minimal logic, delegate to services
//	2. HTTP-only concerns - multipart parsing, headers, JSON responses
//	3. Error transformation - service sentinels become API errors
//	4. Handlers depend on small service interfaces, not concrete services
//
// # Routes
//
//	POST /api/analyze                      multipart results_file and/or attendance_file
//	GET  /api/students                     latest profile per student
//	GET  /api/student/{id}                 profile, concern reasons and footer
//	GET  /api/summary                      cohort summary of the latest analysis
//	GET  /api/sessions[/{sessionID}]       retained analysis runs
//	GET  /api/report/{id}/{pdf|xlsx|html|docx}  one rendered report
//	POST /api/download-all-reports         ZIP of every student's report
//	GET  /api/health[/ready|/live]         probes
//	GET  /ws                               analysis notifications
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/data/missing-columns",
//	    "title": "Required Columns Missing",
//	    "status": 400,
//	    "detail": "results.csv: could not find required column(s) grade; ...",
//	    "instance": "/api/analyze"
//	}
//
// # Testing
//
// Handlers are tested with httptest against testify mocks of the service
// interfaces.
package http
