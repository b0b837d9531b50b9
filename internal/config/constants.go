package config

import "time"

// Application constants for the Academic Pulse system
const (
	// Application Info
	AppName    = "Academic Pulse"
	AppVersion = "1.0.0"

	// Analysis
	DefaultFuzzyThreshold = 0.85
	DefaultMaxUploadBytes = 50 * 1024 * 1024 // 50MB
	DefaultMaxSessions    = 100

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Timeouts
	DefaultRequestTimeout = 2 * time.Minute
	DefaultPDFTimeout     = 45 * time.Second
	WebSocketPingPeriod   = 30 * time.Second
	WebSocketPongWait     = 60 * time.Second

	// WebSocket Buffer Sizes
	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024

	// Log Settings
	DefaultLogLevel = "info"

	// File Paths (relative to executable)
	DefaultWebDir     = "web"
	DefaultReportsDir = "reports"
	DefaultLogsDir    = "logs"

	// Report letterhead
	DefaultUniversityName     = "KL University"
	DefaultUniversityFullName = "Koneru Lakshmaiah Education Foundation"
	DefaultDepartmentName     = "Department of Artificial Intelligence and Data Science (AI & DS)"
	DefaultHODName            = "Anubothu Aravind"
	DefaultReportTitle        = "Student Academic Performance Report"
)

// API routes
const (
	APIBasePath       = "/api"
	HealthEndpoint    = "/api/health"
	MetricsEndpoint   = "/metrics"
	WebSocketEndpoint = "/ws"
)
