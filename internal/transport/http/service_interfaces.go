package http

import (
	"context"

	"acadpulse/internal/analytics"
	"acadpulse/internal/render"
	"acadpulse/internal/services"
	"acadpulse/pkg/contracts/domain"
)

// AnalysisServiceInterface defines the analysis operations used by handlers
type AnalysisServiceInterface interface {
	Analyze(ctx context.Context, req services.AnalyzeRequest) (*services.Session, error)
	Students(ctx context.Context) []*domain.StudentProfile
	Student(ctx context.Context, id string) (*domain.StudentProfile, error)
	Summary(ctx context.Context) (analytics.Summary, error)
	Session(ctx context.Context, id string) (*services.Session, error)
	Sessions(ctx context.Context) []services.SessionInfo
}

// ReportServiceInterface defines the report operations used by handlers
type ReportServiceInterface interface {
	StudentReport(ctx context.Context, id string, format render.Format) (*services.Report, error)
	Bundle(ctx context.Context, format render.Format) (*services.Report, error)
}

// HealthServiceInterface defines the health operations used by handlers
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
	GetDetailedHealth(ctx context.Context) map[string]interface{}
}
