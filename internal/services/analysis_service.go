package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"acadpulse/internal/analytics"
	"acadpulse/internal/config"
	"acadpulse/internal/infrastructure"
	"acadpulse/internal/profiles"
	"acadpulse/internal/tabular"
	"acadpulse/internal/validation"
	ws "acadpulse/internal/websocket"
	"acadpulse/pkg/contracts/domain"
)

// Mode names which sources an analysis used
type Mode string

const (
	ModeBoth           Mode = "both"
	ModeResultsOnly    Mode = "results_only"
	ModeAttendanceOnly Mode = "attendance_only"
)

// Upload is one uploaded spreadsheet
type Upload struct {
	Name string
	Data []byte
}

// AnalyzeRequest carries the uploaded files; either may be nil, not both
type AnalyzeRequest struct {
	Results    *Upload
	Attendance *Upload
}

// Session is the stored outcome of one analysis run
type Session struct {
	ID         string                   `json:"session_id"`
	CreatedAt  time.Time                `json:"created_at"`
	Mode       Mode                     `json:"mode"`
	Summary    analytics.Summary        `json:"summary"`
	Resolution *profiles.Resolution     `json:"resolution,omitempty"`
	Profiles   []*domain.StudentProfile `json:"-"`
	Duration   time.Duration            `json:"-"`
}

// SessionInfo is the listing view of a session
type SessionInfo struct {
	ID        string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	Mode      Mode      `json:"mode"`
	Students  int       `json:"students"`
}

// Broadcaster publishes analysis events to live clients
type Broadcaster interface {
	Broadcast(ctx context.Context, messageType string, data interface{})
}

// AnalysisService runs reconciliations and keeps their results in memory.
// The latest profile per student id is served to report endpoints; a student
// stays addressable while some retained session holds them.
type AnalysisService struct {
	engine      *profiles.Engine
	validator   *validation.FileValidator
	hub         Broadcaster
	metrics     *infrastructure.BusinessMetrics
	tracer      trace.Tracer
	maxSessions int
	logger      *slog.Logger
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
	order    []string
	latest   map[string]*domain.StudentProfile
}

// AnalysisOption configures an AnalysisService
type AnalysisOption func(*AnalysisService)

// WithBroadcaster publishes analysis:complete and analysis:failed events
func WithBroadcaster(b Broadcaster) AnalysisOption {
	return func(s *AnalysisService) { s.hub = b }
}

// WithMetrics records run counters and durations
func WithMetrics(m *infrastructure.BusinessMetrics) AnalysisOption {
	return func(s *AnalysisService) { s.metrics = m }
}

// WithTracer wraps each run in a span
func WithTracer(t trace.Tracer) AnalysisOption {
	return func(s *AnalysisService) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithMaxSessions bounds retained sessions; the oldest is evicted first
func WithMaxSessions(n int) AnalysisOption {
	return func(s *AnalysisService) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithClock replaces time.Now for session timestamps
func WithClock(now func() time.Time) AnalysisOption {
	return func(s *AnalysisService) { s.now = now }
}

// NewAnalysisService creates the service around a reconciliation engine and
// an upload validator.
func NewAnalysisService(engine *profiles.Engine, validator *validation.FileValidator, logger *slog.Logger, opts ...AnalysisOption) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &AnalysisService{
		engine:      engine,
		validator:   validator,
		tracer:      noop.NewTracerProvider().Tracer("analysis"),
		maxSessions: config.DefaultMaxSessions,
		logger:      logger.With(slog.String("service", "analysis")),
		now:         time.Now,
		sessions:    make(map[string]*Session),
		latest:      make(map[string]*domain.StudentProfile),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze validates and decodes the uploads, reconciles them and stores the
// outcome as a new session.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalyzeRequest) (*Session, error) {
	mode, err := modeOf(req)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "analysis.run",
		trace.WithAttributes(attribute.String("analysis.mode", string(mode))))
	defer span.End()

	start := s.now()
	session, err := s.run(ctx, mode, req)
	duration := s.now().Sub(start)

	fuzzy := 0
	if session != nil && session.Resolution != nil {
		fuzzy = len(session.Resolution.FuzzyMatches)
	}
	profileCount := 0
	if session != nil {
		profileCount = len(session.Profiles)
	}
	s.metrics.RecordAnalysis(ctx, string(mode), duration, profileCount, fuzzy, err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "Analysis failed",
			slog.String("mode", string(mode)),
			slog.String("error", err.Error()))
		s.broadcast(ctx, ws.TypeAnalysisFailed, map[string]interface{}{
			"mode":  mode,
			"error": err.Error(),
		})
		return nil, err
	}

	session.Duration = duration
	s.store(session)
	span.SetAttributes(
		attribute.String("analysis.session_id", session.ID),
		attribute.Int("analysis.students", len(session.Profiles)),
	)

	s.logger.InfoContext(ctx, "Analysis complete",
		slog.String("session_id", session.ID),
		slog.String("mode", string(mode)),
		slog.Int("students", len(session.Profiles)),
		slog.Int("fuzzy_matches", fuzzy),
		slog.Duration("duration", duration))

	s.broadcast(ctx, ws.TypeAnalysisComplete, map[string]interface{}{
		"session_id": session.ID,
		"mode":       mode,
		"summary":    session.Summary,
	})
	return session, nil
}

func (s *AnalysisService) run(ctx context.Context, mode Mode, req AnalyzeRequest) (*Session, error) {
	if err := s.validate("results", req.Results); err != nil {
		return nil, err
	}
	if err := s.validate("attendance", req.Attendance); err != nil {
		return nil, err
	}

	var results, attendance *tabular.NormalizedTable
	g, _ := errgroup.WithContext(ctx)
	if req.Results != nil {
		g.Go(func() (err error) {
			results, err = tabular.Parse(req.Results.Data, tabular.ExtOf(req.Results.Name), req.Results.Name)
			return err
		})
	}
	if req.Attendance != nil {
		g.Go(func() (err error) {
			attendance, err = tabular.Parse(req.Attendance.Data, tabular.ExtOf(req.Attendance.Name), req.Attendance.Name)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcome, err := s.engine.Analyze(results, attendance)
	if err != nil {
		return nil, err
	}
	if len(outcome.Profiles) == 0 {
		return nil, ErrNoStudents
	}

	return &Session{
		ID:         uuid.New().String(),
		CreatedAt:  s.now(),
		Mode:       mode,
		Summary:    analytics.Summarize(outcome.Profiles),
		Resolution: outcome.Resolution,
		Profiles:   outcome.Profiles,
	}, nil
}

// validate maps upload validator failures onto service errors
func (s *AnalysisService) validate(role string, u *Upload) error {
	if u == nil || s.validator == nil {
		return nil
	}
	err := s.validator.ValidateUpload(u.Name, int64(len(u.Data)))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, validation.ErrFileTooLarge):
		return fmt.Errorf("%s file: %w: %v", role, ErrFileTooLarge, err)
	case errors.Is(err, validation.ErrEmptyFile):
		return fmt.Errorf("%s file: %w: %v", role, ErrEmptyUpload, err)
	default:
		return fmt.Errorf("%s file: %w: %v", role, ErrUnsupportedFormat, err)
	}
}

func modeOf(req AnalyzeRequest) (Mode, error) {
	switch {
	case req.Results != nil && req.Attendance != nil:
		return ModeBoth, nil
	case req.Results != nil:
		return ModeResultsOnly, nil
	case req.Attendance != nil:
		return ModeAttendanceOnly, nil
	default:
		return "", ErrNoFiles
	}
}

// store records session, evicting the oldest beyond maxSessions. Profiles of
// the new session replace earlier ones with the same id. Latest entries that
// still point into an evicted session go with it.
func (s *AnalysisService) store(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = session
	s.order = append(s.order, session.ID)
	for len(s.order) > s.maxSessions {
		evicted := s.order[0]
		s.order = s.order[1:]
		for _, p := range s.sessions[evicted].Profiles {
			if s.latest[p.StudentID] == p {
				delete(s.latest, p.StudentID)
			}
		}
		delete(s.sessions, evicted)
		s.logger.Debug("Evicted analysis session", slog.String("session_id", evicted))
	}

	for _, p := range session.Profiles {
		s.latest[p.StudentID] = p
	}
}

func (s *AnalysisService) broadcast(ctx context.Context, messageType string, data interface{}) {
	if s.hub != nil {
		s.hub.Broadcast(ctx, messageType, data)
	}
}

// Students returns the latest profile of every student, sorted by id
func (s *AnalysisService) Students(ctx context.Context) []*domain.StudentProfile {
	s.mu.RLock()
	out := make([]*domain.StudentProfile, 0, len(s.latest))
	for _, p := range s.latest {
		out = append(out, p)
	}
	s.mu.RUnlock()

	profiles.SortByID(out)
	return out
}

// Student looks up the latest profile by id in any case and spacing
func (s *AnalysisService) Student(ctx context.Context, id string) (*domain.StudentProfile, error) {
	key := profiles.CanonicalID(id)

	s.mu.RLock()
	p, ok := s.latest[key]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, key)
	}
	return p, nil
}

// Summary summarizes the latest profiles. ErrNoData before any analysis.
func (s *AnalysisService) Summary(ctx context.Context) (analytics.Summary, error) {
	students := s.Students(ctx)
	if len(students) == 0 {
		return analytics.Summary{}, ErrNoData
	}
	return analytics.Summarize(students), nil
}

// Session returns a stored session
func (s *AnalysisService) Session(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session, nil
}

// Sessions lists retained sessions, newest first
func (s *AnalysisService) Sessions(ctx context.Context) []SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SessionInfo, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		session := s.sessions[s.order[i]]
		out = append(out, SessionInfo{
			ID:        session.ID,
			CreatedAt: session.CreatedAt,
			Mode:      session.Mode,
			Students:  len(session.Profiles),
		})
	}
	return out
}

// SessionCount is the number of retained sessions
func (s *AnalysisService) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
