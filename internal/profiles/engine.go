package profiles

import (
	"errors"
	"io"
	"log/slog"

	"acadpulse/internal/analytics"
	"acadpulse/internal/matching"
	"acadpulse/internal/schema"
	"acadpulse/internal/tabular"
	"acadpulse/pkg/contracts/domain"
)

// ErrNoInput is returned when a build is asked to run without any table.
var ErrNoInput = errors.New("no input table")

// Outcome is the result of one reconciliation run.
type Outcome struct {
	// Profiles are sorted by StudentID with analytics applied
	Profiles   []*domain.StudentProfile
	Resolution *Resolution
}

// Engine runs schema detection, profile building, identity resolution and
// analytics. It keeps no state between calls and is safe for concurrent use.
type Engine struct {
	detector  *schema.Detector
	threshold float64
	base      *slog.Logger
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithThreshold sets the minimum name similarity for a fuzzy merge.
func WithThreshold(threshold float64) Option {
	return func(e *Engine) { e.threshold = threshold }
}

// WithDetector replaces the default role table.
func WithDetector(d *schema.Detector) Option {
	return func(e *Engine) { e.detector = d }
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.base = logger
		}
	}
}

// NewEngine creates an engine with the default role table and threshold.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		detector:  schema.DefaultDetector(),
		threshold: matching.DefaultThreshold,
		base:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.base.With(slog.String("component", "profile_engine"))
	return e
}

// BuildFromBothSources reconciles attendance into results.
func (e *Engine) BuildFromBothSources(results, attendance *tabular.NormalizedTable) ([]*domain.StudentProfile, error) {
	if results == nil || attendance == nil {
		return nil, ErrNoInput
	}
	out, err := e.Analyze(results, attendance)
	if err != nil {
		return nil, err
	}
	return out.Profiles, nil
}

// BuildFromAttendanceOnly builds profiles from an attendance table alone.
func (e *Engine) BuildFromAttendanceOnly(attendance *tabular.NormalizedTable) ([]*domain.StudentProfile, error) {
	if attendance == nil {
		return nil, ErrNoInput
	}
	out, err := e.Analyze(nil, attendance)
	if err != nil {
		return nil, err
	}
	return out.Profiles, nil
}

// BuildFromResultsOnly builds profiles from a results table alone.
func (e *Engine) BuildFromResultsOnly(results *tabular.NormalizedTable) ([]*domain.StudentProfile, error) {
	if results == nil {
		return nil, ErrNoInput
	}
	out, err := e.Analyze(results, nil)
	if err != nil {
		return nil, err
	}
	return out.Profiles, nil
}

// Analyze runs whichever path the given tables call for. Either table may be
// nil, not both. Both tables are schema-checked before any profile is built.
func (e *Engine) Analyze(results, attendance *tabular.NormalizedTable) (*Outcome, error) {
	if results == nil && attendance == nil {
		return nil, ErrNoInput
	}

	var resultsMap, attendanceMap schema.Mapping
	var err error
	if results != nil {
		if resultsMap, err = e.detector.DetectTable(results); err != nil {
			return nil, err
		}
	}
	if attendance != nil {
		if attendanceMap, err = e.detector.DetectTable(attendance); err != nil {
			return nil, err
		}
	}

	builder := NewBuilder(e.base)
	var primary, secondary []*domain.StudentProfile
	if results != nil {
		primary = builder.Build(results, resultsMap, SourceResults)
	}
	if attendance != nil {
		partial := builder.Build(attendance, attendanceMap, SourceAttendance)
		if results == nil {
			primary = partial
		} else {
			secondary = partial
		}
	}

	registry, resolution := NewResolver(e.threshold, e.base).Resolve(primary, secondary)
	profiles := registry.Sorted()
	analytics.ApplyAll(profiles)

	e.logger.Info("profiles built",
		slog.Bool("results", results != nil),
		slog.Bool("attendance", attendance != nil),
		slog.Int("profiles", len(profiles)),
		slog.Int("exact_matches", resolution.ExactMatches),
		slog.Int("fuzzy_matches", len(resolution.FuzzyMatches)),
		slog.Int("unmatched", resolution.NewProfiles))

	return &Outcome{Profiles: profiles, Resolution: resolution}, nil
}
