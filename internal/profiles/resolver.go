package profiles

import (
	"io"
	"log/slog"

	"acadpulse/internal/matching"
	"acadpulse/pkg/contracts/domain"
)

// FuzzyMatch records a secondary profile merged by name rather than id.
type FuzzyMatch struct {
	SecondaryID   string  `json:"secondary_id"`
	SecondaryName string  `json:"secondary_name"`
	MatchedID     string  `json:"matched_id"`
	MatchedName   string  `json:"matched_name"`
	Score         float64 `json:"score"`
}

// Resolution summarizes how the secondary source was reconciled.
type Resolution struct {
	ExactMatches int          `json:"exact_matches"`
	FuzzyMatches []FuzzyMatch `json:"fuzzy_matches"`
	NewProfiles  int          `json:"new_profiles"`
}

// Resolver reconciles two sources of partial profiles into one registry.
type Resolver struct {
	threshold float64
	logger    *slog.Logger
}

// NewResolver creates a resolver accepting fuzzy matches scoring at least
// threshold. A threshold outside (0,1] falls back to matching.DefaultThreshold.
func NewResolver(threshold float64, logger *slog.Logger) *Resolver {
	if threshold <= 0 || threshold > 1 {
		threshold = matching.DefaultThreshold
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{
		threshold: threshold,
		logger:    logger.With(slog.String("component", "identity_resolver")),
	}
}

// Threshold returns the minimum accepted name similarity.
func (r *Resolver) Threshold() float64 {
	return r.threshold
}

// Resolve registers every primary profile, then folds each secondary profile
// into it: by identical id first, else into the primary profile with the most
// similar name when the score reaches the threshold, else as a new profile.
// Only primary profiles are fuzzy candidates; on equal scores the earlier one
// in primary order wins.
func (r *Resolver) Resolve(primary, secondary []*domain.StudentProfile) (*Registry, *Resolution) {
	reg := NewRegistry()
	for _, p := range primary {
		if existing, ok := reg.Get(p.StudentID); ok {
			MergeInto(existing, p)
			continue
		}
		reg.Add(p)
	}
	candidates := reg.Profiles()

	res := &Resolution{FuzzyMatches: []FuzzyMatch{}}
	for _, s := range secondary {
		if existing, ok := reg.Get(s.StudentID); ok {
			MergeInto(existing, s)
			res.ExactMatches++
			continue
		}

		if best, score := r.bestCandidate(s, candidates); best != nil {
			MergeInto(best, s)
			res.FuzzyMatches = append(res.FuzzyMatches, FuzzyMatch{
				SecondaryID:   s.StudentID,
				SecondaryName: s.StudentName,
				MatchedID:     best.StudentID,
				MatchedName:   best.StudentName,
				Score:         score,
			})
			r.logger.Info("merged student by name",
				slog.String("student_id", s.StudentID),
				slog.String("student_name", s.StudentName),
				slog.String("matched_id", best.StudentID),
				slog.String("matched_name", best.StudentName),
				slog.Float64("score", score))
			continue
		}

		reg.Add(s)
		res.NewProfiles++
	}
	return reg, res
}

func (r *Resolver) bestCandidate(s *domain.StudentProfile, candidates []*domain.StudentProfile) (*domain.StudentProfile, float64) {
	name := matching.NormalizeName(s.StudentName)
	if name == "" {
		return nil, 0
	}

	var best *domain.StudentProfile
	bestScore := 0.0
	for _, c := range candidates {
		other := matching.NormalizeName(c.StudentName)
		if other == "" {
			continue
		}
		if score := matching.Ratio(name, other); score > bestScore {
			best, bestScore = c, score
		}
	}
	if best == nil || bestScore < r.threshold {
		return nil, bestScore
	}
	return best, bestScore
}
