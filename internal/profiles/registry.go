package profiles

import (
	"sort"

	"acadpulse/pkg/contracts/domain"
)

// Registry is the per-run set of profiles keyed by canonical student id.
// It remembers insertion order, which is the fuzzy-match tie-break order.
// A Registry is owned by a single run and is not safe for concurrent use.
type Registry struct {
	order []string
	byID  map[string]*domain.StudentProfile
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*domain.StudentProfile)}
}

// Get returns the profile registered under id.
func (r *Registry) Get(id string) (*domain.StudentProfile, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Add registers p under its StudentID. It returns false and leaves the
// registry untouched when the id is already taken.
func (r *Registry) Add(p *domain.StudentProfile) bool {
	if _, exists := r.byID[p.StudentID]; exists {
		return false
	}
	r.byID[p.StudentID] = p
	r.order = append(r.order, p.StudentID)
	return true
}

// Len returns the number of registered profiles.
func (r *Registry) Len() int {
	return len(r.order)
}

// Profiles returns the profiles in insertion order.
func (r *Registry) Profiles() []*domain.StudentProfile {
	out := make([]*domain.StudentProfile, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Sorted returns the profiles ordered by StudentID.
func (r *Registry) Sorted() []*domain.StudentProfile {
	out := r.Profiles()
	SortByID(out)
	return out
}

// SortByID orders profiles ascending by StudentID, byte-wise.
func SortByID(ps []*domain.StudentProfile) {
	sort.Slice(ps, func(i, j int) bool {
		return ps[i].StudentID < ps[j].StudentID
	})
}
