package reviewer

import (
	"fmt"
	"sync"

	"github.com/chalkline/accord/internal/negotiation"
)

// Factory is a constructor that creates a Reviewer.
type Factory func() negotiation.Reviewer

// Registry maps stakeholder roles to their factory constructors. A panel is
// assembled from the registry, so individual roles can be swapped for static
// or remote variants without touching the engine.
type Registry struct {
	mu        sync.Mutex
	factories map[negotiation.StakeholderKind]Factory
}

// NewRegistry creates a Registry pre-registered with all local reviewers.
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[negotiation.StakeholderKind]Factory),
	}
	r.factories[negotiation.StakeholderAcademicAffairs] = func() negotiation.Reviewer { return NewAcademicAffairs() }
	r.factories[negotiation.StakeholderHRRecruiter] = func() negotiation.Reviewer { return NewHRRecruiter() }
	r.factories[negotiation.StakeholderIndustryExpert] = func() negotiation.Reviewer { return NewIndustryExpert() }
	r.factories[negotiation.StakeholderStudentRep] = func() negotiation.Reviewer { return NewStudentRep() }
	r.factories[negotiation.StakeholderFacultyRep] = func() negotiation.Reviewer { return NewFacultyRep() }
	return r
}

// Register replaces the factory for a role.
func (r *Registry) Register(kind negotiation.StakeholderKind, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = f
}

// Build creates a single reviewer by role using the registered factory.
func (r *Registry) Build(kind negotiation.StakeholderKind) (negotiation.Reviewer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("no reviewer registered for role %q", kind)
	}
	return f(), nil
}

// Panel builds reviewers for the given roles in order.
func (r *Registry) Panel(kinds ...negotiation.StakeholderKind) ([]negotiation.Reviewer, error) {
	panel := make([]negotiation.Reviewer, 0, len(kinds))
	for _, kind := range kinds {
		rev, err := r.Build(kind)
		if err != nil {
			return nil, err
		}
		panel = append(panel, rev)
	}
	return panel, nil
}

// DefaultPanel returns the five canonical stakeholder reviewers in their
// canonical order.
func DefaultPanel() []negotiation.Reviewer {
	panel, err := NewRegistry().Panel(negotiation.CanonicalStakeholders...)
	if err != nil {
		// All canonical roles are registered in NewRegistry; this cannot fail.
		panic(err)
	}
	return panel
}
