package negotiation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chalkline/accord/internal/plan"
)

func TestCompositeWeights(t *testing.T) {
	m := Metrics{
		SuggestionReduction: 1,
		ConflictSeverity:    1,
		Satisfaction:        1,
		Stability:           1,
		Consensus:           1,
	}
	assert.InDelta(t, 1.0, m.Composite(), 1e-9)

	m = Metrics{SuggestionReduction: 0.5, ConflictSeverity: 0.5, Satisfaction: 0.5, Stability: 0.5, Consensus: 0.5}
	assert.InDelta(t, 0.5, m.Composite(), 1e-9)
}

func TestComputeConvergedScenario(t *testing.T) {
	// No open conflicts, two highly satisfied stakeholders, three stable
	// versions, five consensus points.
	p := plan.Default("Software Engineering")
	state := NewState(p, DefaultConfig())
	state.Satisfaction = map[StakeholderKind]float64{
		StakeholderAcademicAffairs: 0.9,
		StakeholderHRRecruiter:     0.9,
	}
	for round := 1; round <= 3; round++ {
		state.Versions = append(state.Versions, Version{Round: round, Plan: p.Clone(), CreatedAt: time.Now()})
	}
	state.ConsensusPoints = []string{"p1", "p2", "p3", "p4", "p5"}

	checker := NewChecker(0.85, 10)
	m := checker.Compute(state)

	assert.InDelta(t, 1.0, m.SuggestionReduction, 1e-9)
	assert.InDelta(t, 1.0, m.ConflictSeverity, 1e-9)
	assert.InDelta(t, 0.9, m.Satisfaction, 1e-9)
	assert.InDelta(t, 0.8, m.Stability, 1e-9)
	assert.InDelta(t, 1.0, m.Consensus, 1e-9)

	// 0.2 + 0.3 + 0.18 + 0.16 + 0.1
	assert.InDelta(t, 0.94, m.Composite(), 1e-9)
	assert.True(t, checker.IsConverged(state))
}

func TestComputeDefaults(t *testing.T) {
	state := NewState(plan.Default("Software Engineering"), DefaultConfig())

	checker := NewChecker(0.85, 10)
	m := checker.Compute(state)

	// Empty state: full reduction and severity scores, neutral defaults for
	// the rest.
	assert.InDelta(t, 1.0, m.SuggestionReduction, 1e-9)
	assert.InDelta(t, 1.0, m.ConflictSeverity, 1e-9)
	assert.InDelta(t, 0.8, m.Satisfaction, 1e-9)
	assert.InDelta(t, 0.7, m.Stability, 1e-9)
	assert.InDelta(t, 0.0, m.Consensus, 1e-9)
}

func TestComputeSuggestionReduction(t *testing.T) {
	state := NewState(plan.Default("Software Engineering"), DefaultConfig())
	state.Feedback = map[StakeholderKind][]ProposedChange{
		StakeholderAcademicAffairs: {mkChange("chg-1", StakeholderAcademicAffairs, ChangeModify, "x", "a", 3, 0.8)},
		StakeholderHRRecruiter:     {mkChange("chg-2", StakeholderHRRecruiter, ChangeModify, "y", "b", 3, 0.8)},
		StakeholderStudentRep:      {mkChange("chg-3", StakeholderStudentRep, ChangeModify, "z", "c", 3, 0.8)},
		StakeholderFacultyRep:      {mkChange("chg-4", StakeholderFacultyRep, ChangeModify, "w", "d", 3, 0.8)},
		StakeholderIndustryExpert:  {},
	}

	checker := NewChecker(0.85, 10)
	m := checker.Compute(state)
	// 4 of 10 baseline streams still active.
	assert.InDelta(t, 0.6, m.SuggestionReduction, 1e-9)
}

func TestComputeCurrentRoundConflictSeverity(t *testing.T) {
	state := NewState(plan.Default("Software Engineering"), DefaultConfig())
	state.Conflicts = []Conflict{
		{ID: "cfl-old", Kind: ConflictContent, Severity: 1.0},
		{ID: "cfl-new-1", Kind: ConflictResource, Severity: 0.4},
		{ID: "cfl-new-2", Kind: ConflictTimeline, Severity: 0.6},
	}
	state.RoundLog = []RoundLogEntry{
		{Round: 1, ConflictCount: 1},
		{Round: 2, ConflictCount: 2},
	}

	checker := NewChecker(0.85, 10)
	m := checker.Compute(state)
	// Only the last round's two conflicts count: 1 - (0.4+0.6)/2.
	assert.InDelta(t, 0.5, m.ConflictSeverity, 1e-9)
}

func TestIsConvergedIdempotent(t *testing.T) {
	state := NewState(plan.Default("Software Engineering"), DefaultConfig())
	checker := NewChecker(0.85, 10)

	first := checker.IsConverged(state)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, checker.IsConverged(state))
	}
}

func TestReportRecommendations(t *testing.T) {
	state := NewState(plan.Default("Software Engineering"), DefaultConfig())
	state.Conflicts = []Conflict{{ID: "cfl-1", Kind: ConflictResource, Severity: 0.9}}
	state.RoundLog = []RoundLogEntry{{Round: 1, ConflictCount: 1}}
	state.Satisfaction = map[StakeholderKind]float64{StakeholderStudentRep: 0.3}

	checker := NewChecker(0.99, 10)
	report := checker.ReportFor(state)

	assert.False(t, report.Converged)
	assert.Contains(t, report.Recommendations, "resolve the remaining stakeholder conflicts")
	assert.Contains(t, report.Recommendations, "raise stakeholder satisfaction")
	assert.Contains(t, report.Recommendations, "establish more consensus points")
}
