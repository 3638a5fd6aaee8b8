package negotiation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chalkline/accord/internal/plan"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	c := ProposedChange{Stakeholder: StakeholderFacultyRep, Description: "x"}
	c.Normalize()

	assert.NotEmpty(t, c.ID)
	assert.True(t, len(c.ID) > 4 && c.ID[:4] == "chg-")
	assert.Equal(t, ChangeModify, c.Kind)
	assert.Equal(t, "overall_plan", c.TargetComponent)
	assert.Equal(t, 1, c.Priority)
	assert.False(t, c.CreatedAt.IsZero())
}

func TestNormalizeClamps(t *testing.T) {
	c := ProposedChange{Priority: 9, Feasibility: 1.7}
	c.Normalize()
	assert.Equal(t, 5, c.Priority)
	assert.InDelta(t, 1.0, c.Feasibility, 1e-9)

	c = ProposedChange{Priority: -2, Feasibility: -0.5}
	c.Normalize()
	assert.Equal(t, 1, c.Priority)
	assert.InDelta(t, 0.0, c.Feasibility, 1e-9)
}

func TestNormalizeKeepsExistingID(t *testing.T) {
	c := ProposedChange{ID: "chg-fixed"}
	c.Normalize()
	assert.Equal(t, "chg-fixed", c.ID)
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusConverged.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusError.IsTerminal())
	assert.False(t, StatusIdle.IsTerminal())
	assert.False(t, StatusParsing.IsTerminal())
	assert.False(t, StatusOptimizing.IsTerminal())
}

func TestNewStateClonesPlan(t *testing.T) {
	p := plan.Default("Software Engineering")
	state := NewState(p, DefaultConfig())

	assert.NotEmpty(t, state.SessionID)
	assert.Equal(t, StatusIdle, state.Status)
	require.NotNil(t, state.OriginalPlan)
	require.NotNil(t, state.CurrentPlan)
	assert.NotSame(t, p, state.OriginalPlan)
	assert.NotSame(t, state.OriginalPlan, state.CurrentPlan)

	// Mutating the current plan must not leak into the original snapshot.
	state.CurrentPlan.Courses = state.CurrentPlan.Courses[:1]
	assert.Greater(t, len(state.OriginalPlan.Courses), 1)
}

func TestNewStateNilPlanFallsBack(t *testing.T) {
	state := NewState(nil, DefaultConfig())

	require.NotNil(t, state.OriginalPlan)
	require.NotNil(t, state.CurrentPlan)
	assert.NotEmpty(t, state.OriginalPlan.Courses)
}

func TestCurrentRoundConflicts(t *testing.T) {
	state := NewState(plan.Default("SE"), DefaultConfig())
	state.Conflicts = []Conflict{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}}

	// No round log yet: everything counts.
	assert.Len(t, state.CurrentRoundConflicts(), 3)

	state.RoundLog = []RoundLogEntry{{Round: 1, ConflictCount: 2}, {Round: 2, ConflictCount: 1}}
	got := state.CurrentRoundConflicts()
	require.Len(t, got, 1)
	assert.Equal(t, "c3", got[0].ID)

	state.RoundLog = append(state.RoundLog, RoundLogEntry{Round: 3, ConflictCount: 0})
	assert.Empty(t, state.CurrentRoundConflicts())
}

func TestFeedbackCount(t *testing.T) {
	state := NewState(plan.Default("SE"), DefaultConfig())
	assert.Equal(t, 0, state.FeedbackCount())

	state.Feedback = map[StakeholderKind][]ProposedChange{
		StakeholderFacultyRep: {mkChange("chg-1", StakeholderFacultyRep, ChangeModify, "x", "a", 3, 0.8)},
		StakeholderStudentRep: {},
	}
	assert.Equal(t, 1, state.FeedbackCount())
}
