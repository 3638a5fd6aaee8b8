package negotiation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediateOneSolutionPerConflict(t *testing.T) {
	m := NewMediator()

	conflicts := []Conflict{
		{ID: "cfl-1", Kind: ConflictContent, InvolvedChanges: []string{"chg-a", "chg-b"}},
		{ID: "cfl-2", Kind: ConflictResource, InvolvedChanges: []string{"chg-c", "chg-d", "chg-e"}},
	}

	solutions := m.Mediate(conflicts)
	require.Len(t, solutions, 2)

	assert.Equal(t, "sol-cfl-1", solutions[0].ID)
	assert.Equal(t, []string{"cfl-1"}, solutions[0].ResolvedConflicts)
	assert.Equal(t, []string{"chg-a", "chg-b"}, solutions[0].CompromiseChanges)
	assert.Equal(t, []string{"chg-c", "chg-d", "chg-e"}, solutions[1].CompromiseChanges)

	for _, sol := range solutions {
		assert.Len(t, sol.StakeholderAcceptance, 5)
		assert.NotEmpty(t, sol.ImplementationPlan)
		assert.NotEmpty(t, sol.FinalDecision)
	}
}

func TestMediateDeterministic(t *testing.T) {
	m := NewMediator()
	conflicts := []Conflict{{ID: "cfl-1", InvolvedChanges: []string{"chg-a", "chg-b"}}}

	assert.Equal(t, m.Mediate(conflicts), m.Mediate(conflicts))
}

func TestMediateEmpty(t *testing.T) {
	m := NewMediator()
	assert.Empty(t, m.Mediate(nil))
}

func TestMediateDoesNotAliasConflict(t *testing.T) {
	m := NewMediator()
	conflicts := []Conflict{{ID: "cfl-1", InvolvedChanges: []string{"chg-a"}}}

	solutions := m.Mediate(conflicts)
	solutions[0].CompromiseChanges[0] = "mutated"
	assert.Equal(t, "chg-a", conflicts[0].InvolvedChanges[0])
}
