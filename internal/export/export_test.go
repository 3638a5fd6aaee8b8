package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chalkline/accord/internal/negotiation"
	"github.com/chalkline/accord/internal/plan"
	"github.com/chalkline/accord/internal/reviewer"
)

func finishedState(t *testing.T) (*negotiation.State, negotiation.Report) {
	t.Helper()

	cfg := negotiation.DefaultConfig()
	cfg.MaxRounds = 2
	engine, err := negotiation.NewEngine(cfg, reviewer.DefaultPanel())
	require.NoError(t, err)
	defer engine.Close()

	state := engine.Run(context.Background(), plan.Default("Software Engineering"), negotiation.ReviewContext{
		TargetPositions: []string{"backend engineer"},
	})
	require.True(t, state.Status.IsTerminal())
	return state, engine.Report(state)
}

func TestWriteJSON(t *testing.T) {
	state, report := finishedState(t)

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, WriteJSON(state, report, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got SessionExport
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, state.SessionID, got.SessionID)
	assert.Equal(t, string(state.Status), got.Status)
	assert.NotNil(t, got.Plan)
	assert.Len(t, got.RoundLog, state.Round)
}

func TestGenerateReport(t *testing.T) {
	state, report := finishedState(t)

	md := GenerateReport(state, report)
	assert.Contains(t, md, "# Negotiation Report")
	assert.Contains(t, md, state.SessionID)
	assert.Contains(t, md, "## Convergence Metrics")
	assert.Contains(t, md, "## Round Log")
	assert.Contains(t, md, "| 1 |")
}

func TestGenerateReportEmptyState(t *testing.T) {
	state := negotiation.NewState(plan.Default("Software Engineering"), negotiation.DefaultConfig())
	checker := negotiation.NewChecker(0.85, 10)

	md := GenerateReport(state, checker.ReportFor(state))
	assert.Contains(t, md, "No rounds were completed.")
	assert.Contains(t, md, "No conflicts were detected.")
}
