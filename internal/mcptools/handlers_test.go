package mcptools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chalkline/accord/internal/negotiation"
	"github.com/chalkline/accord/internal/reviewer"
)

func testService() *Service {
	cfg := negotiation.DefaultConfig()
	cfg.MaxRounds = 3
	return NewService(cfg, reviewer.DefaultPanel())
}

func TestService_RunNegotiation(t *testing.T) {
	svc := testService()

	_, out, err := svc.RunNegotiation(context.Background(), nil, RunNegotiationInput{
		Major:           "Software Engineering",
		TargetPositions: []string{"backend engineer"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, out.SessionID)
	assert.Contains(t, []string{"converged", "completed"}, out.Status)
	assert.GreaterOrEqual(t, out.Rounds, 1)
	assert.LessOrEqual(t, out.Rounds, 3)
	assert.InDelta(t, 0.5, out.ConvergenceScore, 0.5)
}

func TestService_RunNegotiation_BadPlan(t *testing.T) {
	svc := testService()

	_, _, err := svc.RunNegotiation(context.Background(), nil, RunNegotiationInput{
		Plan: "::: not a plan :::",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse plan")
}

func TestService_DetectConflicts(t *testing.T) {
	svc := testService()

	_, out, err := svc.DetectConflicts(context.Background(), nil, DetectConflictsInput{
		Changes: []ChangeInput{
			{
				Stakeholder:     "faculty_representative",
				Kind:            "add",
				TargetComponent: "course:CS101",
				Description:     "offer a second weekly lecture for CS101",
				Priority:        3,
				Feasibility:     0.8,
			},
			{
				Stakeholder:     "student_representative",
				Kind:            "remove",
				TargetComponent: "course:CS101",
				Description:     "take CS101 out of the opening year",
				Priority:        4,
				Feasibility:     0.6,
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Conflicts, 1)

	c := out.Conflicts[0]
	assert.Equal(t, "content_conflict", c.Kind)
	assert.Len(t, c.InvolvedChanges, 2)
	assert.GreaterOrEqual(t, c.Severity, 0.0)
	assert.LessOrEqual(t, c.Severity, 1.0)
}

func TestService_ConvergenceReport(t *testing.T) {
	svc := testService()

	_, run, err := svc.RunNegotiation(context.Background(), nil, RunNegotiationInput{
		Major: "Software Engineering",
	})
	require.NoError(t, err)

	// By explicit session ID.
	_, report, err := svc.ConvergenceReport(context.Background(), nil, ConvergenceReportInput{
		SessionID: run.SessionID,
	})
	require.NoError(t, err)
	assert.Equal(t, run.SessionID, report.SessionID)
	assert.Len(t, report.Metrics, 5)

	// Defaulting to the most recent session.
	_, report2, err := svc.ConvergenceReport(context.Background(), nil, ConvergenceReportInput{})
	require.NoError(t, err)
	assert.Equal(t, run.SessionID, report2.SessionID)
}

func TestService_ConvergenceReport_UnknownSession(t *testing.T) {
	svc := testService()

	_, _, err := svc.ConvergenceReport(context.Background(), nil, ConvergenceReportInput{
		SessionID: "neg-does-not-exist",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such session")
}
