package remote_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chalkline/accord/internal/negotiation"
	"github.com/chalkline/accord/internal/plan"
	"github.com/chalkline/accord/internal/remote"
	"github.com/chalkline/accord/internal/reviewer"
)

func TestAnalyzeRoundTrip(t *testing.T) {
	fixed := []negotiation.ProposedChange{
		{
			Kind:            negotiation.ChangeAdd,
			TargetComponent: "practical_training",
			Description:     "add a summer internship block",
			Priority:        4,
			Feasibility:     0.8,
		},
	}
	srv := remote.NewServer(reviewer.NewStatic(negotiation.StakeholderHRRecruiter, "HR Recruiting Panel", fixed))

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := remote.NewHTTPClient()
	resp, err := client.Analyze(context.Background(), ts.URL, remote.AnalyzeRequest{
		Plan:            plan.Default("Software Engineering"),
		TargetPositions: []string{"backend engineer"},
		Round:           1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Suggestions, 1)

	got := resp.Suggestions[0]
	assert.Equal(t, negotiation.StakeholderHRRecruiter, got.Stakeholder)
	assert.Equal(t, "practical_training", got.TargetComponent)
	assert.NotEmpty(t, got.ID)
}

func TestAnalyzeReviewerError(t *testing.T) {
	srv := remote.NewServer(reviewer.NewFailing(negotiation.StakeholderFacultyRep, "Faculty Senate", assert.AnError))

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := remote.NewHTTPClient()
	_, err := client.Analyze(context.Background(), ts.URL, remote.AnalyzeRequest{
		Plan: plan.Default("Software Engineering"),
	})
	require.Error(t, err)

	var rpcErr *remote.RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, remote.ErrCodeInternal, rpcErr.Code)
}

func TestAnalyzeMissingPlan(t *testing.T) {
	srv := remote.NewServer(reviewer.NewStatic(negotiation.StakeholderStudentRep, "Student Council", nil))

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := remote.NewHTTPClient()
	_, err := client.Analyze(context.Background(), ts.URL, remote.AnalyzeRequest{})
	require.Error(t, err)

	var rpcErr *remote.RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, remote.ErrCodeInvalidParams, rpcErr.Code)
}

func TestDiscover(t *testing.T) {
	srv := remote.NewServer(reviewer.NewAcademicAffairs())

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := remote.NewHTTPClient()
	card, err := client.Discover(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, negotiation.StakeholderAcademicAffairs, card.Role)
	assert.Equal(t, "Academic Affairs Office", card.Name)
}

func TestRemoteReviewerProxy(t *testing.T) {
	srv := remote.NewServer(reviewer.NewIndustryExpert())

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	proxy := reviewer.NewRemote(negotiation.StakeholderIndustryExpert, "Industry Expert Board", ts.URL)
	changes, err := proxy.Analyze(context.Background(), plan.Default("Software Engineering"), negotiation.ReviewContext{Round: 1})
	require.NoError(t, err)

	for _, c := range changes {
		assert.Equal(t, negotiation.StakeholderIndustryExpert, c.Stakeholder)
	}
}
