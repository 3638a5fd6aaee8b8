package reviewer

import (
	"context"

	"github.com/chalkline/accord/internal/negotiation"
	"github.com/chalkline/accord/internal/plan"
	"github.com/chalkline/accord/internal/remote"
)

// Compile-time check.
var _ negotiation.Reviewer = (*Remote)(nil)

// Remote is a reviewer backed by an out-of-process reviewer reachable over
// JSON-RPC. It satisfies the same contract as the local reviewers; the engine
// cannot tell the difference.
type Remote struct {
	base
	endpoint string
	client   *remote.HTTPClient
}

// NewRemote creates a reviewer proxy for the given endpoint.
func NewRemote(kind negotiation.StakeholderKind, name, endpoint string, opts ...remote.ClientOption) *Remote {
	return &Remote{
		base:     base{kind: kind, name: name},
		endpoint: endpoint,
		client:   remote.NewHTTPClient(opts...),
	}
}

// Discover builds a Remote from the reviewer card published at baseURL.
func Discover(ctx context.Context, baseURL string, opts ...remote.ClientOption) (*Remote, error) {
	client := remote.NewHTTPClient(opts...)
	card, err := client.Discover(ctx, baseURL)
	if err != nil {
		return nil, err
	}
	endpoint := card.Endpoint
	if endpoint == "" {
		endpoint = baseURL
	}
	return &Remote{
		base:     base{kind: card.Role, name: card.Name},
		endpoint: endpoint,
		client:   client,
	}, nil
}

// Analyze forwards the review to the remote endpoint. A transport or RPC
// failure surfaces as an error and the engine substitutes the fallback.
func (r *Remote) Analyze(ctx context.Context, p *plan.Plan, rc negotiation.ReviewContext) ([]negotiation.ProposedChange, error) {
	resp, err := r.client.Analyze(ctx, r.endpoint, remote.AnalyzeRequest{
		Plan:            p,
		TargetPositions: rc.TargetPositions,
		Round:           rc.Round,
	})
	if err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}
