package mcptools

import (
	"context"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/chalkline/accord/internal/negotiation"
	"github.com/chalkline/accord/internal/plan"
)

// Service handles MCP tool calls for the negotiation server mode. It builds
// a fresh engine per run_negotiation call and keeps finished states so
// convergence_report can answer questions about past sessions.
type Service struct {
	cfg       negotiation.Config
	reviewers []negotiation.Reviewer

	mu       sync.Mutex
	sessions map[string]*negotiation.State
	lastID   string
}

// NewService creates a Service over the given config and reviewer panel.
func NewService(cfg negotiation.Config, reviewers []negotiation.Reviewer) *Service {
	return &Service{
		cfg:       cfg,
		reviewers: reviewers,
		sessions:  make(map[string]*negotiation.State),
	}
}

// RunNegotiation runs a full negotiation over the given plan and returns a
// summary of the terminal state.
func (s *Service) RunNegotiation(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RunNegotiationInput,
) (*mcp.CallToolResult, RunNegotiationOutput, error) {
	var (
		p   *plan.Plan
		err error
	)
	if input.Plan != "" {
		p, err = plan.Parse([]byte(input.Plan))
		if err != nil {
			return nil, RunNegotiationOutput{Status: string(negotiation.StatusError)},
				fmt.Errorf("parse plan: %w", err)
		}
	} else {
		major := input.Major
		if major == "" {
			major = "Software Engineering"
		}
		p = plan.Default(major)
	}

	cfg := s.cfg
	if input.MaxRounds > 0 {
		cfg.MaxRounds = input.MaxRounds
	}
	if input.Threshold > 0 {
		cfg.ConvergenceThreshold = input.Threshold
	}

	engine, err := negotiation.NewEngine(cfg, s.reviewers)
	if err != nil {
		return nil, RunNegotiationOutput{Status: string(negotiation.StatusError)}, err
	}
	defer engine.Close()

	state := engine.Run(ctx, p, negotiation.ReviewContext{TargetPositions: input.TargetPositions})
	report := engine.Report(state)

	s.mu.Lock()
	s.sessions[state.SessionID] = state
	s.lastID = state.SessionID
	s.mu.Unlock()

	return nil, RunNegotiationOutput{
		SessionID:        state.SessionID,
		Status:           string(state.Status),
		Rounds:           state.Round,
		ConsensusReached: state.ConsensusReached,
		ConvergenceScore: report.Score,
		ConflictCount:    len(state.Conflicts),
		SolutionCount:    len(state.Solutions),
		ConsensusPoints:  state.ConsensusPoints,
	}, nil
}

// DetectConflicts runs the conflict detector over an ad-hoc batch of changes
// without starting a negotiation.
func (s *Service) DetectConflicts(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input DetectConflictsInput,
) (*mcp.CallToolResult, DetectConflictsOutput, error) {
	changes := make([]negotiation.ProposedChange, len(input.Changes))
	for i, in := range input.Changes {
		c := negotiation.ProposedChange{
			Stakeholder:     negotiation.StakeholderKind(in.Stakeholder),
			Kind:            negotiation.ChangeKind(in.Kind),
			TargetComponent: in.TargetComponent,
			Description:     in.Description,
			Priority:        in.Priority,
			Feasibility:     in.Feasibility,
		}
		c.Normalize()
		changes[i] = c
	}

	detector := negotiation.NewDetector(s.cfg.Detector)
	conflicts := detector.Detect(changes)

	out := DetectConflictsOutput{Conflicts: make([]ConflictSummary, len(conflicts))}
	for i, c := range conflicts {
		out.Conflicts[i] = ConflictSummary{
			ID:                 c.ID,
			Kind:               string(c.Kind),
			Severity:           c.Severity,
			Description:        c.Description,
			InvolvedChanges:    c.InvolvedChanges,
			AffectedComponents: c.AffectedComponents,
			Strategies:         c.ResolutionStrategies,
		}
	}
	return nil, out, nil
}

// ConvergenceReport reports the convergence diagnostics for a past session.
func (s *Service) ConvergenceReport(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ConvergenceReportInput,
) (*mcp.CallToolResult, ConvergenceReportOutput, error) {
	s.mu.Lock()
	id := input.SessionID
	if id == "" {
		id = s.lastID
	}
	state, ok := s.sessions[id]
	s.mu.Unlock()

	if !ok {
		return nil, ConvergenceReportOutput{}, fmt.Errorf("no such session: %q", id)
	}

	checker := negotiation.NewChecker(s.cfg.ConvergenceThreshold, s.cfg.BaselineProposalStreams)
	report := checker.ReportFor(state)

	return nil, ConvergenceReportOutput{
		SessionID: id,
		Converged: report.Converged,
		Composite: report.Score,
		Threshold: report.Threshold,
		Metrics: map[string]float64{
			"suggestionReduction": report.Metrics.SuggestionReduction,
			"conflictSeverity":    report.Metrics.ConflictSeverity,
			"satisfaction":        report.Metrics.Satisfaction,
			"stability":           report.Metrics.Stability,
			"consensus":           report.Metrics.Consensus,
		},
		Recommendations: report.Recommendations,
	}, nil
}
