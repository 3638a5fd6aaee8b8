package negotiation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chalkline/accord/internal/plan"
)

// Engine drives the negotiation round loop. It is the sole owner of the
// State: reviewers get plan clones, the detector, mediator, and checker get
// read-only views, and nothing else ever writes to the aggregate.
type Engine struct {
	cfg      Config
	fanout   *FanOut
	detector *Detector
	mediator *Mediator
	checker  *Checker
	progress *Reporter
}

// NewEngine wires an Engine over the given reviewer panel. Configuration
// errors surface here; a negotiation never starts on a bad config.
func NewEngine(cfg Config, reviewers []Reviewer) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(reviewers) == 0 {
		return nil, fmt.Errorf("negotiation: at least one reviewer is required")
	}

	progress := NewReporter()
	return &Engine{
		cfg:      cfg,
		fanout:   NewFanOut(reviewers, progress.Emit),
		detector: NewDetector(cfg.Detector),
		mediator: NewMediator(),
		checker:  NewChecker(cfg.ConvergenceThreshold, cfg.BaselineProposalStreams),
		progress: progress,
	}, nil
}

// Progress returns a channel that emits progress events.
func (e *Engine) Progress() <-chan ProgressEvent {
	return e.progress.Subscribe()
}

// Close shuts down the progress reporter. Callers should invoke this when the
// engine is no longer needed.
func (e *Engine) Close() {
	e.progress.Close()
}

// Report returns the convergence diagnostics for a state.
func (e *Engine) Report(s *State) Report {
	return e.checker.ReportFor(s)
}

// Run executes the negotiation over the initial plan and always returns a
// terminal, inspectable state: CONVERGED when the threshold was met,
// COMPLETED when the rounds ran out, ERROR on an unrecoverable engine fault
// or caller abort. Run never raises across the API boundary.
func (e *Engine) Run(ctx context.Context, initial *plan.Plan, rc ReviewContext) *State {
	state := NewState(initial, e.cfg)
	state.TargetPositions = append([]string(nil), rc.TargetPositions...)
	state.Status = StatusOptimizing
	start := time.Now()

	defer func() {
		state.Elapsed = time.Since(start)
		state.UpdatedAt = time.Now()
	}()

	for round := 1; round <= e.cfg.MaxRounds; round++ {
		// Cancellation is honored between rounds: the state stays at the
		// last fully committed round.
		if ctx.Err() != nil {
			log.Printf("engine: session %s aborted before round %d: %v", state.SessionID, round, ctx.Err())
			state.Status = StatusError
			return state
		}

		rc.Round = round
		if err := e.runRound(ctx, state, rc); err != nil {
			log.Printf("engine: session %s round %d failed: %v", state.SessionID, round, err)
			state.Status = StatusError
			return state
		}

		if e.checker.IsConverged(state) {
			log.Printf("engine: session %s converged after round %d", state.SessionID, round)
			state.ConsensusReached = true
			state.Status = StatusConverged
			return state
		}
	}

	log.Printf("engine: session %s exhausted %d rounds without convergence", state.SessionID, e.cfg.MaxRounds)
	state.Status = StatusCompleted
	return state
}

// runRound executes one full collect→detect→mediate→apply cycle. The round's
// results are assembled against working values and committed to the state in
// a single step at the end, so a round either lands fully or not at all.
// Unexpected faults in round bookkeeping are recovered into an error.
func (e *Engine) runRound(ctx context.Context, state *State, rc ReviewContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("round %d: internal fault: %v", rc.Round, r)
		}
	}()

	// The whole fan-out shares one deadline; reviewers still pending at
	// expiry fall back for this round.
	roundCtx, cancel := context.WithTimeout(ctx, e.cfg.RoundTimeout)
	defer cancel()

	feedback, fallbacks := e.fanout.Collect(roundCtx, state.CurrentPlan, rc)

	// A caller abort mid-fan-out leaves the state untouched; a mere round
	// timeout does not, because the fallback substitutions already stand in
	// for the missing reviewers.
	if ctx.Err() != nil {
		return fmt.Errorf("round %d aborted: %w", rc.Round, ctx.Err())
	}

	batch := flattenFeedback(e.fanout.reviewers, feedback)
	conflicts := e.detector.Detect(batch)
	solutions := e.mediator.Mediate(conflicts)
	next := e.applySolutions(state.CurrentPlan, solutions)

	log.Printf("engine: session %s round %d: %d proposals, %d conflicts, %d fallbacks",
		state.SessionID, rc.Round, len(batch), len(conflicts), len(fallbacks))

	// Commit.
	now := time.Now()
	state.Round = rc.Round
	state.Feedback = feedback
	state.Conflicts = append(state.Conflicts, conflicts...)
	state.Solutions = append(state.Solutions, solutions...)
	state.CurrentPlan = next
	state.Versions = append(state.Versions, Version{Round: rc.Round, Plan: next.Clone(), CreatedAt: now})
	state.Satisfaction = satisfactionScores(feedback)
	e.recordConsensus(state, rc.Round, conflicts, solutions)
	state.RoundLog = append(state.RoundLog, RoundLogEntry{
		Round:         rc.Round,
		ChangeCount:   len(batch),
		ConflictCount: len(conflicts),
		Fallbacks:     stakeholderNames(fallbacks),
		Timestamp:     now,
	})
	state.UpdatedAt = now
	return nil
}

// applySolutions produces the next plan snapshot. The mediator only records
// compromises, so the snapshot is a clone of the current plan; appending it
// anyway keeps the stability metric measurable round over round.
func (e *Engine) applySolutions(current *plan.Plan, _ []Solution) *plan.Plan {
	return current.Clone()
}

// flattenFeedback joins all per-stakeholder change lists into one batch in
// reviewer-panel order, so detection sees a deterministic ordering.
func flattenFeedback(reviewers []Reviewer, feedback map[StakeholderKind][]ProposedChange) []ProposedChange {
	var batch []ProposedChange
	for _, rev := range reviewers {
		batch = append(batch, feedback[rev.Kind()]...)
	}
	return batch
}

// satisfactionScores derives per-stakeholder satisfaction from the round's
// feedback: neutral 0.5 for a silent stakeholder, otherwise
// min(1, meanPriority/5 + 0.3).
func satisfactionScores(feedback map[StakeholderKind][]ProposedChange) map[StakeholderKind]float64 {
	scores := make(map[StakeholderKind]float64, len(feedback))
	for kind, changes := range feedback {
		if len(changes) == 0 {
			scores[kind] = 0.5
			continue
		}
		var sum float64
		for _, c := range changes {
			sum += float64(c.Priority)
		}
		s := sum/float64(len(changes))/5 + 0.3
		if s > 1 {
			s = 1
		}
		scores[kind] = s
	}
	return scores
}

// recordConsensus appends consensus points: one per mediated compromise and
// one for a round that closed without any open conflict. Points are
// deduplicated; the list is append-only.
func (e *Engine) recordConsensus(state *State, round int, conflicts []Conflict, solutions []Solution) {
	seen := make(map[string]bool, len(state.ConsensusPoints))
	for _, p := range state.ConsensusPoints {
		seen[p] = true
	}
	add := func(point string) {
		if !seen[point] {
			seen[point] = true
			state.ConsensusPoints = append(state.ConsensusPoints, point)
		}
	}

	for i := range solutions {
		if i >= len(conflicts) {
			break
		}
		add(fmt.Sprintf("compromise recorded for %s affecting %s",
			conflicts[i].Kind, joinComponents(conflicts[i].AffectedComponents)))
	}
	if len(conflicts) == 0 {
		add(fmt.Sprintf("round %d closed without open conflicts", round))
	}
}

func stakeholderNames(kinds []StakeholderKind) []string {
	if len(kinds) == 0 {
		return nil
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

func joinComponents(components []string) string {
	if len(components) == 0 {
		return "overall_plan"
	}
	out := components[0]
	for _, c := range components[1:] {
		out += ", " + c
	}
	return out
}
