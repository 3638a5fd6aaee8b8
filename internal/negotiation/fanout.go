package negotiation

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chalkline/accord/internal/plan"
)

// ReviewContext is the optional context handed to reviewers alongside the
// plan. Reviewers must tolerate a zero value.
type ReviewContext struct {
	TargetPositions []string
	Round           int
}

// Reviewer is the collaborator contract consumed by the engine: an opaque
// role that inspects a plan and returns proposed changes. Implementations
// must not mutate the plan they receive; the engine hands each one its own
// clone regardless.
type Reviewer interface {
	// Kind identifies the stakeholder role the reviewer represents.
	Kind() StakeholderKind

	// Name returns a human-readable reviewer name for logs and reports.
	Name() string

	// Analyze inspects the plan and returns proposed changes. Implementations
	// should map internal failures to an empty list, but the engine treats a
	// returned error, panic, or timeout the same way: fallback substitution.
	Analyze(ctx context.Context, p *plan.Plan, rc ReviewContext) ([]ProposedChange, error)
}

// reviewResult is the outcome of one reviewer's analysis during fan-out.
type reviewResult struct {
	kind     StakeholderKind
	changes  []ProposedChange
	err      error
	fallback bool
}

// FanOut dispatches the current plan to every reviewer in parallel and
// collects each one's proposed changes. Reviewers have independent failure
// domains: an error, panic, or timeout in one never blocks or corrupts the
// others, and a failed reviewer is substituted with a single fallback change
// rather than aborting the round.
type FanOut struct {
	reviewers  []Reviewer
	onProgress func(ProgressEvent)
}

// NewFanOut creates a FanOut over the given reviewers.
// onProgress is called synchronously from each goroutine; it may be nil.
func NewFanOut(reviewers []Reviewer, onProgress func(ProgressEvent)) *FanOut {
	return &FanOut{
		reviewers:  reviewers,
		onProgress: onProgress,
	}
}

// fallbackChange is the neutral substitution for a failed or timed-out
// reviewer: a low-priority MODIFY against the whole plan.
func fallbackChange(kind StakeholderKind) ProposedChange {
	c := ProposedChange{
		Stakeholder:     kind,
		Kind:            ChangeModify,
		TargetComponent: "overall_plan",
		Description:     "revisit the overall plan in the next round",
		Justification:   "reviewer was unavailable this round",
		Priority:        1,
		Feasibility:     0.5,
		CreatedAt:       time.Now(),
	}
	c.Normalize()
	return c
}

// Collect runs every reviewer against its own clone of the plan and waits for
// all of them. The returned map holds one entry per reviewer; reviewers that
// failed are represented by exactly one fallback change and listed in the
// second return value. Collect itself never fails: the caller decides, via
// ctx, whether the round's results may still be committed.
func (f *FanOut) Collect(ctx context.Context, p *plan.Plan, rc ReviewContext) (map[StakeholderKind][]ProposedChange, []StakeholderKind) {
	results := make([]reviewResult, len(f.reviewers))
	g, gctx := errgroup.WithContext(ctx)

	for i, rev := range f.reviewers {
		f.emit(ProgressEvent{Round: rc.Round, Stakeholder: rev.Kind(), Status: ProgressPending})

		snapshot := p.Clone()
		g.Go(func() error {
			f.emit(ProgressEvent{Round: rc.Round, Stakeholder: rev.Kind(), Status: ProgressWorking})

			changes, err := analyzeSafely(gctx, rev, snapshot, rc)
			if err != nil {
				results[i] = reviewResult{kind: rev.Kind(), err: err, fallback: true,
					changes: []ProposedChange{fallbackChange(rev.Kind())}}
				f.emit(ProgressEvent{
					Round:       rc.Round,
					Stakeholder: rev.Kind(),
					Status:      ProgressFallback,
					Message:     err.Error(),
				})
				// A reviewer failure never aborts the round, so the group
				// error is always nil and no sibling is canceled.
				return nil
			}

			for j := range changes {
				changes[j].Stakeholder = rev.Kind()
				changes[j].Normalize()
			}
			results[i] = reviewResult{kind: rev.Kind(), changes: changes}
			f.emit(ProgressEvent{
				Round:       rc.Round,
				Stakeholder: rev.Kind(),
				Status:      ProgressComplete,
				Message:     fmt.Sprintf("%d proposals", len(changes)),
			})
			return nil
		})
	}

	_ = g.Wait()

	feedback := make(map[StakeholderKind][]ProposedChange, len(results))
	var fallbacks []StakeholderKind
	for _, res := range results {
		feedback[res.kind] = res.changes
		if res.fallback {
			fallbacks = append(fallbacks, res.kind)
		}
	}
	return feedback, fallbacks
}

// analyzeSafely invokes a reviewer, converting panics and context expiry into
// ordinary errors so the failure stays inside the reviewer's own domain.
func analyzeSafely(ctx context.Context, rev Reviewer, p *plan.Plan, rc ReviewContext) (changes []ProposedChange, err error) {
	defer func() {
		if r := recover(); r != nil {
			changes = nil
			err = fmt.Errorf("reviewer %s panicked: %v", rev.Kind(), r)
		}
	}()

	if ctx.Err() != nil {
		return nil, fmt.Errorf("reviewer %s skipped: %w", rev.Kind(), ctx.Err())
	}
	changes, err = rev.Analyze(ctx, p, rc)
	if err != nil {
		return nil, fmt.Errorf("reviewer %s failed: %w", rev.Kind(), err)
	}
	if ctx.Err() != nil {
		// The round deadline expired while this reviewer was working; its
		// late result is treated as a timeout.
		return nil, fmt.Errorf("reviewer %s timed out: %w", rev.Kind(), ctx.Err())
	}
	return changes, nil
}

func (f *FanOut) emit(ev ProgressEvent) {
	if f.onProgress != nil {
		f.onProgress(ev)
	}
}
