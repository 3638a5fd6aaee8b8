package reviewer

import (
	"context"
	"fmt"
	"strings"

	"github.com/chalkline/accord/internal/negotiation"
	"github.com/chalkline/accord/internal/plan"
)

// Compile-time check.
var _ negotiation.Reviewer = (*HRRecruiter)(nil)

// HRRecruiter reviews the plan against hiring-market demands: practical
// experience, skill coverage for the target positions, and soft skills.
type HRRecruiter struct {
	base

	// MinPracticalShare is the minimum fraction of credits that should be
	// practical before employability is flagged.
	MinPracticalShare float64
}

// NewHRRecruiter creates the HR reviewer with default thresholds.
func NewHRRecruiter() *HRRecruiter {
	return &HRRecruiter{
		base:              base{kind: negotiation.StakeholderHRRecruiter, name: "HR Recruiting Panel"},
		MinPracticalShare: 0.25,
	}
}

// Analyze applies the employability rules. Target positions arrive through
// the review context and may be absent.
func (r *HRRecruiter) Analyze(_ context.Context, p *plan.Plan, rc negotiation.ReviewContext) ([]negotiation.ProposedChange, error) {
	var out []negotiation.ProposedChange

	if share := p.CreditShare(plan.CategoryPractical); share < r.MinPracticalShare {
		out = append(out, r.change(negotiation.ChangeAdd, "practical_training",
			fmt.Sprintf("increase internship and project credits; practical work is only %.0f%% of the plan and graduates need hands-on experience on day one", share*100),
			"hiring managers screen for demonstrated project experience before anything else",
			5, 0.8))
	}

	for _, position := range rc.TargetPositions {
		if !r.skillCovered(p, position) {
			out = append(out, r.change(negotiation.ChangeAdd, "skill_mapping",
				fmt.Sprintf("add courses that build the skills the %q position requires", position),
				"the target position group is not reachable from the current skill mapping",
				4, 0.7))
			break
		}
	}

	if !r.hasSoftSkillOutcome(p) {
		out = append(out, r.change(negotiation.ChangeModify, "learning_outcomes",
			"strengthen communication and teamwork outcomes across the core courses",
			"soft skills decide offers between technically equal candidates",
			3, 0.9))
	}

	return out, nil
}

// skillCovered reports whether any mapped skill or course name overlaps with
// a word of the position title.
func (r *HRRecruiter) skillCovered(p *plan.Plan, position string) bool {
	words := strings.Fields(strings.ToLower(position))
	matches := func(s string) bool {
		ls := strings.ToLower(s)
		for _, w := range words {
			if strings.Contains(ls, w) {
				return true
			}
		}
		return false
	}

	for _, skills := range p.SkillMapping {
		for _, skill := range skills {
			if matches(skill) {
				return true
			}
		}
	}
	for _, c := range p.Courses {
		if matches(c.Name) {
			return true
		}
	}
	return false
}

func (r *HRRecruiter) hasSoftSkillOutcome(p *plan.Plan) bool {
	for _, outcome := range p.LearningOutcomes {
		lo := strings.ToLower(outcome)
		if strings.Contains(lo, "team") || strings.Contains(lo, "communicat") {
			return true
		}
	}
	return false
}
