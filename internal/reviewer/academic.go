package reviewer

import (
	"context"
	"fmt"

	"github.com/chalkline/accord/internal/negotiation"
	"github.com/chalkline/accord/internal/plan"
)

// Compile-time check.
var _ negotiation.Reviewer = (*AcademicAffairs)(nil)

// AcademicAffairs reviews the plan from the administration's standpoint:
// feasibility, staffing and budget limits, credit caps, and assessment
// coverage.
type AcademicAffairs struct {
	base

	// MaxTotalCredits is the administrative credit ceiling.
	MaxTotalCredits float64

	// MaxSemesterLoad is the per-semester credit ceiling before scheduling
	// is flagged.
	MaxSemesterLoad float64
}

// NewAcademicAffairs creates the academic-affairs reviewer with default caps.
func NewAcademicAffairs() *AcademicAffairs {
	return &AcademicAffairs{
		base:            base{kind: negotiation.StakeholderAcademicAffairs, name: "Academic Affairs Office"},
		MaxTotalCredits: 160,
		MaxSemesterLoad: 28,
	}
}

// Analyze applies the administrative rules to the plan.
func (r *AcademicAffairs) Analyze(_ context.Context, p *plan.Plan, _ negotiation.ReviewContext) ([]negotiation.ProposedChange, error) {
	var out []negotiation.ProposedChange

	if total := p.TotalCredits(); total > r.MaxTotalCredits {
		out = append(out, r.change(negotiation.ChangeModify, "credit_distribution",
			fmt.Sprintf("reduce total credits from %.1f to at most %.1f to stay within the budget and staffing envelope", total, r.MaxTotalCredits),
			"the current load exceeds what faculty and classroom capacity can carry",
			4, 0.7))
	}

	for semester, load := range p.SemesterLoad() {
		if load > r.MaxSemesterLoad {
			out = append(out, r.change(negotiation.ChangeModify, "course_schedule",
				fmt.Sprintf("reduce the semester %d load of %.1f credits by moving courses to lighter semesters", semester, load),
				"overloaded semesters strain classroom and instructor allocation",
				3, 0.8))
			break
		}
	}

	for _, c := range p.Courses {
		if _, ok := p.AssessmentMethods[c.Code]; !ok {
			out = append(out, r.change(negotiation.ChangeAdd, "assessment_methods",
				fmt.Sprintf("add an assessment method for %s (%s)", c.Code, c.Name),
				"every course needs a recorded assessment method for accreditation",
				2, 0.9))
			break
		}
	}

	return out, nil
}
