package reviewer

import (
	"context"
	"fmt"

	"github.com/chalkline/accord/internal/negotiation"
	"github.com/chalkline/accord/internal/plan"
)

// Compile-time check.
var _ negotiation.Reviewer = (*FacultyRep)(nil)

// FacultyRep reviews the plan from the teaching faculty's standpoint:
// theoretical depth, prerequisite chains, and a credible graduation project.
type FacultyRep struct {
	base

	// MinBasicShare is the fraction of credits faculty expect in the basic
	// theory category.
	MinBasicShare float64
}

// NewFacultyRep creates the faculty-representative reviewer with default
// expectations.
func NewFacultyRep() *FacultyRep {
	return &FacultyRep{
		base:          base{kind: negotiation.StakeholderFacultyRep, name: "Faculty Senate"},
		MinBasicShare: 0.20,
	}
}

// Analyze applies the academic-depth rules.
func (r *FacultyRep) Analyze(_ context.Context, p *plan.Plan, _ negotiation.ReviewContext) ([]negotiation.ProposedChange, error) {
	var out []negotiation.ProposedChange

	if share := p.CreditShare(plan.CategoryBasic); share < r.MinBasicShare {
		out = append(out, r.change(negotiation.ChangeModify, "credit_distribution",
			fmt.Sprintf("strengthen the theory foundation; basic courses are only %.0f%% of the credit hours", share*100),
			"weak fundamentals cap how far students can go in the advanced courses",
			4, 0.8))
	}

	if code, ok := r.danglingPrerequisite(p); ok {
		out = append(out, r.change(negotiation.ChangeModify, "course:"+code,
			fmt.Sprintf("fix the prerequisite chain of %s; it references a course the plan does not offer", code),
			"a broken prerequisite chain makes the sequence unteachable as written",
			5, 0.9))
	}

	if p.GraduationProject == nil {
		out = append(out, r.change(negotiation.ChangeAdd, "graduation_project",
			"add a supervised graduation project in the final semester",
			"the capstone is where students integrate the whole curriculum",
			4, 0.7))
	}

	return out, nil
}

// danglingPrerequisite returns the first course whose prerequisite list names
// a course code the plan does not contain.
func (r *FacultyRep) danglingPrerequisite(p *plan.Plan) (string, bool) {
	offered := make(map[string]bool, len(p.Courses))
	for _, c := range p.Courses {
		offered[c.Code] = true
	}
	for _, c := range p.Courses {
		for _, pre := range c.Prerequisites {
			if !offered[pre] {
				return c.Code, true
			}
		}
	}
	return "", false
}
