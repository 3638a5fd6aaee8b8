package reviewer

import (
	"context"
	"fmt"

	"github.com/chalkline/accord/internal/negotiation"
	"github.com/chalkline/accord/internal/plan"
)

// Compile-time check.
var _ negotiation.Reviewer = (*StudentRep)(nil)

// StudentRep reviews the plan from the student body's standpoint: workload,
// difficulty ramp, and elective room.
type StudentRep struct {
	base

	// MaxSemesterLoad is the credit load students consider sustainable.
	MaxSemesterLoad float64

	// MinElectiveShare is the fraction of elective credits students expect.
	MinElectiveShare float64
}

// NewStudentRep creates the student-representative reviewer with default
// expectations.
func NewStudentRep() *StudentRep {
	return &StudentRep{
		base:             base{kind: negotiation.StakeholderStudentRep, name: "Student Council"},
		MaxSemesterLoad:  24,
		MinElectiveShare: 0.10,
	}
}

// Analyze applies the workload and choice rules.
func (r *StudentRep) Analyze(_ context.Context, p *plan.Plan, _ negotiation.ReviewContext) ([]negotiation.ProposedChange, error) {
	var out []negotiation.ProposedChange

	for semester, load := range p.SemesterLoad() {
		if load > r.MaxSemesterLoad {
			out = append(out, r.change(negotiation.ChangeModify, "course_schedule",
				fmt.Sprintf("reduce the semester %d credit hours gradually; %.1f credits leave no room to absorb the material", semester, load),
				"students in overloaded semesters report burnout and falling grades",
				4, 0.8))
			break
		}
	}

	if share := p.CreditShare(plan.CategoryElective); share < r.MinElectiveShare {
		out = append(out, r.change(negotiation.ChangeAdd, "credit_distribution",
			"expand elective credits so students can follow their own interests",
			"choice over part of the curriculum keeps motivation up in the later semesters",
			3, 0.9))
	}

	if r.frontLoaded(p) {
		out = append(out, r.change(negotiation.ChangeModify, "course_schedule",
			"decrease the difficulty of the first semester and move advanced courses later",
			"a steep opening ramp drives early dropouts",
			3, 0.8))
	}

	return out, nil
}

// frontLoaded reports whether core courses appear in the first semester.
func (r *StudentRep) frontLoaded(p *plan.Plan) bool {
	for _, c := range p.Courses {
		if c.Semester == 1 && c.Category == plan.CategoryCore {
			return true
		}
	}
	return false
}
