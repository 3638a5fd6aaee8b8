package negotiation

// Mediator converts detected conflicts into recorded compromise placeholders.
// It deliberately does not rewrite the plan: each solution acknowledges one
// conflict and proposes retaining all involved changes, leaving arbitration
// to the apply step. The acceptance table is a static default distribution
// across the five canonical stakeholder kinds.
type Mediator struct{}

// NewMediator creates a Mediator.
func NewMediator() *Mediator {
	return &Mediator{}
}

// defaultAcceptance estimates how readily each canonical stakeholder accepts
// a retained-compromise outcome.
func defaultAcceptance() map[StakeholderKind]float64 {
	return map[StakeholderKind]float64{
		StakeholderAcademicAffairs: 0.8,
		StakeholderHRRecruiter:     0.7,
		StakeholderIndustryExpert:  0.8,
		StakeholderStudentRep:      0.6,
		StakeholderFacultyRep:      0.7,
	}
}

// Mediate produces one Solution per conflict. Pure: identifiers derive from
// the conflict identifiers, so mediating the same conflicts twice yields the
// same solutions.
func (m *Mediator) Mediate(conflicts []Conflict) []Solution {
	solutions := make([]Solution, 0, len(conflicts))
	for _, c := range conflicts {
		compromise := make([]string, len(c.InvolvedChanges))
		copy(compromise, c.InvolvedChanges)

		solutions = append(solutions, Solution{
			ID:                    "sol-" + c.ID,
			ResolvedConflicts:     []string{c.ID},
			CompromiseChanges:     compromise,
			ImplementationPlan:    "weigh all stakeholder positions and converge on a balanced revision",
			StakeholderAcceptance: defaultAcceptance(),
			FinalDecision:         "retain involved changes as a compromise pending arbitration",
		})
	}
	return solutions
}
