package negotiation

import (
	"time"

	"github.com/google/uuid"

	"github.com/chalkline/accord/internal/plan"
)

// ChangeKind is the type of edit a stakeholder proposes.
type ChangeKind string

const (
	ChangeAdd    ChangeKind = "add"
	ChangeModify ChangeKind = "modify"
	ChangeRemove ChangeKind = "remove"
	ChangeMerge  ChangeKind = "merge"
)

// StakeholderKind identifies one of the canonical reviewer roles.
type StakeholderKind string

const (
	StakeholderAcademicAffairs StakeholderKind = "academic_affairs"
	StakeholderHRRecruiter     StakeholderKind = "hr_recruiter"
	StakeholderIndustryExpert  StakeholderKind = "industry_expert"
	StakeholderStudentRep      StakeholderKind = "student_representative"
	StakeholderFacultyRep      StakeholderKind = "faculty_representative"
)

// CanonicalStakeholders lists the five canonical roles in a fixed order.
var CanonicalStakeholders = []StakeholderKind{
	StakeholderAcademicAffairs,
	StakeholderHRRecruiter,
	StakeholderIndustryExpert,
	StakeholderStudentRep,
	StakeholderFacultyRep,
}

// ProposedChange is the unit of feedback a stakeholder emits: one proposed
// edit to the plan, addressed by a path-like component key such as
// "course:CS101" or "credit_distribution".
type ProposedChange struct {
	ID              string          `json:"id"`
	Stakeholder     StakeholderKind `json:"stakeholder"`
	Kind            ChangeKind      `json:"kind"`
	TargetComponent string          `json:"targetComponent"`
	Description     string          `json:"description"`
	Justification   string          `json:"justification,omitempty"`
	Priority        int             `json:"priority"`    // 1..5
	Feasibility     float64         `json:"feasibility"` // 0..1
	ExpectedBenefit string          `json:"expectedBenefit,omitempty"`
	PotentialRisks  []string        `json:"potentialRisks,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Normalize fills defaults for missing fields and clamps priority and
// feasibility into their stated bounds. A single malformed record must not
// abort a round, so normalization never fails.
func (c *ProposedChange) Normalize() {
	if c.ID == "" {
		c.ID = "chg-" + uuid.NewString()
	}
	if c.Kind == "" {
		c.Kind = ChangeModify
	}
	if c.TargetComponent == "" {
		c.TargetComponent = "overall_plan"
	}
	if c.Priority < 1 {
		c.Priority = 1
	}
	if c.Priority > 5 {
		c.Priority = 5
	}
	if c.Feasibility < 0 {
		c.Feasibility = 0
	}
	if c.Feasibility > 1 {
		c.Feasibility = 1
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
}

// ConflictKind classifies a detected contradiction.
type ConflictKind string

const (
	ConflictResource ConflictKind = "resource_conflict"
	ConflictContent  ConflictKind = "content_conflict"
	ConflictPriority ConflictKind = "priority_conflict"
	ConflictTimeline ConflictKind = "timeline_conflict"
)

// Conflict is a detected contradiction between two or more proposed changes.
type Conflict struct {
	ID                   string       `json:"id"`
	Kind                 ConflictKind `json:"kind"`
	InvolvedChanges      []string     `json:"involvedChanges"` // change IDs, ordered, deduplicated, >= 2
	Description          string       `json:"description"`
	Severity             float64      `json:"severity"` // 0..1, reproducible from inputs
	AffectedComponents   []string     `json:"affectedComponents"`
	ResolutionStrategies []string     `json:"resolutionStrategies"`
}

// Solution is the mediated outcome for one conflict: an acknowledgement that
// retains the involved changes as compromise candidates pending arbitration
// in the apply step.
type Solution struct {
	ID                    string                      `json:"id"`
	ResolvedConflicts     []string                    `json:"resolvedConflicts"`
	CompromiseChanges     []string                    `json:"compromiseChanges"`
	ImplementationPlan    string                      `json:"implementationPlan"`
	StakeholderAcceptance map[StakeholderKind]float64 `json:"stakeholderAcceptance"`
	FinalDecision         string                      `json:"finalDecision"`
}

// Status is the lifecycle state of a negotiation session.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusParsing    Status = "parsing"
	StatusOptimizing Status = "optimizing"
	StatusConverged  Status = "converged"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// IsTerminal reports whether the negotiation has finished.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusConverged, StatusCompleted, StatusError:
		return true
	}
	return false
}

// Version is one append-only snapshot of the plan after a round was applied.
type Version struct {
	Round     int        `json:"round"`
	Plan      *plan.Plan `json:"plan"`
	CreatedAt time.Time  `json:"createdAt"`
}

// RoundLogEntry records the shape of one completed round, including reviewer
// failures recovered via fallback substitution.
type RoundLogEntry struct {
	Round         int       `json:"round"`
	ChangeCount   int       `json:"changeCount"`
	ConflictCount int       `json:"conflictCount"`
	Fallbacks     []string  `json:"fallbacks,omitempty"` // stakeholders substituted this round
	Timestamp     time.Time `json:"timestamp"`
}

// State is the negotiation aggregate. It is owned exclusively by the Engine:
// collaborators receive plan clones, never the state itself, and the
// detector, mediator, and checker only ever read it.
type State struct {
	SessionID       string   `json:"sessionId"`
	MajorName       string   `json:"majorName,omitempty"`
	TargetPositions []string `json:"targetPositions,omitempty"`

	OriginalPlan *plan.Plan `json:"originalPlan"`
	CurrentPlan  *plan.Plan `json:"currentPlan"`
	Versions     []Version  `json:"versions"`

	Round     int    `json:"round"`
	MaxRounds int    `json:"maxRounds"`
	Status    Status `json:"status"`

	Feedback  map[StakeholderKind][]ProposedChange `json:"feedback"` // current round, replaced each round
	Conflicts []Conflict                           `json:"conflicts"`
	Solutions []Solution                           `json:"solutions"`

	ConsensusPoints  []string                    `json:"consensusPoints"`
	Satisfaction     map[StakeholderKind]float64 `json:"satisfaction"`
	ConsensusReached bool                        `json:"consensusReached"`

	RoundLog []RoundLogEntry `json:"roundLog"`

	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Elapsed   time.Duration `json:"elapsed"`
}

// NewState creates an IDLE session over the given plan. The original snapshot
// is cloned so later mutation of the current plan never rewrites it. A nil
// plan is replaced by the built-in sample so Run keeps its no-panic contract.
func NewState(p *plan.Plan, cfg Config) *State {
	if p == nil {
		p = plan.Default("")
	}
	now := time.Now()
	return &State{
		SessionID:    "neg-" + uuid.NewString(),
		MajorName:    p.BasicInfo["majorName"],
		OriginalPlan: p.Clone(),
		CurrentPlan:  p.Clone(),
		MaxRounds:    cfg.MaxRounds,
		Status:       StatusIdle,
		Feedback:     make(map[StakeholderKind][]ProposedChange),
		Satisfaction: make(map[StakeholderKind]float64),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CurrentRoundConflicts returns the conflicts detected in the most recent
// round. The convergence checker scores only the current round's conflicts.
func (s *State) CurrentRoundConflicts() []Conflict {
	if len(s.RoundLog) == 0 {
		return s.Conflicts
	}
	last := s.RoundLog[len(s.RoundLog)-1]
	if last.ConflictCount > len(s.Conflicts) {
		return s.Conflicts
	}
	return s.Conflicts[len(s.Conflicts)-last.ConflictCount:]
}

// FeedbackCount returns how many stakeholders reported at least one proposed
// change in the current round.
func (s *State) FeedbackCount() int {
	n := 0
	for _, changes := range s.Feedback {
		if len(changes) > 0 {
			n++
		}
	}
	return n
}
