package mcptools

// --- MCP tool types for the negotiation server mode (--serve-mcp) ---
// These tools let an MCP client drive negotiations with structured calls
// instead of shelling out to the CLI.

// RunNegotiationInput is the input for the run_negotiation MCP tool.
type RunNegotiationInput struct {
	Plan            string   `json:"plan,omitempty" jsonschema:"training plan as YAML or JSON (default: built-in sample plan)"`
	Major           string   `json:"major,omitempty" jsonschema:"major name used when no plan is given"`
	TargetPositions []string `json:"targetPositions,omitempty" jsonschema:"target job positions for the employability review"`
	MaxRounds       int      `json:"maxRounds,omitempty" jsonschema:"round cap override (default: configured value)"`
	Threshold       float64  `json:"threshold,omitempty" jsonschema:"convergence threshold override (0-1)"`
}

// RunNegotiationOutput is the result of the run_negotiation MCP tool.
type RunNegotiationOutput struct {
	SessionID        string   `json:"sessionId"`
	Status           string   `json:"status"` // "converged", "completed", or "error"
	Rounds           int      `json:"rounds"`
	ConsensusReached bool     `json:"consensusReached"`
	ConvergenceScore float64  `json:"convergenceScore"`
	ConflictCount    int      `json:"conflictCount"`
	SolutionCount    int      `json:"solutionCount"`
	ConsensusPoints  []string `json:"consensusPoints,omitempty"`
}

// DetectConflictsInput is the input for the detect_conflicts MCP tool.
type DetectConflictsInput struct {
	Changes []ChangeInput `json:"changes" jsonschema:"proposed changes to analyze as one batch"`
}

// ChangeInput is one proposed change in a detect_conflicts batch.
type ChangeInput struct {
	Stakeholder     string  `json:"stakeholder" jsonschema:"stakeholder role the change belongs to"`
	Kind            string  `json:"kind,omitempty" jsonschema:"change kind: add, modify, remove, or merge"`
	TargetComponent string  `json:"targetComponent,omitempty" jsonschema:"plan component the change targets"`
	Description     string  `json:"description" jsonschema:"what the stakeholder wants changed"`
	Priority        int     `json:"priority,omitempty" jsonschema:"urgency 1-5"`
	Feasibility     float64 `json:"feasibility,omitempty" jsonschema:"implementation feasibility 0-1"`
}

// DetectConflictsOutput is the result of the detect_conflicts MCP tool.
type DetectConflictsOutput struct {
	Conflicts []ConflictSummary `json:"conflicts"`
}

// ConflictSummary is a brief overview of one detected conflict.
type ConflictSummary struct {
	ID                 string   `json:"id"`
	Kind               string   `json:"kind"`
	Severity           float64  `json:"severity"`
	Description        string   `json:"description"`
	InvolvedChanges    []string `json:"involvedChanges"`
	AffectedComponents []string `json:"affectedComponents"`
	Strategies         []string `json:"strategies,omitempty"`
}

// ConvergenceReportInput is the input for the convergence_report MCP tool.
type ConvergenceReportInput struct {
	SessionID string `json:"sessionId,omitempty" jsonschema:"session to report on (default: the most recent run)"`
}

// ConvergenceReportOutput is the result of the convergence_report MCP tool.
type ConvergenceReportOutput struct {
	SessionID       string             `json:"sessionId"`
	Converged       bool               `json:"converged"`
	Composite       float64            `json:"composite"`
	Threshold       float64            `json:"threshold"`
	Metrics         map[string]float64 `json:"metrics"`
	Recommendations []string           `json:"recommendations,omitempty"`
}
