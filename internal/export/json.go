// Package export renders finished negotiation sessions: a machine-readable
// JSON document and a human-readable markdown report.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/chalkline/accord/internal/negotiation"
	"github.com/chalkline/accord/internal/plan"
)

// SessionExport is the top-level JSON export structure.
type SessionExport struct {
	SessionID        string                      `json:"sessionId"`
	MajorName        string                      `json:"majorName,omitempty"`
	ExportedAt       string                      `json:"exportedAt"`
	Status           string                      `json:"status"`
	Rounds           int                         `json:"rounds"`
	ConsensusReached bool                        `json:"consensusReached"`
	Report           negotiation.Report          `json:"convergence"`
	Plan             *plan.Plan                  `json:"plan"`
	Conflicts        []negotiation.Conflict      `json:"conflicts"`
	Solutions        []negotiation.Solution      `json:"solutions"`
	ConsensusPoints  []string                    `json:"consensusPoints"`
	Satisfaction     map[string]float64          `json:"satisfaction"`
	RoundLog         []negotiation.RoundLogEntry `json:"roundLog"`
}

// Export assembles the JSON view of a terminal state.
func Export(state *negotiation.State, report negotiation.Report) *SessionExport {
	satisfaction := make(map[string]float64, len(state.Satisfaction))
	for kind, v := range state.Satisfaction {
		satisfaction[string(kind)] = v
	}

	return &SessionExport{
		SessionID:        state.SessionID,
		MajorName:        state.MajorName,
		ExportedAt:       time.Now().UTC().Format(time.RFC3339),
		Status:           string(state.Status),
		Rounds:           state.Round,
		ConsensusReached: state.ConsensusReached,
		Report:           report,
		Plan:             state.CurrentPlan,
		Conflicts:        state.Conflicts,
		Solutions:        state.Solutions,
		ConsensusPoints:  state.ConsensusPoints,
		Satisfaction:     satisfaction,
		RoundLog:         state.RoundLog,
	}
}

// WriteJSON writes the export as indented JSON to path.
func WriteJSON(state *negotiation.State, report negotiation.Report, path string) error {
	data, err := json.MarshalIndent(Export(state, report), "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal session: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
