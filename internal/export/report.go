package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chalkline/accord/internal/negotiation"
)

// GenerateReport renders a markdown summary of a finished negotiation.
func GenerateReport(state *negotiation.State, report negotiation.Report) string {
	var sb strings.Builder

	sb.WriteString("# Negotiation Report\n\n")
	fmt.Fprintf(&sb, "- **Session:** %s\n", state.SessionID)
	if state.MajorName != "" {
		fmt.Fprintf(&sb, "- **Major:** %s\n", state.MajorName)
	}
	fmt.Fprintf(&sb, "- **Status:** %s\n", state.Status)
	fmt.Fprintf(&sb, "- **Rounds:** %d of %d\n", state.Round, state.MaxRounds)
	fmt.Fprintf(&sb, "- **Consensus reached:** %v\n", state.ConsensusReached)
	fmt.Fprintf(&sb, "- **Convergence score:** %.3f (threshold %.2f)\n\n", report.Score, report.Threshold)

	sb.WriteString("## Convergence Metrics\n\n")
	sb.WriteString("| Metric | Score |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Suggestion reduction | %.3f |\n", report.Metrics.SuggestionReduction)
	fmt.Fprintf(&sb, "| Conflict severity | %.3f |\n", report.Metrics.ConflictSeverity)
	fmt.Fprintf(&sb, "| Satisfaction | %.3f |\n", report.Metrics.Satisfaction)
	fmt.Fprintf(&sb, "| Stability | %.3f |\n", report.Metrics.Stability)
	fmt.Fprintf(&sb, "| Consensus | %.3f |\n\n", report.Metrics.Consensus)

	if len(report.Recommendations) > 0 {
		sb.WriteString("## Recommendations\n\n")
		for _, r := range report.Recommendations {
			fmt.Fprintf(&sb, "- %s\n", r)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Stakeholder Satisfaction\n\n")
	if len(state.Satisfaction) == 0 {
		sb.WriteString("No satisfaction scores recorded.\n\n")
	} else {
		sb.WriteString("| Stakeholder | Score |\n|---|---|\n")
		for _, kind := range sortedStakeholders(state.Satisfaction) {
			fmt.Fprintf(&sb, "| %s | %.2f |\n", kind, state.Satisfaction[kind])
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Conflicts\n\n")
	if len(state.Conflicts) == 0 {
		sb.WriteString("No conflicts were detected.\n\n")
	} else {
		for _, c := range state.Conflicts {
			fmt.Fprintf(&sb, "- **%s** (severity %.2f): %s\n", c.Kind, c.Severity, c.Description)
		}
		sb.WriteString("\n")
	}

	if len(state.ConsensusPoints) > 0 {
		sb.WriteString("## Consensus Points\n\n")
		for _, p := range state.ConsensusPoints {
			fmt.Fprintf(&sb, "- %s\n", p)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Round Log\n\n")
	if len(state.RoundLog) == 0 {
		sb.WriteString("No rounds were completed.\n")
	} else {
		sb.WriteString("| Round | Proposals | Conflicts | Fallbacks |\n|---|---|---|---|\n")
		for _, entry := range state.RoundLog {
			fallbacks := "none"
			if len(entry.Fallbacks) > 0 {
				fallbacks = strings.Join(entry.Fallbacks, ", ")
			}
			fmt.Fprintf(&sb, "| %d | %d | %d | %s |\n",
				entry.Round, entry.ChangeCount, entry.ConflictCount, fallbacks)
		}
	}

	return sb.String()
}

func sortedStakeholders(scores map[negotiation.StakeholderKind]float64) []negotiation.StakeholderKind {
	kinds := make([]negotiation.StakeholderKind, 0, len(scores))
	for kind := range scores {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
