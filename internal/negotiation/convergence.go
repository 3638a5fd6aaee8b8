package negotiation

// Metrics are the five normalized convergence sub-metrics, each in [0, 1].
type Metrics struct {
	SuggestionReduction float64 `json:"suggestionReduction"`
	ConflictSeverity    float64 `json:"conflictSeverity"`
	Satisfaction        float64 `json:"satisfaction"`
	Stability           float64 `json:"stability"`
	Consensus           float64 `json:"consensus"`
}

// Composite is the weighted sum of the sub-metrics, clamped to 1.
// Weights: reduction 0.2, conflict severity 0.3, satisfaction 0.2,
// stability 0.2, consensus 0.1.
func (m Metrics) Composite() float64 {
	score := 0.2*m.SuggestionReduction +
		0.3*m.ConflictSeverity +
		0.2*m.Satisfaction +
		0.2*m.Stability +
		0.1*m.Consensus
	if score > 1 {
		score = 1
	}
	return score
}

// Report is the diagnostic view of a convergence check.
type Report struct {
	Converged       bool     `json:"converged"`
	Score           float64  `json:"score"`
	Threshold       float64  `json:"threshold"`
	Metrics         Metrics  `json:"metrics"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Checker decides when the negotiation has converged. It is a pure function
// of the state: it holds no memory between calls, so repeated checks on an
// unchanged state always return the same verdict.
type Checker struct {
	threshold       float64
	baselineStreams int
}

// NewChecker creates a Checker with the given threshold and assumed baseline
// of concurrent proposal streams.
func NewChecker(threshold float64, baselineStreams int) *Checker {
	if baselineStreams < 1 {
		baselineStreams = 10
	}
	return &Checker{threshold: threshold, baselineStreams: baselineStreams}
}

// Compute derives the five sub-metrics from the state.
func (c *Checker) Compute(s *State) Metrics {
	var m Metrics

	// Fewer stakeholders still pushing proposals means the negotiation is
	// settling. Zero feedback scores a full 1.
	feedbackCount := s.FeedbackCount()
	if feedbackCount == 0 {
		m.SuggestionReduction = 1
	} else {
		m.SuggestionReduction = 1 - float64(feedbackCount)/float64(c.baselineStreams)
		if m.SuggestionReduction < 0 {
			m.SuggestionReduction = 0
		}
	}

	// Mean severity of the current round's conflicts, inverted. No conflicts
	// scores a full 1.
	conflicts := s.CurrentRoundConflicts()
	if len(conflicts) == 0 {
		m.ConflictSeverity = 1
	} else {
		var sum float64
		for _, cf := range conflicts {
			sum += cf.Severity
		}
		m.ConflictSeverity = 1 - sum/float64(len(conflicts))
	}

	if len(s.Satisfaction) == 0 {
		m.Satisfaction = 0.8
	} else {
		var sum float64
		for _, v := range s.Satisfaction {
			sum += v
		}
		m.Satisfaction = sum / float64(len(s.Satisfaction))
	}

	if len(s.Versions) > 1 {
		m.Stability = 0.5 + 0.1*float64(len(s.Versions))
		if m.Stability > 1 {
			m.Stability = 1
		}
	} else {
		m.Stability = 0.7
	}

	m.Consensus = float64(len(s.ConsensusPoints)) / 5
	if m.Consensus > 1 {
		m.Consensus = 1
	}

	return m
}

// IsConverged reports whether the composite score meets the threshold.
func (c *Checker) IsConverged(s *State) bool {
	return c.Compute(s).Composite() >= c.threshold
}

// ReportFor renders the full diagnostic report for the state.
func (c *Checker) ReportFor(s *State) Report {
	m := c.Compute(s)
	score := m.Composite()
	r := Report{
		Converged: score >= c.threshold,
		Score:     score,
		Threshold: c.threshold,
		Metrics:   m,
	}
	if !r.Converged {
		if m.ConflictSeverity < 0.7 {
			r.Recommendations = append(r.Recommendations, "resolve the remaining stakeholder conflicts")
		}
		if m.Satisfaction < 0.6 {
			r.Recommendations = append(r.Recommendations, "raise stakeholder satisfaction")
		}
		if m.Consensus < 0.5 {
			r.Recommendations = append(r.Recommendations, "establish more consensus points")
		}
	}
	return r
}
