package reviewer

import (
	"context"
	"fmt"
	"strings"

	"github.com/chalkline/accord/internal/negotiation"
	"github.com/chalkline/accord/internal/plan"
)

// Compile-time check.
var _ negotiation.Reviewer = (*IndustryExpert)(nil)

// IndustryExpert reviews the plan for technology currency: modern topics,
// tooling exposure, and lab practice aligned with industry standards.
type IndustryExpert struct {
	base

	// CurrentTopics are the technology areas the expert expects to find in
	// at least one course name or skill.
	CurrentTopics []string
}

// NewIndustryExpert creates the industry-expert reviewer with a default
// topic list.
func NewIndustryExpert() *IndustryExpert {
	return &IndustryExpert{
		base:          base{kind: negotiation.StakeholderIndustryExpert, name: "Industry Expert Board"},
		CurrentTopics: []string{"cloud", "machine learning", "security", "distributed"},
	}
}

// Analyze applies the technology-currency rules.
func (r *IndustryExpert) Analyze(_ context.Context, p *plan.Plan, _ negotiation.ReviewContext) ([]negotiation.ProposedChange, error) {
	var out []negotiation.ProposedChange

	for _, topic := range r.CurrentTopics {
		if !r.topicCovered(p, topic) {
			out = append(out, r.change(negotiation.ChangeAdd, "course:"+topicCode(topic),
				fmt.Sprintf("add an applied %s course immediately; the field has moved and graduates arrive without it", topic),
				"industry tooling and standards already assume working knowledge of this area",
				4, 0.7))
			break
		}
	}

	if !r.hasLabBlock(p) {
		out = append(out, r.change(negotiation.ChangeAdd, "practical_training",
			"add a lab block with current industry equipment and toolchains",
			"hands-on tool practice cannot be replaced by lectures",
			4, 0.6))
	}

	return out, nil
}

func (r *IndustryExpert) topicCovered(p *plan.Plan, topic string) bool {
	topic = strings.ToLower(topic)
	for _, c := range p.Courses {
		if strings.Contains(strings.ToLower(c.Name), topic) {
			return true
		}
		for _, s := range c.Skills {
			if strings.Contains(strings.ToLower(s), topic) {
				return true
			}
		}
	}
	for _, skills := range p.SkillMapping {
		for _, s := range skills {
			if strings.Contains(strings.ToLower(s), topic) {
				return true
			}
		}
	}
	return false
}

func (r *IndustryExpert) hasLabBlock(p *plan.Plan) bool {
	for _, b := range p.PracticalTraining {
		if strings.EqualFold(b.Type, "lab") {
			return true
		}
	}
	return false
}

// topicCode derives a short synthetic course code from a topic name.
func topicCode(topic string) string {
	fields := strings.Fields(topic)
	var code strings.Builder
	for _, f := range fields {
		code.WriteByte(f[0])
	}
	return strings.ToUpper(code.String()) + "401"
}
