package negotiation

import (
	"fmt"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Detector finds contradictions within one batch of proposed changes. It is a
// pure function of its input and configuration: no state survives between
// calls, no randomness enters severity or identifiers, and swapping the two
// changes of a pair never alters the verdict.
type Detector struct {
	cfg DetectorConfig
	jw  *metrics.JaroWinkler
}

// NewDetector creates a Detector with the given rule tables.
func NewDetector(cfg DetectorConfig) *Detector {
	return &Detector{
		cfg: cfg,
		jw:  metrics.NewJaroWinkler(),
	}
}

// baseWeight is the fixed per-kind severity base.
func baseWeight(kind ConflictKind) float64 {
	switch kind {
	case ConflictResource:
		return 0.9
	case ConflictContent:
		return 0.7
	case ConflictTimeline:
		return 0.6
	case ConflictPriority:
		return 0.5
	default:
		return 0.5
	}
}

// Detect scans all unordered pairs of the batch with the pairwise rules, in
// rule-priority order, then applies the batch-level priority-crowding rule.
// A pair matching several rules yields one conflict per matching rule.
// Batches of fewer than two changes produce no conflicts.
func (d *Detector) Detect(changes []ProposedChange) []Conflict {
	if len(changes) < 2 {
		return nil
	}

	var conflicts []Conflict
	for i := 0; i < len(changes); i++ {
		for j := i + 1; j < len(changes); j++ {
			conflicts = append(conflicts, d.detectPair(changes[i], changes[j])...)
		}
	}

	if c, ok := d.detectPriorityCrowding(changes); ok {
		conflicts = append(conflicts, c)
	}
	return conflicts
}

// detectPair applies the pairwise rules to one unordered pair.
func (d *Detector) detectPair(a, b ProposedChange) []Conflict {
	var out []Conflict

	if (a.Kind == ChangeAdd && b.Kind == ChangeRemove) || (a.Kind == ChangeRemove && b.Kind == ChangeAdd) {
		out = append(out, d.newConflict(ConflictContent, "opposite-kind", []ProposedChange{a, b},
			fmt.Sprintf("add and remove proposals collide on %s and %s", a.TargetComponent, b.TargetComponent)))
	}

	if d.areAntagonists(a.Stakeholder, b.Stakeholder) {
		out = append(out, d.newConflict(ConflictResource, "antagonists", []ProposedChange{a, b},
			fmt.Sprintf("%s and %s compete for the same plan resources", a.Stakeholder, b.Stakeholder)))
	}

	if term, ok := d.sharedTerm(a.Description, b.Description, d.cfg.ResourceLexicon); ok {
		out = append(out, d.newConflict(ConflictResource, "resource-term", []ProposedChange{a, b},
			fmt.Sprintf("both proposals contend for %q", term)))
	}

	if d.similar(a.Description, b.Description) && d.oppositeDirections(a.Description, b.Description) {
		out = append(out, d.newConflict(ConflictContent, "similar-opposed", []ProposedChange{a, b},
			"similar proposals pull in opposite directions"))
	}

	if d.timelineTension(a.Description, b.Description) {
		out = append(out, d.newConflict(ConflictTimeline, "timeline", []ProposedChange{a, b},
			"one proposal wants immediate rollout, the other a phased one"))
	}

	if a.TargetComponent != b.TargetComponent &&
		d.relatedComponents(a.TargetComponent, b.TargetComponent) {
		if _, ok := d.sharedTerm(a.Description, b.Description, d.cfg.ConceptWords); ok &&
			d.oppositeDirections(a.Description, b.Description) {
			out = append(out, d.newConflict(ConflictContent, "cross-component", []ProposedChange{a, b},
				fmt.Sprintf("linked components %s and %s are pushed in opposite directions",
					a.TargetComponent, b.TargetComponent)))
		}
	}

	return out
}

// detectPriorityCrowding emits one PRIORITY conflict when the batch carries
// more high-priority changes than the configured crowding threshold.
func (d *Detector) detectPriorityCrowding(changes []ProposedChange) (Conflict, bool) {
	var high []ProposedChange
	for _, c := range changes {
		if c.Priority >= 4 {
			high = append(high, c)
		}
	}
	if len(high) <= d.cfg.HighPriorityCrowding {
		return Conflict{}, false
	}
	return d.newConflict(ConflictPriority, "crowding", high,
		fmt.Sprintf("%d high-priority proposals crowd the round and scatter resources", len(high))), true
}

// newConflict assembles a Conflict with a deterministic identifier, the
// fixed-weighting severity, and the canned strategies for its kind.
func (d *Detector) newConflict(kind ConflictKind, rule string, involved []ProposedChange, desc string) Conflict {
	ids := make([]string, 0, len(involved))
	seen := make(map[string]bool, len(involved))
	components := make([]string, 0, len(involved))
	seenComp := make(map[string]bool, len(involved))
	for _, c := range involved {
		if !seen[c.ID] {
			seen[c.ID] = true
			ids = append(ids, c.ID)
		}
		if c.TargetComponent != "" && !seenComp[c.TargetComponent] {
			seenComp[c.TargetComponent] = true
			components = append(components, c.TargetComponent)
		}
	}

	return Conflict{
		ID:                   "cfl-" + rule + "-" + strings.Join(ids, "-"),
		Kind:                 kind,
		InvolvedChanges:      ids,
		Description:          desc,
		Severity:             severity(kind, involved),
		AffectedComponents:   components,
		ResolutionStrategies: resolutionStrategies(kind),
	}
}

// severity computes
//
//	0.5*base(kind) + 0.2*min(1, n/5) + 0.2*(meanPriority/5) + 0.1*(1-meanFeasibility)
//
// clamped to [0, 1]. The weighting is fixed; tests reproduce it exactly.
func severity(kind ConflictKind, involved []ProposedChange) float64 {
	n := float64(len(involved))
	if n == 0 {
		return baseWeight(kind) * 0.5
	}

	var prioritySum, feasibilitySum float64
	for _, c := range involved {
		prioritySum += float64(c.Priority)
		feasibilitySum += c.Feasibility
	}

	countFactor := n / 5
	if countFactor > 1 {
		countFactor = 1
	}
	s := 0.5*baseWeight(kind) +
		0.2*countFactor +
		0.2*(prioritySum/n/5) +
		0.1*(1-feasibilitySum/n)
	if s > 1 {
		s = 1
	}
	if s < 0 {
		s = 0
	}
	return s
}

// resolutionStrategies is a fixed lookup, four strategies per kind.
func resolutionStrategies(kind ConflictKind) []string {
	switch kind {
	case ConflictResource:
		return []string{
			"stage the rollout to avoid competing for the same resources",
			"look for resources both proposals can share",
			"reorder implementation priorities",
			"request additional resources",
		}
	case ConflictContent:
		return []string{
			"merge the similar proposals into one combined change",
			"pick the stronger proposal and keep the other as an alternative",
			"pilot both separately and compare outcomes",
			"escalate to an expert ruling",
		}
	case ConflictPriority:
		return []string{
			"re-score the priorities of the involved proposals",
			"re-rank against the overall plan goals",
			"rebalance across stakeholder interests",
			"adopt an explicit priority decision rule",
		}
	case ConflictTimeline:
		return []string{
			"draw up a detailed implementation schedule",
			"adjust the pacing of the involved proposals",
			"add buffer time between phases",
			"validate and adjust phase by phase",
		}
	default:
		return nil
	}
}

func (d *Detector) areAntagonists(a, b StakeholderKind) bool {
	for _, pair := range d.cfg.AntagonistPairs {
		if (pair[0] == a && pair[1] == b) || (pair[0] == b && pair[1] == a) {
			return true
		}
	}
	return false
}

// sharedTerm returns the first lexicon term present in both texts.
func (d *Detector) sharedTerm(a, b string, lexicon []string) (string, bool) {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	for _, term := range lexicon {
		if containsTerm(la, term) && containsTerm(lb, term) {
			return term, true
		}
	}
	return "", false
}

func (d *Detector) similar(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strutil.Similarity(strings.ToLower(a), strings.ToLower(b), d.jw) > d.cfg.SimilarityThreshold
}

// oppositeDirections reports whether one text pushes a positive direction
// word and the other a negative one.
func (d *Detector) oppositeDirections(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	posA := containsAny(la, d.cfg.PositiveDirections)
	negA := containsAny(la, d.cfg.NegativeDirections)
	posB := containsAny(lb, d.cfg.PositiveDirections)
	negB := containsAny(lb, d.cfg.NegativeDirections)
	return (posA && negB) || (negA && posB)
}

// timelineTension reports whether one text carries an urgency marker and the
// other a deferral marker.
func (d *Detector) timelineTension(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	urgentA := containsAny(la, d.cfg.UrgencyMarkers)
	urgentB := containsAny(lb, d.cfg.UrgencyMarkers)
	deferA := containsAny(la, d.cfg.DeferralMarkers)
	deferB := containsAny(lb, d.cfg.DeferralMarkers)
	return (urgentA && deferB) || (urgentB && deferA)
}

// relatedComponents checks the configured component pair table against the
// two component keys, in either order.
func (d *Detector) relatedComponents(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	for _, pair := range d.cfg.RelatedComponents {
		if (strings.Contains(la, pair[0]) && strings.Contains(lb, pair[1])) ||
			(strings.Contains(la, pair[1]) && strings.Contains(lb, pair[0])) {
			return true
		}
	}
	return false
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if containsTerm(text, t) {
			return true
		}
	}
	return false
}

// containsTerm reports whether term occurs in text on word boundaries, so
// "lab" never matches inside "syllabus" or "collaborate". Multi-word terms
// match as a whole phrase.
func containsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	for start := 0; start+len(term) <= len(text); {
		idx := strings.Index(text[start:], term)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(term)
		if (idx == 0 || !isWordChar(text[idx-1])) &&
			(end == len(text) || !isWordChar(text[end])) {
			return true
		}
		start = idx + 1
	}
	return false
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
