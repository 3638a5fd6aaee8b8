package negotiation

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the knobs for one negotiation session.
type Config struct {
	// MaxRounds bounds the round loop. Must be >= 1.
	MaxRounds int `yaml:"maxRounds"`

	// ConvergenceThreshold is the composite score at or above which the
	// negotiation stops. Must be in (0, 1].
	ConvergenceThreshold float64 `yaml:"convergenceThreshold"`

	// StakeholderWeights is used for reporting and satisfaction weighting
	// only; it never gates convergence.
	StakeholderWeights map[StakeholderKind]float64 `yaml:"stakeholderWeights"`

	// ConflictTolerance is carried through to reports; conflicts below it are
	// flagged as tolerable rather than blocking.
	ConflictTolerance float64 `yaml:"conflictTolerance"`

	// RoundTimeout bounds the whole reviewer fan-out of a single round.
	// Reviewers still pending at expiry are treated as failed for the round.
	RoundTimeout time.Duration `yaml:"roundTimeout"`

	// BaselineProposalStreams is the assumed initial number of concurrent
	// proposal streams, the denominator of the suggestion-reduction metric.
	BaselineProposalStreams int `yaml:"baselineProposalStreams"`

	// Detector carries the lexicons and pair tables of the conflict rules.
	Detector DetectorConfig `yaml:"detector"`
}

// DetectorConfig makes the detector's heuristic word lists and pair tables
// injectable so thresholds and lexicons can be swapped and tested without
// touching control flow.
type DetectorConfig struct {
	// SimilarityThreshold is the Jaro-Winkler score above which two change
	// descriptions count as lexically similar.
	SimilarityThreshold float64 `yaml:"similarityThreshold"`

	// HighPriorityCrowding is the batch-level count of priority 4-5 changes
	// above which a single PRIORITY conflict is emitted.
	HighPriorityCrowding int `yaml:"highPriorityCrowding"`

	// AntagonistPairs lists stakeholder pairs whose proposals are in natural
	// resource competition.
	AntagonistPairs [][2]StakeholderKind `yaml:"antagonistPairs"`

	// RelatedComponents lists component-key substring pairs that interact
	// across the plan (the cross-component rule).
	RelatedComponents [][2]string `yaml:"relatedComponents"`

	ResourceLexicon    []string `yaml:"resourceLexicon"`
	PositiveDirections []string `yaml:"positiveDirections"`
	NegativeDirections []string `yaml:"negativeDirections"`
	UrgencyMarkers     []string `yaml:"urgencyMarkers"`
	DeferralMarkers    []string `yaml:"deferralMarkers"`
	ConceptWords       []string `yaml:"conceptWords"`
}

// DefaultConfig returns the default negotiation configuration.
func DefaultConfig() Config {
	return Config{
		MaxRounds:            5,
		ConvergenceThreshold: 0.85,
		StakeholderWeights: map[StakeholderKind]float64{
			StakeholderAcademicAffairs: 0.25,
			StakeholderHRRecruiter:     0.25,
			StakeholderIndustryExpert:  0.20,
			StakeholderStudentRep:      0.15,
			StakeholderFacultyRep:      0.15,
		},
		ConflictTolerance:       0.3,
		RoundTimeout:            300 * time.Second,
		BaselineProposalStreams: 10,
		Detector:                DefaultDetectorConfig(),
	}
}

// DefaultDetectorConfig returns the default rule tables.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		SimilarityThreshold:  0.6,
		HighPriorityCrowding: 3,
		AntagonistPairs: [][2]StakeholderKind{
			{StakeholderAcademicAffairs, StakeholderHRRecruiter},
		},
		RelatedComponents: [][2]string{
			{"course", "credit"},
			{"course", "skill"},
			{"credit", "practical"},
			{"skill", "practical"},
		},
		ResourceLexicon: []string{
			"staffing", "faculty", "instructor", "equipment", "lab", "budget",
			"funding", "classroom", "replace", "cancel",
		},
		PositiveDirections: []string{
			"increase", "raise", "strengthen", "add", "expand", "boost",
		},
		NegativeDirections: []string{
			"decrease", "reduce", "lower", "weaken", "remove", "shrink", "cut",
		},
		UrgencyMarkers: []string{
			"immediately", "urgent", "right away", "first semester", "first term",
		},
		DeferralMarkers: []string{
			"gradually", "phased", "long term", "final semester", "final term",
			"before graduation",
		},
		ConceptWords: []string{
			"credit", "hours", "difficulty", "practice", "theory",
		},
	}
}

// Validate reports configuration errors. Validation failures surface before
// the round loop starts; the negotiation never begins on a bad config.
func (c Config) Validate() error {
	if c.MaxRounds < 1 {
		return fmt.Errorf("negotiation: maxRounds must be >= 1, got %d", c.MaxRounds)
	}
	if c.ConvergenceThreshold <= 0 || c.ConvergenceThreshold > 1 {
		return fmt.Errorf("negotiation: convergenceThreshold must be in (0, 1], got %g", c.ConvergenceThreshold)
	}
	if c.RoundTimeout <= 0 {
		return fmt.Errorf("negotiation: roundTimeout must be positive, got %s", c.RoundTimeout)
	}
	if c.BaselineProposalStreams < 1 {
		return fmt.Errorf("negotiation: baselineProposalStreams must be >= 1, got %d", c.BaselineProposalStreams)
	}
	if c.Detector.SimilarityThreshold < 0 || c.Detector.SimilarityThreshold > 1 {
		return fmt.Errorf("negotiation: detector similarityThreshold must be in [0, 1], got %g", c.Detector.SimilarityThreshold)
	}
	if c.Detector.HighPriorityCrowding < 1 {
		return fmt.Errorf("negotiation: detector highPriorityCrowding must be >= 1, got %d", c.Detector.HighPriorityCrowding)
	}
	return nil
}

// LoadConfig reads accord.yml or accord.yaml from dir, overlaying any set
// fields onto the defaults. Returns the plain defaults (not an error) when no
// config file exists.
func LoadConfig(dir string) (Config, error) {
	cfg := DefaultConfig()
	for _, name := range []string{"accord.yml", "accord.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("negotiation: parse %s: %w", path, err)
		}
		break
	}
	return cfg, nil
}
