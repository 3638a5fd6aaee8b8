package plan

import (
	"fmt"
	"sort"
	"strings"
)

// CourseCategory classifies a course within the plan.
type CourseCategory string

const (
	CategoryGeneral    CourseCategory = "general"
	CategoryBasic      CourseCategory = "basic"
	CategoryCore       CourseCategory = "core"
	CategoryElective   CourseCategory = "elective"
	CategoryPractical  CourseCategory = "practical"
	CategoryGraduation CourseCategory = "graduation"
)

// Course is a single line item of the plan's course system.
type Course struct {
	Code          string         `yaml:"code" json:"code"`
	Name          string         `yaml:"name" json:"name"`
	Credits       float64        `yaml:"credits" json:"credits"`
	Hours         int            `yaml:"hours" json:"hours"`
	Category      CourseCategory `yaml:"category" json:"category"`
	Semester      int            `yaml:"semester" json:"semester"`
	Prerequisites []string       `yaml:"prerequisites,omitempty" json:"prerequisites,omitempty"`
	Description   string         `yaml:"description,omitempty" json:"description,omitempty"`
	Skills        []string       `yaml:"skills,omitempty" json:"skills,omitempty"`
}

// Key returns the component key used by proposed changes to address this
// course, e.g. "course:CS101".
func (c Course) Key() string {
	return "course:" + c.Code
}

// PracticalBlock is a practical-training line item (internship, lab block,
// capstone project and similar).
type PracticalBlock struct {
	Name          string   `yaml:"name" json:"name"`
	Type          string   `yaml:"type" json:"type"`
	DurationWeeks int      `yaml:"durationWeeks" json:"durationWeeks"`
	Credits       float64  `yaml:"credits" json:"credits"`
	Semester      int      `yaml:"semester" json:"semester"`
	Description   string   `yaml:"description,omitempty" json:"description,omitempty"`
	Objectives    []string `yaml:"objectives,omitempty" json:"objectives,omitempty"`
}

// Plan is the structured training plan negotiated by the stakeholders.
// It is a plain value: the engine snapshots it by Clone and never shares a
// mutable copy with collaborators.
type Plan struct {
	BasicInfo              map[string]string    `yaml:"basicInfo,omitempty" json:"basicInfo,omitempty"`
	Courses                []Course             `yaml:"courses,omitempty" json:"courses,omitempty"`
	CreditDistribution     map[string]float64   `yaml:"creditDistribution,omitempty" json:"creditDistribution,omitempty"`
	SkillMapping           map[string][]string  `yaml:"skillMapping,omitempty" json:"skillMapping,omitempty"`
	LearningOutcomes       []string             `yaml:"learningOutcomes,omitempty" json:"learningOutcomes,omitempty"`
	PracticalTraining      []PracticalBlock     `yaml:"practicalTraining,omitempty" json:"practicalTraining,omitempty"`
	GraduationProject      map[string]string    `yaml:"graduationProject,omitempty" json:"graduationProject,omitempty"`
	AssessmentMethods      map[string]string    `yaml:"assessmentMethods,omitempty" json:"assessmentMethods,omitempty"`
	GraduationRequirements map[string]string    `yaml:"graduationRequirements,omitempty" json:"graduationRequirements,omitempty"`
	QualityStandards       []string             `yaml:"qualityStandards,omitempty" json:"qualityStandards,omitempty"`
}

// Clone returns a deep copy of the plan. Map and slice fields are copied
// independently so mutating the clone never affects the source.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	dst := &Plan{
		BasicInfo:              copyStringMap(p.BasicInfo),
		CreditDistribution:     copyFloatMap(p.CreditDistribution),
		SkillMapping:           copyStringSliceMap(p.SkillMapping),
		LearningOutcomes:       copyStrings(p.LearningOutcomes),
		GraduationProject:      copyStringMap(p.GraduationProject),
		AssessmentMethods:      copyStringMap(p.AssessmentMethods),
		GraduationRequirements: copyStringMap(p.GraduationRequirements),
		QualityStandards:       copyStrings(p.QualityStandards),
	}
	if p.Courses != nil {
		dst.Courses = make([]Course, len(p.Courses))
		for i, c := range p.Courses {
			c.Prerequisites = copyStrings(c.Prerequisites)
			c.Skills = copyStrings(c.Skills)
			dst.Courses[i] = c
		}
	}
	if p.PracticalTraining != nil {
		dst.PracticalTraining = make([]PracticalBlock, len(p.PracticalTraining))
		for i, b := range p.PracticalTraining {
			b.Objectives = copyStrings(b.Objectives)
			dst.PracticalTraining[i] = b
		}
	}
	return dst
}

// TotalCredits sums the credits of all courses and practical blocks.
func (p *Plan) TotalCredits() float64 {
	var total float64
	for _, c := range p.Courses {
		total += c.Credits
	}
	for _, b := range p.PracticalTraining {
		total += b.Credits
	}
	return total
}

// CreditShare returns the fraction of total credits carried by courses of the
// given category plus, for CategoryPractical, the practical-training blocks.
// Returns 0 when the plan carries no credits.
func (p *Plan) CreditShare(cat CourseCategory) float64 {
	total := p.TotalCredits()
	if total == 0 {
		return 0
	}
	var sum float64
	for _, c := range p.Courses {
		if c.Category == cat {
			sum += c.Credits
		}
	}
	if cat == CategoryPractical {
		for _, b := range p.PracticalTraining {
			sum += b.Credits
		}
	}
	return sum / total
}

// FindCourse returns the course with the given code, or false.
func (p *Plan) FindCourse(code string) (Course, bool) {
	for _, c := range p.Courses {
		if c.Code == code {
			return c, true
		}
	}
	return Course{}, false
}

// SemesterLoad returns credits per semester across courses and practical
// blocks, keyed by semester number.
func (p *Plan) SemesterLoad() map[int]float64 {
	load := make(map[int]float64)
	for _, c := range p.Courses {
		load[c.Semester] += c.Credits
	}
	for _, b := range p.PracticalTraining {
		load[b.Semester] += b.Credits
	}
	return load
}

// Summary renders a compact textual overview of the plan, used in reviewer
// prompts, reports, and log lines.
func (p *Plan) Summary() string {
	var b strings.Builder

	if name := p.BasicInfo["majorName"]; name != "" {
		fmt.Fprintf(&b, "major: %s\n", name)
	}
	if dur := p.BasicInfo["duration"]; dur != "" {
		fmt.Fprintf(&b, "duration: %s\n", dur)
	}
	fmt.Fprintf(&b, "courses: %d, total credits: %.1f\n", len(p.Courses), p.TotalCredits())

	if len(p.CreditDistribution) > 0 {
		keys := make([]string, 0, len(p.CreditDistribution))
		for k := range p.CreditDistribution {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %.1f", k, p.CreditDistribution[k]))
		}
		fmt.Fprintf(&b, "credit distribution: %s\n", strings.Join(parts, ", "))
	}
	if n := len(p.PracticalTraining); n > 0 {
		fmt.Fprintf(&b, "practical blocks: %d\n", n)
	}
	return b.String()
}

func copyStrings(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}

func copyStringMap(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyFloatMap(src map[string]float64) map[string]float64 {
	if src == nil {
		return nil
	}
	dst := make(map[string]float64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyStringSliceMap(src map[string][]string) map[string][]string {
	if src == nil {
		return nil
	}
	dst := make(map[string][]string, len(src))
	for k, v := range src {
		dst[k] = copyStrings(v)
	}
	return dst
}
