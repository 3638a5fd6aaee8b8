package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes raw bytes into a normalized Plan. YAML is the primary format;
// since YAML is a superset of JSON, JSON documents decode through the same
// path. Malformed or missing fields are normalized to safe defaults rather
// than rejected.
func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("plan: decode: %w", err)
	}
	p.normalize()
	return &p, nil
}

// ParseFile reads and parses a plan document from disk. Supported extensions
// are .yml, .yaml, and .json.
func ParseFile(path string) (*Plan, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml", ".json":
	default:
		return nil, fmt.Errorf("plan: unsupported file format %q", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plan: read %s: %w", path, err)
	}
	return Parse(data)
}

// MarshalJSONIndent renders the plan as indented JSON for exports.
func (p *Plan) MarshalJSONIndent() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// normalize fills defaults for fields the engine and reviewers read
// unconditionally. A single sparse document must not abort a negotiation.
func (p *Plan) normalize() {
	if p.BasicInfo == nil {
		p.BasicInfo = make(map[string]string)
	}
	if p.CreditDistribution == nil {
		p.CreditDistribution = make(map[string]float64)
	}
	for i := range p.Courses {
		c := &p.Courses[i]
		if c.Category == "" {
			c.Category = CategoryElective
		}
		if c.Semester < 1 {
			c.Semester = 1
		}
		if c.Credits < 0 {
			c.Credits = 0
		}
	}
	for i := range p.PracticalTraining {
		b := &p.PracticalTraining[i]
		if b.Semester < 1 {
			b.Semester = 1
		}
		if b.Credits < 0 {
			b.Credits = 0
		}
	}
}

// Default returns a small but complete plan used when no document is supplied.
// It mirrors the shape reviewers expect so every rule has something to probe.
func Default(majorName string) *Plan {
	if majorName == "" {
		majorName = "software-engineering"
	}
	return &Plan{
		BasicInfo: map[string]string{
			"majorName": majorName,
			"duration":  "4 years",
			"degree":    "bachelor",
		},
		Courses: []Course{
			{Code: "CS101", Name: "Introduction to Programming", Credits: 4, Hours: 64, Category: CategoryBasic, Semester: 1},
			{Code: "CS102", Name: "Data Structures", Credits: 4, Hours: 64, Category: CategoryCore, Semester: 2, Prerequisites: []string{"CS101"}},
			{Code: "CS201", Name: "Operating Systems", Credits: 3, Hours: 48, Category: CategoryCore, Semester: 3, Prerequisites: []string{"CS102"}},
			{Code: "CS301", Name: "Software Engineering", Credits: 3, Hours: 48, Category: CategoryCore, Semester: 5, Prerequisites: []string{"CS102"}},
			{Code: "GE101", Name: "Technical Writing", Credits: 2, Hours: 32, Category: CategoryGeneral, Semester: 1},
		},
		CreditDistribution: map[string]float64{
			"general":   2,
			"basic":     4,
			"core":      10,
			"practical": 6,
		},
		SkillMapping: map[string][]string{
			"CS102": {"algorithms"},
			"CS301": {"system design", "teamwork"},
		},
		LearningOutcomes: []string{
			"design and implement software systems",
			"work effectively in engineering teams",
		},
		PracticalTraining: []PracticalBlock{
			{Name: "Industry Internship", Type: "internship", DurationWeeks: 8, Credits: 4, Semester: 6},
			{Name: "Capstone Project", Type: "project", DurationWeeks: 16, Credits: 2, Semester: 7},
		},
		GraduationProject: map[string]string{
			"form": "thesis",
		},
		AssessmentMethods: map[string]string{
			"CS101": "exam",
			"CS301": "project",
		},
	}
}
