package plan

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
basicInfo:
  majorName: Data Science
  duration: 4 years
courses:
  - code: DS101
    name: Statistics
    credits: 4
    hours: 64
    category: basic
    semester: 1
  - code: DS201
    name: Machine Learning
    credits: 3
    hours: 48
    category: core
    semester: 3
    prerequisites: [DS101]
practicalTraining:
  - name: Research Internship
    type: internship
    durationWeeks: 8
    credits: 3
    semester: 6
`

func TestParseYAML(t *testing.T) {
	p, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "Data Science", p.BasicInfo["majorName"])
	require.Len(t, p.Courses, 2)
	assert.Equal(t, CategoryCore, p.Courses[1].Category)
	assert.Equal(t, []string{"DS101"}, p.Courses[1].Prerequisites)
	require.Len(t, p.PracticalTraining, 1)
	assert.InDelta(t, 10, p.TotalCredits(), 1e-9)
}

func TestParseJSON(t *testing.T) {
	doc := map[string]any{
		"basicInfo": map[string]string{"majorName": "Data Science"},
		"courses": []map[string]any{
			{"code": "DS101", "name": "Statistics", "credits": 4, "semester": 1, "category": "basic"},
		},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	p, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "Data Science", p.BasicInfo["majorName"])
	require.Len(t, p.Courses, 1)
}

func TestParseNormalizesSparseDocument(t *testing.T) {
	p, err := Parse([]byte("courses:\n  - code: X1\n    name: Unclassified\n    semester: 0\n"))
	require.NoError(t, err)

	require.Len(t, p.Courses, 1)
	assert.Equal(t, CategoryElective, p.Courses[0].Category)
	assert.Equal(t, 1, p.Courses[0].Semester)
	assert.NotNil(t, p.BasicInfo)
	assert.NotNil(t, p.CreditDistribution)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("courses: [unterminated"))
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	p, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Data Science", p.BasicInfo["majorName"])
}

func TestParseFileUnsupportedExtension(t *testing.T) {
	_, err := ParseFile("plan.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestMarshalJSONIndentRoundTrip(t *testing.T) {
	p := Default("SE")

	data, err := p.MarshalJSONIndent()
	require.NoError(t, err)

	got, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, p.BasicInfo["majorName"], got.BasicInfo["majorName"])
	assert.Len(t, got.Courses, len(p.Courses))
}

func TestDefaultPlanIsComplete(t *testing.T) {
	p := Default("")
	assert.NotEmpty(t, p.BasicInfo["majorName"])
	assert.NotEmpty(t, p.Courses)
	assert.NotEmpty(t, p.PracticalTraining)
	assert.Greater(t, p.TotalCredits(), 0.0)
}
