package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseKey(t *testing.T) {
	c := Course{Code: "CS101"}
	assert.Equal(t, "course:CS101", c.Key())
}

func TestCloneIsDeep(t *testing.T) {
	p := Default("Software Engineering")
	clone := p.Clone()

	clone.BasicInfo["majorName"] = "changed"
	clone.Courses[0].Credits = 99
	clone.Courses[1].Prerequisites[0] = "changed"
	clone.SkillMapping["CS102"][0] = "changed"
	clone.CreditDistribution["core"] = 99
	clone.PracticalTraining[0].Credits = 99

	assert.Equal(t, "Software Engineering", p.BasicInfo["majorName"])
	assert.InDelta(t, 4, p.Courses[0].Credits, 1e-9)
	assert.Equal(t, "CS101", p.Courses[1].Prerequisites[0])
	assert.Equal(t, "algorithms", p.SkillMapping["CS102"][0])
	assert.InDelta(t, 10, p.CreditDistribution["core"], 1e-9)
	assert.InDelta(t, 4, p.PracticalTraining[0].Credits, 1e-9)
}

func TestCloneNil(t *testing.T) {
	var p *Plan
	assert.Nil(t, p.Clone())
}

func TestTotalCredits(t *testing.T) {
	p := Default("SE")
	// 4+4+3+3+2 course credits plus 4+2 practical credits.
	assert.InDelta(t, 22, p.TotalCredits(), 1e-9)
}

func TestCreditShare(t *testing.T) {
	p := Default("SE")

	assert.InDelta(t, 10.0/22.0, p.CreditShare(CategoryCore), 1e-9)
	// Practical share includes the training blocks.
	assert.InDelta(t, 6.0/22.0, p.CreditShare(CategoryPractical), 1e-9)
	assert.InDelta(t, 0, p.CreditShare(CategoryElective), 1e-9)

	empty := &Plan{}
	assert.InDelta(t, 0, empty.CreditShare(CategoryCore), 1e-9)
}

func TestFindCourse(t *testing.T) {
	p := Default("SE")

	c, ok := p.FindCourse("CS201")
	require.True(t, ok)
	assert.Equal(t, "Operating Systems", c.Name)

	_, ok = p.FindCourse("XX999")
	assert.False(t, ok)
}

func TestSemesterLoad(t *testing.T) {
	p := Default("SE")
	load := p.SemesterLoad()

	assert.InDelta(t, 6, load[1], 1e-9) // CS101 + GE101
	assert.InDelta(t, 4, load[6], 1e-9) // internship block
	assert.InDelta(t, 2, load[7], 1e-9) // capstone block
}

func TestSummary(t *testing.T) {
	p := Default("Software Engineering")
	s := p.Summary()

	assert.Contains(t, s, "major: Software Engineering")
	assert.Contains(t, s, "courses: 5")
	assert.Contains(t, s, "practical blocks: 2")
}
