package gradebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlac-edu/gradetrack-api/internal/models"
)

func score(v float64) *float64 { return &v }

func TestPercentage(t *testing.T) {
	assert.Equal(t, 90, Percentage(score(45), 50))
	assert.Equal(t, 0, Percentage(score(0), 50))
	assert.Equal(t, 0, Percentage(score(42), 0))
	assert.Equal(t, 0, Percentage(nil, 50))
	// round-half-up
	assert.Equal(t, 67, Percentage(score(2), 3))
	assert.Equal(t, 95, Percentage(score(47.5), 50))
}

func TestLetterGradeBoundaries(t *testing.T) {
	cases := []struct {
		pct    int
		letter string
	}{
		{100, "A+"},
		{97, "A+"},
		{96, "A"},
		{93, "A"},
		{90, "A-"},
		{87, "B+"},
		{84, "B"},
		{81, "B-"},
		{78, "C+"},
		{75, "C"},
		{72, "C-"},
		{69, "D+"},
		{66, "D"},
		{63, "D-"},
		{60, "D-"},
		{59, "F"},
		{0, "F"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.letter, LetterGrade(tc.pct), "pct=%d", tc.pct)
	}
}

func TestNumericEquivalentBoundaries(t *testing.T) {
	assert.Equal(t, 1.00, NumericEquivalent(97))
	assert.Equal(t, 1.25, NumericEquivalent(93))
	assert.Equal(t, 2.00, NumericEquivalent(84))
	assert.Equal(t, 3.75, NumericEquivalent(63))
	assert.Equal(t, 4.00, NumericEquivalent(60))
	assert.Equal(t, 5.00, NumericEquivalent(59))
	assert.Equal(t, 5.00, NumericEquivalent(0))
}

func TestCourseAveragePoolsEarnedOverHPS(t *testing.T) {
	assessments := []models.Assessment{
		{ID: 501, CourseID: 101, Category: models.CategoryWrittenExam, Month: "February", HPS: 50},
		{ID: 502, CourseID: 101, Category: models.CategoryPerformanceTask, Month: "February", HPS: 20},
		{ID: 503, CourseID: 101, Category: models.CategoryPerformanceTask, Month: "March", HPS: 20},
	}
	grades := []models.Grade{
		{ID: "g1", StudentID: 1, AssessmentID: 501, Score: score(45)},
		{ID: "g2", StudentID: 1, AssessmentID: 502, Score: score(18)},
		{ID: "g3", StudentID: 1, AssessmentID: 503, Score: nil}, // ungraded: its HPS must not count
	}

	avg := CourseAverage(grades, assessments, 1, 101, Filter{})
	require.NotNil(t, avg)
	assert.Equal(t, 90, *avg) // 63 of 70
}

func TestCourseAverageNoGradedItems(t *testing.T) {
	assessments := []models.Assessment{{ID: 501, CourseID: 101, HPS: 100}}
	grades := []models.Grade{{ID: "g1", StudentID: 1, AssessmentID: 501, Score: nil}}

	assert.Nil(t, CourseAverage(grades, assessments, 1, 101, Filter{}))
}

func TestCourseAverageAllZeroScoresIsNotNil(t *testing.T) {
	assessments := []models.Assessment{{ID: 501, CourseID: 101, HPS: 100}}
	grades := []models.Grade{{ID: "g1", StudentID: 1, AssessmentID: 501, Score: score(0)}}

	avg := CourseAverage(grades, assessments, 1, 101, Filter{})
	require.NotNil(t, avg)
	assert.Equal(t, 0, *avg)
}

func TestCourseAverageFilters(t *testing.T) {
	assessments := []models.Assessment{
		{ID: 501, CourseID: 101, Category: models.CategoryWrittenExam, Month: "February", HPS: 100},
		{ID: 502, CourseID: 101, Category: models.CategoryProject, Month: "March", HPS: 100},
	}
	grades := []models.Grade{
		{ID: "g1", StudentID: 1, AssessmentID: 501, Score: score(80)},
		{ID: "g2", StudentID: 1, AssessmentID: 502, Score: score(100)},
	}

	avg := CourseAverage(grades, assessments, 1, 101, Filter{Category: models.CategoryWrittenExam})
	require.NotNil(t, avg)
	assert.Equal(t, 80, *avg)

	avg = CourseAverage(grades, assessments, 1, 101, Filter{Month: "March"})
	require.NotNil(t, avg)
	assert.Equal(t, 100, *avg)

	assert.Nil(t, CourseAverage(grades, assessments, 1, 101, Filter{Month: "April"}))
}

func TestCourseAverageIgnoresOtherStudentsAndCourses(t *testing.T) {
	assessments := []models.Assessment{
		{ID: 501, CourseID: 101, HPS: 100},
		{ID: 601, CourseID: 102, HPS: 100},
	}
	grades := []models.Grade{
		{ID: "g1", StudentID: 1, AssessmentID: 501, Score: score(90)},
		{ID: "g2", StudentID: 2, AssessmentID: 501, Score: score(10)},
		{ID: "g3", StudentID: 1, AssessmentID: 601, Score: score(10)},
	}

	avg := CourseAverage(grades, assessments, 1, 101, Filter{})
	require.NotNil(t, avg)
	assert.Equal(t, 90, *avg)
}

func TestOverallAverageWeighsCoursesEqually(t *testing.T) {
	a := 90
	b := 70
	avg := OverallAverage([]*int{&a, &b, nil})
	require.NotNil(t, avg)
	assert.Equal(t, 80, *avg)

	assert.Nil(t, OverallAverage([]*int{nil, nil}))
	assert.Nil(t, OverallAverage(nil))
}
