// Package gradebook contains the pure grade computation engine: percentage,
// letter grade and numeric equivalent conversion plus per-course and overall
// aggregation. Every function is deterministic and side-effect free.
package gradebook

import (
	"math"

	"github.com/nlac-edu/gradetrack-api/internal/models"
)

// letterBreakpoints maps minimum percentages to letter grades, descending.
// Anything below the last breakpoint is an F.
var letterBreakpoints = []struct {
	min    int
	letter string
}{
	{97, "A+"},
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
	{60, "D-"},
}

// numericBreakpoints maps the same cut points (plus the 63 step) to the units
// convention where 1.00 is best and 5.00 is failing.
var numericBreakpoints = []struct {
	min   int
	value float64
}{
	{97, 1.00},
	{93, 1.25},
	{90, 1.50},
	{87, 1.75},
	{84, 2.00},
	{81, 2.25},
	{78, 2.50},
	{75, 2.75},
	{72, 3.00},
	{69, 3.25},
	{66, 3.50},
	{63, 3.75},
	{60, 4.00},
}

// Percentage converts a raw score into a rounded percentage of the highest
// possible score. An ungraded score or non-positive HPS yields 0.
func Percentage(score *float64, hps int) int {
	if score == nil || hps <= 0 {
		return 0
	}
	return int(math.Floor(100**score/float64(hps) + 0.5))
}

// LetterGrade maps a percentage onto the letter scale. Breakpoints are
// inclusive: 97 is an A+, 96 an A, 60 a D-, 59 an F.
func LetterGrade(pct int) string {
	for _, bp := range letterBreakpoints {
		if pct >= bp.min {
			return bp.letter
		}
	}
	return "F"
}

// NumericEquivalent maps a percentage onto the 1.00 (best) to 5.00 (failing)
// units scale.
func NumericEquivalent(pct int) float64 {
	for _, bp := range numericBreakpoints {
		if pct >= bp.min {
			return bp.value
		}
	}
	return 5.00
}

// Filter optionally narrows aggregation to one assessment category and/or
// month. Zero values match everything.
type Filter struct {
	Category models.AssessmentCategory
	Month    string
}

func (f Filter) matches(a models.Assessment) bool {
	if f.Category != "" && a.Category != f.Category {
		return false
	}
	if f.Month != "" && a.Month != f.Month {
		return false
	}
	return true
}

// CourseAverage pools the student's graded scores across the course's
// assessments into a single percentage: sum of earned points over sum of HPS,
// rounded. Ungraded items contribute nothing, not even their HPS. The result
// is nil when no item is graded, which is distinct from an all-zero average.
func CourseAverage(grades []models.Grade, assessments []models.Assessment, studentID, courseID int64, filter Filter) *int {
	byAssessment := make(map[int64]models.Assessment, len(assessments))
	for _, a := range assessments {
		if a.CourseID == courseID && filter.matches(a) {
			byAssessment[a.ID] = a
		}
	}

	var totalEarned float64
	totalHPS := 0
	for _, g := range grades {
		if g.StudentID != studentID || !g.Graded() {
			continue
		}
		a, ok := byAssessment[g.AssessmentID]
		if !ok {
			continue
		}
		totalEarned += *g.Score
		totalHPS += a.HPS
	}

	if totalHPS == 0 {
		return nil
	}
	avg := int(math.Floor(100*totalEarned/float64(totalHPS) + 0.5))
	return &avg
}

// OverallAverage averages the non-nil per-course percentages with equal
// course weighting, regardless of each course's point volume. Nil when no
// course has a graded item.
func OverallAverage(courseAverages []*int) *int {
	sum := 0
	count := 0
	for _, avg := range courseAverages {
		if avg == nil {
			continue
		}
		sum += *avg
		count++
	}
	if count == 0 {
		return nil
	}
	overall := int(math.Floor(float64(sum)/float64(count) + 0.5))
	return &overall
}
