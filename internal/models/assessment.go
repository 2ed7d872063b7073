package models

// AssessmentCategory enumerates the grading categories.
type AssessmentCategory string

// Known assessment categories.
const (
	CategoryWrittenExam     AssessmentCategory = "Written Exam"
	CategoryPerformanceTask AssessmentCategory = "Performance Task"
	CategoryQuarterlyExam   AssessmentCategory = "Quarterly Exam"
	CategoryProject         AssessmentCategory = "Project"
	CategoryLabExercise     AssessmentCategory = "Lab Exercise"
)

// Categories lists every valid assessment category.
func Categories() []AssessmentCategory {
	return []AssessmentCategory{
		CategoryWrittenExam,
		CategoryPerformanceTask,
		CategoryQuarterlyExam,
		CategoryProject,
		CategoryLabExercise,
	}
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c AssessmentCategory) bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Months lists the twelve calendar month names accepted on assessments.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// ValidMonth reports whether m is a calendar month name.
func ValidMonth(m string) bool {
	for _, known := range Months {
		if m == known {
			return true
		}
	}
	return false
}

// Assessment represents a graded activity belonging to a course. HPS is the
// highest possible score and the denominator for percentage computation.
type Assessment struct {
	ID                 int64              `json:"id"`
	CourseID           int64              `json:"courseId"`
	Category           AssessmentCategory `json:"category"`
	Title              string             `json:"title"`
	Month              string             `json:"month"`
	HPS                int                `json:"hps"`
	Date               string             `json:"date"`
	InstructorComments string             `json:"instructorComments,omitempty"`
}

// AssessmentFilter narrows assessment listings.
type AssessmentFilter struct {
	CourseID int64
	Category AssessmentCategory
	Month    string
}
