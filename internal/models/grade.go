package models

// Grade holds one student's score on one assessment. A nil Score is the
// canonical "not yet graded" sentinel, distinct from an explicit zero, and is
// the only ungraded representation accepted at the upsert boundary.
type Grade struct {
	ID           string   `json:"id"`
	StudentID    int64    `json:"studentId"`
	AssessmentID int64    `json:"assessmentId"`
	Score        *float64 `json:"score"`
}

// Graded reports whether the grade carries a score.
func (g Grade) Graded() bool {
	return g.Score != nil
}

// GradeFilter narrows grade listings.
type GradeFilter struct {
	StudentID    int64
	AssessmentID int64
	CourseID     int64
}
