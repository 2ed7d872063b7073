package models

// Enrollment links a student to a course. At most one enrollment may exist per
// (student, course) pair.
type Enrollment struct {
	ID        string `json:"id"`
	StudentID int64  `json:"studentId"`
	CourseID  int64  `json:"courseId"`
}

// EnrollmentFilter narrows enrollment listings.
type EnrollmentFilter struct {
	StudentID int64
	CourseID  int64
}
