package models

// CourseType distinguishes lecture and laboratory sections.
type CourseType string

// Known course types.
const (
	CourseTypeLecture CourseType = "Lecture"
	CourseTypeLab     CourseType = "Lab"
)

// ValidCourseType reports whether t is a known course type.
func ValidCourseType(t CourseType) bool {
	return t == CourseTypeLecture || t == CourseTypeLab
}

// Course represents a scheduled course section.
type Course struct {
	ID    int64      `json:"id"`
	Code  string     `json:"code"`
	Title string     `json:"title"`
	Type  CourseType `json:"type"`
	Day   string     `json:"day"`
	Time  string     `json:"time"`
	Room  string     `json:"room"`
}
