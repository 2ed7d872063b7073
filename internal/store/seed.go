package store

import "github.com/nlac-edu/gradetrack-api/internal/models"

func scoreOf(v float64) *float64 { return &v }

// DefaultSnapshot returns the fixed dataset used to seed an empty deployment:
// three students, two courses, four enrollments, five assessments and five
// grades.
func DefaultSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Students: []models.Student{
			{ID: 1, StudentIDNum: "2024-0001", Name: "Garcia, Maria S.", Program: models.ProgramBSCS, PinCode: "4521", YearLevel: "1st Year"},
			{ID: 2, StudentIDNum: "2024-0002", Name: "Wilson, James K.", Program: models.ProgramBSIT, PinCode: "7832", YearLevel: "2nd Year"},
			{ID: 3, StudentIDNum: "2024-0003", Name: "Chen, Robert L.", Program: models.ProgramBSMath, PinCode: "9012", YearLevel: "3rd Year"},
		},
		Courses: []models.Course{
			{ID: 101, Code: "MATH101", Title: "Mathematics 101", Type: models.CourseTypeLecture, Day: "MWF", Time: "09:00 - 10:00", Room: "Room 301"},
			{ID: 102, Code: "CS202", Title: "Computer Science", Type: models.CourseTypeLab, Day: "TTh", Time: "13:00 - 15:00", Room: "Lab 101"},
		},
		Enrollments: []models.Enrollment{
			{ID: "en-1", StudentID: 1, CourseID: 101},
			{ID: "en-2", StudentID: 1, CourseID: 102},
			{ID: "en-3", StudentID: 2, CourseID: 101},
			{ID: "en-4", StudentID: 3, CourseID: 101},
		},
		Assessments: []models.Assessment{
			{ID: 501, CourseID: 101, Category: models.CategoryWrittenExam, Title: "Prelim Exam", Month: "February", HPS: 100, Date: "2024-02-15", InstructorComments: "Covers chapters 1-3, focus on basic concepts"},
			{ID: 502, CourseID: 101, Category: models.CategoryWrittenExam, Title: "Quiz 1", Month: "February", HPS: 50, Date: "2024-02-20", InstructorComments: "Short quiz on algebraic equations"},
			{ID: 503, CourseID: 101, Category: models.CategoryPerformanceTask, Title: "Seatwork", Month: "February", HPS: 20, Date: "2024-02-22", InstructorComments: "Daily practice exercises"},
			{ID: 504, CourseID: 102, Category: models.CategoryWrittenExam, Title: "Prelim Exam", Month: "February", HPS: 100, Date: "2024-02-16", InstructorComments: "Programming fundamentals and algorithms"},
			{ID: 505, CourseID: 102, Category: models.CategoryPerformanceTask, Title: "Lab Exercise 1", Month: "February", HPS: 50, Date: "2024-02-21", InstructorComments: "Basic programming lab assignment"},
		},
		Grades: []models.Grade{
			{ID: "g1", StudentID: 1, AssessmentID: 501, Score: scoreOf(95)},
			{ID: "g2", StudentID: 2, AssessmentID: 501, Score: scoreOf(88)},
			{ID: "g3", StudentID: 1, AssessmentID: 502, Score: scoreOf(45)},
			{ID: "g4", StudentID: 1, AssessmentID: 503, Score: scoreOf(18)},
			{ID: "g5", StudentID: 2, AssessmentID: 504, Score: scoreOf(92)},
		},
	}
}
