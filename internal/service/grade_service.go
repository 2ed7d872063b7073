package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nlac-edu/gradetrack-api/internal/gradebook"
	"github.com/nlac-edu/gradetrack-api/internal/models"
	"github.com/nlac-edu/gradetrack-api/internal/store"
	appErrors "github.com/nlac-edu/gradetrack-api/pkg/errors"
)

// UpsertGradeRequest records or clears a score. A null score marks the item
// ungraded, which is different from an explicit zero.
type UpsertGradeRequest struct {
	StudentID    int64    `json:"studentId" validate:"required"`
	AssessmentID int64    `json:"assessmentId" validate:"required"`
	Score        *float64 `json:"score"`
}

// GradeRow is one assessment line in a student summary.
type GradeRow struct {
	AssessmentID      int64                     `json:"assessmentId"`
	Title             string                    `json:"title"`
	Category          models.AssessmentCategory `json:"category"`
	Month             string                    `json:"month"`
	HPS               int                       `json:"hps"`
	Score             *float64                  `json:"score"`
	Percentage        *int                      `json:"percentage"`
	LetterGrade       string                    `json:"letterGrade,omitempty"`
	NumericEquivalent *float64                  `json:"numericEquivalent,omitempty"`
}

// CourseSummary aggregates one course for a student.
type CourseSummary struct {
	CourseID          int64      `json:"courseId"`
	Code              string     `json:"code"`
	Title             string     `json:"title"`
	Rows              []GradeRow `json:"rows"`
	Average           *int       `json:"average"`
	LetterGrade       string     `json:"letterGrade,omitempty"`
	NumericEquivalent *float64   `json:"numericEquivalent,omitempty"`
}

// StudentSummary is the full gradebook view for one student.
type StudentSummary struct {
	Student        models.Student  `json:"student"`
	Courses        []CourseSummary `json:"courses"`
	OverallAverage *int            `json:"overallAverage"`
	OverallLetter  string          `json:"overallLetter,omitempty"`
	OverallNumeric *float64        `json:"overallNumeric,omitempty"`
}

// GradeService records scores and derives gradebook views.
type GradeService struct {
	store     store.Store
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService constructs the grade service.
func NewGradeService(st store.Store, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{store: st, validator: validate, logger: logger}
}

// List returns grades narrowed by student, assessment or course.
func (s *GradeService) List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error) {
	grades, err := loadGrades(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if filter.StudentID == 0 && filter.AssessmentID == 0 && filter.CourseID == 0 {
		return grades, nil
	}

	var courseAssessments map[int64]bool
	if filter.CourseID != 0 {
		assessments, err := loadAssessments(ctx, s.store)
		if err != nil {
			return nil, err
		}
		courseAssessments = make(map[int64]bool)
		for _, a := range assessments {
			if a.CourseID == filter.CourseID {
				courseAssessments[a.ID] = true
			}
		}
	}

	matched := make([]models.Grade, 0, len(grades))
	for _, g := range grades {
		if filter.StudentID != 0 && g.StudentID != filter.StudentID {
			continue
		}
		if filter.AssessmentID != 0 && g.AssessmentID != filter.AssessmentID {
			continue
		}
		if courseAssessments != nil && !courseAssessments[g.AssessmentID] {
			continue
		}
		matched = append(matched, g)
	}
	return matched, nil
}

// Upsert records a score keyed on the (student, assessment) pair: updates the
// existing grade or inserts one. The student must be enrolled in the
// assessment's course and the score must fall in [0, HPS] or be null.
func (s *GradeService) Upsert(ctx context.Context, req UpsertGradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	assessments, err := loadAssessments(ctx, s.store)
	if err != nil {
		return nil, err
	}
	var assessment *models.Assessment
	for i := range assessments {
		if assessments[i].ID == req.AssessmentID {
			assessment = &assessments[i]
			break
		}
	}
	if assessment == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "assessment not found")
	}

	if req.Score != nil {
		if *req.Score < 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "score cannot be negative")
		}
		if *req.Score > float64(assessment.HPS) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "score exceeds highest possible score")
		}
	}

	enrollments, err := loadEnrollments(ctx, s.store)
	if err != nil {
		return nil, err
	}
	enrolled := false
	for _, en := range enrollments {
		if en.StudentID == req.StudentID && en.CourseID == assessment.CourseID {
			enrolled = true
			break
		}
	}
	if !enrolled {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student not enrolled in the assessment's course")
	}

	grades, err := loadGrades(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range grades {
		if grades[i].StudentID == req.StudentID && grades[i].AssessmentID == req.AssessmentID {
			grades[i].Score = req.Score
			if err := saveGrades(ctx, s.store, grades); err != nil {
				return nil, err
			}
			return &grades[i], nil
		}
	}

	grade := models.Grade{
		ID:           uuid.NewString(),
		StudentID:    req.StudentID,
		AssessmentID: req.AssessmentID,
		Score:        req.Score,
	}
	grades = append(grades, grade)
	if err := saveGrades(ctx, s.store, grades); err != nil {
		return nil, err
	}
	s.logger.Info("grade recorded",
		zap.Int64("student_id", grade.StudentID),
		zap.Int64("assessment_id", grade.AssessmentID),
		zap.Bool("graded", grade.Graded()))
	return &grade, nil
}

// StudentSummary derives the per-course gradebook for one student: a row per
// assessment with percentage, letter and numeric equivalent, a pooled course
// average per course and the equally weighted overall average.
func (s *GradeService) StudentSummary(ctx context.Context, studentID int64, filter gradebook.Filter) (*StudentSummary, error) {
	snap, err := store.Snapshot(ctx, s.store)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load collections")
	}
	return SummaryFromSnapshot(snap, studentID, filter)
}

// SummaryFromSnapshot computes the summary from an already loaded snapshot.
// The report export and the login view reuse it with mirror-sourced data.
func SummaryFromSnapshot(snap *models.Snapshot, studentID int64, filter gradebook.Filter) (*StudentSummary, error) {
	var student *models.Student
	for i := range snap.Students {
		if snap.Students[i].ID == studentID {
			student = &snap.Students[i]
			break
		}
	}
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	gradesByAssessment := make(map[int64]models.Grade)
	for _, g := range snap.Grades {
		if g.StudentID == studentID {
			gradesByAssessment[g.AssessmentID] = g
		}
	}

	summary := &StudentSummary{Student: *student}
	var courseAverages []*int
	for _, en := range snap.Enrollments {
		if en.StudentID != studentID {
			continue
		}
		var course *models.Course
		for i := range snap.Courses {
			if snap.Courses[i].ID == en.CourseID {
				course = &snap.Courses[i]
				break
			}
		}
		if course == nil {
			continue
		}

		cs := CourseSummary{CourseID: course.ID, Code: course.Code, Title: course.Title, Rows: []GradeRow{}}
		for _, a := range snap.Assessments {
			if a.CourseID != course.ID || !matchesFilter(a, filter) {
				continue
			}
			row := GradeRow{
				AssessmentID: a.ID,
				Title:        a.Title,
				Category:     a.Category,
				Month:        a.Month,
				HPS:          a.HPS,
			}
			if g, ok := gradesByAssessment[a.ID]; ok && g.Graded() {
				row.Score = g.Score
				pct := gradebook.Percentage(g.Score, a.HPS)
				row.Percentage = &pct
				row.LetterGrade = gradebook.LetterGrade(pct)
				numeric := gradebook.NumericEquivalent(pct)
				row.NumericEquivalent = &numeric
			}
			cs.Rows = append(cs.Rows, row)
		}

		avg := gradebook.CourseAverage(snap.Grades, snap.Assessments, studentID, course.ID, filter)
		cs.Average = avg
		if avg != nil {
			cs.LetterGrade = gradebook.LetterGrade(*avg)
			numeric := gradebook.NumericEquivalent(*avg)
			cs.NumericEquivalent = &numeric
		}
		courseAverages = append(courseAverages, avg)
		summary.Courses = append(summary.Courses, cs)
	}

	overall := gradebook.OverallAverage(courseAverages)
	summary.OverallAverage = overall
	if overall != nil {
		summary.OverallLetter = gradebook.LetterGrade(*overall)
		numeric := gradebook.NumericEquivalent(*overall)
		summary.OverallNumeric = &numeric
	}
	return summary, nil
}

func matchesFilter(a models.Assessment, f gradebook.Filter) bool {
	if f.Category != "" && a.Category != f.Category {
		return false
	}
	if f.Month != "" && a.Month != f.Month {
		return false
	}
	return true
}
