package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nlac-edu/gradetrack-api/internal/models"
	"github.com/nlac-edu/gradetrack-api/internal/store"
	appErrors "github.com/nlac-edu/gradetrack-api/pkg/errors"
)

// EnrollmentRequest holds payload for enrolling a student in a course.
type EnrollmentRequest struct {
	StudentID int64 `json:"studentId" validate:"required"`
	CourseID  int64 `json:"courseId" validate:"required"`
}

// EnrollmentService links students to courses and keeps the grade collection
// consistent with the enrollment set.
type EnrollmentService struct {
	store     store.Store
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(st store.Store, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{store: st, validator: validate, logger: logger}
}

// List returns enrollments, optionally narrowed by student and course.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error) {
	enrollments, err := loadEnrollments(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if filter.StudentID == 0 && filter.CourseID == 0 {
		return enrollments, nil
	}
	matched := make([]models.Enrollment, 0, len(enrollments))
	for _, en := range enrollments {
		if filter.StudentID != 0 && en.StudentID != filter.StudentID {
			continue
		}
		if filter.CourseID != 0 && en.CourseID != filter.CourseID {
			continue
		}
		matched = append(matched, en)
	}
	return matched, nil
}

// Create enrolls a student in a course. Rejects a second enrollment for the
// same pair, verifies both sides exist, then seeds one ungraded placeholder
// per assessment already defined on the course. The grade write is a separate
// save; a crash in between leaves the enrollment without placeholders.
func (s *EnrollmentService) Create(ctx context.Context, req EnrollmentRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	students, err := loadStudents(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if !studentExists(students, req.StudentID) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	courses, err := loadCourses(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if !courseExists(courses, req.CourseID) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	enrollments, err := loadEnrollments(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for _, en := range enrollments {
		if en.StudentID == req.StudentID && en.CourseID == req.CourseID {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "student already enrolled in course")
		}
	}

	enrollment := models.Enrollment{
		ID:        uuid.NewString(),
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
	}
	enrollments = append(enrollments, enrollment)
	if err := saveEnrollments(ctx, s.store, enrollments); err != nil {
		return nil, err
	}

	if err := s.seedPlaceholders(ctx, enrollment); err != nil {
		return nil, err
	}

	s.logger.Info("enrollment created",
		zap.String("id", enrollment.ID),
		zap.Int64("student_id", enrollment.StudentID),
		zap.Int64("course_id", enrollment.CourseID))
	return &enrollment, nil
}

// Delete removes the enrollment and the student's grades for that course's
// assessments. Deleting an unknown ID is a no-op.
func (s *EnrollmentService) Delete(ctx context.Context, id string) error {
	enrollments, err := loadEnrollments(ctx, s.store)
	if err != nil {
		return err
	}

	var removed *models.Enrollment
	kept := enrollments[:0]
	for _, en := range enrollments {
		if en.ID == id {
			removed = &models.Enrollment{ID: en.ID, StudentID: en.StudentID, CourseID: en.CourseID}
			continue
		}
		kept = append(kept, en)
	}
	if removed == nil {
		return nil
	}
	if err := saveEnrollments(ctx, s.store, kept); err != nil {
		return err
	}

	assessments, err := loadAssessments(ctx, s.store)
	if err != nil {
		return err
	}
	courseAssessments := make(map[int64]bool)
	for _, a := range assessments {
		if a.CourseID == removed.CourseID {
			courseAssessments[a.ID] = true
		}
	}

	grades, err := loadGrades(ctx, s.store)
	if err != nil {
		return err
	}
	keptGrades := grades[:0]
	for _, g := range grades {
		if g.StudentID == removed.StudentID && courseAssessments[g.AssessmentID] {
			continue
		}
		keptGrades = append(keptGrades, g)
	}
	if err := saveGrades(ctx, s.store, keptGrades); err != nil {
		return err
	}

	s.logger.Info("enrollment deleted", zap.String("id", id))
	return nil
}

// seedPlaceholders creates an ungraded grade for every assessment of the
// enrolled course so the gradebook shows the pending work immediately.
func (s *EnrollmentService) seedPlaceholders(ctx context.Context, enrollment models.Enrollment) error {
	assessments, err := loadAssessments(ctx, s.store)
	if err != nil {
		return err
	}
	grades, err := loadGrades(ctx, s.store)
	if err != nil {
		return err
	}

	existing := make(map[int64]bool, len(grades))
	for _, g := range grades {
		if g.StudentID == enrollment.StudentID {
			existing[g.AssessmentID] = true
		}
	}

	added := 0
	for _, a := range assessments {
		if a.CourseID != enrollment.CourseID || existing[a.ID] {
			continue
		}
		grades = append(grades, models.Grade{
			ID:           uuid.NewString(),
			StudentID:    enrollment.StudentID,
			AssessmentID: a.ID,
			Score:        nil,
		})
		added++
	}
	if added == 0 {
		return nil
	}
	return saveGrades(ctx, s.store, grades)
}

func studentExists(students []models.Student, id int64) bool {
	for _, st := range students {
		if st.ID == id {
			return true
		}
	}
	return false
}

func courseExists(courses []models.Course, id int64) bool {
	for _, c := range courses {
		if c.ID == id {
			return true
		}
	}
	return false
}
