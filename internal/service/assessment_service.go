package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nlac-edu/gradetrack-api/internal/models"
	"github.com/nlac-edu/gradetrack-api/internal/store"
	appErrors "github.com/nlac-edu/gradetrack-api/pkg/errors"
)

// AssessmentRequest holds payload for creating or updating an assessment.
type AssessmentRequest struct {
	CourseID           int64                     `json:"courseId" validate:"required"`
	Category           models.AssessmentCategory `json:"category" validate:"required"`
	Title              string                    `json:"title" validate:"required"`
	Month              string                    `json:"month" validate:"required"`
	HPS                int                       `json:"hps" validate:"required,gt=0"`
	Date               string                    `json:"date"`
	InstructorComments string                    `json:"instructorComments"`
}

// AssessmentService manages graded activities and keeps placeholder grades in
// step with the enrollment set.
type AssessmentService struct {
	store     store.Store
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssessmentService constructs the assessment service.
func NewAssessmentService(st store.Store, validate *validator.Validate, logger *zap.Logger) *AssessmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentService{store: st, validator: validate, logger: logger}
}

// List returns assessments narrowed by the filter.
func (s *AssessmentService) List(ctx context.Context, filter models.AssessmentFilter) ([]models.Assessment, error) {
	assessments, err := loadAssessments(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if filter.CourseID == 0 && filter.Category == "" && filter.Month == "" {
		return assessments, nil
	}
	matched := make([]models.Assessment, 0, len(assessments))
	for _, a := range assessments {
		if filter.CourseID != 0 && a.CourseID != filter.CourseID {
			continue
		}
		if filter.Category != "" && a.Category != filter.Category {
			continue
		}
		if filter.Month != "" && a.Month != filter.Month {
			continue
		}
		matched = append(matched, a)
	}
	return matched, nil
}

// Create adds an assessment to a course and retroactively seeds an ungraded
// placeholder for every student already enrolled, so late-added activities
// show up in existing gradebooks.
func (s *AssessmentService) Create(ctx context.Context, req AssessmentRequest) (*models.Assessment, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	courses, err := loadCourses(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if !courseExists(courses, req.CourseID) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	assessments, err := loadAssessments(ctx, s.store)
	if err != nil {
		return nil, err
	}

	assessment := models.Assessment{
		ID:                 nextAssessmentID(assessments),
		CourseID:           req.CourseID,
		Category:           req.Category,
		Title:              req.Title,
		Month:              req.Month,
		HPS:                req.HPS,
		Date:               req.Date,
		InstructorComments: req.InstructorComments,
	}
	assessments = append(assessments, assessment)
	if err := saveAssessments(ctx, s.store, assessments); err != nil {
		return nil, err
	}

	if err := s.seedPlaceholders(ctx, assessment); err != nil {
		return nil, err
	}

	s.logger.Info("assessment created", zap.Int64("id", assessment.ID), zap.Int64("course_id", assessment.CourseID))
	return &assessment, nil
}

// Update rewrites an assessment. Lowering HPS does not touch existing scores;
// the next upsert against the grade re-validates the bound.
func (s *AssessmentService) Update(ctx context.Context, id int64, req AssessmentRequest) (*models.Assessment, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	assessments, err := loadAssessments(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range assessments {
		if assessments[i].ID != id {
			continue
		}
		assessments[i].CourseID = req.CourseID
		assessments[i].Category = req.Category
		assessments[i].Title = req.Title
		assessments[i].Month = req.Month
		assessments[i].HPS = req.HPS
		assessments[i].Date = req.Date
		assessments[i].InstructorComments = req.InstructorComments
		if err := saveAssessments(ctx, s.store, assessments); err != nil {
			return nil, err
		}
		return &assessments[i], nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "assessment not found")
}

// Delete removes the assessment and every grade recorded against it. Deleting
// an unknown ID is a no-op.
func (s *AssessmentService) Delete(ctx context.Context, id int64) error {
	assessments, err := loadAssessments(ctx, s.store)
	if err != nil {
		return err
	}
	kept := assessments[:0]
	for _, a := range assessments {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(assessments) {
		return nil
	}
	if err := saveAssessments(ctx, s.store, kept); err != nil {
		return err
	}

	grades, err := loadGrades(ctx, s.store)
	if err != nil {
		return err
	}
	keptGrades := grades[:0]
	for _, g := range grades {
		if g.AssessmentID != id {
			keptGrades = append(keptGrades, g)
		}
	}
	if err := saveGrades(ctx, s.store, keptGrades); err != nil {
		return err
	}

	s.logger.Info("assessment deleted", zap.Int64("id", id))
	return nil
}

// seedPlaceholders creates an ungraded grade for every student enrolled in
// the assessment's course.
func (s *AssessmentService) seedPlaceholders(ctx context.Context, assessment models.Assessment) error {
	enrollments, err := loadEnrollments(ctx, s.store)
	if err != nil {
		return err
	}
	grades, err := loadGrades(ctx, s.store)
	if err != nil {
		return err
	}

	existing := make(map[int64]bool)
	for _, g := range grades {
		if g.AssessmentID == assessment.ID {
			existing[g.StudentID] = true
		}
	}

	added := 0
	for _, en := range enrollments {
		if en.CourseID != assessment.CourseID || existing[en.StudentID] {
			continue
		}
		grades = append(grades, models.Grade{
			ID:           uuid.NewString(),
			StudentID:    en.StudentID,
			AssessmentID: assessment.ID,
			Score:        nil,
		})
		added++
	}
	if added == 0 {
		return nil
	}
	return saveGrades(ctx, s.store, grades)
}

func (s *AssessmentService) validate(req *AssessmentRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(*req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assessment payload")
	}
	if !models.ValidCategory(req.Category) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown assessment category")
	}
	if !models.ValidMonth(req.Month) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown month")
	}
	return nil
}

func nextAssessmentID(assessments []models.Assessment) int64 {
	var max int64
	for _, a := range assessments {
		if a.ID > max {
			max = a.ID
		}
	}
	return max + 1
}
