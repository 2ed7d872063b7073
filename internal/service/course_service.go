package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nlac-edu/gradetrack-api/internal/models"
	"github.com/nlac-edu/gradetrack-api/internal/store"
	appErrors "github.com/nlac-edu/gradetrack-api/pkg/errors"
)

// CourseRequest holds payload for creating or updating a course section.
type CourseRequest struct {
	Code  string            `json:"code" validate:"required"`
	Title string            `json:"title" validate:"required"`
	Type  models.CourseType `json:"type" validate:"required"`
	Day   string            `json:"day"`
	Time  string            `json:"time"`
	Room  string            `json:"room" validate:"required"`
}

// CourseService handles course scheduling use-cases.
type CourseService struct {
	store     store.Store
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(st store.Store, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{store: st, validator: validate, logger: logger}
}

// List returns every course section.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	return loadCourses(ctx, s.store)
}

// Get returns one course by ID.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	courses, err := loadCourses(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		if courses[i].ID == id {
			return &courses[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
}

// Create adds a course section.
func (s *CourseService) Create(ctx context.Context, req CourseRequest) (*models.Course, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	courses, err := loadCourses(ctx, s.store)
	if err != nil {
		return nil, err
	}

	course := models.Course{
		ID:    nextCourseID(courses),
		Code:  req.Code,
		Title: req.Title,
		Type:  req.Type,
		Day:   req.Day,
		Time:  req.Time,
		Room:  req.Room,
	}
	courses = append(courses, course)
	if err := saveCourses(ctx, s.store, courses); err != nil {
		return nil, err
	}
	s.logger.Info("course created", zap.Int64("id", course.ID), zap.String("code", course.Code))
	return &course, nil
}

// Update rewrites a course section.
func (s *CourseService) Update(ctx context.Context, id int64, req CourseRequest) (*models.Course, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	courses, err := loadCourses(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		if courses[i].ID != id {
			continue
		}
		courses[i].Code = req.Code
		courses[i].Title = req.Title
		courses[i].Type = req.Type
		courses[i].Day = req.Day
		courses[i].Time = req.Time
		courses[i].Room = req.Room
		if err := saveCourses(ctx, s.store, courses); err != nil {
			return nil, err
		}
		return &courses[i], nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
}

// Delete removes the course and its enrollments. Grades referencing the
// course's assessments stay in the grade collection for historical lookups.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	courses, err := loadCourses(ctx, s.store)
	if err != nil {
		return err
	}
	kept := courses[:0]
	for _, c := range courses {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(courses) {
		return nil
	}
	if err := saveCourses(ctx, s.store, kept); err != nil {
		return err
	}

	enrollments, err := loadEnrollments(ctx, s.store)
	if err != nil {
		return err
	}
	keptEnrollments := enrollments[:0]
	for _, en := range enrollments {
		if en.CourseID != id {
			keptEnrollments = append(keptEnrollments, en)
		}
	}
	if err := saveEnrollments(ctx, s.store, keptEnrollments); err != nil {
		return err
	}

	s.logger.Info("course deleted", zap.Int64("id", id))
	return nil
}

func (s *CourseService) validate(req *CourseRequest) error {
	req.Code = strings.TrimSpace(req.Code)
	req.Title = strings.TrimSpace(req.Title)
	req.Room = strings.TrimSpace(req.Room)
	if err := s.validator.Struct(*req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if !models.ValidCourseType(req.Type) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown course type")
	}
	return nil
}

func nextCourseID(courses []models.Course) int64 {
	var max int64
	for _, c := range courses {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}
