package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nlac-edu/gradetrack-api/internal/models"
	"github.com/nlac-edu/gradetrack-api/internal/store"
	appErrors "github.com/nlac-edu/gradetrack-api/pkg/errors"
)

// CreateStudentRequest holds payload for registering students. Year selects
// the ID number prefix and defaults to the current year.
type CreateStudentRequest struct {
	Name      string         `json:"name" validate:"required"`
	Program   models.Program `json:"program" validate:"required"`
	YearLevel string         `json:"yearLevel"`
	Email     string         `json:"email" validate:"omitempty,email"`
	Year      int            `json:"year"`
}

// UpdateStudentRequest holds payload for updating students. The ID number and
// PIN are immutable.
type UpdateStudentRequest struct {
	Name      string         `json:"name" validate:"required"`
	Program   models.Program `json:"program" validate:"required"`
	YearLevel string         `json:"yearLevel"`
	Email     string         `json:"email" validate:"omitempty,email"`
}

// StudentService handles student registration and lookup.
type StudentService struct {
	store     store.Store
	validator *validator.Validate
	logger    *zap.Logger

	// pinFn and nowFn are injectable for deterministic tests.
	pinFn func() (string, error)
	nowFn func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(st store.Store, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		store:     st,
		validator: validate,
		logger:    logger,
		pinFn:     randomPin,
		nowFn:     time.Now,
	}
}

// randomPin draws a 4-digit PIN in 1000-9999. PINs are login keys but carry no
// uniqueness guarantee.
func randomPin() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("draw pin: %w", err)
	}
	return strconv.FormatInt(n.Int64()+1000, 10), nil
}

// List returns students, optionally narrowed by search text and program.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	students, err := loadStudents(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if filter.Search == "" && filter.Program == "" {
		return students, nil
	}

	needle := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]models.Student, 0, len(students))
	for _, st := range students {
		if filter.Program != "" && st.Program != filter.Program {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(st.Name), needle) &&
			!strings.Contains(strings.ToLower(st.StudentIDNum), needle) {
			continue
		}
		matched = append(matched, st)
	}
	return matched, nil
}

// Get returns one student by internal ID.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	students, err := loadStudents(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range students {
		if students[i].ID == id {
			return &students[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
}

// Create registers a new student: assigns the next sequential ID number for
// the year and a random PIN.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if !models.ValidProgram(req.Program) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown program")
	}

	students, err := loadStudents(ctx, s.store)
	if err != nil {
		return nil, err
	}

	year := req.Year
	if year == 0 {
		year = s.nowFn().Year()
	}

	pin, err := s.pinFn()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate pin")
	}

	student := models.Student{
		ID:           nextStudentID(students),
		StudentIDNum: nextStudentIDNum(students, year),
		Name:         req.Name,
		Program:      req.Program,
		PinCode:      pin,
		YearLevel:    req.YearLevel,
		Email:        req.Email,
	}
	students = append(students, student)
	if err := saveStudents(ctx, s.store, students); err != nil {
		return nil, err
	}
	s.logger.Info("student created", zap.Int64("id", student.ID), zap.String("student_id_num", student.StudentIDNum))
	return &student, nil
}

// Update rewrites the mutable student fields.
func (s *StudentService) Update(ctx context.Context, id int64, req UpdateStudentRequest) (*models.Student, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if !models.ValidProgram(req.Program) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown program")
	}

	students, err := loadStudents(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range students {
		if students[i].ID != id {
			continue
		}
		students[i].Name = req.Name
		students[i].Program = req.Program
		students[i].YearLevel = req.YearLevel
		students[i].Email = req.Email
		if err := saveStudents(ctx, s.store, students); err != nil {
			return nil, err
		}
		return &students[i], nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
}

// Delete removes the student together with their enrollments and grades.
// Deleting an unknown ID is a no-op.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	students, err := loadStudents(ctx, s.store)
	if err != nil {
		return err
	}
	kept := students[:0]
	for _, st := range students {
		if st.ID != id {
			kept = append(kept, st)
		}
	}
	if len(kept) == len(students) {
		return nil
	}
	if err := saveStudents(ctx, s.store, kept); err != nil {
		return err
	}

	enrollments, err := loadEnrollments(ctx, s.store)
	if err != nil {
		return err
	}
	keptEnrollments := enrollments[:0]
	for _, en := range enrollments {
		if en.StudentID != id {
			keptEnrollments = append(keptEnrollments, en)
		}
	}
	if err := saveEnrollments(ctx, s.store, keptEnrollments); err != nil {
		return err
	}

	grades, err := loadGrades(ctx, s.store)
	if err != nil {
		return err
	}
	keptGrades := grades[:0]
	for _, g := range grades {
		if g.StudentID != id {
			keptGrades = append(keptGrades, g)
		}
	}
	if err := saveGrades(ctx, s.store, keptGrades); err != nil {
		return err
	}

	s.logger.Info("student deleted", zap.Int64("id", id))
	return nil
}

// nextStudentID returns the highest internal ID plus one.
func nextStudentID(students []models.Student) int64 {
	var max int64
	for _, st := range students {
		if st.ID > max {
			max = st.ID
		}
	}
	return max + 1
}

// nextStudentIDNum computes the next YYYY-NNNN identity number for the year:
// the highest existing sequence plus one, zero-padded to four digits. The
// sequence never reuses gaps left by deletions.
func nextStudentIDNum(students []models.Student, year int) string {
	prefix := fmt.Sprintf("%d-", year)
	max := 0
	for _, st := range students {
		if !strings.HasPrefix(st.StudentIDNum, prefix) {
			continue
		}
		seq, err := strconv.Atoi(st.StudentIDNum[len(prefix):])
		if err != nil {
			continue
		}
		if seq > max {
			max = seq
		}
	}
	return fmt.Sprintf("%d-%04d", year, max+1)
}
