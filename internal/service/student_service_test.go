package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nlac-edu/gradetrack-api/internal/models"
	"github.com/nlac-edu/gradetrack-api/internal/store"
	appErrors "github.com/nlac-edu/gradetrack-api/pkg/errors"
)

func seededStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore()
	require.NoError(t, store.Restore(context.Background(), st, store.DefaultSnapshot()))
	return st
}

func newTestStudentService(st store.Store) *StudentService {
	svc := NewStudentService(st, validator.New(), zap.NewNop())
	svc.pinFn = func() (string, error) { return "5555", nil }
	svc.nowFn = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestStudentServiceCreateSequence(t *testing.T) {
	st := seededStore(t)
	svc := newTestStudentService(st)

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		Name:    "Lopez, Ana T.",
		Program: models.ProgramBSBA,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-0004", student.StudentIDNum)
	assert.Equal(t, "5555", student.PinCode)
	assert.Equal(t, int64(4), student.ID)

	next, err := svc.Create(context.Background(), CreateStudentRequest{
		Name:    "Reyes, Paulo M.",
		Program: models.ProgramBSED,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-0005", next.StudentIDNum)
}

func TestStudentServiceCreateNewYearRestartsSequence(t *testing.T) {
	st := seededStore(t)
	svc := newTestStudentService(st)

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		Name:    "Cruz, Bea N.",
		Program: models.ProgramBSCS,
		Year:    2025,
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-0001", student.StudentIDNum)
}

func TestStudentServiceCreateValidation(t *testing.T) {
	svc := newTestStudentService(seededStore(t))

	_, err := svc.Create(context.Background(), CreateStudentRequest{Name: "   ", Program: models.ProgramBSCS})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation.Code))

	_, err = svc.Create(context.Background(), CreateStudentRequest{Name: "Valid Name", Program: "BS UNKNOWN"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation.Code))
}

func TestStudentServiceDeleteCascadesOwnRecordsOnly(t *testing.T) {
	st := seededStore(t)
	svc := newTestStudentService(st)

	require.NoError(t, svc.Delete(context.Background(), 1))

	_, err := svc.Get(context.Background(), 1)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound.Code))

	var enrollments []models.Enrollment
	require.NoError(t, st.Load(context.Background(), store.KeyEnrollments, &enrollments))
	for _, en := range enrollments {
		assert.NotEqual(t, int64(1), en.StudentID)
	}
	assert.Len(t, enrollments, 2)

	var grades []models.Grade
	require.NoError(t, st.Load(context.Background(), store.KeyGrades, &grades))
	for _, g := range grades {
		assert.NotEqual(t, int64(1), g.StudentID)
	}
	assert.Len(t, grades, 2)
}

func TestStudentServiceDeleteUnknownIsNoop(t *testing.T) {
	st := seededStore(t)
	svc := newTestStudentService(st)

	require.NoError(t, svc.Delete(context.Background(), 999))

	students, err := svc.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, students, 3)
}

func TestStudentServiceListFilters(t *testing.T) {
	svc := newTestStudentService(seededStore(t))

	byProgram, err := svc.List(context.Background(), models.StudentFilter{Program: models.ProgramBSIT})
	require.NoError(t, err)
	require.Len(t, byProgram, 1)
	assert.Equal(t, "Wilson, James K.", byProgram[0].Name)

	bySearch, err := svc.List(context.Background(), models.StudentFilter{Search: "garcia"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, int64(1), bySearch[0].ID)

	byIDNum, err := svc.List(context.Background(), models.StudentFilter{Search: "2024-0003"})
	require.NoError(t, err)
	require.Len(t, byIDNum, 1)
	assert.Equal(t, "Chen, Robert L.", byIDNum[0].Name)
}

func TestStudentServiceUpdateKeepsIdentity(t *testing.T) {
	svc := newTestStudentService(seededStore(t))

	updated, err := svc.Update(context.Background(), 1, UpdateStudentRequest{
		Name:      "Garcia, Maria Santos",
		Program:   models.ProgramBSIT,
		YearLevel: "2nd Year",
	})
	require.NoError(t, err)
	assert.Equal(t, "Garcia, Maria Santos", updated.Name)
	assert.Equal(t, "2024-0001", updated.StudentIDNum)
	assert.Equal(t, "4521", updated.PinCode)
}
