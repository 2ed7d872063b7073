package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nlac-edu/gradetrack-api/internal/models"
	"github.com/nlac-edu/gradetrack-api/internal/store"
	appErrors "github.com/nlac-edu/gradetrack-api/pkg/errors"
)

func TestCourseServiceCreate(t *testing.T) {
	svc := NewCourseService(seededStore(t), validator.New(), zap.NewNop())

	course, err := svc.Create(context.Background(), CourseRequest{
		Code:  "PHYS110",
		Title: "Physics Fundamentals",
		Type:  models.CourseTypeLecture,
		Day:   "MWF",
		Time:  "10:00 - 11:00",
		Room:  "Room 204",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(103), course.ID)
}

func TestCourseServiceCreateValidation(t *testing.T) {
	svc := NewCourseService(seededStore(t), validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CourseRequest{Code: " ", Title: "T", Type: models.CourseTypeLab, Room: "R"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation.Code))

	_, err = svc.Create(context.Background(), CourseRequest{Code: "C", Title: "T", Type: "Seminar", Room: "R"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation.Code))
}

func TestCourseServiceDeleteCascadesEnrollmentsOnly(t *testing.T) {
	st := seededStore(t)
	svc := NewCourseService(st, validator.New(), zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), 101))

	var enrollments []models.Enrollment
	require.NoError(t, st.Load(context.Background(), store.KeyEnrollments, &enrollments))
	assert.Len(t, enrollments, 1)
	assert.Equal(t, int64(102), enrollments[0].CourseID)

	// grades on the removed course's assessments stay for history
	var grades []models.Grade
	require.NoError(t, st.Load(context.Background(), store.KeyGrades, &grades))
	assert.Len(t, grades, 5)
}

func TestCourseServiceUpdateUnknown(t *testing.T) {
	svc := NewCourseService(seededStore(t), validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), 999, CourseRequest{
		Code: "X", Title: "Y", Type: models.CourseTypeLab, Room: "Z",
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound.Code))
}
