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

func TestEnrollmentServiceCreateRejectsDuplicate(t *testing.T) {
	svc := NewEnrollmentService(seededStore(t), validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), EnrollmentRequest{StudentID: 1, CourseID: 101})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicate.Code))
}

func TestEnrollmentServiceCreateSeedsPlaceholders(t *testing.T) {
	st := seededStore(t)
	svc := NewEnrollmentService(st, validator.New(), zap.NewNop())

	// course 102 carries two assessments; student 3 has no grades on either
	enrollment, err := svc.Create(context.Background(), EnrollmentRequest{StudentID: 3, CourseID: 102})
	require.NoError(t, err)
	assert.NotEmpty(t, enrollment.ID)

	var grades []models.Grade
	require.NoError(t, st.Load(context.Background(), store.KeyGrades, &grades))

	seeded := 0
	for _, g := range grades {
		if g.StudentID == 3 {
			seeded++
			assert.Nil(t, g.Score, "placeholders start ungraded")
		}
	}
	assert.Equal(t, 2, seeded)
	assert.Len(t, grades, 7)
}

func TestEnrollmentServiceCreateUnknownReferences(t *testing.T) {
	svc := NewEnrollmentService(seededStore(t), validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), EnrollmentRequest{StudentID: 999, CourseID: 101})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound.Code))

	_, err = svc.Create(context.Background(), EnrollmentRequest{StudentID: 1, CourseID: 999})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound.Code))
}

func TestEnrollmentServiceDeleteCascadesCourseGrades(t *testing.T) {
	st := seededStore(t)
	svc := NewEnrollmentService(st, validator.New(), zap.NewNop())

	// en-1 is student 1 in course 101: grades g1, g3, g4 hang off its assessments
	require.NoError(t, svc.Delete(context.Background(), "en-1"))

	var grades []models.Grade
	require.NoError(t, st.Load(context.Background(), store.KeyGrades, &grades))
	assert.Len(t, grades, 2)
	for _, g := range grades {
		if g.StudentID == 1 {
			assert.Equal(t, int64(504), g.AssessmentID, "grades outside course 101 survive")
		}
	}

	var enrollments []models.Enrollment
	require.NoError(t, st.Load(context.Background(), store.KeyEnrollments, &enrollments))
	assert.Len(t, enrollments, 3)
}

func TestEnrollmentServiceDeleteUnknownIsNoop(t *testing.T) {
	st := seededStore(t)
	svc := NewEnrollmentService(st, validator.New(), zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "missing"))

	var grades []models.Grade
	require.NoError(t, st.Load(context.Background(), store.KeyGrades, &grades))
	assert.Len(t, grades, 5)
}

func TestEnrollmentServiceListFilters(t *testing.T) {
	svc := NewEnrollmentService(seededStore(t), validator.New(), zap.NewNop())

	byStudent, err := svc.List(context.Background(), models.EnrollmentFilter{StudentID: 1})
	require.NoError(t, err)
	assert.Len(t, byStudent, 2)

	byCourse, err := svc.List(context.Background(), models.EnrollmentFilter{CourseID: 101})
	require.NoError(t, err)
	assert.Len(t, byCourse, 3)

	byBoth, err := svc.List(context.Background(), models.EnrollmentFilter{StudentID: 1, CourseID: 102})
	require.NoError(t, err)
	assert.Len(t, byBoth, 1)
}
