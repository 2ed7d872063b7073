package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nlac-edu/gradetrack-api/internal/gradebook"
	"github.com/nlac-edu/gradetrack-api/internal/models"
	appErrors "github.com/nlac-edu/gradetrack-api/pkg/errors"
)

func floatPtr(v float64) *float64 { return &v }

func TestGradeServiceUpsertUpdatesExistingPair(t *testing.T) {
	svc := NewGradeService(seededStore(t), validator.New(), zap.NewNop())

	grade, err := svc.Upsert(context.Background(), UpsertGradeRequest{
		StudentID: 1, AssessmentID: 501, Score: floatPtr(97),
	})
	require.NoError(t, err)
	assert.Equal(t, "g1", grade.ID, "existing grade is updated, not duplicated")
	assert.Equal(t, 97.0, *grade.Score)

	grades, err := svc.List(context.Background(), models.GradeFilter{StudentID: 1, AssessmentID: 501})
	require.NoError(t, err)
	assert.Len(t, grades, 1)
}

func TestGradeServiceUpsertInsertsNewPair(t *testing.T) {
	svc := NewGradeService(seededStore(t), validator.New(), zap.NewNop())

	grade, err := svc.Upsert(context.Background(), UpsertGradeRequest{
		StudentID: 3, AssessmentID: 502, Score: floatPtr(40),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, grade.ID)

	grades, err := svc.List(context.Background(), models.GradeFilter{})
	require.NoError(t, err)
	assert.Len(t, grades, 6)
}

func TestGradeServiceUpsertNullScoreClearsGrade(t *testing.T) {
	svc := NewGradeService(seededStore(t), validator.New(), zap.NewNop())

	grade, err := svc.Upsert(context.Background(), UpsertGradeRequest{
		StudentID: 1, AssessmentID: 501, Score: nil,
	})
	require.NoError(t, err)
	assert.Nil(t, grade.Score)
	assert.False(t, grade.Graded())
}

func TestGradeServiceUpsertBounds(t *testing.T) {
	svc := NewGradeService(seededStore(t), validator.New(), zap.NewNop())

	_, err := svc.Upsert(context.Background(), UpsertGradeRequest{StudentID: 1, AssessmentID: 501, Score: floatPtr(-1)})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation.Code))

	_, err = svc.Upsert(context.Background(), UpsertGradeRequest{StudentID: 1, AssessmentID: 502, Score: floatPtr(51)})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation.Code))

	_, err = svc.Upsert(context.Background(), UpsertGradeRequest{StudentID: 1, AssessmentID: 999, Score: floatPtr(1)})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound.Code))

	// student 3 is not enrolled in course 102
	_, err = svc.Upsert(context.Background(), UpsertGradeRequest{StudentID: 3, AssessmentID: 504, Score: floatPtr(1)})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation.Code))
}

func TestGradeServiceListByCourse(t *testing.T) {
	svc := NewGradeService(seededStore(t), validator.New(), zap.NewNop())

	grades, err := svc.List(context.Background(), models.GradeFilter{CourseID: 102})
	require.NoError(t, err)
	require.Len(t, grades, 1)
	assert.Equal(t, "g5", grades[0].ID)
}

func TestGradeServiceStudentSummary(t *testing.T) {
	svc := NewGradeService(seededStore(t), validator.New(), zap.NewNop())

	summary, err := svc.StudentSummary(context.Background(), 1, gradebook.Filter{})
	require.NoError(t, err)
	require.Len(t, summary.Courses, 2)

	// course 101: 95/100 + 45/50 + 18/20 pooled = 158/170 -> 93
	math101 := summary.Courses[0]
	assert.Equal(t, "MATH101", math101.Code)
	require.NotNil(t, math101.Average)
	assert.Equal(t, 93, *math101.Average)
	assert.Equal(t, "A", math101.LetterGrade)
	require.NotNil(t, math101.NumericEquivalent)
	assert.Equal(t, 1.25, *math101.NumericEquivalent)
	require.Len(t, math101.Rows, 3)
	require.NotNil(t, math101.Rows[1].Percentage)
	assert.Equal(t, 90, *math101.Rows[1].Percentage)

	// course 102: no graded item for student 1
	cs202 := summary.Courses[1]
	assert.Nil(t, cs202.Average)
	assert.Empty(t, cs202.LetterGrade)

	// overall averages only the graded course
	require.NotNil(t, summary.OverallAverage)
	assert.Equal(t, 93, *summary.OverallAverage)
}

func TestGradeServiceStudentSummaryFilters(t *testing.T) {
	svc := NewGradeService(seededStore(t), validator.New(), zap.NewNop())

	summary, err := svc.StudentSummary(context.Background(), 1, gradebook.Filter{Category: models.CategoryWrittenExam})
	require.NoError(t, err)

	math101 := summary.Courses[0]
	require.Len(t, math101.Rows, 2)
	// 95/100 + 45/50 pooled = 140/150 -> 93
	require.NotNil(t, math101.Average)
	assert.Equal(t, 93, *math101.Average)
}

func TestGradeServiceStudentSummaryUnknownStudent(t *testing.T) {
	svc := NewGradeService(seededStore(t), validator.New(), zap.NewNop())

	_, err := svc.StudentSummary(context.Background(), 999, gradebook.Filter{})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound.Code))
}
