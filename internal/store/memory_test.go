package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlac-edu/gradetrack-api/internal/models"
)

func float64Ptr(v float64) *float64 { return &v }

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	students := []models.Student{
		{ID: 1, StudentIDNum: "2024-0001", Name: "Garcia, Maria S.", Program: models.ProgramBSCS, PinCode: "4521"},
	}
	require.NoError(t, s.Save(ctx, KeyStudents, students))

	var loaded []models.Student
	require.NoError(t, s.Load(ctx, KeyStudents, &loaded))
	assert.Equal(t, students, loaded)
}

func TestMemoryStoreUngradedSentinelPreserved(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	grades := []models.Grade{
		{ID: "g1", StudentID: 1, AssessmentID: 501, Score: float64Ptr(45)},
		{ID: "g2", StudentID: 1, AssessmentID: 502, Score: nil},
		{ID: "g3", StudentID: 2, AssessmentID: 501, Score: float64Ptr(0)},
	}
	require.NoError(t, s.Save(ctx, KeyGrades, grades))

	var loaded []models.Grade
	require.NoError(t, s.Load(ctx, KeyGrades, &loaded))
	require.Len(t, loaded, 3)
	assert.NotNil(t, loaded[0].Score)
	assert.Nil(t, loaded[1].Score, "ungraded stays nil, never zero")
	require.NotNil(t, loaded[2].Score)
	assert.Zero(t, *loaded[2].Score, "explicit zero stays zero, never nil")
}

func TestMemoryStoreMissingKey(t *testing.T) {
	s := NewMemoryStore()

	var dest []models.Course
	err := s.Load(context.Background(), KeyCourses, &dest)
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, LoadOrEmpty(context.Background(), s, KeyCourses, &dest))
	assert.Empty(t, dest)
}

func TestMemoryStoreLoadReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, KeyCourses, []models.Course{{ID: 101, Code: "MATH101", Title: "Mathematics 101"}}))

	var first []models.Course
	require.NoError(t, s.Load(ctx, KeyCourses, &first))
	first[0].Title = "mutated"

	var second []models.Course
	require.NoError(t, s.Load(ctx, KeyCourses, &second))
	assert.Equal(t, "Mathematics 101", second[0].Title)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	src := NewMemoryStore()
	dst := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, src.Save(ctx, KeyStudents, []models.Student{{ID: 1, StudentIDNum: "2024-0001", Name: "A", Program: models.ProgramBSIT, PinCode: "1111"}}))
	require.NoError(t, src.Save(ctx, KeyCourses, []models.Course{{ID: 101, Code: "CS202", Title: "Computer Science", Type: models.CourseTypeLab}}))
	require.NoError(t, src.Save(ctx, KeyEnrollments, []models.Enrollment{{ID: "en-1", StudentID: 1, CourseID: 101}}))
	require.NoError(t, src.Save(ctx, KeyAssessments, []models.Assessment{{ID: 501, CourseID: 101, Category: models.CategoryWrittenExam, Title: "Prelim Exam", Month: "February", HPS: 100}}))
	require.NoError(t, src.Save(ctx, KeyGrades, []models.Grade{{ID: "g1", StudentID: 1, AssessmentID: 501, Score: nil}}))

	snap, err := Snapshot(ctx, src)
	require.NoError(t, err)
	require.NoError(t, Restore(ctx, dst, snap))

	restored, err := Snapshot(ctx, dst)
	require.NoError(t, err)
	assert.Equal(t, snap, restored)
}
