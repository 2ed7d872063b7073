package service

import (
	"context"

	"github.com/nlac-edu/gradetrack-api/internal/models"
	"github.com/nlac-edu/gradetrack-api/internal/store"
	appErrors "github.com/nlac-edu/gradetrack-api/pkg/errors"
)

// Collection accessors shared by the services. Every load tolerates a
// never-written key and every save overwrites the whole collection, matching
// the store contract.

func loadStudents(ctx context.Context, st store.Store) ([]models.Student, error) {
	var students []models.Student
	if err := store.LoadOrEmpty(ctx, st, store.KeyStudents, &students); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	return students, nil
}

func saveStudents(ctx context.Context, st store.Store, students []models.Student) error {
	if err := st.Save(ctx, store.KeyStudents, students); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save students")
	}
	return nil
}

func loadCourses(ctx context.Context, st store.Store) ([]models.Course, error) {
	var courses []models.Course
	if err := store.LoadOrEmpty(ctx, st, store.KeyCourses, &courses); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	return courses, nil
}

func saveCourses(ctx context.Context, st store.Store, courses []models.Course) error {
	if err := st.Save(ctx, store.KeyCourses, courses); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save courses")
	}
	return nil
}

func loadEnrollments(ctx context.Context, st store.Store) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := store.LoadOrEmpty(ctx, st, store.KeyEnrollments, &enrollments); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}
	return enrollments, nil
}

func saveEnrollments(ctx context.Context, st store.Store, enrollments []models.Enrollment) error {
	if err := st.Save(ctx, store.KeyEnrollments, enrollments); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save enrollments")
	}
	return nil
}

func loadAssessments(ctx context.Context, st store.Store) ([]models.Assessment, error) {
	var assessments []models.Assessment
	if err := store.LoadOrEmpty(ctx, st, store.KeyAssessments, &assessments); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessments")
	}
	return assessments, nil
}

func saveAssessments(ctx context.Context, st store.Store, assessments []models.Assessment) error {
	if err := st.Save(ctx, store.KeyAssessments, assessments); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save assessments")
	}
	return nil
}

func loadGrades(ctx context.Context, st store.Store) ([]models.Grade, error) {
	var grades []models.Grade
	if err := store.LoadOrEmpty(ctx, st, store.KeyGrades, &grades); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grades")
	}
	return grades, nil
}

func saveGrades(ctx context.Context, st store.Store, grades []models.Grade) error {
	if err := st.Save(ctx, store.KeyGrades, grades); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save grades")
	}
	return nil
}
