package store

import (
	"context"
	"errors"

	"github.com/nlac-edu/gradetrack-api/internal/models"
)

// Collection keys. Every mutation writes the whole collection back under its
// key; there is no transactional grouping across keys.
const (
	KeyStudents    = "students"
	KeyCourses     = "courses"
	KeyEnrollments = "enrollments"
	KeyAssessments = "assessments"
	KeyGrades      = "grades"
	KeyLastSync    = "last_sync"
	KeySyncEnabled = "sync_enabled"
)

// ErrKeyNotFound is returned by Load when a key has never been written.
var ErrKeyNotFound = errors.New("store: key not found")

// Store is the durable key-value storage for the record collections. Values
// round-trip through JSON.
type Store interface {
	Load(ctx context.Context, key string, dest interface{}) error
	Save(ctx context.Context, key string, value interface{}) error
}

// LoadOrEmpty loads the key into dest, treating a never-written key as empty:
// dest is left at its zero value and no error is returned.
func LoadOrEmpty(ctx context.Context, s Store, key string, dest interface{}) error {
	if err := s.Load(ctx, key, dest); err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// Snapshot loads all five collections. Missing keys load as empty slices.
func Snapshot(ctx context.Context, s Store) (*models.Snapshot, error) {
	snap := &models.Snapshot{}
	if err := LoadOrEmpty(ctx, s, KeyStudents, &snap.Students); err != nil {
		return nil, err
	}
	if err := LoadOrEmpty(ctx, s, KeyCourses, &snap.Courses); err != nil {
		return nil, err
	}
	if err := LoadOrEmpty(ctx, s, KeyEnrollments, &snap.Enrollments); err != nil {
		return nil, err
	}
	if err := LoadOrEmpty(ctx, s, KeyAssessments, &snap.Assessments); err != nil {
		return nil, err
	}
	if err := LoadOrEmpty(ctx, s, KeyGrades, &snap.Grades); err != nil {
		return nil, err
	}
	return snap, nil
}

// Restore overwrites all five collections with the snapshot contents. Each
// collection is an independent Save; a failure leaves earlier keys written.
func Restore(ctx context.Context, s Store, snap *models.Snapshot) error {
	if snap == nil {
		return errors.New("store: nil snapshot")
	}
	if err := s.Save(ctx, KeyStudents, snap.Students); err != nil {
		return err
	}
	if err := s.Save(ctx, KeyCourses, snap.Courses); err != nil {
		return err
	}
	if err := s.Save(ctx, KeyEnrollments, snap.Enrollments); err != nil {
		return err
	}
	if err := s.Save(ctx, KeyAssessments, snap.Assessments); err != nil {
		return err
	}
	return s.Save(ctx, KeyGrades, snap.Grades)
}
