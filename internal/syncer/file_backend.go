package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/nlac-edu/gradetrack-api/internal/models"
	"github.com/nlac-edu/gradetrack-api/internal/store"
	"github.com/nlac-edu/gradetrack-api/pkg/storage"
)

// FileBackend is the secondary fallback mirror (tier B): JSON snapshot files
// in a local directory.
type FileBackend struct {
	files *storage.LocalStorage
}

// NewFileBackend wraps a LocalStorage directory as a mirror tier.
func NewFileBackend(files *storage.LocalStorage) *FileBackend {
	return &FileBackend{files: files}
}

// Name identifies the tier in logs and status reports.
func (b *FileBackend) Name() string { return "file" }

// UploadAll writes one JSON file per collection.
func (b *FileBackend) UploadAll(ctx context.Context, snap *models.Snapshot) error {
	for key, value := range collectionsOf(snap) {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("file mirror: encode %s: %w", key, err)
		}
		if err := b.files.Save(key+".json", raw); err != nil {
			return fmt.Errorf("file mirror: %w", err)
		}
	}
	return nil
}

// DownloadAll reads every collection file. Missing files read as empty
// collections.
func (b *FileBackend) DownloadAll(ctx context.Context) (*models.Snapshot, error) {
	snap := &models.Snapshot{}
	for key, dest := range collectionsOf(snap) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := b.files.Read(key + ".json")
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("file mirror: %w", err)
		}
		if err := json.Unmarshal(raw, dest); err != nil {
			return nil, fmt.Errorf("file mirror: decode %s: %w", key, err)
		}
	}
	return snap, nil
}

// collectionsOf maps collection keys to the snapshot fields they serialize
// from and into.
func collectionsOf(snap *models.Snapshot) map[string]interface{} {
	return map[string]interface{}{
		store.KeyStudents:    &snap.Students,
		store.KeyCourses:     &snap.Courses,
		store.KeyEnrollments: &snap.Enrollments,
		store.KeyAssessments: &snap.Assessments,
		store.KeyGrades:      &snap.Grades,
	}
}
