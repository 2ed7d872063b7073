package syncer

import (
	"context"

	"github.com/nlac-edu/gradetrack-api/internal/models"
)

// Backend is one mirror tier. Mirrors exchange full snapshots only; there are
// no partial updates on the wire.
type Backend interface {
	Name() string
	UploadAll(ctx context.Context, snap *models.Snapshot) error
	DownloadAll(ctx context.Context) (*models.Snapshot, error)
}
