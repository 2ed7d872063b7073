package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nlac-edu/gradetrack-api/internal/models"
	"github.com/nlac-edu/gradetrack-api/internal/store"
	"github.com/nlac-edu/gradetrack-api/pkg/jobs"
)

// Recorder receives sync instrumentation. Implemented by the metrics service.
type Recorder interface {
	RecordSyncAttempt(tier, op string, success bool)
	SetLastSyncTimestamp(ts time.Time)
}

// Config tunes reconciliation behaviour.
type Config struct {
	Enabled bool
	// Timeout bounds every remote tier call so an unreachable mirror can
	// never hang a request.
	Timeout time.Duration
	// Seed produces the default dataset used when every tier and the store
	// are empty. Defaults to store.DefaultSnapshot.
	Seed func() *models.Snapshot
}

// Syncer reconciles the persistent store with the mirror tiers in strict
// precedence order and pushes explicit saves to every tier best-effort.
type Syncer struct {
	store    store.Store
	backends []Backend
	cfg      Config
	queue    *jobs.Queue
	logger   *zap.Logger
	metrics  Recorder
}

type pushJob struct {
	backend Backend
	snap    *models.Snapshot
}

// New builds a Syncer over the ordered backend list (highest precedence
// first).
func New(st store.Store, backends []Backend, cfg Config, queueCfg jobs.QueueConfig, logger *zap.Logger, metrics Recorder) *Syncer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Seed == nil {
		cfg.Seed = store.DefaultSnapshot
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Syncer{store: st, backends: backends, cfg: cfg, logger: logger, metrics: metrics}
	queueCfg.Logger = logger
	s.queue = jobs.NewQueue("sync-push", s.handlePush, queueCfg)
	return s
}

// Start launches the push workers.
func (s *Syncer) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the push workers.
func (s *Syncer) Stop() {
	s.queue.Stop()
}

// Initialize reconciles the store with the tiers at startup. The first tier
// returning a non-empty student collection is authoritative: its snapshot
// overwrites the store and is replicated best-effort to the remaining tiers.
// When every tier is unreachable or empty the store stands as-is, seeded with
// the default dataset if it too is empty.
func (s *Syncer) Initialize(ctx context.Context) error {
	if err := s.store.Save(ctx, store.KeySyncEnabled, s.cfg.Enabled); err != nil {
		return fmt.Errorf("persist sync flag: %w", err)
	}

	if s.cfg.Enabled {
		for i, backend := range s.backends {
			snap, err := s.download(ctx, backend)
			if err != nil {
				s.logger.Warn("mirror download failed", zap.String("tier", backend.Name()), zap.Error(err))
				continue
			}
			if snap.Empty() {
				s.logger.Info("mirror empty, trying next tier", zap.String("tier", backend.Name()))
				continue
			}

			if err := store.Restore(ctx, s.store, snap); err != nil {
				return fmt.Errorf("restore from %s mirror: %w", backend.Name(), err)
			}
			s.markSynced(ctx)
			s.logger.Info("store initialized from mirror", zap.String("tier", backend.Name()))

			for j, other := range s.backends {
				if j == i {
					continue
				}
				s.upload(ctx, other, snap)
			}
			return nil
		}
	}

	snap, err := store.Snapshot(ctx, s.store)
	if err != nil {
		return fmt.Errorf("load local snapshot: %w", err)
	}
	if snap.Empty() {
		snap = s.cfg.Seed()
		if err := store.Restore(ctx, s.store, snap); err != nil {
			return fmt.Errorf("seed store: %w", err)
		}
		s.logger.Info("store seeded with default dataset")
	} else {
		s.logger.Info("store initialized from local data")
	}

	if s.cfg.Enabled {
		for _, backend := range s.backends {
			s.upload(ctx, backend, snap)
		}
		s.markSynced(ctx)
	}
	return nil
}

// PushAll mirrors the current store state to every tier. Pushes run on the
// background queue: each tier is independent and best-effort, and a failed
// tier never blocks the caller or the other tiers.
func (s *Syncer) PushAll(ctx context.Context) error {
	if !s.cfg.Enabled {
		return nil
	}
	snap, err := store.Snapshot(ctx, s.store)
	if err != nil {
		return fmt.Errorf("load snapshot for push: %w", err)
	}
	for _, backend := range s.backends {
		job := jobs.Job{
			ID:      uuid.NewString(),
			Type:    "upload:" + backend.Name(),
			Payload: pushJob{backend: backend, snap: snap},
		}
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Warn("failed to enqueue mirror push", zap.String("tier", backend.Name()), zap.Error(err))
		}
	}
	return nil
}

// DownloadPreferred returns the freshest reachable view of the data: tier A,
// then tier B, then the store, then the default dataset. Used by the student
// login read path.
func (s *Syncer) DownloadPreferred(ctx context.Context) (*models.Snapshot, error) {
	if s.cfg.Enabled {
		for _, backend := range s.backends {
			snap, err := s.download(ctx, backend)
			if err != nil {
				s.logger.Warn("mirror read failed", zap.String("tier", backend.Name()), zap.Error(err))
				continue
			}
			if !snap.Empty() {
				return snap, nil
			}
		}
	}

	snap, err := store.Snapshot(ctx, s.store)
	if err != nil {
		return nil, fmt.Errorf("load local snapshot: %w", err)
	}
	if snap.Empty() {
		return s.cfg.Seed(), nil
	}
	return snap, nil
}

// Status reports the sync flag, last sync time and per-tier reachability.
func (s *Syncer) Status(ctx context.Context) (*models.SyncStatus, error) {
	status := &models.SyncStatus{Enabled: s.cfg.Enabled}
	if err := store.LoadOrEmpty(ctx, s.store, store.KeySyncEnabled, &status.Enabled); err != nil {
		return nil, err
	}

	var last time.Time
	if err := store.LoadOrEmpty(ctx, s.store, store.KeyLastSync, &last); err != nil {
		return nil, err
	}
	if !last.IsZero() {
		status.LastSync = &last
	}

	for _, backend := range s.backends {
		_, err := s.download(ctx, backend)
		status.Tiers = append(status.Tiers, models.TierStatus{
			Name:      backend.Name(),
			Reachable: err == nil,
		})
	}
	return status, nil
}

func (s *Syncer) handlePush(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(pushJob)
	if !ok {
		s.logger.Error("unexpected push payload", zap.String("job_id", job.ID))
		return nil
	}

	uploadCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	err := payload.backend.UploadAll(uploadCtx, payload.snap)
	s.record(payload.backend.Name(), "upload", err == nil)
	if err != nil {
		return fmt.Errorf("push to %s mirror: %w", payload.backend.Name(), err)
	}
	s.markSynced(ctx)
	return nil
}

func (s *Syncer) download(ctx context.Context, backend Backend) (*models.Snapshot, error) {
	downloadCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	snap, err := backend.DownloadAll(downloadCtx)
	s.record(backend.Name(), "download", err == nil)
	return snap, err
}

// upload is the synchronous best-effort variant used during initialization;
// failures are logged and swallowed.
func (s *Syncer) upload(ctx context.Context, backend Backend, snap *models.Snapshot) {
	uploadCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	err := backend.UploadAll(uploadCtx, snap)
	s.record(backend.Name(), "upload", err == nil)
	if err != nil {
		s.logger.Warn("mirror replicate failed", zap.String("tier", backend.Name()), zap.Error(err))
	}
}

func (s *Syncer) markSynced(ctx context.Context) {
	now := time.Now().UTC()
	if err := s.store.Save(ctx, store.KeyLastSync, now); err != nil {
		s.logger.Warn("failed to record sync time", zap.Error(err))
		return
	}
	if s.metrics != nil {
		s.metrics.SetLastSyncTimestamp(now)
	}
}

func (s *Syncer) record(tier, op string, success bool) {
	if s.metrics != nil {
		s.metrics.RecordSyncAttempt(tier, op, success)
	}
}
