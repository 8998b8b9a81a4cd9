// Package scheduler runs periodic catalog maintenance on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"

	"github.com/shelfkeeper/shelfkeeper/internal/backup"
	"github.com/shelfkeeper/shelfkeeper/internal/tasks"
)

// BackupScheduler enqueues a snapshot export on a cron schedule so the
// catalog is periodically written to the backup directory.
type BackupScheduler struct {
	queue    *tasks.Client
	dir      string
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewBackupScheduler creates a scheduler that drops timestamped snapshot
// files into dir per the cron schedule.
func NewBackupScheduler(queue *tasks.Client, dir, schedule string) *BackupScheduler {
	return &BackupScheduler{
		queue:    queue,
		dir:      dir,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the schedule. The backup directory is created if missing.
func (s *BackupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create backup directory %s: %w", s.dir, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runExport()
	})
	if err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Info("backup scheduler started", "schedule", s.schedule, "dir", s.dir)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *BackupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Info("backup scheduler stopped")
}

// IsRunning reports whether the schedule is active.
func (s *BackupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next export will occur, or nil when stopped.
func (s *BackupScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// RunNow enqueues an export immediately, outside the schedule.
func (s *BackupScheduler) RunNow() {
	go s.runExport()
}

func (s *BackupScheduler) runExport() {
	path := backup.SnapshotFilename(s.dir)
	ids, err := s.queue.Add(backup.ExportTask{Path: path}).Save()
	if err != nil {
		log.Error("scheduled backup enqueue failed", "err", err)
		return
	}
	log.Info("scheduled backup enqueued", "path", path, "task", ids[0])
}
