package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mikestefanello/backlite"
)

// ExportTask writes a full snapshot of the catalog to a file on disk.
type ExportTask struct {
	Path string `json:"path"`
}

// Config returns the queue configuration for export tasks.
func (t ExportTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "backup_export",
		MaxAttempts: 2,
		Backoff:     15 * time.Second,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   7 * 24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ExportProcessor creates the processor function for ExportTask.
func ExportProcessor(repo *Repository) backlite.QueueProcessor[ExportTask] {
	return func(ctx context.Context, task ExportTask) error {
		snap, err := repo.Export(ctx)
		if err != nil {
			return fmt.Errorf("export snapshot: %w", err)
		}
		data, err := snap.Encode()
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		if err := os.WriteFile(task.Path, data, 0o644); err != nil {
			return fmt.Errorf("write snapshot to %s: %w", task.Path, err)
		}
		log.Info("backup export written",
			"path", task.Path,
			"books", len(snap.Books),
			"authors", len(snap.Authors))
		return nil
	}
}

// NewExportQueue creates a backlite queue for export tasks.
func NewExportQueue(repo *Repository) backlite.Queue {
	return backlite.NewQueue(ExportProcessor(repo))
}

// ImportTask restores the catalog from a snapshot file. A failed restore
// rolls back wholly, so the task is not retried.
type ImportTask struct {
	Path    string `json:"path"`
	Replace bool   `json:"replace"`
}

// Config returns the queue configuration for import tasks.
func (t ImportTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "backup_import",
		MaxAttempts: 1,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   7 * 24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportProcessor creates the processor function for ImportTask.
func ImportProcessor(repo *Repository) backlite.QueueProcessor[ImportTask] {
	return func(ctx context.Context, task ImportTask) error {
		data, err := os.ReadFile(task.Path)
		if err != nil {
			return fmt.Errorf("read snapshot from %s: %w", task.Path, err)
		}
		snap, err := Decode(data)
		if err != nil {
			return err
		}
		if err := repo.Import(ctx, snap, task.Replace); err != nil {
			return err
		}
		log.Info("backup import applied",
			"path", task.Path,
			"replace", task.Replace,
			"books", len(snap.Books))
		return nil
	}
}

// NewImportQueue creates a backlite queue for import tasks.
func NewImportQueue(repo *Repository) backlite.Queue {
	return backlite.NewQueue(ImportProcessor(repo))
}

// SnapshotFilename returns a unique timestamped export path inside dir.
func SnapshotFilename(dir string) string {
	stamp := time.Now().UTC().Format("20060102T150405Z")
	return filepath.Join(dir, fmt.Sprintf("catalog-%s-%s.json", stamp, uuid.NewString()[:8]))
}
