package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/shelfkeeper/shelfkeeper/internal/backup"
	"github.com/shelfkeeper/shelfkeeper/internal/tasks"
)

// Snapshot uploads are capped to keep a malformed request from buffering
// unbounded JSON in memory.
const maxSnapshotBytes = 64 << 20

// BackupController serves snapshot export and import endpoints. Downloads
// and uploads run synchronously; scheduled exports to the backup directory
// go through the task queue.
type BackupController struct {
	repo       *backup.Repository
	taskClient *tasks.Client
	backupDir  string
}

func NewBackupController(repo *backup.Repository, taskClient *tasks.Client, backupDir string) *BackupController {
	return &BackupController{
		repo:       repo,
		taskClient: taskClient,
		backupDir:  backupDir,
	}
}

// DownloadSnapshot handles GET /api/backup/export and streams the snapshot
// as a JSON attachment.
func (controller *BackupController) DownloadSnapshot(c *gin.Context) {
	snap, err := controller.repo.Export(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := snap.Encode()
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("catalog-%s.json", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/json", data)
}

// EnqueueExport handles POST /api/backup/export and schedules a snapshot
// write into the backup directory.
func (controller *BackupController) EnqueueExport(c *gin.Context) {
	if controller.taskClient == nil {
		c.IndentedJSON(http.StatusServiceUnavailable, gin.H{"error": "task queue disabled"})
		return
	}

	path := backup.SnapshotFilename(controller.backupDir)
	ids, err := controller.taskClient.Add(backup.ExportTask{Path: path}).Save()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusAccepted, gin.H{
		"task_id": ids[0],
		"path":    path,
		"message": "export enqueued",
	})
}

// ImportSnapshot handles POST /api/backup/import. The request body is the
// snapshot JSON; `replace=true` wipes the catalog before restoring.
func (controller *BackupController) ImportSnapshot(c *gin.Context) {
	replace, err := strconv.ParseBool(c.DefaultQuery("replace", "false"))
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid replace parameter"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSnapshotBytes))
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := backup.Decode(data)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := controller.repo.Import(c.Request.Context(), snap, replace); err != nil {
		respondError(c, err)
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"message": "import complete",
		"replace": replace,
		"books":   len(snap.Books),
	})
}

// GetTaskStatus handles GET /api/backup/tasks/:id.
func (controller *BackupController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "task ID is required"})
		return
	}
	if controller.taskClient == nil {
		c.IndentedJSON(http.StatusServiceUnavailable, gin.H{"error": "task queue disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := controller.taskClient.Status(ctx, taskID)
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
