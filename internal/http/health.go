package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfkeeper/shelfkeeper/internal/database"
	"github.com/shelfkeeper/shelfkeeper/internal/entities"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{
		db:      db,
		version: version,
	}
}

// Status pings the storage engine and runs one cheap catalog query, so a
// healthy response means the books table is actually readable, not just
// that the file opened.
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	fail := func(name string, err error) {
		checks[name] = "error: " + err.Error()
		status = "unhealthy"
	}

	if h.db == nil {
		checks["database"] = "not configured"
	} else if sqlDB, err := h.db.DB.DB(); err != nil {
		fail("database", err)
	} else if err := sqlDB.Ping(); err != nil {
		fail("database", err)
	} else {
		checks["database"] = "ok"

		var count int64
		if err := h.db.DB.Model(&entities.Book{}).Count(&count).Error; err != nil {
			fail("catalog", err)
		} else {
			checks["catalog"] = fmt.Sprintf("ok (%d books)", count)
		}
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
