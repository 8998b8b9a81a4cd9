package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shelfkeeper/shelfkeeper/internal/backup"
	"github.com/shelfkeeper/shelfkeeper/internal/database"
)

// respondError maps storage errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	var validationErr *database.ValidationError
	var importErr *backup.ImportError

	switch {
	case errors.Is(err, database.ErrNotFound):
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &validationErr):
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &importErr):
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": importErr.Error()})
	default:
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// pathID parses the named path parameter as a positive integer id.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// queryIDs parses a comma separated list of ids from a query parameter.
func queryIDs(c *gin.Context, name string) ([]int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
