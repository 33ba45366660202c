package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/streamlens/internal/database"
)

// HealthHandler reports process and backing-store health.
type HealthHandler struct {
	logger *logrus.Logger
	db     *database.Database
}

func NewHealthHandler(logger *logrus.Logger, db *database.Database) *HealthHandler {
	return &HealthHandler{
		logger: logger,
		db:     db,
	}
}

// Check pings every configured backing store. Disabled stores are reported
// as skipped and do not affect the overall status.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	stores := gin.H{
		"postgres": "skipped",
		"redis":    "skipped",
		"neo4j":    "skipped",
	}

	if h.db != nil && h.db.PG != nil {
		stores["postgres"] = "healthy"
		if err := h.db.PG.Ping(ctx); err != nil {
			stores["postgres"] = "unhealthy"
			status = "degraded"
		}
	}

	if h.db != nil && h.db.Redis != nil {
		stores["redis"] = "healthy"
		if err := h.db.Redis.Ping(ctx).Err(); err != nil {
			stores["redis"] = "unhealthy"
			status = "degraded"
		}
	}

	if h.db != nil && h.db.Neo4j != nil {
		stores["neo4j"] = "healthy"
		if err := h.db.Neo4j.VerifyConnectivity(ctx); err != nil {
			stores["neo4j"] = "unhealthy"
			status = "degraded"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"stores": stores,
	})
}
