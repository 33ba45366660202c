package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/streamlens/internal/pipeline"
)

// PipelineRunner runs one full generation and analysis pass.
type PipelineRunner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

// PipelineHandler lets operators trigger pipeline runs over the API.
// Only one run may be in flight at a time.
type PipelineHandler struct {
	logger *logrus.Logger
	runner PipelineRunner
	mu     sync.Mutex
}

func NewPipelineHandler(logger *logrus.Logger, runner PipelineRunner) *PipelineHandler {
	return &PipelineHandler{
		logger: logger,
		runner: runner,
	}
}

// TriggerRun executes a pipeline run and returns its headline numbers.
func (h *PipelineHandler) TriggerRun(c *gin.Context) {
	if !h.mu.TryLock() {
		c.JSON(http.StatusConflict, gin.H{
			"error": gin.H{
				"code":    "RUN_IN_PROGRESS",
				"message": "A pipeline run is already in progress",
			},
		})
		return
	}
	defer h.mu.Unlock()

	result, err := h.runner.Run(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Triggered pipeline run failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "PIPELINE_RUN_FAILED",
				"message": "Pipeline run failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":   result.RunID,
		"contents": len(result.Dataset.Contents),
		"users":    len(result.Dataset.Users),
		"events":   len(result.Dataset.Events),
		"overall":  result.Bundle.Overall,
	})
}
