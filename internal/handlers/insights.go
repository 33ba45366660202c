package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/streamlens/internal/services"
)

// InsightsHandler serves the assembled insights bundles.
type InsightsHandler struct {
	logger          *logrus.Logger
	insightsService *services.InsightsService
}

func NewInsightsHandler(logger *logrus.Logger, insightsService *services.InsightsService) *InsightsHandler {
	return &InsightsHandler{
		logger:          logger,
		insightsService: insightsService,
	}
}

// GetBundle returns the complete latest bundle.
func (h *InsightsHandler) GetBundle(c *gin.Context) {
	bundle, err := h.insightsService.LatestBundle(c.Request.Context())
	if err != nil {
		h.respondBundleError(c, err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// GetBundleByRun returns the bundle of a specific pipeline run.
func (h *InsightsHandler) GetBundleByRun(c *gin.Context) {
	bundle, err := h.insightsService.BundleByRun(c.Request.Context(), c.Param("run_id"))
	if err != nil {
		h.respondBundleError(c, err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// GetTopContent returns the engagement and cost-effectiveness rankings.
func (h *InsightsHandler) GetTopContent(c *gin.Context) {
	bundle, err := h.insightsService.LatestBundle(c.Request.Context())
	if err != nil {
		h.respondBundleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"top_performing_content": bundle.TopPerformingContent,
		"cost_effective_content": bundle.CostEffectiveContent,
	})
}

// GetSegments returns the behavioral segment profiles.
func (h *InsightsHandler) GetSegments(c *gin.Context) {
	bundle, err := h.insightsService.LatestBundle(c.Request.Context())
	if err != nil {
		h.respondBundleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_segments": bundle.UserSegments})
}

// GetTemporalPatterns returns the hourly and weekday viewing histograms.
func (h *InsightsHandler) GetTemporalPatterns(c *gin.Context) {
	bundle, err := h.insightsService.LatestBundle(c.Request.Context())
	if err != nil {
		h.respondBundleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"hourly_patterns": bundle.HourlyPatterns,
		"daily_patterns":  bundle.DailyPatterns,
	})
}

// GetDevicePerformance returns the per-device quality ranking.
func (h *InsightsHandler) GetDevicePerformance(c *gin.Context) {
	bundle, err := h.insightsService.LatestBundle(c.Request.Context())
	if err != nil {
		h.respondBundleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"device_performance": bundle.DevicePerformance})
}

func (h *InsightsHandler) respondBundleError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNoBundle) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "NO_BUNDLE",
				"message": "No insights bundle available yet",
			},
		})
		return
	}

	h.logger.WithError(err).Error("Failed to load insights bundle")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    "BUNDLE_LOAD_FAILED",
			"message": "Failed to load insights bundle",
		},
	})
}
