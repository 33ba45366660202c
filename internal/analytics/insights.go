package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/temcen/streamlens/pkg/models"
)

const rankedSelectionSize = 10

// InsightsAssembler composes aggregate tables, segment profiles and temporal
// histograms into the final reportable bundle.
type InsightsAssembler struct {
	logger *logrus.Logger
}

func NewInsightsAssembler(logger *logrus.Logger) *InsightsAssembler {
	return &InsightsAssembler{logger: logger}
}

func (a *InsightsAssembler) Assemble(
	seed int64,
	contentPerf []models.ContentPerformanceRecord,
	segments []models.SegmentProfile,
	hourly []models.HourBucket,
	daily []models.WeekdayBucket,
	devices []models.DeviceQualityRecord,
) models.InsightsBundle {
	bundle := models.InsightsBundle{
		GeneratedAt:          time.Now().UTC(),
		Seed:                 seed,
		TopPerformingContent: topByEngagement(contentPerf, rankedSelectionSize),
		CostEffectiveContent: bottomByCostPerHour(contentPerf, rankedSelectionSize),
		UserSegments:         segments,
		HourlyPatterns:       hourly,
		DailyPatterns:        daily,
		DevicePerformance:    devicesByScore(devices),
		Overall:              overallMetrics(contentPerf),
	}

	a.logger.WithFields(logrus.Fields{
		"top_content":  len(bundle.TopPerformingContent),
		"segments":     len(bundle.UserSegments),
		"devices":      len(bundle.DevicePerformance),
		"total_events": bundle.Overall.TotalEvents,
	}).Info("Insights bundle assembled")

	return bundle
}

func topByEngagement(records []models.ContentPerformanceRecord, n int) []models.ContentPerformanceRecord {
	ranked := append([]models.ContentPerformanceRecord(nil), records...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MeanEngagementScore > ranked[j].MeanEngagementScore
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// bottomByCostPerHour ranks ascending by cost per hour. Rows without a
// defined ratio (NaN) are skipped rather than sorted to either end.
func bottomByCostPerHour(records []models.ContentPerformanceRecord, n int) []models.ContentPerformanceRecord {
	ranked := make([]models.ContentPerformanceRecord, 0, len(records))
	for _, rec := range records {
		if !math.IsNaN(rec.CostPerHour) {
			ranked = append(ranked, rec)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CostPerHour < ranked[j].CostPerHour
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func devicesByScore(devices []models.DeviceQualityRecord) []models.DeviceQualityRecord {
	ranked := append([]models.DeviceQualityRecord(nil), devices...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].QualityScore > ranked[j].QualityScore
	})
	return ranked
}

func overallMetrics(records []models.ContentPerformanceRecord) models.OverallMetrics {
	overall := models.OverallMetrics{MeanCostPerHour: math.NaN()}

	var engagementSum, costSum float64
	costCount := 0
	for _, rec := range records {
		overall.TotalEvents += rec.EventCount
		overall.TotalWatchHours += rec.TotalWatchHours
		engagementSum += rec.MeanEngagementScore
		if !math.IsNaN(rec.CostPerHour) {
			costSum += rec.CostPerHour
			costCount++
		}
	}
	if len(records) > 0 {
		overall.MeanEngagementScore = engagementSum / float64(len(records))
	}
	if costCount > 0 {
		overall.MeanCostPerHour = costSum / float64(costCount)
	}
	return overall
}
