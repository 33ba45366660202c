package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/temcen/streamlens/pkg/models"
)

// AggregationResult bundles the three aggregate tables produced from one
// event log. UserBehavior rows leave the engine unsegmented (Segment == -1)
// and are labeled by the segmentation engine afterwards.
type AggregationResult struct {
	ContentPerformance []models.ContentPerformanceRecord
	DeviceQuality      []models.DeviceQualityRecord
	UserBehavior       []models.UserBehaviorRecord
}

// AggregationEngine reduces a viewing-event log, joined with its catalog,
// into per-content, per-device and per-user aggregate tables. All output
// tables are sorted by their group key so repeated runs over the same input
// serialize identically.
type AggregationEngine struct {
	logger *logrus.Logger
}

func NewAggregationEngine(logger *logrus.Logger) *AggregationEngine {
	return &AggregationEngine{logger: logger}
}

// Aggregate verifies referential closure and reduces the event log. An event
// referencing an unknown content or user id fails the whole run before any
// grouping happens: silently dropping the row on join would corrupt every
// per-content and per-user total.
func (e *AggregationEngine) Aggregate(events []models.ViewingEvent, catalog []models.Content, population []models.User) (*AggregationResult, error) {
	contentByID := make(map[string]models.Content, len(catalog))
	for _, content := range catalog {
		contentByID[content.ID] = content
	}
	userIDs := make(map[string]bool, len(population))
	for _, user := range population {
		userIDs[user.ID] = true
	}

	for _, event := range events {
		if _, ok := contentByID[event.ContentID]; !ok {
			return nil, fmt.Errorf("event %s references unknown content %s", event.ID, event.ContentID)
		}
		if !userIDs[event.UserID] {
			return nil, fmt.Errorf("event %s references unknown user %s", event.ID, event.UserID)
		}
	}

	result := &AggregationResult{
		ContentPerformance: e.aggregateContent(events, contentByID),
		DeviceQuality:      e.aggregateDevices(events),
		UserBehavior:       e.aggregateUsers(events),
	}

	e.logger.WithFields(logrus.Fields{
		"events":   len(events),
		"contents": len(result.ContentPerformance),
		"devices":  len(result.DeviceQuality),
		"users":    len(result.UserBehavior),
	}).Info("Aggregation complete")

	return result, nil
}

type contentAccumulator struct {
	count         int
	durationSum   int64
	bufferingSum  float64
	completionSum float64
	engagementSum float64
}

func (e *AggregationEngine) aggregateContent(events []models.ViewingEvent, contentByID map[string]models.Content) []models.ContentPerformanceRecord {
	groups := map[string]*contentAccumulator{}
	for _, event := range events {
		acc, ok := groups[event.ContentID]
		if !ok {
			acc = &contentAccumulator{}
			groups[event.ContentID] = acc
		}
		acc.count++
		acc.durationSum += int64(event.WatchDurationSeconds)
		acc.bufferingSum += float64(event.QualityMetrics.BufferingEvents)
		acc.completionSum += event.EngagementSignals.CompletionRate
		acc.engagementSum += event.EngagementSignals.EngagementScore
	}

	records := make([]models.ContentPerformanceRecord, 0, len(groups))
	for contentID, acc := range groups {
		content := contentByID[contentID]
		n := float64(acc.count)
		watchHours := float64(acc.durationSum) / 3600

		records = append(records, models.ContentPerformanceRecord{
			ContentID:           contentID,
			Type:                content.Type,
			Genre:               content.Genre,
			EventCount:          acc.count,
			WatchDurationSum:    acc.durationSum,
			WatchDurationMean:   float64(acc.durationSum) / n,
			MeanBufferingEvents: acc.bufferingSum / n,
			MeanCompletionRate:  acc.completionSum / n,
			MeanEngagementScore: acc.engagementSum / n,
			ProductionCost:      content.ProductionCost,
			MarketingBudget:     content.MarketingBudget,
			TotalWatchHours:     watchHours,
			CostPerHour:         costPerHour(content.ProductionCost, watchHours),
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].ContentID < records[j].ContentID
	})
	return records
}

// costPerHour reports NaN instead of raising when the cost field is absent
// or no watch time accumulated; NaN rows are skipped by ranked selections.
func costPerHour(productionCost *float64, watchHours float64) float64 {
	if productionCost == nil || watchHours == 0 {
		return math.NaN()
	}
	return *productionCost / watchHours
}

type deviceAccumulator struct {
	count            int
	bufferingSum     float64
	bitrateSum       float64
	bandwidthSum     float64
	startupSum       float64
	framesDroppedSum float64
	audioQualitySum  float64
}

// Quality score weights are fixed contract constants; changing them shifts
// every device comparison downstream.
const (
	qualityWeightFrames  = 0.3
	qualityWeightStartup = 0.3
	qualityWeightBitrate = 0.4
)

func (e *AggregationEngine) aggregateDevices(events []models.ViewingEvent) []models.DeviceQualityRecord {
	groups := map[string]*deviceAccumulator{}
	for _, event := range events {
		acc, ok := groups[event.DeviceType]
		if !ok {
			acc = &deviceAccumulator{}
			groups[event.DeviceType] = acc
		}
		qm := event.QualityMetrics
		acc.count++
		acc.bufferingSum += float64(qm.BufferingEvents)
		acc.bitrateSum += float64(qm.AverageBitrate)
		acc.bandwidthSum += qm.BandwidthMbps
		acc.startupSum += qm.StartupTimeSeconds
		acc.framesDroppedSum += qm.FramesDroppedRatio
		acc.audioQualitySum += qm.AudioQualityScore
	}

	records := make([]models.DeviceQualityRecord, 0, len(groups))
	for deviceType, acc := range groups {
		n := float64(acc.count)
		records = append(records, models.DeviceQualityRecord{
			DeviceType:             deviceType,
			EventCount:             acc.count,
			MeanBufferingEvents:    acc.bufferingSum / n,
			MeanBitrate:            acc.bitrateSum / n,
			MeanBandwidthMbps:      acc.bandwidthSum / n,
			MeanStartupTimeSeconds: acc.startupSum / n,
			MeanFramesDroppedRatio: acc.framesDroppedSum / n,
			MeanAudioQualityScore:  acc.audioQualitySum / n,
		})
	}

	// Startup and bitrate terms normalize against the extremes of this
	// grouped table, not per event.
	var maxStartup, maxBitrate float64
	for _, rec := range records {
		maxStartup = math.Max(maxStartup, rec.MeanStartupTimeSeconds)
		maxBitrate = math.Max(maxBitrate, rec.MeanBitrate)
	}

	for i := range records {
		startupRatio, bitrateRatio := 0.0, 0.0
		if maxStartup > 0 {
			startupRatio = records[i].MeanStartupTimeSeconds / maxStartup
		}
		if maxBitrate > 0 {
			bitrateRatio = records[i].MeanBitrate / maxBitrate
		}
		records[i].QualityScore = qualityWeightFrames*(1-records[i].MeanFramesDroppedRatio) +
			qualityWeightStartup*(1-startupRatio) +
			qualityWeightBitrate*bitrateRatio
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].DeviceType < records[j].DeviceType
	})
	return records
}

type userAccumulator struct {
	count         int
	durationSum   int64
	bufferingSum  float64
	engagementSum float64
}

func (e *AggregationEngine) aggregateUsers(events []models.ViewingEvent) []models.UserBehaviorRecord {
	groups := map[string]*userAccumulator{}
	for _, event := range events {
		acc, ok := groups[event.UserID]
		if !ok {
			acc = &userAccumulator{}
			groups[event.UserID] = acc
		}
		acc.count++
		acc.durationSum += int64(event.WatchDurationSeconds)
		acc.bufferingSum += float64(event.QualityMetrics.BufferingEvents)
		acc.engagementSum += event.EngagementSignals.EngagementScore
	}

	records := make([]models.UserBehaviorRecord, 0, len(groups))
	for userID, acc := range groups {
		n := float64(acc.count)
		records = append(records, models.UserBehaviorRecord{
			UserID:              userID,
			EventCount:          acc.count,
			WatchDurationSum:    acc.durationSum,
			WatchDurationMean:   float64(acc.durationSum) / n,
			MeanBufferingEvents: acc.bufferingSum / n,
			MeanEngagementScore: acc.engagementSum / n,
			Segment:             -1,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].UserID < records[j].UserID
	})
	return records
}
