package analytics

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/streamlens/pkg/models"
)

func TestInsightsAssembler_Assemble(t *testing.T) {
	perf := make([]models.ContentPerformanceRecord, 0, 12)
	for i := 0; i < 12; i++ {
		perf = append(perf, models.ContentPerformanceRecord{
			ContentID:           fmt.Sprintf("content-%04d", i),
			EventCount:          10,
			TotalWatchHours:     5,
			MeanEngagementScore: float64(i) / 12,
			CostPerHour:         float64(100 - i),
		})
	}
	// A row with undefined cost must never rank among cost-effective content.
	perf[3].CostPerHour = math.NaN()

	segments := []models.SegmentProfile{{Segment: 0, UserCount: 4}}
	devices := []models.DeviceQualityRecord{
		{DeviceType: "mobile", QualityScore: 0.4},
		{DeviceType: "smart_tv", QualityScore: 0.9},
		{DeviceType: "tablet", QualityScore: 0.6},
	}
	hourly := make([]models.HourBucket, 24)
	daily := make([]models.WeekdayBucket, 7)

	bundle := NewInsightsAssembler(testLogger()).Assemble(42, perf, segments, hourly, daily, devices)

	assert.EqualValues(t, 42, bundle.Seed)
	assert.False(t, bundle.GeneratedAt.IsZero())
	assert.Equal(t, segments, bundle.UserSegments)
	assert.Len(t, bundle.HourlyPatterns, 24)
	assert.Len(t, bundle.DailyPatterns, 7)

	require.Len(t, bundle.TopPerformingContent, 10)
	assert.Equal(t, "content-0011", bundle.TopPerformingContent[0].ContentID)
	for i := 1; i < len(bundle.TopPerformingContent); i++ {
		assert.GreaterOrEqual(t,
			bundle.TopPerformingContent[i-1].MeanEngagementScore,
			bundle.TopPerformingContent[i].MeanEngagementScore)
	}

	require.Len(t, bundle.CostEffectiveContent, 10)
	assert.Equal(t, "content-0011", bundle.CostEffectiveContent[0].ContentID)
	for _, rec := range bundle.CostEffectiveContent {
		assert.NotEqual(t, "content-0003", rec.ContentID)
		assert.False(t, math.IsNaN(rec.CostPerHour))
	}
	for i := 1; i < len(bundle.CostEffectiveContent); i++ {
		assert.LessOrEqual(t,
			bundle.CostEffectiveContent[i-1].CostPerHour,
			bundle.CostEffectiveContent[i].CostPerHour)
	}

	require.Len(t, bundle.DevicePerformance, 3)
	assert.Equal(t, "smart_tv", bundle.DevicePerformance[0].DeviceType)
	assert.Equal(t, "tablet", bundle.DevicePerformance[1].DeviceType)
	assert.Equal(t, "mobile", bundle.DevicePerformance[2].DeviceType)

	assert.Equal(t, 120, bundle.Overall.TotalEvents)
	assert.InDelta(t, 60.0, bundle.Overall.TotalWatchHours, 1e-9)
}

func TestInsightsAssembler_RankingDoesNotMutateInput(t *testing.T) {
	perf := []models.ContentPerformanceRecord{
		{ContentID: "content-0000", MeanEngagementScore: 0.1, CostPerHour: 2},
		{ContentID: "content-0001", MeanEngagementScore: 0.9, CostPerHour: 1},
	}

	NewInsightsAssembler(testLogger()).Assemble(1, perf, nil, nil, nil, nil)

	assert.Equal(t, "content-0000", perf[0].ContentID)
	assert.Equal(t, "content-0001", perf[1].ContentID)
}

func TestOverallMetrics(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		overall := overallMetrics(nil)
		assert.Equal(t, 0, overall.TotalEvents)
		assert.Zero(t, overall.MeanEngagementScore)
		assert.True(t, math.IsNaN(overall.MeanCostPerHour))
	})

	t.Run("nan costs excluded from mean", func(t *testing.T) {
		overall := overallMetrics([]models.ContentPerformanceRecord{
			{EventCount: 1, TotalWatchHours: 2, MeanEngagementScore: 0.5, CostPerHour: 10},
			{EventCount: 3, TotalWatchHours: 4, MeanEngagementScore: 0.7, CostPerHour: math.NaN()},
			{EventCount: 2, TotalWatchHours: 1, MeanEngagementScore: 0.9, CostPerHour: 30},
		})
		assert.Equal(t, 6, overall.TotalEvents)
		assert.InDelta(t, 7.0, overall.TotalWatchHours, 1e-9)
		assert.InDelta(t, 0.7, overall.MeanEngagementScore, 1e-9)
		assert.InDelta(t, 20.0, overall.MeanCostPerHour, 1e-9)
	})

	t.Run("all costs undefined", func(t *testing.T) {
		overall := overallMetrics([]models.ContentPerformanceRecord{
			{EventCount: 1, CostPerHour: math.NaN()},
		})
		assert.True(t, math.IsNaN(overall.MeanCostPerHour))
	})
}
