package analytics

import (
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/streamlens/pkg/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func floatPtr(v float64) *float64 { return &v }

func TestAggregationEngine_ContentPerformance(t *testing.T) {
	catalog := []models.Content{
		{ID: "c1", Genre: "Action", Type: models.ContentTypeMovie, ProductionCost: floatPtr(7200)},
		{ID: "c2", Genre: "Drama", Type: models.ContentTypeSeries},
	}
	population := []models.User{{ID: "u1", PreferredGenres: []string{"Action"}}}
	events := []models.ViewingEvent{
		{ID: "e1", ContentID: "c1", UserID: "u1", WatchDurationSeconds: 1800},
		{ID: "e2", ContentID: "c1", UserID: "u1", WatchDurationSeconds: 1800},
	}

	result, err := NewAggregationEngine(testLogger()).Aggregate(events, catalog, population)
	require.NoError(t, err)

	// c2 has no events and must be absent, not emitted with zero stats.
	require.Len(t, result.ContentPerformance, 1)

	rec := result.ContentPerformance[0]
	assert.Equal(t, "c1", rec.ContentID)
	assert.Equal(t, 2, rec.EventCount)
	assert.Equal(t, int64(3600), rec.WatchDurationSum)
	assert.InDelta(t, 1.0, rec.TotalWatchHours, 1e-9)
	assert.InDelta(t, 7200.0, rec.CostPerHour, 1e-9)

	// Round trip: summed seconds equal reported hours times 3600.
	assert.InDelta(t, float64(rec.WatchDurationSum), rec.TotalWatchHours*3600, 1e-6)
}

func TestAggregationEngine_ReferentialViolationIsFatal(t *testing.T) {
	catalog := []models.Content{{ID: "c1"}}
	population := []models.User{{ID: "u1"}}
	engine := NewAggregationEngine(testLogger())

	_, err := engine.Aggregate([]models.ViewingEvent{
		{ID: "e1", ContentID: "ghost", UserID: "u1"},
	}, catalog, population)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown content")

	_, err = engine.Aggregate([]models.ViewingEvent{
		{ID: "e1", ContentID: "c1", UserID: "ghost"},
	}, catalog, population)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown user")
}

func TestAggregationEngine_MissingCostReportsNaN(t *testing.T) {
	catalog := []models.Content{{ID: "c1"}}
	population := []models.User{{ID: "u1"}}
	events := []models.ViewingEvent{{ID: "e1", ContentID: "c1", UserID: "u1", WatchDurationSeconds: 3600}}

	result, err := NewAggregationEngine(testLogger()).Aggregate(events, catalog, population)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(result.ContentPerformance[0].CostPerHour))
}

func TestAggregationEngine_ZeroWatchHoursReportsNaN(t *testing.T) {
	catalog := []models.Content{{ID: "c1", ProductionCost: floatPtr(100)}}
	population := []models.User{{ID: "u1"}}
	events := []models.ViewingEvent{{ID: "e1", ContentID: "c1", UserID: "u1", WatchDurationSeconds: 0}}

	result, err := NewAggregationEngine(testLogger()).Aggregate(events, catalog, population)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(result.ContentPerformance[0].CostPerHour))
}

func TestAggregationEngine_DeviceQualityScore(t *testing.T) {
	catalog := []models.Content{{ID: "c1"}}
	population := []models.User{{ID: "u1"}}
	events := []models.ViewingEvent{
		{ID: "e1", ContentID: "c1", UserID: "u1", DeviceType: "smart_tv", QualityMetrics: models.QualityMetrics{
			AverageBitrate: 8000, StartupTimeSeconds: 1.0, FramesDroppedRatio: 0.0,
		}},
		{ID: "e2", ContentID: "c1", UserID: "u1", DeviceType: "mobile", QualityMetrics: models.QualityMetrics{
			AverageBitrate: 4000, StartupTimeSeconds: 4.0, FramesDroppedRatio: 0.01,
		}},
	}

	result, err := NewAggregationEngine(testLogger()).Aggregate(events, catalog, population)
	require.NoError(t, err)
	require.Len(t, result.DeviceQuality, 2)

	byDevice := map[string]models.DeviceQualityRecord{}
	for _, rec := range result.DeviceQuality {
		byDevice[rec.DeviceType] = rec
	}

	// The device holding the max mean bitrate earns the full 0.4 bitrate
	// term; the smart TV here also has zero frame drops and the best
	// startup, so its score decomposes exactly.
	tv := byDevice["smart_tv"]
	expectedTV := 0.3*(1-0.0) + 0.3*(1-1.0/4.0) + 0.4*1.0
	assert.InDelta(t, expectedTV, tv.QualityScore, 1e-9)

	mobile := byDevice["mobile"]
	expectedMobile := 0.3*(1-0.01) + 0.3*(1-4.0/4.0) + 0.4*(4000.0/8000.0)
	assert.InDelta(t, expectedMobile, mobile.QualityScore, 1e-9)
}

func TestAggregationEngine_UserBehavior(t *testing.T) {
	catalog := []models.Content{{ID: "c1"}}
	population := []models.User{{ID: "u1"}, {ID: "u2"}}
	events := []models.ViewingEvent{
		{ID: "e1", ContentID: "c1", UserID: "u1", WatchDurationSeconds: 600,
			EngagementSignals: models.EngagementSignals{EngagementScore: 0.8}},
		{ID: "e2", ContentID: "c1", UserID: "u1", WatchDurationSeconds: 1200,
			EngagementSignals: models.EngagementSignals{EngagementScore: 0.4}},
		{ID: "e3", ContentID: "c1", UserID: "u2", WatchDurationSeconds: 300,
			EngagementSignals: models.EngagementSignals{EngagementScore: 0.1}},
	}

	result, err := NewAggregationEngine(testLogger()).Aggregate(events, catalog, population)
	require.NoError(t, err)
	require.Len(t, result.UserBehavior, 2)

	u1 := result.UserBehavior[0]
	assert.Equal(t, "u1", u1.UserID)
	assert.Equal(t, 2, u1.EventCount)
	assert.InDelta(t, 900.0, u1.WatchDurationMean, 1e-9)
	assert.InDelta(t, 0.6, u1.MeanEngagementScore, 1e-9)
	assert.Equal(t, -1, u1.Segment)
}

func TestAggregationEngine_Idempotent(t *testing.T) {
	catalog := []models.Content{{ID: "c1", ProductionCost: floatPtr(500)}, {ID: "c2", ProductionCost: floatPtr(900)}}
	population := []models.User{{ID: "u1"}, {ID: "u2"}}
	events := []models.ViewingEvent{
		{ID: "e1", ContentID: "c1", UserID: "u1", WatchDurationSeconds: 100, DeviceType: "mobile"},
		{ID: "e2", ContentID: "c2", UserID: "u2", WatchDurationSeconds: 200, DeviceType: "desktop"},
		{ID: "e3", ContentID: "c1", UserID: "u2", WatchDurationSeconds: 300, DeviceType: "mobile"},
	}

	engine := NewAggregationEngine(testLogger())
	first, err := engine.Aggregate(events, catalog, population)
	require.NoError(t, err)
	second, err := engine.Aggregate(events, catalog, population)
	require.NoError(t, err)

	assert.Equal(t, first.ContentPerformance, second.ContentPerformance)
	assert.Equal(t, first.DeviceQuality, second.DeviceQuality)
	assert.Equal(t, first.UserBehavior, second.UserBehavior)
}
