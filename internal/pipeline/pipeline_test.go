package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/streamlens/internal/analytics"
	"github.com/temcen/streamlens/internal/config"
	"github.com/temcen/streamlens/pkg/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func testConfig() config.SimulationConfig {
	return config.SimulationConfig{
		Seed:         42,
		ContentCount: 30,
		UserCount:    120,
		EventCount:   600,
		WindowStart:  "2024-01-01",
		WindowDays:   60,
		SegmentCount: 5,
		Workers:      2,
	}
}

type recordingSinks struct {
	datasets   []*models.Dataset
	aggregates []*analytics.AggregationResult
	graphCalls int
	published  int
	bundles    map[string]models.InsightsBundle
	fail       error
}

func newRecordingSinks() *recordingSinks {
	return &recordingSinks{bundles: map[string]models.InsightsBundle{}}
}

func (s *recordingSinks) LoadDataset(_ context.Context, dataset *models.Dataset) error {
	if s.fail != nil {
		return s.fail
	}
	s.datasets = append(s.datasets, dataset)
	return nil
}

func (s *recordingSinks) LoadAggregates(_ context.Context, result *analytics.AggregationResult) error {
	s.aggregates = append(s.aggregates, result)
	return nil
}

func (s *recordingSinks) LoadViewingGraph(_ context.Context, _ []models.ViewingEvent) error {
	s.graphCalls++
	return nil
}

func (s *recordingSinks) PublishViewingEvents(_ context.Context, events []models.ViewingEvent) error {
	s.published += len(events)
	return nil
}

func (s *recordingSinks) StoreBundle(_ context.Context, runID string, bundle models.InsightsBundle) error {
	s.bundles[runID] = bundle
	return nil
}

type failingValidator struct{ err error }

func (v failingValidator) ValidateDataset(*models.Dataset) error { return v.err }

func newTestPipeline(cfg config.SimulationConfig) *Pipeline {
	return New(cfg, testLogger(), NewMetrics(prometheus.NewRegistry()))
}

func TestPipeline_Run(t *testing.T) {
	cfg := testConfig()
	sinks := newRecordingSinks()

	result, err := newTestPipeline(cfg).
		WithSinks(Sinks{Warehouse: sinks, Graph: sinks, Firehose: sinks, Cache: sinks}).
		Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Len(t, result.Dataset.Contents, cfg.ContentCount)
	assert.Len(t, result.Dataset.Users, cfg.UserCount)
	assert.Len(t, result.Dataset.Events, cfg.EventCount)

	for _, content := range result.Dataset.Contents {
		require.NotNil(t, content.ProductionCost)
		require.NotNil(t, content.MarketingBudget)
	}

	assert.Len(t, result.Aggregates.UserBehavior, len(uniqueUserIDs(result.Dataset.Events)))
	for _, rec := range result.Aggregates.UserBehavior {
		assert.GreaterOrEqual(t, rec.Segment, 0)
		assert.Less(t, rec.Segment, cfg.SegmentCount)
	}

	assert.Len(t, result.Bundle.HourlyPatterns, 24)
	assert.Len(t, result.Bundle.DailyPatterns, 7)
	assert.Equal(t, cfg.EventCount, result.Bundle.Overall.TotalEvents)

	require.Len(t, sinks.datasets, 1)
	assert.Same(t, result.Dataset, sinks.datasets[0])
	require.Len(t, sinks.aggregates, 1)
	assert.Equal(t, 1, sinks.graphCalls)
	assert.Equal(t, cfg.EventCount, sinks.published)
	assert.Contains(t, sinks.bundles, result.RunID)
}

func uniqueUserIDs(events []models.ViewingEvent) map[string]struct{} {
	ids := map[string]struct{}{}
	for _, event := range events {
		ids[event.UserID] = struct{}{}
	}
	return ids
}

func TestPipeline_DeterministicAcrossWorkerCounts(t *testing.T) {
	cfgSerial := testConfig()
	cfgSerial.Workers = 1
	cfgParallel := testConfig()
	cfgParallel.Workers = 8

	first, err := newTestPipeline(cfgSerial).Run(context.Background())
	require.NoError(t, err)
	second, err := newTestPipeline(cfgParallel).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Dataset, second.Dataset)
	assert.Equal(t, first.Aggregates, second.Aggregates)
	assert.Equal(t, first.Bundle.TopPerformingContent, second.Bundle.TopPerformingContent)
	assert.Equal(t, first.Bundle.UserSegments, second.Bundle.UserSegments)
}

func TestPipeline_SeedChangesDataset(t *testing.T) {
	cfg := testConfig()
	first, err := newTestPipeline(cfg).Run(context.Background())
	require.NoError(t, err)

	cfg.Seed = 7
	second, err := newTestPipeline(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.Dataset.Contents, second.Dataset.Contents)
	assert.NotEqual(t, first.Dataset.Events, second.Dataset.Events)
}

func TestPipeline_UsersJoinBeforeTheirEvents(t *testing.T) {
	result, err := newTestPipeline(testConfig()).Run(context.Background())
	require.NoError(t, err)

	joined := map[string]time.Time{}
	for _, user := range result.Dataset.Users {
		joined[user.ID] = user.JoinDate
	}

	windowCfg := testConfig()
	windowStart := windowCfg.WindowStartTime()
	for _, event := range result.Dataset.Events {
		joinDate, ok := joined[event.UserID]
		require.True(t, ok, "event %s references unknown user %s", event.ID, event.UserID)
		assert.False(t, event.Timestamp.Before(joinDate),
			"event %s at %s precedes join date %s of user %s",
			event.ID, event.Timestamp, joinDate, event.UserID)
		assert.False(t, joinDate.After(windowStart),
			"user %s joined %s, after the viewing window opened", event.UserID, joinDate)
	}
}

func TestStageSeed_DisjointStreams(t *testing.T) {
	offsets := []int64{
		catalogSeedOffset,
		populationSeedOffset,
		provisionSeedOffset,
		eventSeedOffset,
		segmentSeedOffset,
	}

	seen := map[int64]bool{}
	for _, offset := range offsets {
		for chunk := 0; chunk < 4; chunk++ {
			seed := stageSeed(42, offset, chunk)
			assert.False(t, seen[seed], "seed %d reused across stages", seed)
			seen[seed] = true
		}
	}
}

func TestPipeline_WithoutProvisioner(t *testing.T) {
	result, err := newTestPipeline(testConfig()).WithProvisioner(nil).Run(context.Background())
	require.NoError(t, err)

	for _, content := range result.Dataset.Contents {
		assert.Nil(t, content.ProductionCost)
		assert.Nil(t, content.MarketingBudget)
	}
	// Without costs every ratio is undefined, so nothing ranks as
	// cost-effective.
	assert.Empty(t, result.Bundle.CostEffectiveContent)
}

func TestPipeline_ValidatorFailureAbortsRun(t *testing.T) {
	sinks := newRecordingSinks()
	wantErr := errors.New("schema violation")

	_, err := newTestPipeline(testConfig()).
		WithValidator(failingValidator{err: wantErr}).
		WithSinks(Sinks{Warehouse: sinks}).
		Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
	assert.Empty(t, sinks.datasets)
}

func TestPipeline_SinkFailure(t *testing.T) {
	sinks := newRecordingSinks()
	sinks.fail = errors.New("connection refused")

	_, err := newTestPipeline(testConfig()).
		WithSinks(Sinks{Warehouse: sinks}).
		Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, sinks.fail)
}

func TestPipeline_Export(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	result, err := newTestPipeline(testConfig()).
		WithExporter(NewExporter(testLogger(), outDir)).
		Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)

	for _, name := range []string{"contents.json", "users.json", "viewing_events.json", "insights.json"} {
		info, err := os.Stat(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(2), name)
	}
}

func TestPipeline_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPipeline(testConfig()).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
