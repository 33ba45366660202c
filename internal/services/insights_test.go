package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/streamlens/internal/config"
	"github.com/temcen/streamlens/pkg/models"
)

func insightsConfig() *config.Config {
	return &config.Config{
		Redis: config.RedisConfig{BundleTTL: time.Hour},
	}
}

func testBundle(seed int64) models.InsightsBundle {
	return models.InsightsBundle{
		GeneratedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Seed:        seed,
		Overall:     models.OverallMetrics{TotalEvents: 100},
	}
}

func TestInsightsService_LatestBundle(t *testing.T) {
	service := NewInsightsService(insightsConfig(), testLogger(), nil)
	ctx := context.Background()

	_, err := service.LatestBundle(ctx)
	assert.ErrorIs(t, err, ErrNoBundle)

	require.NoError(t, service.StoreBundle(ctx, "run-1", testBundle(42)))

	bundle, err := service.LatestBundle(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 42, bundle.Seed)

	// A later run replaces the latest bundle.
	require.NoError(t, service.StoreBundle(ctx, "run-2", testBundle(7)))
	bundle, err = service.LatestBundle(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 7, bundle.Seed)
}

func TestInsightsService_BundleByRun(t *testing.T) {
	service := NewInsightsService(insightsConfig(), testLogger(), nil)
	ctx := context.Background()

	require.NoError(t, service.StoreBundle(ctx, "run-1", testBundle(42)))

	bundle, err := service.BundleByRun(ctx, "run-1")
	require.NoError(t, err)
	assert.EqualValues(t, 42, bundle.Seed)

	// Without Redis only the latest run is retained.
	_, err = service.BundleByRun(ctx, "run-0")
	assert.ErrorIs(t, err, ErrNoBundle)
}
