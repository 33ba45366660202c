package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/temcen/streamlens/internal/config"
	"github.com/temcen/streamlens/pkg/models"
)

// ErrNoBundle is returned when no pipeline run has produced a bundle yet.
var ErrNoBundle = errors.New("no insights bundle available")

const (
	latestBundleKey = "insights:latest"
	bundleKeyFormat = "insights:bundle:%s"
)

// InsightsService stores the insights bundles produced by pipeline runs and
// serves them to the API. The latest bundle is kept in memory; Redis, when
// configured, carries per-run bundles and survives restarts.
type InsightsService struct {
	logger      *logrus.Logger
	redisClient *redis.Client
	ttl         time.Duration

	mu          sync.RWMutex
	latest      *models.InsightsBundle
	latestRunID string
}

func NewInsightsService(cfg *config.Config, logger *logrus.Logger, redisClient *redis.Client) *InsightsService {
	return &InsightsService{
		logger:      logger,
		redisClient: redisClient,
		ttl:         cfg.Redis.BundleTTL,
	}
}

// StoreBundle records a run's bundle as the latest and caches it in Redis
// under both the run key and the latest key.
func (s *InsightsService) StoreBundle(ctx context.Context, runID string, bundle models.InsightsBundle) error {
	s.mu.Lock()
	s.latest = &bundle
	s.latestRunID = runID
	s.mu.Unlock()

	if s.redisClient == nil {
		return nil
	}

	payload, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("failed to encode insights bundle: %w", err)
	}

	pipe := s.redisClient.Pipeline()
	pipe.Set(ctx, fmt.Sprintf(bundleKeyFormat, runID), payload, s.ttl)
	pipe.Set(ctx, latestBundleKey, payload, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache insights bundle: %w", err)
	}

	s.logger.WithField("run_id", runID).Info("Insights bundle cached")
	return nil
}

// LatestBundle returns the most recent bundle, falling back to the Redis
// cache when this process has not produced one itself.
func (s *InsightsService) LatestBundle(ctx context.Context) (*models.InsightsBundle, error) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()
	if latest != nil {
		return latest, nil
	}

	if s.redisClient == nil {
		return nil, ErrNoBundle
	}

	payload, err := s.redisClient.Get(ctx, latestBundleKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoBundle
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached bundle: %w", err)
	}

	var bundle models.InsightsBundle
	if err := json.Unmarshal(payload, &bundle); err != nil {
		return nil, fmt.Errorf("failed to decode cached bundle: %w", err)
	}
	return &bundle, nil
}

// BundleByRun returns the cached bundle of a specific run.
func (s *InsightsService) BundleByRun(ctx context.Context, runID string) (*models.InsightsBundle, error) {
	s.mu.RLock()
	if s.latest != nil && s.latestRunID == runID {
		defer s.mu.RUnlock()
		return s.latest, nil
	}
	s.mu.RUnlock()

	if s.redisClient == nil {
		return nil, ErrNoBundle
	}

	payload, err := s.redisClient.Get(ctx, fmt.Sprintf(bundleKeyFormat, runID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoBundle
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached bundle: %w", err)
	}

	var bundle models.InsightsBundle
	if err := json.Unmarshal(payload, &bundle); err != nil {
		return nil, fmt.Errorf("failed to decode cached bundle: %w", err)
	}
	return &bundle, nil
}
