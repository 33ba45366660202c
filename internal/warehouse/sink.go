package warehouse

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/temcen/streamlens/internal/analytics"
	"github.com/temcen/streamlens/pkg/models"
)

// pgxPool is the subset of pgxpool.Pool the sink needs. pgxmock satisfies
// it in tests.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Sink bulk-loads generated datasets and aggregate tables into PostgreSQL.
// Every load replaces the previous snapshot.
type Sink struct {
	pool   pgxPool
	logger *logrus.Logger
}

func NewSink(pool pgxPool, logger *logrus.Logger) *Sink {
	return &Sink{pool: pool, logger: logger}
}

// EnsureSchema creates the tables and analytical views if they do not exist.
func (s *Sink) EnsureSchema(ctx context.Context) error {
	for _, ddl := range tableDDL {
		if _, err := s.pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	for _, ddl := range viewDDL {
		if _, err := s.pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create view: %w", err)
		}
	}
	s.logger.Info("Warehouse schema ensured")
	return nil
}

// LoadDataset replaces the contents, users and viewing_events tables with
// the given dataset.
func (s *Sink) LoadDataset(ctx context.Context, dataset *models.Dataset) error {
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, `TRUNCATE viewing_events, contents, users`); err != nil {
		return fmt.Errorf("failed to truncate dataset tables: %w", err)
	}

	if err := s.copyContents(ctx, dataset.Contents); err != nil {
		return err
	}
	if err := s.copyUsers(ctx, dataset.Users); err != nil {
		return err
	}
	if err := s.copyEvents(ctx, dataset.Events); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"contents": len(dataset.Contents),
		"users":    len(dataset.Users),
		"events":   len(dataset.Events),
	}).Info("Dataset loaded into warehouse")

	return nil
}

// LoadAggregates replaces the aggregate tables with the given result.
func (s *Sink) LoadAggregates(ctx context.Context, result *analytics.AggregationResult) error {
	if _, err := s.pool.Exec(ctx, `TRUNCATE content_performance, user_behavior, device_quality`); err != nil {
		return fmt.Errorf("failed to truncate aggregate tables: %w", err)
	}

	_, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"content_performance"},
		[]string{
			"content_id", "type", "genre", "event_count",
			"watch_duration_seconds_sum", "watch_duration_seconds_mean",
			"buffering_events_mean", "completion_rate_mean", "engagement_score_mean",
			"production_cost", "marketing_budget", "total_watch_hours", "cost_per_hour",
		},
		pgx.CopyFromSlice(len(result.ContentPerformance), func(i int) ([]any, error) {
			rec := result.ContentPerformance[i]
			return []any{
				rec.ContentID, rec.Type, rec.Genre, rec.EventCount,
				rec.WatchDurationSum, rec.WatchDurationMean,
				rec.MeanBufferingEvents, rec.MeanCompletionRate, rec.MeanEngagementScore,
				rec.ProductionCost, rec.MarketingBudget, rec.TotalWatchHours, rec.CostPerHour,
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("failed to load content_performance: %w", err)
	}

	_, err = s.pool.CopyFrom(ctx,
		pgx.Identifier{"user_behavior"},
		[]string{
			"user_id", "event_count", "watch_duration_seconds_sum",
			"watch_duration_seconds_mean", "buffering_events_mean",
			"engagement_score_mean", "user_segment",
		},
		pgx.CopyFromSlice(len(result.UserBehavior), func(i int) ([]any, error) {
			rec := result.UserBehavior[i]
			return []any{
				rec.UserID, rec.EventCount, rec.WatchDurationSum,
				rec.WatchDurationMean, rec.MeanBufferingEvents,
				rec.MeanEngagementScore, rec.Segment,
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("failed to load user_behavior: %w", err)
	}

	_, err = s.pool.CopyFrom(ctx,
		pgx.Identifier{"device_quality"},
		[]string{
			"device_type", "event_count", "buffering_events_mean",
			"average_bitrate_mean", "bandwidth_mbps_mean", "startup_time_seconds_mean",
			"frames_dropped_ratio_mean", "audio_quality_score_mean", "quality_score",
		},
		pgx.CopyFromSlice(len(result.DeviceQuality), func(i int) ([]any, error) {
			rec := result.DeviceQuality[i]
			return []any{
				rec.DeviceType, rec.EventCount, rec.MeanBufferingEvents,
				rec.MeanBitrate, rec.MeanBandwidthMbps, rec.MeanStartupTimeSeconds,
				rec.MeanFramesDroppedRatio, rec.MeanAudioQualityScore, rec.QualityScore,
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("failed to load device_quality: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"content_rows": len(result.ContentPerformance),
		"user_rows":    len(result.UserBehavior),
		"device_rows":  len(result.DeviceQuality),
	}).Info("Aggregates loaded into warehouse")

	return nil
}

func (s *Sink) copyContents(ctx context.Context, contents []models.Content) error {
	_, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"contents"},
		[]string{
			"content_id", "type", "title", "genre", "release_year",
			"duration_minutes", "language", "rating", "tags",
			"production_cost", "marketing_budget",
		},
		pgx.CopyFromSlice(len(contents), func(i int) ([]any, error) {
			c := contents[i]
			return []any{
				c.ID, c.Type, c.Title, c.Genre, c.ReleaseYear,
				c.DurationMinutes, c.Language, c.Rating, c.Tags,
				c.ProductionCost, c.MarketingBudget,
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("failed to load contents: %w", err)
	}
	return nil
}

func (s *Sink) copyUsers(ctx context.Context, users []models.User) error {
	_, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"users"},
		[]string{
			"user_id", "country", "subscription_type", "age_group", "join_date",
			"preferred_genres", "preferred_languages", "has_profile_pin",
			"max_stream_quality",
		},
		pgx.CopyFromSlice(len(users), func(i int) ([]any, error) {
			u := users[i]
			return []any{
				u.ID, u.Country, u.SubscriptionType, u.AgeGroup, u.JoinDate,
				u.PreferredGenres, u.PreferredLanguages, u.HasProfilePIN,
				u.MaxStreamQuality,
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}
	return nil
}

func (s *Sink) copyEvents(ctx context.Context, events []models.ViewingEvent) error {
	_, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"viewing_events"},
		[]string{
			"event_id", "timestamp", "event_type", "content_id", "user_id",
			"device_type", "watch_duration_seconds", "session_id",
			"quality_metrics", "user_interaction", "recommendation_data",
			"engagement_signals",
		},
		pgx.CopyFromSlice(len(events), func(i int) ([]any, error) {
			e := events[i]
			return []any{
				e.ID, e.Timestamp, e.EventType, e.ContentID, e.UserID,
				e.DeviceType, e.WatchDurationSeconds, e.SessionID,
				e.QualityMetrics, e.UserInteraction, e.RecommendationData,
				e.EngagementSignals,
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("failed to load viewing_events: %w", err)
	}
	return nil
}
