package warehouse

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sirupsen/logrus"

	"github.com/temcen/streamlens/pkg/models"
)

// graphBatchSize bounds the UNWIND payload of a single write transaction.
const graphBatchSize = 1000

// GraphSink materializes viewing events as a User-WATCHED->Content graph.
type GraphSink struct {
	driver neo4j.DriverWithContext
	logger *logrus.Logger
}

func NewGraphSink(driver neo4j.DriverWithContext, logger *logrus.Logger) *GraphSink {
	return &GraphSink{driver: driver, logger: logger}
}

// LoadViewingGraph merges one WATCHED relationship per viewing event.
// Re-running with the same events is idempotent.
func (g *GraphSink) LoadViewingGraph(ctx context.Context, events []models.ViewingEvent) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	cypher := `
		UNWIND $events AS evt
		MERGE (u:User {id: evt.user_id})
		MERGE (c:Content {id: evt.content_id})
		MERGE (u)-[r:WATCHED {event_id: evt.event_id}]->(c)
		SET r.watch_duration_seconds = evt.watch_duration_seconds,
		    r.completion_rate = evt.completion_rate,
		    r.engagement_score = evt.engagement_score,
		    r.device_type = evt.device_type,
		    r.timestamp = evt.timestamp`

	for offset := 0; offset < len(events); offset += graphBatchSize {
		end := offset + graphBatchSize
		if end > len(events) {
			end = len(events)
		}

		batch := make([]map[string]any, 0, end-offset)
		for _, event := range events[offset:end] {
			batch = append(batch, map[string]any{
				"event_id":               event.ID,
				"user_id":                event.UserID,
				"content_id":             event.ContentID,
				"watch_duration_seconds": event.WatchDurationSeconds,
				"completion_rate":        event.EngagementSignals.CompletionRate,
				"engagement_score":       event.EngagementSignals.EngagementScore,
				"device_type":            event.DeviceType,
				"timestamp":              event.Timestamp,
			})
		}

		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			result, err := tx.Run(ctx, cypher, map[string]any{"events": batch})
			if err != nil {
				return nil, err
			}
			summary, err := result.Consume(ctx)
			if err != nil {
				return nil, err
			}
			return summary.Counters(), nil
		})
		if err != nil {
			return fmt.Errorf("failed to load viewing graph batch at offset %d: %w", offset, err)
		}
	}

	g.logger.WithField("events", len(events)).Info("Viewing graph loaded")
	return nil
}
