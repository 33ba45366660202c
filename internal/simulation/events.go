package simulation

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/temcen/streamlens/pkg/models"
)

var (
	ErrEmptyCatalog    = errors.New("event generation requires a non-empty catalog")
	ErrEmptyPopulation = errors.New("event generation requires a non-empty population")
)

// qualityTier bounds the quality metric draws for one (connection,
// subscription) class. The tiering is the core correlation rule of the
// simulator: network and plan reality determine the experienced quality, and
// downstream device scoring depends on these exact ranges.
type qualityTier struct {
	name            string
	bufferingMin    int
	bufferingMax    int
	bandwidthMin    float64
	bandwidthMax    float64
	framesDroppedLo float64
	framesDroppedHi float64
	startupLo       float64
	startupHi       float64
}

var (
	tierExcellent = qualityTier{"excellent", 0, 2, 80, 200, 0.001, 0.005, 0.5, 2.0}
	tierStandard  = qualityTier{"standard", 1, 4, 15, 45, 0.002, 0.008, 1.5, 3.0}
	tierDegraded  = qualityTier{"degraded", 2, 7, 5, 15, 0.005, 0.015, 2.5, 4.0}
)

// Device weight vectors over DeviceTypes, conditioned on subscription tier.
// Living-room plans skew toward the smart TV.
var (
	deviceWeightsPremium = []float64{3, 1, 1, 2, 2, 2}
	deviceWeightsDefault = []float64{2, 2, 2, 1, 2, 1}
)

// Connection weight vectors over ConnectionTypes, conditioned on device
// class. Stationary devices prefer wifi/ethernet; handhelds never see
// ethernet and lean on cellular.
var (
	connWeightsStationary = []float64{5, 3, 0, 1, 0}
	connWeightsMobile     = []float64{3, 0, 2, 2, 1}
)

// EventGenerator produces the synthetic viewing-event log against a
// completed catalog and population. It must not run concurrently with their
// construction; it reads both as immutable snapshots.
type EventGenerator struct {
	logger      *logrus.Logger
	windowStart time.Time
	windowDays  int
}

func NewEventGenerator(logger *logrus.Logger, windowStart time.Time, windowDays int) *EventGenerator {
	return &EventGenerator{
		logger:      logger,
		windowStart: windowStart,
		windowDays:  windowDays,
	}
}

// Generate builds count viewing events. Every event references a user picked
// uniformly from the population and a content item drawn from the user's
// preference-matched candidate set, so referential closure over the inputs
// holds by construction.
func (g *EventGenerator) Generate(r *rand.Rand, catalog []models.Content, population []models.User, count int) ([]models.ViewingEvent, error) {
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}
	if len(population) == 0 {
		return nil, ErrEmptyPopulation
	}

	events := make([]models.ViewingEvent, 0, count)
	for i := 0; i < count; i++ {
		events = append(events, g.generateOne(r, catalog, population, i+1))
	}

	g.logger.WithFields(logrus.Fields{
		"events":     len(events),
		"catalog":    len(catalog),
		"population": len(population),
	}).Info("Viewing event generation complete")

	return events, nil
}

func (g *EventGenerator) generateOne(r *rand.Rand, catalog []models.Content, population []models.User, seq int) models.ViewingEvent {
	user := population[r.Intn(len(population))]
	content := g.pickContent(r, catalog, user)

	device := g.pickDevice(r, user)
	connection := g.pickConnection(r, device)
	tier := tierFor(connection, user.SubscriptionType)

	completion, engagement := g.engagementFor(r, content, user)

	var rating *int
	if v := r.Intn(6); v > 0 {
		rating = &v
	}

	return models.ViewingEvent{
		ID:                   fmt.Sprintf("evt-%06d", seq),
		Timestamp:            g.timestamp(r),
		EventType:            choice(r, EventTypes),
		ContentID:            content.ID,
		UserID:               user.ID,
		DeviceType:           device,
		WatchDurationSeconds: intBetween(r, 300, 7200),
		SessionID:            fmt.Sprintf("sess-%06d", seq),
		QualityMetrics: models.QualityMetrics{
			BufferingEvents:    intBetween(r, tier.bufferingMin, tier.bufferingMax),
			AverageBitrate:     intBetween(r, 2000, 8000),
			PlaybackQuality:    choice(r, PlaybackQualities),
			ConnectionType:     connection,
			BandwidthMbps:      floatBetween(r, tier.bandwidthMin, tier.bandwidthMax),
			StartupTimeSeconds: floatBetween(r, tier.startupLo, tier.startupHi),
			FramesDroppedRatio: floatBetween(r, tier.framesDroppedLo, tier.framesDroppedHi),
			AudioQualityScore:  floatBetween(r, 0.8, 1.0),
		},
		UserInteraction: models.UserInteraction{
			RewindCount:     intBetween(r, 0, 5),
			ForwardCount:    intBetween(r, 0, 5),
			PauseCount:      intBetween(r, 0, 8),
			QualityChanges:  intBetween(r, 0, 3),
			SubtitleChanges: intBetween(r, 0, 2),
			VolumeChanges:   intBetween(r, 0, 5),
		},
		RecommendationData: models.RecommendationData{
			AlgorithmType:          choice(r, AlgorithmTypes),
			RecommendationScore:    floatBetween(r, 0.1, 1.0),
			PositionInList:         intBetween(r, 1, 20),
			RecommendationCategory: choice(r, RecommendationCategories),
		},
		EngagementSignals: models.EngagementSignals{
			CompletionRate:  completion,
			EngagementScore: engagement,
			SocialSharing:   r.Intn(2) == 0,
			RatingGiven:     rating,
		},
	}
}

// pickContent draws uniformly from the catalog subset matching the user's
// genre or language preferences, falling back to the full catalog when the
// subset is empty.
func (g *EventGenerator) pickContent(r *rand.Rand, catalog []models.Content, user models.User) models.Content {
	candidates := make([]models.Content, 0, len(catalog))
	for _, content := range catalog {
		if contains(user.PreferredGenres, content.Genre) || contains(user.PreferredLanguages, content.Language) {
			candidates = append(candidates, content)
		}
	}
	if len(candidates) == 0 {
		candidates = catalog
	}
	return candidates[r.Intn(len(candidates))]
}

func (g *EventGenerator) pickDevice(r *rand.Rand, user models.User) string {
	weights := deviceWeightsDefault
	if user.SubscriptionType == models.SubscriptionPremium || user.SubscriptionType == models.SubscriptionFamily {
		weights = deviceWeightsPremium
	}
	return weightedChoice(r, DeviceTypes, weights)
}

func (g *EventGenerator) pickConnection(r *rand.Rand, device string) string {
	weights := connWeightsMobile
	if device == "smart_tv" || device == "desktop" {
		weights = connWeightsStationary
	}
	return weightedChoice(r, ConnectionTypes, weights)
}

// tierFor maps (connection, subscription) to a quality tier. All metrics of
// one event come from a single tier; good and degraded regimes are never
// mixed within an event.
func tierFor(connection, subscription string) qualityTier {
	premiumPlan := subscription == models.SubscriptionPremium || subscription == models.SubscriptionFamily
	fastLink := connection == "ethernet" || connection == "5G"

	switch {
	case fastLink && premiumPlan:
		return tierExcellent
	case connection == "4G" || subscription == models.SubscriptionStandard:
		return tierStandard
	default:
		return tierDegraded
	}
}

// engagementFor derives completion rate and engagement score: independent
// uniform bases, boosted multiplicatively for genre match (x1.2), language
// match (x1.1) and premium-class plans (engagement only, x1.1), then clamped
// into [0, 1] as the final step.
func (g *EventGenerator) engagementFor(r *rand.Rand, content models.Content, user models.User) (completion, engagement float64) {
	completion = floatBetween(r, 0.1, 1.0)
	engagement = floatBetween(r, 0.1, 0.95)

	if contains(user.PreferredGenres, content.Genre) {
		completion *= 1.2
		engagement *= 1.2
	}
	if contains(user.PreferredLanguages, content.Language) {
		completion *= 1.1
		engagement *= 1.1
	}
	if user.SubscriptionType == models.SubscriptionPremium || user.SubscriptionType == models.SubscriptionFamily {
		engagement *= 1.1
	}

	return clamp01(completion), clamp01(engagement)
}

func (g *EventGenerator) timestamp(r *rand.Rand) time.Time {
	return g.windowStart.Add(
		time.Duration(intBetween(r, 0, g.windowDays))*24*time.Hour +
			time.Duration(intBetween(r, 0, 23))*time.Hour +
			time.Duration(intBetween(r, 0, 59))*time.Minute)
}
