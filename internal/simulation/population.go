package simulation

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/temcen/streamlens/pkg/models"
)

// PopulationGenerator produces synthetic user populations. Country and age
// group are uniform; the subscription tier is drawn from an age-conditioned
// weight table, language preferences follow the user's country, and genre
// preferences are an age-weighted sample without replacement.
type PopulationGenerator struct {
	logger *logrus.Logger

	// joinCutoff bounds join dates: users joined within the 730 days
	// preceding it, so the whole population exists before the viewing
	// window opens.
	joinCutoff time.Time
}

func NewPopulationGenerator(logger *logrus.Logger, joinCutoff time.Time) *PopulationGenerator {
	return &PopulationGenerator{
		logger:     logger,
		joinCutoff: joinCutoff,
	}
}

// Generate builds n users using the supplied random source.
func (g *PopulationGenerator) Generate(r *rand.Rand, n int) []models.User {
	return g.GenerateBatch(r, 0, n)
}

// GenerateBatch builds count users whose IDs start at offset.
func (g *PopulationGenerator) GenerateBatch(r *rand.Rand, offset, count int) []models.User {
	population := make([]models.User, 0, count)

	for i := 0; i < count; i++ {
		country := choice(r, Countries)
		ageGroup := choice(r, AgeGroups)
		subscription := g.subscriptionFor(r, ageGroup)

		population = append(population, models.User{
			ID:                 fmt.Sprintf("user-%04d", offset+i+1),
			Country:            country,
			SubscriptionType:   subscription,
			AgeGroup:           ageGroup,
			JoinDate:           g.joinCutoff.AddDate(0, 0, -intBetween(r, 0, 730)),
			PreferredGenres:    g.preferredGenres(r, ageGroup),
			PreferredLanguages: g.preferredLanguages(r, country),
			HasProfilePIN:      r.Intn(2) == 0,
			MaxStreamQuality:   models.MaxStreamQualityFor(subscription),
		})
	}

	g.logger.WithFields(logrus.Fields{
		"offset": offset,
		"count":  count,
	}).Debug("Generated population batch")

	return population
}

// subscriptionFor draws a subscription tier from the base weight table with
// age-conditioned adjustments: young adults skew toward student and premium
// plans, mid-age buckets toward family and basic.
func (g *PopulationGenerator) subscriptionFor(r *rand.Rand, ageGroup string) string {
	weights := make(map[string]float64, len(baseSubscriptionWeights))
	for tier, w := range baseSubscriptionWeights {
		weights[tier] = w
	}

	switch ageGroup {
	case "18-24", "25-34":
		weights["student"] = 0.15
		weights["premium"] = 0.15
	case "35-44", "45-54":
		weights["family"] = 0.20
		weights["basic"] = 0.20
	}

	weightVec := make([]float64, len(SubscriptionTypes))
	for i, tier := range SubscriptionTypes {
		weightVec[i] = weights[tier]
	}
	return weightedChoice(r, SubscriptionTypes, weightVec)
}

// preferredLanguages is the country's base language set plus up to two extra
// languages sampled from the remainder. The base languages always survive,
// so the set is never empty.
func (g *PopulationGenerator) preferredLanguages(r *rand.Rand, country string) []string {
	base := BaseLanguagesFor(country)

	remaining := make([]string, 0, len(Languages))
	for _, lang := range Languages {
		if !contains(base, lang) {
			remaining = append(remaining, lang)
		}
	}

	preferred := make([]string, len(base))
	copy(preferred, base)
	return append(preferred, sampleWithoutReplacement(r, remaining, intBetween(r, 0, 2))...)
}

// preferredGenres samples 3-6 genres without replacement, weighting each
// genre by a fresh random base weight times an age multiplier. Younger
// viewers lean toward action, sci-fi and animation; the 25-44 buckets toward
// drama, thriller and comedy.
func (g *PopulationGenerator) preferredGenres(r *rand.Rand, ageGroup string) []string {
	weights := make([]float64, len(Genres))
	for i, genre := range Genres {
		weights[i] = r.Float64() * genreAgeMultiplier(ageGroup, genre)
	}
	return weightedSampleWithoutReplacement(r, Genres, weights, intBetween(r, 3, 6))
}

func genreAgeMultiplier(ageGroup, genre string) float64 {
	switch ageGroup {
	case "13-17", "18-24":
		switch genre {
		case "Action", "Sci-Fi":
			return 1.5
		case "Animation":
			return 1.3
		}
	case "25-34", "35-44":
		switch genre {
		case "Drama":
			return 1.4
		case "Thriller", "Comedy":
			return 1.3
		}
	}
	return 1.0
}
