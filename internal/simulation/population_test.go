package simulation

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/streamlens/pkg/models"
)

func TestPopulationGenerator_Generate(t *testing.T) {
	joinCutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewPopulationGenerator(testLogger(), joinCutoff)
	population := g.Generate(rand.New(rand.NewSource(42)), 500)

	require.Len(t, population, 500)

	for _, user := range population {
		assert.Contains(t, Countries, user.Country)
		assert.Contains(t, AgeGroups, user.AgeGroup)
		assert.Contains(t, SubscriptionTypes, user.SubscriptionType)

		assert.GreaterOrEqual(t, len(user.PreferredGenres), 3)
		assert.LessOrEqual(t, len(user.PreferredGenres), 6)
		genreSeen := map[string]bool{}
		for _, genre := range user.PreferredGenres {
			assert.Contains(t, Genres, genre)
			assert.False(t, genreSeen[genre], "duplicate preferred genre %q for %s", genre, user.ID)
			genreSeen[genre] = true
		}

		require.NotEmpty(t, user.PreferredLanguages)
		for _, lang := range BaseLanguagesFor(user.Country) {
			assert.Contains(t, user.PreferredLanguages, lang,
				"user %s from %s missing base language %s", user.ID, user.Country, lang)
		}

		assert.Equal(t, models.MaxStreamQualityFor(user.SubscriptionType), user.MaxStreamQuality)
		assert.False(t, user.JoinDate.After(joinCutoff))
		assert.False(t, user.JoinDate.Before(joinCutoff.AddDate(0, 0, -730)))
	}
}

func TestPopulationGenerator_Deterministic(t *testing.T) {
	joinCutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewPopulationGenerator(testLogger(), joinCutoff)

	first := g.Generate(rand.New(rand.NewSource(7)), 100)
	second := g.Generate(rand.New(rand.NewSource(7)), 100)

	assert.Equal(t, first, second)
}

func TestPopulationGenerator_AgeConditionedSubscriptions(t *testing.T) {
	// Young cohorts get a tripled student weight; over a large sample the
	// student share should sit well above the base 5%.
	joinCutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewPopulationGenerator(testLogger(), joinCutoff)
	r := rand.New(rand.NewSource(13))

	students := 0
	const n = 5000
	for i := 0; i < n; i++ {
		if g.subscriptionFor(r, "18-24") == models.SubscriptionStudent {
			students++
		}
	}

	share := float64(students) / n
	assert.Greater(t, share, 0.10)
	assert.Less(t, share, 0.20)
}

func TestMaxStreamQualityFor(t *testing.T) {
	tests := []struct {
		subscription string
		expected     string
	}{
		{models.SubscriptionPremium, models.StreamQuality4K},
		{models.SubscriptionStandard, models.StreamQualityHD},
		{models.SubscriptionFamily, models.StreamQualityHD},
		{models.SubscriptionBasic, models.StreamQualitySD},
		{models.SubscriptionStudent, models.StreamQualitySD},
	}

	for _, tt := range tests {
		t.Run(tt.subscription, func(t *testing.T) {
			assert.Equal(t, tt.expected, models.MaxStreamQualityFor(tt.subscription))
		})
	}
}
