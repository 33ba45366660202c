package simulation

import (
	"math/rand"
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

func TestCatalogGenerator_Generate(t *testing.T) {
	g := NewCatalogGenerator(testLogger())
	catalog := g.Generate(rand.New(rand.NewSource(42)), 200)

	require.Len(t, catalog, 200)

	seen := map[string]bool{}
	for _, content := range catalog {
		assert.False(t, seen[content.ID], "duplicate content id %s", content.ID)
		seen[content.ID] = true

		assert.Contains(t, []string{models.ContentTypeMovie, models.ContentTypeSeries}, content.Type)
		assert.Contains(t, Genres, content.Genre)
		assert.Contains(t, Languages, content.Language)
		assert.Contains(t, Ratings, content.Rating)
		assert.GreaterOrEqual(t, content.ReleaseYear, 2020)
		assert.LessOrEqual(t, content.ReleaseYear, 2024)
		assert.NotEmpty(t, content.Title)

		if content.Type == models.ContentTypeSeries {
			assert.GreaterOrEqual(t, content.DurationMinutes, 25)
			assert.LessOrEqual(t, content.DurationMinutes, 60)
		} else {
			assert.GreaterOrEqual(t, content.DurationMinutes, 85)
			assert.LessOrEqual(t, content.DurationMinutes, 180)
		}

		require.Len(t, content.Tags, 3)
		tagSeen := map[string]bool{}
		for _, tag := range content.Tags {
			assert.Contains(t, ContentTags, tag)
			assert.False(t, tagSeen[tag], "duplicate tag %q on %s", tag, content.ID)
			tagSeen[tag] = true
		}

		assert.Nil(t, content.ProductionCost)
	}
}

func TestCatalogGenerator_Deterministic(t *testing.T) {
	g := NewCatalogGenerator(testLogger())

	first := g.Generate(rand.New(rand.NewSource(99)), 50)
	second := g.Generate(rand.New(rand.NewSource(99)), 50)

	assert.Equal(t, first, second)
}

func TestCatalogGenerator_BatchOffsets(t *testing.T) {
	g := NewCatalogGenerator(testLogger())
	batch := g.GenerateBatch(rand.New(rand.NewSource(1)), 100, 3)

	require.Len(t, batch, 3)
	assert.Equal(t, "content-0101", batch[0].ID)
	assert.Equal(t, "content-0103", batch[2].ID)
}

func TestUniformCostProvisioner(t *testing.T) {
	g := NewCatalogGenerator(testLogger())
	catalog := g.Generate(rand.New(rand.NewSource(5)), 20)

	provisioned := NewUniformCostProvisioner().Provision(rand.New(rand.NewSource(6)), catalog)
	require.Len(t, provisioned, 20)
	for _, content := range provisioned {
		require.NotNil(t, content.ProductionCost)
		require.NotNil(t, content.MarketingBudget)
		assert.GreaterOrEqual(t, *content.ProductionCost, 1_000_000.0)
		assert.LessOrEqual(t, *content.ProductionCost, 50_000_000.0)
	}

	// Source catalog stays untouched.
	assert.Nil(t, catalog[0].ProductionCost)
}
