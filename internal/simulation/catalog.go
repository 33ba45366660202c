package simulation

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/temcen/streamlens/pkg/models"
)

const tagsPerContent = 3

// CatalogGenerator produces synthetic content catalogs. Items are i.i.d.:
// every field is drawn independently from its domain, except duration, which
// is conditioned on the content type (episodes run 25-60 minutes, movies
// 85-180).
type CatalogGenerator struct {
	logger *logrus.Logger
	titler cases.Caser
}

func NewCatalogGenerator(logger *logrus.Logger) *CatalogGenerator {
	return &CatalogGenerator{
		logger: logger,
		titler: cases.Title(language.English),
	}
}

// Generate builds n content items using the supplied random source.
func (g *CatalogGenerator) Generate(r *rand.Rand, n int) []models.Content {
	return g.GenerateBatch(r, 0, n)
}

// GenerateBatch builds count content items whose IDs start at offset. Batches
// with disjoint offsets and independent sources can run concurrently and
// concatenate into the same catalog a single Generate call would produce
// chunk by chunk.
func (g *CatalogGenerator) GenerateBatch(r *rand.Rand, offset, count int) []models.Content {
	catalog := make([]models.Content, 0, count)

	for i := 0; i < count; i++ {
		contentType := choice(r, []string{models.ContentTypeMovie, models.ContentTypeSeries})

		duration := intBetween(r, 85, 180)
		if contentType == models.ContentTypeSeries {
			// Per-episode runtime.
			duration = intBetween(r, 25, 60)
		}

		genre := choice(r, Genres)
		seq := offset + i + 1

		catalog = append(catalog, models.Content{
			ID:              fmt.Sprintf("content-%04d", seq),
			Type:            contentType,
			Title:           g.title(r, genre, seq),
			Genre:           genre,
			ReleaseYear:     intBetween(r, 2020, 2024),
			DurationMinutes: duration,
			Language:        choice(r, Languages),
			Rating:          choice(r, Ratings),
			Tags:            sampleWithoutReplacement(r, ContentTags, tagsPerContent),
		})
	}

	g.logger.WithFields(logrus.Fields{
		"offset": offset,
		"count":  count,
	}).Debug("Generated catalog batch")

	return catalog
}

func (g *CatalogGenerator) title(r *rand.Rand, genre string, seq int) string {
	return fmt.Sprintf("The %s %s %d",
		g.titler.String(strings.ToLower(genre)), choice(r, titleNouns), seq)
}
