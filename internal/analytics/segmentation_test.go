package analytics

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/streamlens/pkg/models"
)

func behaviorFixture(n int) []models.UserBehaviorRecord {
	// Spread users over five well-separated behavior regimes so clustering
	// has real structure to find.
	users := make([]models.UserBehaviorRecord, 0, n)
	for i := 0; i < n; i++ {
		regime := i % 5
		users = append(users, models.UserBehaviorRecord{
			UserID:              fmt.Sprintf("user-%04d", i+1),
			EventCount:          regime + 1,
			WatchDurationMean:   float64(500 + regime*1500),
			MeanEngagementScore: 0.1 + float64(regime)*0.2,
			Segment:             -1,
		})
	}
	return users
}

func TestSegmentationEngine_Segment(t *testing.T) {
	engine := NewSegmentationEngine(testLogger())
	users := behaviorFixture(100)

	labeled, profiles, err := engine.Segment(rand.New(rand.NewSource(42)), users)
	require.NoError(t, err)
	require.Len(t, labeled, 100)
	require.Len(t, profiles, 5)

	for _, user := range labeled {
		assert.GreaterOrEqual(t, user.Segment, 0)
		assert.Less(t, user.Segment, 5)
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4}, DistinctSegments(labeled))

	userTotal := 0
	for _, profile := range profiles {
		assert.Greater(t, profile.UserCount, 0, "segment %d left empty", profile.Segment)
		userTotal += profile.UserCount
	}
	assert.Equal(t, 100, userTotal)

	// Input rows stay untouched.
	assert.Equal(t, -1, users[0].Segment)
}

func TestSegmentationEngine_Deterministic(t *testing.T) {
	engine := NewSegmentationEngine(testLogger())
	users := behaviorFixture(80)

	first, _, err := engine.Segment(rand.New(rand.NewSource(7)), users)
	require.NoError(t, err)
	second, _, err := engine.Segment(rand.New(rand.NewSource(7)), users)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSegmentationEngine_DegeneratePopulation(t *testing.T) {
	engine := NewSegmentationEngine(testLogger())
	users := behaviorFixture(3)

	labeled, profiles, err := engine.Segment(rand.New(rand.NewSource(1)), users)
	require.NoError(t, err)
	require.Len(t, labeled, 3)

	// Effective k drops to the population size and every reduced segment
	// is populated.
	require.Len(t, profiles, 3)
	assert.Equal(t, []int{0, 1, 2}, DistinctSegments(labeled))
}

func TestSegmentationEngine_NoUsers(t *testing.T) {
	engine := NewSegmentationEngine(testLogger())
	_, _, err := engine.Segment(rand.New(rand.NewSource(1)), nil)
	assert.ErrorIs(t, err, ErrNoUsers)
}

func TestSegmentationEngine_SingleUser(t *testing.T) {
	engine := NewSegmentationEngine(testLogger())
	labeled, profiles, err := engine.Segment(rand.New(rand.NewSource(1)), behaviorFixture(1))
	require.NoError(t, err)
	require.Len(t, labeled, 1)
	assert.Equal(t, 0, labeled[0].Segment)
	require.Len(t, profiles, 1)
	assert.Equal(t, 1, profiles[0].UserCount)
}

func TestStandardize(t *testing.T) {
	points := [][]float64{{1, 10}, {2, 10}, {3, 10}}
	scaled := standardize(points)

	// First column: mean 2, population std sqrt(2/3).
	assert.InDelta(t, 0.0, scaled[1][0], 1e-9)
	assert.InDelta(t, -scaled[2][0], scaled[0][0], 1e-9)

	// Zero-variance column standardizes to zeros instead of dividing by zero.
	for _, row := range scaled {
		assert.Equal(t, 0.0, row[1])
	}
}

func TestKMeans_IdenticalPoints(t *testing.T) {
	// Degenerate geometry must still terminate and label every point.
	km := &KMeans{MaxIterations: 50}
	points := [][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}, {1, 1}, {1, 1}}

	labels := km.Cluster(rand.New(rand.NewSource(3)), points, 5)
	require.Len(t, labels, 6)
	for _, label := range labels {
		assert.GreaterOrEqual(t, label, 0)
		assert.Less(t, label, 5)
	}
}
