package analytics

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/temcen/streamlens/pkg/models"
)

const (
	// DefaultSegmentCount is the contract k for behavioral segmentation.
	DefaultSegmentCount = 5

	maxKMeansIterations = 100
)

var ErrNoUsers = errors.New("segmentation requires at least one user aggregate")

// Clusterer assigns each point a cluster label in [0, k). The segmentation
// engine only depends on this contract, so the k-means below can be swapped
// for another implementation without touching the aggregation pipeline.
type Clusterer interface {
	Cluster(r *rand.Rand, points [][]float64, k int) []int
}

// SegmentationEngine labels per-user aggregates with behavioral segments by
// clustering standardized [mean watch duration, mean engagement] feature
// vectors.
type SegmentationEngine struct {
	logger    *logrus.Logger
	clusterer Clusterer
	k         int
}

func NewSegmentationEngine(logger *logrus.Logger) *SegmentationEngine {
	return &SegmentationEngine{
		logger:    logger,
		clusterer: &KMeans{MaxIterations: maxKMeansIterations},
		k:         DefaultSegmentCount,
	}
}

// WithSegmentCount overrides the number of segments. Values below one keep
// the default.
func (e *SegmentationEngine) WithSegmentCount(k int) *SegmentationEngine {
	if k > 0 {
		e.k = k
	}
	return e
}

// Segment labels every input row with exactly one segment and returns the
// labeled rows plus per-segment profiles. Populations smaller than k are
// clustered with an effective k of the population size.
func (e *SegmentationEngine) Segment(r *rand.Rand, users []models.UserBehaviorRecord) ([]models.UserBehaviorRecord, []models.SegmentProfile, error) {
	if len(users) == 0 {
		return nil, nil, ErrNoUsers
	}

	k := e.k
	if len(users) < k {
		k = len(users)
		e.logger.WithFields(logrus.Fields{
			"users":       len(users),
			"effective_k": k,
		}).Warn("Population smaller than segment count, reducing k")
	}

	points := standardize(featureMatrix(users))
	labels := e.clusterer.Cluster(r, points, k)

	labeled := make([]models.UserBehaviorRecord, len(users))
	copy(labeled, users)
	for i := range labeled {
		labeled[i].Segment = labels[i]
	}

	return labeled, segmentProfiles(labeled, k), nil
}

func featureMatrix(users []models.UserBehaviorRecord) [][]float64 {
	points := make([][]float64, len(users))
	for i, user := range users {
		points[i] = []float64{user.WatchDurationMean, user.MeanEngagementScore}
	}
	return points
}

// standardize rescales each feature column to zero mean and unit variance
// (population standard deviation). A zero-variance column maps to all zeros.
func standardize(points [][]float64) [][]float64 {
	if len(points) == 0 {
		return points
	}
	dims := len(points[0])

	scaled := make([][]float64, len(points))
	for i := range scaled {
		scaled[i] = make([]float64, dims)
	}

	column := make([]float64, len(points))
	for d := 0; d < dims; d++ {
		for i := range points {
			column[i] = points[i][d]
		}
		mean := stat.Mean(column, nil)
		std := math.Sqrt(stat.PopVariance(column, nil))

		for i := range points {
			if std > 0 {
				scaled[i][d] = (points[i][d] - mean) / std
			}
		}
	}
	return scaled
}

func segmentProfiles(users []models.UserBehaviorRecord, k int) []models.SegmentProfile {
	profiles := make([]models.SegmentProfile, k)
	for segment := range profiles {
		profiles[segment].Segment = segment
	}

	for _, user := range users {
		p := &profiles[user.Segment]
		p.UserCount++
		p.WatchDurationMean += user.WatchDurationMean
		p.MeanEngagementScore += user.MeanEngagementScore
	}
	for i := range profiles {
		if profiles[i].UserCount > 0 {
			n := float64(profiles[i].UserCount)
			profiles[i].WatchDurationMean /= n
			profiles[i].MeanEngagementScore /= n
		}
	}
	return profiles
}

// KMeans is a self-contained Lloyd's-iteration clusterer. Initial centroids
// are k distinct points picked through the injected source, so identical
// seeds and inputs reproduce identical labelings.
type KMeans struct {
	MaxIterations int
}

func (km *KMeans) Cluster(r *rand.Rand, points [][]float64, k int) []int {
	labels := make([]int, len(points))
	if k <= 1 || len(points) <= 1 {
		return labels
	}

	centroids := km.initialCentroids(r, points, k)

	for iter := 0; iter < km.MaxIterations; iter++ {
		changed := false
		for i, point := range points {
			nearest := nearestCentroid(point, centroids)
			if nearest != labels[i] {
				labels[i] = nearest
				changed = true
			}
		}

		changed = km.reseedEmptyClusters(points, centroids, labels, k) || changed
		if !changed && iter > 0 {
			break
		}

		recomputeCentroids(points, centroids, labels, k)
	}

	return labels
}

func (km *KMeans) initialCentroids(r *rand.Rand, points [][]float64, k int) [][]float64 {
	perm := r.Perm(len(points))
	centroids := make([][]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float64(nil), points[perm[i]]...)
	}
	return centroids
}

func nearestCentroid(point []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := floats.Distance(point, centroid, 2); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// reseedEmptyClusters moves the point farthest from its assigned centroid
// into each empty cluster, so every segment label ends up populated.
func (km *KMeans) reseedEmptyClusters(points [][]float64, centroids [][]float64, labels []int, k int) bool {
	counts := make([]int, k)
	for _, label := range labels {
		counts[label]++
	}

	reseeded := false
	for cluster := 0; cluster < k; cluster++ {
		if counts[cluster] > 0 {
			continue
		}

		farthest, farthestDist := -1, -1.0
		for i, point := range points {
			if counts[labels[i]] <= 1 {
				continue
			}
			if d := floats.Distance(point, centroids[labels[i]], 2); d > farthestDist {
				farthest, farthestDist = i, d
			}
		}
		if farthest < 0 {
			continue
		}

		counts[labels[farthest]]--
		labels[farthest] = cluster
		counts[cluster]++
		centroids[cluster] = append([]float64(nil), points[farthest]...)
		reseeded = true
	}
	return reseeded
}

func recomputeCentroids(points [][]float64, centroids [][]float64, labels []int, k int) {
	dims := len(points[0])
	sums := make([][]float64, k)
	counts := make([]int, k)
	for i := range sums {
		sums[i] = make([]float64, dims)
	}

	for i, point := range points {
		floats.Add(sums[labels[i]], point)
		counts[labels[i]]++
	}

	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			continue
		}
		floats.Scale(1/float64(counts[c]), sums[c])
		centroids[c] = sums[c]
	}
}

// DistinctSegments reports the sorted set of labels present in a labeled
// table. Used by reporting and tests.
func DistinctSegments(users []models.UserBehaviorRecord) []int {
	seen := map[int]bool{}
	for _, user := range users {
		seen[user.Segment] = true
	}
	segments := make([]int, 0, len(seen))
	for segment := range seen {
		segments = append(segments, segment)
	}
	sort.Ints(segments)
	return segments
}
