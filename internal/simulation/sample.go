package simulation

import "math/rand"

// Sampling primitives shared by the generators. Every draw goes through an
// injected *rand.Rand so a run is fully reproducible from its seed; nothing
// in this package touches the global random state.

func choice(r *rand.Rand, items []string) string {
	return items[r.Intn(len(items))]
}

// intBetween draws uniformly from the inclusive range [lo, hi].
func intBetween(r *rand.Rand, lo, hi int) int {
	return lo + r.Intn(hi-lo+1)
}

func floatBetween(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// weightedChoice draws one item with probability proportional to its weight.
// A degenerate weight vector (all zero or negative) falls back to a uniform
// draw instead of failing; single-element domains are returned directly.
func weightedChoice(r *rand.Rand, items []string, weights []float64) string {
	if len(items) == 1 {
		return items[0]
	}

	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return choice(r, items)
	}

	target := r.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		target -= w
		if target < 0 {
			return items[i]
		}
	}
	return items[len(items)-1]
}

// sampleWithoutReplacement draws k distinct items uniformly. k is clamped to
// the domain size.
func sampleWithoutReplacement(r *rand.Rand, items []string, k int) []string {
	if k > len(items) {
		k = len(items)
	}

	pool := make([]string, len(items))
	copy(pool, items)

	result := make([]string, 0, k)
	for i := 0; i < k; i++ {
		j := r.Intn(len(pool))
		result = append(result, pool[j])
		pool[j] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}
	return result
}

// weightedSampleWithoutReplacement draws k distinct items by iterative
// weight-proportional removal: each round picks one item with probability
// proportional to its remaining weight, then removes it and renormalizes.
// The algorithm is pinned here because the exact distribution feeds into
// reproducible downstream engagement numbers. Degenerate weights (all zero)
// degrade to uniform draws; duplicates are impossible by construction.
func weightedSampleWithoutReplacement(r *rand.Rand, items []string, weights []float64, k int) []string {
	if k > len(items) {
		k = len(items)
	}

	pool := make([]string, len(items))
	copy(pool, items)
	poolWeights := make([]float64, len(weights))
	copy(poolWeights, weights)

	result := make([]string, 0, k)
	for i := 0; i < k; i++ {
		picked := weightedChoice(r, pool, poolWeights)
		result = append(result, picked)

		for j, item := range pool {
			if item == picked {
				pool[j] = pool[len(pool)-1]
				pool = pool[:len(pool)-1]
				poolWeights[j] = poolWeights[len(poolWeights)-1]
				poolWeights = poolWeights[:len(poolWeights)-1]
				break
			}
		}
	}
	return result
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
