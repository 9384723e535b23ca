// Package bucket maps users onto experiment variants with a stable hash.
//
// Bucketing is a pure function: the same user, experiment, and weights always
// produce the same variant, across processes and restarts. That determinism is
// what makes assignments auditable and re-derivable, so nothing here may depend
// on call order, randomness, or map iteration order.
package bucket

import (
	"slices"

	"github.com/zeebo/xxh3"
)

// granularity resolves 1-in-10,000 buckets, enough for sub-percent splits.
const granularity = 10000

// Variant returns the variant for a user in an experiment, given variant
// weights. Weights need not sum to 1; the walk normalizes implicitly over the
// cumulative sum. Variants are walked in lexicographic name order, which fixes
// the iteration order Go maps do not provide.
//
// If rounding leaves the hashed value above the final cumulative sum, the last
// variant in order wins.
func Variant(userID, experimentName string, variants map[string]float64) string {
	if len(variants) == 0 {
		return ""
	}

	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	slices.Sort(names)

	value := hashToUnit(userID + ":" + experimentName)

	cumulative := 0.0
	for _, name := range names {
		cumulative += variants[name]
		if value <= cumulative {
			return name
		}
	}
	return names[len(names)-1]
}

// hashToUnit reduces a stable 64-bit hash of key to a value in [0, 1).
func hashToUnit(key string) float64 {
	h := xxh3.HashString(key)
	return float64(h%granularity) / float64(granularity)
}
