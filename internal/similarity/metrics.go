// Package similarity computes how alike two movies are, attribute by attribute,
// and combines the attribute scores into a weighted total.
//
// All functions are pure and safe for concurrent use.
package similarity

import (
	"math"
	"strings"
)

const (
	// SameEraTolerance is the largest year gap that still earns full year credit.
	SameEraTolerance = 5
	// YearDecaySpan is the gap, in years, at which year credit reaches zero.
	YearDecaySpan = 50
)

// SetSimilarity returns the Jaccard index of a and b after lowercasing and
// trimming every element. Blank elements are ignored, and an empty side
// scores 0.
func SetSimilarity(a, b []string) float64 {
	setA := normalizedSet(a)
	setB := normalizedSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for item := range setA {
		if _, ok := setB[item]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

// CategoricalEquality returns 1 when a and b are equal ignoring case and
// surrounding whitespace, else 0.
func CategoricalEquality(a, b string) float64 {
	if normalize(a) == normalize(b) {
		return 1.0
	}
	return 0.0
}

// YearProximity returns 1 for years within SameEraTolerance of each other,
// otherwise 1-gap/YearDecaySpan floored at 0.
func YearProximity(a, b int) float64 {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	if diff <= SameEraTolerance {
		return 1.0
	}
	return math.Max(0, 1-float64(diff)/YearDecaySpan)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizedSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		if n := normalize(item); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}
