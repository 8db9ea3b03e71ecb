// Package recommend ranks candidate movies against a user's selections and
// explains the winners.
package recommend

import (
	"errors"
	"fmt"
	"sort"

	"movie-recommender/internal/models"
	"movie-recommender/internal/similarity"
)

// MaxReferences is the most selections a ranking request may carry.
const MaxReferences = 3

var (
	ErrNoReferences      = errors.New("at least one movie is required for recommendation")
	ErrTooManyReferences = errors.New("maximum of 3 movies allowed for recommendation")
)

// ValidateReferences checks the reference-set cardinality contract.
func ValidateReferences(references []models.Movie) error {
	switch {
	case len(references) == 0:
		return ErrNoReferences
	case len(references) > MaxReferences:
		return fmt.Errorf("%w: got %d", ErrTooManyReferences, len(references))
	}
	return nil
}

// Rank scores and explains every candidate against references and returns
// them ordered by total score, highest first. Equal scores keep the
// candidates' input order.
//
// Candidates sharing an ID with a reference are skipped.
func Rank(candidates, references []models.Movie) ([]models.RecommendationResult, error) {
	if err := ValidateReferences(references); err != nil {
		return nil, err
	}

	refIDs := make(map[string]struct{}, len(references))
	for _, ref := range references {
		refIDs[ref.ID] = struct{}{}
	}

	results := make([]models.RecommendationResult, 0, len(candidates))
	for _, c := range candidates {
		if _, isRef := refIDs[c.ID]; isRef {
			continue
		}
		score := similarity.ScoreAgainstSet(c, references)
		results = append(results, models.RecommendationResult{
			Movie:       c,
			Score:       score,
			Explanation: Explain(c, references, score),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score.Total > results[j].Score.Total
	})

	return results, nil
}

// Top returns the best-ranked candidate. ok is false when there were no
// candidates to rank, which is not an error.
func Top(candidates, references []models.Movie) (best models.RecommendationResult, ok bool, err error) {
	ranked, err := Rank(candidates, references)
	if err != nil {
		return models.RecommendationResult{}, false, err
	}
	if len(ranked) == 0 {
		return models.RecommendationResult{}, false, nil
	}
	return ranked[0], true, nil
}

// TopN returns up to n best-ranked candidates.
func TopN(candidates, references []models.Movie, n int) ([]models.RecommendationResult, error) {
	ranked, err := Rank(candidates, references)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}
