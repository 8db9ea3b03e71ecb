package recommend

import (
	"fmt"
	"math"
	"strings"

	"movie-recommender/internal/models"
	"movie-recommender/internal/similarity"
)

// Thresholds a component score must exceed before its clause is included.
const (
	GenreClauseThreshold    = 0.5
	DirectorClauseThreshold = 0.0
	ActorClauseThreshold    = 0.3

	// MaxNamedInClause caps how many genres or actors a clause names.
	MaxNamedInClause = 2
)

// Explain builds a short human-readable rationale for recommending candidate
// given the references and the score it earned against them.
func Explain(candidate models.Movie, references []models.Movie, score models.SimilarityScore) string {
	var clauses []string

	if score.Genre > GenreClauseThreshold {
		shared := sharedWith(candidate.Genres, references, func(m models.Movie) []string { return m.Genres })
		if len(shared) > 0 {
			noun := "genre"
			if len(shared) > 1 {
				noun = "genres"
			}
			clauses = append(clauses, fmt.Sprintf("Shares %s %s", joinFirst(shared), noun))
		}
	}

	if score.Director > DirectorClauseThreshold {
		for _, ref := range references {
			if strings.EqualFold(strings.TrimSpace(ref.Director), strings.TrimSpace(candidate.Director)) {
				clauses = append(clauses, fmt.Sprintf("Same director as \"%s\" (%s)", ref.Title, candidate.Director))
				break
			}
		}
	}

	if score.Actor > ActorClauseThreshold {
		shared := sharedWith(candidate.Actors, references, func(m models.Movie) []string { return m.Actors })
		if len(shared) > 0 {
			clauses = append(clauses, "Features "+joinFirst(shared))
		}
	}

	if len(references) > 0 {
		if abs(candidate.Year-meanYear(references)) <= similarity.SameEraTolerance {
			clauses = append(clauses, fmt.Sprintf("Released around the same time (%d)", candidate.Year))
		}
	}

	pct := Percentage(score.Total)
	if len(clauses) == 0 {
		return fmt.Sprintf("This movie has a %d%% similarity match based on your selections.", pct)
	}
	return fmt.Sprintf("%s. Overall %d%% match.", strings.Join(clauses, ". "), pct)
}

// Percentage converts a [0,1] score to a whole percentage, rounding halves up.
func Percentage(total float64) int {
	return int(math.Floor(total*100 + 0.5))
}

// sharedWith returns the candidate's values, in their original order and
// casing, that appear case-insensitively in any reference's values.
func sharedWith(values []string, references []models.Movie, field func(models.Movie) []string) []string {
	seen := make(map[string]struct{})
	for _, ref := range references {
		for _, v := range field(ref) {
			seen[strings.ToLower(v)] = struct{}{}
		}
	}

	var shared []string
	for _, v := range values {
		if _, ok := seen[strings.ToLower(v)]; ok {
			shared = append(shared, v)
		}
	}
	return shared
}

func joinFirst(items []string) string {
	if len(items) > MaxNamedInClause {
		items = items[:MaxNamedInClause]
	}
	return strings.Join(items, " and ")
}

func meanYear(references []models.Movie) int {
	sum := 0
	for _, ref := range references {
		sum += ref.Year
	}
	return int(math.Floor(float64(sum)/float64(len(references)) + 0.5))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
