package similarity

import "movie-recommender/internal/models"

// Attribute weights of the composite score. They sum to 1.0.
const (
	GenreWeight    = 0.40
	DirectorWeight = 0.25
	ActorWeight    = 0.20
	YearWeight     = 0.15
)

// ScorePair scores a candidate against a single reference movie.
func ScorePair(candidate, reference models.Movie) models.SimilarityScore {
	score := models.SimilarityScore{
		Genre:    SetSimilarity(candidate.Genres, reference.Genres),
		Director: CategoricalEquality(candidate.Director, reference.Director),
		Actor:    SetSimilarity(candidate.Actors, reference.Actors),
		Year:     YearProximity(candidate.Year, reference.Year),
	}
	score.Total = weightedTotal(score)
	return score
}

// ScoreAgainstSet averages ScorePair over every reference. Each component and
// the total are averaged independently. An empty reference set scores zero.
func ScoreAgainstSet(candidate models.Movie, references []models.Movie) models.SimilarityScore {
	if len(references) == 0 {
		return models.SimilarityScore{}
	}

	var sum models.SimilarityScore
	for _, ref := range references {
		s := ScorePair(candidate, ref)
		sum.Genre += s.Genre
		sum.Director += s.Director
		sum.Actor += s.Actor
		sum.Year += s.Year
		sum.Total += s.Total
	}

	n := float64(len(references))
	return models.SimilarityScore{
		Genre:    sum.Genre / n,
		Director: sum.Director / n,
		Actor:    sum.Actor / n,
		Year:     sum.Year / n,
		Total:    sum.Total / n,
	}
}

func weightedTotal(s models.SimilarityScore) float64 {
	return s.Genre*GenreWeight +
		s.Director*DirectorWeight +
		s.Actor*ActorWeight +
		s.Year*YearWeight
}
