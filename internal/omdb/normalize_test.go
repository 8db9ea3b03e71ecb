package omdb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"movie-recommender/internal/models"
)

func TestToMovie_NotAvailableFields(t *testing.T) {
	m := ToMovie(MovieDetail{
		Title:      "Obscure",
		Year:       "N/A",
		Runtime:    "N/A",
		Genre:      "N/A",
		Director:   "N/A",
		Actors:     "N/A",
		Plot:       "N/A",
		Poster:     "N/A",
		IMDbRating: "N/A",
		IMDbID:     "tt9",
	})

	assert.Equal(t, models.Movie{
		ID:       "tt9",
		Title:    "Obscure",
		Poster:   models.PlaceholderPoster,
		Genres:   []string{},
		Director: models.UnknownDirector,
		Actors:   []string{},
		Plot:     models.NoPlotAvailable,
	}, m)
}

func TestToMovie_CapsActors(t *testing.T) {
	m := ToMovie(MovieDetail{Actors: "A, B, C, D, E, F, G"})
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, m.Actors)
}

func TestParseYear(t *testing.T) {
	tests := map[string]int{
		"1999":      1999,
		"2019–2020": 2019,
		"2019–":     2019,
		"2005-2008": 2005,
		"N/A":       0,
		"":          0,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseYear(in), in)
	}
}

func TestLeadingInt(t *testing.T) {
	assert.Equal(t, 148, leadingInt("148 min"))
	assert.Equal(t, 90, leadingInt(" 90"))
	assert.Equal(t, 0, leadingInt("min"))
}
