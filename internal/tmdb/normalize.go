package tmdb

import (
	"strconv"
	"strings"

	"movie-recommender/internal/models"
)

// genreIDs maps lowercase genre names to TMDB genre ids.
var genreIDs = map[string]int{
	"action":          28,
	"adventure":       12,
	"animation":       16,
	"comedy":          35,
	"crime":           80,
	"documentary":     99,
	"drama":           18,
	"family":          10751,
	"fantasy":         14,
	"history":         36,
	"horror":          27,
	"music":           10402,
	"mystery":         9648,
	"romance":         10749,
	"science fiction": 878,
	"sci-fi":          878,
	"tv movie":        10770,
	"thriller":        53,
	"war":             10752,
	"western":         37,
}

// GenreID returns the TMDB id for a genre name, ignoring case.
func GenreID(name string) (int, bool) {
	id, ok := genreIDs[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// ToMovie converts a TMDB detail record into a models.Movie.
func ToMovie(d TMDBMovieDetail, imageBaseURL string) models.Movie {
	m := models.Movie{
		ID:       d.IMDbID,
		Title:    d.Title,
		Year:     releaseYear(d.ReleaseDate),
		Poster:   posterURL(imageBaseURL, d.PosterPath),
		Genres:   make([]string, 0, len(d.Genres)),
		Director: models.UnknownDirector,
		Actors:   []string{},
		Plot:     d.Overview,
		Rating:   d.VoteAverage,
		Runtime:  d.Runtime,
	}
	if m.ID == "" {
		m.ID = strconv.Itoa(d.ID)
	}
	if m.Plot == "" {
		m.Plot = models.NoPlotAvailable
	}
	for _, g := range d.Genres {
		m.Genres = append(m.Genres, g.Name)
	}

	if d.Credits != nil {
		for _, crew := range d.Credits.Crew {
			if crew.Job == "Director" && crew.Name != "" {
				m.Director = crew.Name
				break
			}
		}
		for _, cast := range d.Credits.Cast {
			if len(m.Actors) == models.MaxActors {
				break
			}
			m.Actors = append(m.Actors, cast.Name)
		}
	}
	return m
}

// releaseYear extracts the year from a "YYYY-MM-DD" date, or 0.
func releaseYear(date string) int {
	y, _, _ := strings.Cut(strings.TrimSpace(date), "-")
	year, err := strconv.Atoi(y)
	if err != nil {
		return 0
	}
	return year
}

func posterURL(imageBaseURL, path string) string {
	if path == "" {
		return models.PlaceholderPoster
	}
	return imageBaseURL + path
}
