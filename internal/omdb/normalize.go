package omdb

import (
	"strconv"
	"strings"

	"movie-recommender/internal/models"
)

const notAvailable = "N/A"

// ToMovie converts an OMDb detail record into a models.Movie.
func ToMovie(d MovieDetail) models.Movie {
	actors := splitList(d.Actors)
	if len(actors) > models.MaxActors {
		actors = actors[:models.MaxActors]
	}

	rating, err := strconv.ParseFloat(strings.TrimSpace(d.IMDbRating), 64)
	if err != nil {
		rating = 0
	}

	return models.Movie{
		ID:       d.IMDbID,
		Title:    d.Title,
		Year:     parseYear(d.Year),
		Poster:   orSentinel(d.Poster, models.PlaceholderPoster),
		Genres:   splitList(d.Genre),
		Director: orSentinel(d.Director, models.UnknownDirector),
		Actors:   actors,
		Plot:     orSentinel(d.Plot, models.NoPlotAvailable),
		Rating:   rating,
		Runtime:  leadingInt(d.Runtime),
	}
}

// parseYear takes the first year of values like "1999", "2019–2020" or "2019–".
func parseYear(s string) int {
	return leadingInt(s)
}

// leadingInt parses the digits at the start of s ("148 min" -> 148), or 0.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

func splitList(s string) []string {
	if isAbsent(s) {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func orSentinel(s, sentinel string) string {
	if isAbsent(s) {
		return sentinel
	}
	return s
}

func isAbsent(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == notAvailable
}
