package models

// Sentinels applied by provider adapters when an upstream record lacks a field.
const (
	UnknownDirector   = "Unknown"
	NoPlotAvailable   = "No plot available"
	PlaceholderPoster = "/placeholder-poster.png"

	// MaxActors is how many top-billed cast members a Movie carries.
	MaxActors = 5
)

// Movie is the normalized movie record every provider produces.
// Values are treated as read-only once built by an adapter.
type Movie struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Year     int      `json:"year"`
	Poster   string   `json:"poster"`
	Genres   []string `json:"genres"`
	Director string   `json:"director"`
	Actors   []string `json:"actors"`
	Plot     string   `json:"plot"`
	Rating   float64  `json:"rating"`
	Runtime  int      `json:"runtime"`
}

// MovieSummary is the shape returned by search endpoints, before details are fetched.
type MovieSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Year   int    `json:"year"`
	Poster string `json:"poster"`
}
