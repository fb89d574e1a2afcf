package models

// MovieSummary is the response shape for listing and search entries.
type MovieSummary struct {
	ID        int     `json:"id"`
	Title     string  `json:"title"`
	Overview  string  `json:"overview"`
	PosterURL string  `json:"poster_url"`
	Rating    float64 `json:"rating"`
}

// CastMember is a billed performer on a MovieDetail.
type CastMember struct {
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
}

// Trailer points at a YouTube trailer.
type Trailer struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// MovieDetail is the response shape for a single movie. It merges the
// TMDB details, credits and videos with the poster palette.
type MovieDetail struct {
	ID           int          `json:"id"`
	Title        string       `json:"title"`
	Overview     string       `json:"overview"`
	PosterURL    *string      `json:"poster_url"`
	BackdropURL  *string      `json:"backdrop_url"`
	Rating       float64      `json:"rating"`
	ReleaseDate  string       `json:"release_date"`
	Runtime      int          `json:"runtime"`
	Genres       []string     `json:"genres"`
	Cast         []CastMember `json:"cast"`
	Trailer      *Trailer     `json:"trailer"`
	ColorPalette []string     `json:"color_palette"`
}

// SearchResult is the response shape for title search.
type SearchResult struct {
	Results      []MovieSummary `json:"results"`
	Page         int            `json:"page,omitempty"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

const (
	PosterSize   = "w500"
	BackdropSize = "w1280"
	ProfileSize  = "w185"

	MaxCastMembers  = 10
	YouTubeWatchURL = "https://www.youtube.com/watch?v="
)
