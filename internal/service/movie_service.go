package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"cinescope-api/internal/cache"
	"cinescope-api/internal/models"
	"cinescope-api/internal/tmdb"
)

const (
	movieListCacheTTL   = 900 * time.Second
	movieDetailCacheTTL = 3600 * time.Second

	videoLanguage = "en-US"
)

// ErrMovieNotFound is returned when the primary details call yields no movie.
var ErrMovieNotFound = errors.New("movie not found")

// ListKind selects one of the curated TMDB listings.
type ListKind string

const (
	ListPopular  ListKind = "popular"
	ListTopRated ListKind = "top-rated"
	ListUpcoming ListKind = "upcoming"
)

// PaletteExtractor derives poster colors. It must never fail; problems
// are reported as an empty palette.
type PaletteExtractor interface {
	Extract(ctx context.Context, imageURL string) []string
}

// MovieService turns TMDB responses into the frontend schema.
type MovieService struct {
	tmdbClient   *tmdb.Client
	palette      PaletteExtractor
	cache        *cache.Cache
	imageBaseURL string
}

// NewMovieService creates a new MovieService. imageBaseURL is the TMDB
// image CDN root, without a size segment.
func NewMovieService(tmdbClient *tmdb.Client, palette PaletteExtractor, c *cache.Cache, imageBaseURL string) *MovieService {
	return &MovieService{
		tmdbClient:   tmdbClient,
		palette:      palette,
		cache:        c,
		imageBaseURL: imageBaseURL,
	}
}

// ListMovies returns one of the curated listings, cached per listing.
func (s *MovieService) ListMovies(ctx context.Context, kind ListKind) ([]models.MovieSummary, error) {
	var fetch func(context.Context) (*tmdb.ListResponse, error)
	switch kind {
	case ListPopular:
		fetch = s.tmdbClient.Popular
	case ListTopRated:
		fetch = s.tmdbClient.TopRated
	case ListUpcoming:
		fetch = s.tmdbClient.Upcoming
	default:
		return nil, fmt.Errorf("unknown movie list %q", kind)
	}

	return cache.Fetch(ctx, s.cache, "movies:"+string(kind), movieListCacheTTL,
		func(ctx context.Context) ([]models.MovieSummary, error) {
			raw, err := fetch(ctx)
			if err != nil {
				return nil, err
			}
			return NormalizeList(raw, s.imageBaseURL), nil
		})
}

// SearchMovies passes the title query straight to TMDB. Results are not
// cached.
func (s *MovieService) SearchMovies(ctx context.Context, query string, page int) (*models.SearchResult, error) {
	raw, err := s.tmdbClient.SearchMovies(ctx, query, page)
	if err != nil {
		return nil, err
	}

	if raw == nil || len(raw.Results) == 0 {
		return &models.SearchResult{Results: []models.MovieSummary{}}, nil
	}

	return &models.SearchResult{
		Results:      NormalizeList(raw, s.imageBaseURL),
		Page:         raw.Page,
		TotalPages:   raw.TotalPages,
		TotalResults: raw.TotalResults,
	}, nil
}

// GetMovieDetail returns the merged detail record for a TMDB movie id,
// cached per id.
func (s *MovieService) GetMovieDetail(ctx context.Context, id int) (*models.MovieDetail, error) {
	cacheKey := fmt.Sprintf("movie:detail:%d", id)
	return cache.Fetch(ctx, s.cache, cacheKey, movieDetailCacheTTL,
		func(ctx context.Context) (*models.MovieDetail, error) {
			return s.buildMovieDetail(ctx, id)
		})
}

// buildMovieDetail aggregates details, credits, videos and the poster
// palette. Only the details call is fatal.
func (s *MovieService) buildMovieDetail(ctx context.Context, id int) (*models.MovieDetail, error) {
	details, err := s.tmdbClient.MovieDetail(ctx, id)
	if err != nil {
		if tmdb.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %v", ErrMovieNotFound, err)
		}
		return nil, fmt.Errorf("failed to get movie %d: %w", id, err)
	}
	if details == nil || details.ID == 0 {
		return nil, ErrMovieNotFound
	}

	posterURL := s.imageURL(models.PosterSize, details.PosterPath)
	backdropURL := s.imageURL(models.BackdropSize, details.BackdropPath)

	var (
		credits = &tmdb.Credits{}
		videos  = &tmdb.VideoList{}
		colors  = []string{}
	)

	// Enrichment tasks never return an error; each one degrades to its
	// empty default so the others still run to completion.
	var g errgroup.Group
	g.Go(func() error {
		c, err := s.tmdbClient.Credits(ctx, id)
		if err != nil {
			slog.Warn("credits unavailable", "movie_id", id, "error", err)
			return nil
		}
		credits = c
		return nil
	})
	g.Go(func() error {
		v, err := s.tmdbClient.Videos(ctx, id, videoLanguage)
		if err != nil {
			slog.Warn("videos unavailable", "movie_id", id, "error", err)
			return nil
		}
		videos = v
		return nil
	})
	if posterURL != nil {
		g.Go(func() error {
			colors = s.palette.Extract(ctx, *posterURL)
			return nil
		})
	}
	_ = g.Wait()
	if colors == nil {
		colors = []string{}
	}

	genres := make([]string, 0, len(details.Genres))
	for _, genre := range details.Genres {
		genres = append(genres, genre.Name)
	}

	return &models.MovieDetail{
		ID:           details.ID,
		Title:        details.Title,
		Overview:     details.Overview,
		PosterURL:    posterURL,
		BackdropURL:  backdropURL,
		Rating:       details.VoteAverage,
		ReleaseDate:  details.ReleaseDate,
		Runtime:      details.Runtime,
		Genres:       genres,
		Cast:         s.buildCast(credits),
		Trailer:      SelectTrailer(videos),
		ColorPalette: colors,
	}, nil
}

func (s *MovieService) buildCast(credits *tmdb.Credits) []models.CastMember {
	members := credits.Cast
	if len(members) > models.MaxCastMembers {
		members = members[:models.MaxCastMembers]
	}

	cast := make([]models.CastMember, 0, len(members))
	for _, m := range members {
		cast = append(cast, models.CastMember{
			Name:        m.Name,
			Character:   m.Character,
			ProfilePath: s.imageURL(models.ProfileSize, m.ProfilePath),
		})
	}
	return cast
}

func (s *MovieService) imageURL(size, path string) *string {
	if path == "" {
		return nil
	}
	u := s.imageBaseURL + "/" + size + path
	return &u
}

// UpstreamRequests reports how many TMDB requests this process has sent.
func (s *MovieService) UpstreamRequests() int64 {
	return s.tmdbClient.Requests()
}

// CacheBackend names the store behind the response cache.
func (s *MovieService) CacheBackend() string {
	return s.cache.Backend()
}
