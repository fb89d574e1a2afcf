package service

import (
	"cinescope-api/internal/models"
	"cinescope-api/internal/tmdb"
)

// NormalizeList maps a TMDB list payload to summaries, keeping upstream
// order. Entries without a poster are dropped. A nil payload is treated
// as an empty list.
func NormalizeList(raw *tmdb.ListResponse, imageBaseURL string) []models.MovieSummary {
	movies := make([]models.MovieSummary, 0)
	if raw == nil {
		return movies
	}

	for _, m := range raw.Results {
		if m.PosterPath == "" {
			continue
		}
		movies = append(movies, models.MovieSummary{
			ID:        m.ID,
			Title:     m.Title,
			Overview:  m.Overview,
			PosterURL: imageBaseURL + "/" + models.PosterSize + m.PosterPath,
			Rating:    m.VoteAverage,
		})
	}
	return movies
}

// SelectTrailer picks the first YouTube video typed "Trailer". There is
// no fallback to teasers or other hosts.
func SelectTrailer(videos *tmdb.VideoList) *models.Trailer {
	if videos == nil {
		return nil
	}
	for _, v := range videos.Results {
		if v.Type == "Trailer" && v.Site == "YouTube" {
			return &models.Trailer{
				Key: v.Key,
				URL: models.YouTubeWatchURL + v.Key,
			}
		}
	}
	return nil
}
