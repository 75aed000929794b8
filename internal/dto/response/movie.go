package response

import (
	"time"

	"cinebook/internal/data/entity"
)

type MovieResponse struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Slug              string    `json:"slug"`
	Description       *string   `json:"description,omitempty"`
	PosterURL         *string   `json:"poster_url,omitempty"`
	Rating            float64   `json:"rating"`
	ReleaseDate       string    `json:"release_date"`
	DurationInMinutes int       `json:"duration_in_minutes"`
	ReleaseStatus     string    `json:"release_status"`
	CreatedAt         time.Time `json:"created_at"`
}

type MovieDetailResponse struct {
	MovieResponse
	UpdatedAt  time.Time           `json:"updated_at"`
	IsFavorite *bool               `json:"is_favorite,omitempty"`
	Screenings []ScreeningResponse `json:"screenings"`
}

type FavoriteToggleResponse struct {
	MovieID  string `json:"movie_id"`
	Favorite bool   `json:"favorite"`
}

// Helper converters
func MovieToResponse(movie *entity.Movie) MovieResponse {
	return MovieResponse{
		ID:                movie.ID.String(),
		Title:             movie.Title,
		Slug:              movie.Slug,
		Description:       movie.Description,
		PosterURL:         movie.PosterURL,
		Rating:            movie.Rating,
		ReleaseDate:       movie.ReleaseDate.Format("2006-01-02"),
		DurationInMinutes: movie.DurationInMinutes,
		ReleaseStatus:     string(movie.ReleaseStatus),
		CreatedAt:         movie.CreatedAt,
	}
}

func MoviesToResponse(movies []*entity.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for _, m := range movies {
		out = append(out, MovieToResponse(m))
	}
	return out
}

func MovieToDetailResponse(movie *entity.Movie, screenings []*entity.ScreeningDetail) MovieDetailResponse {
	resp := MovieDetailResponse{
		MovieResponse: MovieToResponse(movie),
		UpdatedAt:     movie.UpdatedAt,
		Screenings:    make([]ScreeningResponse, 0, len(screenings)),
	}
	for _, s := range screenings {
		resp.Screenings = append(resp.Screenings, ScreeningToResponse(s))
	}
	return resp
}
