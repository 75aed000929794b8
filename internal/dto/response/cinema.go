package response

import (
	"time"

	"cinebook/internal/data/entity"
)

type CinemaResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CinemaDetailResponse struct {
	CinemaResponse
	Halls []HallResponse `json:"halls"`
}

type HallResponse struct {
	ID       string `json:"id"`
	CinemaID string `json:"cinema_id"`
	Name     string `json:"name"`
	Size     int    `json:"size"`
}

type ScreeningResponse struct {
	ID         string    `json:"id"`
	MovieID    string    `json:"movie_id"`
	MovieTitle string    `json:"movie_title"`
	CinemaID   string    `json:"cinema_id"`
	CinemaName string    `json:"cinema_name"`
	HallID     string    `json:"hall_id"`
	HallName   string    `json:"hall_name"`
	HallSize   int       `json:"hall_size"`
	StartsAt   time.Time `json:"starts_at"`
	Price      float64   `json:"price"`
}

// Helper converters
func CinemaToResponse(cinema *entity.Cinema) CinemaResponse {
	return CinemaResponse{
		ID:        cinema.ID.String(),
		Name:      cinema.Name,
		Location:  cinema.Location,
		City:      cinema.City,
		CreatedAt: cinema.CreatedAt,
		UpdatedAt: cinema.UpdatedAt,
	}
}

func CinemaToDetailResponse(cinema *entity.Cinema, halls []*entity.Hall) CinemaDetailResponse {
	resp := CinemaDetailResponse{
		CinemaResponse: CinemaToResponse(cinema),
		Halls:          make([]HallResponse, 0, len(halls)),
	}
	for _, h := range halls {
		resp.Halls = append(resp.Halls, HallToResponse(h))
	}
	return resp
}

func HallToResponse(hall *entity.Hall) HallResponse {
	return HallResponse{
		ID:       hall.ID.String(),
		CinemaID: hall.CinemaID.String(),
		Name:     hall.Name,
		Size:     hall.Size,
	}
}

func ScreeningToResponse(s *entity.ScreeningDetail) ScreeningResponse {
	return ScreeningResponse{
		ID:         s.ID.String(),
		MovieID:    s.MovieID.String(),
		MovieTitle: s.MovieTitle,
		CinemaID:   s.CinemaID.String(),
		CinemaName: s.CinemaName,
		HallID:     s.HallID.String(),
		HallName:   s.HallName,
		HallSize:   s.HallSize,
		StartsAt:   s.StartsAt,
		Price:      s.Price,
	}
}
