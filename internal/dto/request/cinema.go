package request

type CinemaRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Location string `json:"location" validate:"required,min=1,max=200"`
	City     string `json:"city" validate:"required,min=1,max=100"`
}

type HallRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
	Size int    `json:"size" validate:"required,gte=1,max=1000"`
}

type ScreeningRequest struct {
	MovieID  string  `json:"movie_id" validate:"required,uuid"`
	CinemaID string  `json:"cinema_id" validate:"required,uuid"`
	HallID   string  `json:"hall_id" validate:"required,uuid"`
	StartsAt string  `json:"starts_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Price    float64 `json:"price" validate:"gte=0"`
}
