package request

type MovieRequest struct {
	Title             string  `json:"title" validate:"required,min=1,max=200"`
	Description       *string `json:"description,omitempty"`
	PosterURL         *string `json:"poster_url,omitempty" validate:"omitempty,url"`
	Rating            float64 `json:"rating" validate:"gte=0,max=10"`
	ReleaseDate       string  `json:"release_date" validate:"required,datetime=2006-01-02"`
	DurationInMinutes int     `json:"duration_in_minutes" validate:"required,min=1,max=999"`
	ReleaseStatus     string  `json:"release_status" validate:"required,oneof=now_playing coming_soon"`
}

type MovieUpdateRequest struct {
	Title             *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description       *string  `json:"description,omitempty"`
	PosterURL         *string  `json:"poster_url,omitempty" validate:"omitempty,url"`
	Rating            *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,max=10"`
	ReleaseDate       *string  `json:"release_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DurationInMinutes *int     `json:"duration_in_minutes,omitempty" validate:"omitempty,min=1,max=999"`
	ReleaseStatus     *string  `json:"release_status,omitempty" validate:"omitempty,oneof=now_playing coming_soon"`
}
