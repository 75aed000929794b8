package response

import (
	"time"

	"cinebook/internal/data/entity"
)

type SeatChartResponse struct {
	Rows        int                  `json:"rows"`
	SeatsPerRow int                  `json:"seats_per_row"`
	Available   int                  `json:"available"`
	Seats       [][]entity.SeatEntry `json:"seats"`
}

// BookingFormResponse is what a client needs to render the seat picker.
type BookingFormResponse struct {
	Screening ScreeningResponse `json:"screening"`
	SeatChart SeatChartResponse `json:"seat_chart"`
}

type CheckoutResponse struct {
	CheckoutToken string    `json:"checkout_token"`
	BillURL       string    `json:"bill_url"`
	ExpiresAt     time.Time `json:"expires_at"`
	SeatNumbers   []int     `json:"seat_numbers"`
	PriceSum      float64   `json:"price_sum"`
}

type BillResponse struct {
	CheckoutID    string    `json:"checkout_id"`
	UserName      string    `json:"user_name"`
	CinemaName    string    `json:"cinema_name"`
	HallName      string    `json:"hall_name"`
	MovieName     string    `json:"movie_name"`
	ScreeningID   string    `json:"screening_id"`
	ScreeningTime time.Time `json:"screening_time"`
	BookingIDs    []string  `json:"booking_ids"`
	SeatNumbers   []int     `json:"seat_numbers"`
	Prices        []float64 `json:"prices"`
	PriceSum      float64   `json:"price_sum"`
}

type BookingResponse struct {
	ID          string    `json:"id"`
	ScreeningID string    `json:"screening_id"`
	SeatNumber  int       `json:"seat_number"`
	MovieTitle  string    `json:"movie_title"`
	CinemaName  string    `json:"cinema_name"`
	HallName    string    `json:"hall_name"`
	StartsAt    time.Time `json:"starts_at"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

// Helper converters
func SeatChartToResponse(chart entity.SeatChart) SeatChartResponse {
	resp := SeatChartResponse{
		Rows:  len(chart),
		Seats: chart,
	}
	if resp.Seats == nil {
		resp.Seats = [][]entity.SeatEntry{}
	}
	if len(chart) > 0 {
		resp.SeatsPerRow = len(chart[0])
	}
	for _, row := range chart {
		for _, seat := range row {
			if seat.Status == entity.SeatAvailable {
				resp.Available++
			}
		}
	}
	return resp
}

func BillToResponse(bill *entity.BillDetail) BillResponse {
	resp := BillResponse{
		CheckoutID:    bill.CheckoutID.String(),
		UserName:      bill.UserName,
		CinemaName:    bill.CinemaName,
		HallName:      bill.HallName,
		MovieName:     bill.MovieName,
		ScreeningID:   bill.ScreeningID.String(),
		ScreeningTime: bill.ScreeningTime,
		BookingIDs:    make([]string, 0, len(bill.BookingIDs)),
		SeatNumbers:   bill.SeatNumbers,
		Prices:        bill.Prices,
		PriceSum:      bill.Total(),
	}
	for _, id := range bill.BookingIDs {
		resp.BookingIDs = append(resp.BookingIDs, id.String())
	}
	return resp
}

func BookingToResponse(b *entity.BookingDetail) BookingResponse {
	return BookingResponse{
		ID:          b.ID.String(),
		ScreeningID: b.ScreeningID.String(),
		SeatNumber:  b.SeatNumber,
		MovieTitle:  b.MovieTitle,
		CinemaName:  b.CinemaName,
		HallName:    b.HallName,
		StartsAt:    b.StartsAt,
		Price:       b.Price,
		CreatedAt:   b.CreatedAt,
	}
}
