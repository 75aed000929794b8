package request

// BookSeatsRequest carries a comma separated seat list such as "1,2,3".
type BookSeatsRequest struct {
	SeatNumbers string `json:"seat_numbers" validate:"required,max=1000,seatlist"`
}
