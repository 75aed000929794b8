package adaptor

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"cinebook/internal/dto/request"
	"cinebook/internal/usecase"
	"cinebook/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CheckoutTokenHeader may carry the checkout token instead of ?token=.
const CheckoutTokenHeader = "X-Checkout-Token"

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// GetBookingForm handles GET /book/{screening_id}
func (h *BookingHandler) GetBookingForm(w http.ResponseWriter, r *http.Request) {
	form, err := h.service.GetBookingForm(r.Context(), chi.URLParam(r, "screening_id"))
	if err != nil {
		writeServiceError(w, h.log, err, "get booking form")
		return
	}

	utils.ResponseSuccess(w, "success", form)
}

// BookSeats handles POST /book/{screening_id}
func (h *BookingHandler) BookSeats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	req, err := decodeSeatRequest(r)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	checkout, err := h.service.BookSeats(r.Context(), userID, chi.URLParam(r, "screening_id"), req.SeatNumbers)
	if err != nil {
		writeServiceError(w, h.log, err, "book seats")
		return
	}

	w.Header().Set("Location", checkout.BillURL)
	utils.ResponseCreated(w, "Seats booked successfully", checkout)
}

// GetBill handles GET and POST /book/bill/
func (h *BookingHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	bill, err := h.service.GetBill(r.Context(), userID, checkoutToken(r))
	if err != nil {
		writeServiceError(w, h.log, err, "get bill")
		return
	}

	utils.ResponseSuccess(w, "success", bill)
}

// GetBillQRCode handles GET /book/bill/qr
func (h *BookingHandler) GetBillQRCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	png, err := h.service.GetBillQRCode(r.Context(), userID, checkoutToken(r))
	if err != nil {
		writeServiceError(w, h.log, err, "get bill QR code")
		return
	}

	utils.ResponsePNG(w, png)
}

// GetUserBookings handles GET /api/user/bookings
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	bookings, err := h.service.GetUserBookings(r.Context(), userID, paginationFromQuery(r))
	if err != nil {
		writeServiceError(w, h.log, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// decodeSeatRequest accepts a JSON body or a form post. Forms may use
// seat_numbers="1,2" or repeat seat_number once per seat.
func decodeSeatRequest(r *http.Request) (*request.BookSeatsRequest, error) {
	req := &request.BookSeatsRequest{}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return nil, err
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	if seats := r.PostForm.Get("seat_numbers"); seats != "" {
		req.SeatNumbers = seats
		return req, nil
	}
	req.SeatNumbers = strings.Join(r.PostForm["seat_number"], ",")
	return req, nil
}

func checkoutToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	if token := r.Header.Get(CheckoutTokenHeader); token != "" {
		return token
	}
	if r.Method == http.MethodPost {
		return r.PostFormValue("token")
	}
	return ""
}
