package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"cinebook/internal/dto/request"
	"cinebook/internal/dto/response"
	"cinebook/internal/usecase"
	"cinebook/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stubBookingService struct {
	usecase.BookingService

	gotSeats string
	gotToken string
	bookErr  error
	billErr  error
}

func (s *stubBookingService) BookSeats(_ context.Context, _ uuid.UUID, _ string, seatInput string) (*response.CheckoutResponse, error) {
	s.gotSeats = seatInput
	if s.bookErr != nil {
		return nil, s.bookErr
	}
	return &response.CheckoutResponse{
		CheckoutToken: "signed",
		BillURL:       usecase.BillURL("signed"),
		SeatNumbers:   []int{1, 2},
		PriceSum:      20,
	}, nil
}

func (s *stubBookingService) GetBill(_ context.Context, _ uuid.UUID, token string) (*response.BillResponse, error) {
	s.gotToken = token
	if s.billErr != nil {
		return nil, s.billErr
	}
	return &response.BillResponse{CheckoutID: "c1", SeatNumbers: []int{1, 2}}, nil
}

func newBookingRouter(service usecase.BookingService) http.Handler {
	h := NewBookingHandler(service, zap.NewNop())
	userID := uuid.New()

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(utils.SetUserContext(r.Context(), userID, "customer")))
		})
	})
	r.Get("/book/bill/", h.GetBill)
	r.Post("/book/bill/", h.GetBill)
	r.Post("/book/{screening_id}", h.BookSeats)
	return r
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestBookSeats_JSONCreated(t *testing.T) {
	t.Parallel()

	service := &stubBookingService{}
	req := httptest.NewRequest(http.MethodPost, "/book/"+uuid.NewString(), strings.NewReader(`{"seat_numbers":"1,2"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()

	newBookingRouter(service).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/book/bill/?token=signed" {
		t.Fatalf("unexpected Location %q", loc)
	}
	if service.gotSeats != "1,2" {
		t.Fatalf("expected seats 1,2 passed through, got %q", service.gotSeats)
	}
}

func TestBookSeats_FormEncodings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{name: "comma list", form: url.Values{"seat_numbers": {"4,5"}}, want: "4,5"},
		{name: "repeated field", form: url.Values{"seat_number": {"7", "8", "9"}}, want: "7,8,9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &stubBookingService{}
			req := httptest.NewRequest(http.MethodPost, "/book/"+uuid.NewString(), strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()

			newBookingRouter(service).ServeHTTP(rec, req)

			if rec.Code != http.StatusCreated {
				t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
			}
			if service.gotSeats != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, service.gotSeats)
			}
		})
	}
}

func TestBookSeats_BadInput(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{"seat_numbers":""}`, `{"seat_numbers":"1,,x"}`, `not json`} {
		service := &stubBookingService{}
		req := httptest.NewRequest(http.MethodPost, "/book/"+uuid.NewString(), strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		newBookingRouter(service).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
		if service.gotSeats != "" {
			t.Fatalf("body %q: service should not be called", body)
		}
	}
}

func TestBookSeats_ConflictReturnsChart(t *testing.T) {
	t.Parallel()

	chart := &response.SeatChartResponse{Rows: 10, SeatsPerRow: 10, Available: 98}
	service := &stubBookingService{bookErr: &usecase.SeatConflictError{SeatNumber: 2, Chart: chart}}
	req := httptest.NewRequest(http.MethodPost, "/book/"+uuid.NewString(), strings.NewReader(`{"seat_numbers":"1,2"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newBookingRouter(service).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Message != "seat 2 is already booked" {
		t.Fatalf("unexpected message %q", env.Message)
	}
	var got response.SeatChartResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode chart: %v", err)
	}
	if got.Available != 98 {
		t.Fatalf("expected refreshed chart with 98 available, got %d", got.Available)
	}
}

func TestGetBill_TokenSources(t *testing.T) {
	t.Parallel()

	t.Run("query", func(t *testing.T) {
		service := &stubBookingService{}
		rec := httptest.NewRecorder()
		newBookingRouter(service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, usecase.BillURL("from-query"), nil))
		if rec.Code != http.StatusOK || service.gotToken != "from-query" {
			t.Fatalf("expected query token, got %d %q", rec.Code, service.gotToken)
		}
	})

	t.Run("header", func(t *testing.T) {
		service := &stubBookingService{}
		req := httptest.NewRequest(http.MethodGet, "/book/bill/", nil)
		req.Header.Set(CheckoutTokenHeader, "from-header")
		rec := httptest.NewRecorder()
		newBookingRouter(service).ServeHTTP(rec, req)
		if service.gotToken != "from-header" {
			t.Fatalf("expected header token, got %q", service.gotToken)
		}
	})

	t.Run("form", func(t *testing.T) {
		service := &stubBookingService{}
		req := httptest.NewRequest(http.MethodPost, "/book/bill/", strings.NewReader("token=from-form"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		newBookingRouter(service).ServeHTTP(rec, req)
		if service.gotToken != "from-form" {
			t.Fatalf("expected form token, got %q", service.gotToken)
		}
	})
}

func TestWriteServiceError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{err: fmt.Errorf("screening %w", usecase.ErrNotFound), want: http.StatusNotFound},
		{err: usecase.ErrCheckoutExpired, want: http.StatusNotFound},
		{err: usecase.ErrInvalidCheckout, want: http.StatusBadRequest},
		{err: fmt.Errorf("%w: seat 0", usecase.ErrInvalidSeat), want: http.StatusBadRequest},
		{err: fmt.Errorf("%w: bad", usecase.ErrValidation), want: http.StatusBadRequest},
		{err: usecase.ErrAlreadyExists, want: http.StatusConflict},
		{err: usecase.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{err: usecase.ErrAccountInactive, want: http.StatusForbidden},
		{err: fmt.Errorf("bill: %w", usecase.ErrForbidden), want: http.StatusForbidden},
		{err: &usecase.SeatConflictError{SeatNumber: 3}, want: http.StatusConflict},
		{err: errors.New("connection refused"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		writeServiceError(rec, zap.NewNop(), tt.err, "test")
		if rec.Code != tt.want {
			t.Errorf("%v: expected %d, got %d", tt.err, tt.want, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	writeServiceError(rec, zap.NewNop(), errors.New("pq: password authentication failed"), "test")
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatal("internal error details leaked to the client")
	}
}

func TestPaginationFromQuery(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/movies?page=3&per_page=abc", nil)
	got := paginationFromQuery(req)
	want := &request.PaginatedRequest{Page: 3, PerPage: 10}
	if *got != *want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}
