package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"cinebook/internal/data/entity"
	"cinebook/internal/data/repository"
	"cinebook/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var testCheckout = utils.CheckoutConfig{Secret: "test-secret", TTLMinutes: 30}

func newTestBookingService(db *fakeDB, bills *fakeBillRepo, receipts ReceiptSender) *bookingService {
	svc := NewBookingService(newFakeRepository(db, bills), testCheckout, receipts, zap.NewNop())
	return svc.(*bookingService)
}

func TestBookingService_BookSeats(t *testing.T) {
	t.Parallel()

	t.Run("books every seat and stores the bill", func(t *testing.T) {
		db := newFakeDB()
		user := db.addUser("jane")
		screening := db.addScreening(100, 12.5)
		bills := newFakeBillRepo()
		svc := newTestBookingService(db, bills, nil)

		res, err := svc.BookSeats(context.Background(), user.ID, screening.ID.String(), "4, 5,6")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !reflect.DeepEqual(res.SeatNumbers, []int{4, 5, 6}) {
			t.Fatalf("expected seats [4 5 6], got %v", res.SeatNumbers)
		}
		if res.PriceSum != 37.5 {
			t.Fatalf("expected price sum 37.5, got %v", res.PriceSum)
		}
		if !strings.HasPrefix(res.BillURL, BillPath+"?token=") {
			t.Fatalf("unexpected bill url %q", res.BillURL)
		}
		if got := db.bookedSeats(screening.ID); !reflect.DeepEqual(got, []int{4, 5, 6}) {
			t.Fatalf("expected seats 4-6 booked, got %v", got)
		}
		if db.locks != 1 {
			t.Fatalf("expected screening locked once, got %d", db.locks)
		}

		claims, err := utils.ParseCheckoutToken([]byte(testCheckout.Secret), res.CheckoutToken)
		if err != nil {
			t.Fatalf("expected valid token, got %v", err)
		}
		bill := bills.bills[claims.CheckoutID]
		if bill == nil {
			t.Fatalf("expected bill stored under checkout id")
		}
		if len(bill.BookingIDs) != 3 || bill.Total() != 37.5 {
			t.Fatalf("unexpected bill: %+v", bill)
		}
		if bill.UserName != "jane" || bill.MovieName != "Arrival" || bill.HallName != "Hall 1" {
			t.Fatalf("unexpected bill names: %+v", bill)
		}
	})

	t.Run("second booking of the same seat is rejected", func(t *testing.T) {
		db := newFakeDB()
		first := db.addUser("jane")
		second := db.addUser("john")
		screening := db.addScreening(100, 10)
		svc := newTestBookingService(db, newFakeBillRepo(), nil)

		if _, err := svc.BookSeats(context.Background(), first.ID, screening.ID.String(), "7"); err != nil {
			t.Fatalf("expected first booking to succeed, got %v", err)
		}

		_, err := svc.BookSeats(context.Background(), second.ID, screening.ID.String(), "7")
		if !errors.Is(err, ErrSeatAlreadyBooked) {
			t.Fatalf("expected ErrSeatAlreadyBooked, got %v", err)
		}
		if got := db.bookings[screening.ID][7].UserID; got != first.ID {
			t.Fatalf("expected seat 7 to stay with the first user")
		}
	})

	t.Run("conflict rolls back earlier seats and stops", func(t *testing.T) {
		db := newFakeDB()
		user := db.addUser("jane")
		other := db.addUser("john")
		screening := db.addScreening(100, 10)
		db.book(screening.ID, other.ID, 2)
		bills := newFakeBillRepo()
		svc := newTestBookingService(db, bills, nil)

		_, err := svc.BookSeats(context.Background(), user.ID, screening.ID.String(), "1,2,3")

		var conflict *SeatConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("expected SeatConflictError, got %v", err)
		}
		if conflict.SeatNumber != 2 {
			t.Fatalf("expected conflict on seat 2, got %d", conflict.SeatNumber)
		}
		if conflict.Error() != "seat 2 is already booked" {
			t.Fatalf("unexpected message %q", conflict.Error())
		}
		if !reflect.DeepEqual(db.checked, []int{1, 2}) {
			t.Fatalf("expected seats 1 and 2 checked, got %v", db.checked)
		}
		if got := db.bookedSeats(screening.ID); !reflect.DeepEqual(got, []int{2}) {
			t.Fatalf("expected only the prior booking to remain, got %v", got)
		}
		if len(bills.bills) != 0 {
			t.Fatalf("expected no bill stored")
		}
		if conflict.Chart == nil || conflict.Chart.Available != 99 {
			t.Fatalf("expected refreshed chart with 99 seats available, got %+v", conflict.Chart)
		}
	})

	t.Run("unique violation on insert is a conflict", func(t *testing.T) {
		db := newFakeDB()
		user := db.addUser("jane")
		screening := db.addScreening(100, 10)
		svc := newTestBookingService(db, newFakeBillRepo(), nil)
		svc.repo.Booking = &raceBookingRepo{fakeBookingRepo{db: db}}

		_, err := svc.BookSeats(context.Background(), user.ID, screening.ID.String(), "9")
		if !errors.Is(err, ErrSeatAlreadyBooked) {
			t.Fatalf("expected ErrSeatAlreadyBooked, got %v", err)
		}
	})

	t.Run("bill store failure rolls back the seats", func(t *testing.T) {
		db := newFakeDB()
		user := db.addUser("jane")
		screening := db.addScreening(100, 10)
		bills := newFakeBillRepo()
		bills.err = errors.New("redis down")
		svc := newTestBookingService(db, bills, nil)

		_, err := svc.BookSeats(context.Background(), user.ID, screening.ID.String(), "1,2")
		if err == nil || errors.Is(err, ErrSeatAlreadyBooked) {
			t.Fatalf("expected internal error, got %v", err)
		}
		if got := db.bookedSeats(screening.ID); len(got) != 0 {
			t.Fatalf("expected no bookings, got %v", got)
		}
	})

	t.Run("invalid seat input", func(t *testing.T) {
		db := newFakeDB()
		user := db.addUser("jane")
		screening := db.addScreening(95, 10)
		svc := newTestBookingService(db, newFakeBillRepo(), nil)

		for _, input := range []string{"", "abc", "91", "3,3", "0"} {
			_, err := svc.BookSeats(context.Background(), user.ID, screening.ID.String(), input)
			if !errors.Is(err, ErrInvalidSeat) {
				t.Fatalf("input %q: expected ErrInvalidSeat, got %v", input, err)
			}
		}
		if db.locks != 0 {
			t.Fatalf("expected no transaction for invalid input")
		}
	})

	t.Run("unknown screening", func(t *testing.T) {
		db := newFakeDB()
		user := db.addUser("jane")
		svc := newTestBookingService(db, newFakeBillRepo(), nil)

		for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
			_, err := svc.BookSeats(context.Background(), user.ID, id, "1")
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		}
	})

	t.Run("receipt is sent after commit", func(t *testing.T) {
		db := newFakeDB()
		user := db.addUser("jane")
		screening := db.addScreening(100, 8)
		receipts := &fakeReceipts{sent: make(chan *entity.BillDetail, 1)}
		svc := newTestBookingService(db, newFakeBillRepo(), receipts)

		if _, err := svc.BookSeats(context.Background(), user.ID, screening.ID.String(), "11,12"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		select {
		case bill := <-receipts.sent:
			if bill.Total() != 16 {
				t.Fatalf("expected receipt total 16, got %v", bill.Total())
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("expected a receipt to be sent")
		}
	})
}

func TestBookingService_GetBill(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*bookingService, *fakeDB, *fakeBillRepo, *entity.User, string) {
		t.Helper()
		db := newFakeDB()
		user := db.addUser("jane")
		screening := db.addScreening(100, 9.5)
		bills := newFakeBillRepo()
		svc := newTestBookingService(db, bills, nil)

		res, err := svc.BookSeats(context.Background(), user.ID, screening.ID.String(), "1,2")
		if err != nil {
			t.Fatalf("book seats: %v", err)
		}
		return svc, db, bills, user, res.CheckoutToken
	}

	t.Run("owner reads the bill", func(t *testing.T) {
		svc, _, _, user, token := setup(t)

		bill, err := svc.GetBill(context.Background(), user.ID, token)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if bill.PriceSum != 19 || !reflect.DeepEqual(bill.SeatNumbers, []int{1, 2}) {
			t.Fatalf("unexpected bill %+v", bill)
		}
		if len(bill.BookingIDs) != 2 || len(bill.Prices) != 2 {
			t.Fatalf("expected parallel booking ids and prices, got %+v", bill)
		}

		// Reading does not consume the bill.
		if _, err := svc.GetBill(context.Background(), user.ID, token); err != nil {
			t.Fatalf("expected second read to succeed, got %v", err)
		}
	})

	t.Run("another user is forbidden", func(t *testing.T) {
		svc, db, _, _, token := setup(t)
		intruder := db.addUser("mallory")

		_, err := svc.GetBill(context.Background(), intruder.ID, token)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("tampered or missing token is invalid", func(t *testing.T) {
		svc, _, _, user, token := setup(t)

		for _, bad := range []string{"", token + "x", "not.a.token"} {
			_, err := svc.GetBill(context.Background(), user.ID, bad)
			if !errors.Is(err, ErrInvalidCheckout) {
				t.Fatalf("token %q: expected ErrInvalidCheckout, got %v", bad, err)
			}
		}
	})

	t.Run("expired token", func(t *testing.T) {
		svc, _, _, user, _ := setup(t)
		token, _, err := utils.GenerateCheckoutToken([]byte(testCheckout.Secret), uuid.New(), user.ID,
			time.Now().Add(-2*time.Hour), 30*time.Minute)
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}

		_, err = svc.GetBill(context.Background(), user.ID, token)
		if !errors.Is(err, ErrCheckoutExpired) {
			t.Fatalf("expected ErrCheckoutExpired, got %v", err)
		}
	})

	t.Run("bill evicted from the store", func(t *testing.T) {
		svc, _, bills, user, token := setup(t)
		claims, err := utils.ParseCheckoutToken([]byte(testCheckout.Secret), token)
		if err != nil {
			t.Fatalf("parse token: %v", err)
		}
		bills.drop(claims.CheckoutID)

		_, err = svc.GetBill(context.Background(), user.ID, token)
		if !errors.Is(err, ErrCheckoutExpired) {
			t.Fatalf("expected ErrCheckoutExpired, got %v", err)
		}
	})

	t.Run("qr code is a png", func(t *testing.T) {
		svc, _, _, user, token := setup(t)

		png, err := svc.GetBillQRCode(context.Background(), user.ID, token)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(png) < 8 || string(png[1:4]) != "PNG" {
			t.Fatalf("expected PNG bytes")
		}
	})
}

func TestBookingService_GetBookingForm(t *testing.T) {
	t.Parallel()

	db := newFakeDB()
	user := db.addUser("jane")
	screening := db.addScreening(95, 10)
	db.book(screening.ID, user.ID, 3)
	svc := newTestBookingService(db, newFakeBillRepo(), nil)

	form, err := svc.GetBookingForm(context.Background(), screening.ID.String())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if form.SeatChart.Rows != 9 || form.SeatChart.SeatsPerRow != 10 {
		t.Fatalf("expected 9x10 chart, got %dx%d", form.SeatChart.Rows, form.SeatChart.SeatsPerRow)
	}
	if form.SeatChart.Available != 89 {
		t.Fatalf("expected 89 available seats, got %d", form.SeatChart.Available)
	}
	if form.SeatChart.Seats[0][2].Status != entity.SeatBooked {
		t.Fatalf("expected seat 3 booked")
	}
	if form.Screening.CinemaName != "Grand" || form.Screening.Price != 10 {
		t.Fatalf("unexpected screening summary %+v", form.Screening)
	}

	if _, err := svc.GetBookingForm(context.Background(), uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// raceBookingRepo reports every seat free and then loses the insert, the way
// a concurrent checkout that slipped past the pre-check would.
type raceBookingRepo struct {
	fakeBookingRepo
}

func (r *raceBookingRepo) ExistsBySeat(ctx context.Context, screeningID uuid.UUID, seat int) (bool, error) {
	return false, nil
}

func (r *raceBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	return fmt.Errorf("create booking seat %d: %w", booking.SeatNumber, repository.ErrDuplicate)
}
