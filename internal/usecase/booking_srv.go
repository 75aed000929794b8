package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"cinebook/internal/data/entity"
	"cinebook/internal/data/repository"
	"cinebook/internal/dto/request"
	"cinebook/internal/dto/response"
	"cinebook/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BillPath is where a checkout token can be redeemed for its bill.
const BillPath = "/book/bill/"

const qrCodeSize = 256

type BookingService interface {
	GetBookingForm(ctx context.Context, screeningID string) (*response.BookingFormResponse, error)
	// BookSeats books every seat in seatInput or none of them.
	BookSeats(ctx context.Context, userID uuid.UUID, screeningID string, seatInput string) (*response.CheckoutResponse, error)
	GetBill(ctx context.Context, userID uuid.UUID, checkoutToken string) (*response.BillResponse, error)
	GetBillQRCode(ctx context.Context, userID uuid.UUID, checkoutToken string) ([]byte, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

// ReceiptSender delivers a bill to the customer. Failures never undo a booking.
type ReceiptSender interface {
	SendBillReceipt(ctx context.Context, to string, bill *entity.BillDetail) error
}

type bookingService struct {
	repo     *repository.Repository
	checkout utils.CheckoutConfig
	receipts ReceiptSender
	now      func() time.Time
	log      *zap.Logger
}

// NewBookingService wires the booking flow. receipts may be nil.
func NewBookingService(
	repo *repository.Repository,
	checkout utils.CheckoutConfig,
	receipts ReceiptSender,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:     repo,
		checkout: checkout,
		receipts: receipts,
		now:      time.Now,
		log:      log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) GetBookingForm(ctx context.Context, screeningID string) (*response.BookingFormResponse, error) {
	screening, err := s.findScreening(ctx, screeningID)
	if err != nil {
		return nil, err
	}

	chart, err := s.seatChart(ctx, screening)
	if err != nil {
		return nil, err
	}

	return &response.BookingFormResponse{
		Screening: response.ScreeningToResponse(screening),
		SeatChart: response.SeatChartToResponse(chart),
	}, nil
}

func (s *bookingService) BookSeats(ctx context.Context, userID uuid.UUID, screeningID string, seatInput string) (*response.CheckoutResponse, error) {
	screening, err := s.findScreening(ctx, screeningID)
	if err != nil {
		return nil, err
	}

	maxSeat := (screening.HallSize / SeatsPerRow) * SeatsPerRow
	seats, err := ParseSeatNumbers(seatInput, maxSeat)
	if err != nil {
		s.log.Warn("Rejected seat selection",
			zap.Error(err),
			zap.String("screening_id", screening.ID.String()),
			zap.String("input", seatInput),
		)
		return nil, err
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", userID.String(), err)
	}
	if user == nil {
		return nil, notFound("user")
	}

	now := s.now()
	var bill *entity.BillDetail

	err = s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		// Lock the screening so concurrent checkouts for it run one at a time.
		locked, err := s.repo.Screening.FindDetailForUpdate(ctx, screening.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return notFound("screening")
		}

		bill = &entity.BillDetail{
			CheckoutID:    uuid.New(),
			UserID:        user.ID,
			UserName:      user.Username,
			UserEmail:     user.Email,
			ScreeningID:   locked.ID,
			CinemaName:    locked.CinemaName,
			HallName:      locked.HallName,
			MovieName:     locked.MovieTitle,
			ScreeningTime: locked.StartsAt,
			CreatedAt:     now,
		}

		for _, seat := range seats {
			taken, err := s.repo.Booking.ExistsBySeat(ctx, locked.ID, seat)
			if err != nil {
				return err
			}
			if taken {
				return &SeatConflictError{SeatNumber: seat}
			}

			booking := &entity.Booking{
				BaseSimple:  entity.NewBaseSimple(now),
				UserID:      user.ID,
				ScreeningID: locked.ID,
				SeatNumber:  seat,
			}
			if err := s.repo.Booking.Create(ctx, booking); err != nil {
				if errors.Is(err, repository.ErrDuplicate) {
					return &SeatConflictError{SeatNumber: seat}
				}
				return err
			}

			bill.Add(booking.ID, seat, locked.Price)
		}

		// Stored last so a store failure still rolls the seats back.
		return s.repo.Bill.Save(ctx, bill, s.checkout.TTL())
	})

	var conflict *SeatConflictError
	if errors.As(err, &conflict) {
		s.log.Info("Seat already booked, checkout rolled back",
			zap.String("user_id", userID.String()),
			zap.String("screening_id", screening.ID.String()),
			zap.Int("seat_number", conflict.SeatNumber),
			zap.Ints("requested", seats),
		)
		if chart, chartErr := s.seatChart(ctx, screening); chartErr == nil {
			resp := response.SeatChartToResponse(chart)
			conflict.Chart = &resp
		}
		return nil, conflict
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.log.Error("Failed to book seats",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("screening_id", screening.ID.String()),
		)
		return nil, fmt.Errorf("book seats: %w", err)
	}

	token, expiresAt, err := utils.GenerateCheckoutToken([]byte(s.checkout.Secret), bill.CheckoutID, user.ID, now, s.checkout.TTL())
	if err != nil {
		s.log.Error("Failed to sign checkout token", zap.Error(err), zap.String("checkout_id", bill.CheckoutID.String()))
		return nil, fmt.Errorf("issue checkout token: %w", err)
	}

	s.log.Info("Seats booked",
		zap.String("checkout_id", bill.CheckoutID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("screening_id", screening.ID.String()),
		zap.Ints("seats", bill.SeatNumbers),
		zap.Float64("price_sum", bill.Total()),
	)

	if s.receipts != nil {
		go s.sendReceipt(user.Email, bill)
	}

	return &response.CheckoutResponse{
		CheckoutToken: token,
		BillURL:       BillURL(token),
		ExpiresAt:     expiresAt,
		SeatNumbers:   bill.SeatNumbers,
		PriceSum:      bill.Total(),
	}, nil
}

func (s *bookingService) GetBill(ctx context.Context, userID uuid.UUID, checkoutToken string) (*response.BillResponse, error) {
	bill, err := s.loadBill(ctx, userID, checkoutToken)
	if err != nil {
		return nil, err
	}
	resp := response.BillToResponse(bill)
	return &resp, nil
}

func (s *bookingService) GetBillQRCode(ctx context.Context, userID uuid.UUID, checkoutToken string) ([]byte, error) {
	if _, err := s.loadBill(ctx, userID, checkoutToken); err != nil {
		return nil, err
	}

	png, err := utils.GenerateQRCode(checkoutToken, qrCodeSize)
	if err != nil {
		s.log.Error("Failed to render bill QR code", zap.Error(err))
		return nil, err
	}
	return png, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	items := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, response.BookingToResponse(b))
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

// ==================== HELPER METHODS ====================

// BillURL is the bill step link handed out with a checkout token.
func BillURL(token string) string {
	return BillPath + "?token=" + url.QueryEscape(token)
}

func (s *bookingService) findScreening(ctx context.Context, screeningID string) (*entity.ScreeningDetail, error) {
	id, err := uuid.Parse(screeningID)
	if err != nil {
		return nil, notFound("screening")
	}

	screening, err := s.repo.Screening.FindDetailByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load screening %s: %w", screeningID, err)
	}
	if screening == nil {
		return nil, notFound("screening")
	}
	return screening, nil
}

func (s *bookingService) seatChart(ctx context.Context, screening *entity.ScreeningDetail) (entity.SeatChart, error) {
	booked, err := s.repo.Booking.FindSeatNumbersByScreening(ctx, screening.ID)
	if err != nil {
		return nil, fmt.Errorf("load booked seats: %w", err)
	}
	return BuildSeatChart(screening.HallSize, booked, s.log), nil
}

func (s *bookingService) loadBill(ctx context.Context, userID uuid.UUID, checkoutToken string) (*entity.BillDetail, error) {
	if checkoutToken == "" {
		return nil, fmt.Errorf("%w: missing token", ErrInvalidCheckout)
	}

	claims, err := utils.ParseCheckoutToken([]byte(s.checkout.Secret), checkoutToken)
	if errors.Is(err, utils.ErrCheckoutTokenExpired) {
		return nil, ErrCheckoutExpired
	}
	if err != nil {
		s.log.Warn("Rejected checkout token", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, ErrInvalidCheckout
	}

	if claims.UserID != userID {
		s.log.Warn("Checkout token used by another user",
			zap.String("user_id", userID.String()),
			zap.String("owner_id", claims.UserID.String()),
		)
		return nil, fmt.Errorf("bill belongs to another user: %w", ErrForbidden)
	}

	bill, err := s.repo.Bill.Find(ctx, claims.CheckoutID)
	if err != nil {
		return nil, fmt.Errorf("load bill: %w", err)
	}
	if bill == nil {
		return nil, ErrCheckoutExpired
	}
	if bill.UserID != userID {
		return nil, fmt.Errorf("bill belongs to another user: %w", ErrForbidden)
	}
	return bill, nil
}

func (s *bookingService) sendReceipt(to string, bill *entity.BillDetail) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.receipts.SendBillReceipt(ctx, to, bill); err != nil {
		s.log.Error("Failed to send bill receipt",
			zap.Error(err),
			zap.String("checkout_id", bill.CheckoutID.String()),
		)
	}
}
