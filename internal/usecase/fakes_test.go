package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"cinebook/internal/data/entity"
	"cinebook/internal/data/repository"

	"github.com/google/uuid"
)

// fakeDB backs the fake repositories. WithTx restores the bookings it saw on
// entry when fn fails, which is all the rollback these tests observe.
type fakeDB struct {
	mu         sync.Mutex
	users      map[uuid.UUID]*entity.User
	screenings map[uuid.UUID]*entity.ScreeningDetail
	bookings   map[uuid.UUID]map[int]*entity.Booking
	checked    []int
	locks      int
	failInsert error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:      map[uuid.UUID]*entity.User{},
		screenings: map[uuid.UUID]*entity.ScreeningDetail{},
		bookings:   map[uuid.UUID]map[int]*entity.Booking{},
	}
}

func (db *fakeDB) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	db.mu.Lock()
	snapshot := make(map[uuid.UUID]map[int]*entity.Booking, len(db.bookings))
	for screeningID, seats := range db.bookings {
		copied := make(map[int]*entity.Booking, len(seats))
		for seat, b := range seats {
			copied[seat] = b
		}
		snapshot[screeningID] = copied
	}
	db.mu.Unlock()

	if err := fn(ctx); err != nil {
		db.mu.Lock()
		db.bookings = snapshot
		db.mu.Unlock()
		return err
	}
	return nil
}

func (db *fakeDB) addUser(name string) *entity.User {
	u := &entity.User{
		Base:     entity.Base{ID: uuid.New()},
		Username: name,
		Email:    name + "@example.com",
		Role:     entity.RoleCustomer,
		IsActive: true,
	}
	db.users[u.ID] = u
	return u
}

func (db *fakeDB) addScreening(hallSize int, price float64) *entity.ScreeningDetail {
	s := &entity.ScreeningDetail{
		ScreeningTime: entity.ScreeningTime{
			BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
			MovieID:      uuid.New(),
			CinemaID:     uuid.New(),
			HallID:       uuid.New(),
			StartsAt:     time.Date(2026, 3, 1, 19, 30, 0, 0, time.UTC),
			Price:        price,
		},
		MovieTitle: "Arrival",
		CinemaName: "Grand",
		HallName:   "Hall 1",
		HallSize:   hallSize,
	}
	db.screenings[s.ID] = s
	return s
}

func (db *fakeDB) book(screeningID, userID uuid.UUID, seat int) {
	if db.bookings[screeningID] == nil {
		db.bookings[screeningID] = map[int]*entity.Booking{}
	}
	db.bookings[screeningID][seat] = &entity.Booking{
		BaseSimple:  entity.BaseSimple{ID: uuid.New()},
		UserID:      userID,
		ScreeningID: screeningID,
		SeatNumber:  seat,
	}
}

func (db *fakeDB) bookedSeats(screeningID uuid.UUID) []int {
	db.mu.Lock()
	defer db.mu.Unlock()
	var seats []int
	for seat := range db.bookings[screeningID] {
		seats = append(seats, seat)
	}
	sort.Ints(seats)
	return seats
}

type fakeUserRepo struct {
	repository.UserRepository
	db *fakeDB
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.db.users[id], nil
}

type fakeScreeningRepo struct {
	repository.ScreeningRepository
	db *fakeDB
}

func (r *fakeScreeningRepo) FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.ScreeningDetail, error) {
	return r.db.screenings[id], nil
}

func (r *fakeScreeningRepo) FindDetailForUpdate(ctx context.Context, id uuid.UUID) (*entity.ScreeningDetail, error) {
	r.db.mu.Lock()
	r.db.locks++
	r.db.mu.Unlock()
	return r.db.screenings[id], nil
}

type fakeBookingRepo struct {
	repository.BookingRepository
	db *fakeDB
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	if r.db.failInsert != nil {
		return r.db.failInsert
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, taken := r.db.bookings[booking.ScreeningID][booking.SeatNumber]; taken {
		return repository.ErrDuplicate
	}
	if r.db.bookings[booking.ScreeningID] == nil {
		r.db.bookings[booking.ScreeningID] = map[int]*entity.Booking{}
	}
	r.db.bookings[booking.ScreeningID][booking.SeatNumber] = booking
	return nil
}

func (r *fakeBookingRepo) ExistsBySeat(ctx context.Context, screeningID uuid.UUID, seat int) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.checked = append(r.db.checked, seat)
	_, taken := r.db.bookings[screeningID][seat]
	return taken, nil
}

func (r *fakeBookingRepo) FindSeatNumbersByScreening(ctx context.Context, screeningID uuid.UUID) ([]int, error) {
	return r.db.bookedSeats(screeningID), nil
}

type fakeBillRepo struct {
	mu    sync.Mutex
	bills map[uuid.UUID]*entity.BillDetail
	err   error
}

func newFakeBillRepo() *fakeBillRepo {
	return &fakeBillRepo{bills: map[uuid.UUID]*entity.BillDetail{}}
}

func (r *fakeBillRepo) Save(ctx context.Context, bill *entity.BillDetail, ttl time.Duration) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bills[bill.CheckoutID] = bill
	return nil
}

func (r *fakeBillRepo) Find(ctx context.Context, checkoutID uuid.UUID) (*entity.BillDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bills[checkoutID], nil
}

func (r *fakeBillRepo) drop(checkoutID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bills, checkoutID)
}

func newFakeRepository(db *fakeDB, bills repository.BillRepository) *repository.Repository {
	return &repository.Repository{
		Tx:        db,
		User:      &fakeUserRepo{db: db},
		Screening: &fakeScreeningRepo{db: db},
		Booking:   &fakeBookingRepo{db: db},
		Bill:      bills,
	}
}

type fakeReceipts struct {
	sent chan *entity.BillDetail
}

func (f *fakeReceipts) SendBillReceipt(ctx context.Context, to string, bill *entity.BillDetail) error {
	f.sent <- bill
	return nil
}
