package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"cinebook/internal/data/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BillRepository keeps committed checkout summaries for a limited time.
// Find returns nil, nil once a bill expired or was never stored.
type BillRepository interface {
	Save(ctx context.Context, bill *entity.BillDetail, ttl time.Duration) error
	Find(ctx context.Context, checkoutID uuid.UUID) (*entity.BillDetail, error)
}

// ==================== REDIS ====================

type redisBillRepository struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisBillRepository(client *redis.Client, log *zap.Logger) BillRepository {
	return &redisBillRepository{
		client: client,
		log:    log.With(zap.String("repository", "bill"), zap.String("store", "redis")),
	}
}

func billKey(checkoutID uuid.UUID) string {
	return "cinebook:bill:" + checkoutID.String()
}

func (r *redisBillRepository) Save(ctx context.Context, bill *entity.BillDetail, ttl time.Duration) error {
	payload, err := json.Marshal(bill)
	if err != nil {
		return fmt.Errorf("encode bill %s: %w", bill.CheckoutID.String(), err)
	}

	if err := r.client.Set(ctx, billKey(bill.CheckoutID), payload, ttl).Err(); err != nil {
		r.log.Error("Failed to store bill",
			zap.Error(err),
			zap.String("checkout_id", bill.CheckoutID.String()),
		)
		return fmt.Errorf("store bill %s: %w", bill.CheckoutID.String(), err)
	}
	return nil
}

func (r *redisBillRepository) Find(ctx context.Context, checkoutID uuid.UUID) (*entity.BillDetail, error) {
	payload, err := r.client.Get(ctx, billKey(checkoutID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to load bill",
			zap.Error(err),
			zap.String("checkout_id", checkoutID.String()),
		)
		return nil, fmt.Errorf("load bill %s: %w", checkoutID.String(), err)
	}

	var bill entity.BillDetail
	if err := json.Unmarshal(payload, &bill); err != nil {
		return nil, fmt.Errorf("decode bill %s: %w", checkoutID.String(), err)
	}
	return &bill, nil
}

// ==================== IN-MEMORY ====================

type memoryBill struct {
	bill      entity.BillDetail
	expiresAt time.Time
}

// MemoryBillRepository is the single-process fallback used when Redis is not configured.
type MemoryBillRepository struct {
	mu    sync.Mutex
	bills map[uuid.UUID]memoryBill
	now   func() time.Time
}

func NewMemoryBillRepository() *MemoryBillRepository {
	return &MemoryBillRepository{
		bills: make(map[uuid.UUID]memoryBill),
		now:   time.Now,
	}
}

func (r *MemoryBillRepository) Save(_ context.Context, bill *entity.BillDetail, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bills[bill.CheckoutID] = memoryBill{bill: cloneBill(bill), expiresAt: r.now().Add(ttl)}
	return nil
}

func (r *MemoryBillRepository) Find(_ context.Context, checkoutID uuid.UUID) (*entity.BillDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bills[checkoutID]
	if !ok {
		return nil, nil
	}
	if !r.now().Before(stored.expiresAt) {
		delete(r.bills, checkoutID)
		return nil, nil
	}
	bill := cloneBill(&stored.bill)
	return &bill, nil
}

// PurgeExpired drops every expired bill and returns how many were removed.
func (r *MemoryBillRepository) PurgeExpired(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, stored := range r.bills {
		if !now.Before(stored.expiresAt) {
			delete(r.bills, id)
			removed++
		}
	}
	return removed, nil
}

func cloneBill(b *entity.BillDetail) entity.BillDetail {
	out := *b
	out.BookingIDs = append([]uuid.UUID(nil), b.BookingIDs...)
	out.SeatNumbers = append([]int(nil), b.SeatNumbers...)
	out.Prices = append([]float64(nil), b.Prices...)
	return out
}
