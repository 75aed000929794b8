package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"cinebook/internal/data/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func sampleBill() *entity.BillDetail {
	bill := &entity.BillDetail{
		CheckoutID:    uuid.New(),
		UserID:        uuid.New(),
		UserName:      "jane",
		ScreeningID:   uuid.New(),
		MovieName:     "Arrival",
		ScreeningTime: time.Date(2026, 3, 1, 19, 30, 0, 0, time.UTC),
		CreatedAt:     time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}
	bill.Add(uuid.New(), 1, 10)
	bill.Add(uuid.New(), 2, 10)
	return bill
}

func TestMemoryBillRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("find before and after expiry", func(t *testing.T) {
		now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
		repo := NewMemoryBillRepository()
		repo.now = func() time.Time { return now }

		bill := sampleBill()
		if err := repo.Save(ctx, bill, 30*time.Minute); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repo.Find(ctx, bill.CheckoutID)
		if err != nil || got == nil {
			t.Fatalf("expected bill, got %v, %v", got, err)
		}
		if got.Total() != 20 || got.UserName != "jane" {
			t.Fatalf("unexpected bill %+v", got)
		}

		now = now.Add(30 * time.Minute)
		got, err = repo.Find(ctx, bill.CheckoutID)
		if err != nil || got != nil {
			t.Fatalf("expected expired bill to be gone, got %v, %v", got, err)
		}
	})

	t.Run("stored bill is isolated from caller mutation", func(t *testing.T) {
		repo := NewMemoryBillRepository()
		bill := sampleBill()
		_ = repo.Save(ctx, bill, time.Minute)

		bill.SeatNumbers[0] = 99
		got, _ := repo.Find(ctx, bill.CheckoutID)
		if got.SeatNumbers[0] != 1 {
			t.Fatalf("expected stored copy to keep seat 1, got %d", got.SeatNumbers[0])
		}
	})

	t.Run("purge removes only expired bills", func(t *testing.T) {
		now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
		repo := NewMemoryBillRepository()
		repo.now = func() time.Time { return now }

		short, long := sampleBill(), sampleBill()
		_ = repo.Save(ctx, short, time.Minute)
		_ = repo.Save(ctx, long, time.Hour)

		now = now.Add(2 * time.Minute)
		removed, err := repo.PurgeExpired(ctx)
		if err != nil || removed != 1 {
			t.Fatalf("expected 1 purged, got %d, %v", removed, err)
		}
		if got, _ := repo.Find(ctx, long.CheckoutID); got == nil {
			t.Fatalf("expected long-lived bill to remain")
		}
	})

	t.Run("unknown checkout", func(t *testing.T) {
		repo := NewMemoryBillRepository()
		got, err := repo.Find(ctx, uuid.New())
		if err != nil || got != nil {
			t.Fatalf("expected nil, nil; got %v, %v", got, err)
		}
	})
}

func TestRedisBillRepository(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("skipping Redis integration tests: %v", err)
	}

	repo := NewRedisBillRepository(client, zap.NewNop())
	bill := sampleBill()

	if err := repo.Save(ctx, bill, time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	t.Cleanup(func() { client.Del(context.Background(), billKey(bill.CheckoutID)) })

	got, err := repo.Find(ctx, bill.CheckoutID)
	if err != nil || got == nil {
		t.Fatalf("expected bill, got %v, %v", got, err)
	}
	if got.Total() != 20 || len(got.BookingIDs) != 2 || !got.ScreeningTime.Equal(bill.ScreeningTime) {
		t.Fatalf("unexpected bill %+v", got)
	}

	ttl, err := client.TTL(ctx, billKey(bill.CheckoutID)).Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Fatalf("expected ttl within a minute, got %v, %v", ttl, err)
	}

	missing, err := repo.Find(ctx, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil; got %v, %v", missing, err)
	}
}
