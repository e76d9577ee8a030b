package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gofernie/fernie-eggs/internal/domain"
	"github.com/gofernie/fernie-eggs/internal/testutil"
)

func TestConfigRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewConfigRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("GetConfig returns seeded defaults", func(t *testing.T) {
		ctx := context.Background()
		testutil.ResetAll(t, ctx, pool)

		cfg, err := repo.GetConfig(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Dozens != 0 || cfg.ActiveOffers != 0 {
			t.Fatalf("unexpected stock: %+v", cfg)
		}
		if cfg.HoldMinutes != 30 || cfg.Price != 7 {
			t.Fatalf("unexpected defaults: %+v", cfg)
		}
		if cfg.LastRestockDate != nil {
			t.Fatalf("expected no restock date, got %v", cfg.LastRestockDate)
		}
	})

	t.Run("SaveConfig round-trips", func(t *testing.T) {
		ctx := context.Background()
		testutil.ResetAll(t, ctx, pool)
		restocked := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

		err := repo.SaveConfig(ctx, domain.StockConfig{
			Dozens:          12,
			ActiveOffers:    5,
			HoldMinutes:     45,
			Price:           8.5,
			LastRestockDate: &restocked,
		})
		if err != nil {
			t.Fatalf("save: %v", err)
		}

		cfg, err := repo.GetConfig(ctx)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if cfg.Dozens != 12 || cfg.ActiveOffers != 5 || cfg.HoldMinutes != 45 || cfg.Price != 8.5 {
			t.Fatalf("unexpected config: %+v", cfg)
		}
		if cfg.LastRestockDate == nil || !cfg.LastRestockDate.Equal(restocked) {
			t.Fatalf("unexpected restock date: %v", cfg.LastRestockDate)
		}
	})

	t.Run("SaveConfig inside tx is visible after commit", func(t *testing.T) {
		ctx := context.Background()
		testutil.ResetAll(t, ctx, pool)
		subs := NewSubscriberRepository(pool)

		err := subs.WithTx(ctx, func(txCtx context.Context) error {
			return repo.SaveConfig(txCtx, domain.StockConfig{Dozens: 3, HoldMinutes: 30, Price: 7})
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}

		cfg, err := repo.GetConfig(ctx)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if cfg.Dozens != 3 {
			t.Fatalf("expected dozens 3, got %d", cfg.Dozens)
		}
	})
}

func TestSMSLogRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewSMSLogRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("LogSMS persists a row", func(t *testing.T) {
		ctx := context.Background()
		testutil.ResetAll(t, ctx, pool)

		rec := domain.SMSRecord{
			ID:        uuid.NewString(),
			Phone:     "15550100001",
			Kind:      domain.SMSKindOffer,
			Body:      "Eggs are in. Reply YES within 30 min to claim 2 dozen.",
			CreatedAt: time.Now().UTC(),
		}
		if err := repo.LogSMS(ctx, rec); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var count int
		if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM sms_log WHERE id = $1", rec.ID).Scan(&count); err != nil {
			t.Fatalf("query count: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected row persisted, got count %d", count)
		}
	})
}
