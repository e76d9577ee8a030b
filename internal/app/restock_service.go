package app

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/gofernie/fernie-eggs/internal/clock"
	"github.com/gofernie/fernie-eggs/internal/domain"
	"github.com/gofernie/fernie-eggs/internal/phone"
	"github.com/gofernie/fernie-eggs/internal/sms"
)

type RestockRepository interface {
	// WithStockLock serializes restock and reply mutations on the stock
	// singleton; see storage/postgres.
	WithStockLock(ctx context.Context, fn func(ctx context.Context) error) error
	GetConfig(ctx context.Context) (domain.StockConfig, error)
	SaveConfig(ctx context.Context, cfg domain.StockConfig) error
	ListExpiredOffers(ctx context.Context, now time.Time) ([]domain.Subscriber, error)
	ListWaiting(ctx context.Context) ([]domain.Subscriber, error)
	SumActiveOffers(ctx context.Context) (int, error)
	Update(ctx context.Context, sub domain.Subscriber) error
	LogSMS(ctx context.Context, rec domain.SMSRecord) error
}

type RestockService struct {
	repo   RestockRepository
	sender sms.Sender
	clock  clock.Clock
	logger *log.Logger
}

func NewRestockService(repo RestockRepository, sender sms.Sender, clk clock.Clock, logger *log.Logger) *RestockService {
	if logger == nil {
		logger = log.Default()
	}
	return &RestockService{
		repo:   repo,
		sender: sender,
		clock:  clk,
		logger: logger,
	}
}

const maxRestockDozens = 999

type RestockInput struct {
	Dozens int
}

type RestockResult struct {
	Dozens       int
	Sent         int
	Failed       int
	ActiveOffers int
	HoldMinutes  int
}

// Restock records the new stock total and walks the waiting pool in strict
// join order, offering each subscriber min(requested, remaining) dozens
// until the stock uncommitted by outstanding offers runs out.
//
// Stale offers are swept first so they never count against stock, and
// ActiveOffers is recomputed from the live subscriber set both before and
// after the loop rather than trusted from the previous run. A subscriber
// is recorded OFFERED only after the gateway accepts the message; a failed
// send leaves them WAITING and their stock goes to the next in line.
func (s *RestockService) Restock(ctx context.Context, in RestockInput) (RestockResult, error) {
	dozens := in.Dozens
	if dozens < 0 {
		dozens = 0
	}
	if dozens > maxRestockDozens {
		dozens = maxRestockDozens
	}

	var result RestockResult
	err := s.repo.WithStockLock(ctx, func(ctx context.Context) error {
		now := s.clock.Now()

		cfg, err := s.repo.GetConfig(ctx)
		if err != nil {
			return err
		}
		holdMinutes := cfg.EffectiveHoldMinutes()

		cfg.Dozens = dozens
		restockDate := now.Truncate(24 * time.Hour)
		cfg.LastRestockDate = &restockDate

		if dozens <= 0 {
			// Sold-out reset: nothing to offer, outstanding offers void.
			cfg.ActiveOffers = 0
			if err := s.repo.SaveConfig(ctx, cfg); err != nil {
				return err
			}
			result = RestockResult{HoldMinutes: holdMinutes}
			return nil
		}

		// Record the new total before allocating so a partial failure
		// later never loses the restock itself.
		if err := s.repo.SaveConfig(ctx, cfg); err != nil {
			return err
		}

		expired, err := s.repo.ListExpiredOffers(ctx, now)
		if err != nil {
			return err
		}
		for _, sub := range expired {
			if err := sub.Expire(); err != nil {
				return err
			}
			if err := s.repo.Update(ctx, sub); err != nil {
				return err
			}
		}

		active, err := s.repo.SumActiveOffers(ctx)
		if err != nil {
			return err
		}

		available := dozens - active
		if available < 0 {
			available = 0
		}

		sent, failed := 0, 0
		if available > 0 {
			pool, err := s.repo.ListWaiting(ctx)
			if err != nil {
				return err
			}
			for _, sub := range pool {
				if available <= 0 {
					break
				}
				offered := sub.DozensRequested
				if offered > available {
					offered = available
				}
				if offered < 1 {
					continue
				}

				to := phone.Dispatch(sub.Phone)
				body := sms.OfferText(offered, sub.DozensRequested, holdMinutes)
				if err := s.sender.Send(ctx, to, body); err != nil {
					s.logger.Printf("WARN: offer send failed phone=%s: %v", sub.Phone, err)
					failed++
					continue
				}
				if err := sub.Offer(offered, now, cfg.HoldDuration()); err != nil {
					return err
				}
				if err := s.repo.Update(ctx, sub); err != nil {
					return err
				}
				if err := s.repo.LogSMS(ctx, domain.SMSRecord{
					ID:        uuid.NewString(),
					Phone:     sub.Phone,
					Kind:      domain.SMSKindOffer,
					Body:      body,
					CreatedAt: now,
				}); err != nil {
					s.logger.Printf("WARN: sms log failed phone=%s: %v", sub.Phone, err)
				}

				available -= offered
				sent++
			}
		}

		active, err = s.repo.SumActiveOffers(ctx)
		if err != nil {
			return err
		}
		cfg.ActiveOffers = active
		if err := s.repo.SaveConfig(ctx, cfg); err != nil {
			return err
		}

		result = RestockResult{
			Dozens:       dozens,
			Sent:         sent,
			Failed:       failed,
			ActiveOffers: active,
			HoldMinutes:  holdMinutes,
		}
		return nil
	})
	if err != nil {
		return RestockResult{}, err
	}
	return result, nil
}
