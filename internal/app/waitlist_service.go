package app

import (
	"context"

	"github.com/gofernie/fernie-eggs/internal/clock"
	"github.com/gofernie/fernie-eggs/internal/domain"
	"github.com/gofernie/fernie-eggs/internal/phone"
)

type WaitlistRepository interface {
	FindByPhone(ctx context.Context, phoneKey string) (*domain.Subscriber, error)
	Create(ctx context.Context, sub domain.Subscriber) error
	Update(ctx context.Context, sub domain.Subscriber) error
}

type WaitlistService struct {
	repo  WaitlistRepository
	clock clock.Clock
}

func NewWaitlistService(repo WaitlistRepository, clk clock.Clock) *WaitlistService {
	return &WaitlistService{
		repo:  repo,
		clock: clk,
	}
}

const (
	minDozensRequested = 1
	maxDozensRequested = 12
)

type JoinInput struct {
	Phone           string
	DozensRequested int
}

type JoinResult struct {
	Subscriber domain.Subscriber
	// Already is true when the phone already held a live spot; the call
	// is an idempotent no-op in that case.
	Already bool
}

// Join puts a phone on the waitlist. A phone with a live WAITING/OFFERED
// entry is left untouched; a lapsed entry (EXPIRED, SKIPPED, CLAIMED)
// re-enters the queue at the back. Opted-out numbers must text START.
func (s *WaitlistService) Join(ctx context.Context, in JoinInput) (JoinResult, error) {
	if !phone.ValidNANP(in.Phone) {
		return JoinResult{}, domain.ErrInvalidPhone
	}
	key := phone.Canonical(in.Phone)

	qty := in.DozensRequested
	if qty < minDozensRequested {
		qty = minDozensRequested
	}
	if qty > maxDozensRequested {
		qty = maxDozensRequested
	}

	now := s.clock.Now()

	existing, err := s.repo.FindByPhone(ctx, key)
	if err != nil {
		return JoinResult{}, err
	}
	if existing != nil {
		if existing.Active() {
			return JoinResult{Subscriber: *existing, Already: true}, nil
		}
		if existing.Status == domain.StatusOptOut {
			return JoinResult{}, domain.ErrOptedOut
		}
		if err := existing.Rejoin(now); err != nil {
			return JoinResult{}, err
		}
		existing.DozensRequested = qty
		if err := s.repo.Update(ctx, *existing); err != nil {
			return JoinResult{}, err
		}
		return JoinResult{Subscriber: *existing}, nil
	}

	sub := domain.NewSubscriber(key, qty, now)
	if err := s.repo.Create(ctx, sub); err != nil {
		// A concurrent join for the same phone wins the insert; treat the
		// loser as the idempotent duplicate it is.
		if err == domain.ErrAlreadyQueued {
			if existing, ferr := s.repo.FindByPhone(ctx, key); ferr == nil && existing != nil {
				return JoinResult{Subscriber: *existing, Already: true}, nil
			}
		}
		return JoinResult{}, err
	}
	return JoinResult{Subscriber: sub}, nil
}
