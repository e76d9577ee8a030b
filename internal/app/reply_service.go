package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/gofernie/fernie-eggs/internal/clock"
	"github.com/gofernie/fernie-eggs/internal/domain"
	"github.com/gofernie/fernie-eggs/internal/phone"
	"github.com/gofernie/fernie-eggs/internal/sms"
)

type ReplyRepository interface {
	WithStockLock(ctx context.Context, fn func(ctx context.Context) error) error
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetForUpdate(ctx context.Context, phoneKey string) (domain.Subscriber, error)
	Update(ctx context.Context, sub domain.Subscriber) error
	GetConfig(ctx context.Context) (domain.StockConfig, error)
	SaveConfig(ctx context.Context, cfg domain.StockConfig) error
	SumActiveOffers(ctx context.Context) (int, error)
	LogSMS(ctx context.Context, rec domain.SMSRecord) error
}

type ReplyService struct {
	repo   ReplyRepository
	sender sms.Sender
	clock  clock.Clock
	logger *log.Logger
}

func NewReplyService(repo ReplyRepository, sender sms.Sender, clk clock.Clock, logger *log.Logger) *ReplyService {
	if logger == nil {
		logger = log.Default()
	}
	return &ReplyService{
		repo:   repo,
		sender: sender,
		clock:  clk,
		logger: logger,
	}
}

const (
	msgNotOnList     = "You're not on the list yet. Visit the site to join the waitlist."
	msgNoActiveOffer = "No active offer right now. Reply WAIT to stay in line."
	msgOfferExpired  = "Sorry - that offer expired. Reply WAIT to stay in line for the next restock."
	msgSkipped       = "No worries. Reply WAIT if you want to stay in line for the next restock."
	msgStillInLine   = "Got it - you're still in line."
	msgOptedOut      = "You're opted out. Reply START to re-join."
	msgWelcomeBack   = "Welcome back - you're in line for the next restock."
	msgGotIt         = "Got it."
)

type ReplyInput struct {
	From string
	Body string
}

type ReplyResult struct {
	// Reply is the acknowledgment text; every inbound message gets one.
	Reply string
}

type claimNote struct {
	phone  string
	dozens int
}

// Handle maps one inbound message to at most one subscriber mutation and
// an acknowledgment. Unknown senders and unknown tokens never fail; the
// carrier always gets a response document.
func (s *ReplyService) Handle(ctx context.Context, in ReplyInput) (ReplyResult, error) {
	key := phone.Canonical(in.From)
	if key == "" {
		return ReplyResult{Reply: msgNotOnList}, nil
	}
	token := strings.ToUpper(strings.TrimSpace(in.Body))

	var reply string
	var claimed *claimNote

	err := s.repo.WithStockLock(ctx, func(ctx context.Context) error {
		return s.repo.WithTx(ctx, func(ctx context.Context) error {
			sub, err := s.repo.GetForUpdate(ctx, key)
			if err == domain.ErrSubscriberNotFound {
				reply = msgNotOnList
				return nil
			}
			if err != nil {
				return err
			}

			now := s.clock.Now()
			sub.RespondedAt = &now
			reconcile := false

			switch token {
			case "YES":
				switch {
				case sub.Status != domain.StatusOffered || sub.OfferedDozens < 1:
					reply = msgNoActiveOffer
				case sub.OfferLapsed(now):
					// Expiry wins over the late YES; the stock goes back
					// into the pot at the next restock's reconciliation.
					if err := sub.Expire(); err != nil {
						return err
					}
					reconcile = true
					reply = msgOfferExpired
				default:
					dozens := sub.OfferedDozens
					if err := sub.Claim(); err != nil {
						return err
					}
					reconcile = true
					reply = fmt.Sprintf("Claimed! You're down for %d dozen. We'll follow up about pickup.", dozens)
					claimed = &claimNote{phone: sub.Phone, dozens: dozens}
				}
			case "NO":
				if sub.Status == domain.StatusOffered {
					if err := sub.Skip(); err != nil {
						return err
					}
					reconcile = true
				}
				reply = msgSkipped
			case "WAIT":
				if sub.Status == domain.StatusOptOut {
					reply = msgOptedOut
					break
				}
				reconcile = sub.Status == domain.StatusOffered
				if err := sub.Rejoin(now); err != nil {
					return err
				}
				reply = msgStillInLine
			case "STOP", "UNSUBSCRIBE":
				reconcile = sub.Status == domain.StatusOffered
				sub.OptOut()
				reply = msgOptedOut
			case "START":
				if sub.Status == domain.StatusOptOut {
					if err := sub.Restart(now); err != nil {
						return err
					}
					reply = msgWelcomeBack
				} else {
					reply = msgGotIt
				}
			default:
				reply = msgGotIt
			}

			if err := s.repo.Update(ctx, sub); err != nil {
				return err
			}
			if reconcile {
				return s.reconcileActiveOffers(ctx)
			}
			return nil
		})
	})
	if err != nil {
		return ReplyResult{}, err
	}

	if claimed != nil {
		s.sendClaimConfirm(ctx, *claimed)
	}
	return ReplyResult{Reply: reply}, nil
}

func (s *ReplyService) reconcileActiveOffers(ctx context.Context) error {
	active, err := s.repo.SumActiveOffers(ctx)
	if err != nil {
		return err
	}
	cfg, err := s.repo.GetConfig(ctx)
	if err != nil {
		return err
	}
	cfg.ActiveOffers = active
	return s.repo.SaveConfig(ctx, cfg)
}

// sendClaimConfirm follows up a claim with its own SMS besides the webhook
// acknowledgment. Delivery is best effort; the claim is already recorded.
func (s *ReplyService) sendClaimConfirm(ctx context.Context, note claimNote) {
	body := sms.ClaimConfirmText(note.dozens)
	if err := s.sender.Send(ctx, phone.Dispatch(note.phone), body); err != nil {
		s.logger.Printf("WARN: claim confirm send failed phone=%s: %v", note.phone, err)
		return
	}
	if err := s.repo.LogSMS(ctx, domain.SMSRecord{
		ID:        uuid.NewString(),
		Phone:     note.phone,
		Kind:      domain.SMSKindConfirm,
		Body:      body,
		CreatedAt: s.clock.Now(),
	}); err != nil {
		s.logger.Printf("WARN: sms log failed phone=%s: %v", note.phone, err)
	}
}
