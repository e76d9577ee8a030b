package domain

import "time"

type Status string

const (
	StatusWaiting Status = "WAITING"
	StatusOffered Status = "OFFERED"
	StatusClaimed Status = "CLAIMED"
	StatusSkipped Status = "SKIPPED"
	StatusExpired Status = "EXPIRED"
	StatusOptOut  Status = "OPTOUT"
)

// Subscriber is one waitlist entry, keyed by canonical phone.
type Subscriber struct {
	Phone           string
	Status          Status
	DozensRequested int
	// OfferedDozens is non-zero only while Status is OFFERED.
	OfferedDozens   int
	AllocatedDozens int
	OptedOut        bool
	CreatedAt       time.Time
	OfferSentAt     *time.Time
	OfferExpiresAt  *time.Time
	RespondedAt     *time.Time
}

// NewSubscriber returns a WAITING entry joined at now.
func NewSubscriber(phone string, dozensRequested int, now time.Time) Subscriber {
	return Subscriber{
		Phone:           phone,
		Status:          StatusWaiting,
		DozensRequested: dozensRequested,
		CreatedAt:       now,
	}
}

// Active reports whether the subscriber holds a live spot in the queue.
func (s *Subscriber) Active() bool {
	return s.Status == StatusWaiting || s.Status == StatusOffered
}

// OfferLapsed reports whether an outstanding offer has passed its expiry.
func (s *Subscriber) OfferLapsed(now time.Time) bool {
	return s.Status == StatusOffered && s.OfferExpiresAt != nil && !s.OfferExpiresAt.After(now)
}

// Offer transitions WAITING -> OFFERED for the given quantity and hold window.
func (s *Subscriber) Offer(dozens int, sentAt time.Time, hold time.Duration) error {
	if s.Status != StatusWaiting {
		return ErrNotWaiting
	}
	if s.OptedOut {
		return ErrOptedOut
	}
	if dozens < 1 {
		return ErrInvalidQuantity
	}
	expires := sentAt.Add(hold)
	s.Status = StatusOffered
	s.OfferedDozens = dozens
	s.OfferSentAt = &sentAt
	s.OfferExpiresAt = &expires
	return nil
}

// Claim transitions OFFERED -> CLAIMED, locking in the offered quantity.
// The expiry check belongs to the caller; Claim assumes the offer is in date.
func (s *Subscriber) Claim() error {
	if s.Status != StatusOffered || s.OfferedDozens < 1 {
		return ErrNoActiveOffer
	}
	s.Status = StatusClaimed
	s.AllocatedDozens = s.OfferedDozens
	s.OfferedDozens = 0
	return nil
}

// Expire transitions OFFERED -> EXPIRED, releasing the offered quantity.
func (s *Subscriber) Expire() error {
	if s.Status != StatusOffered {
		return ErrNoActiveOffer
	}
	s.Status = StatusExpired
	s.OfferedDozens = 0
	return nil
}

// Skip transitions OFFERED -> SKIPPED when the subscriber declines.
func (s *Subscriber) Skip() error {
	if s.Status != StatusOffered {
		return ErrNoActiveOffer
	}
	s.Status = StatusSkipped
	s.OfferedDozens = 0
	return nil
}

// Rejoin puts the subscriber back in the waiting pool at the back of the
// line: CreatedAt is reset so the queue orders on the most recent signal
// of interest. Not permitted from OPTOUT.
func (s *Subscriber) Rejoin(now time.Time) error {
	if s.Status == StatusOptOut {
		return ErrOptedOut
	}
	s.Status = StatusWaiting
	s.OfferedDozens = 0
	s.OfferSentAt = nil
	s.OfferExpiresAt = nil
	s.CreatedAt = now
	return nil
}

// OptOut transitions any state to OPTOUT. Permanent until Restart.
func (s *Subscriber) OptOut() {
	s.Status = StatusOptOut
	s.OptedOut = true
	s.OfferedDozens = 0
	s.OfferSentAt = nil
	s.OfferExpiresAt = nil
}

// Restart reverses an opt-out, rejoining the queue at the back.
func (s *Subscriber) Restart(now time.Time) error {
	if s.Status != StatusOptOut {
		return ErrNotOptedOut
	}
	s.OptedOut = false
	s.Status = StatusWaiting
	s.CreatedAt = now
	return nil
}
