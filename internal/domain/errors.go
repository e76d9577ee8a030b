package domain

import "errors"

var (
	ErrInvalidPhone       = errors.New("invalid phone")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrAlreadyQueued      = errors.New("already queued")
	ErrNotWaiting         = errors.New("subscriber not waiting")
	ErrNoActiveOffer      = errors.New("no active offer")
	ErrOptedOut           = errors.New("subscriber opted out")
	ErrNotOptedOut        = errors.New("subscriber not opted out")
	ErrConfigMissing      = errors.New("stock config missing")
)
