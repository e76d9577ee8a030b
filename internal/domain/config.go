package domain

import "time"

// MinHoldMinutes is the floor for the offer validity window.
const MinHoldMinutes = 30

// StockConfig is the singleton stock record.
type StockConfig struct {
	// Dozens is the total stock set by the most recent restock.
	Dozens int
	// ActiveOffers is the sum of OfferedDozens over all OFFERED
	// subscribers. It is recomputed from the live set on every
	// allocation pass, never incrementally trusted.
	ActiveOffers    int
	HoldMinutes     int
	Price           float64
	LastRestockDate *time.Time
}

// EffectiveHoldMinutes applies the 30 minute floor.
func (c StockConfig) EffectiveHoldMinutes() int {
	if c.HoldMinutes < MinHoldMinutes {
		return MinHoldMinutes
	}
	return c.HoldMinutes
}

// HoldDuration is the offer validity window as a duration.
func (c StockConfig) HoldDuration() time.Duration {
	return time.Duration(c.EffectiveHoldMinutes()) * time.Minute
}
