package sms

import "fmt"

// OfferText is the restock notification. A partial offer states the
// shortfall; both forms state the hold window.
func OfferText(offered, requested, holdMinutes int) string {
	if offered < requested {
		return fmt.Sprintf(
			"Eggs are in. We can offer %d of the %d dozen you asked for. Reply YES within %d min to claim.",
			offered, requested, holdMinutes,
		)
	}
	return fmt.Sprintf(
		"Eggs are in. Reply YES within %d min to claim %d dozen.",
		holdMinutes, offered,
	)
}

// ClaimConfirmText follows up a successful claim.
func ClaimConfirmText(dozens int) string {
	return fmt.Sprintf("Claimed! You're down for %d dozen.", dozens)
}
