package domain

import "time"

type SMSKind string

const (
	SMSKindOffer   SMSKind = "offer"
	SMSKindConfirm SMSKind = "confirm"
)

// SMSRecord is the audit trail for one outbound message.
type SMSRecord struct {
	ID        string
	Phone     string
	Kind      SMSKind
	Body      string
	CreatedAt time.Time
}
