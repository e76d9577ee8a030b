// Package sms delivers outbound text messages and owns their wording.
package sms

import "context"

// Sender delivers a single text message to a +-prefixed address.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}
