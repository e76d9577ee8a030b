package http

import (
	"context"
	"log"
	"net/http"

	"github.com/gofernie/fernie-eggs/internal/app"
)

// ReplyHandler is the minimal interface needed by the inbound webhook.
type ReplyHandler interface {
	Handle(ctx context.Context, in app.ReplyInput) (app.ReplyResult, error)
}

// HandleInboundSMS returns the carrier webhook handler. Twilio posts
// form-encoded From/Body and retries anything that is not a 200 with a
// reply document, so every path here answers with well-formed TwiML.
func HandleInboundSMS(svc ReplyHandler, logger *log.Logger) http.HandlerFunc {
	if logger == nil {
		logger = log.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		if err := r.ParseForm(); err != nil {
			logger.Printf("WARN: inbound sms form parse: %v", err)
			writeTwiML(w, "Sorry, something went wrong. Please try again.")
			return
		}

		res, err := svc.Handle(r.Context(), app.ReplyInput{
			From: r.PostFormValue("From"),
			Body: r.PostFormValue("Body"),
		})
		if err != nil {
			logger.Printf("ERROR: inbound sms handle: %v", err)
			writeTwiML(w, "Sorry, something went wrong. Please try again.")
			return
		}

		writeTwiML(w, res.Reply)
	}
}
