package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gofernie/fernie-eggs/internal/app"
	"github.com/gofernie/fernie-eggs/internal/domain"
)

// WaitlistJoiner is the minimal interface needed by the reserve endpoint.
type WaitlistJoiner interface {
	Join(ctx context.Context, in app.JoinInput) (app.JoinResult, error)
}

// HandleReserve returns an HTTP handler for joining the waitlist. The
// front end expects plain text: "OK" on a new spot, "Already in line"
// for an idempotent repeat.
func HandleReserve(svc WaitlistJoiner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req reserveRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.Phone == "" {
			writeError(w, http.StatusBadRequest, codeInvalidPhone, "missing phone")
			return
		}

		res, err := svc.Join(r.Context(), app.JoinInput{
			Phone:           req.Phone,
			DozensRequested: req.DozensRequested,
		})
		if err != nil {
			switch err {
			case domain.ErrInvalidPhone:
				writeError(w, http.StatusBadRequest, codeInvalidPhone, err.Error())
			case domain.ErrOptedOut:
				writeError(w, http.StatusConflict, codeOptedOut, "opted out; text START to re-join")
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if res.Already {
			_, _ = w.Write([]byte("Already in line"))
			return
		}
		_, _ = w.Write([]byte("OK"))
	}
}

type reserveRequest struct {
	Phone           string `json:"phone"`
	DozensRequested int    `json:"dozens_requested,omitempty"`
}
