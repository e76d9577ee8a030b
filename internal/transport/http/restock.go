package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/gofernie/fernie-eggs/internal/app"
)

// Restocker is the minimal interface needed by the restock endpoint.
type Restocker interface {
	Restock(ctx context.Context, in app.RestockInput) (app.RestockResult, error)
}

// HandleRestock returns the admin restock handler. The caller proves
// itself with the shared admin key in the request body; everything else
// is the allocation engine's business.
func HandleRestock(svc Restocker, adminKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req restockRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		if subtle.ConstantTimeCompare([]byte(req.Key), []byte(adminKey)) != 1 {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized")
			return
		}

		res, err := svc.Restock(r.Context(), app.RestockInput{Dozens: req.Dozens})
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		resp := restockResponse{
			OK:           true,
			Dozens:       res.Dozens,
			Sent:         res.Sent,
			Failed:       res.Failed,
			ActiveOffers: res.ActiveOffers,
			HoldMinutes:  res.HoldMinutes,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type restockRequest struct {
	Key    string `json:"key"`
	Dozens int    `json:"dozens"`
}

type restockResponse struct {
	OK           bool `json:"ok"`
	Dozens       int  `json:"dozens"`
	Sent         int  `json:"sent"`
	Failed       int  `json:"failed,omitempty"`
	ActiveOffers int  `json:"active_offers"`
	HoldMinutes  int  `json:"hold_minutes"`
}
