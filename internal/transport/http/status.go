package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gofernie/fernie-eggs/internal/app"
)

// StatusReader is the minimal interface needed by the status endpoint.
type StatusReader interface {
	Snapshot(ctx context.Context) (app.StatusSnapshot, error)
}

// HandleStatus returns the public stock snapshot, always fresh.
func HandleStatus(svc StatusReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		snap, err := svc.Snapshot(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(statusResponse{
			Dozens: snap.Dozens,
			Price:  snap.Price,
		})
	}
}

type statusResponse struct {
	Dozens int     `json:"dozens"`
	Price  float64 `json:"price"`
}
