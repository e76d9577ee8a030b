package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

func TestRateLimiter(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("enforces the burst per client", func(t *testing.T) {
		t.Parallel()
		rl := NewRateLimiter(rate.Limit(1), 2)
		wrapped := rl.Middleware(handler)

		for i := 0; i < 2; i++ {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/status", nil)
			req.RemoteAddr = "203.0.113.10:1234"
			wrapped.ServeHTTP(rec, req)
			if rec.Result().StatusCode != http.StatusOK {
				t.Fatalf("request %d: expected 200, got %d", i, rec.Result().StatusCode)
			}
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		req.RemoteAddr = "203.0.113.10:1234"
		wrapped.ServeHTTP(rec, req)

		res := rec.Result()
		if res.StatusCode != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", res.StatusCode)
		}
		if res.Header.Get("Retry-After") == "" {
			t.Fatalf("expected a Retry-After header")
		}
	})

	t.Run("clients are limited independently", func(t *testing.T) {
		t.Parallel()
		rl := NewRateLimiter(rate.Limit(1), 1)
		wrapped := rl.Middleware(handler)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		req.RemoteAddr = "203.0.113.20:1234"
		wrapped.ServeHTTP(rec, req)
		if rec.Result().StatusCode != http.StatusOK {
			t.Fatalf("first client: expected 200, got %d", rec.Result().StatusCode)
		}

		rec = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/status", nil)
		req.RemoteAddr = "203.0.113.21:1234"
		wrapped.ServeHTTP(rec, req)
		if rec.Result().StatusCode != http.StatusOK {
			t.Fatalf("second client: expected 200, got %d", rec.Result().StatusCode)
		}
	})
}
