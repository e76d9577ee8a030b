package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofernie/fernie-eggs/internal/app"
)

func TestHandleRestock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		body           string
		result         app.RestockResult
		serviceErr     error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "restock with offers sent",
			method: http.MethodPost,
			body:   `{"key":"secret","dozens":10}`,
			result: app.RestockResult{
				Dozens:       10,
				Sent:         3,
				ActiveOffers: 6,
				HoldMinutes:  45,
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"active_offers":6`,
		},
		{
			name:           "wrong key",
			method:         http.MethodPost,
			body:           `{"key":"nope","dozens":10}`,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"unauthorized"`,
		},
		{
			name:           "missing key",
			method:         http.MethodPost,
			body:           `{"dozens":10}`,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed body",
			method:         http.MethodPost,
			body:           `{"key":`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid_request_body"`,
		},
		{
			name:           "service failure",
			method:         http.MethodPost,
			body:           `{"key":"secret","dozens":10}`,
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"internal_error"`,
		},
		{
			name:           "method not allowed",
			method:         http.MethodGet,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubRestocker{result: tt.result, err: tt.serviceErr}

			req := httptest.NewRequest(tt.method, "/admin/restock", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			HandleRestock(svc, "secret").ServeHTTP(rec, req)

			res := rec.Result()
			if res.StatusCode != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, res.StatusCode)
			}
			if tt.expectedBody != "" && !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedBody, rec.Body.String())
			}
		})
	}
}

func TestHandleRestockOmitsZeroFailed(t *testing.T) {
	t.Parallel()

	svc := &stubRestocker{result: app.RestockResult{Dozens: 5, Sent: 2, HoldMinutes: 30}}
	req := httptest.NewRequest(http.MethodPost, "/admin/restock",
		strings.NewReader(`{"key":"secret","dozens":5}`))
	rec := httptest.NewRecorder()

	HandleRestock(svc, "secret").ServeHTTP(rec, req)

	if strings.Contains(rec.Body.String(), `"failed"`) {
		t.Fatalf("expected failed to be omitted when zero, got %q", rec.Body.String())
	}
}

type stubRestocker struct {
	result app.RestockResult
	err    error
}

func (s *stubRestocker) Restock(_ context.Context, _ app.RestockInput) (app.RestockResult, error) {
	return s.result, s.err
}
