package analytics

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// deadStore points at an address nothing listens on, so every redis call
// fails. Tracking must degrade gracefully when that happens.
func deadStore() *Store {
	return NewStore(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}))
}

func TestMiddleware_TrackingFailureDoesNotFailRequest(t *testing.T) {
	h := NewHandler(deadStore(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	called := false
	next := func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}

	if err := h.Middleware()(next)(c); err != nil {
		t.Fatalf("request failed because of tracking: %v", err)
	}
	if !called {
		t.Error("expected the request to reach the handler")
	}
}

func TestMiddleware_SkipsUntrackedPaths(t *testing.T) {
	// The asset and dashboard prefixes never touch redis at all, so even a
	// dead store cannot slow them down with a connection attempt.
	h := NewHandler(deadStore(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	for _, path := range []string{"/assets/app.css", "/v1/dashboard/stats"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(req, rec)

			next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
			if err := h.Middleware()(next)(c); err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Errorf("expected 200, got %d", rec.Code)
			}
		})
	}
}

func TestDayKeys(t *testing.T) {
	if got := dayKey("2026-08-29"); got != "analytics:2026-08-29" {
		t.Errorf("unexpected day key %s", got)
	}
	if got := visitorsKey("2026-08-29"); got != "analytics:2026-08-29:visitors" {
		t.Errorf("unexpected visitors key %s", got)
	}
}
