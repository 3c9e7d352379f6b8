package user

import (
	"context"
	"log/slog"

	"github.com/eleven-am/blog-backend/internal/shared"
	"github.com/labstack/echo/v4"
)

type contextKey string

const userKey contextKey = "current_user"

type Middleware struct {
	sessions *SessionManager
	store    *Store
	logger   *slog.Logger
}

func NewMiddleware(sessions *SessionManager, store *Store, logger *slog.Logger) *Middleware {
	return &Middleware{
		sessions: sessions,
		store:    store,
		logger:   logger,
	}
}

func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := m.resolve(c)
		if err != nil {
			return shared.Unauthorized("auth_required", "authentication required")
		}
		setUser(c, u)
		return next(c)
	}
}

func (m *Middleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if u, err := m.resolve(c); err == nil {
			setUser(c, u)
		}
		return next(c)
	}
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.Authenticate(func(c echo.Context) error {
		u := CurrentUser(c)
		if u == nil || !u.IsAdmin {
			return shared.Forbidden("admin_required", "admin access required")
		}
		return next(c)
	})
}

func (m *Middleware) resolve(c echo.Context) (*User, error) {
	id, err := m.sessions.CurrentUserID(c)
	if err != nil {
		return nil, err
	}

	u, err := m.store.GetByID(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}

	// Fail open: a broken last-seen write must not lock users out, but it
	// should still be visible in debug logs.
	if err := m.store.TouchLastSeen(c.Request().Context(), u.ID); err != nil {
		m.logger.Debug("failed to touch last seen", "error", err, "user_id", u.ID)
	}
	return u, nil
}

func setUser(c echo.Context, u *User) {
	ctx := context.WithValue(c.Request().Context(), userKey, u)
	c.SetRequest(c.Request().WithContext(ctx))
}

// CurrentUser returns the authenticated user for the request, or nil for
// anonymous requests.
func CurrentUser(c echo.Context) *User {
	u, ok := c.Request().Context().Value(userKey).(*User)
	if !ok {
		return nil
	}
	return u
}

// SetUserForTest injects a user into the request context.
func SetUserForTest(c echo.Context, u *User) {
	setUser(c, u)
}
