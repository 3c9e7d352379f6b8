package user

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestSessions() *SessionManager {
	return NewSessionManager([]byte("test-hmac-key-for-sessions"), false, "")
}

func newEchoContext(t *testing.T, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestSignVerifyRoundTrip(t *testing.T) {
	s := newTestSessions()

	signed := s.SignValue("user_abc123")
	got, err := s.VerifyValue(signed)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if got != "user_abc123" {
		t.Errorf("expected user_abc123, got %s", got)
	}
}

func TestVerifyValue_Rejections(t *testing.T) {
	s := newTestSessions()
	signed := s.SignValue("user_abc123")
	parts := strings.SplitN(signed, ".", 2)

	other := NewSessionManager([]byte("a-different-key"), false, "")

	tests := []struct {
		name  string
		value string
	}{
		{name: "missing separator", value: "justonechunk"},
		{name: "tampered payload", value: parts[0] + "x." + parts[1]},
		{name: "tampered signature", value: parts[0] + "." + parts[1][:len(parts[1])-2] + "zz"},
		{name: "empty", value: ""},
		{name: "foreign key", value: other.SignValue("user_abc123")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.VerifyValue(tt.value); err == nil {
				t.Error("expected verification to fail")
			}
		})
	}
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	res := rec.Result()
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestEstablish_SessionCookie(t *testing.T) {
	s := newTestSessions()
	c, rec := newEchoContext(t, httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil))

	s.Establish(c, "user_abc123", false)

	cookie := findCookie(t, rec, sessionCookieName)
	if cookie.MaxAge != 0 {
		t.Errorf("expected a session-only cookie, got max age %d", cookie.MaxAge)
	}
	if !cookie.HttpOnly {
		t.Error("expected an http-only cookie")
	}
	if got, err := s.VerifyValue(cookie.Value); err != nil || got != "user_abc123" {
		t.Errorf("cookie does not verify to the user id: %s %v", got, err)
	}
}

func TestEstablish_RememberCookie(t *testing.T) {
	s := newTestSessions()
	c, rec := newEchoContext(t, httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil))

	s.Establish(c, "user_abc123", true)

	cookie := findCookie(t, rec, sessionCookieName)
	if cookie.MaxAge != rememberMaxAge {
		t.Errorf("expected max age %d, got %d", rememberMaxAge, cookie.MaxAge)
	}
}

func TestTerminate(t *testing.T) {
	s := newTestSessions()
	c, rec := newEchoContext(t, httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil))

	s.Terminate(c)

	cookie := findCookie(t, rec, sessionCookieName)
	if cookie.MaxAge != -1 {
		t.Errorf("expected an expired cookie, got max age %d", cookie.MaxAge)
	}
	if cookie.Value != "" {
		t.Errorf("expected an empty value, got %s", cookie.Value)
	}
}

func TestCurrentUserID(t *testing.T) {
	s := newTestSessions()

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: s.SignValue("user_abc123")})
	c, _ := newEchoContext(t, req)

	got, err := s.CurrentUserID(c)
	if err != nil {
		t.Fatalf("expected a user id: %v", err)
	}
	if got != "user_abc123" {
		t.Errorf("expected user_abc123, got %s", got)
	}

	anon, _ := newEchoContext(t, httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil))
	if _, err := s.CurrentUserID(anon); err == nil {
		t.Error("expected an error for an anonymous request")
	}
}

func TestResolveRedirectTarget(t *testing.T) {
	s := newTestSessions()

	tests := []struct {
		name     string
		next     string
		hostURL  string
		expected string
	}{
		{name: "empty falls back", next: "", hostURL: "https://blog.example/", expected: "/"},
		{name: "relative path passes", next: "/account", hostURL: "https://blog.example/", expected: "/account"},
		{name: "relative with query passes", next: "/posts?page=2", hostURL: "https://blog.example/", expected: "/posts?page=2"},
		{name: "protocol-relative rejected", next: "//evil.example/x", hostURL: "https://blog.example/", expected: "/"},
		{name: "backslash rejected", next: `/\evil.example`, hostURL: "https://blog.example/", expected: "/"},
		{name: "backslash after slashes rejected", next: `/\/evil.example`, hostURL: "https://blog.example/", expected: "/"},
		{name: "embedded backslash rejected", next: `/a\b`, hostURL: "https://blog.example/", expected: "/"},
		{name: "same-host absolute passes", next: "https://blog.example/account", hostURL: "https://blog.example/", expected: "https://blog.example/account"},
		{name: "foreign host rejected", next: "https://evil.example/x", hostURL: "https://blog.example/", expected: "/"},
		{name: "non-http scheme rejected", next: "javascript:alert(1)", hostURL: "https://blog.example/", expected: "/"},
		{name: "relative without slash rejected", next: "account", hostURL: "https://blog.example/", expected: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.ResolveRedirectTarget(tt.next, tt.hostURL)
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestOAuthState_RoundTrip(t *testing.T) {
	s := newTestSessions()

	state := s.GenerateOAuthState("/account")
	if got := s.ExtractNext(state); got != "/account" {
		t.Errorf("expected /account, got %q", got)
	}
}

func TestOAuthState_NonceOnly(t *testing.T) {
	s := newTestSessions()

	state := s.GenerateOAuthState("")
	if got := s.ExtractNext(state); got != "" {
		t.Errorf("expected an empty next, got %q", got)
	}
}

func TestOAuthState_Tampered(t *testing.T) {
	s := newTestSessions()

	state := s.GenerateOAuthState("/account")
	if got := s.ExtractNext(state + "x"); got != "" {
		t.Errorf("expected tampered state to yield nothing, got %q", got)
	}

	other := NewSessionManager([]byte("a-different-key"), false, "")
	if got := s.ExtractNext(other.GenerateOAuthState("/account")); got != "" {
		t.Errorf("expected a foreign-key state to yield nothing, got %q", got)
	}
}
