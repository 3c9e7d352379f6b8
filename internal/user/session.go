package user

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	sessionCookieName = "blog_session"
	rememberMaxAge    = 30 * 24 * 60 * 60
	defaultLanding    = "/"
)

// SessionManager binds a request to an authenticated user id via an
// HMAC-signed cookie. With remember set the cookie survives the browser
// session for thirty days, otherwise it is session-only.
type SessionManager struct {
	hmacKey []byte
	secure  bool
	domain  string
}

func NewSessionManager(hmacKey []byte, secure bool, domain string) *SessionManager {
	return &SessionManager{
		hmacKey: hmacKey,
		secure:  secure,
		domain:  domain,
	}
}

func (s *SessionManager) Establish(c echo.Context, userID string, remember bool) {
	maxAge := 0
	if remember {
		maxAge = rememberMaxAge
	}

	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    s.SignValue(userID),
		Path:     "/",
		Domain:   s.domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Terminate clears the session cookie. Terminating an anonymous session is
// a no-op.
func (s *SessionManager) Terminate(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   s.domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// CurrentUserID returns the authenticated user id bound to the request, or
// an error for anonymous or tampered sessions.
func (s *SessionManager) CurrentUserID(c echo.Context) (string, error) {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil {
		return "", err
	}
	return s.VerifyValue(cookie.Value)
}

// ResolveRedirectTarget validates a caller-supplied next target. Relative
// paths pass through; absolute URLs pass only when http/https and on the
// requesting host. Anything else falls back to the default landing page,
// closing the open-redirect hole a crafted next parameter would open.
func (s *SessionManager) ResolveRedirectTarget(requestedNext, requestHostURL string) string {
	if requestedNext == "" {
		return defaultLanding
	}

	// Browsers treat backslashes as slashes when following a redirect, so
	// "/\evil.example" becomes the protocol-relative "//evil.example".
	if strings.ContainsRune(requestedNext, '\\') {
		return defaultLanding
	}

	next, err := url.Parse(requestedNext)
	if err != nil {
		return defaultLanding
	}

	if next.Scheme == "" && next.Host == "" {
		if strings.HasPrefix(next.Path, "/") && !strings.HasPrefix(next.Path, "//") {
			return requestedNext
		}
		return defaultLanding
	}

	if next.Scheme != "http" && next.Scheme != "https" {
		return defaultLanding
	}

	host, err := url.Parse(requestHostURL)
	if err != nil || host.Host == "" || next.Host != host.Host {
		return defaultLanding
	}

	return requestedNext
}

func (s *SessionManager) SignValue(value string) string {
	mac := hmac.New(sha256.New, s.hmacKey)
	mac.Write([]byte(value))
	sig := base64.URLEncoding.EncodeToString(mac.Sum(nil))
	return base64.URLEncoding.EncodeToString([]byte(value)) + "." + sig
}

func (s *SessionManager) VerifyValue(signed string) (string, error) {
	parts := strings.SplitN(signed, ".", 2)
	if len(parts) != 2 {
		return "", errors.New("invalid signature format")
	}

	payload, err := base64.URLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, s.hmacKey)
	mac.Write(payload)
	expectedSig := base64.URLEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(parts[1]), []byte(expectedSig)) {
		return "", errors.New("invalid signature")
	}

	return string(payload), nil
}

// GenerateOAuthState signs a random nonce plus the sanitized next target so
// the callback can restore where the user was headed.
func (s *SessionManager) GenerateOAuthState(next string) string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}

	state := base64.URLEncoding.EncodeToString(b)
	if next != "" {
		state += "|" + next
	}

	return s.SignValue(state)
}

// ExtractNext recovers the next target embedded in a signed OAuth state.
// Tampered or nonce-only states yield an empty string.
func (s *SessionManager) ExtractNext(state string) string {
	payload, err := s.VerifyValue(state)
	if err != nil {
		return ""
	}

	parts := strings.SplitN(payload, "|", 2)
	if len(parts) < 2 {
		return ""
	}

	return parts[1]
}
