package security

import (
	"net/http"
	"strings"
	"time"
)

const (
	SessionCookieName = "onboarding_session"
	// SessionHeader carries the token for clients without a cookie jar.
	SessionHeader = "X-Onboarding-Session"
)

func sessionCookieName(secure bool) string {
	if secure {
		return "__Host-" + SessionCookieName
	}
	return SessionCookieName
}

func SetSessionToken(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName(secure),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

func ClearSessionToken(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName(secure),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// ReadSessionToken looks at the secure cookie, the plain cookie (local http
// dev) and finally the session header. Empty means "fresh user".
func ReadSessionToken(r *http.Request) string {
	for _, name := range []string{sessionCookieName(true), SessionCookieName} {
		if c, err := r.Cookie(name); err == nil && strings.TrimSpace(c.Value) != "" {
			return strings.TrimSpace(c.Value)
		}
	}
	return strings.TrimSpace(r.Header.Get(SessionHeader))
}
