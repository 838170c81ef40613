// Package websession provides cookie-based chat session identification.
package websession

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/ashureev/saleswizz/internal/chat"
)

const (
	// CookieName carries the session ID between requests.
	CookieName = "saleswizz_session_id"
	// HeaderName lets non-browser clients pin a session explicitly.
	HeaderName = "X-SalesWizz-Session-ID"

	cookieMaxAge = 7 * 24 * time.Hour
)

type contextKey int

const sessionIDKey contextKey = iota

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{8,64}$`)

// SessionIDFromContext extracts the session ID from the request context.
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return ""
}

func isValidSessionID(id string) bool {
	return sessionIDPattern.MatchString(id)
}

func setCookie(w http.ResponseWriter, id string, isDev bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		Expires:  time.Now().Add(cookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	})
}

func sessionIDFromRequest(r *http.Request) string {
	if id := r.Header.Get(HeaderName); isValidSessionID(id) {
		return id
	}
	if c, err := r.Cookie(CookieName); err == nil && isValidSessionID(c.Value) {
		return c.Value
	}
	return ""
}

// Middleware injects a per-device session ID, minting one when absent.
func Middleware(isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sessionIDFromRequest(r)
			if id == "" {
				id = chat.NewSessionID()
			}
			setCookie(w, id, isDev)

			ctx := context.WithValue(r.Context(), sessionIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
