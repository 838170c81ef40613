package websession

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddlewareMintsSessionID(t *testing.T) {
	var seen string
	h := Middleware(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("no session id injected")
	}
	if !isValidSessionID(seen) {
		t.Errorf("minted id %q is not valid", seen)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName || cookies[0].Value != seen {
		t.Errorf("cookie not set to the injected id: %+v", cookies)
	}
}

func TestMiddlewareKeepsExistingCookie(t *testing.T) {
	var seen string
	h := Middleware(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "11111111-2222-3333-4444-555555555555"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "11111111-2222-3333-4444-555555555555" {
		t.Errorf("session id = %q, want the cookie value", seen)
	}
}

func TestMiddlewareRejectsMalformedCookie(t *testing.T) {
	var seen string
	h := Middleware(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "../../etc/passwd"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen == "../../etc/passwd" {
		t.Error("malformed cookie value accepted as session id")
	}
	if seen == "" {
		t.Error("no replacement session id minted")
	}
}

func TestHeaderOverridesCookie(t *testing.T) {
	var seen string
	h := Middleware(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderName, "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "11111111-2222-3333-4444-555555555555"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee" {
		t.Errorf("session id = %q, want the header value", seen)
	}
}
