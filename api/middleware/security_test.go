package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"opsdesk_server/lib"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSecurityHeaders(t *testing.T) {
	mw := &Middleware{}
	handler := mw.SecurityHeaders()(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
	assert.Equal(t, "default-src 'self'", rec.Header().Get("Content-Security-Policy"))
	assert.NotEmpty(t, rec.Header().Get("Permissions-Policy"))
}

func TestBodyLimit(t *testing.T) {
	mw := &Middleware{}
	handler := mw.BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		if _, err := r.Body.Read(buf); err != nil && !strings.Contains(err.Error(), "EOF") {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("this body is longer than eight bytes"))
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCSRFMiddlewareAllowsSafeMethods(t *testing.T) {
	mw := &Middleware{}
	handler := mw.CSRFMiddleware()(okHandler())

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(method, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code, "method %s should bypass csrf", method)
	}
}

func TestCSRFMiddlewareRejectsMissingCookie(t *testing.T) {
	mw := &Middleware{}
	handler := mw.CSRFMiddleware()(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRFMiddlewareRejectsMismatchedToken(t *testing.T) {
	mw := &Middleware{}
	handler := mw.CSRFMiddleware()(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: lib.CSRFCookieName, Value: "cookie-value"})
	req.Header.Set("X-CSRF-Token", "different-value")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRFMiddlewareAcceptsMatchingToken(t *testing.T) {
	mw := &Middleware{}
	handler := mw.CSRFMiddleware()(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: lib.CSRFCookieName, Value: "matching-token"})
	req.Header.Set("X-CSRF-Token", "matching-token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
