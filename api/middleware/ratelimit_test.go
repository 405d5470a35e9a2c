package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"opsdesk_server/structs"

	"github.com/stretchr/testify/assert"
)

func testRateLimitMiddleware() *Middleware {
	return &Middleware{
		cfg: &structs.Config{
			RateLimit: &structs.RateLimitConfig{
				Enabled:         true,
				AuthLimit:       5,
				AuthWindow:      time.Minute,
				GeneralLimit:    100,
				GeneralWindow:   time.Minute,
				ExpensiveLimit:  20,
				ExpensiveWindow: time.Minute,
			},
		},
	}
}

func TestGetRateLimitForEndpoint(t *testing.T) {
	mw := testRateLimitMiddleware()

	cases := []struct {
		name   string
		path   string
		method string
		limit  int
	}{
		{"login", "/auth/login", http.MethodPost, 5},
		{"register", "/auth/register", http.MethodPost, 5},
		{"refresh", "/auth/refresh", http.MethodPost, 5},
		{"dashboard", "/dashboard/stats", http.MethodGet, 20},
		{"order list", "/orders", http.MethodGet, 20},
		{"order create", "/orders", http.MethodPost, 100},
		{"customers", "/customers", http.MethodGet, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			limit, _ := mw.getRateLimitForEndpoint(tc.path, tc.method)
			assert.Equal(t, tc.limit, limit)
		})
	}
}

func TestGetClientIP(t *testing.T) {
	mw := testRateLimitMiddleware()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.1.2.3:54321"
	assert.Equal(t, "10.1.2.3", mw.getClientIP(r))

	r.Header.Set("X-Real-IP", "172.16.0.9")
	assert.Equal(t, "172.16.0.9", mw.getClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", mw.getClientIP(r))
}
