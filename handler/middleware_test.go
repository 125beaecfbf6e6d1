package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("burst then reject", func(t *testing.T) {
		rl := NewRateLimiter(0.001, 2, nil)
		h := rl.Middleware()(okHandler)

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest("GET", "/accounts/1", nil)
			req.RemoteAddr = "10.0.0.1:5555"
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			codes = append(codes, rr.Code)
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("clients are limited separately", func(t *testing.T) {
		rl := NewRateLimiter(0.001, 1, nil)
		h := rl.Middleware()(okHandler)

		for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = addr
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusOK, rr.Code, addr)
		}
	})

	t.Run("idle visitors are evicted", func(t *testing.T) {
		now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
		rl := NewRateLimiter(1, 1, nil)
		rl.now = func() time.Time { return now }

		rl.limiter("10.0.0.1")
		require.Len(t, rl.visitors, 1)

		now = now.Add(visitorTTL + 2*time.Minute)
		rl.limiter("10.0.0.2")

		assert.Len(t, rl.visitors, 1)
		assert.Contains(t, rl.visitors, "10.0.0.2")
	})
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"forwarded for", map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.1"}, "10.0.0.9:80", "1.2.3.4"},
		{"real ip", map[string]string{"X-Real-IP": "5.6.7.8"}, "10.0.0.9:80", "5.6.7.8"},
		{"remote addr", nil, "10.0.0.9:80", "10.0.0.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}
