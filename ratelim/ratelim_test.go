package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestLimitAllowsBurstThenThrottles(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/send", nil)
		req.RemoteAddr = "203.0.113.7:50000"
		rr := httptest.NewRecorder()
		handler(rr, req, nil)
		assert.Equal(t, http.StatusOK, rr.Code, "request %d", i+1)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/send", nil)
	req.RemoteAddr = "203.0.113.7:50001"
	rr := httptest.NewRecorder()
	handler(rr, req, nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), "Too many requests")
}

func TestLimitKeysByHostNotPort(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	// exhaust from one port
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/send", nil)
		req.RemoteAddr = "198.51.100.2:1000"
		rr := httptest.NewRecorder()
		handler(rr, req, nil)
	}

	// same host, fresh port: still throttled
	req := httptest.NewRequest(http.MethodPost, "/api/send", nil)
	req.RemoteAddr = "198.51.100.2:2000"
	rr := httptest.NewRecorder()
	handler(rr, req, nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	// different host: own budget
	req = httptest.NewRequest(http.MethodPost, "/api/send", nil)
	req.RemoteAddr = "198.51.100.3:1000"
	rr = httptest.NewRecorder()
	handler(rr, req, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}
