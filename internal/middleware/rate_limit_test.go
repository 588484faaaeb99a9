package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func rateLimitedOK(rl *UploadRateLimiter) http.Handler {
	return rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestUploadRateLimiterBlocksOverLimit(t *testing.T) {
	rl := NewUploadRateLimiter(2, time.Minute, 100)
	handler := rateLimitedOK(rl)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/upload-excel", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected %d, got %d", i+1, http.StatusOK, rr.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/upload-excel", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected %d, got %d", http.StatusTooManyRequests, rr.Code)
	}
}

func TestUploadRateLimiterTracksIPsSeparately(t *testing.T) {
	rl := NewUploadRateLimiter(1, time.Minute, 100)
	handler := rateLimitedOK(rl)

	first := httptest.NewRequest(http.MethodPost, "/upload-excel", nil)
	first.RemoteAddr = "10.0.0.1:5000"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, first)
	if rr.Code != http.StatusOK {
		t.Fatalf("first ip: expected %d, got %d", http.StatusOK, rr.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/upload-excel", nil)
	second.RemoteAddr = "10.0.0.2:5000"
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, second)
	if rr.Code != http.StatusOK {
		t.Fatalf("second ip: expected %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestUploadRateLimiterResetsAfterWindow(t *testing.T) {
	rl := NewUploadRateLimiter(1, 10*time.Millisecond, 100)
	handler := rateLimitedOK(rl)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/upload-excel", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := send(); code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("expected %d, got %d", http.StatusTooManyRequests, code)
	}

	time.Sleep(20 * time.Millisecond)
	if code := send(); code != http.StatusOK {
		t.Fatalf("after window: expected %d, got %d", http.StatusOK, code)
	}
}
