package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"
)

type rateAttempt struct {
	count      int
	windowEnds time.Time
}

// UploadRateLimiter bounds how many spreadsheet uploads a single IP can start
// per window. Ingestion is synchronous and holds a DB connection per query, so
// a runaway client must not be able to monopolize the pool.
type UploadRateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	maxIPs  int
	attempt map[string]rateAttempt
}

func NewUploadRateLimiter(limit int, window time.Duration, maxIPs int) *UploadRateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	if maxIPs <= 0 {
		maxIPs = 10000
	}
	return &UploadRateLimiter{
		limit:   limit,
		window:  window,
		maxIPs:  maxIPs,
		attempt: map[string]rateAttempt{},
	}
}

func (rl *UploadRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r.RemoteAddr)
		if ip == "" {
			ip = "unknown"
		}

		now := time.Now()
		rl.mu.Lock()
		if len(rl.attempt) >= rl.maxIPs {
			for key, entry := range rl.attempt {
				if entry.windowEnds.Before(now) {
					delete(rl.attempt, key)
				}
			}
		}
		entry := rl.attempt[ip]
		if entry.windowEnds.Before(now) {
			entry = rateAttempt{count: 0, windowEnds: now.Add(rl.window)}
		}
		entry.count++
		rl.attempt[ip] = entry
		rl.mu.Unlock()

		if entry.count > rl.limit {
			writeError(w, r, http.StatusTooManyRequests, "Too many uploads, slow down", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
