package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/ajanels/LaOriginalBackend-sub001/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rateEntry tracks request counts per IP within a sliding window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

const purgeInterval = 5 * time.Minute

// RateLimiter returns a sliding-window per-IP rate limiter. Each instance
// keeps its own counters, so the general API limiter and the stricter login
// limiter never share state.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	var (
		entries   = make(map[string]*rateEntry)
		entriesMu sync.Mutex
	)

	// Periodically drop expired entries so IPs that never return do not
	// accumulate forever.
	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			entriesMu.Lock()
			purged := 0
			for ip, entry := range entries {
				entry.mu.Lock()
				if now.After(entry.windowEnd) {
					delete(entries, ip)
					purged++
				}
				entry.mu.Unlock()
			}
			remaining := len(entries)
			entriesMu.Unlock()

			if purged > 0 {
				log.Debug().
					Int("entries_purged", purged).
					Int("entries_remaining", remaining).
					Msg("rate limiter map purged")
			}
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()

		entriesMu.Lock()
		entry, exists := entries[ip]
		if !exists {
			entry = &rateEntry{}
			entries[ip] = entry
		}
		entriesMu.Unlock()

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(window)
		}

		entry.count++
		if entry.count > limit {
			c.Header("Retry-After", entry.windowEnd.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}
