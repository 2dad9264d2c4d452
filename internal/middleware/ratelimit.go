package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carvio/carvio-backend/internal/services"
	"github.com/carvio/carvio-backend/pkg/clientip"
)

const (
	// RateLimitWindow is 120 seconds
	RateLimitWindow = 120 * time.Second
	// RateLimitMaxRequests is the maximum number of requests allowed in the window
	RateLimitMaxRequests = 25
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting
	RateLimitKeyPrefix = "ratelimit:"
	// BlockedIPKeyPrefix is the Redis key prefix for blocked IPs
	BlockedIPKeyPrefix = "blocked_ip:"
	// BlockedIPDuration is how long an IP stays blocked (24 hours)
	BlockedIPDuration = 24 * time.Hour
)

// RateLimit returns Redis-backed per-IP rate limiting with temporary IP
// blocking. Block events are recorded through the audit service. When
// Redis is unavailable the request is allowed (fail open).
func RateLimit(client *redis.Client, audit *services.AuditService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ipAddress := clientip.RealClientIP(r)
			ctx := r.Context()

			// Check if IP is already blocked
			blockedKey := BlockedIPKeyPrefix + ipAddress
			isBlocked, err := client.Exists(ctx, blockedKey).Result()
			if err == nil && isBlocked > 0 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"success":false,"message":"Your IP has been temporarily blocked due to excessive requests. Please try again later."}`))
				return
			}

			rateLimitKey := RateLimitKeyPrefix + ipAddress

			currentCount, err := client.Get(ctx, rateLimitKey).Int()
			if err != nil {
				// Key doesn't exist, start with 1
				currentCount = 0
			}

			newCount := currentCount + 1

			if currentCount == 0 {
				// First request in this window
				err = client.Set(ctx, rateLimitKey, "1", RateLimitWindow).Err()
			} else {
				err = client.Incr(ctx, rateLimitKey).Err()
				if err == nil {
					// Refresh TTL
					client.Expire(ctx, rateLimitKey, RateLimitWindow)
				}
			}

			if err != nil {
				// If Redis fails, allow the request (fail open)
				next.ServeHTTP(w, r)
				return
			}

			if newCount > RateLimitMaxRequests {
				// Block the IP and record the event for operators
				if blockErr := client.Set(ctx, blockedKey, "1", BlockedIPDuration).Err(); blockErr == nil {
					audit.RecordViolation(ipAddress, "rate_limit",
						fmt.Sprintf("%d requests within %s", newCount, RateLimitWindow), "ip_blocked")
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(fmt.Sprintf(`{"success":false,"message":"Rate limit exceeded. Your IP has been temporarily blocked. Please try again later.","retry_after":%d}`, int(RateLimitWindow.Seconds()))))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(RateLimitMaxRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(RateLimitMaxRequests-newCount))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(RateLimitWindow).Unix(), 10))

			next.ServeHTTP(w, r)
		})
	}
}
