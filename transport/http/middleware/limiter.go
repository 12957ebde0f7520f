package middleware

import (
	"errors"
	"net/http"
	"stayops/shared"
	"stayops/shared/cache"
	"stayops/shared/constant"
	"stayops/transport/http/response"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	cacheKeyRateLimit = "limiter"
)

// RateLimit counts requests per client in redis. While redis is unreachable each instance
// falls back to an in-process token bucket with the same budget.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !a.config.App.RateLimiter.Enable {
				next.ServeHTTP(w, r)

				return
			}

			maxReqs := a.config.App.RateLimiter.MaxRequests
			windowSecs := a.config.App.RateLimiter.WindowSeconds

			userAgent := a.getUA(r)
			clientIP := a.getClientIP(r)
			cacheKey := shared.BuildCacheKey(cacheKeyRateLimit, clientIP, userAgent)

			var count int
			err := a.cache.Get(r.Context(), cacheKey, &count)

			if err != nil {
				if !errors.Is(err, cache.Nil) {
					a.allowLocally(w, r, next, cacheKey)

					return
				}

				count = 1
			} else {
				count++
			}

			if count > maxReqs {
				response.WithRequestLimitExceeded(w)

				return
			}

			if err = a.cache.Save(r.Context(), cacheKey, count, windowSecs); err != nil {
				a.allowLocally(w, r, next, cacheKey)

				return
			}

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(maxReqs))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(max(0, maxReqs-count)))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(windowSecs))

			next.ServeHTTP(w, r)
		})
	}
}

func (a *appMiddleware) allowLocally(w http.ResponseWriter, r *http.Request, next http.Handler, key string) {
	if !a.limiter.get(key).Allow() {
		response.WithRequestLimitExceeded(w)

		return
	}

	log.Debug().Str("key", key).Msg("rate limiter using local fallback")

	next.ServeHTTP(w, r)
}

// localLimiter keeps one token bucket per client key.
type localLimiter struct {
	buckets map[string]*rate.Limiter
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
}

func newLocalLimiter(maxRequests, windowSeconds int) *localLimiter {
	limit := rate.Inf
	if maxRequests > 0 && windowSeconds > 0 {
		limit = rate.Every(time.Duration(windowSeconds) * time.Second / time.Duration(maxRequests))
	}

	return &localLimiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   limit,
		burst:   max(1, maxRequests),
	}
}

func (l *localLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.buckets[key]
	if !exists {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.buckets[key] = limiter
	}

	return limiter
}

func (a *appMiddleware) getUA(r *http.Request) string {
	ua := r.Header.Get(constant.RequestHeaderUserAgent)
	if ua == "" {
		ua = "unknown"
	}

	return ua
}

func (a *appMiddleware) getClientIP(r *http.Request) string {
	// Check for X-Forwarded-For header first (most common proxy header)
	if xff := r.Header.Get(constant.RequestHeaderForwardedFor); xff != "" {
		// X-Forwarded-For can contain multiple IPs, take the first one
		if commaIdx := strings.Index(xff, ","); commaIdx > 0 {
			return strings.TrimSpace(xff[:commaIdx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get(constant.RequestHeaderRealIP); xri != "" {
		return strings.TrimSpace(xri)
	}

	return r.RemoteAddr
}
