package http

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/wangfeiwest163/toolshub/internal/metrics"
	"github.com/wangfeiwest163/toolshub/pkg/response"
)

type contextKey string

const authUserKey contextKey = "authUser"

// authUserID returns the user id carried by the verified token, if any.
func authUserID(ctx context.Context) string {
	id, _ := ctx.Value(authUserKey).(string)
	return id
}

// requireAuth verifies the X-Auth-Token header and stores the token's user
// id in the request context. Any failure yields a uniform 401.
func requireAuth(svc UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Auth-Token")
			if token == "" {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.UnauthorizedResponse)
				return
			}

			userID, err := svc.VerifyToken(token)
			if err != nil {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.UnauthorizedResponse)
				return
			}

			ctx := context.WithValue(r.Context(), authUserKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// rateLimit throttles requests per client IP using a token bucket. Limiter
// state is kept per address for the life of the process.
func rateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	if burst < 1 {
		burst = 1
	}

	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limiterFor := func(addr string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		l, ok := limiters[addr]
		if !ok {
			l = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[addr] = l
		}
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr := r.RemoteAddr
			if host, _, err := net.SplitHostPort(addr); err == nil {
				addr = host
			}

			if !limiterFor(addr).Allow() {
				metrics.RecordRateLimited()

				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.TooManyRequestsResponse)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
