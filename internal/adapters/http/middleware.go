package httpadapter

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/PabloGalante/innerguide/internal/adapters/auth"
	"github.com/PabloGalante/innerguide/internal/app/conversation"
	"github.com/PabloGalante/innerguide/internal/domain"
	"github.com/PabloGalante/innerguide/internal/observability"
)

type userKey struct{}

func userFromContext(ctx context.Context) domain.UserID {
	if id, ok := ctx.Value(userKey{}).(domain.UserID); ok && id != "" {
		return id
	}
	return domain.DevUserID
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging tags the request with an id and logs it once it is served.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := observability.WithRequestID(r.Context(), reqID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		observability.LoggerFromContext(ctx).Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	})
}

// withCORS adds basic CORS headers to allow calls from a web front-end.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withIdentity resolves the caller from the bearer token, falling back to
// the development user when there is no usable token.
func withIdentity(provider domain.IdentityProvider, fallback domain.UserID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if tok, err := auth.ExtractToken(r.Header.Get("Authorization")); err == nil {
				ctx = auth.WithToken(ctx, tok)
			}

			userID := conversation.ResolveUser(ctx, provider, fallback)
			ctx = context.WithValue(ctx, userKey{}, userID)
			ctx = observability.WithUserID(ctx, string(userID))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// withRateLimit applies a token bucket per user. A zero limit disables it.
func withRateLimit(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	limiters := cache.New(time.Hour, 10*time.Minute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := string(userFromContext(r.Context()))

			var lim *rate.Limiter
			if v, ok := limiters.Get(key); ok {
				lim = v.(*rate.Limiter)
			} else {
				lim = rate.NewLimiter(limit, burst)
				if err := limiters.Add(key, lim, cache.DefaultExpiration); err != nil {
					// lost a race with another request for the same user
					if v, ok := limiters.Get(key); ok {
						lim = v.(*rate.Limiter)
					}
				}
			}

			if !lim.Allow() {
				w.Header().Set("Retry-After", "1")
				writeJSON(w, http.StatusTooManyRequests, map[string]string{
					"error": "too many messages, slow down",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// chainMiddlewares applies multiple middlewares in order.
func chainMiddlewares(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
