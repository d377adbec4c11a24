package handlers

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"

	"screenlist/internal/services"
)

type ctxKey struct{}

var bearerPattern = regexp.MustCompile(`^Bearer\s+(.+)$`)

// TokenParser verifies a bearer token and returns its claims.
type TokenParser interface {
	Parse(token string) (*services.Claims, error)
}

// UserIDFromContext returns the authenticated user id set by RequireAuth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects requests without a valid bearer token with 403.
func RequireAuth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				jsonError(w, "unauthorized", http.StatusForbidden)
				return
			}

			match := bearerPattern.FindStringSubmatch(header)
			if match == nil {
				jsonError(w, "Invalid Token Format", http.StatusForbidden)
				return
			}

			claims, err := tokens.Parse(match[1])
			if err != nil {
				jsonError(w, "Invalid User", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, claims.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			}).Info("Request handled")
		})
	}
}
