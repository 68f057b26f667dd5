package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"territory/pkg/requestcontext"
)

// CoupleResolver validates a bearer token and returns the couple identity
// carried in its claims.
type CoupleResolver interface {
	ResolveCoupleID(tokenString string) (string, error)
}

const bearerPrefix = "Bearer "

// RequireCouple rejects requests without a valid couple identity and injects
// the resolved id (plus the raw token, for internal call forwarding) into
// the request context.
func RequireCouple(resolver CoupleResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			token = strings.TrimSpace(token)
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized - missing bearer token",
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
				)
				unauthorized(w, "missing bearer token")
				return
			}

			coupleID, err := resolver.ResolveCoupleID(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized - couple identity not established",
					"error", err.Error(),
					"request_id", requestcontext.RequestID(ctx),
				)
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx = requestcontext.WithCoupleID(ctx, coupleID)
			ctx = requestcontext.WithBearerToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"UNAUTHORIZED","message":"` + message + `"}`))
}
