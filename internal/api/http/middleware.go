package http

import (
	"context"
	"net/http"
	"strings"

	"gearbook-backend/internal/logger"
	"gearbook-backend/internal/security"
	"gearbook-backend/internal/service"
)

type contextKey string

const claimsKey contextKey = "user_claims"

// AuthMiddleware validates the Bearer token and stashes the claims in
// the request context. Tokens are issued elsewhere; this service only
// verifies them.
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w, "missing bearer token")
				return
			}
			claims, err := tokens.ValidateToken(token)
			if err != nil {
				unauthorized(w, err.Error())
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireOperator gates staff-only routes. It assumes AuthMiddleware
// already ran.
func RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r)
		if claims == nil || !claims.HasRole(security.RoleOperator) {
			var body errorResponse
			body.Error.Code = "forbidden"
			body.Error.Message = "operator role required"
			writeJSON(w, http.StatusForbidden, body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware logs one line per request
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("Request received", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func claimsFrom(r *http.Request) *security.UserClaims {
	claims, _ := r.Context().Value(claimsKey).(*security.UserClaims)
	return claims
}

// actorFrom converts the request claims into a service-level actor.
func actorFrom(r *http.Request) service.Actor {
	claims := claimsFrom(r)
	if claims == nil {
		return service.Actor{}
	}
	return service.Actor{
		UserID:   claims.UserID,
		Operator: claims.HasRole(security.RoleOperator),
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	var body errorResponse
	body.Error.Code = "unauthorized"
	body.Error.Message = message
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeJSON(w, http.StatusUnauthorized, body)
}
