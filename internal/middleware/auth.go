package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"happy-tails/internal/auth"

	"go.uber.org/zap"
)

// TokenVerifier checks a bearer token for a role
type TokenVerifier interface {
	RequireRole(tokenString, role string) (*auth.Claims, error)
}

// AuthMiddleware guards routes with bearer tokens
type AuthMiddleware struct {
	tokens TokenVerifier
	logger *zap.Logger
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokens TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, logger: logger}
}

// RequireRole rejects requests without a valid token carrying role
func (m *AuthMiddleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			claims, err := m.tokens.RequireRole(token, role)
			if err != nil {
				if errors.Is(err, auth.ErrForbidden) {
					m.logger.Warn("role check failed",
						zap.String("required", role),
						zap.String("request_id", GetRequestID(r.Context())))
					writeError(w, http.StatusForbidden, "you do not have access to this resource")
					return
				}
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin is RequireRole for the admin namespace
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireRole("admin")(next)
}

// GetClaims returns the verified claims, or nil on unauthenticated routes
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
