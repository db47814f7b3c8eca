// internal/auth/middleware.go
// JWT authentication middleware guarding the assessment and matching routes

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/aura-collective/aura-backend/internal/common/utils"
)

// Middleware provides authentication middleware
type Middleware struct {
	jwtSecret string
}

// NewMiddleware creates a new auth middleware
func NewMiddleware(jwtSecret string) *Middleware {
	return &Middleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate is the main middleware function that protects routes.
// It verifies the JWT token and adds user information to the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Extract token from Authorization header
		token := m.extractToken(r)
		if token == "" {
			utils.ErrorResponse(w, "Missing or invalid authorization header", http.StatusUnauthorized)
			return
		}

		// 2. Validate token
		claims, err := utils.ValidateJWT(token, m.jwtSecret)
		if err != nil {
			utils.ErrorResponse(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		// 3. Check if it's an access token (not refresh)
		if claims.Type != "access" {
			utils.ErrorResponse(w, "Invalid token type", http.StatusUnauthorized)
			return
		}

		// 4. Add user information to request context so handlers can
		// read the caller's identity without another database query
		ctx := context.WithValue(r.Context(), "userID", claims.UserID)
		ctx = context.WithValue(ctx, "email", claims.Email)
		ctx = context.WithValue(ctx, "username", claims.Username)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken pulls the bearer token from the Authorization header
func (m *Middleware) extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}
