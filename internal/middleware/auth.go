package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/bonuswiser/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// StaffIDKey is the context key for the authenticated staff member's ID.
	StaffIDKey contextKey = "staff_id"
	// StaffNameKey is the context key for the staff member's display name.
	StaffNameKey contextKey = "staff_name"
)

// GetStaffID extracts the staff ID from the context.
// Returns empty string if not found.
func GetStaffID(ctx context.Context) string {
	staffID, _ := ctx.Value(StaffIDKey).(string)
	return staffID
}

// GetStaffName extracts the staff name from the context.
func GetStaffName(ctx context.Context) string {
	name, _ := ctx.Value(StaffNameKey).(string)
	return name
}

// WithStaff adds the staff identity from claims to ctx.
func WithStaff(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, StaffIDKey, claims.StaffID())
	return context.WithValue(ctx, StaffNameKey, claims.Name)
}

// RequireAuth returns an interceptor that validates the bearer token and adds
// the staff identity to the request context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			claims, err := jwtManager.ValidateHeader(req.Header().Get("Authorization"))
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			// Call the next handler with enriched context
			return next(WithStaff(ctx, claims), req)
		}
	}
}

// OptionalAuth validates a bearer token if present but lets anonymous
// requests through. Redemptions without a token record no staff ID.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if header := req.Header().Get("Authorization"); header != "" {
				// Validate token (ignore errors - optional auth)
				if claims, err := jwtManager.ValidateHeader(header); err == nil {
					ctx = WithStaff(ctx, claims)
				}
			}

			// Call the next handler (with or without staff context)
			return next(ctx, req)
		}
	}
}

// RequireAuthHTTP is RequireAuth for plain HTTP handlers. Rejections use the
// REST error body.
func RequireAuthHTTP(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := jwtManager.ValidateHeader(r.Header.Get("Authorization"))
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithStaff(r.Context(), claims)))
		})
	}
}

// OptionalAuthHTTP is OptionalAuth for plain HTTP handlers.
func OptionalAuthHTTP(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if header := r.Header.Get("Authorization"); header != "" {
				if claims, err := jwtManager.ValidateHeader(header); err == nil {
					r = r.WithContext(WithStaff(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
