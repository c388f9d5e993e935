package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dairyfarm/internal/core"
)

type authClaimsKey struct{}

// AuthClaims holds the authenticated user's identity extracted from the JWT.
type AuthClaims struct {
	UserID    int
	Email     string
	FirstName string
	Role      core.Role
}

// authFromContext returns the auth claims stored in ctx, or nil.
func authFromContext(ctx context.Context) *AuthClaims {
	v, _ := ctx.Value(authClaimsKey{}).(*AuthClaims)
	return v
}

// jwtClaims is the JWT payload struct used for signing and parsing.
type jwtClaims struct {
	UserID    int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// issueToken signs a bearer token for the user with the configured TTL.
func (h *Handler) issueToken(user *core.User) (string, error) {
	claims := &jwtClaims{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		Role:      string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.jwtTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

// parseBearerToken validates an Authorization header value and returns the
// claims. The bool distinguishes "no token supplied" from "token rejected".
func (h *Handler) parseBearerToken(header string) (*AuthClaims, bool, error) {
	const prefix = "Bearer "
	if header == "" || !strings.HasPrefix(header, prefix) {
		return nil, false, fmt.Errorf("missing bearer token")
	}

	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, prefix), claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, true, fmt.Errorf("invalid token")
	}

	return &AuthClaims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		Role:      core.Role(claims.Role),
	}, true, nil
}

// RequireAuth validates the Authorization bearer token and injects AuthClaims
// into the request context. A missing token is 401; a present-but-bad token
// is 403, matching the contract dashboard clients rely on to decide between
// "log in" and "session expired".
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, supplied, err := h.parseBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			if !supplied {
				writeError(w, r, "Access token required", "UNAUTHORIZED", http.StatusUnauthorized)
				return
			}
			writeError(w, r, "Invalid or expired token", "FORBIDDEN", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), authClaimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects non-admin callers. Must be nested inside RequireAuth.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := authFromContext(r.Context())
		if claims == nil || claims.Role != core.RoleAdmin {
			writeError(w, r, "Admin access required", "FORBIDDEN", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
