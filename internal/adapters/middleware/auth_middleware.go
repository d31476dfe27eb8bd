package middleware

import (
	"context"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/telehealth-companion/booking-service/internal/core/domain"
	"github.com/telehealth-companion/booking-service/internal/core/ports"
)

// AuthMiddleware verifies the session token the login endpoints issue.
// Booking operations go through it so a caller can no longer claim an
// arbitrary patient or doctor id: handlers compare the token subject
// against the id in the request.
type AuthMiddleware struct {
	publicKey *rsa.PublicKey
	tokens    ports.TokenStore
}

func NewAuthMiddleware(publicKey *rsa.PublicKey, tokens ports.TokenStore) *AuthMiddleware {
	return &AuthMiddleware{
		publicKey: publicKey,
		tokens:    tokens,
	}
}

type contextKey string

const (
	SubjectKey contextKey = "subject"
	RoleKey    contextKey = "role"
	TokenKey   contextKey = "token"
	ExpiryKey  contextKey = "expiry"
)

// Subject returns the authenticated account id stored by Require.
func Subject(ctx context.Context) string {
	s, _ := ctx.Value(SubjectKey).(string)
	return s
}

// Role returns the authenticated account kind stored by Require.
func Role(ctx context.Context) domain.Kind {
	r, _ := ctx.Value(RoleKey).(domain.Kind)
	return r
}

// TokenHash fingerprints a session token for the denylist.
func TokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (m *AuthMiddleware) Require(kinds []domain.Kind, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "invalid authorization header", http.StatusUnauthorized)
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.publicKey, nil
		})
		if err != nil || !token.Valid {
			log.Printf("token rejected: %v", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		subject, ok := claims["sub"].(string)
		if !ok || subject == "" {
			http.Error(w, "invalid token: missing subject", http.StatusUnauthorized)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role == "" {
			http.Error(w, "invalid token: missing role", http.StatusUnauthorized)
			return
		}

		denied, err := m.tokens.IsDenied(r.Context(), TokenHash(tokenString))
		if err != nil {
			log.Printf("denylist check failed: %v", err)
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}
		if denied {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		allowed := false
		for _, k := range kinds {
			if domain.Kind(role) == k {
				allowed = true
				break
			}
		}
		if !allowed {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		expiry := time.Time{}
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			expiry = exp.Time
		}

		ctx := context.WithValue(r.Context(), SubjectKey, subject)
		ctx = context.WithValue(ctx, RoleKey, domain.Kind(role))
		ctx = context.WithValue(ctx, TokenKey, tokenString)
		ctx = context.WithValue(ctx, ExpiryKey, expiry)

		next(w, r.WithContext(ctx))
	}
}
