package mcpserver

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const clientContextKey = contextKey("client")

// Claims is the JWT payload accepted by the HTTP transport.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for subject valid for ttl.
func GenerateToken(secret []byte, subject string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("jwt secret is empty")
	}
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ClientFromContext returns the authenticated client name, if any.
func ClientFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(clientContextKey).(string); ok {
		return v
	}
	return ""
}

// requireAuth accepts either the static bearer token or a JWT signed with
// the configured secret. With neither configured every request passes.
func (hs *HTTPServer) requireAuth(next http.Handler) http.Handler {
	if hs.authToken == "" && len(hs.jwtSecret) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || tokenString == "" {
			hs.writeHTTPError(w, http.StatusUnauthorized, "missing authentication token")
			return
		}

		if hs.authToken != "" && subtle.ConstantTimeCompare([]byte(tokenString), []byte(hs.authToken)) == 1 {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientContextKey, "token")))
			return
		}

		if len(hs.jwtSecret) > 0 {
			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return hs.jwtSecret, nil
			})
			if err == nil && token.Valid {
				ctx := context.WithValue(r.Context(), clientContextKey, claims.Subject)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			hs.logger.Debug("rejected token", "error", err)
		}

		hs.writeHTTPError(w, http.StatusUnauthorized, "invalid authentication token")
	})
}
