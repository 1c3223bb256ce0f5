package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/jrdcruz/pageant-system/models"
)

// SessionCookieName is the HttpOnly cookie carrying the signed session
// token set at login.
const SessionCookieName = "session"

type contextKey string

const userContextKey contextKey = "user"

// Auth verifies session cookies and gates routes by account role. It
// fails closed: any parse or verification error ends the request with
// 401 before a handler runs.
type Auth struct {
	secret []byte
}

func NewAuth(jwtSecret string) *Auth {
	return &Auth{secret: []byte(jwtSecret)}
}

// Authenticate extracts and verifies the session cookie, storing the
// token claims in the request context.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.claimsFromRequest(r)
		if err != nil {
			writeGateError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects authenticated callers whose role differs from the
// required one. Judges cannot reach admin routes and vice versa.
func (a *Auth) RequireRole(role models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			callerRole, err := GetUserRoleFromContext(r.Context())
			if err != nil {
				writeGateError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if callerRole != role {
				writeGateError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *Auth) claimsFromRequest(r *http.Request) (jwt.MapClaims, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, fmt.Errorf("missing session cookie: %w", err)
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid session claims")
	}
	return claims, nil
}

// writeGateError emits the same {errorText} envelope the handlers use,
// without importing them.
func writeGateError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, "{\"errorText\": %q}\n", message)
}
