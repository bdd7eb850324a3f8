package http

import (
	"context"
	"net/http"
	"os"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

// UserIDKey carries the authenticated user's id through the request
// context.
const UserIDKey contextKey = "userID"

// Authenticator resolves the access_token cookie into a user id when
// present and valid. It never rejects: handlers that need auth check
// the context themselves, so public endpoints like the eligibility
// probe can answer 200 either way.
func Authenticator(next http.Handler) http.Handler {
	secret := []byte(os.Getenv("JWT_SECRET"))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("access_token")
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			next.ServeHTTP(w, r)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests with no resolved user.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Value(UserIDKey).(uuid.UUID); !ok {
			http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// callerID returns the authenticated user id, or uuid.Nil when the
// request is anonymous.
func callerID(r *http.Request) uuid.UUID {
	if userID, ok := r.Context().Value(UserIDKey).(uuid.UUID); ok {
		return userID
	}
	return uuid.Nil
}
