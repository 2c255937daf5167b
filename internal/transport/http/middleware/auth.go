package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKeyType string

const ctxKeyUser ctxKeyType = "user"

// UserContext is the authenticated caller attached to the request context.
type UserContext struct {
	UserID string
	Token  string
}

// SessionLookup resolves a bearer token to a user id. Satisfied by
// *remote.Auth.
type SessionLookup interface {
	Lookup(ctx context.Context, token string) (string, error)
}

// Auth attaches the authenticated user when a valid bearer token is
// present; unauthenticated requests pass through and handlers decide.
func Auth(sessions SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := sessions.Lookup(r.Context(), parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, UserContext{UserID: userID, Token: parts[1]})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) (UserContext, bool) {
	user, ok := ctx.Value(ctxKeyUser).(UserContext)
	return user, ok
}
