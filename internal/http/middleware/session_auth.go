package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/wolfman30/contact-crm/internal/http/respond"
)

type contextKey string

const sessionSubjectKey contextKey = "sessionSubject"

// SessionVerifier validates a bearer token and returns its subject.
type SessionVerifier interface {
	Verify(token string) (string, error)
}

// RequireSession rejects requests without a valid bearer session token.
func RequireSession(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				respond.Error(w, http.StatusUnauthorized, "Session auth disabled")
				return
			}
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				respond.Error(w, http.StatusUnauthorized, "Missing authorization header")
				return
			}
			subject, err := verifier.Verify(strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), sessionSubjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionSubject returns the authenticated email, if any.
func SessionSubject(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(sessionSubjectKey).(string)
	return sub, ok
}
