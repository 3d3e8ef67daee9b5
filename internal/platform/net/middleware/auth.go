package middleware

import (
	"crypto/subtle"
	"net/http"

	perr "raidcall/internal/platform/errors"
	pnet "raidcall/internal/platform/net"
)

// AuthPort is the seam the session service implements
type AuthPort interface {
	// Parse returns the user id and admin flag from the request or an error
	Parse(r *http.Request) (userID string, admin bool, err error)
}

// Auth is a no-op until wired. It uses the port when provided
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			uid, admin, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithUser(r.Context(), uid)
			ctx = pnet.WithAdmin(ctx, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly rejects requests whose context does not carry an admin session
// mount after Auth
func AdminOnly(write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !pnet.IsAdmin(r.Context()) {
				err := perr.New(perr.ErrorCodeForbidden, "admin privileges required")
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BotSecret guards the bot-facing surface with a pre-shared secret header.
// The comparison is constant time so the secret cannot be probed byte by byte
func BotSecret(secret string, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fail := func(err error) {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
			}
			if secret == "" {
				fail(perr.New(perr.ErrorCodeUnavailable, "bot authentication not configured"))
				return
			}
			got := r.Header.Get("X-Bot-Secret")
			if got == "" {
				fail(perr.New(perr.ErrorCodeUnauthorized, "bot secret required"))
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				fail(perr.New(perr.ErrorCodeUnauthorized, "invalid bot secret"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
