package httpkit

import (
	"net/http"

	perrs "raidcall/internal/platform/errors"
	pnet "raidcall/internal/platform/net"
)

// User returns the authenticated user id from the request context
func User(r *http.Request) (string, error) {
	uid := pnet.UserID(r.Context())
	if uid == "" {
		return "", perrs.Unauthorizedf("not authenticated")
	}
	return uid, nil
}

// MustUser returns the authenticated user id or panics
func MustUser(r *http.Request) string {
	uid, err := User(r)
	if err != nil {
		panic(err)
	}
	return uid
}

// IsAdmin reports whether the request carries an admin session
func IsAdmin(r *http.Request) bool {
	return pnet.IsAdmin(r.Context())
}

// RequireAdmin returns an error unless the request carries an admin session
func RequireAdmin(r *http.Request) error {
	if !pnet.IsAdmin(r.Context()) {
		return perrs.New(perrs.ErrorCodeForbidden, "admin privileges required")
	}
	return nil
}
