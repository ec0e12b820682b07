package auth

import (
	"context"
	"net/http"
)

// Headers set by the identity provider in front of the server.
const (
	HeaderUserID = "X-Rentapp-User-Id"
	HeaderRole   = "X-Rentapp-Role"
	HeaderName   = "X-Rentapp-User-Name"
)

type contextKey struct{}

// WithIdentity is middleware that reads the caller's identity from the
// provider headers. Requests without a user id act as guests.
func WithIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Identity{
			UserID: r.Header.Get(HeaderUserID),
			Role:   ParseRole(r.Header.Get(HeaderRole)),
			Name:   r.Header.Get(HeaderName),
		}
		if id.UserID == "" {
			id.Role = RoleGuest
		}
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), id)))
	})
}

// NewContext returns a copy of ctx carrying id.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored by WithIdentity, or a guest.
func FromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(contextKey{}).(Identity); ok {
		return id
	}
	return Identity{Role: RoleGuest}
}
