package session

import (
	"context"
	"net/http"
)

type contextKey struct{}

// WithID stores the session ID in ctx
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IDFromContext returns the session ID stored by WithID or Middleware
func IDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// Ensure returns the session ID carried by the request cookie, issuing a new
// cookie when it is missing or malformed.
func Ensure(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && ValidID(c.Value) {
		return c.Value
	}
	id := NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// Middleware makes the session ID available through IDFromContext. A session
// already placed in the context by an outer router is reused.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IDFromContext(r.Context()) != "" {
			next.ServeHTTP(w, r)
			return
		}
		id := Ensure(w, r)
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}
