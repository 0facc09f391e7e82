package middleware

import (
	"net/http"
	"strings"

	"landregistry/pkg/requestcontext"
)

const (
	// HeaderRole selects the acting role when the query string does not.
	HeaderRole = "X-Land-Role"
	// QueryRole is the query parameter naming the acting role.
	QueryRole = "role"
)

// Role copies the caller-selected role into the context. The query parameter
// wins over the header; values are lowercased and trimmed but not validated,
// since each handler decides how to treat an unknown role.
func Role(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := r.URL.Query().Get(QueryRole)
		if strings.TrimSpace(role) == "" {
			role = r.Header.Get(HeaderRole)
		}
		role = strings.ToLower(strings.TrimSpace(role))
		if role == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := requestcontext.WithRole(r.Context(), role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
