package testutil

import (
	"net/http"

	"landregistry/pkg/requestcontext"
)

// WithRole sets the acting role the way the role middleware would.
func WithRole(req *http.Request, role string) *http.Request {
	return req.WithContext(requestcontext.WithRole(req.Context(), role))
}

// FromClientIP sets the client address the way the metadata middleware
// would.
func FromClientIP(req *http.Request, ip string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), ip, req.UserAgent(), ""))
}
