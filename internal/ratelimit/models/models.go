package models

import (
	"strings"
	"time"
)

// EndpointClass groups routes that share a request budget.
type EndpointClass string

const (
	// ClassAuth covers the demo sign-in.
	ClassAuth EndpointClass = "auth"
	// ClassRead covers GET requests such as record search.
	ClassRead EndpointClass = "read"
	// ClassWrite covers registrations, transfers and subdivisions.
	ClassWrite EndpointClass = "write"
)

func (c EndpointClass) IsValid() bool {
	switch c {
	case ClassAuth, ClassRead, ClassWrite:
		return true
	}
	return false
}

// Limit is a request budget over a sliding window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// DefaultLimits are the per-IP budgets applied when none are configured.
func DefaultLimits() map[EndpointClass]Limit {
	return map[EndpointClass]Limit{
		ClassAuth:  {Requests: 10, Window: time.Minute},
		ClassRead:  {Requests: 120, Window: time.Minute},
		ClassWrite: {Requests: 60, Window: time.Minute},
	}
}

// RateLimitResult is the outcome of one check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// RateLimitExceededResponse is the 429 body.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

// SanitizeKeySegment escapes the key delimiter so a crafted identifier
// cannot address another bucket.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// IPKey is the bucket key for one client IP within a class.
func IPKey(class EndpointClass, ip string) string {
	return "ip:" + string(class) + ":" + SanitizeKeySegment(ip)
}
