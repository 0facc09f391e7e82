// Package attrs reads values back out of slog-style key/value lists so one
// attribute slice can feed both a log line and an audit event.
package attrs

import "fmt"

// String returns the value logged under key. Strings are returned as is,
// fmt.Stringers are rendered, anything else or a missing key yields "".
func String(kv []any, key string) string {
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); !ok || k != key {
			continue
		}
		switch v := kv[i+1].(type) {
		case string:
			return v
		case fmt.Stringer:
			return v.String()
		}
		return ""
	}
	return ""
}

// First returns the first non-empty String among keys.
func First(kv []any, keys ...string) string {
	for _, key := range keys {
		if v := String(kv, key); v != "" {
			return v
		}
	}
	return ""
}
