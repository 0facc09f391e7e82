// Package e2e runs the Gherkin acceptance features against the assembled
// router.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
)

// TestContext carries one scenario's HTTP state between steps.
type TestContext struct {
	handler    http.Handler
	clientIP   string
	lastStatus int
	lastBody   []byte
	saved      map[string]string
}

func NewTestContext(handler http.Handler) *TestContext {
	return &TestContext{
		handler:  handler,
		clientIP: "198.51.100.7",
		saved:    map[string]string{},
	}
}

func (tc *TestContext) SetClientIP(ip string) {
	tc.clientIP = ip
}

func (tc *TestContext) POST(path string, body interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	tc.do(req, nil)
	return nil
}

func (tc *TestContext) GET(path string, headers map[string]string) error {
	tc.do(httptest.NewRequest(http.MethodGet, path, nil), headers)
	return nil
}

func (tc *TestContext) do(req *http.Request, headers map[string]string) {
	req.Header.Set("X-Forwarded-For", tc.clientIP)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	tc.handler.ServeHTTP(rr, req)
	tc.lastStatus = rr.Code
	tc.lastBody = rr.Body.Bytes()
}

func (tc *TestContext) GetLastResponseStatus() int {
	return tc.lastStatus
}

func (tc *TestContext) GetLastResponseBody() []byte {
	return tc.lastBody
}

// GetResponseField resolves a dotted path such as "transfer.id" or
// "results.0.land_id" in the last JSON response.
func (tc *TestContext) GetResponseField(field string) (interface{}, error) {
	var doc interface{}
	if err := json.Unmarshal(tc.lastBody, &doc); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	cur := doc
	for _, part := range strings.Split(field, ".") {
		switch node := cur.(type) {
		case map[string]interface{}:
			v, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %q not found in response", field)
			}
			cur = v
		case []interface{}:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("index %q out of range in %q", part, field)
			}
			cur = node[i]
		default:
			return nil, fmt.Errorf("cannot descend into %q of %q", part, field)
		}
	}
	return cur, nil
}

func (tc *TestContext) Save(key, value string) {
	tc.saved[key] = value
}

func (tc *TestContext) Saved(key string) string {
	return tc.saved[key]
}
