package ratelimit

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GetResponseField(field string) (interface{}, error)
	GetLastResponseStatus() int
	SetClientIP(ip string)
}

// RegisterSteps registers per-IP rate limiting step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ratelimitSteps{tc: tc}

	ctx.Step(`^I am signing in from IP "([^"]*)"$`, steps.signingInFromIP)
	ctx.Step(`^I sign in (\d+) times$`, steps.signInNTimes)
	ctx.Step(`^every attempt should have succeeded$`, steps.everyAttemptSucceeded)
	ctx.Step(`^the next sign-in should return (\d+)$`, steps.nextSignInShouldReturn)
	ctx.Step(`^the response should indicate the rate limit$`, steps.responseShouldIndicateRateLimit)
}

type ratelimitSteps struct {
	tc       TestContext
	statuses []int
}

func (s *ratelimitSteps) signingInFromIP(ctx context.Context, ip string) error {
	s.tc.SetClientIP(ip)
	return nil
}

func (s *ratelimitSteps) signIn() error {
	if err := s.tc.POST("/auth/login", map[string]interface{}{
		"email":    "sarah.nakato@lands.go.ug",
		"password": "demo",
		"role":     "surveyor",
	}); err != nil {
		return err
	}
	s.statuses = append(s.statuses, s.tc.GetLastResponseStatus())
	return nil
}

func (s *ratelimitSteps) signInNTimes(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := s.signIn(); err != nil {
			return err
		}
	}
	return nil
}

func (s *ratelimitSteps) everyAttemptSucceeded(ctx context.Context) error {
	for i, status := range s.statuses {
		if status != 200 {
			return fmt.Errorf("attempt %d returned %d", i+1, status)
		}
	}
	return nil
}

func (s *ratelimitSteps) nextSignInShouldReturn(ctx context.Context, expected int) error {
	if err := s.signIn(); err != nil {
		return err
	}
	if got := s.tc.GetLastResponseStatus(); got != expected {
		return fmt.Errorf("expected %d, got %d", expected, got)
	}
	return nil
}

func (s *ratelimitSteps) responseShouldIndicateRateLimit(ctx context.Context) error {
	code, err := s.tc.GetResponseField("error")
	if err != nil {
		return err
	}
	if code != "rate_limit_exceeded" {
		return fmt.Errorf("expected rate_limit_exceeded, got %v", code)
	}
	return nil
}
