package auth

import (
	"context"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GetResponseField(field string) (interface{}, error)
}

// RegisterSteps registers sign-in step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &authSteps{tc: tc}

	ctx.Step(`^I sign in as "([^"]*)" with role "([^"]*)"$`, steps.signIn)
	ctx.Step(`^I sign in as "([^"]*)" without a role$`, steps.signInWithoutRole)
	ctx.Step(`^I sign out$`, steps.signOut)
}

type authSteps struct {
	tc TestContext
}

func (s *authSteps) signIn(ctx context.Context, email, role string) error {
	return s.tc.POST("/auth/login", map[string]interface{}{
		"email":    email,
		"password": "demo",
		"role":     role,
	})
}

func (s *authSteps) signInWithoutRole(ctx context.Context, email string) error {
	return s.tc.POST("/auth/login", map[string]interface{}{
		"email":    email,
		"password": "demo",
	})
}

func (s *authSteps) signOut(ctx context.Context) error {
	return s.tc.POST("/auth/logout", nil)
}
