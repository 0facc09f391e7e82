package e2e

import (
	"github.com/cucumber/godog"

	"landregistry/e2e/steps/auth"
	"landregistry/e2e/steps/common"
	"landregistry/e2e/steps/ratelimit"
	"landregistry/e2e/steps/transfer"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	auth.RegisterSteps(ctx, tc)
	transfer.RegisterSteps(ctx, tc)
	ratelimit.RegisterSteps(ctx, tc)
}
