package e2e

import (
	"github.com/cucumber/godog"

	"authsession/e2e/steps/admin"
	"authsession/e2e/steps/common"
	"authsession/e2e/steps/identity"
	"authsession/e2e/steps/session"
)

// RegisterSteps registers all step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	session.RegisterSteps(ctx, tc)
	identity.RegisterSteps(ctx, tc)
	admin.RegisterSteps(ctx, tc)
}
