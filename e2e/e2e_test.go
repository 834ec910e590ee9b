package e2e

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
)

// Every scenario runs against its own in-process fake backend, so the suite
// needs no running services. E2E_TAGS narrows the run, e.g. "@two-factor".
var opts = godog.Options{
	Output: colors.Colored(os.Stdout),
	Format: "pretty",
	Paths:  []string{"features"},
	Strict: true,
	Tags:   os.Getenv("E2E_TAGS"),
}

func init() {
	godog.BindCommandLineFlags("godog.", &opts)
}

func TestFeatures(t *testing.T) {
	flag.Parse()
	if testing.Short() {
		t.Skip("behaviour scenarios are skipped in -short mode")
	}
	opts.TestingT = t

	suite := godog.TestSuite{
		Name:                "authsession",
		ScenarioInitializer: InitializeScenario,
		Options:             &opts,
	}
	if status := suite.Run(); status != 0 {
		t.Fatalf("feature run failed with status %d", status)
	}
}

// InitializeScenario gives each scenario a fresh session core and prints the
// last recorded operation outcome when a scenario fails.
func InitializeScenario(sc *godog.ScenarioContext) {
	tc := NewTestContext()

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		tc.Close()
		*tc = *NewTestContext()
		return ctx, nil
	})

	sc.After(func(ctx context.Context, scenario *godog.Scenario, err error) (context.Context, error) {
		if err != nil {
			success, code, message := tc.LastOutcome()
			fmt.Printf("Scenario failed: %s\nLast outcome: success=%t code=%s message=%q\n",
				scenario.Name, success, code, message)
		}
		tc.Close()
		return ctx, nil
	})

	RegisterSteps(sc, tc)
}
