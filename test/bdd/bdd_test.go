package bdd

import (
	"os"
	"testing"

	"github.com/cucumber/godog"

	"github.com/fame0528/DarkFrame-sub009/test/bdd/steps"
	"github.com/fame0528/DarkFrame-sub009/test/helpers"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	// NOTE: scheduler steps first; their "run fails" wording must not be
	// shadowed by the core's request outcome steps
	steps.InitializeSchedulerScenario(sc)
	steps.InitializeWMDScenario(sc)
}

func TestMain(m *testing.M) {
	// One shared in-memory database; scenarios truncate instead of reopening
	if err := helpers.InitializeSharedTestDB(); err != nil {
		panic("Failed to initialize shared test database: " + err.Error())
	}

	code := m.Run()
	_ = helpers.CloseSharedTestDB()
	os.Exit(code)
}
