package ui

import (
	"os"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/todo-e2e/internal/common"
	"github.com/ternarybob/todo-e2e/internal/harness"
)

// Environment switches read by the suite in addition to the TODO_E2E_* configuration overrides
const (
	// EnvConfigFile names a TOML file layered over the defaults
	EnvConfigFile = "TODO_E2E_CONFIG"
	// EnvFixture runs the suite against the built-in fixture page
	EnvFixture = "TODO_E2E_FIXTURE"
	// EnvDivergent enables the known-divergent assertions
	EnvDivergent = "TODO_E2E_DIVERGENT"
)

// suite is the state TestMain prepares for every test in the package
var suite struct {
	config     *common.Config
	fixture    *harness.Fixture
	logger     arbor.ILogger
	skipReason string
}

// loadSuiteConfig loads defaults, then the optional config file, then environment overrides
func loadSuiteConfig() (*common.Config, error) {
	return common.LoadFromFiles(os.Getenv(EnvConfigFile))
}

// envEnabled reports whether a boolean environment switch is on
func envEnabled(key string) bool {
	enabled, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && enabled
}
