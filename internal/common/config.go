package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// DefaultEntryURL is the address of the to-do application with the "all" filter selected.
const DefaultEntryURL = "https://todolist.james.am/#/"

// Config represents the harness configuration
type Config struct {
	App      AppConfig      `toml:"app"`
	Browser  BrowserConfig  `toml:"browser"`
	Timeouts TimeoutsConfig `toml:"timeouts"`
	Results  ResultsConfig  `toml:"results"`
	Logging  LoggingConfig  `toml:"logging"`
}

// AppConfig describes the application under test
type AppConfig struct {
	EntryURL     string `toml:"entry_url" validate:"required,url"`
	CommitKey    string `toml:"commit_key" validate:"required,key"`
	ResetStorage bool   `toml:"reset_storage"` // Clear origin storage on the first OpenApp of a session
}

// BrowserConfig controls the Chrome instance launched by chromedp
type BrowserConfig struct {
	Headless     bool   `toml:"headless"`
	DisableGPU   bool   `toml:"disable_gpu"`
	NoSandbox    bool   `toml:"no_sandbox"`
	WindowWidth  int    `toml:"window_width" validate:"gte=320,lte=7680"`
	WindowHeight int    `toml:"window_height" validate:"gte=240,lte=4320"`
	ExecPath     string `toml:"exec_path"` // Empty = let chromedp find Chrome
}

// TimeoutsConfig holds every bounded wait used by the harness
type TimeoutsConfig struct {
	PageReady    Duration `toml:"page_ready" validate:"gt=0"`
	Element      Duration `toml:"element" validate:"gt=0"`
	Assert       Duration `toml:"assert" validate:"gt=0"`
	PollInterval Duration `toml:"poll_interval" validate:"gt=0"`
	Case         Duration `toml:"case" validate:"gt=0"`
}

// ResultsConfig controls where run artifacts are written
type ResultsConfig struct {
	BaseDir              string `toml:"base_dir" validate:"required"`
	ScreenshotsOnFailure bool   `toml:"screenshots_on_failure"`
}

// LoggingConfig controls the arbor logger
type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=trace debug info warn error"`
	Output []string `toml:"output" validate:"dive,oneof=stdout console file"`
}

// Duration is a time.Duration that reads and writes as a Go duration string ("10s", "250ms")
type Duration time.Duration

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// NewDefaultConfig returns the configuration used when no file, env or flag overrides it
func NewDefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			EntryURL:     DefaultEntryURL,
			CommitKey:    "Enter",
			ResetStorage: true,
		},
		Browser: BrowserConfig{
			Headless:     true,
			DisableGPU:   true,
			WindowWidth:  1920,
			WindowHeight: 1080,
		},
		Timeouts: TimeoutsConfig{
			PageReady:    Duration(10 * time.Second),
			Element:      Duration(4 * time.Second),
			Assert:       Duration(4 * time.Second),
			PollInterval: Duration(100 * time.Millisecond),
			Case:         Duration(2 * time.Minute),
		},
		Results: ResultsConfig{
			BaseDir:              "./results",
			ScreenshotsOnFailure: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadFromFiles loads configuration with priority: default -> file1 -> file2 -> ... -> env.
// Later files override earlier ones. CLI flags are applied afterwards with ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if url := os.Getenv("TODO_E2E_ENTRY_URL"); url != "" {
		config.App.EntryURL = url
	}
	if key := os.Getenv("TODO_E2E_COMMIT_KEY"); key != "" {
		config.App.CommitKey = key
	}
	if reset := os.Getenv("TODO_E2E_RESET_STORAGE"); reset != "" {
		if b, err := strconv.ParseBool(reset); err == nil {
			config.App.ResetStorage = b
		}
	}

	if headless := os.Getenv("TODO_E2E_HEADLESS"); headless != "" {
		if b, err := strconv.ParseBool(headless); err == nil {
			config.Browser.Headless = b
		}
	}
	if noSandbox := os.Getenv("TODO_E2E_NO_SANDBOX"); noSandbox != "" {
		if b, err := strconv.ParseBool(noSandbox); err == nil {
			config.Browser.NoSandbox = b
		}
	}
	if path := os.Getenv("TODO_E2E_CHROME_PATH"); path != "" {
		config.Browser.ExecPath = path
	}

	if d := os.Getenv("TODO_E2E_ASSERT_TIMEOUT"); d != "" {
		if parsed, err := time.ParseDuration(d); err == nil {
			config.Timeouts.Assert = Duration(parsed)
		}
	}
	if d := os.Getenv("TODO_E2E_PAGE_READY_TIMEOUT"); d != "" {
		if parsed, err := time.ParseDuration(d); err == nil {
			config.Timeouts.PageReady = Duration(parsed)
		}
	}

	// TEST_RESULTS_DIR is what the test runner hands to go test
	if dir := os.Getenv("TODO_E2E_RESULTS_DIR"); dir != "" {
		config.Results.BaseDir = dir
	} else if dir := os.Getenv("TEST_RESULTS_DIR"); dir != "" {
		config.Results.BaseDir = dir
	}

	if level := os.Getenv("TODO_E2E_LOG_LEVEL"); level != "" {
		config.Logging.Level = strings.ToLower(level)
	}
	if output := os.Getenv("TODO_E2E_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority).
// Zero values leave the config untouched.
func ApplyFlagOverrides(config *Config, entryURL string, headed bool, verbose bool) {
	if entryURL != "" {
		config.App.EntryURL = entryURL
	}
	if headed {
		config.Browser.Headless = false
	}
	if verbose {
		config.Logging.Level = "debug"
	}
}

// Validate checks the configuration with go-playground/validator
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation("key", validateKey); err != nil {
		return fmt.Errorf("failed to register key validation: %w", err)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Timeouts.PollInterval > c.Timeouts.Assert {
		return fmt.Errorf("invalid configuration: poll_interval (%s) exceeds assert timeout (%s)",
			c.Timeouts.PollInterval.Std(), c.Timeouts.Assert.Std())
	}
	return nil
}
