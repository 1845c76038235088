package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/todo-e2e/internal/common"
)

// Exit codes
const (
	exitFailure      = 1 // a scenario or check failed
	exitCommandError = 2 // bad arguments, config or paths
)

// defaultConfigFile is picked up from the working directory when no -c is given.
const defaultConfigFile = "todo-e2e.toml"

// exitError carries the process exit code of a failed command.
type exitError struct {
	code int
	msg  string
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *exitError) Unwrap() error {
	return e.err
}

func commandError(msg string, err error) error {
	return &exitError{code: exitCommandError, msg: msg, err: err}
}

func failure(msg string) error {
	return &exitError{code: exitFailure, msg: msg}
}

// exitCode maps an error returned by a command to a process exit code.
func exitCode(err error) int {
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return exitFailure
}

// rootOptions holds the persistent flags.
type rootOptions struct {
	configFiles []string
	url         string
	headed      bool
	verbose     bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "todo-e2e",
		Short: "End-to-end checks for the to-do list web application",
		Long: `Drives a real Chrome through the to-do list application and checks what it renders.

Configuration is read from the defaults, then each -c file in order, then TODO_E2E_* environment
variables, then flags. todo-e2e.toml in the working directory is used when no -c is given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringArrayVarP(&opts.configFiles, "config", "c", nil, "configuration file (repeatable, later files override earlier ones)")
	cmd.PersistentFlags().StringVar(&opts.url, "url", "", "entry URL of the application (overrides config)")
	cmd.PersistentFlags().BoolVar(&opts.headed, "headed", false, "show the browser window")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newCheckCommand(opts))
	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newServeFixtureCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// loadConfig resolves the configuration (defaults -> files -> env -> flags) and initialises the
// logger from it.
func loadConfig(opts *rootOptions) (*common.Config, arbor.ILogger, error) {
	files := opts.configFiles
	if len(files) == 0 {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			files = []string{defaultConfigFile}
		}
	}

	config, err := common.LoadFromFiles(files...)
	if err != nil {
		return nil, nil, commandError("failed to load configuration", err)
	}

	common.ApplyFlagOverrides(config, opts.url, opts.headed, opts.verbose)
	if err := config.Validate(); err != nil {
		return nil, nil, commandError("invalid flags", err)
	}

	logger := common.InitLogger(config)
	common.SetCrashDir(config.Results.BaseDir)
	logger.Debug().
		Strs("config_files", files).
		Str("entry_url", config.App.EntryURL).
		Bool("headless", config.Browser.Headless).
		Str("log_level", config.Logging.Level).
		Msg("Resolved configuration")

	return config, logger, nil
}
