package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/todo-e2e/internal/common"
	"github.com/ternarybob/todo-e2e/internal/fixtureapp"
	"github.com/ternarybob/todo-e2e/internal/harness"
	"github.com/ternarybob/todo-e2e/internal/results"
	"github.com/ternarybob/todo-e2e/internal/scenario"
)

type runOptions struct {
	*rootOptions
	fixture bool
}

func newRunCommand(root *rootOptions) *cobra.Command {
	opts := &runOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "run [scenario files or directories...]",
		Short: "Run YAML scenarios in a real browser",
		Long: `Runs each scenario in a fresh browser session and writes its log, trace and failure
screenshot under the results directory.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, configuration, etc.)

Examples:
  todo-e2e run scenarios
  todo-e2e run scenarios/add.yaml --url http://localhost:8080/#/
  todo-e2e run scenarios --fixture`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(cmd, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.fixture, "fixture", false, "run against the built-in fixture page instead of the entry URL")

	return cmd
}

func runScenarios(cmd *cobra.Command, opts *runOptions, paths []string) error {
	scenarios, err := scenario.LoadPaths(paths...)
	if err != nil {
		return commandError("failed to load scenarios", err)
	}
	if len(scenarios) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}

	config, logger, err := loadConfig(opts.rootOptions)
	if err != nil {
		return err
	}
	common.PrintBanner(common.GetVersion())

	fixture, err := harness.NewFixture(config)
	if err != nil {
		return commandError("invalid configuration", err)
	}
	if opts.fixture {
		srv, err := fixtureapp.Start(fixtureapp.Config{}, logger)
		if err != nil {
			return commandError("failed to start fixture app", err)
		}
		defer srv.Close()
		fixture = fixture.WithEntryURL(srv.URL())
	}

	run, err := results.NewRun(config.Results.BaseDir, "scenarios")
	if err != nil {
		return commandError("failed to create results directory", err)
	}
	common.SetCrashDir(run.Dir)
	logger.Info().Str("dir", run.Dir).Int("scenarios", len(scenarios)).Msg("Run started")

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	passed, failed := 0, 0
	for _, sc := range scenarios {
		if ctx.Err() != nil {
			break
		}

		res := runOne(ctx, run, fixture, config.Results.ScreenshotsOnFailure, logger, sc)
		status := "PASS"
		if res.Pass {
			passed++
		} else {
			status = "FAIL"
			failed++
		}
		fmt.Fprintf(out, "%s %s (%s)\n", status, sc.Name, res.Duration.Round(time.Millisecond))
		for _, msg := range res.Errors {
			fmt.Fprintf(out, "    %s\n", msg)
		}
	}

	fmt.Fprintf(out, "\n%d passed, %d failed, results in %s\n", passed, failed, run.Dir)
	if ctx.Err() != nil {
		return failure("run interrupted")
	}
	if failed > 0 {
		return failure(fmt.Sprintf("%d scenario(s) failed", failed))
	}
	return nil
}

// runOne runs sc in its own session and case directory.
func runOne(ctx context.Context, run *results.Run, fixture *harness.Fixture, screenshots bool, logger arbor.ILogger, sc *scenario.Scenario) *scenario.Result {
	c, err := run.NewCase(sc.Name, nil)
	if err != nil {
		return &scenario.Result{Name: sc.Name, Errors: []string{err.Error()}}
	}

	session, err := harness.NewSession(ctx, fixture,
		harness.WithLogger(logger),
		harness.WithScreenshotDir(c.ScreenshotDir()),
	)
	if err != nil {
		c.Log("session failed: %v", err)
		c.Finish(true)
		return &scenario.Result{Name: sc.Name, Errors: []string{err.Error()}}
	}
	defer session.Close()

	if sc.Path != "" {
		c.Log("scenario file: %s", sc.Path)
	}
	res := scenario.NewRunner(session, logger).Run(ctx, sc)

	for _, line := range strings.Split(strings.TrimRight(res.Render(), "\n"), "\n") {
		c.Log("%s", line)
	}
	if !res.Pass && screenshots {
		if path, err := session.Screenshot("failure"); err != nil {
			c.Log("screenshot failed: %v", err)
		} else {
			c.Log("screenshot: %s", path)
		}
	}
	c.Finish(!res.Pass)

	return res
}
