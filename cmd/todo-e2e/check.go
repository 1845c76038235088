package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ternarybob/todo-e2e/internal/harness"
)

type checkOptions struct {
	*rootOptions
	httpOnly bool
}

func newCheckCommand(root *rootOptions) *cobra.Command {
	opts := &checkOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the application is reachable and renders",
		Long: `Requests the entry URL over HTTP, then opens it in headless Chrome and prints the title.

Examples:
  todo-e2e check
  todo-e2e check --url http://localhost:8080/#/
  todo-e2e check --http-only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.httpOnly, "http-only", false, "skip the browser check")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *checkOptions) error {
	config, logger, err := loadConfig(opts.rootOptions)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	url := config.App.EntryURL

	status, err := httpStatus(cmd.Context(), url, config.Timeouts.PageReady.Std())
	if err != nil {
		return failure(fmt.Sprintf("%s is not reachable: %v", url, err))
	}
	if status != http.StatusOK {
		return failure(fmt.Sprintf("%s returned HTTP %d", url, status))
	}
	fmt.Fprintf(out, "HTTP %d %s\n", status, url)

	if opts.httpOnly {
		return nil
	}

	fixture, err := harness.NewFixture(config)
	if err != nil {
		return commandError("invalid configuration", err)
	}
	session, err := harness.NewSession(cmd.Context(), fixture, harness.WithLogger(logger))
	if err != nil {
		return failure(err.Error())
	}
	defer session.Close()

	if err := session.OpenApp(); err != nil {
		return failure(err.Error())
	}
	title, err := session.Title()
	if err != nil {
		return failure(err.Error())
	}
	fmt.Fprintf(out, "Rendered %q\n", title)

	if title != harness.TitleText {
		return failure(fmt.Sprintf("unexpected title %q, want %q", title, harness.TitleText))
	}
	return nil
}

// httpStatus performs a GET of url and returns the status code.
func httpStatus(ctx context.Context, url string, timeout time.Duration) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
