package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ternarybob/todo-e2e/internal/common"
	"github.com/ternarybob/todo-e2e/internal/fixtureapp"
)

type serveOptions struct {
	*rootOptions
	port int
	raw  bool
}

func newServeFixtureCommand(root *rootOptions) *cobra.Command {
	opts := &serveOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "serve-fixture",
		Short: "Serve the built-in fixture to-do page",
		Long: `Serves a local page with the same selector contract as the application, so the suite
can run offline:

  todo-e2e serve-fixture --port 8088
  TODO_E2E_ENTRY_URL=http://127.0.0.1:8088/#/ go test ./test/ui/...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveFixture(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.port, "port", "p", 8088, "listen port (0 picks a free port)")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "serve assets without minification")

	return cmd
}

func serveFixture(cmd *cobra.Command, opts *serveOptions) error {
	if opts.port < 0 || opts.port > 65535 {
		return commandError(fmt.Sprintf("invalid port %d", opts.port), nil)
	}

	_, logger, err := loadConfig(opts.rootOptions)
	if err != nil {
		return err
	}
	common.PrintBanner(common.GetVersion())

	srv, err := fixtureapp.Start(fixtureapp.Config{
		Addr: fmt.Sprintf("127.0.0.1:%d", opts.port),
		Raw:  opts.raw,
	}, logger)
	if err != nil {
		return commandError("failed to start fixture app", err)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s - Press Ctrl+C to stop\n", srv.URL())
	<-ctx.Done()

	logger.Info().Str("url", srv.URL()).Msg("Stopping fixture app")
	return srv.Close()
}
