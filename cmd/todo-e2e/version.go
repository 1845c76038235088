package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ternarybob/todo-e2e/internal/common"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "todo-e2e %s\n", common.GetFullVersion())
		},
	}
}
