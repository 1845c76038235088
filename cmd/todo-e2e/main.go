package main

import (
	"fmt"
	"os"

	"github.com/ternarybob/todo-e2e/internal/common"
)

func main() {
	defer common.RecoverWithCrashFile()

	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}
