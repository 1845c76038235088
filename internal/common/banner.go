package common

import (
	"github.com/ternarybob/banner"
)

// PrintBanner displays the CLI banner
func PrintBanner(version string) {
	banner.PrintSimple("todo-e2e", version)
}
