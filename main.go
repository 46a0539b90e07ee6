// ABOUTME: Entry point for the thecheck CLI
// ABOUTME: Delegates to the cobra root command

package main

import (
	"os"

	"github.com/Bryanads/thecheck-frontend-app/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
