package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fivetwenty-io/formula-cleaner/cmd/formula-cleaner/commands"
	"github.com/fivetwenty-io/formula-cleaner/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := commands.NewRootCommand(commands.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		// Validation problems were already printed one per line.
		var validationErr *config.ValidationError
		if !errors.As(err, &validationErr) {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}

		os.Exit(1)
	}
}
