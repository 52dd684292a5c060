package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			// Interrupted watch loop, not a failure worth printing.
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "cinebo:", err)
		os.Exit(1)
	}
}
