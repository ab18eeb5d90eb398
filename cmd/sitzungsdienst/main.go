// Command sitzungsdienst extracts weekly court duty assignments from roster
// PDFs and exports them as csv, json, ics or xlsx.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joseph-ayodele/sitzungsdienst/internal/common"
)

const version = "1.2.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		// "No results found!" has already been printed
		if !errors.Is(err, common.ErrNoResults) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
