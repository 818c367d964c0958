// Command parecer fills in and renders the Parecer Técnico report.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/goliatone/go-parecer/pkg/session"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := execute(ctx, newApp(), os.Args[1:]); err != nil {
		if !errors.Is(err, session.ErrAborted) {
			fmt.Fprintln(os.Stderr, "erro:", err)
		}
		stop()
		os.Exit(1)
	}
}

// execute runs the command tree for args. The logger is flushed on every
// exit path, failing commands included.
func execute(ctx context.Context, a *app, args []string) error {
	defer a.close()
	root := newRootCmd(a)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
