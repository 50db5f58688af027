// Command mailmerge sends one personalised email per row of a CSV table.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newApp().execute(ctx, os.Args[1:])
	cancel()
	if err != nil {
		os.Exit(1)
	}
}
