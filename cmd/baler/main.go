// Package main is the entry point for the baler asset build tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/baler/cmd/baler/commands"
	"go.trai.ch/baler/internal/adapters/telemetry"
	"go.trai.ch/baler/internal/app"
	_ "go.trai.ch/baler/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The telemetry backend must be chosen before the dependency graph
	// executes, which happens before cobra parses any flags.
	if slices.Contains(os.Args[1:], "--progress") {
		telemetry.EnableProgress()
	}

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	defer func() {
		_ = components.Telemetry.Close()
	}()

	cli := commands.New(components.App)

	if err := cli.Execute(ctx); err != nil {
		// zerr prints a report with stack trace and metadata for %+v.
		_, _ = fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		return 1
	}
	return 0
}
