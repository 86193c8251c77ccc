// Package main is the entry point for the zr CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.trai.ch/zr/cmd/zr/commands"
	"go.trai.ch/zr/internal/app"
	"go.trai.ch/zr/internal/core/domain"
)

func main() {
	os.Exit(runWithArgs(os.Args[1:]))
}

// runWithArgs executes the CLI against the given arguments, separate from
// os.Args so tests can drive it without mutating global state.
func runWithArgs(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, err := app.NewApp()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
		return 1
	}
	defer components.Close()

	cli := commands.New(components)
	cli.SetArgs(expandAlias(components, args))

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrBuildExecutionFailed) {
			if ctx.Err() != nil {
				return 130
			}
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}

// reservedCommands are the zr subcommand names that always take priority
// over an alias of the same name.
var reservedCommands = map[string]bool{
	"run": true, "list": true, "version": true, "alias": true, "help": true, "completion": true,
}

// expandAlias substitutes args[0] with its registered alias expansion when
// it names one and isn't shadowed by a built-in subcommand.
func expandAlias(components *app.Components, args []string) []string {
	if len(args) == 0 || reservedCommands[args[0]] {
		return args
	}
	store := components.AliasStore()
	if store == nil {
		return args
	}
	expanded, err := store.Expand(args[0])
	if err != nil {
		return args
	}
	return append(expanded, args[1:]...)
}
