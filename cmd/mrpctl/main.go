// Package main is the entry point for the mrpctl CLI.
//
// mrpctl is a command-line client for Mr. Provisioner. It uploads kernel,
// initrd and preseed artifacts, assigns them to bare-metal machines,
// requests provisioning and reports machine addresses.
//
// Commands: init, machine provision, machine ip, image upload,
// preseed upload.
//
// For detailed usage information, run:
//
//	mrpctl --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/mrpctl/cmd/mrpctl/commands"
	"github.com/imamik/mrpctl/cmd/mrpctl/handlers"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	commands.SetVersionInfo(version, commit, date)
	err := commands.Root().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, handlers.FormatError(err))
		os.Exit(1)
	}
}
