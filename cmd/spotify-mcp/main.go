// Command spotify-mcp serves Spotify playback, search and library tools to
// MCP clients.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/panuhen/spotify-mcp/internal/logging"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{})
	if err := runner.Command().Run(ctx, os.Args); err != nil {
		logger := runner.logger
		if logger == nil {
			logger, _ = logging.New(nil, "")
		}
		stop()
		logger.Fatalf("application error: %v", err)
	}
}
