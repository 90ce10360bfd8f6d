package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/panuhen/spotify-mcp/internal/config"
	"github.com/panuhen/spotify-mcp/internal/logging"
)

// Runner holds the configuration shared by every command and provides one
// method per command action.
type Runner struct {
	config *config.Config
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner. A nil
// Config or Logger is built from the command line in the Before hook.
type RunnerOpts struct {
	Config *config.Config
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided options.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
	}
}

// Command returns the root command. Running it without a subcommand serves
// MCP with the configured transport.
func (r *Runner) Command() *cli.Command {
	return &cli.Command{
		Name:    "spotify-mcp",
		Usage:   "Control Spotify from MCP clients",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (default: user config dir)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn or error",
			},
		},
		Before:   r.before,
		Action:   r.Serve,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, authCommand, logoutCommand, toolsCommand, callCommand, favoritesCommand, initCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// before loads .env files and the config file, then builds the logger.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.config == nil {
		if err := config.LoadEnvFiles(); err != nil {
			return ctx, err
		}
		cfg, err := config.Load(cmd.String("config"))
		if err != nil {
			return ctx, err
		}
		r.config = cfg
	}

	if r.logger == nil {
		level := r.config.Log.Level
		if l := cmd.String("log-level"); l != "" {
			level = l
		}
		logger, err := logging.New(nil, level)
		if err != nil {
			return ctx, err
		}
		r.logger = logger
	}

	return ctx, nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.output, format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
