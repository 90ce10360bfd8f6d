package main

import "github.com/urfave/cli/v3"

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the Spotify tools over MCP (default)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "transport",
				Usage: "Transport: stdio or http",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address for the http transport",
			},
		},
		Action: r.Serve,
	}
}

func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Log in to Spotify and cache the token",
		Action: r.Auth,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Remove the cached Spotify token",
		Action: r.Logout,
	}
}

func toolsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tools",
		Usage: "List the tools advertised to MCP clients",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the catalog with input schemas as JSON",
			},
		},
		Action: r.Tools,
	}
}

func callCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "call",
		Usage: "Run one tool and print its result",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "tool"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "args",
				Usage: "Tool arguments as a JSON object",
				Value: "{}",
			},
		},
		Action: r.Call,
	}
}

func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage local favorites",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List favorites",
				Action: r.FavoritesList,
			},
			{
				Name:  "add",
				Usage: "Add a track, or the current track when --uri is omitted",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "uri", Usage: "Spotify track URI"},
					&cli.StringFlag{Name: "name", Usage: "Track name"},
					&cli.StringSliceFlag{Name: "artist", Usage: "Artist name (repeatable)"},
					&cli.StringFlag{Name: "album", Usage: "Album name"},
				},
				Action: r.FavoritesAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a favorite by URI",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "uri"},
				},
				Action: r.FavoritesRemove,
			},
			{
				Name:   "random",
				Usage:  "Print a random favorite",
				Action: r.FavoritesRandom,
			},
			{
				Name:   "clear",
				Usage:  "Remove every favorite",
				Action: r.FavoritesClear,
			},
		},
	}
}

func initCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write an example configuration file",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path"},
		},
		Action: r.Init,
	}
}
