// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the database and converters directory.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create the config file, initialize the database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   r.configPath,
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles IGDB authentication through Twitch.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage IGDB authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Exchange Twitch client credentials for an IGDB access token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "client-id",
						Usage:   "Twitch client ID (defaults to config)",
						Sources: cli.EnvVars("TWITCH_CLIENT_ID"),
					},
					&cli.StringFlag{
						Name:    "client-secret",
						Usage:   "Twitch client secret (defaults to config)",
						Sources: cli.EnvVars("TWITCH_CLIENT_SECRET"),
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Delete the stored access token",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Check whether IGDB accepts the stored access token",
				Action: r.AuthStatus,
			},
		},
	}
}

// platformsCommand handles platform retrieval and selection.
func platformsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "platforms",
		Aliases: []string{"p"},
		Usage:   "Platform operations",
		Commands: []*cli.Command{
			{
				Name:   "update",
				Usage:  "Retrieve every platform from IGDB",
				Action: r.PlatformsUpdate,
			},
			{
				Name:    "ls",
				Aliases: []string{"list"},
				Usage:   "List saved platforms",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "active-only",
						Aliases: []string{"a"},
						Usage:   "Only list active platforms",
					},
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Output CSV",
					},
				},
				Action: r.PlatformsList,
			},
			{
				Name:  "manage",
				Usage: "Choose the active platforms",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "ids",
						Usage: "Comma-separated platform IDs to activate (interactive picker when omitted)",
					},
				},
				Action: r.PlatformsManage,
			},
		},
	}
}

// gamesCommand handles game retrieval for the active platforms.
func gamesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "games",
		Aliases: []string{"g"},
		Usage:   "Game operations",
		Commands: []*cli.Command{
			{
				Name:   "update",
				Usage:  "Replace saved games with those of the active platforms",
				Action: r.GamesUpdate,
			},
			{
				Name:  "stats",
				Usage: "Show what the changelog will contain",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "markdown",
						Usage: "Output Markdown",
					},
				},
				Action: r.GamesStats,
			},
			{
				Name:  "open",
				Usage: "Open a game's IGDB page in the browser",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.GamesOpen,
			},
		},
	}
}

// outputCommand handles changelog generation and conversion.
func outputCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Changelog and converter operations",
		Commands: []*cli.Command{
			{
				Name:  "changelog",
				Usage: "Write the Liquibase changelog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Changelog path (defaults to output.changelog_file)",
					},
				},
				Action: r.OutputChangelog,
			},
			{
				Name:   "converters",
				Usage:  "List converter definitions",
				Action: r.OutputConverters,
			},
			{
				Name:  "convert",
				Usage: "Run a converter",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Converter name (interactive chooser when omitted)",
					},
				},
				Action: r.OutputConvert,
			},
		},
	}
}

// wizardCommand runs the whole retrieval in order.
func wizardCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "wizard",
		Usage: "Update platforms, pick active ones, update games, write the changelog and convert it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "ids",
				Usage: "Comma-separated platform IDs to activate",
			},
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Converter to run after the changelog",
			},
		},
		Action: r.Wizard,
	}
}
