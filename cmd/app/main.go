package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/adapters/assetsapi"
	sqliteadapter "github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/adapters/db/sqlite"
	"github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/adapters/snapshot"
	"github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/application"
	"github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/logging"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "assets",
		Usage: "Jira Assets cloud backup and cross-site restore",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"f"}, Value: "config.json", Usage: "path to the JSON config file"},
			&cli.BoolFlag{Name: "verbose", Usage: "enable debug logging"},
		},
		Commands: []*cli.Command{
			backupCommand(),
			restoreCommand(),
			runsCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func backupCommand() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Export object schemas into a timestamped snapshot and zip it",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}
			logger := logging.New(cfg.LogDir, c.Bool("verbose"))
			logger.Info().Msg("-----------Start of Run-----------")
			defer logger.Info().Msg("------------End of Run------------")

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client, journal, err := connect(ctx, cfg, logger)
			if err != nil {
				return err
			}

			backer := application.NewBacker(client, snapshot.NewStore(), journal, logger, application.BackupOptions{
				Folder:     cfg.Folder,
				Workers:    cfg.Workers,
				SchemaKeys: cfg.ObjectSchemaKeys,
			})
			archive, err := backer.Run(ctx)
			if err != nil {
				return err
			}
			fmt.Println(archive)
			return nil
		},
	}
}

func restoreCommand() *cli.Command {
	return &cli.Command{
		Name:  "restore",
		Usage: "Replay exported schemas onto the connected site",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}
			if len(cfg.ObjectSchemas) == 0 {
				return fmt.Errorf("config has no objectSchemas to restore")
			}
			folder, err := filepath.Abs(cfg.Folder)
			if err != nil {
				return err
			}
			if info, err := os.Stat(folder); err != nil || !info.IsDir() {
				return fmt.Errorf("data dir %s does not exist", folder)
			}

			logger := logging.New(cfg.LogDir, c.Bool("verbose"))
			logger.Info().Msg("-----------Start of Run-----------")
			defer logger.Info().Msg("------------End of Run------------")

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client, journal, err := connect(ctx, cfg, logger)
			if err != nil {
				return err
			}

			for _, job := range cfg.ObjectSchemas {
				restorer := application.NewRestorer(client, snapshot.NewStore(), journal, logger, application.RestoreOptions{
					Folder:                   folder,
					Workers:                  cfg.Workers,
					ProcessObjects:           toggle(cfg.ProcessObjects),
					ProcessComments:          toggle(cfg.ProcessComments),
					ProcessHistory:           toggle(cfg.ProcessHistory),
					SetAttributeRestrictions: toggle(cfg.SetAttributeRestrictions),
				})
				if err := restorer.Run(ctx, job); err != nil {
					return fmt.Errorf("restore %s: %w", job.NewObjectSchemaKey, err)
				}
			}
			return nil
		},
	}
}

func runsCommand() *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "Inspect recorded backup and restore runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent runs",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "maximum number of runs"},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig(c.String("config"))
					if err != nil {
						return err
					}
					journal, err := openJournal(ctx, cfg)
					if err != nil {
						return err
					}
					runs, err := journal.ListRuns(ctx, int(c.Int("limit")))
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(runs)
					}
					printRuns(runs)
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "Show per-entity outcomes of one run",
				ArgsUsage: "<run-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					runID := c.Args().First()
					if runID == "" {
						return fmt.Errorf("run id is required")
					}
					cfg, err := loadConfig(c.String("config"))
					if err != nil {
						return err
					}
					journal, err := openJournal(ctx, cfg)
					if err != nil {
						return err
					}
					entities, err := journal.ListRunEntities(ctx, runID)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(entities)
					}
					printRunEntities(entities)
					return nil
				},
			},
		},
	}
}

func connect(ctx context.Context, cfg appConfig, logger zerolog.Logger) (*assetsapi.Client, *sqliteadapter.Journal, error) {
	client, err := assetsapi.Connect(ctx, assetsapi.Options{
		JiraURL:  cfg.SiteName,
		Username: cfg.Username,
		APIToken: cfg.APIToken,
		Logger:   logger,
	})
	if err != nil {
		return nil, nil, err
	}
	journal, err := openJournal(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, journal, nil
}

func openJournal(ctx context.Context, cfg appConfig) (*sqliteadapter.Journal, error) {
	if err := os.MkdirAll(cfg.Folder, 0o755); err != nil {
		return nil, err
	}
	db, err := sqliteadapter.Open(filepath.Join(cfg.Folder, "runs.db"))
	if err != nil {
		return nil, err
	}
	if err := sqliteadapter.RunMigrations(ctx, db); err != nil {
		return nil, err
	}
	return sqliteadapter.NewJournal(db), nil
}
