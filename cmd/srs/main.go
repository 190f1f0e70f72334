package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/langner-srs/internal/client"
	"github.com/at-ishikawa/langner-srs/internal/config"
	"github.com/at-ishikawa/langner-srs/internal/database"
	"github.com/at-ishikawa/langner-srs/internal/review"
	"github.com/at-ishikawa/langner-srs/internal/srs"
)

var (
	configFile string
	serverURL  string
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err); fprintfErr != nil {
			panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
		}
		os.Exit(1)
	}
	os.Exit(0)
}

func newRootCommand() *cobra.Command {
	var debugMode bool
	rootCommand := &cobra.Command{
		Use:           "srs",
		Short:         "Schedule spaced repetition reviews",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return nil
		},
	}
	rootCommand.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCommand.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode")
	rootCommand.PersistentFlags().StringVar(&serverURL, "server", "", "srs-server base URL; the database is used directly when empty")

	rootCommand.AddCommand(
		newMigrateCommand(),
		newHealthCommand(),
		newRegisterCommand(),
		newReviewCommand(),
		newDueCommand(),
		newShowCommand(),
		newRemoveItemCommand(),
		newExportCommand(),
		newImportCommand(),
	)
	return rootCommand
}

// setupLogger configures the default logger based on debug mode.
// Logs go to stderr so that command output stays parseable.
func setupLogger(debugMode bool) {
	logLevel := slog.LevelWarn
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: debugMode,
		})),
	)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newReviewer returns a client of srs-server when --server is set and a Service over the
// configured database otherwise. The returned func releases the database.
func newReviewer() (review.Reviewer, func(), error) {
	if serverURL != "" {
		return client.New(serverURL), func() {}, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	repo := srs.NewDBScheduleRepository(db, srs.WithDefaultEaseFactor(cfg.SRS.DefaultEaseFactor))
	svc, err := review.NewService(db, repo, cfg.SRS)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("review.NewService() > %w", err)
	}
	return svc, func() { _ = db.Close() }, nil
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := database.Migrate(cfg.Database); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s database\n", cfg.Database.Driver)
			return err
		},
	}
}

func newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that srs-server and its database are reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			if serverURL == "" {
				return errors.New("health requires --server")
			}

			health, err := client.New(serverURL).Health(cmd.Context())
			if health != nil {
				uptime := time.Duration(health.Uptime * float64(time.Second)).Round(time.Second)
				if _, printErr := fmt.Fprintf(cmd.OutOrStdout(), "%s (version %s, uptime %s, database reachable: %t)\n",
					health.Status, health.Version, uptime, health.DB); printErr != nil {
					return printErr
				}
			}
			if err != nil {
				return fmt.Errorf("check health: %w", err)
			}
			return nil
		},
	}
}
