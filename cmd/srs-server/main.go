package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/langner-srs/internal/bootstrap"
	"github.com/at-ishikawa/langner-srs/internal/config"
	"github.com/at-ishikawa/langner-srs/internal/database"
	"github.com/at-ishikawa/langner-srs/internal/review"
	"github.com/at-ishikawa/langner-srs/internal/server"
	"github.com/at-ishikawa/langner-srs/internal/srs"
	"github.com/at-ishikawa/langner-srs/internal/telemetry"
)

var (
	configFile string
	version    = "dev"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "srs-server",
		Short:         "Spaced repetition review service HTTP server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")
	return rootCmd
}

func run(ctx context.Context) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	setupLogger(os.Stdout, cfg.Log)

	app := bootstrap.New()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry, version)
	if err != nil {
		return fmt.Errorf("telemetry.Setup() > %w", err)
	}
	app.AddShutdownHook("tracer", shutdownTracing)

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("database.Open() > %w", err)
	}
	app.AddShutdownHook("database", func(context.Context) error {
		return db.Close()
	})

	if err := database.WaitForConnection(ctx, db, cfg.Database.ConnectRetries); err != nil {
		_ = db.Close()
		return fmt.Errorf("database.WaitForConnection() > %w", err)
	}
	if err := database.Migrate(cfg.Database); err != nil {
		_ = db.Close()
		return fmt.Errorf("database.Migrate() > %w", err)
	}

	repo := srs.NewDBScheduleRepository(db, srs.WithDefaultEaseFactor(cfg.SRS.DefaultEaseFactor))
	svc, err := review.NewService(db, repo, cfg.SRS)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("review.NewService() > %w", err)
	}

	router := server.NewRouter(server.NewReviewHandler(svc), db, server.RouterConfig{
		AllowedOrigins: cfg.Server.CORS.AllowedOrigins,
		Version:        version,
	})
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           h2c.NewHandler(otelhttp.NewHandler(router, "srs-server"), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	app.AddShutdownHook("http server", srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		slog.Default().InfoContext(ctx, "Starting server",
			"addr", srv.Addr,
			"driver", cfg.Database.Driver,
			"orphan_policy", cfg.SRS.OrphanPolicy)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

func setupLogger(w io.Writer, cfg config.LogConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}
