package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/docsight/internal/config"
	"github.com/jonathan/docsight/internal/server"
)

var (
	servePort    int
	serveDocRoot string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing POST /v1/analyze, POST /v1/outline, GET /health and GET /metrics.

Bearer auth is enabled when server.jwt_secret or JWT_SECRET is set. Runs are persisted when a
database URL is configured.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8080)")
	serveCmd.Flags().StringVar(&serveDocRoot, "document-root", "", "Directory that request document paths must stay within")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	flags := config.Config{Server: config.ServerConfig{Port: servePort}}
	cfg := flags.MergeWithDefaults(appConfig)
	if err := cfg.Validate(); err != nil {
		return err
	}

	jwtCfg, err := config.NewJWTConfig(cfg.Server)
	if err != nil {
		return fmt.Errorf("invalid JWT configuration: %w", err)
	}
	if jwtCfg == nil {
		log.Warn("JWT_SECRET not set; API endpoints are unauthenticated")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srvCfg := server.Config{
		Port:         cfg.Server.Port,
		Analyzer:     newAnalyzer(ctx, cfg, log),
		Outliner:     newOutliner(log),
		JWT:          jwtCfg,
		DocumentRoot: serveDocRoot,
		Logger:       log,
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if db != nil {
		defer db.Close()
		srvCfg.Recorder = db
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Info("Starting docsight API",
		zap.Int("port", cfg.Server.Port),
		zap.Bool("auth", jwtCfg != nil),
		zap.Bool("persistence", db != nil))
	return srv.Start(ctx)
}
