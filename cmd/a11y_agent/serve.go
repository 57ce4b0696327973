package main

import (
	"fmt"
	"log/slog"

	"github.com/jonathan/a11y-checker/internal/config"
	"github.com/jonathan/a11y-checker/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing POST /api/accessibility/analyze, GET /api/accessibility/rules,
GET /up and GET /metrics. Settings come from --config, then PORT, LOG_LEVEL, MAX_BODY_BYTES
and RATE_LIMIT_* environment variables, then flags.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	srv, err := server.New(server.Config{
		Port:          cfg.Port,
		MaxBodyBytes:  cfg.MaxBodyBytes,
		DisabledRules: cfg.DisabledRules,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
