package main

import (
	"fmt"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort        int
	serveNoRateLimit bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing POST /api/parse, POST /api/parse-pdf and GET /health.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveNoRateLimit, "no-rate-limit", false, "Disable per-client rate limiting")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, func(cfg *config.Config, changed func(string) bool) {
		if changed("port") {
			cfg.Port = servePort
		}
		if changed("no-rate-limit") {
			cfg.DisableRateLimit = serveNoRateLimit
		}
	})
	if err != nil {
		return err
	}

	srv, err := server.New(serverConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

func serverConfig(cfg config.Config) server.Config {
	return server.Config{
		Port:             cfg.Port,
		APIKey:           cfg.APIKey,
		LLM:              cfg.LLMConfig(),
		Retry:            cfg.RetryPolicy(),
		MaxUploadBytes:   cfg.MaxUploadBytes,
		BinaryTypes:      cfg.BinaryTypes,
		DisableRateLimit: cfg.DisableRateLimit,
	}
}
