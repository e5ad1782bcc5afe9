package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/horacewang893101/fetch-jira-bug/internal/api"
	"github.com/horacewang893101/fetch-jira-bug/internal/config"
	"github.com/horacewang893101/fetch-jira-bug/internal/parser"
)

var serveFlags struct {
	bugsDir    string
	reportFile string
	port       string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the report and bug documents over HTTP",
	Long: `Serve the generated analysis report and the fetched bug documents,
rendered to HTML. Set BUGREPORT_API_KEY to require a bearer token.`,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.bugsDir, "bugs-dir", "bugs_md", "Directory containing bug documents")
	f.StringVar(&serveFlags.reportFile, "report-file", "analyzer.md", "Report file to serve")
	f.StringVar(&serveFlags.port, "port", "", "Port to listen on (default: $PORT or 8090)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg := config.Load()

	port := serveFlags.port
	if port == "" {
		port = cfg.Port
	}

	srv := api.NewServer(serveFlags.bugsDir, serveFlags.reportFile, cfg.APIKey,
		parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext}, log)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting bugreport server", "port", port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
