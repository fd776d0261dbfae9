package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/obeidat/learnpath/internal/api"
	"github.com/obeidat/learnpath/internal/catalog"
	"github.com/obeidat/learnpath/internal/config"
	"github.com/obeidat/learnpath/internal/jobmarket"
	"github.com/obeidat/learnpath/internal/llm"
	"github.com/obeidat/learnpath/internal/pathgen"
	"github.com/obeidat/learnpath/internal/skills"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the learnpath server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "learnpath version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize structured logging.
	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open the course catalog.
	store, err := catalog.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing catalog: %v\n", err)
		}
	}()

	if n, err := store.CountCourses(ctx); err == nil {
		if n == 0 {
			printWarning("course catalog is empty; seed it with 'learnpath import'")
		} else {
			slog.Info("course catalog ready", "courses", n)
		}
	}

	// Build the recommendation components.
	completer := llm.NewClientWithBaseURL(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL)
	jobClient := jobmarket.NewClientWithBaseURL(cfg.JobMarket.AppID, cfg.JobMarket.AppKey, cfg.JobMarket.BaseURL)
	if !jobClient.Configured() {
		printWarning("Adzuna credentials not set; job-market mining is disabled")
	}
	extractor := jobmarket.NewExtractor(jobClient, completer)
	synthesizer := skills.NewSynthesizer(extractor, completer)
	generator := pathgen.NewGenerator(completer, extractor, cfg.JobMarket.Country)

	handler := api.NewHandler(api.Deps{
		Catalog: store,
		Skills:  synthesizer,
		Paths:   generator,
		Country: cfg.JobMarket.Country,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Build and start MCP server (stdio transport in a goroutine).
	mcpSrv := api.NewMCPServer(api.MCPDeps{
		Catalog: store,
		Skills:  synthesizer,
		Paths:   generator,
		Country: cfg.JobMarket.Country,
	})
	stdioSrv := server.NewStdioServer(mcpSrv)
	go func() {
		if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("MCP stdio server error", "error", err)
		}
	}()
	slog.Info("MCP server started (stdio transport)")

	// Start server in a goroutine.
	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "learnpath listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for signal or server error.
	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	// Graceful shutdown with timeout.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
