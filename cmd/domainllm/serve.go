package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"domainllm/internal/config"
	"domainllm/internal/httpapi"
	"domainllm/internal/service"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP API",
		Example: "  domainllm serve --addr :8001 --backend-url http://localhost:11434",
		Args:    cobra.NoArgs,
		RunE:    runServe,
	}
	f := cmd.Flags()
	f.String("addr", "", "HTTP listen address (default "+config.DefaultAddr+")")
	f.Int64("max-body-bytes", 0, "Maximum JSON request body size in bytes (default 1MiB)")
	f.Duration("request-timeout", 0, "Overall deadline for backend-calling requests (0 = backend deadlines only)")
	f.Bool("cors", true, "Enable CORS middleware")
	f.String("cors-origins", "", "Comma-separated allowed CORS origins (default *)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, v, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	// Graceful shutdown (Ctrl+C / SIGTERM); the same context aborts in-flight backend calls.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := httpapi.NewMux(newService(cfg), httpapi.Options{
		Logger:         log,
		BaseContext:    ctx,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		RequestTimeout: v.GetDuration("request-timeout"),
		CORS: httpapi.CORSOptions{
			Enabled:        cfg.CORSEnabled(),
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: cfg.CORS.AllowedMethods,
			AllowedHeaders: cfg.CORS.AllowedHeaders,
		},
	})
	srv := &http.Server{Addr: cfg.Addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	printBanner(cmd.OutOrStdout(), cfg)
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("backend_url", cfg.BackendURL).Str("default_model", cfg.DefaultModel).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	return nil
}

// printBanner writes the startup instructions shown to an operator.
func printBanner(w io.Writer, cfg config.Config) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s starting...\n\n", service.Name)
	b.WriteString("Setup:\n")
	b.WriteString("  1. Install Ollama: https://ollama.ai\n")
	fmt.Fprintf(&b, "  2. Pull a model: ollama pull %s\n", cfg.DefaultModel)
	b.WriteString("  3. Start Ollama: ollama serve\n")
	b.WriteString("  4. This service will connect automatically\n\n")
	b.WriteString("Recommended models:\n")
	for _, m := range cfg.RecommendedModels {
		fmt.Fprintf(&b, "  - %s\n", m)
	}
	fmt.Fprintf(&b, "\nBackend: %s\nListening on: %s\n\n", cfg.BackendURL, listenURL(cfg.Addr))
	_, _ = io.WriteString(w, b.String())
}

func listenURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
