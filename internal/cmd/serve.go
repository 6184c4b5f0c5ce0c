package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Pramodsai29/AegisAI/internal/config"
	"github.com/Pramodsai29/AegisAI/internal/detector"
	"github.com/Pramodsai29/AegisAI/internal/guardrails"
	"github.com/Pramodsai29/AegisAI/internal/llm"
	"github.com/Pramodsai29/AegisAI/internal/ner"
	"github.com/Pramodsai29/AegisAI/internal/sanitizer"
	"github.com/Pramodsai29/AegisAI/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sanitization API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP server port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	set, err := buildDetectorSet(cfg)
	if err != nil {
		return err
	}

	if cfg.NERURL != "" {
		url := cfg.NERURL
		ner.SetDefaultFactory(func() (ner.Annotator, error) {
			return ner.NewHTTPAnnotator(url), nil
		})
	}

	provider, err := llm.ResolveProvider(cfg.LLMProvider, llm.ProviderOptions{
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OllamaBaseURL: cfg.OllamaBaseURL,
	})
	if err != nil {
		return fmt.Errorf("resolving llm provider: %w", err)
	}
	if provider == nil {
		log.Warn().Msg("no LLM provider configured, /api/llm will echo sanitized input")
	}

	var engineOpts []sanitizer.Option
	if provider != nil {
		engineOpts = append(engineOpts,
			sanitizer.WithRewriter(guardrails.NewLLMRewriter(provider, cfg.LLMModel)))
	}
	engine := sanitizer.New(set, engineOpts...)

	serverOpts := []server.Option{
		server.WithLLMClient(llm.NewClient(provider, cfg.LLMModel)),
		server.WithCORSOrigins(cfg.CORSOrigins),
	}
	if cfg.RateLimitRPM > 0 {
		serverOpts = append(serverOpts, server.WithRateLimiter(server.NewRateLimiter(cfg.RateLimitRPM)))
	}
	srv := server.NewServer(engine, serverOpts...)

	addr := fmt.Sprintf(":%d", cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().
		Str("addr", addr).
		Str("llm_provider", cfg.LLMProvider).
		Bool("ner_enabled", cfg.NERURL != "").
		Int("rate_limit_rpm", cfg.RateLimitRPM).
		Msg("aegis_serve_started")

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown_signal_received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server_stopped")
	return nil
}

// buildDetectorSet compiles the built-in recognizers, merged with the
// operator's pattern file when one is configured.
func buildDetectorSet(cfg *config.Config) (*detector.Set, error) {
	var opts []detector.Option
	if cfg.PatternFile != "" {
		opts = append(opts, detector.WithPatternFile(cfg.PatternFile))
	}
	set, err := detector.NewSet(opts...)
	if err != nil {
		return nil, fmt.Errorf("compiling recognizers: %w", err)
	}
	return set, nil
}
