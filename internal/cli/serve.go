package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dharanikpdb-007/Interview-practice-partners/internal/config"
	"github.com/Dharanikpdb-007/Interview-practice-partners/internal/logger"
	"github.com/Dharanikpdb-007/Interview-practice-partners/internal/server"
	"github.com/Dharanikpdb-007/Interview-practice-partners/pkg/archive"
	"github.com/Dharanikpdb-007/Interview-practice-partners/pkg/interview"
	"github.com/Dharanikpdb-007/Interview-practice-partners/pkg/provider"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interview front end",
	Long: `Serve the browser front end over HTTP and WebSocket.
Each browser session gets its own interview; assistant turns stream
over the socket as they are generated.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   cfg.Logging.Console,
		Pretty:    cfg.Logging.Pretty,
		Redaction: cfg.Logging.Redaction,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()

	factory := &provider.Factory{}
	p, err := factory.New(provider.Profile{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		BaseURL:  cfg.AI.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}

	var archiver *archive.Archiver
	if cfg.Session.Archive {
		archiver, err = archive.New(cfg.Session.ArchiveDir, log.GetZerolog())
		if err != nil {
			return fmt.Errorf("failed to create archiver: %w", err)
		}
	}

	srv, err := server.NewServer(server.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Provider:       p,
		Persona:        buildPersona(cfg),
		IdleTimeout:    time.Duration(cfg.Session.IdleMinutes) * time.Minute,
		SweepSchedule:  cfg.Session.SweepSchedule,
		Archiver:       archiver,
		MaxUploadBytes: cfg.Session.MaxUploadBytes,
		Logger:         log.GetZerolog(),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	// Persona and model changes apply to new sessions without a restart.
	loader := config.NewLoader(cfgFile)
	watcher, err := config.NewWatcher(loader, log.GetZerolog(), func(next *config.Config) {
		srv.SetPersona(buildPersona(next))
	})
	if err != nil {
		log.Warn().Err(err).Msg("config watcher disabled")
	} else {
		defer watcher.Stop()
	}

	log.Info().
		Str("provider", p.Name()).
		Str("model", cfg.AI.Model).
		Msg("interview practice partner is up")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	return srv.Stop()
}

// buildPersona maps config prompts and model settings onto the session persona.
func buildPersona(cfg *config.Config) interview.Persona {
	return interview.Persona{
		SystemPrompt:    cfg.Interview.SystemPrompt,
		StarterPrompt:   cfg.Interview.StarterPrompt,
		ContextPrompt:   cfg.Interview.ContextPrompt,
		FallbackMessage: cfg.Interview.FallbackMessage,
		Model:           cfg.AI.Model,
		Temperature:     cfg.AI.Temperature,
		MaxTokens:       cfg.AI.MaxTokens,
	}
}
