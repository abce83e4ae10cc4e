package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hackfest/vibeboard/internal/adapters/githubapi"
	"github.com/hackfest/vibeboard/internal/adapters/http/api"
	"github.com/hackfest/vibeboard/internal/adapters/llm"
	"github.com/hackfest/vibeboard/internal/adapters/repository"
	"github.com/hackfest/vibeboard/internal/app"
	"github.com/hackfest/vibeboard/internal/config"
	"github.com/hackfest/vibeboard/internal/domain/scoring"
	"github.com/hackfest/vibeboard/internal/roster"
	"github.com/hackfest/vibeboard/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 120 * time.Second // refresh passes block on LLM calls
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	teams, err := roster.Load(cfg.RosterPath)
	if err != nil {
		log.Error(ctx, "failed to load roster",
			logger.String("path", cfg.RosterPath), logger.Error(err))
		return
	}
	log.Info(ctx, "roster loaded",
		logger.String("path", cfg.RosterPath), logger.Int("teams", len(teams)))

	store, err := newStore(cfg)
	if err != nil {
		log.Error(ctx, "failed to open store",
			logger.String("backend", cfg.StoreBackend), logger.Error(err))
		return
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn(ctx, "store close failed", logger.Error(err))
		}
	}()

	completer, err := newCompleter(cfg)
	if err != nil {
		log.Error(ctx, "failed to build LLM client", logger.Error(err))
		return
	}

	fetcher := githubapi.New(cfg.GithubToken,
		githubapi.WithKeyFileLimit(cfg.KeyFileLimit),
		githubapi.WithTruncateBytes(cfg.TruncateBytes),
		githubapi.WithLogger(log.Named("github")),
	)

	generator := scoring.NewGenerator(completer,
		scoring.WithMaxTokens(cfg.LLMMaxTokens),
	)

	svc := app.New(store, fetcher, generator, teams,
		app.WithBatchSize(cfg.BatchSize),
		app.WithCommentaryLimit(cfg.CommentaryLimit),
		app.WithLogger(log.Named("app")),
	)

	apiServer := api.NewServer(svc,
		api.WithRefreshAuth(cfg.RefreshSecret, cfg.IsProduction()),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiServer.Router(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// newStore selects the persistence backend from configuration.
func newStore(cfg *config.Config) (repository.Store, error) {
	switch cfg.StoreBackend {
	case "sqlite":
		return repository.NewSQLStore(cfg.StorePath)
	case "file":
		return repository.NewFileStore(cfg.StorePath, logger.Named("store")), nil
	default:
		return nil, repository.ErrUnknownBackend
	}
}

// newCompleter builds the OpenAI-backed completer.
func newCompleter(cfg *config.Config) (scoring.Completer, error) {
	opts := []llm.Option{llm.WithModel(cfg.OpenAIModel)}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, llm.WithBaseURL(cfg.OpenAIBaseURL))
	}
	client, err := llm.NewClient(cfg.OpenAIAPIKey, opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}
