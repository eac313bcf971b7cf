package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/pricedata/internal/config"
	"github.com/rickgao/pricedata/internal/fetch"
	"github.com/rickgao/pricedata/internal/ingest"
	"github.com/rickgao/pricedata/internal/model"
	"github.com/rickgao/pricedata/internal/server"
	"github.com/rickgao/pricedata/internal/store"
	"github.com/rickgao/pricedata/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/ingestor.local.yaml", "path to config file")
	flag.Parse()

	// Token values in the config file reference env vars; .env carries
	// them in local development.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting ingestor",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	providers, err := store.NewProviderStore(pool, logger)
	if err != nil {
		logger.Error("failed to create provider store", "error", err)
		os.Exit(1)
	}

	fetcher, err := buildFetcher(cfg, providers, logger)
	if err != nil {
		logger.Error("failed to build fetcher", "error", err)
		os.Exit(1)
	}

	instruments := store.NewInstrumentStore(pool, logger)
	orch := ingest.New(
		ingest.Config{
			SourceTag: cfg.Ingest.SourceTag,
			Policy: ingest.RoutePolicy{
				StalenessThresholdDays: cfg.Ingest.StalenessThresholdDays,
				HorizonYears:           cfg.Ingest.BackfillHorizonYears,
			},
		},
		ingest.NewUniverseResolver(instruments, cfg.Ingest.UniverseCode),
		instruments,
		store.NewPriceStore(pool, logger),
		map[model.FetchMode]fetch.Fetcher{
			model.FetchShort: fetcher,
			model.FetchLong:  fetcher,
		},
		logger,
	)

	srv := server.New(orch, pool, logger, cfg.Server.MetricsPath)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Handler(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", "port", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestor stopped")
}

// buildFetcher constructs the configured provider client. Both fetch modes
// share one client; the routing layer only changes the requested range.
func buildFetcher(cfg *config.Config, urls fetch.BaseURLSource, logger *slog.Logger) (fetch.Fetcher, error) {
	switch cfg.Ingest.Provider {
	case fetch.ProviderTiingo:
		pc := cfg.Providers.Tiingo
		return fetch.NewTiingo(
			fetch.TiingoConfig{
				BaseURL:    pc.BaseURL,
				Token:      pc.Token,
				ReplaceDot: pc.ReplaceDotWithHyphen,
			},
			urls,
			fetch.WithLogger(logger),
			fetch.WithRetries(pc.MaxRetries, pc.MaxBackoff),
			fetch.WithHTTPClient(&http.Client{Timeout: pc.Timeout}),
		), nil
	case fetch.ProviderEODHD:
		pc := cfg.Providers.EODHD
		return fetch.NewEODHD(
			fetch.EODHDConfig{
				BaseURL:    pc.BaseURL,
				Token:      pc.Token,
				ReplaceDot: pc.ReplaceDotWithHyphen,
			},
			urls,
			fetch.WithLogger(logger),
			fetch.WithRetries(pc.MaxRetries, pc.MaxBackoff),
			fetch.WithHTTPClient(&http.Client{Timeout: pc.Timeout}),
		), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Ingest.Provider)
	}
}
