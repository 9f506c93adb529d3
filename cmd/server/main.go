package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/FrazRoc/podcast-network/internal/config"
	"github.com/FrazRoc/podcast-network/internal/logging"
	"github.com/FrazRoc/podcast-network/internal/repository"
	"github.com/FrazRoc/podcast-network/internal/server"
	"github.com/FrazRoc/podcast-network/internal/service"
	"github.com/FrazRoc/podcast-network/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	source, storeClient, err := buildRecordSource(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create record source", "error", err)
		os.Exit(1)
	}
	defer func() {
		if storeClient != nil {
			if err := storeClient.Close(context.Background()); err != nil {
				logger.Warn("closing store client failed", "error", err)
			}
		}
	}()

	networkService := service.NewNetworkService(source, logger, cfg.Engine.FilterApplyDelay).
		WithTickInterval(cfg.Engine.TickInterval)

	if err := networkService.Refresh(ctx); err != nil {
		logger.Error("initial network load failed", "error", err)
		os.Exit(1)
	}
	defer networkService.StopLayout()

	apiHandlers := server.NewAPIHandlers(logger, networkService)
	layoutStream := server.NewLayoutStream(logger, networkService)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.StoreHealthService{Client: storeClient},
		API:              apiHandlers,
		Layout:           layoutStream,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// buildRecordSource reads from the graph store when GRAPH_URI is set and
// falls back to the local records file otherwise.
func buildRecordSource(ctx context.Context, logger *slog.Logger, cfg config.Config) (service.RecordSource, store.Client, error) {
	if cfg.Store.URI == "" {
		logger.Info("no store configured, reading records from file", "path", cfg.Engine.RecordsFile)
		return service.NewFileSource(cfg.Engine.RecordsFile), nil, nil
	}

	opts := store.Options{
		URI:            cfg.Store.URI,
		Database:       cfg.Store.Database,
		Username:       cfg.Store.Username,
		Password:       cfg.Store.Password,
		MaxConnections: cfg.Store.MaxConnections,
	}
	client, err := store.NewNeo4jClient(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	repo := repository.New(client)
	return service.NewStoreSource(repo.FetchHostConnections), client, nil
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
