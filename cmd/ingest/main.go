package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FrazRoc/podcast-network/internal/config"
	"github.com/FrazRoc/podcast-network/internal/domain"
	"github.com/FrazRoc/podcast-network/internal/logging"
	"github.com/FrazRoc/podcast-network/internal/repository"
	"github.com/FrazRoc/podcast-network/internal/service"
	"github.com/FrazRoc/podcast-network/internal/store"
)

func main() {
	var (
		recordsPath = flag.String("records", "data/connections.json", "Path to the connection records JSON file")
		workers     = flag.Int("workers", 4, "Number of concurrent workers for ingestion")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "ingest")

	records, err := loadRecords(*recordsPath)
	if err != nil {
		logger.Error("failed to load records", "error", err, "path", *recordsPath)
		os.Exit(1)
	}
	if len(records) == 0 {
		logger.Error("records dataset empty", "path", *recordsPath)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	storeClient, err := buildStoreClient(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create store client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := storeClient.Close(context.Background()); err != nil {
			logger.Warn("closing store client failed", "error", err)
		}
	}()

	repo := repository.New(storeClient)
	ingestor := service.NewBulkIngestor(repo, *workers)

	start := time.Now()
	logger.Info("ingesting connection records", "count", len(records), "workers", *workers)
	if err := ingestor.IngestConnections(ctx, records); err != nil {
		logger.Error("ingestion failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestion complete", "duration", time.Since(start).String(), "records", len(records))
}

func loadRecords(path string) ([]domain.ConnectionRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var records []domain.ConnectionRecord
	if err := json.NewDecoder(file).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records, nil
}

func buildStoreClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (store.Client, error) {
	if cfg.Store.URI == "" {
		return nil, fmt.Errorf("GRAPH_URI is required for ingestion")
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
		return nil, err
	}
	logger.Info("connected to store", "uri", cfg.Store.URI, "database", cfg.Store.Database)
	return client, nil
}
