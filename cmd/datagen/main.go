package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/FrazRoc/podcast-network/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		podcasts    = flag.Int("podcasts", cfg.NumPodcasts, "number of podcasts to generate")
		castSize    = flag.Int("cast-size", cfg.HostsPerPodcast, "hosts and guests per podcast")
		guestChance = flag.Float64("guest-chance", cfg.GuestChance, "probability a cast member is a guest rather than a host")
		crossChance = flag.Float64("cross-show-chance", cfg.CrossShowChance, "per-host probability of a cross-show appearance")
		maxEpisodes = flag.Int("max-episodes", cfg.MaxEpisodesShare, "upper bound on episodes shared by a pair")
		seed        = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir   = flag.String("output-dir", "data", "directory to write connections.json")
		writeStdout = flag.Bool("stdout", false, "write records to stdout instead of a file")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumPodcasts:      *podcasts,
		HostsPerPodcast:  *castSize,
		GuestChance:      clampProbability(*guestChance),
		CrossShowChance:  clampProbability(*crossChance),
		MaxEpisodesShare: *maxEpisodes,
		Seed:             *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gen := generator.New(genCfg)
	records, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := json.NewEncoder(os.Stdout).Encode(records); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write records to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteRecords(records, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write records: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d connection records into %s\n", len(records), *outputDir)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
