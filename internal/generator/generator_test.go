package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FrazRoc/podcast-network/internal/graph"
)

func TestGenerateDeterministicForSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7

	first, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)
	second, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateProducesValidRecords(t *testing.T) {
	records, err := New(DefaultConfig()).Generate(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, records)

	assert.Zero(t, graph.CountInvalid(records))
	for _, rec := range records {
		assert.NotEmpty(t, rec.PodcastTitle)
		assert.Greater(t, rec.EpisodesTogether, 0)
		assert.LessOrEqual(t, rec.EpisodesTogether, DefaultConfig().MaxEpisodesShare)
	}
}

func TestGeneratePairwiseCast(t *testing.T) {
	cfg := Config{NumPodcasts: 1, HostsPerPodcast: 4, Seed: 1}
	records, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)

	// 4 cast members pairwise: C(4,2) records, no cross-show possible.
	assert.Len(t, records, 6)

	g := graph.Build(records)
	assert.Len(t, g.Nodes, 4)
}

func TestGenerateBuildsConnectedClusters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 3
	records, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)

	g := graph.Build(records)
	assert.GreaterOrEqual(t, len(g.Nodes), cfg.NumPodcasts*cfg.HostsPerPodcast)

	// Every node is an endpoint of at least one link.
	for _, n := range g.Nodes {
		assert.NotEmpty(t, g.IncidentLinks(n.ID), "node %s has no links", n.ID)
	}
}

func TestGenerateRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(DefaultConfig()).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
