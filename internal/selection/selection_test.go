package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FrazRoc/podcast-network/internal/domain"
	"github.com/FrazRoc/podcast-network/internal/graph"
)

func trackerGraph(t *testing.T) *domain.Graph {
	t.Helper()
	records := []domain.ConnectionRecord{
		{SourceID: "a", SourceName: "A", TargetID: "b", TargetName: "B", PodcastTitle: "Midnight Signal", EpisodesTogether: 10},
		{SourceID: "a", SourceName: "A", TargetID: "b", TargetName: "B", PodcastTitle: "Daily Debrief", EpisodesTogether: 2},
		{SourceID: "b", SourceName: "B", TargetID: "c", TargetName: "C", PodcastTitle: "Hidden Archive", EpisodesTogether: 1},
	}
	return graph.Build(records)
}

func TestClickNodeHighlightsNeighborhood(t *testing.T) {
	g := trackerGraph(t)
	tr := NewTracker(g)

	require.True(t, tr.ClickNode("a"))

	h := tr.Highlight()
	assert.ElementsMatch(t, []domain.HostID{"a", "b"}, h.Nodes)
	assert.Len(t, h.Links, 2)
	assert.Len(t, h.SelectedLinks, 2)
}

func TestClickNodeToggleReturnsToIdle(t *testing.T) {
	tr := NewTracker(trackerGraph(t))

	require.True(t, tr.ClickNode("a"))
	require.True(t, tr.ClickNode("a"))

	_, selected := tr.SelectedNode()
	assert.False(t, selected)
	h := tr.Highlight()
	assert.Empty(t, h.Nodes)
	assert.Empty(t, h.Links)
}

func TestClickNodeReplacesSelection(t *testing.T) {
	tr := NewTracker(trackerGraph(t))

	require.True(t, tr.ClickNode("a"))
	require.True(t, tr.ClickNode("c"))

	node, ok := tr.SelectedNode()
	require.True(t, ok)
	assert.Equal(t, domain.HostID("c"), node.ID)
}

func TestClickNodeUnknownIgnored(t *testing.T) {
	tr := NewTracker(trackerGraph(t))

	assert.False(t, tr.ClickNode("zz"))
	h := tr.Highlight()
	assert.Empty(t, h.Nodes)
}

func TestClickLinkClearsNodeSelection(t *testing.T) {
	tr := NewTracker(trackerGraph(t))

	require.True(t, tr.ClickNode("a"))
	require.True(t, tr.ClickLink("b", "c", "Hidden Archive"))

	_, nodeSelected := tr.SelectedNode()
	assert.False(t, nodeSelected)

	h := tr.Highlight()
	assert.ElementsMatch(t, []domain.HostID{"b", "c"}, h.Nodes)
	require.Len(t, h.Links, 1)
	assert.Equal(t, "Hidden Archive", h.Links[0].Podcast)
	assert.Empty(t, h.SelectedLinks)
}

func TestClickLinkDistinguishesPodcast(t *testing.T) {
	tr := NewTracker(trackerGraph(t))

	require.True(t, tr.ClickLink("a", "b", "Daily Debrief"))
	link, ok := tr.SelectedLink()
	require.True(t, ok)
	assert.Equal(t, "Daily Debrief", link.Podcast)

	assert.False(t, tr.ClickLink("a", "b", "Nonexistent Show"))
}

func TestHoverUnionsWithSelection(t *testing.T) {
	tr := NewTracker(trackerGraph(t))

	require.True(t, tr.ClickNode("a"))
	tr.Hover("c")

	h := tr.Highlight()
	assert.ElementsMatch(t, []domain.HostID{"a", "b", "c"}, h.Nodes)
	// Two a-b links plus the b-c link reached through the hover.
	assert.Len(t, h.Links, 3)
	// The pinned selection's link set is unchanged by the hover.
	assert.Len(t, h.SelectedLinks, 2)
}

func TestHoverEndRevertsToSelection(t *testing.T) {
	tr := NewTracker(trackerGraph(t))

	require.True(t, tr.ClickNode("a"))
	tr.Hover("c")
	tr.Hover("")

	h := tr.Highlight()
	assert.ElementsMatch(t, []domain.HostID{"a", "b"}, h.Nodes)
	assert.Len(t, h.Links, 2)
}

func TestHoverAloneHighlights(t *testing.T) {
	tr := NewTracker(trackerGraph(t))

	tr.Hover("b")

	h := tr.Highlight()
	assert.ElementsMatch(t, []domain.HostID{"a", "b", "c"}, h.Nodes)
	assert.Len(t, h.Links, 3)
	assert.Empty(t, h.SelectedLinks)
}

func TestResetClearsState(t *testing.T) {
	g := trackerGraph(t)
	tr := NewTracker(g)

	require.True(t, tr.ClickNode("a"))
	tr.Hover("c")
	tr.Reset(g)

	h := tr.Highlight()
	assert.Empty(t, h.Nodes)
	assert.Empty(t, h.Links)
}

func TestHighlightWithoutGraph(t *testing.T) {
	tr := NewTracker(nil)

	assert.False(t, tr.ClickNode("a"))
	h := tr.Highlight()
	assert.Empty(t, h.Nodes)
}
