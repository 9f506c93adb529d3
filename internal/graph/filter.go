package graph

import (
	"errors"

	"github.com/FrazRoc/podcast-network/internal/domain"
)

// FilterAll matches every channel or genre.
const FilterAll = "all"

// ErrNoGraph indicates a filter pass was requested before a canonical
// graph exists.
var ErrNoGraph = errors.New("no graph to filter")

// Spec describes the active network filter.
type Spec struct {
	MinConnections int      `json:"minConnections"`
	MinPodcasts    int      `json:"minPodcasts"`
	Roles          []string `json:"roles"`
	Channel        string   `json:"channel"`
	Genre          string   `json:"genre"`
}

// DefaultSpec returns the filter applied before the user touches any
// control.
func DefaultSpec() Spec {
	return Spec{
		MinConnections: 2,
		MinPodcasts:    1,
		Roles:          []string{domain.RoleHost, domain.RoleGuest},
		Channel:        FilterAll,
		Genre:          FilterAll,
	}
}

// SpecPatch is a partial filter update. Nil fields leave the current value
// untouched.
type SpecPatch struct {
	MinConnections *int      `json:"minConnections"`
	MinPodcasts    *int      `json:"minPodcasts"`
	Roles          *[]string `json:"roles"`
	Channel        *string   `json:"channel"`
	Genre          *string   `json:"genre"`
}

// Merge applies a partial patch onto a spec and normalizes the result:
// thresholds are clamped to at least 1 and empty channel/genre selections
// collapse to FilterAll.
func Merge(spec Spec, patch SpecPatch) Spec {
	if patch.MinConnections != nil {
		spec.MinConnections = *patch.MinConnections
	}
	if patch.MinPodcasts != nil {
		spec.MinPodcasts = *patch.MinPodcasts
	}
	if patch.Roles != nil {
		spec.Roles = append([]string(nil), (*patch.Roles)...)
	}
	if patch.Channel != nil {
		spec.Channel = *patch.Channel
	}
	if patch.Genre != nil {
		spec.Genre = *patch.Genre
	}

	if spec.MinConnections < 1 {
		spec.MinConnections = 1
	}
	if spec.MinPodcasts < 1 {
		spec.MinPodcasts = 1
	}
	if spec.Channel == "" {
		spec.Channel = FilterAll
	}
	if spec.Genre == "" {
		spec.Genre = FilterAll
	}
	return spec
}

// Apply derives the visible subgraph for the given spec. The input graph
// is not mutated; the result shares node and link objects with it, with
// node order preserved from the canonical order.
//
// A node is accepted when its val meets MinConnections, its unique podcast
// count across the canonical links meets MinPodcasts, its role is among
// the selected roles, and its genre/channel match the selection (FilterAll
// matches everything; a missing genre or channel rejects under a concrete
// selection). A link survives only when both endpoints were accepted.
func Apply(g *domain.Graph, spec Spec) (*domain.Graph, error) {
	if g == nil {
		return nil, ErrNoGraph
	}

	roles := make(map[string]struct{}, len(spec.Roles))
	for _, r := range spec.Roles {
		roles[r] = struct{}{}
	}

	podcastCounts := countPodcastsByHost(g)

	accepted := make(map[domain.HostID]struct{}, len(g.Nodes))
	var nodes []*domain.Host
	for _, node := range g.Nodes {
		if node.Val < spec.MinConnections {
			continue
		}
		if podcastCounts[node.ID] < spec.MinPodcasts {
			continue
		}
		if len(roles) > 0 {
			if _, ok := roles[node.Role]; !ok {
				continue
			}
		}
		if spec.Genre != FilterAll && node.Genre != spec.Genre {
			continue
		}
		if spec.Channel != FilterAll && node.Channel != spec.Channel {
			continue
		}
		accepted[node.ID] = struct{}{}
		nodes = append(nodes, node)
	}

	var links []*domain.Link
	for _, link := range g.Links {
		if _, ok := accepted[link.Source]; !ok {
			continue
		}
		if _, ok := accepted[link.Target]; !ok {
			continue
		}
		links = append(links, link)
	}

	return domain.NewGraph(nodes, links), nil
}

// countPodcastsByHost scans the canonical links once and counts the unique
// podcast titles each host appears on.
func countPodcastsByHost(g *domain.Graph) map[domain.HostID]int {
	seen := make(map[domain.HostID]map[string]struct{}, len(g.Nodes))
	for _, link := range g.Links {
		for _, id := range []domain.HostID{link.Source, link.Target} {
			set, ok := seen[id]
			if !ok {
				set = make(map[string]struct{})
				seen[id] = set
			}
			set[link.Podcast] = struct{}{}
		}
	}
	counts := make(map[domain.HostID]int, len(seen))
	for id, set := range seen {
		counts[id] = len(set)
	}
	return counts
}
