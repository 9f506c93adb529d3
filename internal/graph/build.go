// Package graph turns raw connection records into the canonical host
// network and derives filtered subgraphs from it.
package graph

import (
	"github.com/FrazRoc/podcast-network/internal/domain"
)

// Build converts a flat list of connection records into a deduplicated
// node set and an edge list, accumulating per-node aggregates in a single
// pass.
//
// The val counter rises by two per record in which a host is an
// endpoint: nodes are created with val=1, repeat upserts increment it,
// and a second unconditional increment is applied to both endpoints
// after each upsert. One record between A and B leaves both at val=2;
// two records leave both at val=4. This accumulation rule is relied on
// by the default filter threshold and must not be "corrected" into a
// deduplicated degree.
//
// Records missing either endpoint id are skipped; callers that need to
// report them count with CountInvalid before building.
func Build(records []domain.ConnectionRecord) *domain.Graph {
	var (
		nodes    []*domain.Host
		links    []*domain.Link
		byID     = make(map[domain.HostID]*domain.Host)
		podcasts = make(map[domain.HostID]map[string]struct{})
	)

	upsert := func(id domain.HostID, name, image, role, channel, genre, podcast string) {
		node, ok := byID[id]
		if !ok {
			if role == "" {
				role = domain.RoleHost
			}
			node = &domain.Host{
				ID:      id,
				Name:    name,
				Image:   image,
				Role:    role,
				Channel: channel,
				Genre:   genre,
				Val:     1,
			}
			byID[id] = node
			podcasts[id] = make(map[string]struct{})
			nodes = append(nodes, node)
		} else {
			node.Val++
		}
		if _, seen := podcasts[id][podcast]; !seen {
			podcasts[id][podcast] = struct{}{}
			node.Podcasts = append(node.Podcasts, podcast)
		}
	}

	for _, r := range records {
		if !r.Valid() {
			continue
		}

		upsert(r.SourceID, r.SourceName, r.SourceImage, r.SourceRole, r.SourceChannel, r.SourceGenre, r.PodcastTitle)
		upsert(r.TargetID, r.TargetName, r.TargetImage, r.TargetRole, r.TargetChannel, r.TargetGenre, r.PodcastTitle)

		byID[r.SourceID].Val++
		byID[r.TargetID].Val++

		links = append(links, &domain.Link{
			Source:  r.SourceID,
			Target:  r.TargetID,
			Podcast: r.PodcastTitle,
			Value:   r.EpisodesTogether,
		})
	}

	return domain.NewGraph(nodes, links)
}

// CountInvalid returns how many records would be skipped by Build for
// missing endpoint ids.
func CountInvalid(records []domain.ConnectionRecord) int {
	count := 0
	for _, r := range records {
		if !r.Valid() {
			count++
		}
	}
	return count
}
