// Package repository persists hosts and their co-hosting links in the
// graph store and reads connection records back out of it.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/FrazRoc/podcast-network/internal/domain"
	"github.com/FrazRoc/podcast-network/internal/store"
)

// Repository encapsulates graph store operations for the host network.
type Repository struct {
	client store.Client
}

// New instantiates a Repository backed by the supplied store client.
func New(client store.Client) *Repository {
	return &Repository{client: client}
}

// UpsertConnection merges both endpoint hosts and the COHOSTED link for
// one connection record. The link is keyed by podcast title so the same
// host pair on two podcasts yields two relationships.
func (r *Repository) UpsertConnection(ctx context.Context, rec domain.ConnectionRecord) error {
	if !rec.Valid() {
		return errors.New("connection record requires both source and target ids")
	}

	params := map[string]any{
		"sourceId":    string(rec.SourceID),
		"sourceProps": hostProperties(rec.SourceName, rec.SourceImage, rec.SourceRole, rec.SourceChannel, rec.SourceGenre),
		"targetId":    string(rec.TargetID),
		"targetProps": hostProperties(rec.TargetName, rec.TargetImage, rec.TargetRole, rec.TargetChannel, rec.TargetGenre),
		"podcast":     rec.PodcastTitle,
		"episodes":    rec.EpisodesTogether,
	}

	_, err := r.client.ExecuteWrite(ctx, upsertConnectionCypher, params)
	if err != nil {
		return fmt.Errorf("upsert connection %s-%s (%s): %w", rec.SourceID, rec.TargetID, rec.PodcastTitle, err)
	}
	return nil
}

// FetchHostConnections reads every co-hosting record from the store,
// ordered by episode count descending as the original connections feed
// was.
func (r *Repository) FetchHostConnections(ctx context.Context) ([]domain.ConnectionRecord, error) {
	res, err := r.client.ExecuteRead(ctx, fetchConnectionsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch host connections: %w", err)
	}

	records := make([]domain.ConnectionRecord, 0, len(res.Records))
	for _, record := range res.Records {
		records = append(records, domain.ConnectionRecord{
			SourceID:         domain.HostID(toString(record["sourceId"])),
			SourceName:       toString(record["sourceName"]),
			SourceImage:      toString(record["sourceImage"]),
			SourceRole:       toString(record["sourceRole"]),
			SourceChannel:    toString(record["sourceChannel"]),
			SourceGenre:      toString(record["sourceGenre"]),
			TargetID:         domain.HostID(toString(record["targetId"])),
			TargetName:       toString(record["targetName"]),
			TargetImage:      toString(record["targetImage"]),
			TargetRole:       toString(record["targetRole"]),
			TargetChannel:    toString(record["targetChannel"]),
			TargetGenre:      toString(record["targetGenre"]),
			PodcastTitle:     toString(record["podcastTitle"]),
			EpisodesTogether: toInt(record["episodesTogether"]),
		})
	}
	return records, nil
}

// CountConnections reports how many co-hosting links the store holds.
func (r *Repository) CountConnections(ctx context.Context) (int64, error) {
	res, err := r.client.ExecuteRead(ctx, countConnectionsCypher, nil)
	if err != nil {
		return 0, fmt.Errorf("count connections: %w", err)
	}
	if len(res.Records) == 0 {
		return 0, nil
	}
	return int64(toInt(res.Records[0]["total"])), nil
}

func hostProperties(name, image, role, channel, genre string) map[string]any {
	if role == "" {
		role = domain.RoleHost
	}
	return map[string]any{
		"name":    name,
		"image":   image,
		"role":    role,
		"channel": channel,
		"genre":   genre,
	}
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toInt(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

const upsertConnectionCypher = `
MERGE (s:Host {hostId: $sourceId})
SET s += $sourceProps
MERGE (t:Host {hostId: $targetId})
SET t += $targetProps
MERGE (s)-[c:COHOSTED {podcast: $podcast}]->(t)
SET c.episodes = $episodes
RETURN c.podcast AS podcast
`

const fetchConnectionsCypher = `
MATCH (s:Host)-[c:COHOSTED]->(t:Host)
RETURN s.hostId AS sourceId,
       s.name AS sourceName,
       s.image AS sourceImage,
       s.role AS sourceRole,
       s.channel AS sourceChannel,
       s.genre AS sourceGenre,
       t.hostId AS targetId,
       t.name AS targetName,
       t.image AS targetImage,
       t.role AS targetRole,
       t.channel AS targetChannel,
       t.genre AS targetGenre,
       c.podcast AS podcastTitle,
       c.episodes AS episodesTogether
ORDER BY c.episodes DESC
`

const countConnectionsCypher = `
MATCH (:Host)-[c:COHOSTED]->(:Host)
RETURN count(c) AS total
`
