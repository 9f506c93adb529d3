package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// HostID identifies a host. Upstream datasets carry ids as either JSON
// strings or numbers, so unmarshalling accepts both and canonicalizes to a
// string.
type HostID string

// UnmarshalJSON accepts string, number, or null id values.
func (id *HostID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = HostID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("host id must be a string or number: %w", err)
	}
	*id = HostID(n.String())
	return nil
}

// ConnectionRecord is one (host-pair, podcast) collaboration fact as served
// by the upstream connections endpoint. Multiple records may share a host
// pair across different podcasts.
type ConnectionRecord struct {
	SourceID      HostID `json:"source_id"`
	SourceName    string `json:"source_name"`
	SourceImage   string `json:"source_image,omitempty"`
	SourceRole    string `json:"source_role,omitempty"`
	SourceChannel string `json:"source_channel"`
	SourceGenre   string `json:"source_genre"`

	TargetID      HostID `json:"target_id"`
	TargetName    string `json:"target_name"`
	TargetImage   string `json:"target_image,omitempty"`
	TargetRole    string `json:"target_role,omitempty"`
	TargetChannel string `json:"target_channel"`
	TargetGenre   string `json:"target_genre"`

	PodcastTitle     string `json:"podcast_title"`
	EpisodesTogether int    `json:"episodes_together"`
}

// Valid reports whether the record carries both endpoint ids. Records
// without ids cannot be attached to a node identity and are skipped during
// graph construction.
func (r ConnectionRecord) Valid() bool {
	return r.SourceID != "" && r.TargetID != ""
}
