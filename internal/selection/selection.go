// Package selection tracks which node or link is pinned versus transiently
// hovered, and derives the highlight sets consumed by rendering.
package selection

import (
	"sync"

	"github.com/FrazRoc/podcast-network/internal/domain"
)

// Highlight is the derived emphasis state. SelectedLinks is the pinned
// node's full incident-link set, retained across hovers so the visual
// emphasis persists while the pointer moves.
type Highlight struct {
	Nodes         []domain.HostID
	Links         []*domain.Link
	SelectedLinks []*domain.Link
}

// Tracker is the selection state machine. Incident links are always
// computed against the canonical graph, so a selection stays meaningful
// even when filtering later hides related nodes.
type Tracker struct {
	mu    sync.Mutex
	graph *domain.Graph

	selectedNode *domain.Host
	selectedLink *domain.Link
	hovered      domain.HostID
}

// NewTracker returns an idle tracker bound to the given canonical graph.
func NewTracker(g *domain.Graph) *Tracker {
	return &Tracker{graph: g}
}

// Reset rebinds the tracker to a new canonical graph and clears all
// selection and hover state.
func (t *Tracker) Reset(g *domain.Graph) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.graph = g
	t.selectedNode = nil
	t.selectedLink = nil
	t.hovered = ""
}

// ClickNode pins the given node. Clicking the already-selected node
// returns to idle; clicking another node replaces the selection. Any link
// selection is cleared. Unknown ids are ignored.
func (t *Tracker) ClickNode(id domain.HostID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.graph == nil {
		return false
	}
	node, ok := t.graph.NodeByID(id)
	if !ok {
		return false
	}

	t.selectedLink = nil
	if t.selectedNode != nil && t.selectedNode.ID == id {
		t.selectedNode = nil
		return true
	}
	t.selectedNode = node
	return true
}

// ClickLink pins a link identified by its (source, target, podcast)
// triple, clearing any node selection. Unknown links are ignored.
func (t *Tracker) ClickLink(source, target domain.HostID, podcast string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.graph == nil {
		return false
	}
	for _, l := range t.graph.Links {
		if l.Source == source && l.Target == target && l.Podcast == podcast {
			t.selectedNode = nil
			t.selectedLink = l
			return true
		}
	}
	return false
}

// Hover sets the transient hovered node; an empty id ends the hover.
func (t *Tracker) Hover(id domain.HostID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id == "" {
		t.hovered = ""
		return
	}
	if t.graph == nil || !t.graph.HasNode(id) {
		return
	}
	t.hovered = id
}

// Clear returns the tracker to idle.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selectedNode = nil
	t.selectedLink = nil
	t.hovered = ""
}

// Highlight derives the current emphasis sets: the pinned selection's
// neighborhood (the selection itself, its incident links, and their
// endpoints), unioned with the hovered node's when a hover is active.
// Hover ending reverts to whatever the selection alone produces.
func (t *Tracker) Highlight() Highlight {
	t.mu.Lock()
	defer t.mu.Unlock()

	var h Highlight
	if t.graph == nil {
		return h
	}

	nodeSet := make(map[domain.HostID]struct{})
	linkSet := make(map[*domain.Link]struct{})

	addNode := func(id domain.HostID) {
		if _, ok := nodeSet[id]; ok {
			return
		}
		nodeSet[id] = struct{}{}
		h.Nodes = append(h.Nodes, id)
	}
	addLinks := func(links []*domain.Link) {
		for _, l := range links {
			if _, ok := linkSet[l]; ok {
				continue
			}
			linkSet[l] = struct{}{}
			h.Links = append(h.Links, l)
			addNode(l.Source)
			addNode(l.Target)
		}
	}

	switch {
	case t.selectedNode != nil:
		incident := t.graph.IncidentLinks(t.selectedNode.ID)
		addNode(t.selectedNode.ID)
		addLinks(incident)
		h.SelectedLinks = incident
	case t.selectedLink != nil:
		addLinks([]*domain.Link{t.selectedLink})
	}

	if t.hovered != "" {
		addNode(t.hovered)
		addLinks(t.graph.IncidentLinks(t.hovered))
	}

	return h
}

// SelectedNode returns the pinned node, if any.
func (t *Tracker) SelectedNode() (*domain.Host, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.selectedNode == nil {
		return nil, false
	}
	return t.selectedNode, true
}

// SelectedLink returns the pinned link, if any.
func (t *Tracker) SelectedLink() (*domain.Link, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.selectedLink == nil {
		return nil, false
	}
	return t.selectedLink, true
}
