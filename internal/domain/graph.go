package domain

// Host roles. Records without an explicit role default to RoleHost at
// construction time, so downstream code never re-applies the default.
const (
	RoleHost  = "Host"
	RoleGuest = "Guest"
)

// Host is a node in the co-hosting network.
//
// Val rises by two for every connection record the host is an endpoint
// of, so a host touched by exactly one record carries Val=2 and one
// touched by k records carries Val=2k. It is not a deduplicated degree.
type Host struct {
	ID       HostID   `json:"id"`
	Name     string   `json:"name"`
	Image    string   `json:"image,omitempty"`
	Role     string   `json:"role"`
	Channel  string   `json:"channel"`
	Genre    string   `json:"genre"`
	Podcasts []string `json:"podcasts"`
	Val      int      `json:"val"`

	// Position and velocity are owned by the layout simulator once a
	// simulation pass begins.
	X  float64 `json:"-"`
	Y  float64 `json:"-"`
	VX float64 `json:"-"`
	VY float64 `json:"-"`
}

// Link is one recorded co-appearance of two hosts on a specific podcast.
// Links are identified by the (source, target, podcast) triple and are
// never merged: the same host pair appearing on two podcasts yields two
// links. Endpoints are stored as raw ids; node objects are resolved on
// demand through the graph's id index.
type Link struct {
	Source  HostID `json:"source"`
	Target  HostID `json:"target"`
	Podcast string `json:"podcast"`
	Value   int    `json:"value"`
}

// Touches reports whether the link has the given host as either endpoint.
func (l *Link) Touches(id HostID) bool {
	return l.Source == id || l.Target == id
}

// Graph is a node/link set with an id index for endpoint resolution. The
// canonical graph is built once per data fetch; visible graphs are derived
// subsets sharing the same node objects.
type Graph struct {
	Nodes []*Host `json:"nodes"`
	Links []*Link `json:"links"`

	index map[HostID]*Host
}

// NewGraph assembles a graph and its id index. Node order is preserved.
func NewGraph(nodes []*Host, links []*Link) *Graph {
	g := &Graph{
		Nodes: nodes,
		Links: links,
		index: make(map[HostID]*Host, len(nodes)),
	}
	for _, n := range nodes {
		g.index[n.ID] = n
	}
	return g
}

// NodeByID resolves a host id to its node object.
func (g *Graph) NodeByID(id HostID) (*Host, bool) {
	n, ok := g.index[id]
	return n, ok
}

// HasNode reports whether the id belongs to the graph.
func (g *Graph) HasNode(id HostID) bool {
	_, ok := g.index[id]
	return ok
}

// IncidentLinks returns every link touching the given host id, in link
// order.
func (g *Graph) IncidentLinks(id HostID) []*Link {
	var links []*Link
	for _, l := range g.Links {
		if l.Touches(id) {
			links = append(links, l)
		}
	}
	return links
}
