// Package sim runs the force-directed layout: a cooperative loop that
// assigns 2D positions to the hosts of a graph by composing repulsion,
// link attraction, centering, collision avoidance, and a podcast-cluster
// force.
package sim

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/FrazRoc/podcast-network/internal/domain"
)

// Point is a fixed 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodePosition is one host's position within a frame.
type NodePosition struct {
	ID domain.HostID `json:"id"`
	X  float64       `json:"x"`
	Y  float64       `json:"y"`
}

// Frame is a per-iteration snapshot of node positions handed to layout
// consumers.
type Frame struct {
	Alpha float64        `json:"alpha"`
	Nodes []NodePosition `json:"nodes"`
}

// Simulator owns the position and velocity fields of the graph it lays
// out. Start cancels any previous pass before beginning a new one, so two
// passes never write to the same node objects concurrently; Stop halts the
// loop and relinquishes ownership.
type Simulator struct {
	// startMu serializes whole stop-and-restart sequences so a concurrent
	// Start cannot overwrite another pass's cancel handle and orphan its
	// loop.
	startMu sync.Mutex

	mu      sync.Mutex
	opts    Options
	graph   *domain.Graph
	vp      Viewport
	alpha   float64
	anchors map[string]Point
	rng     *rand.Rand

	cancel  context.CancelFunc
	done    chan struct{}
	subs    map[int]chan Frame
	nextSub int
}

// New returns an idle simulator.
func New() *Simulator {
	return &Simulator{
		rng:  rand.New(rand.NewSource(1)),
		subs: make(map[int]chan Frame),
	}
}

// Start begins a simulation pass over the graph. Any running pass is
// stopped first. The pass starts at full energy: alpha resets to 1 and
// velocities are zeroed. Node positions are kept when already assigned so
// a restarted layout reheats in place rather than scattering.
func (s *Simulator) Start(g *domain.Graph, vp Viewport, opts Options) {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	s.halt()

	s.mu.Lock()
	s.opts = opts.withDefaults()
	s.graph = g
	s.vp = vp
	s.alpha = 1

	s.anchors = nil
	if s.opts.Cluster && g != nil {
		s.anchors = PodcastAnchors(collectPodcasts(g), vp)
	}

	if g != nil {
		s.seedPositions()
		for _, n := range g.Nodes {
			n.VX, n.VY = 0, 0
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	interval := s.opts.TickInterval
	done := s.done
	s.mu.Unlock()

	go s.loop(ctx, interval, done)
}

// Stop halts the current pass, if any, and waits for the loop to exit.
func (s *Simulator) Stop() {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	s.halt()
}

func (s *Simulator) halt() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Subscribe registers a frame consumer. Frames are dropped rather than
// buffered when the consumer falls behind. The returned function
// unsubscribes.
func (s *Simulator) Subscribe() (<-chan Frame, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Frame, 4)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
}

// Alpha reports the current simulation heat.
func (s *Simulator) Alpha() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alpha
}

// Step runs a single synchronous iteration. Used by tests and by callers
// that drive the simulation themselves instead of through Start.
func (s *Simulator) Step() {
	s.mu.Lock()
	s.step()
	s.mu.Unlock()
}

func (s *Simulator) loop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			s.step()
			frame := s.snapshot()
			for _, sub := range s.subs {
				select {
				case sub <- frame:
				default:
				}
			}
			s.mu.Unlock()
		}
	}
}

// step advances the simulation one iteration. Zero-node graphs
// short-circuit so degenerate inputs never divide by zero.
func (s *Simulator) step() {
	if s.graph == nil || len(s.graph.Nodes) == 0 {
		return
	}

	s.alpha *= 1 - s.opts.AlphaDecay

	s.applyCharge()
	s.applyLink()
	s.applyCluster()
	s.applyCollide()
	s.integrate()
	s.applyCenter()
}

func (s *Simulator) snapshot() Frame {
	frame := Frame{Alpha: s.alpha}
	if s.graph == nil {
		return frame
	}
	frame.Nodes = make([]NodePosition, 0, len(s.graph.Nodes))
	for _, n := range s.graph.Nodes {
		frame.Nodes = append(frame.Nodes, NodePosition{ID: n.ID, X: n.X, Y: n.Y})
	}
	return frame
}

// seedPositions spreads unplaced nodes on a phyllotaxis spiral around the
// viewport center so the first iterations have distinct positions to work
// with.
func (s *Simulator) seedPositions() {
	cx, cy := s.vp.Width/2, s.vp.Height/2
	const goldenAngle = math.Pi * (3 - 2.2360679774997896) // 3 - sqrt(5)

	for i, n := range s.graph.Nodes {
		if n.X != 0 || n.Y != 0 {
			continue
		}
		radius := 10 * math.Sqrt(0.5+float64(i))
		angle := float64(i) * goldenAngle
		n.X = cx + radius*math.Cos(angle)
		n.Y = cy + radius*math.Sin(angle)
	}
}

// PodcastAnchors assigns each podcast a fixed anchor point, evenly spaced
// around a circle of radius 0.4*min(w,h) on the viewport center. A single
// podcast anchors at angle 0.
func PodcastAnchors(titles []string, vp Viewport) map[string]Point {
	n := len(titles)
	if n == 0 {
		return nil
	}

	radius := 0.4 * math.Min(vp.Width, vp.Height)
	cx, cy := vp.Width/2, vp.Height/2

	anchors := make(map[string]Point, n)
	for i, title := range titles {
		angle := 2 * math.Pi * float64(i) / float64(n)
		anchors[title] = Point{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		}
	}
	return anchors
}

// collectPodcasts lists the distinct podcast titles across the graph in
// first-seen node order.
func collectPodcasts(g *domain.Graph) []string {
	seen := make(map[string]struct{})
	var titles []string
	for _, node := range g.Nodes {
		for _, p := range node.Podcasts {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			titles = append(titles, p)
		}
	}
	return titles
}
