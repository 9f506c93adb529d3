// Package service orchestrates the podcast network engine: it pulls
// connection records from a source, builds the canonical graph, runs the
// filter pipeline, and drives layout and selection.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/FrazRoc/podcast-network/internal/domain"
	"github.com/FrazRoc/podcast-network/internal/graph"
	"github.com/FrazRoc/podcast-network/internal/selection"
	"github.com/FrazRoc/podcast-network/internal/sim"
)

// RecordSource supplies the connection records the graph is built from.
type RecordSource interface {
	Records(ctx context.Context) ([]domain.ConnectionRecord, error)
}

// View selects which graph a layout pass runs over.
const (
	ViewCanonical = "canonical"
	ViewVisible   = "visible"
)

// ErrUnknownView indicates a layout request named a view that does not
// exist.
var ErrUnknownView = errors.New("unknown layout view")

// ErrNotLoaded indicates the canonical graph has not been built yet.
var ErrNotLoaded = errors.New("network not loaded")

// NetworkService owns the canonical graph and everything derived from
// it. Filter application is debounced: rapid successive patches collapse
// so only the most recent one produces a visible graph.
type NetworkService struct {
	source       RecordSource
	logger       *slog.Logger
	applyDelay   time.Duration
	tickInterval time.Duration
	sim          *sim.Simulator
	tracker      *selection.Tracker

	mu        sync.Mutex
	records   []domain.ConnectionRecord
	canonical *domain.Graph
	visible   *domain.Graph
	spec      graph.Spec
	filterGen uint64
	layout    layoutState
}

// layoutState remembers the live layout pass so the service can restart
// it when the graph that view renders is replaced.
type layoutState struct {
	active bool
	view   string
	vp     sim.Viewport
}

// NewNetworkService constructs the service. applyDelay simulates the
// latency of a filter pass; zero or negative applies synchronously.
func NewNetworkService(source RecordSource, logger *slog.Logger, applyDelay time.Duration) *NetworkService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NetworkService{
		source:     source,
		logger:     logger,
		applyDelay: applyDelay,
		sim:        sim.New(),
		tracker:    selection.NewTracker(nil),
		spec:       graph.DefaultSpec(),
	}
}

// WithTickInterval overrides the simulation cadence for layout passes.
func (s *NetworkService) WithTickInterval(d time.Duration) *NetworkService {
	if d > 0 {
		s.tickInterval = d
	}
	return s
}

// Refresh reloads records from the source and rebuilds the canonical
// graph. Records missing either endpoint id are skipped and counted.
// Selection state resets and the active filter is re-applied to the new
// graph.
func (s *NetworkService) Refresh(ctx context.Context) error {
	records, err := s.source.Records(ctx)
	if err != nil {
		return fmt.Errorf("load connection records: %w", err)
	}

	g := graph.Build(records)
	if skipped := graph.CountInvalid(records); skipped > 0 {
		s.logger.Warn("skipped malformed connection records", "count", skipped)
	}

	s.mu.Lock()
	s.records = records
	s.canonical = g
	s.filterGen++
	spec := s.spec
	s.mu.Unlock()

	s.tracker.Reset(g)

	visible, err := graph.Apply(g, spec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.visible = visible
	s.mu.Unlock()

	// A layout running over the replaced graph would keep streaming stale
	// frames; restart it over the rebuilt one.
	s.restartLayout(ViewCanonical, g)
	s.restartLayout(ViewVisible, visible)

	s.logger.Info("network refreshed",
		"records", len(records),
		"nodes", len(g.Nodes),
		"links", len(g.Links),
		"visibleNodes", len(visible.Nodes),
	)
	return nil
}

// Connections returns the records the current canonical graph was built
// from.
func (s *NetworkService) Connections() []domain.ConnectionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ConnectionRecord(nil), s.records...)
}

// Graph returns the canonical graph, or ErrNotLoaded before the first
// successful Refresh.
func (s *NetworkService) Graph() (*domain.Graph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.canonical == nil {
		return nil, ErrNotLoaded
	}
	return s.canonical, nil
}

// Visible returns the filtered subgraph, or ErrNotLoaded before the
// first successful Refresh.
func (s *NetworkService) Visible() (*domain.Graph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visible == nil {
		return nil, ErrNotLoaded
	}
	return s.visible, nil
}

// Filter returns the active filter spec.
func (s *NetworkService) Filter() graph.Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec
}

// UpdateFilter merges the patch into the active spec and schedules a
// filter pass. The merged spec is visible immediately; the visible graph
// updates after applyDelay, and when several updates race only the most
// recent one lands. A failed pass leaves the previous visible graph in
// place.
func (s *NetworkService) UpdateFilter(patch graph.SpecPatch) graph.Spec {
	s.mu.Lock()
	s.spec = graph.Merge(s.spec, patch)
	s.filterGen++
	gen := s.filterGen
	spec := s.spec
	g := s.canonical
	s.mu.Unlock()

	if s.applyDelay <= 0 {
		s.applyFilter(gen, g, spec)
		return spec
	}

	go func() {
		time.Sleep(s.applyDelay)
		s.applyFilter(gen, g, spec)
	}()
	return spec
}

func (s *NetworkService) applyFilter(gen uint64, g *domain.Graph, spec graph.Spec) {
	visible, err := graph.Apply(g, spec)
	if err != nil {
		s.logger.Error("filter pass failed", "error", err)
		return
	}

	s.mu.Lock()
	if gen != s.filterGen {
		// A newer filter request superseded this pass.
		s.mu.Unlock()
		return
	}
	s.visible = visible
	s.mu.Unlock()

	// The visible view restarts per the graph-change lifecycle; a stopped
	// or canonical layout is untouched.
	s.restartLayout(ViewVisible, visible)

	s.logger.Debug("filter applied",
		"visibleNodes", len(visible.Nodes),
		"visibleLinks", len(visible.Links),
	)
}

// StartLayout begins a simulation pass over the named view. The
// canonical view clusters nodes around podcast anchors; the visible view
// uses the tighter post-filter force profile.
func (s *NetworkService) StartLayout(vp sim.Viewport, view string) error {
	if view == "" {
		view = ViewCanonical
	}

	s.mu.Lock()
	var g *domain.Graph
	switch view {
	case ViewCanonical:
		g = s.canonical
	case ViewVisible:
		g = s.visible
	default:
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
	if g == nil {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	s.layout = layoutState{active: true, view: view, vp: vp}
	s.sim.Start(g, vp, s.layoutOptions(view))
	s.mu.Unlock()
	return nil
}

// StopLayout halts the running simulation pass, if any.
func (s *NetworkService) StopLayout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layout = layoutState{}
	s.sim.Stop()
}

// restartLayout re-runs the live layout pass over a replacement graph so
// streamed frames track what the view now shows. No-op when no layout is
// running or a different view is. Held under the service mutex so a
// concurrent StopLayout cannot land between the state read and the
// restart.
func (s *NetworkService) restartLayout(view string, g *domain.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.layout.active || s.layout.view != view || g == nil {
		return
	}
	s.sim.Start(g, s.layout.vp, s.layoutOptions(view))
}

func (s *NetworkService) layoutOptions(view string) sim.Options {
	opts := sim.CanonicalOptions()
	if view == ViewVisible {
		opts = sim.FilteredOptions()
	}
	if s.tickInterval > 0 {
		opts.TickInterval = s.tickInterval
	}
	return opts
}

// Frames subscribes to layout frames. The returned function
// unsubscribes.
func (s *NetworkService) Frames() (<-chan sim.Frame, func()) {
	return s.sim.Subscribe()
}

// SelectNode toggles or replaces the pinned node selection.
func (s *NetworkService) SelectNode(id domain.HostID) bool {
	return s.tracker.ClickNode(id)
}

// SelectLink pins a link by its identifying triple.
func (s *NetworkService) SelectLink(source, target domain.HostID, podcast string) bool {
	return s.tracker.ClickLink(source, target, podcast)
}

// Hover updates the transient hovered node; empty id ends the hover.
func (s *NetworkService) Hover(id domain.HostID) {
	s.tracker.Hover(id)
}

// ClearSelection returns the selection state machine to idle.
func (s *NetworkService) ClearSelection() {
	s.tracker.Clear()
}

// Highlight derives the current emphasis sets.
func (s *NetworkService) Highlight() selection.Highlight {
	return s.tracker.Highlight()
}
