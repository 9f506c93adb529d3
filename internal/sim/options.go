package sim

import "time"

// Viewport is the drawing area the layout targets.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Options tunes the force composition for one simulation pass.
type Options struct {
	// LinkDistance is the target separation between linked nodes;
	// LinkStrength its rigidity.
	LinkDistance float64
	LinkStrength float64

	// ChargeStrength is the many-body strength. Negative values repel.
	ChargeStrength float64

	// CenterStrength pulls the system centroid toward the viewport center.
	CenterStrength float64

	// CollidePadding is added to sqrt(val*100) to form each node's
	// collision radius.
	CollidePadding float64

	// Cluster toggles the podcast-cluster force; ClusterDamping scales its
	// pull.
	Cluster        bool
	ClusterDamping float64

	// AlphaDecay is the geometric cooling rate per tick; VelocityDecay the
	// per-tick friction applied to velocities.
	AlphaDecay    float64
	VelocityDecay float64

	// TickInterval paces the background loop between iterations.
	TickInterval time.Duration
}

// CanonicalOptions lays out the full graph: looser links, moderate
// repulsion, and the podcast-cluster force enabled so podcasts separate
// visually.
func CanonicalOptions() Options {
	return Options{
		LinkDistance:   100,
		LinkStrength:   0.5,
		ChargeStrength: -500,
		CenterStrength: 0.3,
		CollidePadding: 24,
		Cluster:        true,
		ClusterDamping: 0.5,
		AlphaDecay:     0.01,
		VelocityDecay:  0.4,
		TickInterval:   33 * time.Millisecond,
	}
}

// FilteredOptions lays out a visible subgraph: tighter, more rigid links
// and stronger repulsion, without the cluster force.
func FilteredOptions() Options {
	return Options{
		LinkDistance:   50,
		LinkStrength:   0.8,
		ChargeStrength: -1000,
		CenterStrength: 0.3,
		CollidePadding: 24,
		Cluster:        false,
		ClusterDamping: 0.5,
		AlphaDecay:     0.01,
		VelocityDecay:  0.4,
		TickInterval:   33 * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	if o.AlphaDecay <= 0 {
		o.AlphaDecay = 0.01
	}
	if o.VelocityDecay <= 0 {
		o.VelocityDecay = 0.4
	}
	if o.TickInterval <= 0 {
		o.TickInterval = 33 * time.Millisecond
	}
	return o
}
