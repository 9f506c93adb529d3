package sim

import "math"

// applyLink pulls each link's endpoints toward the configured separation
// distance, splitting the correction evenly between the two nodes.
func (s *Simulator) applyLink() {
	for _, link := range s.graph.Links {
		src, ok := s.graph.NodeByID(link.Source)
		if !ok {
			continue
		}
		tgt, ok := s.graph.NodeByID(link.Target)
		if !ok {
			continue
		}

		dx := tgt.X + tgt.VX - src.X - src.VX
		dy := tgt.Y + tgt.VY - src.Y - src.VY
		d := math.Hypot(dx, dy)
		if d == 0 {
			dx, dy = s.jiggle(), s.jiggle()
			d = math.Hypot(dx, dy)
		}

		k := s.alpha * s.opts.LinkStrength * (d - s.opts.LinkDistance) / d
		dx *= k
		dy *= k
		tgt.VX -= dx * 0.5
		tgt.VY -= dy * 0.5
		src.VX += dx * 0.5
		src.VY += dy * 0.5
	}
}

// applyCharge applies pairwise inverse-square repulsion between all nodes.
func (s *Simulator) applyCharge() {
	nodes := s.graph.Nodes
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]

			dx := b.X - a.X
			dy := b.Y - a.Y
			d2 := dx*dx + dy*dy
			if d2 == 0 {
				dx, dy = s.jiggle(), s.jiggle()
				d2 = dx*dx + dy*dy
			}

			f := s.alpha * s.opts.ChargeStrength / d2
			a.VX += dx * f
			a.VY += dy * f
			b.VX -= dx * f
			b.VY -= dy * f
		}
	}
}

// applyCluster nudges each node toward the mean of its podcasts' anchor
// points, scaled by the current heat and the damping factor. Nodes with no
// anchored podcast are left alone.
func (s *Simulator) applyCluster() {
	if !s.opts.Cluster || len(s.anchors) == 0 {
		return
	}

	for _, n := range s.graph.Nodes {
		var sx, sy float64
		count := 0
		for _, p := range n.Podcasts {
			anchor, ok := s.anchors[p]
			if !ok {
				continue
			}
			sx += anchor.X
			sy += anchor.Y
			count++
		}
		if count == 0 {
			continue
		}

		tx := sx / float64(count)
		ty := sy / float64(count)
		n.VX += (tx - n.X) * s.alpha * s.opts.ClusterDamping
		n.VY += (ty - n.Y) * s.alpha * s.opts.ClusterDamping
	}
}

// applyCollide treats each node as a disk of radius sqrt(val*100)+padding
// and pushes overlapping disks apart.
func (s *Simulator) applyCollide() {
	nodes := s.graph.Nodes
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			r := s.collideRadius(a.Val) + s.collideRadius(b.Val)

			dx := b.X + b.VX - a.X - a.VX
			dy := b.Y + b.VY - a.Y - a.VY
			d := math.Hypot(dx, dy)
			if d >= r {
				continue
			}
			if d == 0 {
				dx, dy = s.jiggle(), s.jiggle()
				d = math.Hypot(dx, dy)
			}

			push := (r - d) / d * 0.5
			dx *= push
			dy *= push
			b.VX += dx
			b.VY += dy
			a.VX -= dx
			a.VY -= dy
		}
	}
}

// applyCenter shifts all positions so the system centroid moves partway
// toward the viewport center. Partial strength keeps it from dominating
// the other forces.
func (s *Simulator) applyCenter() {
	nodes := s.graph.Nodes
	if len(nodes) == 0 {
		return
	}

	var sx, sy float64
	for _, n := range nodes {
		sx += n.X
		sy += n.Y
	}
	dx := (sx/float64(len(nodes)) - s.vp.Width/2) * s.opts.CenterStrength
	dy := (sy/float64(len(nodes)) - s.vp.Height/2) * s.opts.CenterStrength

	for _, n := range nodes {
		n.X -= dx
		n.Y -= dy
	}
}

// integrate folds velocities into positions with friction.
func (s *Simulator) integrate() {
	decay := 1 - s.opts.VelocityDecay
	for _, n := range s.graph.Nodes {
		n.VX *= decay
		n.VY *= decay
		n.X += n.VX
		n.Y += n.VY
	}
}

func (s *Simulator) collideRadius(val int) float64 {
	return math.Sqrt(float64(val)*100) + s.opts.CollidePadding
}

// jiggle breaks exact coincidence between nodes with a tiny deterministic
// offset.
func (s *Simulator) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-6
}
