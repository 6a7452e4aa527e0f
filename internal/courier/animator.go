// Package courier moves a marker along the current delivery route so map
// clients can draw the courier.
package courier

import (
	"context"
	"delivery-dispatch-service/internal/domain"
	"delivery-dispatch-service/internal/graph"
	"log"
	"sync"
	"time"
)

const (
	DefaultTick = 16 * time.Millisecond
	DefaultStep = 0.02

	// progress is float; accept a hair below 1 as a finished segment.
	epsilon = 1e-9
)

// Marker is the courier's rendered position. NodeIndex indexes the route's
// node path; Progress is the fraction of the segment to the next node.
type Marker struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	NodeIndex int     `json:"node_index"`
	Progress  float64 `json:"progress"`
	Moving    bool    `json:"moving"`
}

// Animator owns at most one running animation. Start replaces it.
type Animator struct {
	graph  *graph.Graph
	depot  string
	tick   time.Duration
	step   float64
	logger *log.Logger

	// runMu serializes Start and Stop; mu guards the fields below.
	runMu  sync.Mutex
	mu     sync.Mutex
	path   []domain.Position
	marker Marker
	cancel context.CancelFunc
	done   chan struct{}
}

func NewAnimator(g *graph.Graph, depot string, tick time.Duration, step float64, logger *log.Logger) *Animator {
	if tick <= 0 {
		tick = DefaultTick
	}
	if step <= 0 || step > 1 {
		step = DefaultStep
	}
	if logger == nil {
		logger = log.Default()
	}

	a := &Animator{graph: g, depot: depot, tick: tick, step: step, logger: logger}
	home := a.locate(depot)
	a.marker = Marker{X: home.X, Y: home.Y}
	return a
}

// Start cancels any running animation, waits for it to exit, and animates
// route from its first node. Routes with fewer than two nodes park the
// marker on their last node. Concurrent calls are serialized so at most one
// ticker runs.
func (a *Animator) Start(route domain.Route) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	a.stopLocked()

	a.mu.Lock()
	defer a.mu.Unlock()

	a.load(route)
	if !a.marker.Moving {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.done = make(chan struct{})
	go a.run(ctx, a.done)

	a.logger.Printf("level=info op=courier.start nodes=%d", len(a.path))
}

// Stop halts the running animation, leaving the marker where it is.
func (a *Animator) Stop() {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	a.stopLocked()
}

// stopLocked cancels the running animation and waits for it. Caller holds runMu.
func (a *Animator) stopLocked() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (a *Animator) Position() Marker {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.marker
}

func (a *Animator) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(a.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.mu.Lock()
			moving := a.advance()
			a.mu.Unlock()
			if !moving {
				return
			}
		}
	}
}

// load resets the marker to the start of route. Caller holds mu.
func (a *Animator) load(route domain.Route) {
	a.path = a.path[:0]
	for _, id := range route.NodePath {
		a.path = append(a.path, a.locate(id))
	}

	switch {
	case len(a.path) == 0:
		home := a.locate(a.depot)
		a.marker = Marker{X: home.X, Y: home.Y}
	case len(a.path) == 1:
		a.marker = Marker{X: a.path[0].X, Y: a.path[0].Y}
	default:
		a.marker = Marker{X: a.path[0].X, Y: a.path[0].Y, Moving: true}
	}
}

// advance moves the marker one step and reports whether it is still
// moving. Caller holds mu.
func (a *Animator) advance() bool {
	m := &a.marker
	if !m.Moving {
		return false
	}

	m.Progress += a.step
	if m.Progress >= 1-epsilon {
		m.NodeIndex++
		m.Progress = 0
	}

	if m.NodeIndex >= len(a.path)-1 {
		last := a.path[len(a.path)-1]
		m.NodeIndex = len(a.path) - 1
		m.X, m.Y = last.X, last.Y
		m.Moving = false
		return false
	}

	from, to := a.path[m.NodeIndex], a.path[m.NodeIndex+1]
	m.X = from.X + (to.X-from.X)*m.Progress
	m.Y = from.Y + (to.Y-from.Y)*m.Progress
	return true
}

// Unplaced nodes fall back to the depot, then to the origin.
func (a *Animator) locate(id string) domain.Position {
	if n, ok := a.graph.Node(id); ok && n.Position != nil {
		return *n.Position
	}
	if n, ok := a.graph.Node(a.depot); ok && n.Position != nil {
		return *n.Position
	}
	return domain.Position{}
}
