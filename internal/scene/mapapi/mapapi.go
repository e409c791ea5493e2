// Package mapapi provides spatial queries over semantic map elements: lanes,
// crosswalks and their traffic-control associations. Elements are addressed
// by string id; the spatial index is a flat array of per-element bounding
// boxes queried by center point and radius.
package mapapi

import (
	"errors"
	"fmt"
)

// ErrLookupMiss indicates a referenced lane, crosswalk or traffic-control id
// that the map does not know. Visualization correctness depends on complete
// geometry, so callers treat this as fatal for the scene being converted.
var ErrLookupMiss = errors.New("map element not found")

// Lane is the boundary geometry and traffic-control associations of one lane.
// Boundaries run in travel direction; callers stitch left + reversed right
// into a closed outline.
type Lane struct {
	ID                string    `json:"id"`
	LeftBoundaryX     []float64 `json:"left_x"`
	LeftBoundaryY     []float64 `json:"left_y"`
	RightBoundaryX    []float64 `json:"right_x"`
	RightBoundaryY    []float64 `json:"right_y"`
	TrafficControlIDs []string  `json:"traffic_control_ids"`
}

// Crosswalk is the outline polygon of one crosswalk.
type Crosswalk struct {
	ID string    `json:"id"`
	Xs []float64 `json:"xs"`
	Ys []float64 `json:"ys"`
}

// API is the read-only map query boundary. Implementations must be safe for
// concurrent readers; the conversion pipeline may process frames in parallel.
type API interface {
	// LaneIDsInBounds returns ids of lanes whose bounding box intersects the
	// square of half-size radius centered on (x, y).
	LaneIDsInBounds(x, y, radius float64) []string

	// CrosswalkIDsInBounds is the crosswalk counterpart of LaneIDsInBounds.
	CrosswalkIDsInBounds(x, y, radius float64) []string

	// Lane returns the geometry and traffic-control ids of a lane.
	Lane(id string) (Lane, error)

	// Crosswalk returns the outline of a crosswalk.
	Crosswalk(id string) (Crosswalk, error)

	// SignalColor returns the signal color name ("green", "red", "yellow")
	// asserted by a traffic-control point.
	SignalColor(controlID string) (string, error)
}

// bounds is one element's axis-aligned bounding box.
type bounds struct {
	minX, minY, maxX, maxY float64
}

// intersects reports whether the box intersects the square of half-size
// radius centered on (x, y). Matches the original semantic-map query: a box
// test, not a circle test.
func (b bounds) intersects(x, y, radius float64) bool {
	return b.minX <= x+radius && b.maxX >= x-radius &&
		b.minY <= y+radius && b.maxY >= y-radius
}

// boundsOf computes the bounding box of a point sequence given as parallel
// coordinate slices. ok is false for an empty sequence.
func boundsOf(xss ...[]float64) (bounds, bool) {
	// xss alternates x-slice, y-slice pairs.
	b := bounds{minX: 1, maxX: -1} // sentinel: invalid until first point
	seen := false
	for i := 0; i+1 < len(xss); i += 2 {
		xs, ys := xss[i], xss[i+1]
		for j := range xs {
			x, y := xs[j], ys[j]
			if !seen {
				b = bounds{minX: x, minY: y, maxX: x, maxY: y}
				seen = true
				continue
			}
			if x < b.minX {
				b.minX = x
			}
			if x > b.maxX {
				b.maxX = x
			}
			if y < b.minY {
				b.minY = y
			}
			if y > b.maxY {
				b.maxY = y
			}
		}
	}
	return b, seen
}

// InMemoryMap is an API implementation over fully loaded map data. All state
// is immutable after construction, so it is safe for concurrent readers.
type InMemoryMap struct {
	lanes      map[string]Lane
	crosswalks map[string]Crosswalk
	controls   map[string]string // traffic-control id -> signal color name

	laneIDs    []string
	laneBounds []bounds
	cwIDs      []string
	cwBounds   []bounds
}

// NewInMemoryMap builds an InMemoryMap and its bounding-box indexes.
// Elements with no geometry are rejected rather than indexed with an empty
// bounding box.
func NewInMemoryMap(lanes []Lane, crosswalks []Crosswalk, controls map[string]string) (*InMemoryMap, error) {
	m := &InMemoryMap{
		lanes:      make(map[string]Lane, len(lanes)),
		crosswalks: make(map[string]Crosswalk, len(crosswalks)),
		controls:   make(map[string]string, len(controls)),
	}
	for k, v := range controls {
		m.controls[k] = v
	}
	for _, l := range lanes {
		b, ok := boundsOf(l.LeftBoundaryX, l.LeftBoundaryY, l.RightBoundaryX, l.RightBoundaryY)
		if !ok {
			return nil, fmt.Errorf("lane %q has no boundary points", l.ID)
		}
		if _, dup := m.lanes[l.ID]; dup {
			return nil, fmt.Errorf("duplicate lane id %q", l.ID)
		}
		m.lanes[l.ID] = l
		m.laneIDs = append(m.laneIDs, l.ID)
		m.laneBounds = append(m.laneBounds, b)
	}
	for _, cw := range crosswalks {
		b, ok := boundsOf(cw.Xs, cw.Ys)
		if !ok {
			return nil, fmt.Errorf("crosswalk %q has no outline points", cw.ID)
		}
		if _, dup := m.crosswalks[cw.ID]; dup {
			return nil, fmt.Errorf("duplicate crosswalk id %q", cw.ID)
		}
		m.crosswalks[cw.ID] = cw
		m.cwIDs = append(m.cwIDs, cw.ID)
		m.cwBounds = append(m.cwBounds, b)
	}
	return m, nil
}

// LaneIDsInBounds implements API.
func (m *InMemoryMap) LaneIDsInBounds(x, y, radius float64) []string {
	return idsInBounds(m.laneIDs, m.laneBounds, x, y, radius)
}

// CrosswalkIDsInBounds implements API.
func (m *InMemoryMap) CrosswalkIDsInBounds(x, y, radius float64) []string {
	return idsInBounds(m.cwIDs, m.cwBounds, x, y, radius)
}

func idsInBounds(ids []string, boxes []bounds, x, y, radius float64) []string {
	hits := make([]string, 0, 8)
	for i, b := range boxes {
		if b.intersects(x, y, radius) {
			hits = append(hits, ids[i])
		}
	}
	return hits
}

// Lane implements API.
func (m *InMemoryMap) Lane(id string) (Lane, error) {
	l, ok := m.lanes[id]
	if !ok {
		return Lane{}, fmt.Errorf("%w: lane %q", ErrLookupMiss, id)
	}
	return l, nil
}

// Crosswalk implements API.
func (m *InMemoryMap) Crosswalk(id string) (Crosswalk, error) {
	cw, ok := m.crosswalks[id]
	if !ok {
		return Crosswalk{}, fmt.Errorf("%w: crosswalk %q", ErrLookupMiss, id)
	}
	return cw, nil
}

// SignalColor implements API.
func (m *InMemoryMap) SignalColor(controlID string) (string, error) {
	c, ok := m.controls[controlID]
	if !ok {
		return "", fmt.Errorf("%w: traffic control %q", ErrLookupMiss, controlID)
	}
	return c, nil
}
