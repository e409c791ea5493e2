package vis

import (
	"errors"
	"fmt"
)

// ErrColorMapping indicates an active traffic-control point whose signal
// color has no entry in the signal color table. The resolver fails fast
// rather than painting a wrong color; see DESIGN.md for the decision.
var ErrColorMapping = errors.New("signal color not in color table")

// Signal color names as reported by the map service.
const (
	SignalGreen  = "green"
	SignalRed    = "red"
	SignalYellow = "yellow"
)

// ColorTable holds every display color used by the pipeline. Tables are
// immutable after construction: build one at startup (DefaultColorTable or
// from config) and pass it into the builder.
type ColorTable struct {
	// Signal maps signal color name -> display color for lanes controlled
	// by an active traffic light.
	Signal map[string]string
	// Label maps agent class label -> display color.
	Label map[string]string

	LaneDefault     string // lanes with no active control
	AgentDefault    string // agents whose label has no table entry
	Crosswalk       string
	Ego             string
	EgoTrajectory   string
	AgentTrajectory string
}

// DefaultColorTable returns the stock palette.
func DefaultColorTable() ColorTable {
	return ColorTable{
		Signal: map[string]string{
			SignalGreen:  "#33CC33",
			SignalRed:    "#FF3300",
			SignalYellow: "#FFFF66",
		},
		Label: map[string]string{
			"PERCEPTION_LABEL_CAR":        "#1F77B4",
			"PERCEPTION_LABEL_CYCLIST":    "#CC33FF",
			"PERCEPTION_LABEL_PEDESTRIAN": "#66CCFF",
		},
		LaneDefault:     "gray",
		AgentDefault:    "#1F77B4",
		Crosswalk:       "yellow",
		Ego:             "red",
		EgoTrajectory:   "red",
		AgentTrajectory: "blue",
	}
}

// signalColor looks up the display color for a signal color name, failing
// fast on a missing entry.
func (t ColorTable) signalColor(name string) (string, error) {
	c, ok := t.Signal[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrColorMapping, name)
	}
	return c, nil
}

// labelColor looks up the display color for an agent class label, falling
// back to AgentDefault for unmapped labels.
func (t ColorTable) labelColor(label string) string {
	if c, ok := t.Label[label]; ok {
		return c
	}
	return t.AgentDefault
}
