// Package vis converts scene-scoped record tables into a backend-agnostic,
// frame-indexed visualization model. Outputs are freshly allocated value
// objects holding no references back to the source tables; any rendering
// backend can consume them.
package vis

// LaneVisualization is one lane outline with its resolved display color.
// Xs/Ys are parallel coordinate slices: left boundary followed by the right
// boundary reversed, forming a closed outline.
type LaneVisualization struct {
	Xs    []float64
	Ys    []float64
	Color string
}

// CrosswalkVisualization is one crosswalk outline polygon.
type CrosswalkVisualization struct {
	Xs    []float64
	Ys    []float64
	Color string
}

// EgoVisualization is the ego vehicle's oriented box for one frame.
type EgoVisualization struct {
	Xs      [4]float64
	Ys      [4]float64
	Color   string
	CenterX float64
	CenterY float64
}

// AgentVisualization is one agent's oriented box with its displayed class.
type AgentVisualization struct {
	Xs      [4]float64
	Ys      [4]float64
	Color   string
	TrackID int64
	Label   string
	Prob    float64
}

// Trajectory legend labels distinguishing ego from agent trajectories.
const (
	EgoTrajectoryLabel   = "ego_trajectory"
	AgentTrajectoryLabel = "agent_trajectory"
)

// TrajectoryVisualization is a time-ordered position sequence for one entity
// over a bounded future window. TrackID is scene.EgoTrackID for ego.
type TrajectoryVisualization struct {
	Xs          []float64
	Ys          []float64
	Color       string
	LegendLabel string
	TrackID     int64
}

// FrameVisualization aggregates everything drawn for one frame. It is
// produced once per frame and never mutated afterwards.
type FrameVisualization struct {
	Ego          EgoVisualization
	Agents       []AgentVisualization
	Lanes        []LaneVisualization
	Crosswalks   []CrosswalkVisualization
	Trajectories []TrajectoryVisualization
}
