package vis

import (
	"fmt"

	"github.com/banshee-data/scene.report/internal/scene"
	"github.com/banshee-data/scene.report/internal/scene/mapapi"
)

// Default conversion parameters.
const (
	DefaultQueryRadiusMeters     = 50.0
	DefaultLabelThreshold        = 0.1
	DefaultEgoTrajectoryLength   = 100
	DefaultAgentTrajectoryLength = 20
)

// Config carries every tunable of the conversion pipeline. Pass it by value;
// the builder never mutates it, so one Config can serve concurrent builders.
type Config struct {
	// QueryRadiusMeters bounds the map query around the ego position.
	QueryRadiusMeters float64
	// LabelThreshold discards agents whose top label probability is lower.
	LabelThreshold float64
	// Trajectory window lengths in frames. Ego typically looks further
	// ahead than agents.
	EgoTrajectoryLength   int
	AgentTrajectoryLength int
	// WithTrajectories toggles trajectory extraction.
	WithTrajectories bool
	// EgoRelative renders all geometry in the ego frame of each frame's
	// pose instead of world coordinates.
	EgoRelative bool

	Colors ColorTable
}

// DefaultConfig returns the stock pipeline configuration: world-frame output
// with trajectories enabled.
func DefaultConfig() Config {
	return Config{
		QueryRadiusMeters:     DefaultQueryRadiusMeters,
		LabelThreshold:        DefaultLabelThreshold,
		EgoTrajectoryLength:   DefaultEgoTrajectoryLength,
		AgentTrajectoryLength: DefaultAgentTrajectoryLength,
		WithTrajectories:      true,
		Colors:                DefaultColorTable(),
	}
}

// Builder converts one scene at a time into frame visualizations. It holds
// no mutable state, so a single Builder is safe for concurrent scenes as
// long as the map API tolerates concurrent readers.
type Builder struct {
	mapAPI mapapi.API
	cfg    Config
}

// NewBuilder creates a Builder over the given map service.
func NewBuilder(m mapapi.API, cfg Config) *Builder {
	return &Builder{mapAPI: m, cfg: cfg}
}

// ConvertScene turns a single-scene dataset into one FrameVisualization per
// frame, in frame order. Any invalid input or map lookup failure aborts the
// whole scene; no partial output is returned.
func (b *Builder) ConvertScene(ds *scene.Dataset) ([]FrameVisualization, error) {
	if err := ds.ValidateSingleScene(); err != nil {
		return nil, err
	}

	agentsByFrame, err := scene.AgentsByFrames(ds.Frames, ds.Agents)
	if err != nil {
		return nil, err
	}
	facesByFrame, err := scene.TLFacesByFrames(ds.Frames, ds.TLFaces)
	if err != nil {
		return nil, err
	}

	out := make([]FrameVisualization, 0, len(ds.Frames))
	for idx := range ds.Frames {
		filtered := scene.FilterAgentsByLabels(agentsByFrame[idx], b.cfg.LabelThreshold)

		fv, err := b.buildFrame(ds.Frames[idx], filtered, facesByFrame[idx])
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", idx, err)
		}

		if b.cfg.WithTrajectories {
			fv.Trajectories = frameTrajectories(ds.Frames, agentsByFrame, scene.TrackIDs(filtered), idx, b.cfg)
		}
		out = append(out, fv)
	}
	return out, nil
}

// buildFrame assembles the visualization of one frame from its ego pose,
// pre-filtered agents and traffic-light faces. Trajectories are attached by
// the caller.
func (b *Builder) buildFrame(frame scene.Frame, agents []scene.Agent, faces []scene.TLFace) (FrameVisualization, error) {
	var tf *RigidTransform
	if b.cfg.EgoRelative {
		tf = PoseTransform(frame.EgoX, frame.EgoY, frame.EgoYaw).Inverse()
	}

	lanes, err := b.buildLanes(frame, faces, tf)
	if err != nil {
		return FrameVisualization{}, err
	}
	crosswalks, err := b.buildCrosswalks(frame, tf)
	if err != nil {
		return FrameVisualization{}, err
	}

	// Batch geometry: ego as a virtual agent at index 0, split back out
	// after the corner transform.
	batch := make([]scene.Agent, 0, len(agents)+1)
	batch = append(batch, EgoAsAgent(frame))
	batch = append(batch, agents...)
	boxes := BatchBoxCorners(batch, tf)

	ego := EgoVisualization{
		Xs:      boxes[0].Xs,
		Ys:      boxes[0].Ys,
		Color:   b.cfg.Colors.Ego,
		CenterX: batch[0].CentroidX,
		CenterY: batch[0].CentroidY,
	}
	if tf != nil {
		ego.CenterX, ego.CenterY = tf.Apply(ego.CenterX, ego.CenterY)
	}

	agentVis := make([]AgentVisualization, 0, len(agents))
	for i, a := range agents {
		label, prob := a.TopLabel()
		agentVis = append(agentVis, AgentVisualization{
			Xs:      boxes[i+1].Xs,
			Ys:      boxes[i+1].Ys,
			Color:   b.cfg.Colors.labelColor(label),
			TrackID: a.TrackID,
			Label:   label,
			Prob:    prob,
		})
	}

	return FrameVisualization{
		Ego:        ego,
		Agents:     agentVis,
		Lanes:      lanes,
		Crosswalks: crosswalks,
	}, nil
}

// buildLanes queries lanes around the ego position and resolves each lane's
// color from the frame's active traffic-light faces.
func (b *Builder) buildLanes(frame scene.Frame, faces []scene.TLFace, tf *RigidTransform) ([]LaneVisualization, error) {
	ids := b.mapAPI.LaneIDsInBounds(frame.EgoX, frame.EgoY, b.cfg.QueryRadiusMeters)
	active := scene.ActiveFaceIDs(faces)

	lanes := make([]LaneVisualization, 0, len(ids))
	for _, id := range ids {
		lane, err := b.mapAPI.Lane(id)
		if err != nil {
			return nil, err
		}
		color, err := resolveLaneColor(lane.TrafficControlIDs, active, b.mapAPI, b.cfg.Colors)
		if err != nil {
			return nil, err
		}

		// Closed outline: left boundary then right boundary reversed.
		nl, nr := len(lane.LeftBoundaryX), len(lane.RightBoundaryX)
		xs := make([]float64, 0, nl+nr)
		ys := make([]float64, 0, nl+nr)
		xs = append(xs, lane.LeftBoundaryX...)
		ys = append(ys, lane.LeftBoundaryY...)
		for i := nr - 1; i >= 0; i-- {
			xs = append(xs, lane.RightBoundaryX[i])
			ys = append(ys, lane.RightBoundaryY[i])
		}
		if tf != nil {
			tf.ApplyBatch(xs, ys)
		}
		lanes = append(lanes, LaneVisualization{Xs: xs, Ys: ys, Color: color})
	}
	return lanes, nil
}

// buildCrosswalks queries crosswalks around the ego position.
func (b *Builder) buildCrosswalks(frame scene.Frame, tf *RigidTransform) ([]CrosswalkVisualization, error) {
	ids := b.mapAPI.CrosswalkIDsInBounds(frame.EgoX, frame.EgoY, b.cfg.QueryRadiusMeters)

	crosswalks := make([]CrosswalkVisualization, 0, len(ids))
	for _, id := range ids {
		cw, err := b.mapAPI.Crosswalk(id)
		if err != nil {
			return nil, err
		}
		xs := append([]float64(nil), cw.Xs...)
		ys := append([]float64(nil), cw.Ys...)
		if tf != nil {
			tf.ApplyBatch(xs, ys)
		}
		crosswalks = append(crosswalks, CrosswalkVisualization{Xs: xs, Ys: ys, Color: b.cfg.Colors.Crosswalk})
	}
	return crosswalks, nil
}
