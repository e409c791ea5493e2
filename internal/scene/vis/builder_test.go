package vis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/scene.report/internal/scene"
	"github.com/banshee-data/scene.report/internal/scene/mapapi"
)

// builderMap returns a map with one lane near the origin (controlled by
// tc-1) and one crosswalk, via the real in-memory implementation.
func builderMap(t *testing.T) mapapi.API {
	t.Helper()
	lanes := []mapapi.Lane{{
		ID:                "lane-1",
		LeftBoundaryX:     []float64{0, 20},
		LeftBoundaryY:     []float64{0, 0},
		RightBoundaryX:    []float64{0, 20},
		RightBoundaryY:    []float64{3, 3},
		TrafficControlIDs: []string{"tc-1"},
	}}
	crosswalks := []mapapi.Crosswalk{{
		ID: "cw-1", Xs: []float64{5, 8, 8, 5}, Ys: []float64{-2, -2, 2, 2},
	}}
	m, err := mapapi.NewInMemoryMap(lanes, crosswalks, map[string]string{"tc-1": SignalRed})
	require.NoError(t, err)
	return m
}

// threeFrameDataset builds the canonical test scene: 3 frames, ego near the
// origin, a single agent with track id 7 at frame 0 only, with the given
// top-label probability.
func threeFrameDataset(agentProb float64) *scene.Dataset {
	frames := []scene.Frame{
		{EgoX: 0, EgoY: 0, AgentInterval: scene.IndexInterval{Start: 0, End: 1}},
		{EgoX: 1, EgoY: 0, AgentInterval: scene.IndexInterval{Start: 1, End: 1}},
		{EgoX: 2, EgoY: 0, AgentInterval: scene.IndexInterval{Start: 1, End: 1}},
	}
	agents := []scene.Agent{{
		TrackID: 7, CentroidX: 5, CentroidY: 1, Yaw: 0,
		LengthMeters: 4, WidthMeters: 2,
		LabelProbabilities: map[string]float64{"PERCEPTION_LABEL_CAR": agentProb},
	}}
	return &scene.Dataset{
		Scenes: []scene.SceneRecord{{SceneID: "s1", FrameInterval: scene.IndexInterval{Start: 0, End: 3}}},
		Frames: frames,
		Agents: agents,
	}
}

func TestConvertScene_FiltersLowProbabilityAgents(t *testing.T) {
	b := NewBuilder(builderMap(t), DefaultConfig())

	out, err := b.ConvertScene(threeFrameDataset(0.05))
	require.NoError(t, err)
	require.Len(t, out, 3)

	for i, fv := range out {
		assert.Empty(t, fv.Agents, "frame %d should have no agents after filtering", i)
		// Ego is always present with 4 corners.
		assert.Len(t, fv.Ego.Xs, 4)
	}
}

func TestConvertScene_KeepsAgentsAboveThreshold(t *testing.T) {
	b := NewBuilder(builderMap(t), DefaultConfig())

	out, err := b.ConvertScene(threeFrameDataset(0.9))
	require.NoError(t, err)

	require.Len(t, out[0].Agents, 1)
	a := out[0].Agents[0]
	assert.Equal(t, int64(7), a.TrackID)
	assert.Equal(t, "PERCEPTION_LABEL_CAR", a.Label)
	assert.InDelta(t, 0.9, a.Prob, 1e-12)
	assert.Equal(t, DefaultColorTable().Label["PERCEPTION_LABEL_CAR"], a.Color)

	// Frames 1 and 2 have no agent rows at all.
	assert.Empty(t, out[1].Agents)
	assert.Empty(t, out[2].Agents)
}

func TestConvertScene_EgoCentroidProperty(t *testing.T) {
	b := NewBuilder(builderMap(t), DefaultConfig())

	out, err := b.ConvertScene(threeFrameDataset(0.9))
	require.NoError(t, err)

	for i, fv := range out {
		var cx, cy float64
		for k := 0; k < 4; k++ {
			cx += fv.Ego.Xs[k] / 4
			cy += fv.Ego.Ys[k] / 4
		}
		assert.InDelta(t, fv.Ego.CenterX, cx, 1e-9, "frame %d ego centroid x", i)
		assert.InDelta(t, fv.Ego.CenterY, cy, 1e-9, "frame %d ego centroid y", i)
	}
}

func TestConvertScene_LaneColoring(t *testing.T) {
	ds := threeFrameDataset(0.9)
	// Activate tc-1 in frame 0 only.
	ds.TLFaces = []scene.TLFace{{FaceID: "tc-1", Color: SignalRed, Active: true}}
	ds.Frames[0].TLFaceInterval = scene.IndexInterval{Start: 0, End: 1}

	b := NewBuilder(builderMap(t), DefaultConfig())
	out, err := b.ConvertScene(ds)
	require.NoError(t, err)

	colors := DefaultColorTable()
	require.Len(t, out[0].Lanes, 1)
	assert.Equal(t, colors.Signal[SignalRed], out[0].Lanes[0].Color, "active control colors the lane")

	// Face status is frame-scoped: later frames fall back to the default.
	require.Len(t, out[1].Lanes, 1)
	assert.Equal(t, colors.LaneDefault, out[1].Lanes[0].Color)

	// Lane outline is left boundary plus reversed right boundary.
	assert.Len(t, out[0].Lanes[0].Xs, 4)
	assert.Len(t, out[0].Crosswalks, 1)
	assert.Equal(t, colors.Crosswalk, out[0].Crosswalks[0].Color)
}

func TestConvertScene_OutOfRadiusLanes(t *testing.T) {
	lanes := []mapapi.Lane{{
		ID:             "lane-far",
		LeftBoundaryX:  []float64{1000, 1020},
		LeftBoundaryY:  []float64{1000, 1000},
		RightBoundaryX: []float64{1000, 1020},
		RightBoundaryY: []float64{1003, 1003},
	}}
	m, err := mapapi.NewInMemoryMap(lanes, nil, nil)
	require.NoError(t, err)

	b := NewBuilder(m, DefaultConfig())
	out, err := b.ConvertScene(threeFrameDataset(0.9))
	require.NoError(t, err)

	for i, fv := range out {
		assert.Empty(t, fv.Lanes, "frame %d: lane outside the query radius must not appear", i)
	}
}

func TestConvertScene_MultiSceneFails(t *testing.T) {
	ds := threeFrameDataset(0.9)
	ds.Scenes = append(ds.Scenes, scene.SceneRecord{SceneID: "s2"})

	b := NewBuilder(builderMap(t), DefaultConfig())
	out, err := b.ConvertScene(ds)
	require.ErrorIs(t, err, scene.ErrInvalidInput)
	assert.Nil(t, out, "no partial output on invalid input")
}

func TestConvertScene_Trajectories(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AgentTrajectoryLength = 2
	cfg.EgoTrajectoryLength = 5
	b := NewBuilder(builderMap(t), cfg)

	out, err := b.ConvertScene(threeFrameDataset(0.9))
	require.NoError(t, err)

	// Frame 0: one filtered agent plus ego.
	require.Len(t, out[0].Trajectories, 2)
	assert.Equal(t, AgentTrajectoryLabel, out[0].Trajectories[0].LegendLabel)
	egoTraj := out[0].Trajectories[1]
	assert.Equal(t, EgoTrajectoryLabel, egoTraj.LegendLabel)
	assert.Equal(t, scene.EgoTrackID, egoTraj.TrackID)
	// Ego window truncates at the 3-frame scene end.
	assert.Equal(t, []float64{0, 1, 2}, egoTraj.Xs)

	// Frames 1 and 2 have no agents: ego trajectory only.
	require.Len(t, out[1].Trajectories, 1)
	assert.Equal(t, EgoTrajectoryLabel, out[1].Trajectories[0].LegendLabel)
}

func TestConvertScene_TrajectoriesDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WithTrajectories = false
	b := NewBuilder(builderMap(t), cfg)

	out, err := b.ConvertScene(threeFrameDataset(0.9))
	require.NoError(t, err)
	for _, fv := range out {
		assert.Empty(t, fv.Trajectories)
	}
}

func TestConvertScene_UnknownSignalColorAborts(t *testing.T) {
	lanes := []mapapi.Lane{{
		ID:                "lane-1",
		LeftBoundaryX:     []float64{0, 20},
		LeftBoundaryY:     []float64{0, 0},
		RightBoundaryX:    []float64{0, 20},
		RightBoundaryY:    []float64{3, 3},
		TrafficControlIDs: []string{"tc-1"},
	}}
	m, err := mapapi.NewInMemoryMap(lanes, nil, map[string]string{"tc-1": "purple"})
	require.NoError(t, err)

	ds := threeFrameDataset(0.9)
	ds.TLFaces = []scene.TLFace{{FaceID: "tc-1", Color: "purple", Active: true}}
	ds.Frames[0].TLFaceInterval = scene.IndexInterval{Start: 0, End: 1}

	b := NewBuilder(m, DefaultConfig())
	out, err := b.ConvertScene(ds)
	require.ErrorIs(t, err, ErrColorMapping)
	assert.Nil(t, out)
}

func TestConvertScene_EgoRelative(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EgoRelative = true
	cfg.WithTrajectories = false
	b := NewBuilder(builderMap(t), cfg)

	ds := threeFrameDataset(0.9)
	ds.Frames[0].EgoYaw = math.Pi / 2

	out, err := b.ConvertScene(ds)
	require.NoError(t, err)

	// In its own frame the ego box is centered at the origin and axis
	// aligned regardless of its world pose.
	ego := out[0].Ego
	assert.InDelta(t, 0, ego.CenterX, 1e-9)
	assert.InDelta(t, 0, ego.CenterY, 1e-9)
	var cx, cy float64
	for k := 0; k < 4; k++ {
		cx += ego.Xs[k] / 4
		cy += ego.Ys[k] / 4
	}
	assert.InDelta(t, 0, cx, 1e-9)
	assert.InDelta(t, 0, cy, 1e-9)
}
