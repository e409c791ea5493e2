// Package scene holds the recorded-scene data model: frames, agents and
// traffic-light faces for a single driving episode, plus the slicing and
// filtering operations that partition the flat record tables per frame.
package scene

import (
	"errors"
	"fmt"
	"sort"
)

// EgoTrackID is the reserved track identifier for the ego vehicle. Real
// agents always carry non-negative track ids.
const EgoTrackID int64 = -1

// EgoLabel is the class label attached to the synthesized ego agent.
const EgoLabel = "ego"

// Ego vehicle extent in meters (length along heading, width across).
const (
	EgoLengthMeters = 4.87
	EgoWidthMeters  = 1.85
)

// ErrInvalidInput indicates malformed scene input: more than one scene in a
// dataset, or frame index intervals that do not align with the record tables.
// Conversion fails fast on this error; it is not recoverable locally.
var ErrInvalidInput = errors.New("invalid scene input")

// IndexInterval is a half-open [Start, End) row range into one of the flat
// record tables.
type IndexInterval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of rows covered by the interval.
func (iv IndexInterval) Len() int { return iv.End - iv.Start }

// validIn reports whether the interval is well formed and within a table of
// n rows.
func (iv IndexInterval) validIn(n int) bool {
	return iv.Start >= 0 && iv.Start <= iv.End && iv.End <= n
}

// SceneRecord identifies one recorded episode and the frame rows belonging
// to it.
type SceneRecord struct {
	SceneID       string        `json:"scene_id"`
	FrameInterval IndexInterval `json:"frame_interval"`
	Description   string        `json:"description,omitempty"`
	CreatedAtNs   int64         `json:"created_at_ns,omitempty"`
}

// Frame is a single time-step snapshot. EgoYaw is the heading reduced from
// the recorded ego rotation. The intervals select this frame's rows in the
// agent and traffic-light tables.
type Frame struct {
	EgoX   float64 `json:"ego_x"`
	EgoY   float64 `json:"ego_y"`
	EgoYaw float64 `json:"ego_yaw"`

	AgentInterval  IndexInterval `json:"agent_interval"`
	TLFaceInterval IndexInterval `json:"tl_face_interval"`
}

// Agent is one tracked object observed at a frame. LabelProbabilities maps
// class label to probability; it is non-empty and its argmax defines the
// displayed class. Probabilities need not sum to 1.
type Agent struct {
	TrackID            int64              `json:"track_id"`
	CentroidX          float64            `json:"centroid_x"`
	CentroidY          float64            `json:"centroid_y"`
	Yaw                float64            `json:"yaw"`
	LengthMeters       float64            `json:"length_m"`
	WidthMeters        float64            `json:"width_m"`
	LabelProbabilities map[string]float64 `json:"label_probabilities"`
}

// TopLabel returns the most probable class label and its probability.
// Ties break toward the lexicographically smallest label so the result is
// deterministic regardless of map iteration order.
func (a Agent) TopLabel() (string, float64) {
	labels := make([]string, 0, len(a.LabelProbabilities))
	for l := range a.LabelProbabilities {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	best, bestProb := "", -1.0
	for _, l := range labels {
		if p := a.LabelProbabilities[l]; p > bestProb {
			best, bestProb = l, p
		}
	}
	return best, bestProb
}

// TLFace is one traffic-light face observation. Active is frame-scoped: a
// face active in frame N says nothing about frame N+1 unless re-asserted.
type TLFace struct {
	FaceID string `json:"face_id"`
	Color  string `json:"color"`
	Active bool   `json:"active"`
}

// Dataset bundles the scene-scoped record tables. Frames are ordered by
// time; the agent and traffic-light tables are flat, addressed through the
// frames' index intervals.
type Dataset struct {
	Scenes  []SceneRecord `json:"scenes"`
	Frames  []Frame       `json:"frames"`
	Agents  []Agent       `json:"agents"`
	TLFaces []TLFace      `json:"tl_faces"`
}

// ValidateSingleScene checks that the dataset holds exactly one scene.
func (d *Dataset) ValidateSingleScene() error {
	if len(d.Scenes) != 1 {
		return fmt.Errorf("%w: expected exactly one scene, found %d", ErrInvalidInput, len(d.Scenes))
	}
	return nil
}
