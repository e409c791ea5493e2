package vis

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/scene.report/internal/scene"
)

// Base corner order of the unit box centered at the origin. Scaling by
// (length, width) and rotating by yaw turns this into an agent's outline.
var unitBoxX = [4]float64{-0.5, -0.5, 0.5, 0.5}
var unitBoxY = [4]float64{-0.5, 0.5, 0.5, -0.5}

// RigidTransform is a 2D rigid transform (rotation then translation) held as
// a 3x3 homogeneous matrix in row-major layout.
type RigidTransform struct {
	m *mat.Dense
}

// PoseTransform builds the world-from-entity transform for a pose at (x, y)
// with heading yaw.
func PoseTransform(x, y, yaw float64) *RigidTransform {
	c, s := math.Cos(yaw), math.Sin(yaw)
	return &RigidTransform{m: mat.NewDense(3, 3, []float64{
		c, -s, x,
		s, c, y,
		0, 0, 1,
	})}
}

// Inverse returns the inverse transform. For a rigid transform the inverse
// rotation is the transpose and the inverse translation is the negated
// translation rotated into the new frame; no general matrix inversion is
// needed.
func (t *RigidTransform) Inverse() *RigidTransform {
	r00, r01 := t.m.At(0, 0), t.m.At(0, 1)
	r10, r11 := t.m.At(1, 0), t.m.At(1, 1)
	tx, ty := t.m.At(0, 2), t.m.At(1, 2)

	// R^T and -R^T * t
	itx := -(r00*tx + r10*ty)
	ity := -(r01*tx + r11*ty)
	return &RigidTransform{m: mat.NewDense(3, 3, []float64{
		r00, r10, itx,
		r01, r11, ity,
		0, 0, 1,
	})}
}

// Apply maps a single point through the transform.
func (t *RigidTransform) Apply(x, y float64) (float64, float64) {
	return t.m.At(0, 0)*x + t.m.At(0, 1)*y + t.m.At(0, 2),
		t.m.At(1, 0)*x + t.m.At(1, 1)*y + t.m.At(1, 2)
}

// ApplyBatch maps parallel coordinate slices through the transform in place.
func (t *RigidTransform) ApplyBatch(xs, ys []float64) {
	r00, r01, tx := t.m.At(0, 0), t.m.At(0, 1), t.m.At(0, 2)
	r10, r11, ty := t.m.At(1, 0), t.m.At(1, 1), t.m.At(1, 2)
	for i := range xs {
		x, y := xs[i], ys[i]
		xs[i] = r00*x + r01*y + tx
		ys[i] = r10*x + r11*y + ty
	}
}

// Box is the four-corner outline of one oriented bounding box.
type Box struct {
	Xs [4]float64
	Ys [4]float64
}

// EgoAsAgent synthesizes the ego vehicle of a frame as a virtual agent with
// the reserved track id, fixed extent and a certain "ego" label. Prepending
// it to a frame's agent batch lets one vectorized corner computation cover
// ego and agents alike.
func EgoAsAgent(f scene.Frame) scene.Agent {
	return scene.Agent{
		TrackID:            scene.EgoTrackID,
		CentroidX:          f.EgoX,
		CentroidY:          f.EgoY,
		Yaw:                f.EgoYaw,
		LengthMeters:       scene.EgoLengthMeters,
		WidthMeters:        scene.EgoWidthMeters,
		LabelProbabilities: map[string]float64{scene.EgoLabel: 1},
	}
}

// BatchBoxCorners computes the oriented box outline of every agent in one
// batch over flat coordinate arrays: unit box corners scaled by extent,
// rotated by yaw, translated by centroid. If tf is non-nil the resulting
// world-frame corners are additionally mapped through it (e.g. an inverse
// ego pose for ego-relative output).
func BatchBoxCorners(agents []scene.Agent, tf *RigidTransform) []Box {
	n := len(agents)
	xs := make([]float64, 4*n)
	ys := make([]float64, 4*n)

	// Scale pass: corners in the agent's own frame.
	for i, a := range agents {
		base := i * 4
		for k := 0; k < 4; k++ {
			xs[base+k] = unitBoxX[k] * a.LengthMeters
			ys[base+k] = unitBoxY[k] * a.WidthMeters
		}
	}

	// Rotate-and-translate pass into world coordinates.
	for i, a := range agents {
		c, s := math.Cos(a.Yaw), math.Sin(a.Yaw)
		base := i * 4
		for k := 0; k < 4; k++ {
			x, y := xs[base+k], ys[base+k]
			xs[base+k] = x*c - y*s + a.CentroidX
			ys[base+k] = x*s + y*c + a.CentroidY
		}
	}

	if tf != nil {
		tf.ApplyBatch(xs, ys)
	}

	boxes := make([]Box, n)
	for i := range boxes {
		base := i * 4
		copy(boxes[i].Xs[:], xs[base:base+4])
		copy(boxes[i].Ys[:], ys[base:base+4])
	}
	return boxes
}
