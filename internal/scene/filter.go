package scene

import "fmt"

// AgentsByFrames partitions the flat agent table into one sub-slice per
// frame using each frame's agent index interval. The returned slices alias
// the input table; callers must treat them as read-only.
func AgentsByFrames(frames []Frame, agents []Agent) ([][]Agent, error) {
	out := make([][]Agent, len(frames))
	for i, f := range frames {
		iv := f.AgentInterval
		if !iv.validIn(len(agents)) {
			return nil, fmt.Errorf("%w: frame %d agent interval [%d,%d) outside agent table of %d rows",
				ErrInvalidInput, i, iv.Start, iv.End, len(agents))
		}
		out[i] = agents[iv.Start:iv.End]
	}
	return out, nil
}

// TLFacesByFrames partitions the flat traffic-light table into one sub-slice
// per frame using each frame's traffic-light index interval.
func TLFacesByFrames(frames []Frame, faces []TLFace) ([][]TLFace, error) {
	out := make([][]TLFace, len(frames))
	for i, f := range frames {
		iv := f.TLFaceInterval
		if !iv.validIn(len(faces)) {
			return nil, fmt.Errorf("%w: frame %d traffic-light interval [%d,%d) outside table of %d rows",
				ErrInvalidInput, i, iv.Start, iv.End, len(faces))
		}
		out[i] = faces[iv.Start:iv.End]
	}
	return out, nil
}

// FilterAgentsByLabels keeps agents whose top label probability is at least
// threshold. The operation is idempotent: filtering an already-filtered set
// with the same threshold returns an equal set.
func FilterAgentsByLabels(agents []Agent, threshold float64) []Agent {
	kept := make([]Agent, 0, len(agents))
	for _, a := range agents {
		if _, p := a.TopLabel(); p >= threshold {
			kept = append(kept, a)
		}
	}
	return kept
}

// ActiveFaceIDs collects the face ids of the active traffic-light faces in
// one frame's partition.
func ActiveFaceIDs(faces []TLFace) map[string]struct{} {
	active := make(map[string]struct{})
	for _, f := range faces {
		if f.Active {
			active[f.FaceID] = struct{}{}
		}
	}
	return active
}

// TrackIDs returns the track ids of the given agents in order.
func TrackIDs(agents []Agent) []int64 {
	ids := make([]int64, len(agents))
	for i, a := range agents {
		ids[i] = a.TrackID
	}
	return ids
}
