package vis

import (
	"github.com/banshee-data/scene.report/internal/scene"
)

// windowedPositions collects an entity's positions over the sliding window
// [start, start+window) of frames. The returned mask always has window
// entries; steps past the end of the scene, or steps where the track id is
// absent, are marked unavailable. Xs/Ys keep only the available positions,
// in frame order, so len(xs) equals the count of true mask entries.
//
// Positions are reported in the frames' own (world) coordinates. The
// original implementation called this a "relative pose" computation but
// applied an identity rotation and zero yaw offset, so its output was world
// frame too; the behavior is preserved under an accurate name.
func windowedPositions(frames []scene.Frame, agentsByFrame [][]scene.Agent, trackID int64, start, window int) (xs, ys []float64, avail []bool) {
	avail = make([]bool, window)
	xs = make([]float64, 0, window)
	ys = make([]float64, 0, window)

	for step := 0; step < window; step++ {
		idx := start + step
		if idx >= len(frames) {
			break // window truncated at scene end; mask stays false
		}
		if trackID == scene.EgoTrackID {
			avail[step] = true
			xs = append(xs, frames[idx].EgoX)
			ys = append(ys, frames[idx].EgoY)
			continue
		}
		for _, a := range agentsByFrame[idx] {
			if a.TrackID == trackID {
				avail[step] = true
				xs = append(xs, a.CentroidX)
				ys = append(ys, a.CentroidY)
				break
			}
		}
	}
	return xs, ys, avail
}

// frameTrajectories builds the trajectory list for one anchor frame: one
// trajectory per requested agent track id followed by the ego trajectory.
// A track id never observed inside the window still yields an (empty)
// trajectory, so the result always has len(trackIDs)+1 entries.
func frameTrajectories(frames []scene.Frame, agentsByFrame [][]scene.Agent, trackIDs []int64, frameIndex int, cfg Config) []TrajectoryVisualization {
	out := make([]TrajectoryVisualization, 0, len(trackIDs)+1)

	for _, id := range trackIDs {
		xs, ys, _ := windowedPositions(frames, agentsByFrame, id, frameIndex, cfg.AgentTrajectoryLength)
		out = append(out, TrajectoryVisualization{
			Xs:          xs,
			Ys:          ys,
			Color:       cfg.Colors.AgentTrajectory,
			LegendLabel: AgentTrajectoryLabel,
			TrackID:     id,
		})
	}

	xs, ys, _ := windowedPositions(frames, agentsByFrame, scene.EgoTrackID, frameIndex, cfg.EgoTrajectoryLength)
	out = append(out, TrajectoryVisualization{
		Xs:          xs,
		Ys:          ys,
		Color:       cfg.Colors.EgoTrajectory,
		LegendLabel: EgoTrajectoryLabel,
		TrackID:     scene.EgoTrackID,
	})
	return out
}
