package vis

import (
	"github.com/banshee-data/scene.report/internal/scene/mapapi"
)

// resolveLaneColor determines a lane's display color from the frame's active
// traffic-control points. Lanes with no active associated control keep the
// default color. When several associated controls are active the last one
// processed wins; there is no defined precedence between simultaneously
// active faces.
//
// An active control whose signal color is missing from the table yields
// ErrColorMapping; an unknown control id yields mapapi.ErrLookupMiss. Both
// abort conversion of the scene.
func resolveLaneColor(controlIDs []string, active map[string]struct{}, m mapapi.API, colors ColorTable) (string, error) {
	color := colors.LaneDefault
	for _, id := range controlIDs {
		if _, ok := active[id]; !ok {
			continue
		}
		name, err := m.SignalColor(id)
		if err != nil {
			return "", err
		}
		c, err := colors.signalColor(name)
		if err != nil {
			return "", err
		}
		color = c
	}
	return color, nil
}
