package scene

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/banshee-data/scene.report/internal/monitoring"
)

// sceneDump is the on-disk JSON layout of a recorded scene export. Each
// scene carries its own scene-scoped tables so imports stay independent.
type sceneDump struct {
	Scenes []struct {
		SceneID     string   `json:"scene_id,omitempty"`
		Description string   `json:"description,omitempty"`
		Frames      []Frame  `json:"frames"`
		Agents      []Agent  `json:"agents"`
		TLFaces     []TLFace `json:"tl_faces"`
	} `json:"scenes"`
}

// ImportJSON reads a scene dump and inserts every scene it contains.
// Returns the ids of the imported scenes, generated where the dump omits
// them.
func (s *Store) ImportJSON(r io.Reader) ([]string, error) {
	var dump sceneDump
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return nil, fmt.Errorf("parse scene dump: %w", err)
	}
	if len(dump.Scenes) == 0 {
		return nil, fmt.Errorf("scene dump contains no scenes")
	}

	ids := make([]string, 0, len(dump.Scenes))
	for i, sc := range dump.Scenes {
		id, err := s.InsertScene(sc.SceneID, sc.Description, sc.Frames, sc.Agents, sc.TLFaces)
		if err != nil {
			return nil, fmt.Errorf("import scene %d: %w", i, err)
		}
		monitoring.Logf("imported scene %s (%d frames, %d agents, %d tl faces)",
			id, len(sc.Frames), len(sc.Agents), len(sc.TLFaces))
		ids = append(ids, id)
	}
	return ids, nil
}
