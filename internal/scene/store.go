package scene

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/scene.report/internal/monitoring"
)

// schema.sql defines the scene database tables: scenes, frames, agents and
// tl_faces, with scene-scoped 0-based row indexes.
//
//go:embed schema.sql
var schemaSQL string

// Store provides persistence for recorded scenes. It is the SQLite-backed
// implementation of the scene source boundary: LoadScene returns exactly one
// scene's tables, already normalized so the frames' index intervals address
// the returned slices directly.
type Store struct {
	*sql.DB
}

// OpenStore opens (creating if needed) a scene database at path and applies
// the embedded schema. Use ":memory:" for tests.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open scene db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply scene schema: %w", err)
	}
	monitoring.Debugf("initialized scene database schema at %s", path)
	return &Store{db}, nil
}

// InsertScene stores one scene's tables. If sceneID is empty a new UUID is
// generated. The input tables must already be scene-scoped: intervals are
// 0-based into the given slices. Returns the scene id.
func (s *Store) InsertScene(sceneID, description string, frames []Frame, agents []Agent, faces []TLFace) (string, error) {
	if sceneID == "" {
		sceneID = uuid.New().String()
	}
	if _, err := AgentsByFrames(frames, agents); err != nil {
		return "", err
	}
	if _, err := TLFacesByFrames(frames, faces); err != nil {
		return "", err
	}

	tx, err := s.Begin()
	if err != nil {
		return "", fmt.Errorf("begin insert scene: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO scenes (scene_id, description, frame_count, created_at_ns) VALUES (?, ?, ?, ?)`,
		sceneID, description, len(frames), time.Now().UnixNano())
	if err != nil {
		return "", fmt.Errorf("insert scene %s: %w", sceneID, err)
	}

	for i, f := range frames {
		_, err = tx.Exec(`
			INSERT INTO frames (scene_id, frame_idx, ego_x, ego_y, ego_yaw, agent_start, agent_end, tl_start, tl_end)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sceneID, i, f.EgoX, f.EgoY, f.EgoYaw,
			f.AgentInterval.Start, f.AgentInterval.End,
			f.TLFaceInterval.Start, f.TLFaceInterval.End)
		if err != nil {
			return "", fmt.Errorf("insert frame %d: %w", i, err)
		}
	}

	for i, a := range agents {
		probs, err := json.Marshal(a.LabelProbabilities)
		if err != nil {
			return "", fmt.Errorf("encode agent %d label probabilities: %w", i, err)
		}
		_, err = tx.Exec(`
			INSERT INTO agents (scene_id, row_idx, track_id, centroid_x, centroid_y, yaw, length_m, width_m, label_probs)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sceneID, i, a.TrackID, a.CentroidX, a.CentroidY, a.Yaw, a.LengthMeters, a.WidthMeters, string(probs))
		if err != nil {
			return "", fmt.Errorf("insert agent %d: %w", i, err)
		}
	}

	for i, f := range faces {
		active := 0
		if f.Active {
			active = 1
		}
		_, err = tx.Exec(`
			INSERT INTO tl_faces (scene_id, row_idx, face_id, color, active)
			VALUES (?, ?, ?, ?, ?)`,
			sceneID, i, f.FaceID, f.Color, active)
		if err != nil {
			return "", fmt.Errorf("insert tl face %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit scene %s: %w", sceneID, err)
	}
	return sceneID, nil
}

// LoadScene loads one scene's tables as a single-scene Dataset.
func (s *Store) LoadScene(sceneID string) (*Dataset, error) {
	var rec SceneRecord
	var frameCount int
	err := s.QueryRow(`SELECT scene_id, COALESCE(description, ''), frame_count, created_at_ns FROM scenes WHERE scene_id = ?`, sceneID).
		Scan(&rec.SceneID, &rec.Description, &frameCount, &rec.CreatedAtNs)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("scene %s not found", sceneID)
	}
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", sceneID, err)
	}
	rec.FrameInterval = IndexInterval{Start: 0, End: frameCount}

	frames, err := s.loadFrames(sceneID)
	if err != nil {
		return nil, err
	}
	agents, err := s.loadAgents(sceneID)
	if err != nil {
		return nil, err
	}
	faces, err := s.loadTLFaces(sceneID)
	if err != nil {
		return nil, err
	}

	return &Dataset{
		Scenes:  []SceneRecord{rec},
		Frames:  frames,
		Agents:  agents,
		TLFaces: faces,
	}, nil
}

// ListScenes returns all stored scene records ordered by creation time.
func (s *Store) ListScenes() ([]SceneRecord, error) {
	rows, err := s.Query(`SELECT scene_id, COALESCE(description, ''), frame_count, created_at_ns FROM scenes ORDER BY created_at_ns`)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	defer rows.Close()

	var out []SceneRecord
	for rows.Next() {
		var rec SceneRecord
		var frameCount int
		if err := rows.Scan(&rec.SceneID, &rec.Description, &frameCount, &rec.CreatedAtNs); err != nil {
			return nil, fmt.Errorf("scan scene record: %w", err)
		}
		rec.FrameInterval = IndexInterval{Start: 0, End: frameCount}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) loadFrames(sceneID string) ([]Frame, error) {
	rows, err := s.Query(`
		SELECT ego_x, ego_y, ego_yaw, agent_start, agent_end, tl_start, tl_end
		FROM frames WHERE scene_id = ? ORDER BY frame_idx`, sceneID)
	if err != nil {
		return nil, fmt.Errorf("load frames for %s: %w", sceneID, err)
	}
	defer rows.Close()

	var frames []Frame
	for rows.Next() {
		var f Frame
		if err := rows.Scan(&f.EgoX, &f.EgoY, &f.EgoYaw,
			&f.AgentInterval.Start, &f.AgentInterval.End,
			&f.TLFaceInterval.Start, &f.TLFaceInterval.End); err != nil {
			return nil, fmt.Errorf("scan frame: %w", err)
		}
		frames = append(frames, f)
	}
	return frames, rows.Err()
}

func (s *Store) loadAgents(sceneID string) ([]Agent, error) {
	rows, err := s.Query(`
		SELECT track_id, centroid_x, centroid_y, yaw, length_m, width_m, label_probs
		FROM agents WHERE scene_id = ? ORDER BY row_idx`, sceneID)
	if err != nil {
		return nil, fmt.Errorf("load agents for %s: %w", sceneID, err)
	}
	defer rows.Close()

	var agents []Agent
	for rows.Next() {
		var a Agent
		var probs string
		if err := rows.Scan(&a.TrackID, &a.CentroidX, &a.CentroidY, &a.Yaw, &a.LengthMeters, &a.WidthMeters, &probs); err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		if err := json.Unmarshal([]byte(probs), &a.LabelProbabilities); err != nil {
			return nil, fmt.Errorf("decode agent label probabilities: %w", err)
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

func (s *Store) loadTLFaces(sceneID string) ([]TLFace, error) {
	rows, err := s.Query(`
		SELECT face_id, color, active FROM tl_faces WHERE scene_id = ? ORDER BY row_idx`, sceneID)
	if err != nil {
		return nil, fmt.Errorf("load tl faces for %s: %w", sceneID, err)
	}
	defer rows.Close()

	var faces []TLFace
	for rows.Next() {
		var f TLFace
		var active int
		if err := rows.Scan(&f.FaceID, &f.Color, &active); err != nil {
			return nil, fmt.Errorf("scan tl face: %w", err)
		}
		f.Active = active != 0
		faces = append(faces, f)
	}
	return faces, rows.Err()
}
