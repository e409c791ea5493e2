package mapapi

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// mapFile is the on-disk JSON layout for a semantic map.
type mapFile struct {
	Lanes           []Lane            `json:"lanes"`
	Crosswalks      []Crosswalk       `json:"crosswalks"`
	TrafficControls map[string]string `json:"traffic_controls"`
}

// LoadJSON reads a semantic map from a JSON file and builds an InMemoryMap.
func LoadJSON(path string) (*InMemoryMap, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("map file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file: %w", err)
	}

	var mf mapFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse map JSON: %w", err)
	}

	m, err := NewInMemoryMap(mf.Lanes, mf.Crosswalks, mf.TrafficControls)
	if err != nil {
		return nil, fmt.Errorf("invalid map data: %w", err)
	}
	return m, nil
}
