package mapapi

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testMap(t *testing.T) *InMemoryMap {
	t.Helper()
	lanes := []Lane{
		{
			ID:                "lane-near",
			LeftBoundaryX:     []float64{0, 10},
			LeftBoundaryY:     []float64{0, 0},
			RightBoundaryX:    []float64{0, 10},
			RightBoundaryY:    []float64{3, 3},
			TrafficControlIDs: []string{"tc-1"},
		},
		{
			ID:             "lane-far",
			LeftBoundaryX:  []float64{500, 510},
			LeftBoundaryY:  []float64{500, 500},
			RightBoundaryX: []float64{500, 510},
			RightBoundaryY: []float64{503, 503},
		},
	}
	crosswalks := []Crosswalk{
		{ID: "cw-1", Xs: []float64{5, 8, 8, 5}, Ys: []float64{-2, -2, 2, 2}},
	}
	controls := map[string]string{"tc-1": "red"}

	m, err := NewInMemoryMap(lanes, crosswalks, controls)
	if err != nil {
		t.Fatalf("NewInMemoryMap failed: %v", err)
	}
	return m
}

func TestLaneIDsInBounds(t *testing.T) {
	m := testMap(t)

	near := m.LaneIDsInBounds(5, 0, 50)
	if len(near) != 1 || near[0] != "lane-near" {
		t.Fatalf("expected only lane-near within 50 units, got %v", near)
	}

	all := m.LaneIDsInBounds(250, 250, 400)
	if len(all) != 2 {
		t.Fatalf("expected both lanes within 400 units, got %v", all)
	}

	none := m.LaneIDsInBounds(-500, -500, 10)
	if len(none) != 0 {
		t.Fatalf("expected no lanes, got %v", none)
	}
}

func TestCrosswalkIDsInBounds(t *testing.T) {
	m := testMap(t)

	hits := m.CrosswalkIDsInBounds(0, 0, 10)
	if len(hits) != 1 || hits[0] != "cw-1" {
		t.Fatalf("expected cw-1, got %v", hits)
	}
	if hits := m.CrosswalkIDsInBounds(100, 100, 5); len(hits) != 0 {
		t.Fatalf("expected no crosswalks, got %v", hits)
	}
}

func TestBoundsIntersects_EdgeTouch(t *testing.T) {
	m := testMap(t)

	// Query square exactly touching the lane bounding box edge still hits:
	// lane-near spans x in [0,10], so a query at x=60 with radius 50 touches
	// x=10.
	hits := m.LaneIDsInBounds(60, 0, 50)
	if len(hits) != 1 {
		t.Fatalf("expected edge-touching query to hit, got %v", hits)
	}
}

func TestLookupMisses(t *testing.T) {
	m := testMap(t)

	if _, err := m.Lane("nope"); !errors.Is(err, ErrLookupMiss) {
		t.Errorf("expected ErrLookupMiss for unknown lane, got %v", err)
	}
	if _, err := m.Crosswalk("nope"); !errors.Is(err, ErrLookupMiss) {
		t.Errorf("expected ErrLookupMiss for unknown crosswalk, got %v", err)
	}
	if _, err := m.SignalColor("nope"); !errors.Is(err, ErrLookupMiss) {
		t.Errorf("expected ErrLookupMiss for unknown control, got %v", err)
	}

	color, err := m.SignalColor("tc-1")
	if err != nil || color != "red" {
		t.Errorf("expected red for tc-1, got %q, %v", color, err)
	}
}

func TestNewInMemoryMap_RejectsEmptyGeometry(t *testing.T) {
	_, err := NewInMemoryMap([]Lane{{ID: "empty"}}, nil, nil)
	if err == nil {
		t.Fatal("expected error for lane with no boundary points")
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.json")
	data := `{
		"lanes": [{
			"id": "l1",
			"left_x": [0, 1], "left_y": [0, 0],
			"right_x": [0, 1], "right_y": [1, 1],
			"traffic_control_ids": ["tc-9"]
		}],
		"crosswalks": [{"id": "c1", "xs": [0, 1, 1], "ys": [0, 0, 1]}],
		"traffic_controls": {"tc-9": "green"}
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write map file: %v", err)
	}

	m, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	lane, err := m.Lane("l1")
	if err != nil {
		t.Fatalf("Lane(l1) failed: %v", err)
	}
	if len(lane.TrafficControlIDs) != 1 || lane.TrafficControlIDs[0] != "tc-9" {
		t.Errorf("unexpected traffic control ids: %v", lane.TrafficControlIDs)
	}
	if color, _ := m.SignalColor("tc-9"); color != "green" {
		t.Errorf("expected green for tc-9, got %q", color)
	}
}

func TestLoadJSON_RejectsNonJSONExtension(t *testing.T) {
	if _, err := LoadJSON("map.yaml"); err == nil {
		t.Fatal("expected error for non-json extension")
	}
}
