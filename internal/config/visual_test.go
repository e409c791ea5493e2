package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/banshee-data/scene.report/internal/scene/vis"
)

func TestEmptyVisualConfigDefaults(t *testing.T) {
	cfg := EmptyVisualConfig()

	if got := cfg.GetQueryRadiusMeters(); got != vis.DefaultQueryRadiusMeters {
		t.Errorf("expected default query radius %v, got %v", vis.DefaultQueryRadiusMeters, got)
	}
	if got := cfg.GetLabelThreshold(); got != vis.DefaultLabelThreshold {
		t.Errorf("expected default label threshold %v, got %v", vis.DefaultLabelThreshold, got)
	}
	if got := cfg.GetEgoTrajectoryLength(); got != vis.DefaultEgoTrajectoryLength {
		t.Errorf("expected default ego window %v, got %v", vis.DefaultEgoTrajectoryLength, got)
	}
	if got := cfg.GetAgentTrajectoryLength(); got != vis.DefaultAgentTrajectoryLength {
		t.Errorf("expected default agent window %v, got %v", vis.DefaultAgentTrajectoryLength, got)
	}
	if !cfg.GetWithTrajectories() {
		t.Error("trajectories should default to enabled")
	}
	if cfg.GetEgoRelative() {
		t.Error("ego-relative should default to off")
	}
}

func TestLoadVisualConfig_PartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vis.json")
	data := `{
		"query_radius_meters": 75,
		"label_threshold": 0.25,
		"signal_colors": {"green": "#00FF00"},
		"lane_default_color": "#CCCCCC"
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadVisualConfig(path)
	if err != nil {
		t.Fatalf("LoadVisualConfig failed: %v", err)
	}

	p := cfg.Pipeline()
	if p.QueryRadiusMeters != 75 {
		t.Errorf("expected radius 75, got %v", p.QueryRadiusMeters)
	}
	if p.LabelThreshold != 0.25 {
		t.Errorf("expected threshold 0.25, got %v", p.LabelThreshold)
	}
	// Omitted fields keep defaults.
	if p.EgoTrajectoryLength != vis.DefaultEgoTrajectoryLength {
		t.Errorf("omitted ego window should default, got %d", p.EgoTrajectoryLength)
	}
	// Color overrides merge over the stock palette.
	if p.Colors.Signal[vis.SignalGreen] != "#00FF00" {
		t.Errorf("green override not applied: %q", p.Colors.Signal[vis.SignalGreen])
	}
	if p.Colors.Signal[vis.SignalRed] == "" {
		t.Error("stock red entry lost during merge")
	}
	if p.Colors.LaneDefault != "#CCCCCC" {
		t.Errorf("lane default override not applied: %q", p.Colors.LaneDefault)
	}
}

func TestLoadVisualConfig_RejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"negative_radius.json":  `{"query_radius_meters": -1}`,
		"threshold_above1.json": `{"label_threshold": 1.5}`,
		"zero_window.json":      `{"ego_trajectory_length": 0}`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := LoadVisualConfig(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadVisualConfig_RejectsNonJSONExtension(t *testing.T) {
	if _, err := LoadVisualConfig("vis.toml"); err == nil {
		t.Fatal("expected error for non-json extension")
	}
}
