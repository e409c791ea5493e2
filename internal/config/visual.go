// Package config loads pipeline configuration from JSON. Fields are
// pointers so a partial file overrides only what it names; Get* accessors
// supply defaults for everything else.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/scene.report/internal/scene/vis"
)

// VisualConfig is the root configuration for scene conversion and rendering.
type VisualConfig struct {
	QueryRadiusMeters     *float64 `json:"query_radius_meters,omitempty"`
	LabelThreshold        *float64 `json:"label_threshold,omitempty"`
	EgoTrajectoryLength   *int     `json:"ego_trajectory_length,omitempty"`
	AgentTrajectoryLength *int     `json:"agent_trajectory_length,omitempty"`
	WithTrajectories      *bool    `json:"with_trajectories,omitempty"`
	EgoRelative           *bool    `json:"ego_relative,omitempty"`

	// Color overrides. Entries merge over the stock palette.
	SignalColors map[string]string `json:"signal_colors,omitempty"`
	LabelColors  map[string]string `json:"label_colors,omitempty"`
	LaneDefault  *string           `json:"lane_default_color,omitempty"`
	AgentDefault *string           `json:"agent_default_color,omitempty"`
}

// EmptyVisualConfig returns a VisualConfig with all fields unset.
func EmptyVisualConfig() *VisualConfig {
	return &VisualConfig{}
}

// LoadVisualConfig loads a VisualConfig from a JSON file. Omitted fields
// keep their defaults, so partial configs are safe.
func LoadVisualConfig(path string) (*VisualConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyVisualConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot work with.
func (c *VisualConfig) Validate() error {
	if c.QueryRadiusMeters != nil && *c.QueryRadiusMeters <= 0 {
		return fmt.Errorf("query_radius_meters must be positive, got %v", *c.QueryRadiusMeters)
	}
	if c.LabelThreshold != nil && (*c.LabelThreshold < 0 || *c.LabelThreshold > 1) {
		return fmt.Errorf("label_threshold must be in [0,1], got %v", *c.LabelThreshold)
	}
	if c.EgoTrajectoryLength != nil && *c.EgoTrajectoryLength < 1 {
		return fmt.Errorf("ego_trajectory_length must be >= 1, got %d", *c.EgoTrajectoryLength)
	}
	if c.AgentTrajectoryLength != nil && *c.AgentTrajectoryLength < 1 {
		return fmt.Errorf("agent_trajectory_length must be >= 1, got %d", *c.AgentTrajectoryLength)
	}
	return nil
}

// GetQueryRadiusMeters returns the configured radius or the default.
func (c *VisualConfig) GetQueryRadiusMeters() float64 {
	if c.QueryRadiusMeters != nil {
		return *c.QueryRadiusMeters
	}
	return vis.DefaultQueryRadiusMeters
}

// GetLabelThreshold returns the configured threshold or the default.
func (c *VisualConfig) GetLabelThreshold() float64 {
	if c.LabelThreshold != nil {
		return *c.LabelThreshold
	}
	return vis.DefaultLabelThreshold
}

// GetEgoTrajectoryLength returns the configured ego window or the default.
func (c *VisualConfig) GetEgoTrajectoryLength() int {
	if c.EgoTrajectoryLength != nil {
		return *c.EgoTrajectoryLength
	}
	return vis.DefaultEgoTrajectoryLength
}

// GetAgentTrajectoryLength returns the configured agent window or the default.
func (c *VisualConfig) GetAgentTrajectoryLength() int {
	if c.AgentTrajectoryLength != nil {
		return *c.AgentTrajectoryLength
	}
	return vis.DefaultAgentTrajectoryLength
}

// GetWithTrajectories returns the trajectory toggle, default true.
func (c *VisualConfig) GetWithTrajectories() bool {
	if c.WithTrajectories != nil {
		return *c.WithTrajectories
	}
	return true
}

// GetEgoRelative returns the ego-relative toggle, default false (world frame).
func (c *VisualConfig) GetEgoRelative() bool {
	if c.EgoRelative != nil {
		return *c.EgoRelative
	}
	return false
}

// Pipeline materializes the pipeline configuration, merging color overrides
// over the stock palette.
func (c *VisualConfig) Pipeline() vis.Config {
	cfg := vis.DefaultConfig()
	cfg.QueryRadiusMeters = c.GetQueryRadiusMeters()
	cfg.LabelThreshold = c.GetLabelThreshold()
	cfg.EgoTrajectoryLength = c.GetEgoTrajectoryLength()
	cfg.AgentTrajectoryLength = c.GetAgentTrajectoryLength()
	cfg.WithTrajectories = c.GetWithTrajectories()
	cfg.EgoRelative = c.GetEgoRelative()

	for name, color := range c.SignalColors {
		cfg.Colors.Signal[name] = color
	}
	for label, color := range c.LabelColors {
		cfg.Colors.Label[label] = color
	}
	if c.LaneDefault != nil {
		cfg.Colors.LaneDefault = *c.LaneDefault
	}
	if c.AgentDefault != nil {
		cfg.Colors.AgentDefault = *c.AgentDefault
	}
	return cfg
}
