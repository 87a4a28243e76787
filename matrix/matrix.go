// Package matrix defines the benchmark configuration matrix: every
// combination of scene size, mutation scenario, and cache mode that the
// orchestrator runs against the on-device benchmark app.
package matrix

import (
	"fmt"
	"strings"
)

// Scenario selects how the benchmark app mutates the scene between frames.
type Scenario string

const (
	ScenarioStatic       Scenario = "STATIC"
	ScenarioFullMutation Scenario = "FULL_MUTATION"
)

// Config is one named point in the benchmark matrix. At most one of
// PreparedCache and DrawCache may be set; both false is the baseline.
type Config struct {
	Name          string   `yaml:"name"`
	SceneSize     int      `yaml:"scene_size"`
	Scenario      Scenario `yaml:"scenario"`
	PreparedCache bool     `yaml:"prepared_cache"`
	DrawCache     bool     `yaml:"draw_cache"`
}

// cacheMode is one of the three cache configurations per size/scenario pair.
type cacheMode struct {
	label    string
	prepared bool
	draw     bool
}

var cacheModes = []cacheMode{
	{label: "baseline"},
	{label: "preparedcache", prepared: true},
	{label: "drawcache", draw: true},
}

// Default returns the full 18-entry matrix in run order: size-major,
// STATIC before FULL_MUTATION, baseline/preparedcache/drawcache within
// each pair.
func Default() []Config {
	sizes := []int{100, 500, 1000}
	scenarios := []Scenario{ScenarioStatic, ScenarioFullMutation}

	configs := make([]Config, 0, len(sizes)*len(scenarios)*len(cacheModes))

	for _, size := range sizes {
		for _, scenario := range scenarios {
			for _, mode := range cacheModes {
				configs = append(configs, Config{
					Name: fmt.Sprintf("%s_%s_%d",
						mode.label, scenarioLabel(scenario), size),
					SceneSize:     size,
					Scenario:      scenario,
					PreparedCache: mode.prepared,
					DrawCache:     mode.draw,
				})
			}
		}
	}

	return configs
}

func scenarioLabel(s Scenario) string {
	if s == ScenarioFullMutation {
		return "mutation"
	}

	return strings.ToLower(string(s))
}

// Validate checks that the matrix is non-empty and every entry is
// well-formed: positive scene size, known scenario, a unique name, and
// never both cache flags set.
func Validate(configs []Config) error {
	if len(configs) == 0 {
		return fmt.Errorf("matrix has no configurations")
	}

	seen := make(map[string]struct{}, len(configs))

	for i, cfg := range configs {
		if cfg.Name == "" {
			return fmt.Errorf("configuration at index %d has no name", i)
		}

		if _, dup := seen[cfg.Name]; dup {
			return fmt.Errorf("duplicate configuration name %q", cfg.Name)
		}

		seen[cfg.Name] = struct{}{}

		if cfg.SceneSize <= 0 {
			return fmt.Errorf(
				"configuration %q: scene size must be positive, got %d",
				cfg.Name, cfg.SceneSize,
			)
		}

		switch cfg.Scenario {
		case ScenarioStatic, ScenarioFullMutation:
		default:
			return fmt.Errorf(
				"configuration %q: unknown scenario %q",
				cfg.Name, cfg.Scenario,
			)
		}

		if cfg.PreparedCache && cfg.DrawCache {
			return fmt.Errorf(
				"configuration %q: prepared_cache and draw_cache are mutually exclusive",
				cfg.Name,
			)
		}
	}

	return nil
}
