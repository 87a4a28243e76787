package matrix

import (
	"strings"
	"testing"
)

func TestDefaultSize(t *testing.T) {
	configs := Default()
	if len(configs) != 18 {
		t.Fatalf("len(Default()) = %d, want 18", len(configs))
	}
}

func TestDefaultNamesUnique(t *testing.T) {
	seen := make(map[string]struct{})

	for _, cfg := range Default() {
		if _, dup := seen[cfg.Name]; dup {
			t.Errorf("duplicate name %q", cfg.Name)
		}

		seen[cfg.Name] = struct{}{}
	}
}

func TestDefaultCacheFlagsExclusive(t *testing.T) {
	for _, cfg := range Default() {
		if cfg.PreparedCache && cfg.DrawCache {
			t.Errorf("%s: both cache flags set", cfg.Name)
		}
	}
}

func TestDefaultOrder(t *testing.T) {
	configs := Default()

	wantNames := []string{
		"baseline_static_100",
		"preparedcache_static_100",
		"drawcache_static_100",
		"baseline_mutation_100",
		"preparedcache_mutation_100",
		"drawcache_mutation_100",
	}

	for i, want := range wantNames {
		if configs[i].Name != want {
			t.Errorf("configs[%d].Name = %q, want %q", i, configs[i].Name, want)
		}
	}

	last := configs[len(configs)-1]
	if last.Name != "drawcache_mutation_1000" {
		t.Errorf("last name = %q, want drawcache_mutation_1000", last.Name)
	}
	if last.SceneSize != 1000 || last.Scenario != ScenarioFullMutation || !last.DrawCache {
		t.Errorf("last config = %+v, want 1000/FULL_MUTATION/drawcache", last)
	}
}

func TestDefaultCoverage(t *testing.T) {
	sizeCount := make(map[int]int)
	scenarioCount := make(map[Scenario]int)
	baseline := 0

	for _, cfg := range Default() {
		sizeCount[cfg.SceneSize]++
		scenarioCount[cfg.Scenario]++

		if !cfg.PreparedCache && !cfg.DrawCache {
			baseline++
		}

		if !strings.Contains(cfg.Name, "cache") && !strings.HasPrefix(cfg.Name, "baseline") {
			t.Errorf("unexpected name %q", cfg.Name)
		}
	}

	for _, size := range []int{100, 500, 1000} {
		if sizeCount[size] != 6 {
			t.Errorf("size %d appears %d times, want 6", size, sizeCount[size])
		}
	}

	for _, scenario := range []Scenario{ScenarioStatic, ScenarioFullMutation} {
		if scenarioCount[scenario] != 9 {
			t.Errorf("scenario %s appears %d times, want 9",
				scenario, scenarioCount[scenario])
		}
	}

	if baseline != 6 {
		t.Errorf("baseline configs = %d, want 6", baseline)
	}
}

func TestValidateDefault(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("Validate(Default()) failed: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	valid := Config{
		Name:      "baseline_static_100",
		SceneSize: 100,
		Scenario:  ScenarioStatic,
	}

	tests := []struct {
		name    string
		configs []Config
		wantErr string
	}{
		{
			name:    "empty",
			configs: nil,
			wantErr: "no configurations",
		},
		{
			name: "missing name",
			configs: []Config{
				{SceneSize: 100, Scenario: ScenarioStatic},
			},
			wantErr: "no name",
		},
		{
			name:    "duplicate name",
			configs: []Config{valid, valid},
			wantErr: "duplicate",
		},
		{
			name: "zero size",
			configs: []Config{
				{Name: "a", SceneSize: 0, Scenario: ScenarioStatic},
			},
			wantErr: "positive",
		},
		{
			name: "unknown scenario",
			configs: []Config{
				{Name: "a", SceneSize: 100, Scenario: "INTERACTIVE"},
			},
			wantErr: "unknown scenario",
		},
		{
			name: "both cache flags",
			configs: []Config{
				{
					Name:          "a",
					SceneSize:     100,
					Scenario:      ScenarioStatic,
					PreparedCache: true,
					DrawCache:     true,
				},
			},
			wantErr: "mutually exclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.configs)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}
