package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"gopkg.in/yaml.v3"
)

// Scenario is a named set of sources and their reference positions
type Scenario struct {
	Name    string    `yaml:"name"`
	Sources []RefData `yaml:"sources"`
	// Order lists the keys in expected ordinal order after putting every reference
	Order []string `yaml:"order"`
}

// LoadScenarios reads testutil/testdata/scenarios.yaml
func LoadScenarios(t *testing.T) map[string]Scenario {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to get runtime caller info")
	}
	path := filepath.Join(filepath.Dir(filename), "testdata", "scenarios.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", path, err)
	}

	var list []Scenario
	if err := yaml.Unmarshal(data, &list); err != nil {
		t.Fatalf("failed to parse fixture %s: %v", path, err)
	}

	out := make(map[string]Scenario, len(list))
	for _, sc := range list {
		out[sc.Name] = sc
	}
	return out
}

// LoadScenario returns one scenario or fails the test
func LoadScenario(t *testing.T, name string) Scenario {
	t.Helper()
	sc, ok := LoadScenarios(t)[name]
	if !ok {
		t.Fatalf("scenario %q not found in fixture", name)
	}
	return sc
}
