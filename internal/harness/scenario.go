package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/thecodizt/graph-server/internal/schema"
)

// Scenario defines one conformance scenario: a schema, population targets,
// an operation budget, deterministic inputs, and assertions over the
// resulting log and snapshot.
type Scenario struct {
	// Name uniquely identifies this scenario (and its golden file).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema is the inline node/edge type declaration set.
	Schema schema.Raw `yaml:"schema"`

	// NodesPerType maps node type name -> desired instance count.
	NodesPerType map[string]int `yaml:"nodes_per_type"`

	// NumUpdates is the total operation budget for the run.
	NumUpdates int `yaml:"num_updates"`

	// Seed feeds the run's random source. Runs with equal scenarios are
	// byte-identical.
	Seed int64 `yaml:"seed"`

	// BatchSize overrides the batch cadence; 0 keeps the engine default.
	BatchSize int `yaml:"batch_size,omitempty"`

	// RunToken is the fixed run token. Empty defaults to
	// "test-run-default" so golden files stay stable.
	RunToken string `yaml:"run_token,omitempty"`

	// ExpectError names the error class the run must fail with.
	// Supported: "exhausted". Empty means the run must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Assertions validate the final log and snapshot.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one property of the run output.
type Assertion struct {
	// Type selects the assertion (see package documentation).
	Type string `yaml:"type"`

	// NodeType is the node type name (node_count).
	NodeType string `yaml:"node_type,omitempty"`

	// EdgeType is the edge type name (edge_count_min).
	EdgeType string `yaml:"edge_type,omitempty"`

	// Count is the expected count (node_count, edge_count_min, log_length).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertNodeCount            = "node_count"
	AssertEdgeCountMin         = "edge_count_min"
	AssertLogLength            = "log_length"
	AssertBatchCadence         = "batch_cadence"
	AssertMonotonicTime        = "monotonic_time"
	AssertReferentialIntegrity = "referential_integrity"
	AssertTypeConformance      = "type_conformance"
	AssertIDUniqueness         = "id_uniqueness"
	AssertEdgeAfterEndpoints   = "edge_after_endpoints"
	AssertReplayMatches        = "replay_matches"
)

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", filepath.Base(path), err)
	}

	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", filepath.Base(path))
	}
	if s.NumUpdates <= 0 {
		return nil, fmt.Errorf("scenario %s: num_updates must be positive", s.Name)
	}
	for _, a := range s.Assertions {
		if !knownAssertionTypes[a.Type] {
			return nil, fmt.Errorf("scenario %s: unknown assertion type %q", s.Name, a.Type)
		}
	}
	return &s, nil
}

// LoadScenarios reads every *.yaml scenario in a directory, sorted by file
// name for deterministic test ordering.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

var knownAssertionTypes = map[string]bool{
	AssertNodeCount:            true,
	AssertEdgeCountMin:         true,
	AssertLogLength:            true,
	AssertBatchCadence:         true,
	AssertMonotonicTime:        true,
	AssertReferentialIntegrity: true,
	AssertTypeConformance:      true,
	AssertIDUniqueness:         true,
	AssertEdgeAfterEndpoints:   true,
	AssertReplayMatches:        true,
}
