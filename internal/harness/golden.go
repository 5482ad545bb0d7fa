package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/thecodizt/graph-server/internal/oplog"
)

// RunWithGolden executes a scenario and compares its canonical operation log
// against testdata/golden/{scenario.Name}.golden.
//
// The comparison covers the full log byte for byte, so the golden file pins
// operation order, timestamps, ids, property values, and batch boundaries at
// once. To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Assertion failures from the scenario fail the test as well; a golden match
// with failing assertions would hide a regression the scenario author cared
// about.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, failure := range result.Failures {
		t.Error(failure)
	}

	return AssertGolden(t, scenario.Name, result.Log)
}

// AssertGolden compares an operation log against a named golden file using
// the canonical encoding. Useful when a test has already run a scenario and
// only the comparison remains.
func AssertGolden(t *testing.T, name string, log oplog.Log) error {
	t.Helper()

	data, err := oplog.MarshalCanonical(log)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
