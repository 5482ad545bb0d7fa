package harness

import (
	"context"
	"fmt"

	"github.com/thecodizt/graph-server/internal/engine"
	"github.com/thecodizt/graph-server/internal/oplog"
	"github.com/thecodizt/graph-server/internal/registry"
	"github.com/thecodizt/graph-server/internal/schema"
	"github.com/thecodizt/graph-server/internal/testutil"
)

// Result is the outcome of one scenario execution.
//
// Failures collects assertion failures as human-readable messages; an empty
// slice means every assertion passed. Scenario-level problems (bad schema,
// a run error the scenario did not expect) are returned as errors from Run
// instead.
type Result struct {
	RunToken string
	Log      oplog.Log
	Snapshot registry.Snapshot

	// Schema is the loaded scenario schema, kept for assertion evaluation.
	Schema *schema.Schema

	// Failures lists assertion failure messages in assertion order.
	Failures []string
}

// Passed reports whether every assertion held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// Run executes one scenario end to end: load the schema, drive a full
// simulation with a fixed run token, then evaluate the scenario's
// assertions against the log and snapshot.
//
// Each scenario runs against a fresh registry, so scenarios cannot
// interfere with each other. All randomness derives from the scenario
// seed, so repeated runs are byte-identical.
func Run(scenario *Scenario) (*Result, error) {
	s, err := schema.Load(scenario.Schema)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: load schema: %w", scenario.Name, err)
	}

	token := scenario.RunToken
	if token == "" {
		token = "test-run-default"
	}
	tokens := testutil.NewFixedTokens(token)

	opts := []engine.Option{}
	if scenario.BatchSize > 0 {
		opts = append(opts, engine.WithBatchSize(scenario.BatchSize))
	}
	driver := engine.New(s, tokens, opts...)

	run, runErr := driver.Run(context.Background(), scenario.NodesPerType, scenario.NumUpdates, scenario.Seed)
	if err := checkExpectedError(scenario, runErr); err != nil {
		return nil, err
	}

	result := &Result{
		RunToken: run.RunToken,
		Log:      run.Log,
		Snapshot: run.Snapshot,
		Schema:   s,
	}
	result.Failures = evaluateAssertions(scenario, result)
	return result, nil
}

// checkExpectedError reconciles the run error with the scenario's
// expect_error clause.
func checkExpectedError(scenario *Scenario, runErr error) error {
	switch scenario.ExpectError {
	case "":
		if runErr != nil {
			return fmt.Errorf("scenario %s: run failed: %w", scenario.Name, runErr)
		}
		return nil
	case "exhausted":
		if runErr == nil {
			return fmt.Errorf("scenario %s: expected exhaustion, run succeeded", scenario.Name)
		}
		if !engine.IsExhausted(runErr) {
			return fmt.Errorf("scenario %s: expected exhaustion, got: %w", scenario.Name, runErr)
		}
		return nil
	default:
		return fmt.Errorf("scenario %s: unsupported expect_error %q", scenario.Name, scenario.ExpectError)
	}
}
