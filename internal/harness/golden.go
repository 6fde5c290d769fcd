package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/berthd/berth/internal/interp"
	"github.com/berthd/berth/internal/ledger"
)

// TraceSnapshot captures a scenario execution for golden comparison.
// Serialized with canonical JSON so the bytes are deterministic.
type TraceSnapshot struct {
	ScenarioName string
	Trace        []interp.TraceEvent
	Bookings     []ledger.Booking
}

// toCanonicalMap converts the snapshot to a map[string]any for canonical
// JSON serialization, since ledger.MarshalCanonical only handles plain
// values.
//
// The booking id is a content hash and is left out: ledger tests pin the
// hashing, the golden pins the passenger-visible fields.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		traceList[i] = map[string]any{
			"seq":    event.Seq,
			"op":     event.Op,
			"detail": event.Detail,
		}
	}

	bookingList := make([]any, len(s.Bookings))
	for i, b := range s.Bookings {
		seats := make([]any, len(b.Seats))
		for j, n := range b.Seats {
			seats[j] = int(n)
		}
		bookingList[i] = map[string]any{
			"ref":      b.Ref,
			"train_id": string(b.TrainID),
			"coach_id": string(b.CoachID),
			"seats":    seats,
			"seq":      b.Seq,
		}
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
		"bookings":      bookingList,
	}
}

// RunWithGolden executes a scenario and compares the trace and journal
// against a golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if scenario execution fails. Test failure (via goldie)
// occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-run result against a golden file.
//
// Parameters:
//   - t: testing.T instance for test assertions
//   - scenarioName: name used for the golden file (without extension)
//   - result: the result from running a scenario
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		Trace:        result.Trace,
		Bookings:     result.Bookings,
	}

	snapshotJSON, err := ledger.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, snapshotJSON)

	return nil
}
