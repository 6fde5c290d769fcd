// Package harness runs reservation scenarios as executable contract tests.
//
// A scenario loads a CUE catalog, plays an ordered list of reservation
// requests through the executor against a fresh seat store, and checks the
// outcomes and the instruction trace.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	catalog: path/to/catalog.cue
//	requests:
//	  - seats: 2
//	    date: "2026-09-14"
//	    expect:
//	      booked:
//	        train: T1
//	        coach: A
//	        seats: [1, 2]
//	  - seats: 20
//	    expect:
//	      none: true
//	assertions:
//	  - type: trace_order
//	    ops: [search-trains, find-train, place-reservation]
//	  - type: trace_count
//	    op: place-reservation
//	    count: 1
//
// The catalog path is resolved relative to the scenario file. A request
// without a date travels on the catalog's date.
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - trace_contains: an instruction with the given op (and detail
//     substring, if set) appears in the trace
//   - trace_order: ops appear in the given order, gaps allowed
//   - trace_count: the op appears exactly N times
//   - ledger_count: the scenario journaled exactly N bookings
//
// # Deterministic Testing
//
// Each scenario runs against:
//
//   - A fresh seat store built from its catalog
//   - A fresh executor and trace recorder (seq starts at 1)
//   - An in-memory booking journal with numbered refs
//     (testutil.SequentialRefGenerator) and booking seqs from a
//     deterministic clock (testutil.DeterministicClock)
//
// This ensures identical traces and journals across runs for golden file
// comparison.
//
// # Usage
//
// Load and run a scenario:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/first-booking.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
