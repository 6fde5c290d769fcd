package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/berthd/berth/internal/interp"
)

// Scenario defines a reservation test scenario.
// Scenarios validate engine behavior by playing a sequence of requests
// and asserting on the outcomes and the resulting instruction trace.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file and
	// the default ref prefix.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalog is the path to the CUE catalog (file or directory).
	// Relative paths are resolved against the scenario file location.
	Catalog string `yaml:"catalog"`

	// Requests contains the ordered reservation requests to play.
	// Each request can specify an expected outcome.
	Requests []Request `yaml:"requests"`

	// Assertions validate the final trace and journal.
	// Supported types: trace_contains, trace_order, trace_count, ledger_count.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// RefPrefix is an optional prefix for the numbered booking refs.
	// If empty, the scenario name is used, so refs read "name-0001".
	RefPrefix string `yaml:"ref_prefix,omitempty"`
}

// Request is one reservation request in the scenario flow.
type Request struct {
	// Seats is the number of seats to reserve. Must be at least 1.
	Seats int `yaml:"seats"`

	// Date is the travel date. If empty, the catalog's date is used.
	Date string `yaml:"date,omitempty"`

	// Expect specifies the expected outcome.
	// If nil, any outcome is accepted.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of one request.
// Exactly one of Booked or None must be set.
type ExpectClause struct {
	// Booked expects a committed reservation.
	Booked *BookedExpectation `yaml:"booked,omitempty"`

	// None expects the request to end without a booking.
	None bool `yaml:"none,omitempty"`
}

// BookedExpectation pins the committed reservation's placement.
type BookedExpectation struct {
	// Train is the expected train id.
	Train string `yaml:"train"`

	// Coach is the expected coach id.
	Coach string `yaml:"coach"`

	// Seats are the expected seat numbers, ascending.
	// If empty, any seats on the expected coach are accepted.
	Seats []int `yaml:"seats,omitempty"`
}

// Assertion validates the trace or the booking journal.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": check an instruction appears in the trace
	// - "trace_order": check ops appear in order
	// - "trace_count": check an op appears exactly N times
	// - "ledger_count": check the journal holds exactly N bookings
	Type string `yaml:"type"`

	// Op is the instruction op (used by trace_contains, trace_count).
	Op string `yaml:"op,omitempty"`

	// Detail is an optional substring the instruction detail must contain
	// (used by trace_contains).
	Detail string `yaml:"detail,omitempty"`

	// Ops is the expected op order (used by trace_order).
	Ops []string `yaml:"ops,omitempty"`

	// Count is the expected number of occurrences
	// (used by trace_count and ledger_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertLedgerCount   = "ledger_count"
)

// knownOps is the closed instruction vocabulary assertions may reference.
var knownOps = map[string]bool{
	interp.OpSearch:  true,
	interp.OpLookup:  true,
	interp.OpReserve: true,
	interp.OpLog:     true,
}

// LoadScenario reads and parses a scenario YAML file.
// The catalog path is resolved relative to the scenario file location.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like
	// "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the catalog path relative to the scenario file BEFORE
	// validation, so the existence check looks in the right place.
	if scenario.Catalog != "" && !filepath.IsAbs(scenario.Catalog) {
		scenario.Catalog = filepath.Join(filepath.Dir(path), scenario.Catalog)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Catalog == "" {
		return fmt.Errorf("catalog is required")
	}
	if _, err := os.Stat(s.Catalog); os.IsNotExist(err) {
		return fmt.Errorf("catalog not found: %s", s.Catalog)
	}

	if len(s.Requests) == 0 {
		return fmt.Errorf("requests list is required and must be non-empty")
	}

	for i, req := range s.Requests {
		if req.Seats < 1 {
			return fmt.Errorf("requests[%d]: seats must be at least 1, got %d", i, req.Seats)
		}
		if req.Expect != nil {
			if err := validateExpect(i, req.Expect); err != nil {
				return err
			}
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateExpect checks that an expect clause names exactly one outcome.
func validateExpect(index int, e *ExpectClause) error {
	if e.Booked != nil && e.None {
		return fmt.Errorf("requests[%d].expect: booked and none are mutually exclusive", index)
	}
	if e.Booked == nil && !e.None {
		return fmt.Errorf("requests[%d].expect: either booked or none is required", index)
	}
	if e.Booked != nil {
		if e.Booked.Train == "" {
			return fmt.Errorf("requests[%d].expect.booked: train is required", index)
		}
		if e.Booked.Coach == "" {
			return fmt.Errorf("requests[%d].expect.booked: coach is required", index)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_contains", index)
		}
		if !knownOps[a.Op] {
			return fmt.Errorf("assertions[%d]: unknown op %q", index, a.Op)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
		for _, op := range a.Ops {
			if !knownOps[op] {
				return fmt.Errorf("assertions[%d]: unknown op %q", index, op)
			}
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if !knownOps[a.Op] {
			return fmt.Errorf("assertions[%d]: unknown op %q", index, a.Op)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertLedgerCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for ledger_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
