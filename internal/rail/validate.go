package rail

import "fmt"

// ValidationError reports one catalog consistency violation with the field
// path that produced it.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a train against the catalog rules.
// Returns all errors (not fail-fast) so a bad catalog is reported whole.
//
// Rules:
//   - train id non-empty
//   - at least one coach
//   - every coach has a positive seat count
//   - available seats are a subset of 1..=seats
func (t Train) Validate() []ValidationError {
	var errs []ValidationError

	if t.ID == "" {
		errs = append(errs, ValidationError{
			Field:   "id",
			Message: "train id must not be empty",
		})
	}

	if len(t.Coaches) == 0 {
		errs = append(errs, ValidationError{
			Field:   fmt.Sprintf("train[%s]", t.ID),
			Message: "train must have at least one coach",
		})
	}

	for _, coachID := range t.CoachIDs() {
		c := t.Coaches[coachID]
		field := fmt.Sprintf("train[%s].coach[%s]", t.ID, coachID)

		if c.Seats <= 0 {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("seat count must be positive, got %d", c.Seats),
			})
			continue
		}

		for _, n := range c.Available.Sorted() {
			if n < 1 || int(n) > c.Seats {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("available seat %d outside 1..=%d", n, c.Seats),
				})
			}
		}
	}

	return errs
}

// ValidateCatalog checks a full catalog: every train individually plus
// train-id uniqueness across the set.
func ValidateCatalog(trains []Train) []ValidationError {
	var errs []ValidationError

	seen := make(map[TrainID]bool, len(trains))
	for i, t := range trains {
		if seen[t.ID] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("train[%d]", i),
				Message: fmt.Sprintf("duplicate train id %q", t.ID),
			})
		}
		seen[t.ID] = true

		errs = append(errs, t.Validate()...)
	}

	return errs
}
