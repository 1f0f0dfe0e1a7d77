package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("asset not found")

	// ErrInvalidAction is returned for actions or target statuses outside the lifecycle.
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidSeed wraps every seed validation failure.
	ErrInvalidSeed = errors.New("invalid seed data")
)

// NotFoundError reports an action on an id that is unknown or already processed.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("pending asset %q not found", e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidateSeed checks the construction-time invariants of a seed set:
// non-empty unique ids, a type label, and both scores in [MinScore, MaxScore].
// All problems are reported together.
func ValidateSeed(assets []Asset) error {
	var errs []error
	seen := make(map[string]int, len(assets))
	for i, a := range assets {
		if a.ID == "" {
			errs = append(errs, fmt.Errorf("asset #%d: empty id", i))
		} else if j, dup := seen[a.ID]; dup {
			errs = append(errs, fmt.Errorf("asset #%d: duplicate id %q (first at #%d)", i, a.ID, j))
		} else {
			seen[a.ID] = i
		}
		if a.Type == "" {
			errs = append(errs, fmt.Errorf("asset %q: empty type", a.ID))
		}
		if a.VisualScore < MinScore || a.VisualScore > MaxScore {
			errs = append(errs, fmt.Errorf("asset %q: visual_score %d out of range [%d,%d]", a.ID, a.VisualScore, MinScore, MaxScore))
		}
		if a.ComplianceScore < MinScore || a.ComplianceScore > MaxScore {
			errs = append(errs, fmt.Errorf("asset %q: compliance_score %d out of range [%d,%d]", a.ID, a.ComplianceScore, MinScore, MaxScore))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSeed, errors.Join(errs...))
}
