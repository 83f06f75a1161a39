package attendance

import (
	"fmt"
	"strings"

	"rollcall/internal/apperr"
)

// Status is the attendance state of a student on a given date.
type Status string

const (
	Present Status = "Present"
	Absent  Status = "Absent"
)

// Legacy single-letter codes used in the attendance table and by older
// clients. The enum is encoded to these only at the persistence and export
// boundaries.
const (
	codePresent = "P"
	codeAbsent  = "A"
)

// ParseStatus accepts the full names and the legacy codes, case-insensitively.
func ParseStatus(raw string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "present", "p":
		return Present, nil
	case "absent", "a":
		return Absent, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", apperr.ErrValidation, raw)
	}
}

func (s Status) code() string {
	if s == Absent {
		return codeAbsent
	}
	return codePresent
}

func statusFromCode(code string) Status {
	if code == codeAbsent {
		return Absent
	}
	return Present
}

// Filter narrows report exports by status.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterPresent Filter = "present"
	FilterAbsent  Filter = "absent"
)

// ParseFilter treats empty input as "all".
func ParseFilter(raw string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return FilterAll, nil
	case "present":
		return FilterPresent, nil
	case "absent":
		return FilterAbsent, nil
	default:
		return "", fmt.Errorf("%w: unknown status filter %q", apperr.ErrValidation, raw)
	}
}
