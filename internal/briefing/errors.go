package briefing

import (
	"errors"
)

// Error kinds returned by the summary pipeline. Callers distinguish these
// with errors.Is; the HTTP and scheduler boundaries convert them to
// user-facing strings.
var (
	// ErrInvalidArgument indicates a malformed user ID, date, tone, or filter.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoActivity indicates the date range held no activity records at all.
	// The formatter substitutes the canned example report for this case.
	ErrNoActivity = errors.New("no activity in range")

	// ErrNoMatch indicates activities exist but none pass the selected filter.
	// Distinct from ErrNoActivity: the formatter returns a short explanatory
	// string instead of the example report.
	ErrNoMatch = errors.New("no activity matching filter")
)
