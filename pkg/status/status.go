// Package status provides plugin states, thresholds and exit codes.
package status

import "fmt"

// Status is the result state of a check, ordered by severity.
type Status int

const (
	OK Status = iota
	Warning
	Critical
	Unknown
)

// String returns the state word printed in plugin output.
func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case Warning:
		return "WARNING"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ExitCode returns the process exit code for the state.
func (s Status) ExitCode() int {
	switch s {
	case OK, Warning, Critical:
		return int(s)
	default:
		return int(Unknown)
	}
}

// Thresholds defines warning and critical thresholds for CPU usage percentage.
type Thresholds struct {
	Warning  int
	Critical int
}

// DefaultThresholds returns the default threshold values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Warning:  50,
		Critical: 75,
	}
}

// Validate checks both thresholds lie in [0, 100] and are ordered.
func (t Thresholds) Validate() error {
	if t.Warning < 0 || t.Warning > 100 || t.Critical < 0 || t.Critical > 100 {
		return NewUsageError("percentages must be between 0 and 100 (warning=%d, critical=%d)", t.Warning, t.Critical)
	}
	if t.Warning > t.Critical {
		return NewUsageError("critical level (%d) must not be lower than warning level (%d)", t.Critical, t.Warning)
	}
	return nil
}

// Evaluate returns the state for a usage percentage. Both boundaries are inclusive.
func (t Thresholds) Evaluate(percent float64) Status {
	if percent >= float64(t.Critical) {
		return Critical
	}
	if percent >= float64(t.Warning) {
		return Warning
	}
	return OK
}

// UsageError reports bad or missing arguments.
type UsageError struct {
	msg string
}

// NewUsageError formats a UsageError.
func NewUsageError(format string, args ...any) *UsageError {
	return &UsageError{msg: fmt.Sprintf(format, args...)}
}

func (e *UsageError) Error() string {
	return e.msg
}
