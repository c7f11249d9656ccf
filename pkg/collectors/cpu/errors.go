package cpu

import (
	"errors"
	"fmt"
)

// ErrNoProgress is returned by Diff when the counters did not advance
// between the two samples, leaving no time base to divide by.
var ErrNoProgress = errors.New("cpu counters did not advance between samples")

// NotFoundError reports that no counter table line carries the requested name.
type NotFoundError struct {
	Name string
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("cpu %q not found in %s", e.Name, e.Path)
}

// ParseError reports a malformed counter table line.
type ParseError struct {
	Name   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot parse counters for %q: %s: %v", e.Name, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot parse counters for %q: %s", e.Name, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CounterResetError reports a counter that went backwards between samples,
// typically after a reboot or when the cache belongs to another host.
type CounterResetError struct {
	Counter string
	Initial uint64
	Final   uint64
}

func (e *CounterResetError) Error() string {
	return fmt.Sprintf("%s counter went backwards (%d -> %d)", e.Counter, e.Initial, e.Final)
}
