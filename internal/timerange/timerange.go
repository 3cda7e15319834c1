// Package timerange holds the start/end timestamp rules applied to annotations.
package timerange

import "time"

// Field is the column that time range failures are reported against.
const Field = "start_dttm"

// Message keys, also used as the English catalog entries.
const (
	MsgBoundRequired  = "annotation start time or end time is required."
	MsgEndBeforeStart = "Annotation end time must be no earlier than start time."
)

// Code identifies the outcome of Check.
type Code int

const (
	OK Code = iota
	MissingBound
	EndBeforeStart
)

// Result is the outcome of validating a start/end pair.
type Result struct {
	Code Code
}

// Valid reports whether the pair passed validation.
func (r Result) Valid() bool {
	return r.Code == OK
}

// Field returns the column the failure is attached to, or "" when valid.
func (r Result) Field() string {
	if r.Valid() {
		return ""
	}
	return Field
}

// Message returns the untranslated message key for a failure, or "" when valid.
func (r Result) Message() string {
	switch r.Code {
	case MissingBound:
		return MsgBoundRequired
	case EndBeforeStart:
		return MsgEndBeforeStart
	default:
		return ""
	}
}

// Check validates a pair of optional timestamps. At least one must be set,
// and when both are set end must not precede start.
func Check(start, end *time.Time) Result {
	switch {
	case start == nil && end == nil:
		return Result{Code: MissingBound}
	case start != nil && end != nil && end.Before(*start):
		return Result{Code: EndBeforeStart}
	default:
		return Result{Code: OK}
	}
}

// Fill copies whichever bound is set onto the missing one. Pairs that are
// fully set (or fully empty) are returned unchanged.
func Fill(start, end *time.Time) (*time.Time, *time.Time) {
	if start == nil {
		return end, end
	}
	if end == nil {
		return start, start
	}
	return start, end
}
