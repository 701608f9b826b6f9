package prop

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ErrorKind classifies why a property fetch failed.
// Kinds are the unit of error equality: two failed cells compare equal iff
// their kinds are equal, regardless of message text. Message text is
// diagnostic only.
type ErrorKind int

const (
	// KindNotFound means the entity or property does not exist on the host.
	KindNotFound ErrorKind = iota + 1
	// KindUnavailable is a transient failure, e.g. a value the host has not
	// populated yet right after a create or move.
	KindUnavailable
	// KindInvalidData means the host returned data outside the semantic
	// type's domain, e.g. malformed text encoding.
	KindInvalidData
	// KindPermissionDenied means the host denies this viewer access to the
	// property.
	KindPermissionDenied
)

// String returns the stable wire name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	case KindInvalidData:
		return "invalid_data"
	case KindPermissionDenied:
		return "permission_denied"
	default:
		return fmt.Sprintf("error_kind(%d)", int(k))
	}
}

// ParseErrorKind maps a wire name back to an ErrorKind.
// Used by the scenario harness to inject failures from YAML fixtures.
func ParseErrorKind(s string) (ErrorKind, error) {
	switch s {
	case "not_found":
		return KindNotFound, nil
	case "unavailable":
		return KindUnavailable, nil
	case "invalid_data":
		return KindInvalidData, nil
	case "permission_denied":
		return KindPermissionDenied, nil
	default:
		return 0, fmt.Errorf("unknown error kind %q", s)
	}
}

// Result is the value slot of a property cell: either an Ok value of one of
// the closed semantic types, or a failure classified by ErrorKind.
// A Result is immutable after construction.
type Result struct {
	val  Value
	kind ErrorKind
	msg  string
}

// Ok wraps a successfully fetched value.
func Ok(v Value) Result {
	return Result{val: v}
}

// Fail wraps a classified fetch failure. The message is diagnostic only and
// excluded from equality.
func Fail(kind ErrorKind, msg string) Result {
	return Result{kind: kind, msg: msg}
}

// IsOk reports whether the result holds a value.
func (r Result) IsOk() bool { return r.val != nil }

// Value returns the held value, or nil if the result is a failure.
func (r Result) Value() Value { return r.val }

// Kind returns the failure kind. Zero when the result is Ok.
func (r Result) Kind() ErrorKind { return r.kind }

// Message returns the diagnostic failure message. Empty when Ok.
func (r Result) Message() string { return r.msg }

// Equal implements the change-detection equality rule:
// Ok == Ok iff the values are equal by value; Err == Err iff the error kinds
// are equal (message text does not participate); Ok never equals Err.
func (r Result) Equal(o Result) bool {
	if r.IsOk() != o.IsOk() {
		return false
	}
	if r.IsOk() {
		return Equal(r.val, o.val)
	}
	return r.kind == o.kind
}

// Render returns a stable textual form for change listings and traces:
// "ok:<value>" or "err:<kind>".
func (r Result) Render() string {
	if r.IsOk() {
		return "ok:" + r.val.Render()
	}
	return "err:" + r.kind.String()
}

// StringResult validates raw host text and wraps it as a string value.
// Malformed UTF-8 is rejected as KindInvalidData; well-formed text is
// NFC-normalized so equal-looking strings compare equal.
func StringResult(raw string) Result {
	if !utf8.ValidString(raw) {
		return Fail(KindInvalidData, "malformed UTF-8 in host string")
	}
	return Ok(String(norm.NFC.String(raw)))
}
