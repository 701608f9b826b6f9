package prop

import (
	"fmt"
	"time"
)

// Type identifies one of the closed set of semantic value types.
type Type int

const (
	// TypeInt is a signed integer property (counts, ids, quotas).
	TypeInt Type = iota + 1
	// TypeString is a UTF-8 text property, NFC-normalized on construction.
	TypeString
	// TypeBool is a flag property.
	TypeBool
	// TypeEnum is a named code from a small per-property set.
	TypeEnum
	// TypeDuration is an elapsed-time property (uptime, delays, intervals).
	TypeDuration
	// TypeTimestamp is a point-in-time property, always UTC.
	TypeTimestamp
)

// String returns the contract name of the type as used in descriptor tables.
func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeEnum:
		return "enum"
	case TypeDuration:
		return "duration"
	case TypeTimestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Value is a sealed interface over the closed semantic type set.
// Only Int, String, Bool, Enum, Duration, and Timestamp implement it.
type Value interface {
	value() // Sealed - only these types implement it

	// Type reports which semantic type this value carries.
	Type() Type

	// Render returns a stable human-readable form, used for change
	// listings and golden traces. Must be deterministic.
	Render() string
}

// Int is a signed integer value. Always int64, never float.
type Int int64

func (Int) value()         {}
func (Int) Type() Type     { return TypeInt }
func (v Int) Render() string { return fmt.Sprintf("%d", int64(v)) }

// String is a text value. Construct via StringResult so malformed UTF-8 is
// rejected and well-formed text is NFC-normalized.
type String string

func (String) value()         {}
func (String) Type() Type     { return TypeString }
func (v String) Render() string { return string(v) }

// Bool is a flag value.
type Bool bool

func (Bool) value()     {}
func (Bool) Type() Type { return TypeBool }
func (v Bool) Render() string {
	if v {
		return "true"
	}
	return "false"
}

// Enum is a code drawn from a named set (e.g. set "talk_status", code 1).
// Two enums are equal iff both set and code are equal.
type Enum struct {
	Set  string
	Code int64
}

func (Enum) value()         {}
func (Enum) Type() Type     { return TypeEnum }
func (v Enum) Render() string { return fmt.Sprintf("%s(%d)", v.Set, v.Code) }

// Duration is an elapsed-time value.
type Duration time.Duration

func (Duration) value()     {}
func (Duration) Type() Type { return TypeDuration }
func (v Duration) Render() string {
	return time.Duration(v).String()
}

// Timestamp is a point in time, normalized to UTC on construction.
type Timestamp struct {
	T time.Time
}

func (Timestamp) value()     {}
func (Timestamp) Type() Type { return TypeTimestamp }
func (v Timestamp) Render() string {
	return v.T.UTC().Format(time.RFC3339)
}

// NewTimestamp builds a Timestamp in UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{T: t.UTC()}
}

// Equal compares two values of the closed type set by value, not identity.
// Values of different semantic types are never equal.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Enum:
		bv, ok := b.(Enum)
		return ok && av == bv
	case Duration:
		bv, ok := b.(Duration)
		return ok && av == bv
	case Timestamp:
		bv, ok := b.(Timestamp)
		return ok && av.T.Equal(bv.T)
	default:
		return false
	}
}
