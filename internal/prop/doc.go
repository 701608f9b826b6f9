// Package prop defines the semantic value types a property cell can hold
// and the Result type that makes each cell independently fallible.
//
// The type set is closed: int, string, bool, enum, duration, timestamp.
// Value is a sealed interface - only the types in this package implement it.
// A Result is either a Value or an ErrorKind; it is set once when the owning
// snapshot is built and never mutated afterwards.
package prop
