// Package host defines the boundary to the external voice-server host: the
// Source interface the snapshot engine fetches property values through, and
// an in-memory Fake used by tests, the scenario harness, and replay.
//
// The engine never talks to the host any other way. A real plugin binding
// would implement Source on top of the native client library; everything
// above this boundary is host-agnostic.
package host

import (
	"fmt"

	"github.com/voicemirror/voicemirror/internal/prop"
)

// EntityRef identifies one entity on one server. For server entities ID
// equals ServerID.
type EntityRef struct {
	ServerID uint64
	ID       uint64
}

// Error is a classified host fetch failure. Fetch strategies translate it
// into the failed cell's ErrorKind; any other error from a Source is treated
// as transient (KindUnavailable).
type Error struct {
	Kind     prop.ErrorKind
	Property string
	Msg      string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %s", e.Property, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Property, e.Kind, e.Msg)
}

// KindOf extracts the error kind from a host fetch error.
// Unclassified errors default to KindUnavailable: the host did not say the
// value is gone, only that it could not produce it right now.
func KindOf(err error) prop.ErrorKind {
	if he, ok := err.(*Error); ok {
		return he.Kind
	}
	return prop.KindUnavailable
}

// Source is the synchronous property source the engine fetches through.
// All calls complete in-process without blocking; the host serializes every
// callback that leads here, so implementations need no locking for the
// engine's sake.
//
// The getter pairs mirror the host API shape: one string getter and one
// integer getter per entity class. Bools, enums, durations and timestamps
// are integer-encoded on the wire and decoded by the fetch strategies.
type Source interface {
	ServerString(serverID uint64, property string) (string, error)
	ServerInt(serverID uint64, property string) (int64, error)

	ChannelString(serverID, channelID uint64, property string) (string, error)
	ChannelInt(serverID, channelID uint64, property string) (int64, error)

	ClientString(serverID, clientID uint64, property string) (string, error)
	ClientInt(serverID, clientID uint64, property string) (int64, error)

	// ListChannels and ListClients enumerate the entities visible on a
	// server, in a stable order. Used for the initial full-state sync on
	// attach.
	ListChannels(serverID uint64) ([]uint64, error)
	ListClients(serverID uint64) ([]uint64, error)
}
