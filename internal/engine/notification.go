package engine

import (
	"fmt"

	"github.com/voicemirror/voicemirror/internal/schema"
	"github.com/voicemirror/voicemirror/internal/snapshot"
)

// EventKind is the notification vocabulary the host delivers.
type EventKind int

const (
	// EventAppeared announces an entity entering view (client joined,
	// channel created, server connection established).
	EventAppeared EventKind = iota + 1
	// EventChanged announces a generic property update.
	EventChanged
	// EventMoved announces a client switching channels; the channel change
	// surfaces through the ordinary channel_id property diff.
	EventMoved
	// EventRemoved announces an entity leaving view permanently
	// (disconnect, channel delete).
	EventRemoved
)

// String returns the wire name of the event kind.
func (e EventKind) String() string {
	switch e {
	case EventAppeared:
		return "appeared"
	case EventChanged:
		return "changed"
	case EventMoved:
		return "moved"
	case EventRemoved:
		return "removed"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// ParseEventKind maps a wire name back to an EventKind.
func ParseEventKind(s string) (EventKind, bool) {
	switch s {
	case "appeared":
		return EventAppeared, true
	case "changed":
		return EventChanged, true
	case "moved":
		return EventMoved, true
	case "removed":
		return EventRemoved, true
	default:
		return 0, false
	}
}

// Notification is one inbound host event. OldChannelID/NewChannelID are only
// set for moves.
type Notification struct {
	Kind     schema.Kind
	Event    EventKind
	ServerID uint64
	EntityID uint64

	OldChannelID uint64
	NewChannelID uint64
}

// Reason tags why a change set was published.
type Reason int

const (
	// ReasonCreated: the entity was newly observed; the change list is the
	// full initial property set with nil old values.
	ReasonCreated Reason = iota + 1
	// ReasonUpdated: a refresh diff; the change list may be empty, which is
	// a valid publish, not an error.
	ReasonUpdated
	// ReasonRemoved: terminal; Final carries the last known snapshot.
	ReasonRemoved
)

// String returns the wire name of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonCreated:
		return "created"
	case ReasonUpdated:
		return "updated"
	case ReasonRemoved:
		return "removed"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// ChangeSet is the outbound unit: everything published for one processed
// notification and one entity. Delivery order of Changes matches declaration
// order.
type ChangeSet struct {
	// SessionToken correlates every publish of one attach, for consumers
	// that interleave multiple sessions (e.g. the journal).
	SessionToken string
	Kind         schema.Kind
	EntityID     uint64
	Reason       Reason
	Changes      []snapshot.Change
	// Final is the last known snapshot, set only for ReasonRemoved.
	Final *snapshot.Snapshot
}

// Subscriber receives published change sets for one entity kind.
// Called synchronously in subscription order; must not re-enter the session.
type Subscriber func(ChangeSet)
