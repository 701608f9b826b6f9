package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/voicemirror/voicemirror/internal/host"
	"github.com/voicemirror/voicemirror/internal/schema"
	"github.com/voicemirror/voicemirror/internal/snapshot"
)

var (
	// ErrNotAttached is returned when a notification arrives outside an
	// attach/detach window.
	ErrNotAttached = errors.New("session not attached")
	// ErrInvalidNotification marks structurally invalid notifications.
	// They are logged and dropped; they must never take the host down.
	ErrInvalidNotification = errors.New("invalid notification")
)

// Session mirrors the state of one server connection.
//
// The Session exclusively owns its snapshot store; consumers only ever see
// published ChangeSets. All methods must be called from the host's callback
// thread - delivery is serialized by the host, so there is no locking here.
type Session struct {
	token    string
	serverID uint64
	src      host.Source
	store    *snapshot.Store
	subs     map[schema.Kind][]Subscriber
	attached bool
}

// NewSession creates a detached session for one server connection.
// Call Subscribe for every consumer, then Attach to run the initial
// full-state sync (which already publishes created-sets).
func NewSession(src host.Source, serverID uint64, gen TokenGenerator) *Session {
	return &Session{
		token:    gen.Generate(),
		serverID: serverID,
		src:      src,
		store:    snapshot.NewStore(),
		subs:     make(map[schema.Kind][]Subscriber),
	}
}

// Token returns the session correlation token stamped on every publish.
func (s *Session) Token() string { return s.token }

// Subscribe registers a consumer for one entity kind. Subscribers are
// invoked synchronously in registration order.
func (s *Session) Subscribe(kind schema.Kind, fn Subscriber) {
	s.subs[kind] = append(s.subs[kind], fn)
}

// SubscribeAll registers a consumer for every entity kind.
func (s *Session) SubscribeAll(fn Subscriber) {
	for _, table := range schema.Tables() {
		s.Subscribe(table.Kind, fn)
	}
}

// Attach starts the session and performs the initial full-state sync:
// the server entity itself, then every visible channel, then every visible
// client, each published as a created-set. Mirrors the host populating its
// channel and connection lists when a connection is established.
func (s *Session) Attach() error {
	if s.attached {
		return fmt.Errorf("session %s: already attached", s.token)
	}
	s.attached = true

	slog.Info("session attaching", "session", s.token, "server", s.serverID)

	s.track(schema.KindServer, s.serverID)

	channels, err := s.src.ListChannels(s.serverID)
	if err != nil {
		s.Detach()
		return fmt.Errorf("list channels for server %d: %w", s.serverID, err)
	}
	for _, id := range channels {
		s.track(schema.KindChannel, id)
	}

	clients, err := s.src.ListClients(s.serverID)
	if err != nil {
		s.Detach()
		return fmt.Errorf("list clients for server %d: %w", s.serverID, err)
	}
	for _, id := range clients {
		s.track(schema.KindClient, id)
	}

	slog.Info("session attached",
		"session", s.token,
		"channels", s.store.Len(schema.KindChannel),
		"clients", s.store.Len(schema.KindClient),
	)
	return nil
}

// Detach ends the session and clears the store. No terminal events are
// published: the connection is gone, there is no one left to diff against.
func (s *Session) Detach() {
	if !s.attached {
		return
	}
	s.attached = false
	s.store.Clear()
	slog.Info("session detached", "session", s.token, "server", s.serverID)
}

// Tracked reports how many entities of a kind are currently tracked.
// Used for testing and introspection.
func (s *Session) Tracked(kind schema.Kind) int {
	return s.store.Len(kind)
}

// Handle processes one host notification to completion.
//
// Structurally invalid notifications (unknown kind or event, wrong server,
// zero entity id) are logged and dropped with ErrInvalidNotification - the
// host shares this process, so a bad notification must never escalate to a
// fault.
func (s *Session) Handle(n Notification) error {
	if !s.attached {
		return ErrNotAttached
	}
	if err := s.validate(n); err != nil {
		slog.Error("notification dropped",
			"session", s.token,
			"kind", n.Kind.String(),
			"event", n.Event.String(),
			"server", n.ServerID,
			"entity", n.EntityID,
			"error", err,
		)
		return err
	}

	slog.Debug("processing notification",
		"session", s.token,
		"kind", n.Kind.String(),
		"event", n.Event.String(),
		"entity", n.EntityID,
	)

	switch n.Event {
	case EventAppeared, EventChanged:
		s.track(n.Kind, n.EntityID)
	case EventMoved:
		slog.Debug("client move",
			"session", s.token,
			"entity", n.EntityID,
			"old_channel", n.OldChannelID,
			"new_channel", n.NewChannelID,
		)
		s.track(n.Kind, n.EntityID)
	case EventRemoved:
		s.retire(n.Kind, n.EntityID)
	}
	return nil
}

func (s *Session) validate(n Notification) error {
	if _, ok := schema.ParseKind(n.Kind.String()); !ok {
		return fmt.Errorf("%w: unknown entity kind %d", ErrInvalidNotification, int(n.Kind))
	}
	if _, ok := ParseEventKind(n.Event.String()); !ok {
		return fmt.Errorf("%w: unknown event %d", ErrInvalidNotification, int(n.Event))
	}
	if n.ServerID != s.serverID {
		return fmt.Errorf("%w: notification for server %d on session for server %d",
			ErrInvalidNotification, n.ServerID, s.serverID)
	}
	if n.EntityID == 0 {
		return fmt.Errorf("%w: zero entity id", ErrInvalidNotification)
	}
	return nil
}

// track performs Unknown->Tracked (build, diff against nothing, publish
// created) or Tracked->Tracked (refresh with fallback merge, diff, publish
// updated). An update for an entity never seen lands in the first branch:
// treat it as "created now" rather than failing.
func (s *Session) track(kind schema.Kind, id uint64) {
	table := schema.For(kind)
	ref := s.refFor(kind, id)

	previous, tracked := s.store.Get(kind, id)
	if !tracked {
		snap := snapshot.Build(s.src, table, ref)
		changes := snapshot.Diff(nil, snap)
		s.store.Put(kind, id, snap)
		s.publish(ChangeSet{
			SessionToken: s.token,
			Kind:         kind,
			EntityID:     id,
			Reason:       ReasonCreated,
			Changes:      changes,
		})
		return
	}

	fresh := snapshot.Refresh(s.src, table, ref, previous)
	changes := snapshot.Diff(previous, fresh)
	s.store.Put(kind, id, fresh)
	// Empty change lists are valid publishes: consumers may care that a
	// refresh happened even when nothing moved.
	s.publish(ChangeSet{
		SessionToken: s.token,
		Kind:         kind,
		EntityID:     id,
		Reason:       ReasonUpdated,
		Changes:      changes,
	})
}

// retire performs Tracked->Retired: publish the terminal change set carrying
// the last known snapshot, then drop the entity. Removal of an unknown
// entity is a no-op. A later re-appearance under the same id is a fresh
// creation; identifiers may be recycled by the host, and carrying state
// across a disconnect boundary would be a correctness bug.
func (s *Session) retire(kind schema.Kind, id uint64) {
	last, ok := s.store.Remove(kind, id)
	if !ok {
		slog.Debug("removal for untracked entity ignored",
			"session", s.token, "kind", kind.String(), "entity", id)
		return
	}
	s.publish(ChangeSet{
		SessionToken: s.token,
		Kind:         kind,
		EntityID:     id,
		Reason:       ReasonRemoved,
		Final:        last.Clone(),
	})
}

func (s *Session) refFor(kind schema.Kind, id uint64) host.EntityRef {
	if kind == schema.KindServer {
		return host.EntityRef{ServerID: s.serverID, ID: s.serverID}
	}
	return host.EntityRef{ServerID: s.serverID, ID: id}
}

func (s *Session) publish(cs ChangeSet) {
	for _, fn := range s.subs[cs.Kind] {
		fn(cs)
	}
}
