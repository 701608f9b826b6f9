package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicemirror/voicemirror/internal/host"
	"github.com/voicemirror/voicemirror/internal/prop"
	"github.com/voicemirror/voicemirror/internal/schema"
)

// seedEntity populates every declared property for one entity so builds
// yield all-Ok cells.
func seedEntity(f *host.Fake, class host.Class, kind schema.Kind, serverID, id uint64) {
	switch class {
	case host.ClassChannel:
		f.AddChannel(serverID, id)
	case host.ClassClient:
		f.AddClient(serverID, id)
	}
	for _, d := range schema.For(kind).Descriptors {
		if d.Type == prop.TypeString {
			f.SetString(class, serverID, id, d.Name, "v-"+d.Name)
		} else {
			f.SetInt(class, serverID, id, d.Name, 1)
		}
	}
}

// newTestHost builds a fake with one server, one channel, and one client.
func newTestHost(t *testing.T) *host.Fake {
	t.Helper()
	f := host.NewFake()
	f.AddServer(1)
	seedEntity(f, host.ClassServer, schema.KindServer, 1, 1)
	seedEntity(f, host.ClassChannel, schema.KindChannel, 1, 10)
	seedEntity(f, host.ClassClient, schema.KindClient, 1, 7)
	return f
}

// collector records every published change set.
type collector struct {
	sets []ChangeSet
}

func (c *collector) fn() Subscriber {
	return func(cs ChangeSet) { c.sets = append(c.sets, cs) }
}

func (c *collector) reset() { c.sets = nil }

func newAttachedSession(t *testing.T, f *host.Fake) (*Session, *collector) {
	t.Helper()
	s := NewSession(f, 1, NewFixedGenerator("session-1"))
	col := &collector{}
	s.SubscribeAll(col.fn())
	require.NoError(t, s.Attach())
	return s, col
}

func TestAttach_FullStateSync(t *testing.T) {
	f := newTestHost(t)
	s, col := newAttachedSession(t, f)

	// Server first, then channels, then clients; all created.
	require.Len(t, col.sets, 3)
	assert.Equal(t, schema.KindServer, col.sets[0].Kind)
	assert.Equal(t, schema.KindChannel, col.sets[1].Kind)
	assert.Equal(t, schema.KindClient, col.sets[2].Kind)
	for _, cs := range col.sets {
		assert.Equal(t, ReasonCreated, cs.Reason)
		assert.Equal(t, "session-1", cs.SessionToken)
		assert.NotEmpty(t, cs.Changes)
		for _, c := range cs.Changes {
			assert.Nil(t, c.Old, "created changes carry no old value")
		}
	}

	assert.Equal(t, 1, s.Tracked(schema.KindServer))
	assert.Equal(t, 1, s.Tracked(schema.KindChannel))
	assert.Equal(t, 1, s.Tracked(schema.KindClient))
}

func TestAttach_Twice(t *testing.T) {
	f := newTestHost(t)
	s, _ := newAttachedSession(t, f)
	assert.Error(t, s.Attach())
}

func TestHandle_NotAttached(t *testing.T) {
	f := newTestHost(t)
	s := NewSession(f, 1, NewFixedGenerator("session-1"))

	err := s.Handle(Notification{Kind: schema.KindClient, Event: EventChanged, ServerID: 1, EntityID: 7})
	assert.ErrorIs(t, err, ErrNotAttached)
}

func TestHandle_ChangedPublishesOnlyTheDiff(t *testing.T) {
	f := newTestHost(t)
	s, col := newAttachedSession(t, f)
	col.reset()

	f.SetInt(host.ClassClient, 1, 7, "input_muted", 2)
	require.NoError(t, s.Handle(Notification{Kind: schema.KindClient, Event: EventChanged, ServerID: 1, EntityID: 7}))

	require.Len(t, col.sets, 1)
	cs := col.sets[0]
	assert.Equal(t, ReasonUpdated, cs.Reason)
	require.Len(t, cs.Changes, 1)
	assert.Equal(t, "input_muted", cs.Changes[0].Property)
	require.NotNil(t, cs.Changes[0].Old)
	assert.Equal(t, prop.Enum{Set: "mute_input_status", Code: 1}, cs.Changes[0].Old.Value())
	assert.Equal(t, prop.Enum{Set: "mute_input_status", Code: 2}, cs.Changes[0].New.Value())
}

func TestHandle_NoOpRefreshPublishesEmptySet(t *testing.T) {
	f := newTestHost(t)
	s, col := newAttachedSession(t, f)
	col.reset()

	require.NoError(t, s.Handle(Notification{Kind: schema.KindClient, Event: EventChanged, ServerID: 1, EntityID: 7}))

	require.Len(t, col.sets, 1)
	assert.Equal(t, ReasonUpdated, col.sets[0].Reason)
	assert.Empty(t, col.sets[0].Changes, "empty change lists are valid publishes")
}

func TestHandle_MoveSurfacesAsChannelIDChange(t *testing.T) {
	f := newTestHost(t)
	seedEntity(f, host.ClassChannel, schema.KindChannel, 1, 20)
	s, col := newAttachedSession(t, f)
	col.reset()

	f.SetInt(host.ClassClient, 1, 7, "channel_id", 20)
	require.NoError(t, s.Handle(Notification{
		Kind: schema.KindClient, Event: EventMoved, ServerID: 1, EntityID: 7,
		OldChannelID: 10, NewChannelID: 20,
	}))

	require.Len(t, col.sets, 1)
	cs := col.sets[0]
	require.Len(t, cs.Changes, 1)
	assert.Equal(t, "channel_id", cs.Changes[0].Property)
	assert.Equal(t, prop.Int(20), cs.Changes[0].New.Value())
}

func TestHandle_UpdateForUnknownEntityIsImplicitCreate(t *testing.T) {
	f := newTestHost(t)
	s, col := newAttachedSession(t, f)
	col.reset()

	seedEntity(f, host.ClassClient, schema.KindClient, 1, 42)
	require.NoError(t, s.Handle(Notification{Kind: schema.KindClient, Event: EventChanged, ServerID: 1, EntityID: 42}))

	require.Len(t, col.sets, 1)
	assert.Equal(t, ReasonCreated, col.sets[0].Reason)
	assert.Len(t, col.sets[0].Changes, len(schema.For(schema.KindClient).Descriptors))
	assert.Equal(t, 2, s.Tracked(schema.KindClient))
}

func TestHandle_RemovalIsTerminal(t *testing.T) {
	f := newTestHost(t)
	s, col := newAttachedSession(t, f)

	// Mutate, refresh, then remove: the terminal snapshot must carry the
	// latest values.
	f.SetString(host.ClassClient, 1, 7, "name", "Renamed")
	require.NoError(t, s.Handle(Notification{Kind: schema.KindClient, Event: EventChanged, ServerID: 1, EntityID: 7}))
	col.reset()

	f.RemoveClient(1, 7)
	require.NoError(t, s.Handle(Notification{Kind: schema.KindClient, Event: EventRemoved, ServerID: 1, EntityID: 7}))

	require.Len(t, col.sets, 1)
	cs := col.sets[0]
	assert.Equal(t, ReasonRemoved, cs.Reason)
	assert.Empty(t, cs.Changes)
	require.NotNil(t, cs.Final)
	name, ok := cs.Final.Lookup("name")
	require.True(t, ok)
	assert.Equal(t, prop.String("Renamed"), name.Value.Value())

	assert.Equal(t, 0, s.Tracked(schema.KindClient))
}

func TestHandle_ReappearanceAfterRemovalIsFreshCreate(t *testing.T) {
	f := newTestHost(t)
	s, col := newAttachedSession(t, f)

	f.RemoveClient(1, 7)
	require.NoError(t, s.Handle(Notification{Kind: schema.KindClient, Event: EventRemoved, ServerID: 1, EntityID: 7}))
	col.reset()

	// Same external id comes back; no state may be carried over.
	seedEntity(f, host.ClassClient, schema.KindClient, 1, 7)
	f.SetString(host.ClassClient, 1, 7, "name", "Recycled")
	require.NoError(t, s.Handle(Notification{Kind: schema.KindClient, Event: EventChanged, ServerID: 1, EntityID: 7}))

	require.Len(t, col.sets, 1)
	cs := col.sets[0]
	assert.Equal(t, ReasonCreated, cs.Reason, "post-removal notification starts a fresh Tracked state")
	for _, c := range cs.Changes {
		assert.Nil(t, c.Old)
	}
}

func TestHandle_RemovalForUnknownEntityIsIgnored(t *testing.T) {
	f := newTestHost(t)
	s, col := newAttachedSession(t, f)
	col.reset()

	require.NoError(t, s.Handle(Notification{Kind: schema.KindClient, Event: EventRemoved, ServerID: 1, EntityID: 999}))
	assert.Empty(t, col.sets)
}

func TestHandle_InvalidNotificationsAreDropped(t *testing.T) {
	f := newTestHost(t)
	s, col := newAttachedSession(t, f)
	col.reset()

	testCases := []struct {
		name string
		n    Notification
	}{
		{"unknown kind", Notification{Kind: schema.Kind(99), Event: EventChanged, ServerID: 1, EntityID: 7}},
		{"unknown event", Notification{Kind: schema.KindClient, Event: EventKind(99), ServerID: 1, EntityID: 7}},
		{"wrong server", Notification{Kind: schema.KindClient, Event: EventChanged, ServerID: 2, EntityID: 7}},
		{"zero entity id", Notification{Kind: schema.KindClient, Event: EventChanged, ServerID: 1, EntityID: 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.Handle(tc.n)
			assert.ErrorIs(t, err, ErrInvalidNotification)
			assert.Empty(t, col.sets, "dropped notifications publish nothing")
		})
	}
}

func TestHandle_TransientFailureDoesNotSpamChanges(t *testing.T) {
	f := newTestHost(t)
	s, col := newAttachedSession(t, f)
	col.reset()

	// A transient gap right after churn: the fallback merge keeps the last
	// good value, so the diff stays clean.
	f.FailWith(host.ClassClient, 1, 7, "name", prop.KindUnavailable)
	require.NoError(t, s.Handle(Notification{Kind: schema.KindClient, Event: EventChanged, ServerID: 1, EntityID: 7}))

	require.Len(t, col.sets, 1)
	assert.Empty(t, col.sets[0].Changes)

	// Once the host recovers, still no change: the value never "moved".
	f.ClearFailure(host.ClassClient, 1, 7, "name")
	col.reset()
	require.NoError(t, s.Handle(Notification{Kind: schema.KindClient, Event: EventChanged, ServerID: 1, EntityID: 7}))
	require.Len(t, col.sets, 1)
	assert.Empty(t, col.sets[0].Changes)
}

func TestDetach_ClearsStore(t *testing.T) {
	f := newTestHost(t)
	s, _ := newAttachedSession(t, f)

	s.Detach()

	assert.Equal(t, 0, s.Tracked(schema.KindServer))
	assert.Equal(t, 0, s.Tracked(schema.KindChannel))
	assert.Equal(t, 0, s.Tracked(schema.KindClient))

	err := s.Handle(Notification{Kind: schema.KindClient, Event: EventChanged, ServerID: 1, EntityID: 7})
	assert.ErrorIs(t, err, ErrNotAttached)
}

func TestSubscribe_PerKindDelivery(t *testing.T) {
	f := newTestHost(t)
	s := NewSession(f, 1, NewFixedGenerator("session-1"))
	clientCol := &collector{}
	channelCol := &collector{}
	s.Subscribe(schema.KindClient, clientCol.fn())
	s.Subscribe(schema.KindChannel, channelCol.fn())
	require.NoError(t, s.Attach())

	require.Len(t, clientCol.sets, 1)
	assert.Equal(t, schema.KindClient, clientCol.sets[0].Kind)
	require.Len(t, channelCol.sets, 1)
	assert.Equal(t, schema.KindChannel, channelCol.sets[0].Kind)
}
