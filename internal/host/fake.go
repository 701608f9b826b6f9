package host

import (
	"slices"

	"github.com/voicemirror/voicemirror/internal/prop"
)

// Class distinguishes the entity classes a Fake stores values for.
type Class int

const (
	ClassServer Class = iota + 1
	ClassChannel
	ClassClient
)

// String returns the fixture name of the class.
func (c Class) String() string {
	switch c {
	case ClassServer:
		return "server"
	case ClassChannel:
		return "channel"
	case ClassClient:
		return "client"
	default:
		return "class?"
	}
}

// ParseClass maps a fixture name to a Class.
func ParseClass(s string) (Class, bool) {
	switch s {
	case "server":
		return ClassServer, true
	case "channel":
		return ClassChannel, true
	case "client":
		return ClassClient, true
	default:
		return 0, false
	}
}

type entityKey struct {
	class  Class
	server uint64
	id     uint64
}

type entity struct {
	strings map[string]string
	ints    map[string]int64
	// failures overrides fetches per property until cleared
	failures map[string]prop.ErrorKind
}

// Fake is an in-memory Source for tests, the scenario harness, and replay.
// Values are set per entity and property; failure injection makes individual
// property fetches fail with a chosen kind until cleared.
//
// Not safe for concurrent use: the host model is single-threaded with
// serialized callback delivery, and the Fake mirrors that contract.
type Fake struct {
	entities map[entityKey]*entity
	// channel/client enumeration order is insertion order, stable across
	// calls so the initial sync is deterministic
	channels map[uint64][]uint64
	clients  map[uint64][]uint64
}

// NewFake creates an empty fake host.
func NewFake() *Fake {
	return &Fake{
		entities: make(map[entityKey]*entity),
		channels: make(map[uint64][]uint64),
		clients:  make(map[uint64][]uint64),
	}
}

// AddServer registers a server entity.
func (f *Fake) AddServer(serverID uint64) {
	f.ensure(entityKey{ClassServer, serverID, serverID})
}

// AddChannel registers a channel on a server.
func (f *Fake) AddChannel(serverID, channelID uint64) {
	key := entityKey{ClassChannel, serverID, channelID}
	if _, ok := f.entities[key]; ok {
		return
	}
	f.ensure(key)
	f.channels[serverID] = append(f.channels[serverID], channelID)
}

// AddClient registers a client on a server.
func (f *Fake) AddClient(serverID, clientID uint64) {
	key := entityKey{ClassClient, serverID, clientID}
	if _, ok := f.entities[key]; ok {
		return
	}
	f.ensure(key)
	f.clients[serverID] = append(f.clients[serverID], clientID)
}

// RemoveChannel drops a channel; subsequent fetches fail with not_found.
func (f *Fake) RemoveChannel(serverID, channelID uint64) {
	delete(f.entities, entityKey{ClassChannel, serverID, channelID})
	f.channels[serverID] = deleteID(f.channels[serverID], channelID)
}

// RemoveClient drops a client; subsequent fetches fail with not_found.
func (f *Fake) RemoveClient(serverID, clientID uint64) {
	delete(f.entities, entityKey{ClassClient, serverID, clientID})
	f.clients[serverID] = deleteID(f.clients[serverID], clientID)
}

func deleteID(ids []uint64, id uint64) []uint64 {
	return slices.DeleteFunc(ids, func(v uint64) bool { return v == id })
}

// SetString sets a string-valued property.
func (f *Fake) SetString(class Class, serverID, id uint64, property, value string) {
	f.ensure(f.key(class, serverID, id)).strings[property] = value
}

// SetInt sets an integer-encoded property (also bools, enums, durations,
// timestamps - they travel as integers, like on the real host wire).
func (f *Fake) SetInt(class Class, serverID, id uint64, property string, value int64) {
	f.ensure(f.key(class, serverID, id)).ints[property] = value
}

// FailWith makes fetches of one property fail with the given kind until
// ClearFailure is called. Models transient host-side gaps right after
// create/move churn.
func (f *Fake) FailWith(class Class, serverID, id uint64, property string, kind prop.ErrorKind) {
	f.ensure(f.key(class, serverID, id)).failures[property] = kind
}

// ClearFailure removes a failure injection.
func (f *Fake) ClearFailure(class Class, serverID, id uint64, property string) {
	if e, ok := f.entities[f.key(class, serverID, id)]; ok {
		delete(e.failures, property)
	}
}

func (f *Fake) key(class Class, serverID, id uint64) entityKey {
	if class == ClassServer {
		id = serverID
	}
	return entityKey{class, serverID, id}
}

func (f *Fake) ensure(key entityKey) *entity {
	e, ok := f.entities[key]
	if !ok {
		e = &entity{
			strings:  make(map[string]string),
			ints:     make(map[string]int64),
			failures: make(map[string]prop.ErrorKind),
		}
		f.entities[key] = e
	}
	return e
}

func (f *Fake) fetchString(key entityKey, property string) (string, error) {
	e, ok := f.entities[key]
	if !ok {
		return "", &Error{Kind: prop.KindNotFound, Property: property, Msg: "no such entity"}
	}
	if kind, failed := e.failures[property]; failed {
		return "", &Error{Kind: kind, Property: property, Msg: "injected failure"}
	}
	v, ok := e.strings[property]
	if !ok {
		return "", &Error{Kind: prop.KindNotFound, Property: property, Msg: "no such property"}
	}
	return v, nil
}

func (f *Fake) fetchInt(key entityKey, property string) (int64, error) {
	e, ok := f.entities[key]
	if !ok {
		return 0, &Error{Kind: prop.KindNotFound, Property: property, Msg: "no such entity"}
	}
	if kind, failed := e.failures[property]; failed {
		return 0, &Error{Kind: kind, Property: property, Msg: "injected failure"}
	}
	v, ok := e.ints[property]
	if !ok {
		return 0, &Error{Kind: prop.KindNotFound, Property: property, Msg: "no such property"}
	}
	return v, nil
}

// ServerString implements Source.
func (f *Fake) ServerString(serverID uint64, property string) (string, error) {
	return f.fetchString(entityKey{ClassServer, serverID, serverID}, property)
}

// ServerInt implements Source.
func (f *Fake) ServerInt(serverID uint64, property string) (int64, error) {
	return f.fetchInt(entityKey{ClassServer, serverID, serverID}, property)
}

// ChannelString implements Source.
func (f *Fake) ChannelString(serverID, channelID uint64, property string) (string, error) {
	return f.fetchString(entityKey{ClassChannel, serverID, channelID}, property)
}

// ChannelInt implements Source.
func (f *Fake) ChannelInt(serverID, channelID uint64, property string) (int64, error) {
	return f.fetchInt(entityKey{ClassChannel, serverID, channelID}, property)
}

// ClientString implements Source.
func (f *Fake) ClientString(serverID, clientID uint64, property string) (string, error) {
	return f.fetchString(entityKey{ClassClient, serverID, clientID}, property)
}

// ClientInt implements Source.
func (f *Fake) ClientInt(serverID, clientID uint64, property string) (int64, error) {
	return f.fetchInt(entityKey{ClassClient, serverID, clientID}, property)
}

// ListChannels implements Source. Order is insertion order.
func (f *Fake) ListChannels(serverID uint64) ([]uint64, error) {
	return slices.Clone(f.channels[serverID]), nil
}

// ListClients implements Source. Order is insertion order.
func (f *Fake) ListClients(serverID uint64) ([]uint64, error) {
	return slices.Clone(f.clients[serverID]), nil
}
