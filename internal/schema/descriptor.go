// Package schema declares the property descriptor tables: per entity kind, a
// static, versioned list of (name, semantic type, fetch strategy) triples in
// declaration order.
//
// The tables are the single source of truth shared by snapshot construction
// and diffing. Declaration order is significant: it fixes enumeration order,
// diff output order, and therefore everything a consumer renders. Adding a
// property means appending to exactly one table here and bumping its version.
package schema

import (
	"fmt"
	"time"

	"github.com/voicemirror/voicemirror/internal/host"
	"github.com/voicemirror/voicemirror/internal/prop"
)

// Kind identifies a tracked entity kind.
type Kind int

const (
	KindServer Kind = iota + 1
	KindChannel
	KindClient
)

// String returns the contract name of the kind.
func (k Kind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindChannel:
		return "channel"
	case KindClient:
		return "client"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a contract name back to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "server":
		return KindServer, true
	case "channel":
		return KindChannel, true
	case "client":
		return KindClient, true
	default:
		return 0, false
	}
}

// FetchFunc obtains one property's value from the host. Each property is
// fetched independently; a failure is contained in the returned Result and
// never aborts sibling fetches.
type FetchFunc func(src host.Source, ref host.EntityRef) prop.Result

// Descriptor declares one property of an entity kind.
type Descriptor struct {
	Name  string
	Type  prop.Type
	Fetch FetchFunc

	// EnumSet names the code set for enum-typed properties, empty otherwise.
	EnumSet string
}

// Table is the full declared property set of one entity kind.
// The Descriptors slice order is declaration order and never changes after
// package init.
type Table struct {
	Kind        Kind
	Version     int
	Descriptors []Descriptor
}

// Names returns the property names in declaration order.
func (t Table) Names() []string {
	names := make([]string, len(t.Descriptors))
	for i, d := range t.Descriptors {
		names[i] = d.Name
	}
	return names
}

// Index returns the position of a property name, or -1 if undeclared.
func (t Table) Index(name string) int {
	for i, d := range t.Descriptors {
		if d.Name == name {
			return i
		}
	}
	return -1
}

// For returns the table for a kind. Panics on an unknown kind: callers
// dispatch on validated kinds only.
func For(kind Kind) Table {
	switch kind {
	case KindServer:
		return serverTable
	case KindChannel:
		return channelTable
	case KindClient:
		return clientTable
	default:
		panic(fmt.Sprintf("schema: no table for %v", kind))
	}
}

// Tables returns all registered tables in kind order.
func Tables() []Table {
	return []Table{serverTable, channelTable, clientTable}
}

// getters bundles the host's per-class string/int getter pair so the typed
// descriptor constructors below work for any entity class.
type getters struct {
	str func(src host.Source, ref host.EntityRef, name string) (string, error)
	num func(src host.Source, ref host.EntityRef, name string) (int64, error)
}

var serverGetters = getters{
	str: func(src host.Source, ref host.EntityRef, name string) (string, error) {
		return src.ServerString(ref.ServerID, name)
	},
	num: func(src host.Source, ref host.EntityRef, name string) (int64, error) {
		return src.ServerInt(ref.ServerID, name)
	},
}

var channelGetters = getters{
	str: func(src host.Source, ref host.EntityRef, name string) (string, error) {
		return src.ChannelString(ref.ServerID, ref.ID, name)
	},
	num: func(src host.Source, ref host.EntityRef, name string) (int64, error) {
		return src.ChannelInt(ref.ServerID, ref.ID, name)
	},
}

var clientGetters = getters{
	str: func(src host.Source, ref host.EntityRef, name string) (string, error) {
		return src.ClientString(ref.ServerID, ref.ID, name)
	},
	num: func(src host.Source, ref host.EntityRef, name string) (int64, error) {
		return src.ClientInt(ref.ServerID, ref.ID, name)
	},
}

func stringProp(g getters, name string) Descriptor {
	return Descriptor{Name: name, Type: prop.TypeString, Fetch: func(src host.Source, ref host.EntityRef) prop.Result {
		raw, err := g.str(src, ref, name)
		if err != nil {
			return prop.Fail(host.KindOf(err), err.Error())
		}
		return prop.StringResult(raw)
	}}
}

func intProp(g getters, name string) Descriptor {
	return Descriptor{Name: name, Type: prop.TypeInt, Fetch: func(src host.Source, ref host.EntityRef) prop.Result {
		n, err := g.num(src, ref, name)
		if err != nil {
			return prop.Fail(host.KindOf(err), err.Error())
		}
		return prop.Ok(prop.Int(n))
	}}
}

func boolProp(g getters, name string) Descriptor {
	return Descriptor{Name: name, Type: prop.TypeBool, Fetch: func(src host.Source, ref host.EntityRef) prop.Result {
		n, err := g.num(src, ref, name)
		if err != nil {
			return prop.Fail(host.KindOf(err), err.Error())
		}
		return prop.Ok(prop.Bool(n != 0))
	}}
}

func enumProp(g getters, name, set string) Descriptor {
	return Descriptor{Name: name, Type: prop.TypeEnum, EnumSet: set, Fetch: func(src host.Source, ref host.EntityRef) prop.Result {
		n, err := g.num(src, ref, name)
		if err != nil {
			return prop.Fail(host.KindOf(err), err.Error())
		}
		return prop.Ok(prop.Enum{Set: set, Code: n})
	}}
}

// secondsProp decodes a duration property the host encodes as whole seconds.
func secondsProp(g getters, name string) Descriptor {
	return Descriptor{Name: name, Type: prop.TypeDuration, Fetch: func(src host.Source, ref host.EntityRef) prop.Result {
		n, err := g.num(src, ref, name)
		if err != nil {
			return prop.Fail(host.KindOf(err), err.Error())
		}
		return prop.Ok(prop.Duration(time.Duration(n) * time.Second))
	}}
}

// unixProp decodes a timestamp property the host encodes as unix seconds.
// Non-positive values mean the host has not populated the field yet.
func unixProp(g getters, name string) Descriptor {
	return Descriptor{Name: name, Type: prop.TypeTimestamp, Fetch: func(src host.Source, ref host.EntityRef) prop.Result {
		n, err := g.num(src, ref, name)
		if err != nil {
			return prop.Fail(host.KindOf(err), err.Error())
		}
		if n <= 0 {
			return prop.Fail(prop.KindUnavailable, fmt.Sprintf("%s: timestamp not populated", name))
		}
		return prop.Ok(prop.NewTimestamp(time.Unix(n, 0)))
	}}
}
