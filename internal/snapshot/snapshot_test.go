package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicemirror/voicemirror/internal/host"
	"github.com/voicemirror/voicemirror/internal/prop"
	"github.com/voicemirror/voicemirror/internal/schema"
)

// seedClient populates every declared client property on the fake so a Build
// yields all-Ok cells.
func seedClient(f *host.Fake, serverID, clientID uint64) {
	f.AddClient(serverID, clientID)
	for _, d := range schema.For(schema.KindClient).Descriptors {
		switch d.Type {
		case prop.TypeString:
			f.SetString(host.ClassClient, serverID, clientID, d.Name, "v-"+d.Name)
		default:
			// bools, enums, durations and ints all travel as integers
			f.SetInt(host.ClassClient, serverID, clientID, d.Name, 1)
		}
	}
}

func clientRef(serverID, clientID uint64) host.EntityRef {
	return host.EntityRef{ServerID: serverID, ID: clientID}
}

func TestBuild_EagerDeclarationOrder(t *testing.T) {
	f := host.NewFake()
	f.AddServer(1)
	seedClient(f, 1, 7)

	table := schema.For(schema.KindClient)
	snap := Build(f, table, clientRef(1, 7))

	require.Len(t, snap.Cells, len(table.Descriptors))
	for i, d := range table.Descriptors {
		assert.Equal(t, d.Name, snap.Cells[i].Name, "cell %d out of declaration order", i)
		assert.True(t, snap.Cells[i].Value.IsOk(), "property %s should be ok", d.Name)
	}
	assert.Equal(t, schema.KindClient, snap.Kind)
	assert.Equal(t, uint64(7), snap.ID)
	assert.Equal(t, table.Version, snap.Version)
}

func TestBuild_FailureIsContainedPerCell(t *testing.T) {
	f := host.NewFake()
	f.AddServer(1)
	seedClient(f, 1, 7)
	f.FailWith(host.ClassClient, 1, 7, "name", prop.KindUnavailable)

	snap := Build(f, schema.For(schema.KindClient), clientRef(1, 7))

	name, ok := snap.Lookup("name")
	require.True(t, ok)
	assert.False(t, name.Value.IsOk())
	assert.Equal(t, prop.KindUnavailable, name.Value.Kind())

	// Siblings were still fetched.
	uid, ok := snap.Lookup("uid")
	require.True(t, ok)
	assert.True(t, uid.Value.IsOk())
}

func TestRefresh_FallbackPreservesGoodData(t *testing.T) {
	f := host.NewFake()
	f.AddServer(1)
	seedClient(f, 1, 7)

	table := schema.For(schema.KindClient)
	previous := Build(f, table, clientRef(1, 7))

	// The next fetch of "name" fails transiently.
	f.FailWith(host.ClassClient, 1, 7, "name", prop.KindUnavailable)
	merged := Refresh(f, table, clientRef(1, 7), previous)

	name, ok := merged.Lookup("name")
	require.True(t, ok)
	require.True(t, name.Value.IsOk(), "previous good value must survive the transient failure")
	assert.Equal(t, prop.String("v-name"), name.Value.Value())

	// And the subsequent diff shows no change for the merged property.
	changes := Diff(previous, merged)
	for _, c := range changes {
		assert.NotEqual(t, "name", c.Property)
	}
}

func TestRefresh_FreshErrKeptWithoutPriorGoodValue(t *testing.T) {
	f := host.NewFake()
	f.AddServer(1)
	seedClient(f, 1, 7)
	f.FailWith(host.ClassClient, 1, 7, "badges", prop.KindPermissionDenied)

	table := schema.For(schema.KindClient)
	previous := Build(f, table, clientRef(1, 7)) // badges already failed here

	f.FailWith(host.ClassClient, 1, 7, "badges", prop.KindUnavailable)
	merged := Refresh(f, table, clientRef(1, 7), previous)

	badges, ok := merged.Lookup("badges")
	require.True(t, ok)
	require.False(t, badges.Value.IsOk())
	assert.Equal(t, prop.KindUnavailable, badges.Value.Kind(), "fresh error is kept when previous was not ok")
}

func TestRefresh_NilPreviousIsPlainBuild(t *testing.T) {
	f := host.NewFake()
	f.AddServer(1)
	seedClient(f, 1, 7)

	table := schema.For(schema.KindClient)
	snap := Refresh(f, table, clientRef(1, 7), nil)
	assert.Len(t, snap.Cells, len(table.Descriptors))
}

func TestRefresh_DoesNotMutatePrevious(t *testing.T) {
	f := host.NewFake()
	f.AddServer(1)
	seedClient(f, 1, 7)

	table := schema.For(schema.KindClient)
	previous := Build(f, table, clientRef(1, 7))
	before := previous.Clone()

	f.SetString(host.ClassClient, 1, 7, "name", "changed")
	Refresh(f, table, clientRef(1, 7), previous)

	assert.Equal(t, before.Cells, previous.Cells)
}

func TestClone_IndependentCells(t *testing.T) {
	f := host.NewFake()
	f.AddServer(1)
	seedClient(f, 1, 7)

	snap := Build(f, schema.For(schema.KindClient), clientRef(1, 7))
	clone := snap.Clone()

	clone.Cells[0] = Cell{Name: "tampered", Value: prop.Ok(prop.Int(0))}
	assert.NotEqual(t, "tampered", snap.Cells[0].Name)

	assert.Nil(t, (*Snapshot)(nil).Clone())
}
