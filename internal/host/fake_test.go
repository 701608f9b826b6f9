package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicemirror/voicemirror/internal/prop"
)

func TestFake_FetchRoundTrip(t *testing.T) {
	f := NewFake()
	f.AddServer(1)
	f.AddClient(1, 7)
	f.SetString(ClassClient, 1, 7, "name", "Alice")
	f.SetInt(ClassClient, 1, 7, "talk_power", 75)

	name, err := f.ClientString(1, 7, "name")
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	power, err := f.ClientInt(1, 7, "talk_power")
	require.NoError(t, err)
	assert.Equal(t, int64(75), power)
}

func TestFake_MissingEntityAndProperty(t *testing.T) {
	f := NewFake()
	f.AddServer(1)

	_, err := f.ClientString(1, 99, "name")
	assert.Equal(t, prop.KindNotFound, KindOf(err))

	f.AddClient(1, 7)
	_, err = f.ClientString(1, 7, "name")
	assert.Equal(t, prop.KindNotFound, KindOf(err), "unset property reads as not_found")
}

func TestFake_FailureInjection(t *testing.T) {
	f := NewFake()
	f.AddServer(1)
	f.AddClient(1, 7)
	f.SetString(ClassClient, 1, 7, "name", "Alice")

	f.FailWith(ClassClient, 1, 7, "name", prop.KindUnavailable)
	_, err := f.ClientString(1, 7, "name")
	require.Error(t, err)
	assert.Equal(t, prop.KindUnavailable, KindOf(err))

	// Sibling properties are unaffected.
	f.SetInt(ClassClient, 1, 7, "talk_power", 10)
	_, err = f.ClientInt(1, 7, "talk_power")
	assert.NoError(t, err)

	f.ClearFailure(ClassClient, 1, 7, "name")
	name, err := f.ClientString(1, 7, "name")
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)
}

func TestFake_ListOrderIsStable(t *testing.T) {
	f := NewFake()
	f.AddServer(1)
	for _, id := range []uint64{30, 10, 20} {
		f.AddClient(1, id)
	}

	first, err := f.ListClients(1)
	require.NoError(t, err)
	second, err := f.ListClients(1)
	require.NoError(t, err)

	assert.Equal(t, []uint64{30, 10, 20}, first, "insertion order, not sorted")
	assert.Equal(t, first, second)
}

func TestFake_RemoveClient(t *testing.T) {
	f := NewFake()
	f.AddServer(1)
	f.AddClient(1, 7)
	f.AddClient(1, 8)
	f.RemoveClient(1, 7)

	ids, err := f.ListClients(1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{8}, ids)

	_, err = f.ClientString(1, 7, "name")
	assert.Equal(t, prop.KindNotFound, KindOf(err))
}

func TestKindOf_UnclassifiedErrorIsUnavailable(t *testing.T) {
	assert.Equal(t, prop.KindUnavailable, KindOf(assert.AnError))
}
