package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicemirror/voicemirror/internal/schema"
)

func TestStore_PutGetRemove(t *testing.T) {
	s := NewStore()
	snap := &Snapshot{Kind: schema.KindClient, ID: 7, Version: 1}

	_, ok := s.Get(schema.KindClient, 7)
	assert.False(t, ok)

	s.Put(schema.KindClient, 7, snap)
	got, ok := s.Get(schema.KindClient, 7)
	require.True(t, ok)
	assert.Same(t, snap, got)
	assert.Equal(t, 1, s.Len(schema.KindClient))

	removed, ok := s.Remove(schema.KindClient, 7)
	require.True(t, ok)
	assert.Same(t, snap, removed)
	assert.Equal(t, 0, s.Len(schema.KindClient))

	_, ok = s.Remove(schema.KindClient, 7)
	assert.False(t, ok)
}

func TestStore_AtMostOneCurrentPerEntity(t *testing.T) {
	s := NewStore()
	first := &Snapshot{Kind: schema.KindClient, ID: 7, Version: 1}
	second := &Snapshot{Kind: schema.KindClient, ID: 7, Version: 1}

	s.Put(schema.KindClient, 7, first)
	s.Put(schema.KindClient, 7, second)

	got, ok := s.Get(schema.KindClient, 7)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, s.Len(schema.KindClient))
}

func TestStore_KindsAreIndependent(t *testing.T) {
	s := NewStore()
	s.Put(schema.KindClient, 7, &Snapshot{Kind: schema.KindClient, ID: 7})
	s.Put(schema.KindChannel, 7, &Snapshot{Kind: schema.KindChannel, ID: 7})

	assert.Equal(t, 1, s.Len(schema.KindClient))
	assert.Equal(t, 1, s.Len(schema.KindChannel))

	s.Remove(schema.KindClient, 7)
	_, ok := s.Get(schema.KindChannel, 7)
	assert.True(t, ok, "removing a client must not touch the channel with the same id")
}

func TestStore_Clear(t *testing.T) {
	s := NewStore()
	s.Put(schema.KindClient, 7, &Snapshot{})
	s.Put(schema.KindServer, 1, &Snapshot{})

	s.Clear()

	assert.Equal(t, 0, s.Len(schema.KindClient))
	assert.Equal(t, 0, s.Len(schema.KindServer))
}
