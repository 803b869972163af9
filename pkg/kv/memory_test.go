package kv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetSet(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get("missing")
	assert.Equal(t, ErrNotFound, err)

	require.NoError(t, store.Set("k", []byte("v"), time.Minute))
	value, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)
	assert.Equal(t, time.Minute, store.Expiry("k"))

	require.NoError(t, store.Del("k"))
	_, err = store.Get("k")
	assert.Equal(t, ErrNotFound, err)
}

func TestMemoryStoreListPushOrder(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.ListPush("l", "a"))
	require.NoError(t, store.ListPush("l", "b"))
	require.NoError(t, store.ListPush("l", "c"))

	// LPUSH semantics: newest first.
	items, err := store.ListRange("l", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, items)
}

func TestMemoryStoreListRange(t *testing.T) {
	store := NewMemoryStore()
	for _, v := range []string{"a", "b", "c", "d"} {
		require.NoError(t, store.ListPush("l", v))
	}
	// List is now d, c, b, a.

	tests := []struct {
		name     string
		start    int64
		stop     int64
		expected []string
	}{
		{name: "full range", start: 0, stop: -1, expected: []string{"d", "c", "b", "a"}},
		{name: "inclusive stop", start: 0, stop: 1, expected: []string{"d", "c"}},
		{name: "stop past end clamps", start: 0, stop: 99, expected: []string{"d", "c", "b", "a"}},
		{name: "negative start", start: -2, stop: -1, expected: []string{"b", "a"}},
		{name: "start past end", start: 10, stop: 20, expected: nil},
		{name: "inverted range", start: 2, stop: 1, expected: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items, err := store.ListRange("l", tc.start, tc.stop)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, items)
		})
	}
}

func TestMemoryStoreListRem(t *testing.T) {
	store := NewMemoryStore()
	for _, v := range []string{"a", "b", "a"} {
		require.NoError(t, store.ListPush("l", v))
	}

	require.NoError(t, store.ListRem("l", "a"))
	items, err := store.ListRange("l", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, items)

	// Removing a value that is not present is not an error.
	assert.NoError(t, store.ListRem("l", "zzz"))
}
