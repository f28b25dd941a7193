package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.SetMany(map[string]string{KeyToken: "tok1", KeyUser: "{}"}))
	assert.Equal(t, 2, store.Len())

	token, ok, err := store.Get(KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok1", token)

	require.NoError(t, store.Delete(KeyToken, KeyUser))
	require.NoError(t, store.Delete(KeyToken, KeyUser))
	assert.Equal(t, 0, store.Len())
}
