package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryForcedError(t *testing.T) {
	boom := errors.New("disk full")
	store := NewMemory(map[string]string{KeySpeed: "5"})
	store.Err = boom

	_, _, err := store.Get(KeySpeed)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, store.Set(KeySpeed, "6"), boom)
	assert.ErrorIs(t, store.Delete(KeySpeed), boom)
	assert.Zero(t, store.Writes())

	store.Err = nil
	value, ok, err := store.Get(KeySpeed)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "5", value)
}
