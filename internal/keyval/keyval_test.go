package keyval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jharlow/go-storefront-client/internal/keyval"
)

func TestSetGetDelete(t *testing.T) {
	store, err := keyval.New(t.TempDir())
	require.NoError(t, err)

	_, found, err := store.Get("missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set("greeting", []byte("hello")))

	data, found, err := store.Get("greeting")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, store.Delete("greeting"))

	_, found, err = store.Get("greeting")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteAbsentKey(t *testing.T) {
	store, err := keyval.New(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Delete("never-set"))
}

func TestNewRequiresDir(t *testing.T) {
	_, err := keyval.New("")
	assert.Error(t, err)
}
