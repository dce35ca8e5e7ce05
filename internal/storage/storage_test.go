package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBackend(t *testing.T, open func(t *testing.T) Backend) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		b := open(t)
		defer b.Close()

		_, found, err := b.Get(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("set then get", func(t *testing.T) {
		b := open(t)
		defer b.Close()

		require.NoError(t, b.Set(ctx, "k", []byte(`{"level":3}`)))
		v, found, err := b.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, []byte(`{"level":3}`), v)
	})

	t.Run("overwrite", func(t *testing.T) {
		b := open(t)
		defer b.Close()

		require.NoError(t, b.Set(ctx, "k", []byte("one")))
		require.NoError(t, b.Set(ctx, "k", []byte("two")))
		v, found, err := b.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, []byte("two"), v)
	})
}

func TestMemory(t *testing.T) {
	testBackend(t, func(t *testing.T) Backend { return NewMemory() })
}

func TestSQLite(t *testing.T) {
	testBackend(t, func(t *testing.T) Backend {
		s, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
		require.NoError(t, err)
		return s
	})
}

func TestSQLite_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", []byte("persisted")))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	v, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("persisted"), v)
}

func TestMemory_FailureInjection(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "k", []byte("abc")))

	m.FailGets(2, boom)
	_, _, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, boom)
	_, _, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, boom)

	v, found, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("abc"), v)
	assert.Equal(t, 3, m.GetCalls())

	m.FailSets(1, boom)
	assert.ErrorIs(t, m.Set(ctx, "k", []byte("new")), boom)
	require.NoError(t, m.Set(ctx, "k", []byte("new")))
	assert.Equal(t, 2, m.SetCalls())

	// A failed Set must not write.
	m.FailSets(1, boom)
	_ = m.Set(ctx, "k", []byte("lost"))
	v, _, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "k", []byte("abc")))

	v, _, err := m.Get(ctx, "k")
	require.NoError(t, err)
	v[0] = 'X'

	again, _, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
