package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "wren.db"), os.DirFS("../.."))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func implementations(t *testing.T) map[string]Repository {
	return map[string]Repository{
		"sqlite": newSQLiteStore(t),
		"memory": NewMemory(),
	}
}

func TestKV_GetSetDelete(t *testing.T) {
	ctx := context.Background()

	for name, kv := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			_, err := kv.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrRecordNotFound)

			require.NoError(t, kv.Set(ctx, "k", []byte("v1")))
			got, err := kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v1"), got)

			require.NoError(t, kv.Set(ctx, "k", []byte("v2")))
			got, err = kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v2"), got)

			require.NoError(t, kv.Delete(ctx, "k"))
			_, err = kv.Get(ctx, "k")
			assert.ErrorIs(t, err, ErrRecordNotFound)

			// deleting an absent key is not an error
			assert.NoError(t, kv.Delete(ctx, "k"))
		})
	}
}

func TestKV_View(t *testing.T) {
	ctx := context.Background()

	for name, kv := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set(ctx, "a", []byte("1")))

			err := kv.View(ctx, func(tx KV) error {
				got, err := tx.Get(ctx, "a")
				require.NoError(t, err)
				assert.Equal(t, []byte("1"), got)
				return tx.Set(ctx, "b", []byte("2"))
			})
			require.NoError(t, err)

			_, err = kv.Get(ctx, "b")
			assert.ErrorIs(t, err, ErrRecordNotFound)
		})
	}
}

func TestKV_Update(t *testing.T) {
	ctx := context.Background()

	for name, kv := range implementations(t) {
		t.Run(name+" commits all writes", func(t *testing.T) {
			err := kv.Update(ctx, func(tx KV) error {
				if err := tx.Set(ctx, "a", []byte("1")); err != nil {
					return err
				}
				return tx.Set(ctx, "b", []byte("2"))
			})
			require.NoError(t, err)

			a, err := kv.Get(ctx, "a")
			require.NoError(t, err)
			b, err := kv.Get(ctx, "b")
			require.NoError(t, err)
			assert.Equal(t, "1", string(a))
			assert.Equal(t, "2", string(b))
		})

		t.Run(name+" rolls back on error", func(t *testing.T) {
			boom := errors.New("boom")
			err := kv.Update(ctx, func(tx KV) error {
				if err := tx.Set(ctx, "a", []byte("changed")); err != nil {
					return err
				}
				return boom
			})
			assert.ErrorIs(t, err, boom)

			a, err := kv.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, "1", string(a))
		})
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "wren.db")

	s, err := NewStore(path, os.DirFS("../.."))
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "pending_transactions", []byte(`[]`)))
	require.NoError(t, s.Close())

	reopened, err := NewStore(path, os.DirFS("../.."))
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "pending_transactions")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestStore_NestedUpdateIsStorageError(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	err := s.Update(ctx, func(tx KV) error {
		return tx.Update(ctx, func(KV) error { return nil })
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)
}

func TestStorageError(t *testing.T) {
	cause := errors.New("disk full")
	err := wrapErr("set", "k", cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, `storage set "k" failed: disk full`, err.Error())
	assert.Nil(t, wrapErr("set", "k", nil))

	// already wrapped errors are not wrapped twice
	assert.Same(t, err, wrapErr("commit", "", err))
}
