package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hance08/wren/internal/model"
	"github.com/hance08/wren/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestStore(kv store.KV) *Store {
	s := NewStore(kv)
	s.now = func() time.Time { return fixedNow }
	return s
}

func sampleData() ([]model.Container, map[int64][]model.Account, []model.Category) {
	containers := []model.Container{{ID: 1, Name: "OTP"}, {ID: 2, Name: "Revolut"}}
	accounts := map[int64][]model.Account{
		1: {{ID: 10, ContainerID: 1, Name: "Checking", Type: "CHECKING", Currency: "HUF", Balance: decimal.NewFromInt(120000)}},
		2: {{ID: 20, Name: "EUR wallet", Type: "WALLET", Currency: "EUR", Balance: decimal.RequireFromString("42.50")}},
	}
	categories := []model.Category{{ID: 7, Name: "Groceries"}}
	return containers, accounts, categories
}

func TestStore_ReadEmpty(t *testing.T) {
	s := newTestStore(store.NewMemory())

	snap, err := s.Read(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.IsEmpty())
	assert.Empty(t, snap.Containers)
	assert.Empty(t, snap.Categories)
	assert.True(t, snap.FetchedAt.IsZero())
}

func TestStore_ReplaceThenRead(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(store.NewMemory())
	containers, accounts, categories := sampleData()

	require.NoError(t, s.Replace(ctx, containers, accounts, categories))

	snap, err := s.Read(ctx)
	require.NoError(t, err)
	assert.False(t, snap.IsEmpty())
	assert.Equal(t, containers, snap.Containers)
	assert.Equal(t, categories, snap.Categories)
	assert.True(t, fixedNow.Equal(snap.FetchedAt))
	assert.Equal(t, 2, snap.AccountCount())

	// accounts listed without a container id are stamped with their key
	require.Len(t, snap.AccountsFor(2), 1)
	assert.Equal(t, int64(2), snap.AccountsFor(2)[0].ContainerID)
	assert.True(t, snap.AccountsFor(2)[0].Balance.Equal(decimal.RequireFromString("42.5")))

	for containerID, accs := range snap.AccountsByContainer {
		_, ok := snap.FindContainer(containerID)
		assert.True(t, ok, "container %d must be present", containerID)
		for _, acc := range accs {
			assert.Equal(t, containerID, acc.ContainerID)
		}
	}
}

func TestStore_ReplaceRejectsInconsistentData(t *testing.T) {
	containers, accounts, categories := sampleData()

	tests := []struct {
		name     string
		accounts map[int64][]model.Account
	}{
		{
			name:     "unknown container key",
			accounts: map[int64][]model.Account{99: {{ID: 1}}},
		},
		{
			name:     "account listed under the wrong container",
			accounts: map[int64][]model.Account{1: {{ID: 1, ContainerID: 2}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := newTestStore(store.NewMemory())
			require.NoError(t, s.Replace(ctx, containers, accounts, categories))

			err := s.Replace(ctx, []model.Container{{ID: 1}}, tt.accounts, nil)
			assert.ErrorIs(t, err, ErrInconsistentSnapshot)

			// the previous snapshot is untouched
			snap, err := s.Read(ctx)
			require.NoError(t, err)
			assert.Equal(t, containers, snap.Containers)
			assert.Equal(t, 2, snap.AccountCount())
		})
	}
}

// viewOnlyKV refuses reads made outside View.
type viewOnlyKV struct {
	*store.Memory
	views int
}

func (v *viewOnlyKV) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, &store.StorageError{Op: "get", Key: key, Err: errors.New("read outside a view")}
}

func (v *viewOnlyKV) View(ctx context.Context, fn func(store.KV) error) error {
	v.views++
	return v.Memory.View(ctx, fn)
}

func TestStore_ReadUsesSingleView(t *testing.T) {
	ctx := context.Background()
	kv := &viewOnlyKV{Memory: store.NewMemory()}
	containers, accounts, categories := sampleData()
	require.NoError(t, newTestStore(kv).Replace(ctx, containers, accounts, categories))

	snap, err := newTestStore(kv).Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, kv.views)
	assert.Equal(t, containers, snap.Containers)
	assert.Equal(t, 2, snap.AccountCount())
	assert.True(t, fixedNow.Equal(snap.FetchedAt))
}

// failingKV fails the n-th Set issued inside an Update.
type failingKV struct {
	*store.Memory
	failAt int
}

func (f *failingKV) Update(ctx context.Context, fn func(store.KV) error) error {
	return f.Memory.Update(ctx, func(tx store.KV) error {
		return fn(&countingKV{KV: tx, failAt: f.failAt})
	})
}

type countingKV struct {
	store.KV
	failAt int
	sets   int
}

func (c *countingKV) Set(ctx context.Context, key string, value []byte) error {
	c.sets++
	if c.sets == c.failAt {
		return &store.StorageError{Op: "set", Key: key, Err: errors.New("disk full")}
	}
	return c.KV.Set(ctx, key, value)
}

func TestStore_ReplaceIsAtomic(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	containers, accounts, categories := sampleData()
	require.NoError(t, newTestStore(mem).Replace(ctx, containers, accounts, categories))

	s := newTestStore(&failingKV{Memory: mem, failAt: 3})
	err := s.Replace(ctx,
		[]model.Container{{ID: 5, Name: "New bank"}},
		map[int64][]model.Account{5: {{ID: 50}}},
		[]model.Category{{ID: 8, Name: "Rent"}},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrStorage)

	snap, err := newTestStore(mem).Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, containers, snap.Containers)
	assert.Equal(t, categories, snap.Categories)
	_, ok := snap.FindAccount(50)
	assert.False(t, ok)
}

func TestStore_ReadCorruptValue(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.Set(ctx, KeyContainers, []byte("{not json")))

	_, err := newTestStore(mem).Read(ctx)
	assert.ErrorIs(t, err, store.ErrStorage)
}

func TestSnapshotLookups(t *testing.T) {
	containers, accounts, categories := sampleData()
	snap := model.Snapshot{Containers: containers, AccountsByContainer: accounts, Categories: categories}

	acc, ok := snap.FindAccount(10)
	assert.True(t, ok)
	assert.Equal(t, "Checking", acc.Name)

	cat, ok := snap.FindCategory(7)
	assert.True(t, ok)
	assert.Equal(t, "Groceries", cat.Name)

	_, ok = snap.FindCategory(8)
	assert.False(t, ok)
}
