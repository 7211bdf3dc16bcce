package syncer

import (
	"context"
	"sync"
	"testing"

	"github.com/hance08/wren/internal/finance"
	"github.com/hance08/wren/internal/model"
	"github.com/hance08/wren/internal/queue"
	"github.com/hance08/wren/internal/snapshot"
	"github.com/hance08/wren/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errUnreachable = &finance.Error{Kind: finance.KindNetwork, Op: "list containers", Message: "connection refused"}
	errSession     = &finance.Error{Kind: finance.KindAuth, Op: "list containers", Status: 401}
)

type fakeAPI struct {
	mu sync.Mutex

	containers []model.Container
	accounts   map[int64][]model.Account
	categories []model.Category

	fetchErr   error
	accountErr error
	createErr  error
	bulkErr    error
	healthy    bool

	created []model.Transaction
	keys    []string
	bulk    [][]model.Transaction

	bulkKeys [][]string

	onFetch func()
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		containers: []model.Container{{ID: 1, Name: "Personal"}, {ID: 2, Name: "Shared"}},
		accounts: map[int64][]model.Account{
			1: {{ID: 10, Name: "Checking", Currency: "EUR"}},
			2: {{ID: 20, Name: "Joint", Currency: "EUR"}},
		},
		categories: []model.Category{{ID: 5, Name: "Food"}},
		healthy:    true,
	}
}

func (f *fakeAPI) ListContainers(ctx context.Context) ([]model.Container, error) {
	if f.onFetch != nil {
		f.onFetch()
	}
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.containers, nil
}

func (f *fakeAPI) ListAccounts(ctx context.Context, containerID int64) ([]model.Account, error) {
	if f.accountErr != nil {
		return nil, f.accountErr
	}
	return f.accounts[containerID], nil
}

func (f *fakeAPI) ListCategories(ctx context.Context) ([]model.Category, error) {
	return f.categories, nil
}

func (f *fakeAPI) CreateTransaction(ctx context.Context, tx model.Transaction, key string) (model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.keys = append(f.keys, key)
	if f.createErr != nil {
		return model.Transaction{}, f.createErr
	}
	id := int64(len(f.created) + 1)
	tx.ID = &id
	f.created = append(f.created, tx)
	return tx, nil
}

func (f *fakeAPI) CreateTransactionsBulk(ctx context.Context, txs []model.Transaction, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.bulkKeys = append(f.bulkKeys, keys)
	if f.bulkErr != nil {
		return f.bulkErr
	}
	f.bulk = append(f.bulk, txs)
	return nil
}

func (f *fakeAPI) Health(ctx context.Context) (bool, error) {
	if !f.healthy {
		return false, errUnreachable
	}
	return true, nil
}

type fixture struct {
	api      *fakeAPI
	kv       *store.Memory
	queue    *queue.Queue
	coord    *Coordinator
	statuses []Status
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{api: newFakeAPI(), kv: store.NewMemory()}
	f.queue = queue.New(f.kv)
	f.coord = New(Config{AccountConcurrency: 2}, f.api, snapshot.NewStore(f.kv), f.queue,
		WithNotifier(NotifierFunc(func(s Status) { f.statuses = append(f.statuses, s) })))
	return f
}

func (f *fixture) kinds() []StatusKind {
	out := make([]StatusKind, 0, len(f.statuses))
	for _, s := range f.statuses {
		out = append(out, s.Kind)
	}
	return out
}

func coffee() model.Transaction {
	return model.Transaction{
		Description: "Coffee",
		Amount:      decimal.RequireFromString("4.50"),
		Currency:    "EUR",
		Type:        model.TypeExpense,
		AccountID:   10,
		CategoryID:  5,
	}
}

func TestInitialState(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, Offline, f.coord.State())
	assert.Equal(t, "offline", f.coord.State().String())
}

func TestOfflineCoffeeThenReconnect(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	out, err := f.coord.Submit(ctx, coffee())
	require.NoError(t, err)
	assert.True(t, out.Queued)
	require.Len(t, out.LocalIDs, 1)

	size, err := f.queue.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, size)
	assert.Empty(t, f.api.created)

	var during State
	f.api.onFetch = func() { during = f.coord.State() }

	res, err := f.coord.Sync(ctx)
	require.NoError(t, err)

	assert.Equal(t, Syncing, during)
	assert.Equal(t, Online, f.coord.State())
	assert.False(t, res.Stale)
	assert.Equal(t, 1, res.Flush.Succeeded)

	size, err = f.queue.Size(ctx)
	require.NoError(t, err)
	assert.Zero(t, size)

	require.Len(t, f.api.created, 1)
	assert.Equal(t, "Coffee", f.api.created[0].Description)
	assert.True(t, decimal.RequireFromString("4.5").Equal(f.api.created[0].Amount))
	assert.NotEmpty(t, f.api.keys[0])

	assert.Equal(t, []StatusKind{StatusQueued, StatusSynced}, f.kinds())
}

func TestSyncStoresSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.coord.Sync(ctx)
	require.NoError(t, err)

	assert.Len(t, res.Snapshot.Containers, 2)
	assert.Equal(t, 2, res.Snapshot.AccountCount())
	joint := res.Snapshot.AccountsFor(2)
	require.Len(t, joint, 1)
	assert.Equal(t, int64(20), joint[0].ID)
	assert.Equal(t, int64(2), joint[0].ContainerID)
	assert.False(t, res.Snapshot.FetchedAt.IsZero())

	stored, err := f.coord.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Snapshot.Containers, stored.Containers)
}

func TestSyncFallsBackToStoredSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.coord.Sync(ctx)
	require.NoError(t, err)
	_, err = f.queue.Enqueue(ctx, coffee())
	require.NoError(t, err)

	tests := []struct {
		name       string
		fetchErr   error
		accountErr error
	}{
		{name: "containers unreachable", fetchErr: errUnreachable},
		{name: "accounts unreachable", accountErr: errUnreachable},
		{name: "server error", fetchErr: &finance.Error{Kind: finance.KindNetwork, Status: 503, Op: "list containers"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.api.fetchErr = tt.fetchErr
			f.api.accountErr = tt.accountErr
			f.statuses = nil

			res, err := f.coord.Sync(ctx)
			require.NoError(t, err)

			assert.True(t, res.Stale)
			assert.ErrorIs(t, res.Cause, finance.ErrNetwork)
			assert.Equal(t, Offline, f.coord.State())
			assert.Len(t, res.Snapshot.Containers, 2)
			assert.Equal(t, []StatusKind{StatusOffline}, f.kinds())

			// No flush while the fetch failed.
			size, err := f.queue.Size(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, size)
			assert.Empty(t, f.api.created)
		})
	}
}

func TestSyncWithoutOfflineData(t *testing.T) {
	f := newFixture(t)
	f.api.fetchErr = errUnreachable

	_, err := f.coord.Sync(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoOfflineData)
	assert.ErrorIs(t, err, finance.ErrNetwork)
	assert.Equal(t, Offline, f.coord.State())
}

func TestSyncSessionExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.coord.Sync(ctx)
	require.NoError(t, err)

	f.api.fetchErr = errSession
	_, err = f.coord.Sync(ctx)
	assert.ErrorIs(t, err, finance.ErrAuthExpired)
	assert.NotErrorIs(t, err, ErrNoOfflineData)
	assert.Equal(t, Offline, f.coord.State())
}

func TestSyncFlushAuthExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.queue.Enqueue(ctx, coffee())
	require.NoError(t, err)

	f.api.createErr = &finance.Error{Kind: finance.KindAuth, Op: "create transaction", Status: 401}

	_, err = f.coord.Sync(ctx)
	assert.ErrorIs(t, err, finance.ErrAuthExpired)
	assert.Equal(t, Offline, f.coord.State())

	size, err := f.queue.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, size)
}

func TestSyncReportsFlushFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.queue.Enqueue(ctx, coffee())
	require.NoError(t, err)

	f.api.createErr = &finance.Error{Kind: finance.KindNetwork, Op: "create transaction", Message: "timeout"}

	res, err := f.coord.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Flush.Failed)
	assert.Equal(t, Online, f.coord.State())
	assert.Equal(t, []StatusKind{StatusSynced, StatusFlushFailed}, f.kinds())
	assert.Equal(t, 1, f.statuses[1].Count)
}

func TestSyncInProgress(t *testing.T) {
	f := newFixture(t)

	var nested error
	f.api.onFetch = func() {
		f.api.onFetch = nil
		_, nested = f.coord.Sync(context.Background())
	}

	_, err := f.coord.Sync(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, nested, ErrSyncInProgress)
}

func TestSubmitOnline(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.coord.Sync(ctx)
	require.NoError(t, err)

	out, err := f.coord.Submit(ctx, coffee())
	require.NoError(t, err)
	assert.False(t, out.Queued)
	require.NotNil(t, out.Created.ID)
	assert.Equal(t, 1, out.Submitted)
}

func TestSubmitNetworkFailureQueues(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.coord.Sync(ctx)
	require.NoError(t, err)

	f.api.createErr = errUnreachable
	out, err := f.coord.Submit(ctx, coffee())
	require.NoError(t, err)
	assert.True(t, out.Queued)
	assert.Equal(t, Offline, f.coord.State())

	entries, err := f.queue.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	// The queued entry keeps the key of the failed attempt.
	assert.Equal(t, f.api.keys[0], entries[0].IdempotencyKey)
}

func TestSubmitRejectedIsNotQueued(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		err  error
	}{
		{name: "validation", err: &finance.Error{Kind: finance.KindValidation, Op: "create transaction", Field: "amount"}},
		{name: "auth", err: &finance.Error{Kind: finance.KindAuth, Op: "create transaction", Status: 403}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.coord.Sync(ctx)
			require.NoError(t, err)

			f.api.createErr = tt.err
			_, err = f.coord.Submit(ctx, coffee())
			assert.ErrorIs(t, err, tt.err)

			size, err := f.queue.Size(ctx)
			require.NoError(t, err)
			assert.Zero(t, size)
		})
	}
}

func TestSubmitBatch(t *testing.T) {
	ctx := context.Background()
	txs := []model.Transaction{coffee(), coffee()}

	t.Run("online uses bulk endpoint", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.coord.Sync(ctx)
		require.NoError(t, err)

		out, err := f.coord.SubmitBatch(ctx, txs)
		require.NoError(t, err)
		assert.Equal(t, 2, out.Submitted)
		require.Len(t, f.api.bulk, 1)
		assert.Len(t, f.api.bulk[0], 2)
	})

	t.Run("bulk failure queues each", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.coord.Sync(ctx)
		require.NoError(t, err)

		f.api.bulkErr = errUnreachable
		out, err := f.coord.SubmitBatch(ctx, txs)
		require.NoError(t, err)
		assert.True(t, out.Queued)
		assert.Len(t, out.LocalIDs, 2)

		entries, err := f.queue.List(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.NotEqual(t, entries[0].IdempotencyKey, entries[1].IdempotencyKey)

		require.Len(t, f.api.bulkKeys, 1)
		assert.Equal(t, f.api.bulkKeys[0], []string{entries[0].IdempotencyKey, entries[1].IdempotencyKey})
	})

	t.Run("lost bulk confirmation replays with the sent keys", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.coord.Sync(ctx)
		require.NoError(t, err)

		f.api.bulkErr = errUnreachable
		_, err = f.coord.SubmitBatch(ctx, txs)
		require.NoError(t, err)

		f.api.bulkErr = nil
		result, err := f.coord.Sync(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Flush.Succeeded)

		require.Len(t, f.api.bulkKeys, 1)
		assert.Equal(t, f.api.bulkKeys[0], f.api.keys)
	})

	t.Run("offline queues each", func(t *testing.T) {
		f := newFixture(t)

		out, err := f.coord.SubmitBatch(ctx, txs)
		require.NoError(t, err)
		assert.True(t, out.Queued)
		assert.Empty(t, f.api.bulk)
		assert.Equal(t, []Status{{Kind: StatusQueued, Count: 2}}, f.statuses)
	})
}

func TestFlushPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.queue.Enqueue(ctx, coffee())
	require.NoError(t, err)

	report, err := f.coord.FlushPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, Online, f.coord.State())
}

func TestProbe(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.coord.Probe(context.Background()))

	f.api.healthy = false
	assert.False(t, f.coord.Probe(context.Background()))
}

func TestStatusMessage(t *testing.T) {
	assert.Equal(t, "2 pending transaction(s) could not be submitted", Status{Kind: StatusFlushFailed, Count: 2}.Message())
	assert.NotEmpty(t, Status{Kind: StatusOffline}.Message())
}
