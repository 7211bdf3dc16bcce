// Package syncer coordinates the reference snapshot and the pending queue
// with the remote finance API and tracks whether the client is online.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hance08/wren/internal/finance"
	"github.com/hance08/wren/internal/model"
	"github.com/hance08/wren/internal/queue"
	"github.com/hance08/wren/internal/snapshot"
	"github.com/hance08/wren/internal/store"
	"golang.org/x/sync/errgroup"
)

const DefaultAccountConcurrency = 4

// API is the subset of the remote finance API the coordinator needs.
type API interface {
	ListContainers(ctx context.Context) ([]model.Container, error)
	ListAccounts(ctx context.Context, containerID int64) ([]model.Account, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateTransaction(ctx context.Context, tx model.Transaction, idempotencyKey string) (model.Transaction, error)
	CreateTransactionsBulk(ctx context.Context, txs []model.Transaction, idempotencyKeys []string) error
	Health(ctx context.Context) (bool, error)
}

type Config struct {
	// AccountConcurrency bounds the parallel per-container account fetches.
	AccountConcurrency int
}

// Result describes a finished sync. Stale is set when the remote fetch
// failed and Snapshot is the previously stored copy; Cause then holds the
// fetch error.
type Result struct {
	Snapshot model.Snapshot
	Flush    queue.FlushReport
	Stale    bool
	Cause    error
}

type Coordinator struct {
	cfg       Config
	api       API
	snapshots *snapshot.Store
	queue     *queue.Queue
	notifier  Notifier
	logger    *log.Logger

	mu    sync.Mutex
	state State
}

type Option func(*Coordinator)

func WithLogger(logger *log.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(c *Coordinator) {
		if n != nil {
			c.notifier = n
		}
	}
}

func New(cfg Config, api API, snapshots *snapshot.Store, q *queue.Queue, opts ...Option) *Coordinator {
	if cfg.AccountConcurrency <= 0 {
		cfg.AccountConcurrency = DefaultAccountConcurrency
	}

	c := &Coordinator{
		cfg:       cfg,
		api:       api,
		snapshots: snapshots,
		queue:     q,
		notifier:  nopNotifier{},
		logger:    log.New(io.Discard),
		state:     Offline,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	prev := c.state
	c.state = s
	c.mu.Unlock()

	if prev != s {
		c.logger.Debug("connectivity state changed", "from", prev, "to", s)
	}
}

// Snapshot returns the stored reference data regardless of state.
func (c *Coordinator) Snapshot(ctx context.Context) (model.Snapshot, error) {
	return c.snapshots.Read(ctx)
}

// Sync refreshes the reference snapshot and, when that succeeds, flushes the
// pending queue.
//
// When the remote fetch fails for any reason other than an expired session
// and a snapshot is stored, the coordinator goes offline and returns the
// stored snapshot marked stale with a nil error. Without a stored snapshot
// the result is ErrNoOfflineData.
func (c *Coordinator) Sync(ctx context.Context) (Result, error) {
	c.mu.Lock()
	if c.state == Syncing {
		c.mu.Unlock()
		return Result{}, ErrSyncInProgress
	}
	c.state = Syncing
	c.mu.Unlock()

	c.logger.Debug("sync started")
	start := time.Now()

	containers, accounts, categories, err := c.fetch(ctx)
	if err != nil {
		return c.fetchFailed(ctx, err)
	}

	if err := c.snapshots.Replace(ctx, containers, accounts, categories); err != nil {
		c.setState(Offline)
		return Result{}, fmt.Errorf("failed to store snapshot: %w", err)
	}

	report, err := c.queue.Flush(ctx, c.submitPending)
	if err != nil {
		c.setState(Offline)
		return Result{Flush: report}, fmt.Errorf("failed to flush pending transactions: %w", err)
	}

	snap, err := c.snapshots.Read(ctx)
	if err != nil {
		c.setState(Offline)
		return Result{Flush: report}, err
	}

	c.setState(Online)
	c.logger.Info("sync finished",
		"containers", len(snap.Containers),
		"accounts", snap.AccountCount(),
		"categories", len(snap.Categories),
		"flushed", report.Succeeded,
		"elapsed", time.Since(start))

	c.notifier.Notify(Status{Kind: StatusSynced})
	if report.Failed > 0 {
		c.notifier.Notify(Status{Kind: StatusFlushFailed, Count: report.Failed})
	}

	return Result{Snapshot: snap, Flush: report}, nil
}

func (c *Coordinator) fetchFailed(ctx context.Context, cause error) (Result, error) {
	c.setState(Offline)

	if errors.Is(cause, finance.ErrAuthExpired) {
		c.logger.Warn("sync rejected, session expired", "err", cause)
		return Result{}, cause
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, ctxErr
	}

	snap, err := c.snapshots.Read(ctx)
	if err != nil {
		return Result{}, err
	}
	if snap.FetchedAt.IsZero() && snap.IsEmpty() {
		c.logger.Error("server unreachable and no offline data", "err", cause)
		return Result{}, fmt.Errorf("%w: %w", ErrNoOfflineData, cause)
	}

	c.logger.Warn("server unreachable, using offline data", "fetched_at", snap.FetchedAt, "err", cause)
	c.notifier.Notify(Status{Kind: StatusOffline})

	return Result{Snapshot: snap, Stale: true, Cause: cause}, nil
}

func (c *Coordinator) fetch(ctx context.Context) ([]model.Container, map[int64][]model.Account, []model.Category, error) {
	containers, err := c.api.ListContainers(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	perContainer := make([][]model.Account, len(containers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.AccountConcurrency)
	for i, container := range containers {
		g.Go(func() error {
			accounts, err := c.api.ListAccounts(gctx, container.ID)
			if err != nil {
				return err
			}
			perContainer[i] = accounts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	accounts := make(map[int64][]model.Account, len(containers))
	for i, container := range containers {
		accounts[container.ID] = perContainer[i]
	}

	categories, err := c.api.ListCategories(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	return containers, accounts, categories, nil
}

// FlushPending submits the queued transactions without refreshing the
// snapshot.
func (c *Coordinator) FlushPending(ctx context.Context) (queue.FlushReport, error) {
	report, err := c.queue.Flush(ctx, c.submitPending)
	if err != nil {
		if errors.Is(err, finance.ErrAuthExpired) {
			c.setState(Offline)
		}
		return report, err
	}

	if report.Succeeded > 0 {
		c.setState(Online)
	}
	if report.Failed > 0 {
		c.notifier.Notify(Status{Kind: StatusFlushFailed, Count: report.Failed})
	}
	return report, nil
}

// Probe reports whether the server answers its health check.
func (c *Coordinator) Probe(ctx context.Context) bool {
	up, err := c.api.Health(ctx)
	if err != nil {
		c.logger.Debug("health check failed", "err", err)
		return false
	}
	return up
}

func (c *Coordinator) submitPending(ctx context.Context, entry model.PendingTransaction) error {
	_, err := c.api.CreateTransaction(ctx, entry.Transaction, entry.IdempotencyKey)
	return err
}

func isStorage(err error) bool {
	return errors.Is(err, store.ErrStorage)
}
