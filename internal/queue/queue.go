// Package queue holds transactions that could not be submitted yet and
// replays them in order once the remote system is reachable.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/hance08/wren/internal/finance"
	"github.com/hance08/wren/internal/model"
	"github.com/hance08/wren/internal/store"
)

// Key is the storage key holding the whole queue as one JSON array.
const Key = "pending_transactions"

// SubmitFunc delivers one pending entry to the remote system. A nil error
// means the remote side confirmed acceptance.
type SubmitFunc func(ctx context.Context, entry model.PendingTransaction) error

type FlushReport struct {
	Succeeded     int
	Failed        int
	Rejected      int
	Skipped       int
	FailedEntries []model.PendingTransaction
}

type Queue struct {
	mu     sync.Mutex
	kv     store.KV
	logger *log.Logger
	now    func() time.Time
	newID  func() string
}

type Option func(*Queue)

func WithLogger(logger *log.Logger) Option {
	return func(q *Queue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

func New(kv store.KV, opts ...Option) *Queue {
	q := &Queue{
		kv:     kv,
		logger: log.New(io.Discard),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue appends tx at the tail and persists the queue before returning.
func (q *Queue) Enqueue(ctx context.Context, tx model.Transaction) (string, error) {
	return q.EnqueueWithKey(ctx, tx, "")
}

// EnqueueWithKey is Enqueue for a transaction whose submission was already
// attempted under idempotencyKey; the key is kept so a replay cannot book
// it twice. An empty key gets a fresh one.
func (q *Queue) EnqueueWithKey(ctx context.Context, tx model.Transaction, idempotencyKey string) (string, error) {
	if idempotencyKey == "" {
		idempotencyKey = q.newID()
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	entries, err := q.load(ctx)
	if err != nil {
		return "", err
	}

	entry := model.PendingTransaction{
		LocalID:        q.newID(),
		IdempotencyKey: idempotencyKey,
		EnqueuedAt:     q.now().UTC(),
		Transaction:    tx,
	}
	entries = append(entries, entry)

	if err := q.save(ctx, entries); err != nil {
		return "", err
	}

	q.logger.Info("transaction queued", "local_id", entry.LocalID, "size", len(entries))
	return entry.LocalID, nil
}

func (q *Queue) List(ctx context.Context) ([]model.PendingTransaction, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.load(ctx)
}

func (q *Queue) Size(ctx context.Context) (int, error) {
	entries, err := q.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Discard drops an entry without submitting it.
func (q *Queue) Discard(ctx context.Context, localID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries, err := q.load(ctx)
	if err != nil {
		return err
	}

	i := indexOf(entries, localID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, localID)
	}

	entries = slices.Delete(entries, i, i+1)
	if err := q.save(ctx, entries); err != nil {
		return err
	}

	q.logger.Info("pending transaction discarded", "local_id", localID)
	return nil
}

// Retry clears the rejected flag so the next flush submits the entry again.
func (q *Queue) Retry(ctx context.Context, localID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries, err := q.load(ctx)
	if err != nil {
		return err
	}

	i := indexOf(entries, localID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, localID)
	}

	entries[i].Rejected = false
	return q.save(ctx, entries)
}

// Flush submits every entry in FIFO order, one at a time. Confirmed entries
// are removed and the queue is persisted after every change, so an
// interrupted flush leaves only unconfirmed entries behind.
//
// Network failures and server-side rejections are recorded on the entry and
// the flush moves on. Rejected entries are skipped by later flushes until
// they are retried or discarded. An expired session stops the flush and is
// returned together with the report so far, as are storage failures and
// context cancellation.
func (q *Queue) Flush(ctx context.Context, submit SubmitFunc) (FlushReport, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var report FlushReport

	entries, err := q.load(ctx)
	if err != nil {
		return report, err
	}
	if len(entries) == 0 {
		return report, nil
	}

	q.logger.Debug("flushing pending transactions", "size", len(entries))

	remaining := slices.Clone(entries)
	pos := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if entry.Rejected {
			report.Skipped++
			pos++
			continue
		}

		err := submit(ctx, entry)
		if err == nil {
			remaining = slices.Delete(remaining, pos, pos+1)
			if err := q.save(ctx, remaining); err != nil {
				return report, err
			}
			report.Succeeded++
			q.logger.Debug("pending transaction submitted", "local_id", entry.LocalID)
			continue
		}

		switch {
		case errors.Is(err, store.ErrStorage):
			return report, err
		case ctx.Err() != nil:
			return report, ctx.Err()
		case errors.Is(err, finance.ErrAuthExpired):
			q.logger.Warn("flush stopped, session expired", "local_id", entry.LocalID)
			return report, err
		}

		entry.Attempts++
		entry.LastError = err.Error()
		if errors.Is(err, finance.ErrValidation) {
			entry.Rejected = true
			report.Rejected++
		}
		remaining[pos] = entry
		if err := q.save(ctx, remaining); err != nil {
			return report, err
		}

		report.Failed++
		report.FailedEntries = append(report.FailedEntries, entry)
		q.logger.Warn("pending transaction failed", "local_id", entry.LocalID,
			"attempts", entry.Attempts, "rejected", entry.Rejected, "err", err)
		pos++
	}

	return report, nil
}

func (q *Queue) load(ctx context.Context) ([]model.PendingTransaction, error) {
	raw, err := q.kv.Get(ctx, Key)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return []model.PendingTransaction{}, nil
		}
		return nil, err
	}

	var entries []model.PendingTransaction
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &store.StorageError{Op: "decode", Key: Key, Err: err}
	}
	if entries == nil {
		entries = []model.PendingTransaction{}
	}
	return entries, nil
}

func (q *Queue) save(ctx context.Context, entries []model.PendingTransaction) error {
	if entries == nil {
		entries = []model.PendingTransaction{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return &store.StorageError{Op: "encode", Key: Key, Err: err}
	}
	return q.kv.Set(ctx, Key, raw)
}

func indexOf(entries []model.PendingTransaction, localID string) int {
	return slices.IndexFunc(entries, func(e model.PendingTransaction) bool {
		return e.LocalID == localID
	})
}
