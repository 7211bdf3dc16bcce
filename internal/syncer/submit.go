package syncer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hance08/wren/internal/finance"
	"github.com/hance08/wren/internal/model"
)

// SubmitOutcome reports where submitted transactions went. When Queued is
// set LocalIDs holds the queue entries, otherwise Created holds what the
// server returned for a single submission.
type SubmitOutcome struct {
	Queued    bool
	LocalIDs  []string
	Submitted int
	Created   model.Transaction
}

// Submit sends tx to the server when online. While offline, or when the
// server cannot be reached, tx is queued instead. Validation and
// authentication failures are returned and nothing is queued.
func (c *Coordinator) Submit(ctx context.Context, tx model.Transaction) (SubmitOutcome, error) {
	if c.State() != Online {
		return c.enqueue(ctx, []model.Transaction{tx}, nil)
	}

	key := uuid.NewString()
	created, err := c.api.CreateTransaction(ctx, tx, key)
	if err == nil {
		c.logger.Info("transaction submitted", "description", tx.Description)
		return SubmitOutcome{Submitted: 1, Created: created}, nil
	}

	if !c.shouldQueue(ctx, err) {
		return SubmitOutcome{}, err
	}

	c.goOffline(err)
	return c.enqueue(ctx, []model.Transaction{tx}, []string{key})
}

// SubmitBatch sends txs through the bulk endpoint when online, falling back
// to queueing each transaction under the key it was sent with.
func (c *Coordinator) SubmitBatch(ctx context.Context, txs []model.Transaction) (SubmitOutcome, error) {
	if len(txs) == 0 {
		return SubmitOutcome{}, nil
	}

	if c.State() != Online {
		return c.enqueue(ctx, txs, nil)
	}

	keys := make([]string, len(txs))
	for i := range keys {
		keys[i] = uuid.NewString()
	}

	err := c.api.CreateTransactionsBulk(ctx, txs, keys)
	if err == nil {
		c.logger.Info("transactions submitted", "count", len(txs))
		return SubmitOutcome{Submitted: len(txs)}, nil
	}

	if !c.shouldQueue(ctx, err) {
		return SubmitOutcome{}, err
	}

	c.goOffline(err)
	return c.enqueue(ctx, txs, keys)
}

func (c *Coordinator) shouldQueue(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return !isStorage(err) && finance.KindOf(err) == finance.KindNetwork
}

func (c *Coordinator) goOffline(cause error) {
	c.setState(Offline)
	c.logger.Warn("server unreachable, switching to offline mode", "err", cause)
	c.notifier.Notify(Status{Kind: StatusOffline})
}

// enqueue stores txs in order. keys holds the idempotency keys of an online
// attempt that already went out; nil gets fresh keys.
func (c *Coordinator) enqueue(ctx context.Context, txs []model.Transaction, keys []string) (SubmitOutcome, error) {
	out := SubmitOutcome{Queued: true, LocalIDs: make([]string, 0, len(txs))}

	for i, tx := range txs {
		var key string
		if keys != nil {
			key = keys[i]
		}
		id, err := c.queue.EnqueueWithKey(ctx, tx, key)
		if err != nil {
			if len(out.LocalIDs) > 0 {
				c.notifier.Notify(Status{Kind: StatusQueued, Count: len(out.LocalIDs)})
			}
			return out, fmt.Errorf("failed to queue transaction: %w", err)
		}
		out.LocalIDs = append(out.LocalIDs, id)
	}

	c.notifier.Notify(Status{Kind: StatusQueued, Count: len(out.LocalIDs)})
	return out, nil
}
