// Package snapshot keeps the durable local copy of the reference data
// (containers, accounts per container and categories) that the client
// works against while disconnected.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hance08/wren/internal/model"
	"github.com/hance08/wren/internal/store"
)

const (
	KeyContainers = "offline_containers"
	KeyAccounts   = "offline_accounts"
	KeyCategories = "offline_categories"
	KeyFetchedAt  = "offline_fetched_at"
)

var ErrInconsistentSnapshot = errors.New("inconsistent snapshot")

type Store struct {
	kv  store.KV
	now func() time.Time
}

func NewStore(kv store.KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

// Read returns the last stored snapshot. A store that has never been
// written yields an empty snapshot and no error.
func (s *Store) Read(ctx context.Context) (model.Snapshot, error) {
	snap := model.Snapshot{AccountsByContainer: map[int64][]model.Account{}}

	err := s.kv.View(ctx, func(tx store.KV) error {
		if err := readKey(ctx, tx, KeyContainers, &snap.Containers); err != nil {
			return err
		}
		if err := readKey(ctx, tx, KeyAccounts, &snap.AccountsByContainer); err != nil {
			return err
		}
		if err := readKey(ctx, tx, KeyCategories, &snap.Categories); err != nil {
			return err
		}
		return readKey(ctx, tx, KeyFetchedAt, &snap.FetchedAt)
	})
	if err != nil {
		return model.Snapshot{}, err
	}

	return snap, nil
}

// Replace swaps all three collections in a single storage transaction.
func (s *Store) Replace(
	ctx context.Context,
	containers []model.Container,
	accountsByContainer map[int64][]model.Account,
	categories []model.Category,
) error {
	accounts, err := normalize(containers, accountsByContainer)
	if err != nil {
		return err
	}

	if containers == nil {
		containers = []model.Container{}
	}
	if categories == nil {
		categories = []model.Category{}
	}

	values := []struct {
		key string
		v   any
	}{
		{KeyContainers, containers},
		{KeyAccounts, accounts},
		{KeyCategories, categories},
		{KeyFetchedAt, s.now().UTC()},
	}

	encoded := make(map[string][]byte, len(values))
	for _, val := range values {
		raw, err := json.Marshal(val.v)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", val.key, err)
		}
		encoded[val.key] = raw
	}

	return s.kv.Update(ctx, func(tx store.KV) error {
		for _, val := range values {
			if err := tx.Set(ctx, val.key, encoded[val.key]); err != nil {
				return err
			}
		}
		return nil
	})
}

func readKey(ctx context.Context, kv store.KV, key string, dst any) error {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &store.StorageError{Op: "decode", Key: key, Err: err}
	}
	return nil
}

// normalize copies accountsByContainer, stamping accounts that carry no
// container id with their map key, and rejects any reference to a container
// missing from containers.
func normalize(containers []model.Container, accountsByContainer map[int64][]model.Account) (map[int64][]model.Account, error) {
	known := make(map[int64]bool, len(containers))
	for _, c := range containers {
		known[c.ID] = true
	}

	out := make(map[int64][]model.Account, len(accountsByContainer))
	for containerID, accounts := range accountsByContainer {
		if !known[containerID] {
			return nil, fmt.Errorf("%w: accounts reference unknown container %d", ErrInconsistentSnapshot, containerID)
		}

		copied := make([]model.Account, 0, len(accounts))
		for _, acc := range accounts {
			if acc.ContainerID == 0 {
				acc.ContainerID = containerID
			}
			if acc.ContainerID != containerID {
				return nil, fmt.Errorf("%w: account %d belongs to container %d but is listed under %d",
					ErrInconsistentSnapshot, acc.ID, acc.ContainerID, containerID)
			}
			copied = append(copied, acc)
		}
		out[containerID] = copied
	}

	return out, nil
}
