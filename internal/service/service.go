package service

import (
	"context"
	"time"

	"github.com/hance08/wren/internal/config"
	"github.com/hance08/wren/internal/queue"
	"github.com/hance08/wren/internal/syncer"
)

type Service struct {
	Config      *config.Config
	Sync        *syncer.Coordinator
	Queue       *queue.Queue
	Transaction *TransactionService
	Import      *ImportService
}

func NewService(cfg *config.Config, coord *syncer.Coordinator, q *queue.Queue, previewer Previewer) *Service {
	return &Service{
		Config:      cfg,
		Sync:        coord,
		Queue:       q,
		Transaction: NewTransactionService(coord, cfg),
		Import:      NewImportService(previewer, coord, cfg),
	}
}

// Status is a point-in-time summary of the local state.
type Status struct {
	ServerUp     bool
	State        syncer.State
	FetchedAt    time.Time
	Containers   int
	Accounts     int
	Categories   int
	PendingCount int
	Rejected     int
}

func (s *Service) Status(ctx context.Context) (Status, error) {
	snap, err := s.Sync.Snapshot(ctx)
	if err != nil {
		return Status{}, err
	}

	entries, err := s.Queue.List(ctx)
	if err != nil {
		return Status{}, err
	}

	st := Status{
		ServerUp:     s.Sync.Probe(ctx),
		State:        s.Sync.State(),
		FetchedAt:    snap.FetchedAt,
		Containers:   len(snap.Containers),
		Accounts:     snap.AccountCount(),
		Categories:   len(snap.Categories),
		PendingCount: len(entries),
	}
	for _, e := range entries {
		if e.Rejected {
			st.Rejected++
		}
	}
	return st, nil
}
