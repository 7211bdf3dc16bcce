package cmd

import (
	"context"

	"github.com/hance08/wren/internal/model"
	"github.com/hance08/wren/internal/service"
)

// loadReference returns the reference data for a command. Unless --offline
// is set it syncs first; an unreachable server falls back to the stored
// snapshot and the banner says so.
func loadReference(ctx context.Context, svc *service.Service) (model.Snapshot, error) {
	if offline {
		return svc.Sync.Snapshot(ctx)
	}

	res, err := svc.Sync.Sync(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	return res.Snapshot, nil
}
