package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hance08/wren/internal/config"
	"github.com/hance08/wren/internal/model"
	"github.com/hance08/wren/internal/reconcile"
	"github.com/hance08/wren/internal/syncer"
)

// Previewer parses a bank export into candidate transactions.
type Previewer interface {
	PreviewImport(ctx context.Context, filename string, r io.Reader) ([]model.Transaction, error)
}

type ImportService struct {
	previewer Previewer
	coord     *syncer.Coordinator
	config    *config.Config
}

func NewImportService(p Previewer, coord *syncer.Coordinator, cfg *config.Config) *ImportService {
	return &ImportService{previewer: p, coord: coord, config: cfg}
}

// Preview uploads the file at path for parsing and opens a reconciliation
// workspace over the returned candidates.
func (is *ImportService) Preview(ctx context.Context, path string, opts ...reconcile.Option) (*reconcile.Workspace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	records, err := is.previewer.PreviewImport(ctx, path, f)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no transactions found in %s", path)
	}

	for i := range records {
		if records[i].Currency == "" {
			records[i].Currency = strings.ToUpper(is.config.Defaults.Currency)
		}
		if !records[i].Type.Valid() {
			records[i].Type = model.TypeExpense
		}
		if records[i].Amount.IsNegative() {
			records[i].Amount = records[i].Amount.Neg()
		}
	}

	return reconcile.New(records, opts...), nil
}

// Commit finalizes the workspace and submits the result in one batch, or
// queues every transaction when the server is unreachable.
func (is *ImportService) Commit(ctx context.Context, ws *reconcile.Workspace) (syncer.SubmitOutcome, error) {
	txs, err := ws.Finalize()
	if err != nil {
		return syncer.SubmitOutcome{}, err
	}
	return is.coord.SubmitBatch(ctx, txs)
}
