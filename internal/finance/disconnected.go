package finance

import (
	"context"
	"io"

	"github.com/hance08/wren/internal/model"
)

// Disconnected stands in for Client when no server is configured. Every
// call fails as a network error, so callers fall back to local data.
type Disconnected struct {
	Reason string
}

func (d Disconnected) fail(op string) error {
	reason := d.Reason
	if reason == "" {
		reason = "no server configured"
	}
	return &Error{Kind: KindNetwork, Op: op, Message: reason}
}

func (d Disconnected) ListContainers(context.Context) ([]model.Container, error) {
	return nil, d.fail("list containers")
}

func (d Disconnected) ListAccounts(context.Context, int64) ([]model.Account, error) {
	return nil, d.fail("list accounts")
}

func (d Disconnected) ListCategories(context.Context) ([]model.Category, error) {
	return nil, d.fail("list categories")
}

func (d Disconnected) CreateTransaction(context.Context, model.Transaction, string) (model.Transaction, error) {
	return model.Transaction{}, d.fail("create transaction")
}

func (d Disconnected) CreateTransactionsBulk(context.Context, []model.Transaction, []string) error {
	return d.fail("create transactions bulk")
}

func (d Disconnected) PreviewImport(context.Context, string, io.Reader) ([]model.Transaction, error) {
	return nil, d.fail("preview import")
}

func (d Disconnected) Health(context.Context) (bool, error) {
	return false, d.fail("health")
}
