package finance

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/hance08/wren/internal/model"
)

func (c *Client) ListContainers(ctx context.Context) ([]model.Container, error) {
	var dtos []containerDTO
	if err := c.do(ctx, request{op: "list containers", method: http.MethodGet, path: "/api/accounts/containers"}, &dtos); err != nil {
		return nil, err
	}

	containers := make([]model.Container, 0, len(dtos))
	for _, d := range dtos {
		containers = append(containers, model.Container{ID: d.ID, Name: d.Name})
	}
	return containers, nil
}

func (c *Client) ListAccounts(ctx context.Context, containerID int64) ([]model.Account, error) {
	path := fmt.Sprintf("/api/accounts/containers/%d/accounts", containerID)

	var dtos []accountDTO
	if err := c.do(ctx, request{op: "list accounts", method: http.MethodGet, path: path}, &dtos); err != nil {
		return nil, err
	}

	accounts := make([]model.Account, 0, len(dtos))
	for _, d := range dtos {
		accounts = append(accounts, d.toModel(containerID))
	}
	return accounts, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var dtos []categoryDTO
	if err := c.do(ctx, request{op: "list categories", method: http.MethodGet, path: "/api/categories"}, &dtos); err != nil {
		return nil, err
	}

	categories := make([]model.Category, 0, len(dtos))
	for _, d := range dtos {
		categories = append(categories, model.Category{ID: d.ID, Name: d.Name})
	}
	return categories, nil
}

// CreateTransaction submits a single transaction. A non-empty
// idempotencyKey is sent so that a retried submission whose first
// confirmation was lost is not booked twice.
func (c *Client) CreateTransaction(ctx context.Context, tx model.Transaction, idempotencyKey string) (model.Transaction, error) {
	req, err := c.jsonRequest("create transaction", http.MethodPost, "/api/transactions", toTransactionDTO(tx))
	if err != nil {
		return model.Transaction{}, err
	}
	if idempotencyKey != "" {
		req.headers = map[string]string{headerIdempotencyKey: idempotencyKey}
	}

	var created transactionDTO
	if err := c.do(ctx, req, &created); err != nil {
		return model.Transaction{}, err
	}
	if created.ID == nil {
		return tx, nil
	}
	return created.toModel(), nil
}

// CreateTransactionsBulk submits txs in one request. idempotencyKeys, when
// given, must line up with txs and is sent per item.
func (c *Client) CreateTransactionsBulk(ctx context.Context, txs []model.Transaction, idempotencyKeys []string) error {
	if idempotencyKeys != nil && len(idempotencyKeys) != len(txs) {
		return fmt.Errorf("create transactions bulk: %d idempotency keys for %d transactions", len(idempotencyKeys), len(txs))
	}

	dtos := make([]transactionDTO, 0, len(txs))
	for i, tx := range txs {
		dto := toTransactionDTO(tx)
		if idempotencyKeys != nil {
			dto.IdempotencyKey = idempotencyKeys[i]
		}
		dtos = append(dtos, dto)
	}

	req, err := c.jsonRequest("create transactions bulk", http.MethodPost, "/api/transactions/bulk", dtos)
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}

// PreviewImport uploads a bank export and returns the candidate transactions
// the server parsed from it. Nothing is stored remotely.
func (c *Client) PreviewImport(ctx context.Context, filename string, r io.Reader) ([]model.Transaction, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("preview import: failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("preview import: failed to read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("preview import: failed to build upload: %w", err)
	}

	req := request{
		op:     "preview import",
		method: http.MethodPost,
		path:   "/api/integrations/revolut/preview",
		body:   &buf,
		ctype:  mw.FormDataContentType(),
	}

	var dtos []transactionDTO
	if err := c.do(ctx, req, &dtos); err != nil {
		return nil, err
	}

	txs := make([]model.Transaction, 0, len(dtos))
	for _, d := range dtos {
		txs = append(txs, d.toModel())
	}
	return txs, nil
}

// Health reports whether the server answers its health endpoint with UP.
func (c *Client) Health(ctx context.Context) (bool, error) {
	var body healthBody
	if err := c.do(ctx, request{op: "health", method: http.MethodGet, path: "/actuator/health"}, &body); err != nil {
		return false, err
	}
	return strings.EqualFold(body.Status, "UP"), nil
}
