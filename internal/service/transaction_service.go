package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hance08/wren/internal/config"
	"github.com/hance08/wren/internal/constants"
	"github.com/hance08/wren/internal/model"
	"github.com/hance08/wren/internal/syncer"
	"github.com/hance08/wren/internal/utils"
	"github.com/hance08/wren/internal/validation"
)

type TransactionService struct {
	coord  *syncer.Coordinator
	config *config.Config
	now    func() time.Time
}

func NewTransactionService(coord *syncer.Coordinator, cfg *config.Config) *TransactionService {
	return &TransactionService{coord: coord, config: cfg, now: time.Now}
}

// ParseType maps user input ("expense", "income", or the upper-case wire
// names) to a transaction type.
func ParseType(s string) (model.TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "expense":
		return model.TypeExpense, nil
	case "income":
		return model.TypeIncome, nil
	default:
		return "", fmt.Errorf("unknown transaction type: %s (use expense or income)", s)
	}
}

// Build turns input into a transaction and validates it against the stored
// reference data. A missing currency falls back to the account's currency,
// then to the configured default.
func (ts *TransactionService) Build(ctx context.Context, input TransactionInput) (model.Transaction, error) {
	snap, err := ts.coord.Snapshot(ctx)
	if err != nil {
		return model.Transaction{}, err
	}

	amount, err := utils.ParseAmount(input.Amount)
	if err != nil {
		return model.Transaction{}, err
	}

	txType, err := ParseType(input.Type)
	if err != nil {
		return model.Transaction{}, err
	}

	when := ts.now()
	if input.Date != "" {
		d, err := time.ParseInLocation(constants.DateFormat, input.Date, time.Local)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
		}
		when = d
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		if acc, ok := snap.FindAccount(input.AccountID); ok && acc.Currency != "" {
			currency = strings.ToUpper(acc.Currency)
		} else {
			currency = strings.ToUpper(ts.config.Defaults.Currency)
		}
	}

	tx := model.Transaction{
		Description: strings.TrimSpace(input.Description),
		Amount:      amount,
		Currency:    currency,
		Type:        txType,
		AccountID:   input.AccountID,
		CategoryID:  input.CategoryID,
		Time:        when,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
	}

	if err := validation.NewTransactionValidator(snap).Validate(tx); err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

// Create builds the transaction and hands it to the coordinator, which
// submits it or queues it depending on connectivity.
func (ts *TransactionService) Create(ctx context.Context, input TransactionInput) (TransactionResult, error) {
	tx, err := ts.Build(ctx, input)
	if err != nil {
		return TransactionResult{}, err
	}

	out, err := ts.coord.Submit(ctx, tx)
	if err != nil {
		return TransactionResult{}, err
	}

	if !out.Queued {
		tx = out.Created
	}
	return TransactionResult{Transaction: tx, Outcome: out}, nil
}
