package service

import (
	"github.com/hance08/wren/internal/model"
	"github.com/hance08/wren/internal/syncer"
)

// TransactionInput is the raw user input for a new transaction, as typed on
// the command line or in the interactive form.
type TransactionInput struct {
	Description string
	Amount      string
	Currency    string
	Type        string // "expense" or "income"
	AccountID   int64
	CategoryID  int64
	Date        string // YYYY-MM-DD, empty for now
	Latitude    float64
	Longitude   float64
}

// TransactionResult is what happened to a created transaction.
type TransactionResult struct {
	Transaction model.Transaction
	Outcome     syncer.SubmitOutcome
}
