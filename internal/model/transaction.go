package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single income or expense record. ID stays nil until the
// remote system has accepted the transaction and assigned one.
type Transaction struct {
	ID          *int64          `json:"id,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Type        TransactionType `json:"type"`
	AccountID   int64           `json:"accountId"`
	CategoryID  int64           `json:"categoryId,omitempty"`
	Time        time.Time       `json:"time"`
	Latitude    float64         `json:"latitude"`
	Longitude   float64         `json:"longitude"`
}

// PendingTransaction is a transaction waiting in the local queue for remote
// submission. IdempotencyKey is fixed at enqueue time and sent with every
// attempt so the server can drop duplicates.
type PendingTransaction struct {
	LocalID        string      `json:"localId"`
	IdempotencyKey string      `json:"idempotencyKey"`
	EnqueuedAt     time.Time   `json:"enqueuedAt"`
	Attempts       int         `json:"attempts"`
	LastError      string      `json:"lastError,omitempty"`
	Rejected       bool        `json:"rejected,omitempty"`
	Transaction    Transaction `json:"transaction"`
}
