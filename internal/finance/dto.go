package finance

import (
	"time"

	"github.com/hance08/wren/internal/model"
	"github.com/shopspring/decimal"
)

type containerDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type accountDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	AccountType string  `json:"accountType"`
	Currency    string  `json:"currency"`
	Balance     float64 `json:"balance"`
	ContainerID int64   `json:"containerId,omitempty"`
}

type categoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type refDTO struct {
	ID int64 `json:"id"`
}

type transactionDTO struct {
	ID              *int64  `json:"id,omitempty"`
	Description     string  `json:"description"`
	Currency        string  `json:"currency"`
	Amount          float64 `json:"amount"`
	TransactionType string  `json:"transactionType"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	TransactionTime string  `json:"transactionTime,omitempty"`
	TargetAccount   *refDTO `json:"targetAccount,omitempty"`
	Category        *refDTO `json:"category,omitempty"`
	IdempotencyKey  string  `json:"idempotencyKey,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
	Field   string `json:"field"`
}

type healthBody struct {
	Status string `json:"status"`
}

func (d accountDTO) toModel(containerID int64) model.Account {
	cid := d.ContainerID
	if cid == 0 {
		cid = containerID
	}
	return model.Account{
		ID:          d.ID,
		ContainerID: cid,
		Name:        d.Name,
		Type:        d.AccountType,
		Currency:    d.Currency,
		Balance:     decimal.NewFromFloat(d.Balance),
	}
}

func toTransactionDTO(tx model.Transaction) transactionDTO {
	dto := transactionDTO{
		ID:              tx.ID,
		Description:     tx.Description,
		Currency:        tx.Currency,
		Amount:          tx.Amount.InexactFloat64(),
		TransactionType: string(tx.Type),
		Latitude:        tx.Latitude,
		Longitude:       tx.Longitude,
	}
	if !tx.Time.IsZero() {
		dto.TransactionTime = tx.Time.UTC().Format(time.RFC3339)
	}
	if tx.AccountID != 0 {
		dto.TargetAccount = &refDTO{ID: tx.AccountID}
	}
	if tx.CategoryID != 0 {
		dto.Category = &refDTO{ID: tx.CategoryID}
	}
	return dto
}

func (d transactionDTO) toModel() model.Transaction {
	tx := model.Transaction{
		ID:          d.ID,
		Description: d.Description,
		Currency:    d.Currency,
		Amount:      decimal.NewFromFloat(d.Amount),
		Type:        model.TransactionType(d.TransactionType),
		Latitude:    d.Latitude,
		Longitude:   d.Longitude,
	}
	if d.TransactionTime != "" {
		if t, err := time.Parse(time.RFC3339, d.TransactionTime); err == nil {
			tx.Time = t
		}
	}
	if d.TargetAccount != nil {
		tx.AccountID = d.TargetAccount.ID
	}
	if d.Category != nil {
		tx.CategoryID = d.Category.ID
	}
	return tx
}
