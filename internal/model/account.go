package model

import "github.com/shopspring/decimal"

type Container struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Account struct {
	ID          int64           `json:"id"`
	ContainerID int64           `json:"containerId"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
