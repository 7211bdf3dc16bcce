package validation

import (
	"fmt"
	"strings"

	"github.com/hance08/wren/internal/constants"
	"github.com/hance08/wren/internal/model"
	"github.com/hance08/wren/internal/utils"
)

// ValidateCurrency validates a currency code format. Empty is allowed and
// means the configured default.
func ValidateCurrency(currency string) error {
	currency = strings.TrimSpace(strings.ToUpper(currency))

	if currency == "" {
		return nil
	}

	if len(currency) != 3 {
		return fmt.Errorf("currency code must be 3 characters (e.g. EUR)")
	}

	for _, c := range currency {
		if c < 'A' || c > 'Z' {
			return fmt.Errorf("currency code must contain only letters")
		}
	}

	return nil
}

func ValidateAmount(input string) error {
	_, err := utils.ParseAmount(input)
	return err
}

func ValidateDescription(desc string) error {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return fmt.Errorf("description is required")
	}
	if len(desc) > constants.MaxDescriptionLen {
		return fmt.Errorf("description too long (max %d characters)", constants.MaxDescriptionLen)
	}
	return nil
}

// TransactionValidator checks a transaction against the local reference
// data before it is submitted or queued.
type TransactionValidator struct {
	snap model.Snapshot
}

func NewTransactionValidator(snap model.Snapshot) *TransactionValidator {
	return &TransactionValidator{snap: snap}
}

func (v *TransactionValidator) Validate(tx model.Transaction) error {
	if err := ValidateDescription(tx.Description); err != nil {
		return err
	}

	if !tx.Amount.IsPositive() {
		return fmt.Errorf("amount must be greater than zero")
	}

	if !tx.Type.Valid() {
		return fmt.Errorf("unknown transaction type %q", tx.Type)
	}

	if err := ValidateCurrency(tx.Currency); err != nil {
		return err
	}
	if tx.Currency == "" {
		return fmt.Errorf("currency is required")
	}

	acc, ok := v.snap.FindAccount(tx.AccountID)
	if !ok {
		return fmt.Errorf("account %d not found", tx.AccountID)
	}
	if acc.Currency != "" && !strings.EqualFold(acc.Currency, tx.Currency) {
		return fmt.Errorf("account '%s' holds %s, not %s", acc.Name, acc.Currency, tx.Currency)
	}

	if tx.CategoryID != 0 {
		if _, ok := v.snap.FindCategory(tx.CategoryID); !ok {
			return fmt.Errorf("category %d not found", tx.CategoryID)
		}
	}

	return nil
}
