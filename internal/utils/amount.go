package utils

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// MaxAmountDecimals is the finest precision accepted for user input.
const MaxAmountDecimals = 2

// ParseAmount reads a positive amount such as "150", "150.5" or "4,50".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount: %s", s)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be greater than zero")
	}
	if !amount.Equal(amount.Truncate(MaxAmountDecimals)) {
		return decimal.Zero, fmt.Errorf("amount can have at most %d decimal places", MaxAmountDecimals)
	}
	return amount, nil
}

// FormatAmount renders amount in the display format of its currency.
// Unknown currency codes fall back to "<amount> <code>".
func FormatAmount(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))

	cur := money.GetCurrency(code)
	if cur == nil {
		return strings.TrimSpace(fmt.Sprintf("%s %s", amount.StringFixed(MaxAmountDecimals), code))
	}

	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), code).Display()
}

// KnownCurrency reports whether code is an ISO 4217 currency.
func KnownCurrency(code string) bool {
	return money.GetCurrency(strings.ToUpper(strings.TrimSpace(code))) != nil
}
