package prompts

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/hance08/wren/internal/constants"
	"github.com/hance08/wren/internal/model"
	"github.com/hance08/wren/internal/utils"
)

// PromptTransactionType prompts for transaction type selection
func PromptTransactionType() (string, error) {
	selected := "expense"

	err := huh.NewSelect[string]().
		Title("Choose the transaction type:").
		Options(
			huh.NewOption("Record "+constants.LabelExpense, "expense"),
			huh.NewOption("Record "+constants.LabelIncome, "income"),
		).
		Value(&selected).
		Run()

	return selected, err
}

// PromptTransactionDate prompts for transaction date
func PromptTransactionDate() (string, error) {
	defaultDate := time.Now().Format(constants.DateFormat)

	return PromptInput("Transaction Date (YYYY-MM-DD):", defaultDate, func(s string) error {
		if _, err := time.Parse(constants.DateFormat, s); err != nil {
			return fmt.Errorf("use the YYYY-MM-DD format")
		}
		return nil
	})
}

// PromptAccount prompts for one of the stored accounts, grouped by
// container.
func PromptAccount(snap model.Snapshot, message string) (int64, error) {
	var choices []Choice
	for _, c := range snap.Containers {
		for _, acc := range snap.AccountsFor(c.ID) {
			choices = append(choices, Choice{
				Label: fmt.Sprintf("%s / %s (Balance: %s)", c.Name, acc.Name, utils.FormatAmount(acc.Balance, acc.Currency)),
				ID:    acc.ID,
			})
		}
	}

	if len(choices) == 0 {
		return 0, fmt.Errorf("no accounts available, run 'wren sync' first")
	}

	return PromptChoice(message, choices, 15)
}

// PromptCategory prompts for a category. With allowNone an extra "No
// category" option returns 0.
func PromptCategory(snap model.Snapshot, message string, allowNone bool) (int64, error) {
	var choices []Choice
	if allowNone {
		choices = append(choices, Choice{Label: "No category", ID: 0})
	}
	for _, c := range snap.Categories {
		choices = append(choices, Choice{Label: c.Name, ID: c.ID})
	}

	if len(choices) == 0 {
		return 0, fmt.Errorf("no categories available, run 'wren sync' first")
	}

	return PromptChoice(message, choices, 15)
}
