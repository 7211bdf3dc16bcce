package constants

const (
	// Date Layout
	DateFormat = "2006-01-02"

	MaxDescriptionLen = 255
)

// Transaction type labels shown in prompts.
const (
	LabelExpense = "Expense"
	LabelIncome  = "Income"
)
