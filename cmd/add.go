package cmd

import (
	"fmt"

	"github.com/hance08/wren/internal/model"
	"github.com/hance08/wren/internal/service"
	"github.com/hance08/wren/internal/ui"
	"github.com/hance08/wren/internal/ui/prompts"
	"github.com/hance08/wren/internal/ui/views"
	"github.com/hance08/wren/internal/validation"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type addFlags struct {
	Desc     string
	Amount   string
	Currency string
	Type     string
	Account  int64
	Category int64
	Date     string
}

type addRunner struct {
	svc   *service.Service
	flags *addFlags
	cmd   *cobra.Command
}

func NewAddCmd(svc *service.Service) *cobra.Command {
	flags := &addFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new transaction",
		Long: `Add a new income or expense transaction.

	When the server is reachable the transaction is submitted right away,
	otherwise it is saved locally and submitted on the next sync.
	You can use flags for quick entry or interactive mode for guided input.

	Examples:
	# Interactive mode
	wren add

	# Quick mode with flags (ids from 'wren accounts' and 'wren categories')
	wren add --desc "Coffee" --amount 4.50 --account 10 --category 5

	# Income with an explicit date
	wren add --type income --desc "Salary" --amount 2500 --account 10 --date 2026-03-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &addRunner{
				svc:   svc,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run()
		},
	}
	cmd.Flags().StringVarP(&flags.Desc, "desc", "d", "", "Transaction description")
	cmd.Flags().StringVarP(&flags.Amount, "amount", "a", "", "Transaction amount (e.g., 150 or 150.50)")
	cmd.Flags().StringVar(&flags.Currency, "currency", "", "Currency code, default is the account's currency")
	cmd.Flags().StringVarP(&flags.Type, "type", "t", "expense", "Transaction type: expense or income")
	cmd.Flags().Int64Var(&flags.Account, "account", 0, "Account id")
	cmd.Flags().Int64Var(&flags.Category, "category", 0, "Category id (optional)")
	cmd.Flags().StringVar(&flags.Date, "date", "", "Transaction date (YYYY-MM-DD), default is today")

	return cmd
}

func (r *addRunner) Run() error {
	ctx := r.cmd.Context()

	snap, err := loadReference(ctx, r.svc)
	if err != nil {
		return err
	}

	var input service.TransactionInput

	// Check if using flag mode or interactive mode
	hasFlags := r.cmd.Flags().Changed("desc") || r.cmd.Flags().Changed("amount") ||
		r.cmd.Flags().Changed("account")

	if hasFlags {
		input, err = r.flagsMode()
	} else {
		input, err = r.interactiveMode(snap)
	}
	if err != nil {
		return err
	}

	res, err := r.svc.Transaction.Create(ctx, input)
	if err != nil {
		return err
	}

	if res.Outcome.Queued {
		pterm.Info.Printf("Transaction saved locally (pending id: %.8s)\n", res.Outcome.LocalIDs[0])
	} else {
		pterm.Success.Printf("Transaction created successfully! (ID: %d)\n", derefID(res.Transaction.ID))
	}

	if err := views.RenderTransactionSummary(res.Transaction, snap); err != nil {
		return err
	}
	ui.PrintDivider()
	return nil
}

func (r *addRunner) flagsMode() (service.TransactionInput, error) {
	if r.flags.Amount == "" || r.flags.Account == 0 {
		return service.TransactionInput{}, fmt.Errorf("when using flags, --amount and --account are required")
	}

	if r.flags.Desc == "" {
		r.flags.Desc = "-"
	}

	return service.TransactionInput{
		Description: r.flags.Desc,
		Amount:      r.flags.Amount,
		Currency:    r.flags.Currency,
		Type:        r.flags.Type,
		AccountID:   r.flags.Account,
		CategoryID:  r.flags.Category,
		Date:        r.flags.Date,
	}, nil
}

func (r *addRunner) interactiveMode(snap model.Snapshot) (service.TransactionInput, error) {
	var input service.TransactionInput
	var err error

	if input.Type, err = prompts.PromptTransactionType(); err != nil {
		return input, err
	}

	if input.AccountID, err = prompts.PromptAccount(snap, "Account:"); err != nil {
		return input, err
	}

	if input.Description, err = prompts.PromptDescription("Description:", validation.ValidateDescription); err != nil {
		return input, err
	}

	if input.Amount, err = prompts.PromptAmount("Amount:", "e.g. 4.50", validation.ValidateAmount); err != nil {
		return input, err
	}

	if input.CategoryID, err = prompts.PromptCategory(snap, "Category:", true); err != nil {
		return input, err
	}

	if input.Date, err = prompts.PromptTransactionDate(); err != nil {
		return input, err
	}

	return input, nil
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
