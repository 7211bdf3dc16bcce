package views

import (
	"github.com/hance08/wren/internal/model"
	"github.com/hance08/wren/internal/utils"
	"github.com/pterm/pterm"
)

type PendingListView struct{}

func NewPendingListView() *PendingListView {
	return &PendingListView{}
}

func (v *PendingListView) Render(entries []model.PendingTransaction, snap model.Snapshot) error {
	if len(entries) == 0 {
		pterm.Success.Println("No pending transactions")
		return nil
	}

	pterm.DefaultSection.Println("Pending Transactions")

	tableData := pterm.TableData{
		{"ID", "Queued", "Type", "Account", "Description", "Amount", "Status"},
	}

	for _, e := range entries {
		tx := e.Transaction

		account := "?"
		if acc, ok := snap.FindAccount(tx.AccountID); ok {
			account = acc.Name
		}

		amount := utils.FormatAmount(tx.Amount, tx.Currency)
		txType := string(tx.Type)
		switch tx.Type {
		case model.TypeExpense:
			txType = pterm.Red("Expense")
			amount = pterm.Red(amount)
		case model.TypeIncome:
			txType = pterm.Green("Income")
			amount = pterm.Green(amount)
		}

		status := pterm.Yellow("Waiting")
		switch {
		case e.Rejected:
			status = pterm.Red("Rejected: " + e.LastError)
		case e.Attempts > 0:
			status = pterm.Yellow("Retrying: " + e.LastError)
		}

		tableData = append(tableData, []string{
			shortID(e.LocalID),
			e.EnqueuedAt.Local().Format("2006-01-02 15:04"),
			txType,
			account,
			tx.Description,
			amount,
			status,
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Total: %d pending\n", len(entries))
	return nil
}

// shortID trims a local id to its first block, which is enough to tell
// entries apart and is accepted by the pending subcommands.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
