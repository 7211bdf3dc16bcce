package views

import (
	"fmt"

	"github.com/hance08/wren/internal/model"
	"github.com/hance08/wren/internal/utils"
	"github.com/pterm/pterm"
)

type AccountListView struct{}

func NewAccountListView() *AccountListView {
	return &AccountListView{}
}

// Render prints the accounts grouped by container, in container order.
func (v *AccountListView) Render(snap model.Snapshot) error {
	if snap.AccountCount() == 0 {
		pterm.Warning.Println("No accounts stored locally, run 'wren sync' first")
		return nil
	}

	pterm.DefaultSection.Printf("Account List")

	for _, c := range snap.Containers {
		accounts := snap.AccountsFor(c.ID)
		if len(accounts) == 0 {
			continue
		}

		tableData := pterm.TableData{{"ID", "Name", "Type", "Balance"}}
		for _, acc := range accounts {
			balance := utils.FormatAmount(acc.Balance, acc.Currency)
			if acc.Balance.IsNegative() {
				balance = pterm.Red(balance)
			} else {
				balance = pterm.Green(balance)
			}
			tableData = append(tableData, []string{fmt.Sprint(acc.ID), acc.Name, pterm.Gray(acc.Type), balance})
		}

		pterm.DefaultSection.WithLevel(2).Println(c.Name)
		if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
			return err
		}
	}

	pterm.Info.Printf("Total: %d accounts\n", snap.AccountCount())
	renderStaleHint(snap)

	return nil
}

func RenderCategories(snap model.Snapshot) error {
	if len(snap.Categories) == 0 {
		pterm.Warning.Println("No categories stored locally, run 'wren sync' first")
		return nil
	}

	pterm.DefaultSection.Printf("Categories")

	tableData := pterm.TableData{{"ID", "Name"}}
	for _, c := range snap.Categories {
		tableData = append(tableData, []string{fmt.Sprint(c.ID), c.Name})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}

	pterm.Info.Printf("Total: %d categories\n", len(snap.Categories))
	renderStaleHint(snap)
	return nil
}

func renderStaleHint(snap model.Snapshot) {
	if snap.FetchedAt.IsZero() {
		return
	}
	pterm.Println(pterm.Gray(fmt.Sprintf("Data as of %s", snap.FetchedAt.Local().Format("2006-01-02 15:04"))))
}
