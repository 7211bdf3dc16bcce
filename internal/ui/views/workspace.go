package views

import (
	"fmt"

	"github.com/hance08/wren/internal/model"
	"github.com/hance08/wren/internal/reconcile"
	"github.com/hance08/wren/internal/ui"
	"github.com/hance08/wren/internal/utils"
	"github.com/pterm/pterm"
)

// RenderWorkspace prints the import candidates. Entries of the same split
// lineage share a colored marker.
func RenderWorkspace(entries []reconcile.Candidate, snap model.Snapshot) error {
	tableData := pterm.TableData{
		{"#", "", "Date", "Description", "Amount", "Account", "Category"},
	}

	for i, e := range entries {
		account := pterm.Red("missing")
		if acc, ok := snap.FindAccount(e.AccountID); ok {
			account = acc.Name
		}

		category := pterm.Red("missing")
		if cat, ok := snap.FindCategory(e.CategoryID); ok {
			category = cat.Name
		}

		date := "-"
		if !e.Time.IsZero() {
			date = e.Time.Local().Format("2006-01-02")
		}

		tableData = append(tableData, []string{
			fmt.Sprint(i + 1),
			ui.Swatch(e.SplitColor),
			date,
			e.Description,
			utils.FormatAmount(e.Amount, e.Currency),
			account,
			category,
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}
