package views

import (
	"fmt"

	"github.com/hance08/wren/internal/model"
	"github.com/hance08/wren/internal/queue"
	"github.com/hance08/wren/internal/syncer"
	"github.com/hance08/wren/internal/utils"
	"github.com/pterm/pterm"
)

func RenderTransactionSummary(tx model.Transaction, snap model.Snapshot) error {
	pterm.DefaultSection.Println("Transaction Summary")

	account := fmt.Sprint(tx.AccountID)
	if acc, ok := snap.FindAccount(tx.AccountID); ok {
		account = acc.Name
	}

	category := "-"
	if cat, ok := snap.FindCategory(tx.CategoryID); ok {
		category = cat.Name
	}

	id := pterm.Yellow("(pending)")
	if tx.ID != nil {
		id = fmt.Sprint(*tx.ID)
	}

	tableData := pterm.TableData{
		{"Field", "Value"},
		{"ID", id},
		{"Date", tx.Time.Local().Format("2006-01-02")},
		{"Description", tx.Description},
		{"Type", string(tx.Type)},
		{"Account", account},
		{"Category", category},
		{"Amount", utils.FormatAmount(tx.Amount, tx.Currency)},
	}

	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

func RenderFlushReport(report queue.FlushReport) {
	if report.Succeeded == 0 && report.Failed == 0 && report.Skipped == 0 {
		pterm.Info.Println("Nothing to submit")
		return
	}

	if report.Succeeded > 0 {
		pterm.Success.Printf("%d pending transaction(s) submitted\n", report.Succeeded)
	}
	for _, e := range report.FailedEntries {
		pterm.Warning.Printf("%s %q: %s\n", shortID(e.LocalID), e.Transaction.Description, e.LastError)
	}
	if report.Skipped > 0 {
		pterm.Info.Printf("%d rejected transaction(s) skipped, use 'wren pending retry' or 'wren pending discard'\n", report.Skipped)
	}
}

func RenderSyncResult(res syncer.Result) {
	snap := res.Snapshot
	if res.Stale {
		pterm.Warning.Printf("Using offline data from %s: %v\n",
			snap.FetchedAt.Local().Format("2006-01-02 15:04"), res.Cause)
		return
	}

	pterm.Info.Printf("%d containers, %d accounts, %d categories\n",
		len(snap.Containers), snap.AccountCount(), len(snap.Categories))
	RenderFlushReport(res.Flush)
}
