package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/hance08/wren/internal/errhandler"
	"github.com/hance08/wren/internal/finance"
	"github.com/hance08/wren/internal/model"
	"github.com/hance08/wren/internal/reconcile"
	"github.com/hance08/wren/internal/service"
	"github.com/hance08/wren/internal/store"
	"github.com/hance08/wren/internal/ui"
	"github.com/hance08/wren/internal/ui/prompts"
	"github.com/hance08/wren/internal/ui/views"
	"github.com/hance08/wren/internal/utils"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// minSplitPart is the smallest amount either part of a split can hold.
var minSplitPart = decimal.New(1, -2)

type importFlags struct {
	Account int64
}

type importRunner struct {
	svc   *service.Service
	flags *importFlags
	cmd   *cobra.Command
}

func NewImportCmd(svc *service.Service) *cobra.Command {
	flags := &importFlags{}

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import transactions from a bank statement",
		Long: `Upload a bank statement export to the server for parsing, then review the
parsed transactions before saving them.

During review you can split a transaction into two parts, merge split parts
back together, and assign categories and accounts. Every transaction needs a
category and an account before it can be saved. Parts of the same split are
marked with the same color.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &importRunner{
				svc:   svc,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run(args[0])
		},
	}
	cmd.Flags().Int64Var(&flags.Account, "account", 0, "Account id used for every imported transaction")

	return cmd
}

func (r *importRunner) Run(path string) error {
	ctx := r.cmd.Context()

	snap, err := loadReference(ctx, r.svc)
	if err != nil {
		return err
	}

	ws, err := r.svc.Import.Preview(ctx, path)
	if err != nil {
		return err
	}
	pterm.Success.Printf("%d transactions found, total %s\n", ws.Len(), r.total(ws))

	account := r.flags.Account
	if account == 0 {
		if account, err = prompts.PromptAccount(snap, "Account for the imported transactions:"); err != nil {
			return err
		}
	}
	if _, ok := snap.FindAccount(account); !ok {
		return fmt.Errorf("account %d not found", account)
	}
	ws.FillAccount(account)

	for {
		ui.PrintL2Title("Import review")
		if err := views.RenderWorkspace(ws.Entries(), snap); err != nil {
			return err
		}

		action, err := prompts.PromptImportAction()
		if err != nil {
			return err
		}

		done, err := r.apply(ws, snap, action)
		if err != nil {
			if keepReviewing(err) {
				pterm.Warning.Println(errhandler.Message(err))
				continue
			}
			return err
		}
		if done {
			return nil
		}
	}
}

// apply runs one review action. It reports true once the import is saved
// or cancelled.
func (r *importRunner) apply(ws *reconcile.Workspace, snap model.Snapshot, action prompts.ImportAction) (bool, error) {
	entries := ws.Entries()

	switch action {
	case prompts.ActionCategory:
		i, err := prompts.PromptEntry(entries, "Assign a category to:")
		if err != nil {
			return false, err
		}
		id, err := prompts.PromptCategory(snap, "Category:", false)
		if err != nil {
			return false, err
		}
		return false, ws.AssignCategory(i, id)

	case prompts.ActionAccount:
		i, err := prompts.PromptEntry(entries, "Assign an account to:")
		if err != nil {
			return false, err
		}
		id, err := prompts.PromptAccount(snap, "Account:")
		if err != nil {
			return false, err
		}
		return false, ws.AssignAccount(i, id)

	case prompts.ActionSplit:
		i, err := prompts.PromptEntryWhere(entries, "Split which entry?", splittable)
		if errors.Is(err, prompts.ErrNoChoices) {
			pterm.Warning.Println("No entry is large enough to split")
			return false, nil
		}
		if err != nil {
			return false, err
		}
		input, err := prompts.PromptSplitAmount(entries[i])
		if err != nil {
			return false, err
		}
		amount, err := utils.ParseAmount(input)
		if err != nil {
			return false, err
		}
		return false, ws.Split(i, amount)

	case prompts.ActionMerge:
		lineage, err := prompts.PromptLineage(entries)
		if errors.Is(err, prompts.ErrNoChoices) {
			pterm.Warning.Println("There are no split entries to merge")
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return false, ws.Merge(lineage)

	case prompts.ActionCommit:
		out, err := r.svc.Import.Commit(r.cmd.Context(), ws)
		if err != nil {
			return false, err
		}
		if out.Queued {
			pterm.Info.Printf("%d transactions saved locally, they will be submitted on the next sync\n", len(out.LocalIDs))
		} else {
			pterm.Success.Printf("%d transactions imported\n", out.Submitted)
		}
		ui.PrintDivider()
		return true, nil

	case prompts.ActionCancel:
		ok, err := prompts.PromptConfirm("Discard this import?", false)
		if err != nil || !ok {
			return false, err
		}
		pterm.Info.Println("Import cancelled, nothing was saved")
		return true, nil
	}

	return false, fmt.Errorf("unknown action %q", action)
}

func (r *importRunner) total(ws *reconcile.Workspace) string {
	entries := ws.Entries()
	if len(entries) == 0 {
		return "0"
	}
	return utils.FormatAmount(ws.Total(), entries[0].Currency)
}

// keepReviewing reports whether err leaves the workspace usable. Failed
// saves keep every split and assignment so the user can fix and retry.
func keepReviewing(err error) bool {
	if errors.Is(err, finance.ErrAuthExpired) || errors.Is(err, store.ErrStorage) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errhandler.IsInterrupt(err) {
		return false
	}

	var incomplete *reconcile.IncompleteAssignmentError
	return errors.Is(err, reconcile.ErrInvalidSplitAmount) ||
		errors.As(err, &incomplete) ||
		errors.Is(err, finance.ErrValidation) ||
		errors.Is(err, finance.ErrNetwork)
}

// splittable reports whether c leaves room for two parts at cent precision.
func splittable(c reconcile.Candidate) bool {
	return c.Amount.GreaterThan(minSplitPart)
}
