package cmd

import (
	"fmt"
	"strings"

	"github.com/hance08/wren/internal/model"
	"github.com/hance08/wren/internal/queue"
	"github.com/hance08/wren/internal/service"
	"github.com/hance08/wren/internal/ui"
	"github.com/hance08/wren/internal/ui/views"
	"github.com/hance08/wren/internal/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type pendingRunner struct {
	svc *service.Service
	cmd *cobra.Command
	yes bool
}

func NewPendingCmd(svc *service.Service) *cobra.Command {
	r := &pendingRunner{svc: svc}

	pendingCmd := &cobra.Command{
		Use:   "pending",
		Short: "Manage transactions waiting to be submitted",
		Long:  "List, submit, retry or discard transactions that were recorded while offline.",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List pending transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r.cmd = cmd
			return r.List()
		},
	}

	flushCmd := &cobra.Command{
		Use:   "flush",
		Short: "Submit pending transactions now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r.cmd = cmd
			return r.Flush()
		},
	}

	discardCmd := &cobra.Command{
		Use:   "discard <pending-id>",
		Short: "Delete a pending transaction without submitting it",
		Long:  `Delete a pending transaction without submitting it. This action cannot be undone.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r.cmd = cmd
			return r.Discard(args[0])
		},
	}
	discardCmd.Flags().BoolVarP(&r.yes, "yes", "y", false, "Do not ask for confirmation")

	retryCmd := &cobra.Command{
		Use:   "retry <pending-id>",
		Short: "Submit a rejected transaction again on the next flush",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r.cmd = cmd
			return r.Retry(args[0])
		},
	}

	pendingCmd.AddCommand(listCmd, flushCmd, discardCmd, retryCmd)
	return pendingCmd
}

func (r *pendingRunner) List() error {
	ctx := r.cmd.Context()

	entries, err := r.svc.Queue.List(ctx)
	if err != nil {
		return err
	}

	snap, err := r.svc.Sync.Snapshot(ctx)
	if err != nil {
		return err
	}

	return views.NewPendingListView().Render(entries, snap)
}

func (r *pendingRunner) Flush() error {
	if offline {
		pterm.Warning.Println("--offline is set, nothing submitted")
		return nil
	}

	report, err := r.svc.Sync.FlushPending(r.cmd.Context())
	views.RenderFlushReport(report)
	return err
}

func (r *pendingRunner) Discard(id string) error {
	ctx := r.cmd.Context()

	entry, err := r.resolve(id)
	if err != nil {
		return err
	}

	if !r.yes {
		tx := entry.Transaction
		pterm.Warning.Printf("About to discard %q (%s)\n", tx.Description, utils.FormatAmount(tx.Amount, tx.Currency))
		pterm.Warning.Println("This action cannot be undone!")

		ok, err := ui.Confirm("Do you want to discard this transaction?")
		if err != nil {
			return err
		}
		if !ok {
			pterm.Info.Println("Discard cancelled")
			return nil
		}
	}

	if err := r.svc.Queue.Discard(ctx, entry.LocalID); err != nil {
		return err
	}

	pterm.Success.Printf("Pending transaction %.8s discarded\n", entry.LocalID)
	return nil
}

func (r *pendingRunner) Retry(id string) error {
	entry, err := r.resolve(id)
	if err != nil {
		return err
	}

	if err := r.svc.Queue.Retry(r.cmd.Context(), entry.LocalID); err != nil {
		return err
	}

	pterm.Success.Printf("Pending transaction %.8s will be submitted on the next sync\n", entry.LocalID)
	return nil
}

// resolve finds the entry whose local id starts with prefix. The prefix
// must match exactly one entry.
func (r *pendingRunner) resolve(prefix string) (model.PendingTransaction, error) {
	entries, err := r.svc.Queue.List(r.cmd.Context())
	if err != nil {
		return model.PendingTransaction{}, err
	}
	return matchPending(entries, prefix)
}

func matchPending(entries []model.PendingTransaction, prefix string) (model.PendingTransaction, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return model.PendingTransaction{}, fmt.Errorf("pending id is required")
	}

	var found []model.PendingTransaction
	for _, e := range entries {
		if strings.HasPrefix(e.LocalID, prefix) {
			found = append(found, e)
		}
	}

	switch len(found) {
	case 0:
		return model.PendingTransaction{}, fmt.Errorf("%w: %s", queue.ErrEntryNotFound, prefix)
	case 1:
		return found[0], nil
	default:
		return model.PendingTransaction{}, fmt.Errorf("pending id %q is ambiguous (%d matches)", prefix, len(found))
	}
}
