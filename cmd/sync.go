package cmd

import (
	"github.com/hance08/wren/internal/service"
	"github.com/hance08/wren/internal/ui"
	"github.com/hance08/wren/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type syncRunner struct {
	svc    *service.Service
	banner *ui.Banner
	cmd    *cobra.Command
}

func NewSyncCmd(svc *service.Service, banner *ui.Banner) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Refresh local data and submit pending transactions",
		Long: `Download containers, accounts and categories from the server and replace
the local copy, then submit every transaction recorded while offline.

If the server can't be reached, the local copy is kept and nothing is submitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &syncRunner{
				svc:    svc,
				banner: banner,
				cmd:    cmd,
			}
			return runner.Run()
		},
	}
}

func (r *syncRunner) Run() error {
	if offline {
		pterm.Warning.Println("--offline is set, nothing to sync")
		return nil
	}

	spinner, _ := pterm.DefaultSpinner.Start("Synchronizing...")
	r.banner.Quiet = true

	res, err := r.svc.Sync.Sync(r.cmd.Context())
	if spinner != nil {
		_ = spinner.Stop()
	}
	if err != nil {
		return err
	}

	if !res.Stale {
		pterm.Success.Println("Synchronized with server")
	}
	views.RenderSyncResult(res)
	return nil
}
