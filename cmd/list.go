package cmd

import (
	"github.com/hance08/wren/internal/service"
	"github.com/hance08/wren/internal/ui/views"
	"github.com/spf13/cobra"
)

type listRunner struct {
	svc *service.Service
	cmd *cobra.Command
}

func NewAccountsCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"acc"},
		Short:   "List accounts grouped by container",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &listRunner{svc: svc, cmd: cmd}
			return runner.Accounts()
		},
	}
}

func NewCategoriesCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "List transaction categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &listRunner{svc: svc, cmd: cmd}
			return runner.Categories()
		},
	}
}

func (r *listRunner) Accounts() error {
	snap, err := loadReference(r.cmd.Context(), r.svc)
	if err != nil {
		return err
	}
	return views.NewAccountListView().Render(snap)
}

func (r *listRunner) Categories() error {
	snap, err := loadReference(r.cmd.Context(), r.svc)
	if err != nil {
		return err
	}
	return views.RenderCategories(snap)
}
