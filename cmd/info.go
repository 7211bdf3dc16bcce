package cmd

import (
	"os"

	"github.com/hance08/wren/internal/app"
	"github.com/hance08/wren/internal/service"
	"github.com/hance08/wren/internal/ui/views"
	"github.com/spf13/cobra"
)

type statusRunner struct {
	svc *service.Service
	cmd *cobra.Command
}

func NewStatusCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Aliases: []string{"info"},
		Short:   "Display connection and local data status",
		Long:    `Display current configuration, database path, server health, age of the local data and the number of pending transactions.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &statusRunner{
				svc: svc,
				cmd: cmd,
			}

			return runner.Run()
		},
	}
}

func (r *statusRunner) Run() error {
	configPath := r.svc.Config.ConfigPath
	if configPath == "" {
		configPath = "(None, using defaults)"
	}

	dbPath, err := app.DatabasePath(r.svc.Config)
	if err != nil {
		return err
	}

	dbExists := false
	if _, err := os.Stat(dbPath); err == nil {
		dbExists = true
	}

	status, err := r.svc.Status(r.cmd.Context())
	if err != nil {
		return err
	}

	items := views.SystemInfoItem{
		ConfigPath:      configPath,
		DBPath:          dbPath,
		DBExists:        dbExists,
		DefaultCurrency: r.svc.Config.Defaults.Currency,
		ServerURL:       r.svc.Config.Server.BaseURL,
		Status:          status,
	}

	return views.RenderSystemInfo(items)
}
