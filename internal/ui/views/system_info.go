package views

import (
	"fmt"
	"time"

	"github.com/hance08/wren/internal/service"
	"github.com/pterm/pterm"
)

type SystemInfoItem struct {
	ConfigPath      string
	DBPath          string
	DBExists        bool // true = Found, false = Not Found
	DefaultCurrency string
	ServerURL       string
	Status          service.Status
}

func RenderSystemInfo(data SystemInfoItem) error {
	dbStatus := pterm.Green("Found")
	if !data.DBExists {
		dbStatus = pterm.Red("Not Found (Will be created)")
	}

	serverURL := data.ServerURL
	if serverURL == "" {
		serverURL = pterm.Gray("(not configured)")
	}

	server := pterm.Red("Unreachable")
	if data.Status.ServerUp {
		server = pterm.Green("UP")
	}

	snapshotAge := pterm.Yellow("Never synced")
	if !data.Status.FetchedAt.IsZero() {
		snapshotAge = fmt.Sprintf("%s (%s ago)",
			data.Status.FetchedAt.Local().Format("2006-01-02 15:04"),
			time.Since(data.Status.FetchedAt).Round(time.Minute))
	}

	pending := fmt.Sprint(data.Status.PendingCount)
	if data.Status.Rejected > 0 {
		pending = fmt.Sprintf("%d (%s)", data.Status.PendingCount, pterm.Red(fmt.Sprintf("%d rejected", data.Status.Rejected)))
	}

	tableData := pterm.TableData{
		{"Configuration File", data.ConfigPath},
		{"Database Path", data.DBPath},
		{"Database Status", dbStatus},
		{"Default Currency", data.DefaultCurrency},
		{"Server", serverURL},
		{"Server Status", server},
		{"Last Sync", snapshotAge},
		{"Reference Data", fmt.Sprintf("%d containers, %d accounts, %d categories",
			data.Status.Containers, data.Status.Accounts, data.Status.Categories)},
		{"Pending Transactions", pending},
	}

	return pterm.DefaultTable.WithData(tableData).Render()
}
