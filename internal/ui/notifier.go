package ui

import (
	"github.com/hance08/wren/internal/syncer"
	"github.com/pterm/pterm"
)

// Banner prints connectivity notices as pterm status lines.
type Banner struct {
	// Quiet suppresses the success banner, for commands whose own output
	// already says it.
	Quiet bool
}

var _ syncer.Notifier = (*Banner)(nil)

func (b *Banner) Notify(s syncer.Status) {
	msg := s.Message()

	switch s.Kind {
	case syncer.StatusSynced:
		if !b.Quiet {
			pterm.Success.Println(msg)
		}
	case syncer.StatusOffline:
		pterm.Warning.Println(msg)
	case syncer.StatusFlushFailed:
		pterm.Error.Println(msg)
	case syncer.StatusQueued:
		pterm.Info.Println(msg)
	}
}
