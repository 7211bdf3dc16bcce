package errhandler

import (
	"errors"
	"os"
	"unicode"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/charmbracelet/huh"
	"github.com/hance08/wren/internal/finance"
	"github.com/hance08/wren/internal/reconcile"
	"github.com/hance08/wren/internal/store"
	"github.com/hance08/wren/internal/syncer"
	"github.com/pterm/pterm"
)

// Exit codes returned by Code.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitAuth    = 2
	ExitStorage = 3
)

func IsInterrupt(err error) bool {
	return errors.Is(err, terminal.InterruptErr) || errors.Is(err, huh.ErrUserAborted)
}

// Message turns err into the line shown to the user.
func Message(err error) string {
	switch {
	case errors.Is(err, finance.ErrAuthExpired):
		return "Session expired, please log in again and update server.token"
	case errors.Is(err, syncer.ErrNoOfflineData):
		return "No data available: the server is unreachable and nothing is stored locally yet"
	case errors.Is(err, store.ErrStorage):
		return "Local storage failure: " + err.Error()
	case errors.Is(err, reconcile.ErrIncompleteAssignment):
		return capitalize(err.Error()) + ", assign it before saving"
	}
	return capitalize(err.Error())
}

func Code(err error) int {
	switch {
	case err == nil, IsInterrupt(err):
		return ExitOK
	case errors.Is(err, finance.ErrAuthExpired):
		return ExitAuth
	case errors.Is(err, store.ErrStorage):
		return ExitStorage
	default:
		return ExitFailure
	}
}

// HandleError prints err and exits with the matching code.
func HandleError(err error) {
	if IsInterrupt(err) {
		pterm.Warning.Println("Operation Cancelled")
		os.Exit(ExitOK)
	}

	pterm.Error.Println(Message(err))
	os.Exit(Code(err))
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
