package prompts

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/hance08/wren/internal/reconcile"
	"github.com/hance08/wren/internal/utils"
)

// ErrNoChoices is returned when a picker has nothing to offer.
var ErrNoChoices = errors.New("nothing to choose from")

type ImportAction string

const (
	ActionSplit    ImportAction = "split"
	ActionMerge    ImportAction = "merge"
	ActionCategory ImportAction = "category"
	ActionAccount  ImportAction = "account"
	ActionCommit   ImportAction = "commit"
	ActionCancel   ImportAction = "cancel"
)

func PromptImportAction() (ImportAction, error) {
	action := ActionCategory

	err := huh.NewSelect[ImportAction]().
		Title("What next?").
		Options(
			huh.NewOption("Assign a category", ActionCategory),
			huh.NewOption("Assign an account", ActionAccount),
			huh.NewOption("Split an entry", ActionSplit),
			huh.NewOption("Merge a split back", ActionMerge),
			huh.NewOption("Save all", ActionCommit),
			huh.NewOption("Cancel import", ActionCancel),
		).
		Value(&action).
		Run()

	return action, err
}

// PromptEntry asks for an entry of the list by its 1-based row number and
// returns its index.
func PromptEntry(entries []reconcile.Candidate, message string) (int, error) {
	return PromptEntryWhere(entries, message, nil)
}

// PromptEntryWhere is PromptEntry limited to the entries keep accepts. Row
// numbers still refer to the full list.
func PromptEntryWhere(entries []reconcile.Candidate, message string, keep func(reconcile.Candidate) bool) (int, error) {
	opts := make([]huh.Option[int], 0, len(entries))
	for i, e := range entries {
		if keep != nil && !keep(e) {
			continue
		}
		label := fmt.Sprintf("%d. %s  %s", i+1, e.Description, utils.FormatAmount(e.Amount, e.Currency))
		opts = append(opts, huh.NewOption(label, i))
	}
	if len(opts) == 0 {
		return 0, ErrNoChoices
	}

	var selected int
	err := huh.NewSelect[int]().
		Title(message).
		Options(opts...).
		Value(&selected).
		Height(15).
		Run()

	return selected, err
}

// PromptLineage asks for one of the split lineages present in entries.
func PromptLineage(entries []reconcile.Candidate) (string, error) {
	seen := make(map[string]bool)
	var opts []huh.Option[string]
	for i, e := range entries {
		if e.ParentID == "" || seen[e.ParentID] {
			continue
		}
		seen[e.ParentID] = true
		opts = append(opts, huh.NewOption(fmt.Sprintf("Split of %q (from row %d)", e.Description, i+1), e.ParentID))
	}

	if len(opts) == 0 {
		return "", fmt.Errorf("%w: there are no split entries to merge", ErrNoChoices)
	}

	var selected string
	err := huh.NewSelect[string]().
		Title("Merge which split?").
		Options(opts...).
		Value(&selected).
		Run()

	return selected, err
}

// PromptSplitAmount asks for the amount of the first part of a split.
func PromptSplitAmount(c reconcile.Candidate) (string, error) {
	help := fmt.Sprintf("Between 0 and %s, the rest goes to the second part", c.Amount.String())

	return PromptAmount("Amount of the first part:", help, func(s string) error {
		amount, err := utils.ParseAmount(s)
		if err != nil {
			return err
		}
		if amount.GreaterThanOrEqual(c.Amount) {
			return fmt.Errorf("must be less than %s", c.Amount.String())
		}
		return nil
	})
}
