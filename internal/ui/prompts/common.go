package prompts

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// PromptDescription prompts for a description text
func PromptDescription(message string, validator func(string) error) (string, error) {
	var desc string

	input := huh.NewInput().
		Title(message).
		Value(&desc)

	if validator != nil {
		input.Validate(validator)
	}

	err := input.Run()
	return strings.TrimSpace(desc), err
}

// PromptAmount prompts for an amount with custom validation
func PromptAmount(message string, helpText string, validator func(string) error) (string, error) {
	var amount string

	input := huh.NewInput().
		Title(message).
		Description(helpText).
		Value(&amount)

	if validator != nil {
		input.Validate(validator)
	}

	err := input.Run()
	return strings.TrimSpace(amount), err
}

// PromptConfirm prompts for yes/no confirmation
func PromptConfirm(message string, defaultValue bool) (bool, error) {
	confirm := defaultValue

	err := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&confirm).
		Run()

	return confirm, err
}

// PromptInput prompts for a generic text input with optional default and validator
func PromptInput(message string, defaultValue string, validator func(string) error) (string, error) {
	var inputVal string

	input := huh.NewInput().
		Title(message).
		Value(&inputVal)

	if defaultValue != "" {
		input.Placeholder(defaultValue)
	}

	if validator != nil {
		input.Validate(func(s string) error {
			if s == "" && defaultValue != "" {
				return nil
			}
			return validator(s)
		})
	}

	if err := input.Run(); err != nil {
		return "", err
	}

	if inputVal == "" && defaultValue != "" {
		return defaultValue, nil
	}

	return inputVal, nil
}

// Choice is a select option carrying an id.
type Choice struct {
	Label string
	ID    int64
}

// PromptChoice prompts for one of choices and returns its id.
func PromptChoice(message string, choices []Choice, height int) (int64, error) {
	if len(choices) == 0 {
		return 0, fmt.Errorf("nothing to choose from")
	}

	opts := make([]huh.Option[int64], 0, len(choices))
	for _, c := range choices {
		opts = append(opts, huh.NewOption(c.Label, c.ID))
	}

	selected := choices[0].ID
	sel := huh.NewSelect[int64]().
		Title(message).
		Options(opts...).
		Value(&selected)
	if height > 0 {
		sel.Height(height)
	}

	err := sel.Run()
	return selected, err
}
