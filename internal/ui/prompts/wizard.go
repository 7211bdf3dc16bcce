package prompts

import (
	"errors"
	"net/url"
	"strings"

	"github.com/charmbracelet/huh"
)

// SetupAnswers is the result of the first-run wizard.
type SetupAnswers struct {
	Currency string
	BaseURL  string
}

func PromptInitSetup(currDefault string) (SetupAnswers, error) {
	selection := currDefault
	var baseURL string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Welcome to wren! Please set the default currency:").
				Description("Used for transactions whose account has no currency").
				Options(
					huh.NewOption("EUR", "EUR"),
					huh.NewOption("USD", "USD"),
					huh.NewOption("GBP", "GBP"),
					huh.NewOption("CHF", "CHF"),
					huh.NewOption("Other", "Other"),
				).
				Value(&selection),
			huh.NewInput().
				Title("Finance server address:").
				Description("e.g. https://finance.example.com, leave empty to work offline").
				Value(&baseURL).
				Validate(validateBaseURL),
		),
	)

	if err := form.Run(); err != nil {
		return SetupAnswers{}, err
	}

	finalCurrency := selection
	if selection == "Other" {
		var customInput string
		err := huh.NewInput().
			Title("Please enter the currency code:").
			Description("Please use the ISO 4217 standard 3-letter currency code.").
			Value(&customInput).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("currency code is required")
				}
				return nil
			}).
			Run()

		if err != nil {
			return SetupAnswers{}, err
		}

		finalCurrency = strings.ToUpper(strings.TrimSpace(customInput))
	}

	return SetupAnswers{Currency: finalCurrency, BaseURL: strings.TrimSpace(baseURL)}, nil
}

func validateBaseURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("enter a full http(s) address")
	}
	return nil
}
