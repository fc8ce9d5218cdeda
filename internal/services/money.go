package services

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.MustParse("en-CA"))

// FormatAmount renders an integer minor-unit amount as "$45.00 CAD".
// Unknown currency codes fall back to a plain rendering instead of failing
// the notification.
func FormatAmount(minorUnits int64, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = "CAD"
	}
	major := float64(minorUnits) / 100

	if _, err := currency.ParseISO(code); err != nil {
		return fmt.Sprintf("$%.2f %s", major, code)
	}
	// Locale-aware digit grouping via the message printer.
	return moneyPrinter.Sprintf("$%.2f %s", major, code)
}
