package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Format renders an amount with its currency symbol, e.g. "$ 1,234.50".
// Codes that are not ISO 4217 fall back to "<number> <code>".
func Format(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	value, _ := amount.Round(2).Float64()

	unit, err := currency.ParseISO(code)
	if err != nil {
		return Fallback(amount, code)
	}
	return printer.Sprint(currency.Symbol(unit.Amount(value)))
}

// Fallback is the plain "<number> <code>" rendering.
func Fallback(amount decimal.Decimal, code string) string {
	if code == "" {
		return amount.StringFixed(2)
	}
	return fmt.Sprintf("%s %s", amount.StringFixed(2), code)
}
