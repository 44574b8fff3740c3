package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders a monetary amount with thousands separators and no
// decimal places, e.g. 200000 -> "200,000".
func FormatAmount(value float64) string {
	return amountPrinter.Sprint(number.Decimal(value, number.MaxFractionDigits(0)))
}
