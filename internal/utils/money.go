package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// usd renders grouped decimal amounts ("1,234.56") for display strings.
var usd = message.NewPrinter(language.English)

// FormatUSD renders a monetary amount as a grouped 2-decimal dollar
// string, e.g. FormatUSD(1234.5) == "$1,234.50".
func FormatUSD(v float64) string {
	return usd.Sprintf("$%v", number.Decimal(v,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}
