package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbolPattern = regexp.MustCompile(`[€$£¥₣₤₧₹₺₽₩฿₫₲₴₸₼₪\s]`)

// currencyHints maps the symbols we can attribute unambiguously to an
// ISO code. Raw amount cells are the only place some exports carry any
// currency information at all.
var currencyHints = []struct {
	symbol string
	code   string
}{
	{"€", "EUR"},
	{"£", "GBP"},
	{"$", "USD"},
	{"¥", "JPY"},
	{"CHF", "CHF"},
}

// ParseAmount parses a raw amount cell into a signed decimal. It
// accepts currency symbols, thousands separators in US, European and
// Swiss styles, comma decimal separators and accounting parentheses
// for negatives.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount value")
	}

	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}

	standardized := StandardizeAmount(cleaned)
	if standardized == "" {
		return decimal.Zero, fmt.Errorf("no numeric content in amount %q", raw)
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount %q: %w", raw, err)
	}

	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

// StandardizeAmount converts the separator conventions found in bank
// exports to a form decimal.NewFromString accepts. Handles patterns
// like "$1,234.56", "1.234,56", "1'234.56" and "1 234,56".
func StandardizeAmount(amountStr string) string {
	amountStr = currencySymbolPattern.ReplaceAllString(amountStr, "")
	amountStr = strings.ReplaceAll(amountStr, "CHF", "")

	if strings.Contains(amountStr, ",") && strings.Contains(amountStr, ".") {
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			// European format (1.234,56)
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			// US format (1,234.56)
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	} else if strings.Contains(amountStr, ",") {
		parts := strings.Split(amountStr, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			// Comma used as decimal separator (1234,56)
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			// Comma used as thousand separator (1,234)
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	}

	// Apostrophes used as thousand separators (1'234.56)
	amountStr = strings.ReplaceAll(amountStr, "'", "")

	return amountStr
}

// CurrencyHint returns the ISO code implied by a currency symbol in a
// raw amount cell, or "" when the cell carries none.
func CurrencyHint(raw string) string {
	for _, hint := range currencyHints {
		if strings.Contains(raw, hint.symbol) {
			return hint.code
		}
	}
	return ""
}
