package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name       string
		amountStr  string
		expectedOk bool
		expected   string
	}{
		{"Plain decimal", "45.00", true, "45"},
		{"Negative decimal", "-45.00", true, "-45"},
		{"Accounting parentheses", "(45.00)", true, "-45"},
		{"US thousands with symbol", "$1,234.56", true, "1234.56"},
		{"Euro symbol", "€99.95", true, "99.95"},
		{"Comma decimal separator", "45,00", true, "45"},
		{"European thousands", "1.234,56", true, "1234.56"},
		{"Swiss apostrophes", "1'234.56", true, "1234.56"},
		{"CHF prefix", "CHF 1'234.56", true, "1234.56"},
		{"Space-grouped European", "1 234,56", true, "1234.56"},
		{"Comma as thousands only", "1,234", true, "1234"},
		{"Integer", "100", true, "100"},
		{"Zero", "0", true, "0"},
		{"Negative with symbol", "-€12.50", true, "-12.5"},
		{"Empty string", "", false, ""},
		{"Not a number", "abc", false, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			amount, err := ParseAmount(tc.amountStr)

			if !tc.expectedOk {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, amount.String())
		})
	}
}

func TestStandardizeAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"$1,234.56", "1234.56"},
		{"1.234,56", "1234.56"},
		{"1'234.56", "1234.56"},
		{"45,00", "45.00"},
		{"1,234", "1234"},
		{"€99.95", "99.95"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, StandardizeAmount(tc.input))
		})
	}
}

func TestCurrencyHint(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"€45.00", "EUR"},
		{"£45.00", "GBP"},
		{"$45.00", "USD"},
		{"¥4500", "JPY"},
		{"CHF 45.00", "CHF"},
		{"45.00", ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, CurrencyHint(tc.input))
		})
	}
}
