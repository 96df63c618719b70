package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanMerchant(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Already clean", "Starbucks", "Starbucks"},
		{"Collapses whitespace", "  Starbucks   Coffee  ", "Starbucks Coffee"},
		{"Strips asterisk padding", "***PAYPAL *STEAM GAMES", "PAYPAL *STEAM GAMES"},
		{"Trailing asterisks", "AMZN Mktp*", "AMZN Mktp"},
		{"Leading terminal id", "12345 SHELL STATION", "SHELL STATION"},
		{"Short leading number kept", "7 ELEVEN", "7 ELEVEN"},
		{"Empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CleanMerchant(tc.input, 0))
		})
	}
}

func TestCleanMerchantCapsLength(t *testing.T) {
	long := strings.Repeat("A", 300)
	assert.Len(t, CleanMerchant(long, 0), MerchantMaxLength)
}

func TestCleanMemoCapsLength(t *testing.T) {
	long := strings.Repeat("B", 600)
	assert.Len(t, CleanMemo(long, 0), MemoMaxLength)
	assert.Equal(t, "card payment", CleanMemo("  card   payment ", 0))
}

func TestCleanMerchantIdempotent(t *testing.T) {
	inputs := []string{"  Starbucks  Coffee ", "***MIGROS***", "98765 COOP CITY"}
	for _, input := range inputs {
		once := CleanMerchant(input, 0)
		assert.Equal(t, once, CleanMerchant(once, 0))
	}
}

func TestCleanMerchantCustomCap(t *testing.T) {
	assert.Equal(t, "Starb", CleanMerchant("Starbucks Coffee", 5))
}

func TestCleanMemoCustomCap(t *testing.T) {
	assert.Equal(t, "card pay", CleanMemo("  card   payment ", 8))
}

func TestParseBool(t *testing.T) {
	truthy := []string{"true", "TRUE", "1", "yes", "Y", "t", "on", " True "}
	for _, v := range truthy {
		assert.True(t, ParseBool(v), "expected %q to be true", v)
	}

	falsy := []string{"", "false", "0", "no", "n", "off", "maybe"}
	for _, v := range falsy {
		assert.False(t, ParseBool(v), "expected %q to be false", v)
	}
}
