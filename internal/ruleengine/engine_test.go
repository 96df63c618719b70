package ruleengine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a1e5ya/smart-finance-planner/internal/logging"
	"github.com/a1e5ya/smart-finance-planner/internal/models"
)

func makeTx(merchant, memo string, amount string) models.NormalizedTransaction {
	amt := decimal.RequireFromString(amount)
	return models.NormalizedTransaction{
		Merchant:  merchant,
		Memo:      memo,
		Amount:    amt,
		AmountAbs: amt.Abs(),
	}
}

func TestCategorizeKeyword(t *testing.T) {
	engine := New([]models.CategoryRule{
		{ID: "r1", PatternType: models.PatternKeyword, PatternValue: "starbucks", TargetCategory: "Dining", Priority: 10, Confidence: 0.9, Active: true},
	}, logging.NewMockLogger())

	tests := []struct {
		name     string
		tx       models.NormalizedTransaction
		expected string
	}{
		{"Merchant match", makeTx("STARBUCKS #123", "", "-5.40"), "Dining"},
		{"Memo match", makeTx("CARD PAYMENT", "starbucks zurich", "-5.40"), "Dining"},
		{"Case insensitive", makeTx("StArBuCkS", "", "-5.40"), "Dining"},
		{"No match", makeTx("MIGROS", "groceries", "-20.00"), ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := engine.Categorize(tc.tx)
			assert.Equal(t, tc.expected, result.Category)
			if tc.expected != "" {
				assert.Equal(t, "r1", result.MatchedRule)
				assert.InDelta(t, 0.9, result.Confidence, 0.001)
			}
		})
	}
}

func TestCategorizeMatchesAcrossMerchantAndMemo(t *testing.T) {
	engine := New([]models.CategoryRule{
		{ID: "kw", PatternType: models.PatternKeyword, PatternValue: "starbucks card", TargetCategory: "Dining", Priority: 10, Confidence: 0.9, Active: true},
		{ID: "re", PatternType: models.PatternRegex, PatternValue: `starbucks\s+card`, TargetCategory: "Dining", Priority: 5, Confidence: 0.85, Active: true},
	}, logging.NewMockLogger())

	// The pattern spans the merchant and memo fields, so it only matches
	// against their concatenation.
	tx := makeTx("STARBUCKS", "card payment", "-25.00")

	result := engine.Categorize(tx)
	require.Equal(t, "Dining", result.Category)
	assert.Equal(t, "kw", result.MatchedRule)
	assert.Equal(t, "STARBUCKS card payment", result.MatchedText)

	regexOnly := New([]models.CategoryRule{
		{ID: "re", PatternType: models.PatternRegex, PatternValue: `starbucks\s+card`, TargetCategory: "Dining", Priority: 5, Confidence: 0.85, Active: true},
	}, logging.NewMockLogger())
	assert.Equal(t, "Dining", regexOnly.Categorize(tx).Category)
}

func TestCategorizeRegex(t *testing.T) {
	engine := New([]models.CategoryRule{
		{ID: "r1", PatternType: models.PatternRegex, PatternValue: `^uber\s`, TargetCategory: "Transport", Priority: 10, Confidence: 0.85, Active: true},
	}, logging.NewMockLogger())

	assert.Equal(t, "Transport", engine.Categorize(makeTx("Uber Trip Zurich", "", "-18.00")).Category)
	assert.Equal(t, "", engine.Categorize(makeTx("Suber Market", "", "-18.00")).Category)
}

func TestCategorizeMerchantExact(t *testing.T) {
	engine := New([]models.CategoryRule{
		{ID: "r1", PatternType: models.PatternMerchantExact, PatternValue: "Migros", TargetCategory: "Groceries", Priority: 10, Confidence: 0.95, Active: true},
	}, logging.NewMockLogger())

	assert.Equal(t, "Groceries", engine.Categorize(makeTx("migros", "", "-20.00")).Category)
	assert.Equal(t, "", engine.Categorize(makeTx("Migros Bank", "", "-20.00")).Category)
}

func TestCategorizeMCC(t *testing.T) {
	engine := New([]models.CategoryRule{
		{ID: "r1", PatternType: models.PatternMCC, PatternValue: "5411", TargetCategory: "Groceries", Priority: 10, Confidence: 0.9, Active: true},
	}, logging.NewMockLogger())

	tx := makeTx("ANYTHING", "", "-20.00")
	tx.MCC = "5411"
	assert.Equal(t, "Groceries", engine.Categorize(tx).Category)

	tx.MCC = ""
	assert.Equal(t, "", engine.Categorize(tx).Category)
}

func TestCategorizeCSVMapping(t *testing.T) {
	engine := New([]models.CategoryRule{
		{ID: "r1", PatternType: models.PatternCSVMapping, PatternValue: "category:Lebensmittel", TargetCategory: "Groceries", Priority: 10, Confidence: 1.0, Active: true},
	}, logging.NewMockLogger())

	tx := makeTx("MIGROS", "", "-20.00")
	tx.Source.Category = "lebensmittel"
	assert.Equal(t, "Groceries", engine.Categorize(tx).Category)

	tx.Source.Category = "Freizeit"
	assert.Equal(t, "", engine.Categorize(tx).Category)
}

func TestCategorizeAmountRangeDiscountsConfidence(t *testing.T) {
	engine := New([]models.CategoryRule{
		{ID: "r1", PatternType: models.PatternAmountRange, PatternValue: "100:500", TargetCategory: "Large Purchase", Priority: 10, Confidence: 1.0, Active: true},
	}, logging.NewMockLogger())

	result := engine.Categorize(makeTx("SOMETHING", "", "-250.00"))
	require.Equal(t, "Large Purchase", result.Category)
	assert.InDelta(t, 0.7, result.Confidence, 0.001)

	assert.Equal(t, "", engine.Categorize(makeTx("SOMETHING", "", "-50.00")).Category)
	// Bounds are inclusive.
	assert.Equal(t, "Large Purchase", engine.Categorize(makeTx("X", "", "100.00")).Category)
	assert.Equal(t, "Large Purchase", engine.Categorize(makeTx("X", "", "-500.00")).Category)
}

func TestCategorizeCompositeAllOrNothing(t *testing.T) {
	engine := New([]models.CategoryRule{
		{
			ID:             "r1",
			PatternType:    models.PatternComposite,
			PatternValue:   `{"merchant_contains":"uber","amount_range":"0:20"}`,
			TargetCategory: "Rideshare",
			Priority:       10,
			Confidence:     0.9,
			Active:         true,
		},
	}, logging.NewMockLogger())

	assert.Equal(t, "Rideshare", engine.Categorize(makeTx("UBER TRIP", "", "-15.00")).Category)
	// Merchant matches but the amount falls outside the range.
	assert.Equal(t, "", engine.Categorize(makeTx("UBER TRIP", "", "-35.00")).Category)
	// Amount in range but wrong merchant.
	assert.Equal(t, "", engine.Categorize(makeTx("LYFT", "", "-15.00")).Category)
}

func TestCategorizeTieBreaks(t *testing.T) {
	rules := []models.CategoryRule{
		{ID: "low-priority", PatternType: models.PatternKeyword, PatternValue: "coffee", TargetCategory: "Dining", Priority: 1, Confidence: 0.8, Active: true},
		{ID: "high-priority", PatternType: models.PatternKeyword, PatternValue: "starbucks", TargetCategory: "Coffee Shops", Priority: 100, Confidence: 0.8, Active: true},
		{ID: "high-confidence", PatternType: models.PatternKeyword, PatternValue: "latte", TargetCategory: "Lattes", Priority: 1, Confidence: 0.95, Active: true},
	}
	engine := New(rules, logging.NewMockLogger())

	// Equal confidence: the higher-priority rule wins.
	result := engine.Categorize(makeTx("STARBUCKS COFFEE", "", "-5.40"))
	assert.Equal(t, "high-priority", result.MatchedRule)

	// Higher confidence beats higher priority.
	result = engine.Categorize(makeTx("STARBUCKS COFFEE", "latte to go", "-5.40"))
	assert.Equal(t, "high-confidence", result.MatchedRule)
	assert.InDelta(t, 0.95, result.Confidence, 0.001)
}

func TestEngineSkipsBadRules(t *testing.T) {
	logger := logging.NewMockLogger()
	rules := []models.CategoryRule{
		{ID: "bad-regex", PatternType: models.PatternRegex, PatternValue: `([unclosed`, TargetCategory: "X", Priority: 10, Confidence: 0.9, Active: true},
		{ID: "bad-composite", PatternType: models.PatternComposite, PatternValue: `not json`, TargetCategory: "X", Priority: 10, Confidence: 0.9, Active: true},
		{ID: "bad-range", PatternType: models.PatternAmountRange, PatternValue: `abc:def`, TargetCategory: "X", Priority: 10, Confidence: 0.9, Active: true},
		{ID: "bad-type", PatternType: "telepathy", TargetCategory: "X", Priority: 10, Confidence: 0.9, Active: true},
		{ID: "inactive", PatternType: models.PatternKeyword, PatternValue: "migros", TargetCategory: "X", Priority: 10, Confidence: 0.9, Active: false},
		{ID: "good", PatternType: models.PatternKeyword, PatternValue: "coop", TargetCategory: "Groceries", Priority: 10, Confidence: 0.9, Active: true},
	}

	engine := New(rules, logger)
	assert.Equal(t, 1, engine.RuleCount())
	assert.Equal(t, "Groceries", engine.Categorize(makeTx("COOP CITY", "", "-12.00")).Category)
	assert.Equal(t, "", engine.Categorize(makeTx("MIGROS", "", "-12.00")).Category)
	assert.Len(t, logger.EntriesByLevel("WARN"), 4)
}

func TestCategorizeEmptyEngine(t *testing.T) {
	engine := New(nil, logging.NewMockLogger())
	result := engine.Categorize(makeTx("ANYTHING", "", "-1.00"))
	assert.False(t, result.Matched())
	assert.Zero(t, result.Confidence)
}

func TestParseAmountRange(t *testing.T) {
	tests := []struct {
		payload string
		ok      bool
	}{
		{"0:20", true},
		{"100:", true},
		{":50", true},
		{"1.50:99.99", true},
		{"abc:def", false},
		{"50:10", false},
		{":", false},
		{"nocolon", false},
	}

	for _, tc := range tests {
		t.Run(tc.payload, func(t *testing.T) {
			_, _, err := parseAmountRange(tc.payload)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
