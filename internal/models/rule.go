package models

// PatternType identifies how a CategoryRule matches a transaction.
type PatternType string

// The closed set of rule pattern types. The rule engine dispatches on
// these with an exhaustive switch; an unrecognized type never matches.
const (
	PatternKeyword       PatternType = "keyword"
	PatternRegex         PatternType = "regex"
	PatternMerchantExact PatternType = "merchant_exact"
	PatternMCC           PatternType = "mcc"
	PatternCSVMapping    PatternType = "csv_mapping"
	PatternAmountRange   PatternType = "amount_range"
	PatternComposite     PatternType = "composite"
)

// CategoryRule is a single prioritized categorization rule. Rules are
// loaded in bulk before a batch; the engine holds an immutable,
// priority-sorted snapshot for the duration of one import.
type CategoryRule struct {
	ID             string      `json:"id" yaml:"id"`
	PatternType    PatternType `json:"pattern_type" yaml:"pattern_type"`
	PatternValue   string      `json:"pattern_value" yaml:"pattern_value"`
	TargetCategory string      `json:"target_category" yaml:"target_category"`
	Priority       int         `json:"priority" yaml:"priority"`
	Confidence     float64     `json:"confidence" yaml:"confidence"`
	Active         bool        `json:"active" yaml:"active"`
	Description    string      `json:"description,omitempty" yaml:"description,omitempty"`
}

// CompositeConditions is the structured payload of a composite rule.
// Every non-empty condition must hold for the rule to match.
type CompositeConditions struct {
	MerchantContains string `json:"merchant_contains,omitempty"`
	MemoContains     string `json:"memo_contains,omitempty"`
	AmountRange      string `json:"amount_range,omitempty"` // "min:max", inclusive, against the absolute amount
	MCC              string `json:"mcc,omitempty"`
}
