package models

// CategorizationResult is the outcome of running the rule engine against
// one transaction. Category is empty when no rule matched at or above
// the acceptance threshold.
type CategorizationResult struct {
	Category    string  `json:"category,omitempty"`
	CategoryID  string  `json:"category_id,omitempty"`
	Confidence  float64 `json:"confidence"`
	MatchedRule string  `json:"matched_rule,omitempty"`
	MatchedText string  `json:"matched_text,omitempty"`
}

// Matched reports whether a category was assigned.
func (r CategorizationResult) Matched() bool {
	return r.Category != ""
}
