// Package ruleengine matches normalized transactions against
// prioritized categorization rules.
package ruleengine

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/a1e5ya/smart-finance-planner/internal/importerror"
	"github.com/a1e5ya/smart-finance-planner/internal/logging"
	"github.com/a1e5ya/smart-finance-planner/internal/models"
)

// amountRangeDiscount is applied to the confidence of amount_range
// matches. A bare amount bracket is weak evidence compared to text or
// MCC matches.
const amountRangeDiscount = 0.7

// compiledRule is a rule with its pattern payload pre-parsed. Rules
// whose payload fails to parse are dropped at load time.
type compiledRule struct {
	rule      models.CategoryRule
	regex     *regexp.Regexp
	composite *models.CompositeConditions
	rangeMin  *decimal.Decimal
	rangeMax  *decimal.Decimal
	mapField  string
	mapValue  string
}

// Engine holds an immutable, priority-sorted snapshot of the active
// rules for one import batch. It is safe for concurrent use once built.
type Engine struct {
	rules  []compiledRule
	logger logging.Logger
}

// New compiles the given rules into an engine. Inactive rules are
// skipped. Rules with unparseable payloads are skipped with a warning
// so one bad rule never blocks a batch. Within equal priority the
// original load order is preserved.
func New(rules []models.CategoryRule, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.GetLogger()
	}

	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		cr, err := compileRule(rule)
		if err != nil {
			logger.WithError(err).WithFields(
				logging.Field{Key: logging.FieldRule, Value: rule.ID},
				logging.Field{Key: logging.FieldPattern, Value: rule.PatternValue},
			).Warn("Skipping rule with invalid pattern")
			continue
		}
		compiled = append(compiled, cr)
	}

	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].rule.Priority > compiled[j].rule.Priority
	})

	logger.WithField(logging.FieldCount, len(compiled)).Debug("Rule engine loaded")
	return &Engine{rules: compiled, logger: logger}
}

// RuleCount returns the number of usable rules in the snapshot.
func (e *Engine) RuleCount() int {
	return len(e.rules)
}

// Categorize evaluates every rule against the transaction and returns
// the best match. A later rule replaces the current best only on
// strictly higher confidence; at equal confidence the higher-priority
// rule, which was evaluated first, keeps the slot. The zero result
// means no rule matched.
func (e *Engine) Categorize(tx models.NormalizedTransaction) models.CategorizationResult {
	var best models.CategorizationResult

	for i := range e.rules {
		cr := &e.rules[i]
		confidence, matchedText, ok := cr.test(tx)
		if !ok {
			continue
		}
		if confidence > best.Confidence {
			best = models.CategorizationResult{
				Category:    cr.rule.TargetCategory,
				Confidence:  confidence,
				MatchedRule: cr.rule.ID,
				MatchedText: matchedText,
			}
		}
	}

	return best
}

func compileRule(rule models.CategoryRule) (compiledRule, error) {
	cr := compiledRule{rule: rule}

	switch rule.PatternType {
	case models.PatternRegex:
		re, err := regexp.Compile("(?i)" + rule.PatternValue)
		if err != nil {
			return compiledRule{}, &importerror.RulePatternError{RuleID: rule.ID, Pattern: rule.PatternValue, Err: err}
		}
		cr.regex = re

	case models.PatternAmountRange:
		min, max, err := parseAmountRange(rule.PatternValue)
		if err != nil {
			return compiledRule{}, &importerror.RulePatternError{RuleID: rule.ID, Pattern: rule.PatternValue, Err: err}
		}
		cr.rangeMin, cr.rangeMax = min, max

	case models.PatternComposite:
		var conditions models.CompositeConditions
		if err := json.Unmarshal([]byte(rule.PatternValue), &conditions); err != nil {
			return compiledRule{}, &importerror.RulePatternError{RuleID: rule.ID, Pattern: rule.PatternValue, Err: err}
		}
		if conditions == (models.CompositeConditions{}) {
			return compiledRule{}, &importerror.RulePatternError{
				RuleID: rule.ID, Pattern: rule.PatternValue,
				Err: fmt.Errorf("composite rule has no conditions"),
			}
		}
		if conditions.AmountRange != "" {
			if _, _, err := parseAmountRange(conditions.AmountRange); err != nil {
				return compiledRule{}, &importerror.RulePatternError{RuleID: rule.ID, Pattern: conditions.AmountRange, Err: err}
			}
		}
		cr.composite = &conditions

	case models.PatternCSVMapping:
		field, value, ok := strings.Cut(rule.PatternValue, ":")
		if !ok || field == "" {
			return compiledRule{}, &importerror.RulePatternError{
				RuleID: rule.ID, Pattern: rule.PatternValue,
				Err: fmt.Errorf("csv_mapping payload must be 'field:value'"),
			}
		}
		cr.mapField = strings.ToLower(strings.TrimSpace(field))
		cr.mapValue = strings.TrimSpace(value)

	case models.PatternKeyword, models.PatternMerchantExact, models.PatternMCC:
		if strings.TrimSpace(rule.PatternValue) == "" {
			return compiledRule{}, &importerror.RulePatternError{
				RuleID: rule.ID, Pattern: rule.PatternValue,
				Err: fmt.Errorf("empty pattern value"),
			}
		}

	default:
		return compiledRule{}, &importerror.RulePatternError{
			RuleID: rule.ID, Pattern: string(rule.PatternType),
			Err: fmt.Errorf("unknown pattern type"),
		}
	}

	return cr, nil
}

// test evaluates one rule against a transaction and returns the match
// confidence and the text that triggered the match.
func (cr *compiledRule) test(tx models.NormalizedTransaction) (float64, string, bool) {
	switch cr.rule.PatternType {
	case models.PatternKeyword:
		keyword := strings.ToLower(cr.rule.PatternValue)
		combined := combinedText(tx)
		if strings.Contains(strings.ToLower(combined), keyword) {
			return cr.rule.Confidence, combined, true
		}

	case models.PatternRegex:
		combined := combinedText(tx)
		if cr.regex.MatchString(combined) {
			return cr.rule.Confidence, combined, true
		}

	case models.PatternMerchantExact:
		if strings.EqualFold(strings.TrimSpace(tx.Merchant), strings.TrimSpace(cr.rule.PatternValue)) {
			return cr.rule.Confidence, tx.Merchant, true
		}

	case models.PatternMCC:
		if tx.MCC != "" && tx.MCC == strings.TrimSpace(cr.rule.PatternValue) {
			return cr.rule.Confidence, tx.MCC, true
		}

	case models.PatternCSVMapping:
		if value := sourceField(tx, cr.mapField); value != "" && strings.EqualFold(value, cr.mapValue) {
			return cr.rule.Confidence, value, true
		}

	case models.PatternAmountRange:
		if inRange(tx.AmountAbs, cr.rangeMin, cr.rangeMax) {
			return cr.rule.Confidence * amountRangeDiscount, tx.AmountAbs.String(), true
		}

	case models.PatternComposite:
		if text, ok := cr.testComposite(tx); ok {
			return cr.rule.Confidence, text, true
		}
	}

	return 0, "", false
}

// testComposite requires every condition present in the payload to
// hold. A single failing condition fails the whole rule.
func (cr *compiledRule) testComposite(tx models.NormalizedTransaction) (string, bool) {
	c := cr.composite
	matchedText := ""

	if c.MerchantContains != "" {
		if !strings.Contains(strings.ToLower(tx.Merchant), strings.ToLower(c.MerchantContains)) {
			return "", false
		}
		matchedText = tx.Merchant
	}
	if c.MemoContains != "" {
		if !strings.Contains(strings.ToLower(tx.Memo), strings.ToLower(c.MemoContains)) {
			return "", false
		}
		if matchedText == "" {
			matchedText = tx.Memo
		}
	}
	if c.AmountRange != "" {
		min, max, err := parseAmountRange(c.AmountRange)
		if err != nil || !inRange(tx.AmountAbs, min, max) {
			return "", false
		}
		if matchedText == "" {
			matchedText = tx.AmountAbs.String()
		}
	}
	if c.MCC != "" {
		if tx.MCC == "" || tx.MCC != c.MCC {
			return "", false
		}
		if matchedText == "" {
			matchedText = tx.MCC
		}
	}

	return matchedText, true
}

// combinedText is the merchant and memo joined with a space, the text
// that keyword and regex patterns search. Patterns may span the
// boundary between the two fields.
func combinedText(tx models.NormalizedTransaction) string {
	return strings.TrimSpace(tx.Merchant + " " + tx.Memo)
}

func sourceField(tx models.NormalizedTransaction, field string) string {
	switch field {
	case "category":
		return tx.Source.Category
	case "subcategory":
		return tx.Source.Subcategory
	case "main_category":
		return tx.Source.MainCategory
	case "account":
		return tx.Source.Account
	case "account_type":
		return tx.Source.AccountType
	case "owner":
		return tx.Source.Owner
	default:
		return ""
	}
}

// parseAmountRange parses a "min:max" payload. Either side may be empty
// for an open-ended bound; both empty is invalid.
func parseAmountRange(payload string) (*decimal.Decimal, *decimal.Decimal, error) {
	minStr, maxStr, ok := strings.Cut(payload, ":")
	if !ok {
		return nil, nil, fmt.Errorf("amount range must be 'min:max'")
	}

	var min, max *decimal.Decimal
	if s := strings.TrimSpace(minStr); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid range minimum '%s': %w", s, err)
		}
		min = &d
	}
	if s := strings.TrimSpace(maxStr); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid range maximum '%s': %w", s, err)
		}
		max = &d
	}
	if min == nil && max == nil {
		return nil, nil, fmt.Errorf("amount range has no bounds")
	}
	if min != nil && max != nil && min.GreaterThan(*max) {
		return nil, nil, fmt.Errorf("amount range minimum exceeds maximum")
	}

	return min, max, nil
}

func inRange(amount decimal.Decimal, min, max *decimal.Decimal) bool {
	if min != nil && amount.LessThan(*min) {
		return false
	}
	if max != nil && amount.GreaterThan(*max) {
		return false
	}
	return true
}
