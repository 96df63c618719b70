// Package columnmap resolves arbitrary bank-export header names onto the
// canonical transaction field set.
package columnmap

import (
	"strings"

	"github.com/a1e5ya/smart-finance-planner/internal/importerror"
	"github.com/a1e5ya/smart-finance-planner/internal/logging"
)

// Canonical field names.
const (
	FieldDate         = "date"
	FieldAmount       = "amount"
	FieldMerchant     = "merchant"
	FieldMemo         = "memo"
	FieldCurrency     = "currency"
	FieldMCC          = "mcc"
	FieldCategory     = "category"
	FieldSubcategory  = "subcategory"
	FieldMainCategory = "main_category"
	FieldAccount      = "account"
	FieldAccountType  = "account_type"
	FieldOwner        = "owner"
	FieldIsExpense    = "is_expense"
	FieldIsIncome     = "is_income"
)

// fuzzyThreshold is the minimum character-overlap ratio accepted by the
// last-resort fuzzy match, applied to required fields only.
const fuzzyThreshold = 0.6

// aliases lists the known header spellings per canonical field, across
// the bank export variants seen in practice. Comparison is
// case-insensitive on normalized text.
var aliases = map[string][]string{
	FieldDate:         {"date", "transaction date", "posted date", "posting date", "booking date", "value date", "datum"},
	FieldAmount:       {"amount", "transaction amount", "betrag", "montant", "debit", "credit", "value"},
	FieldMerchant:     {"merchant", "description", "payee", "name", "party", "vendor", "counterparty", "beschreibung"},
	FieldMemo:         {"memo", "message", "details", "notes", "note", "full description", "reference", "verwendungszweck"},
	FieldCurrency:     {"currency", "ccy", "iso currency code"},
	FieldMCC:          {"mcc", "merchant category code"},
	FieldCategory:     {"category"},
	FieldSubcategory:  {"subcategory", "sub category"},
	FieldMainCategory: {"main category"},
	FieldAccount:      {"account", "account name"},
	FieldAccountType:  {"account type"},
	FieldOwner:        {"owner"},
	FieldIsExpense:    {"is expense"},
	FieldIsIncome:     {"is income"},
}

// requiredFields must resolve or the whole file is rejected.
var requiredFields = []string{FieldDate, FieldAmount}

// optionalFields are mapped on a best-effort basis.
var optionalFields = []string{
	FieldMerchant, FieldMemo, FieldCurrency, FieldMCC,
	FieldCategory, FieldSubcategory, FieldMainCategory,
	FieldAccount, FieldAccountType, FieldOwner,
	FieldIsExpense, FieldIsIncome,
}

// ColumnMap maps canonical field names to the actual header found in the
// file. Immutable after construction.
type ColumnMap map[string]string

// Header returns the source header for a canonical field, or "".
func (m ColumnMap) Header(field string) string {
	return m[field]
}

// Has reports whether the canonical field was resolved.
func (m ColumnMap) Has(field string) bool {
	_, ok := m[field]
	return ok
}

// Build resolves every canonical field against the file headers. Exact
// case-insensitive matches are tried first, then substring containment
// in both directions, then a character-overlap fuzzy match for the
// required fields only. Missing date or amount is a fatal error.
func Build(headers []string, logger logging.Logger) (ColumnMap, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	result := make(ColumnMap)
	claimed := make(map[string]bool)

	for _, field := range requiredFields {
		header, ok := resolve(field, headers, claimed, true)
		if !ok {
			return nil, &importerror.ColumnMappingError{Field: field, Headers: headers}
		}
		result[field] = header
		claimed[header] = true
	}

	for _, field := range optionalFields {
		header, ok := resolve(field, headers, claimed, false)
		if !ok {
			logger.WithFields(
				logging.Field{Key: logging.FieldField, Value: field},
			).Debug("No column found for optional field")
			continue
		}
		result[field] = header
		claimed[header] = true
	}

	logger.WithField(logging.FieldCount, len(result)).Debug("Column mapping resolved")
	return result, nil
}

func resolve(field string, headers []string, claimed map[string]bool, fuzzy bool) (string, bool) {
	// Exact case-insensitive match.
	for _, alias := range aliases[field] {
		for _, header := range headers {
			if claimed[header] {
				continue
			}
			if normalize(header) == alias {
				return header, true
			}
		}
	}

	// Substring containment, both directions.
	for _, alias := range aliases[field] {
		for _, header := range headers {
			if claimed[header] {
				continue
			}
			h := normalize(header)
			if strings.Contains(h, alias) || strings.Contains(alias, h) {
				return header, true
			}
		}
	}

	if !fuzzy {
		return "", false
	}

	// Last resort for required fields: coarse character-set overlap.
	for _, alias := range aliases[field] {
		for _, header := range headers {
			if claimed[header] {
				continue
			}
			if overlapRatio(normalize(header), alias) >= fuzzyThreshold {
				return header, true
			}
		}
	}

	return "", false
}

// normalize lowercases a header and collapses separator characters so
// "Transaction_Date" and "transaction date" compare equal.
func normalize(header string) string {
	header = strings.ToLower(strings.TrimSpace(header))
	header = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(header)
	return strings.Join(strings.Fields(header), " ")
}

// overlapRatio returns the size of the shared character set divided by
// the length of the longer string.
func overlapRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	setA := make(map[rune]bool)
	for _, r := range a {
		setA[r] = true
	}

	shared := make(map[rune]bool)
	for _, r := range b {
		if setA[r] {
			shared[r] = true
		}
	}

	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	return float64(len(shared)) / float64(maxLen)
}
