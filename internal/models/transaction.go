// Package models provides the data structures shared by the import
// pipeline packages.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types derived during building.
const (
	TypeIncome   = "income"
	TypeExpense  = "expense"
	TypeTransfer = "transfer"
	TypeUnknown  = "unknown"
)

// SourceFields preserves categorization-relevant strings exactly as they
// appeared in the uploaded file, for category mapping and audit.
type SourceFields struct {
	Category     string `json:"csv_category,omitempty" csv:"csv_category"`
	Subcategory  string `json:"csv_subcategory,omitempty" csv:"csv_subcategory"`
	MainCategory string `json:"main_category,omitempty" csv:"main_category"`
	Account      string `json:"csv_account,omitempty" csv:"csv_account"`
	AccountType  string `json:"csv_account_type,omitempty" csv:"csv_account_type"`
	Owner        string `json:"owner,omitempty" csv:"owner"`
}

// NormalizedTransaction is the canonical output unit of an import.
// PostedAt and Amount are always present and valid on a successfully
// built record; rows that cannot produce both are dropped with a warning.
type NormalizedTransaction struct {
	UserID        string `json:"user_id" csv:"user_id"`
	AccountID     string `json:"account_id,omitempty" csv:"account_id"`
	ImportBatchID string `json:"import_batch_id" csv:"import_batch_id"`

	PostedAt  time.Time       `json:"posted_at" csv:"posted_at"`
	Amount    decimal.Decimal `json:"amount" csv:"amount"`
	AmountAbs decimal.Decimal `json:"amount_abs" csv:"amount_abs"`
	Currency  string          `json:"currency" csv:"currency"`

	Merchant string `json:"merchant" csv:"merchant"`
	Memo     string `json:"memo,omitempty" csv:"memo"`
	MCC      string `json:"mcc,omitempty" csv:"mcc"`

	// Category is assigned by candidate name matching or the rule
	// engine when a match clears the acceptance threshold, otherwise
	// empty. CategoryID is set only by candidate matches, CategoryRuleID
	// only by rule matches.
	Category           string  `json:"category,omitempty" csv:"category"`
	CategoryID         string  `json:"category_id,omitempty" csv:"category_id"`
	CategoryConfidence float64 `json:"category_confidence,omitempty" csv:"category_confidence"`
	CategoryRuleID     string  `json:"category_rule_id,omitempty" csv:"category_rule_id"`

	TransactionType string `json:"transaction_type" csv:"transaction_type"`
	IsExpense       bool   `json:"is_expense" csv:"is_expense"`
	IsIncome        bool   `json:"is_income" csv:"is_income"`

	// Derived calendar fields for analytics aggregation downstream.
	Year      int    `json:"year" csv:"year"`
	Month     int    `json:"month" csv:"month"`
	YearMonth string `json:"year_month" csv:"year_month"`
	Weekday   string `json:"weekday" csv:"weekday"`

	// Fingerprint over (user id, ISO date, amount). Merchant and memo are
	// intentionally excluded so re-imports of the same statement do not
	// duplicate rows on minor text drift.
	DedupeFingerprint string `json:"dedupe_fingerprint" csv:"dedupe_fingerprint"`

	Source SourceFields `json:"source_fields" csv:"-"`
}

// IsDebit reports whether the transaction reduces the account balance.
func (t NormalizedTransaction) IsDebit() bool {
	return t.Amount.IsNegative()
}
