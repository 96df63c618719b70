// Package builder assembles normalized transactions from mapped CSV
// rows.
package builder

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/a1e5ya/smart-finance-planner/internal/columnmap"
	"github.com/a1e5ya/smart-finance-planner/internal/importerror"
	"github.com/a1e5ya/smart-finance-planner/internal/logging"
	"github.com/a1e5ya/smart-finance-planner/internal/models"
	"github.com/a1e5ya/smart-finance-planner/internal/normalize"
	"github.com/a1e5ya/smart-finance-planner/internal/tableparse"
)

// Builder turns one mapped row at a time into a NormalizedTransaction.
// It carries the per-import identity fields so callers only supply row
// data.
type Builder struct {
	UserID          string
	AccountID       string
	ImportBatchID   string
	DefaultCurrency string

	// MerchantMaxLength and MemoMaxLength cap the cleaned text fields.
	// Zero means the normalize package defaults.
	MerchantMaxLength int
	MemoMaxLength     int

	logger logging.Logger
}

// New creates a builder for one import run.
func New(userID, accountID, batchID, defaultCurrency string, logger logging.Logger) *Builder {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Builder{
		UserID:          userID,
		AccountID:       accountID,
		ImportBatchID:   batchID,
		DefaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// Build converts a single data row into a transaction. rowNumber is the
// 1-based position within the data rows and is only used for error
// reporting. A row that cannot produce a valid date and amount returns
// a RowError and no transaction.
func (b *Builder) Build(table *tableparse.Table, cm columnmap.ColumnMap, row []string, rowNumber int) (models.NormalizedTransaction, error) {
	cell := func(field string) string {
		header := cm.Header(field)
		if header == "" {
			return ""
		}
		return table.RowValue(row, header)
	}

	rawDate := cell(columnmap.FieldDate)
	postedAt, err := normalize.ParseDate(rawDate)
	if err != nil {
		return models.NormalizedTransaction{}, &importerror.RowError{
			Row: rowNumber, Field: columnmap.FieldDate, Value: rawDate, Reason: err.Error(),
		}
	}

	rawAmount := cell(columnmap.FieldAmount)
	amount, err := normalize.ParseAmount(rawAmount)
	if err != nil {
		return models.NormalizedTransaction{}, &importerror.RowError{
			Row: rowNumber, Field: columnmap.FieldAmount, Value: rawAmount, Reason: err.Error(),
		}
	}

	merchant := normalize.CleanMerchant(cell(columnmap.FieldMerchant), b.MerchantMaxLength)
	memo := normalize.CleanMemo(cell(columnmap.FieldMemo), b.MemoMaxLength)

	currency := strings.ToUpper(normalize.CleanText(cell(columnmap.FieldCurrency)))
	if currency == "" {
		currency = normalize.CurrencyHint(rawAmount)
	}
	if currency == "" {
		currency = b.DefaultCurrency
	}

	tx := models.NormalizedTransaction{
		UserID:        b.UserID,
		AccountID:     b.AccountID,
		ImportBatchID: b.ImportBatchID,
		PostedAt:      postedAt,
		Amount:        amount,
		AmountAbs:     amount.Abs(),
		Currency:      currency,
		Merchant:      merchant,
		Memo:          memo,
		MCC:           normalize.CleanText(cell(columnmap.FieldMCC)),
		Source: models.SourceFields{
			Category:     normalize.CleanText(cell(columnmap.FieldCategory)),
			Subcategory:  normalize.CleanText(cell(columnmap.FieldSubcategory)),
			MainCategory: normalize.CleanText(cell(columnmap.FieldMainCategory)),
			Account:      normalize.CleanText(cell(columnmap.FieldAccount)),
			AccountType:  normalize.CleanText(cell(columnmap.FieldAccountType)),
			Owner:        normalize.CleanText(cell(columnmap.FieldOwner)),
		},
	}

	tx.TransactionType = deriveType(tx, cell(columnmap.FieldIsExpense), cell(columnmap.FieldIsIncome), cm)
	tx.IsExpense = tx.TransactionType == models.TypeExpense
	tx.IsIncome = tx.TransactionType == models.TypeIncome

	tx.Year = postedAt.Year()
	tx.Month = int(postedAt.Month())
	tx.YearMonth = postedAt.Format("2006-01")
	tx.Weekday = postedAt.Weekday().String()

	tx.DedupeFingerprint = Fingerprint(b.UserID, postedAt, amount)

	return tx, nil
}

// deriveType picks the transaction type in priority order: explicit
// expense/income flag columns, then a transfer keyword in the text
// fields, then the amount sign. Zero amounts are treated as transfers.
func deriveType(tx models.NormalizedTransaction, rawExpense, rawIncome string, cm columnmap.ColumnMap) string {
	if cm.Has(columnmap.FieldIsExpense) && normalize.ParseBool(rawExpense) {
		return models.TypeExpense
	}
	if cm.Has(columnmap.FieldIsIncome) && normalize.ParseBool(rawIncome) {
		return models.TypeIncome
	}

	text := strings.ToLower(tx.Merchant + " " + tx.Memo)
	if strings.Contains(text, "transfer") {
		return models.TypeTransfer
	}

	switch {
	case tx.Amount.IsNegative():
		return models.TypeExpense
	case tx.Amount.IsPositive():
		return models.TypeIncome
	default:
		return models.TypeTransfer
	}
}

// Fingerprint computes the stable dedupe hash for a transaction. It
// covers the user, the posted date and the signed amount at two decimal
// places; merchant and memo are left out so the same statement imported
// twice hashes identically even when the bank reformats its text.
func Fingerprint(userID string, postedAt time.Time, amount decimal.Decimal) string {
	payload := fmt.Sprintf("%s|%s|%s", userID, postedAt.Format(normalize.DateLayoutISO), amount.StringFixed(2))
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
