// Package export writes normalized transactions to CSV in a single
// standardized layout.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/a1e5ya/smart-finance-planner/internal/logging"
	"github.com/a1e5ya/smart-finance-planner/internal/models"
	"github.com/a1e5ya/smart-finance-planner/internal/normalize"
)

// Delimiter is the output CSV delimiter. Configurable via the
// CSV_DELIMITER environment variable for downstream tools that expect
// semicolons.
var Delimiter rune = ','

func init() {
	if val := os.Getenv("CSV_DELIMITER"); val != "" {
		SetDelimiter([]rune(val)[0])
	}
}

// SetDelimiter sets the delimiter for CSV output.
func SetDelimiter(delim rune) {
	Delimiter = delim
}

// csvRow is the flat output layout. Dates are ISO, amounts fixed to two
// decimal places, booleans lowercased.
type csvRow struct {
	UserID             string `csv:"user_id"`
	AccountID          string `csv:"account_id"`
	ImportBatchID      string `csv:"import_batch_id"`
	PostedAt           string `csv:"posted_at"`
	Amount             string `csv:"amount"`
	AmountAbs          string `csv:"amount_abs"`
	Currency           string `csv:"currency"`
	Merchant           string `csv:"merchant"`
	Memo               string `csv:"memo"`
	MCC                string `csv:"mcc"`
	Category           string `csv:"category"`
	CategoryID         string `csv:"category_id"`
	CategoryConfidence string `csv:"category_confidence"`
	CategoryRuleID     string `csv:"category_rule_id"`
	TransactionType    string `csv:"transaction_type"`
	IsExpense          string `csv:"is_expense"`
	IsIncome           string `csv:"is_income"`
	Year               int    `csv:"year"`
	Month              int    `csv:"month"`
	YearMonth          string `csv:"year_month"`
	Weekday            string `csv:"weekday"`
	DedupeFingerprint  string `csv:"dedupe_fingerprint"`
	SourceCategory     string `csv:"csv_category"`
	SourceSubcategory  string `csv:"csv_subcategory"`
	SourceMainCategory string `csv:"csv_main_category"`
	SourceAccount      string `csv:"csv_account"`
	SourceAccountType  string `csv:"csv_account_type"`
	SourceOwner        string `csv:"owner"`
}

func toRow(t models.NormalizedTransaction) csvRow {
	confidence := ""
	if t.Category != "" {
		confidence = strconv.FormatFloat(t.CategoryConfidence, 'f', 2, 64)
	}
	return csvRow{
		UserID:             t.UserID,
		AccountID:          t.AccountID,
		ImportBatchID:      t.ImportBatchID,
		PostedAt:           normalize.ToISODate(t.PostedAt),
		Amount:             t.Amount.StringFixed(2),
		AmountAbs:          t.AmountAbs.StringFixed(2),
		Currency:           t.Currency,
		Merchant:           t.Merchant,
		Memo:               t.Memo,
		MCC:                t.MCC,
		Category:           t.Category,
		CategoryID:         t.CategoryID,
		CategoryConfidence: confidence,
		CategoryRuleID:     t.CategoryRuleID,
		TransactionType:    t.TransactionType,
		IsExpense:          strconv.FormatBool(t.IsExpense),
		IsIncome:           strconv.FormatBool(t.IsIncome),
		Year:               t.Year,
		Month:              t.Month,
		YearMonth:          t.YearMonth,
		Weekday:            t.Weekday,
		DedupeFingerprint:  t.DedupeFingerprint,
		SourceCategory:     t.Source.Category,
		SourceSubcategory:  t.Source.Subcategory,
		SourceMainCategory: t.Source.MainCategory,
		SourceAccount:      t.Source.Account,
		SourceAccountType:  t.Source.AccountType,
		SourceOwner:        t.Source.Owner,
	}
}

// WriteTransactions writes transactions as CSV to the given writer.
func WriteTransactions(w io.Writer, transactions []models.NormalizedTransaction) error {
	rows := make([]csvRow, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, toRow(t))
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = Delimiter

	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteTransactionsToFile writes transactions to a CSV file, creating
// parent directories as needed.
func WriteTransactionsToFile(transactions []models.NormalizedTransaction, csvFile string) error {
	log := logging.GetLogger()
	log.WithFields(
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
	).Info("Writing transactions to CSV file")

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := WriteTransactions(file, transactions); err != nil {
		return err
	}

	log.WithField(logging.FieldCount, len(transactions)).Info("Successfully wrote transactions")
	return nil
}
