// Package importer orchestrates the full import pipeline: decode,
// table detection, column mapping, row building and categorization.
package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/a1e5ya/smart-finance-planner/internal/builder"
	"github.com/a1e5ya/smart-finance-planner/internal/columnmap"
	"github.com/a1e5ya/smart-finance-planner/internal/encodingutil"
	"github.com/a1e5ya/smart-finance-planner/internal/logging"
	"github.com/a1e5ya/smart-finance-planner/internal/models"
	"github.com/a1e5ya/smart-finance-planner/internal/ruleengine"
	"github.com/a1e5ya/smart-finance-planner/internal/tableparse"
)

// Options configures one import run.
type Options struct {
	UserID          string
	AccountID       string
	Filename        string
	DefaultCurrency string

	// CategoryCandidates is the flat name-to-identifier category list
	// matched against preserved source category strings before any rule
	// runs.
	CategoryCandidates []models.CategoryCandidate

	// CategorizationEnabled gates both categorization passes entirely.
	CategorizationEnabled bool
	// ConfidenceThreshold is the minimum confidence an engine match
	// needs before the category is written onto the transaction.
	ConfidenceThreshold float64

	// MaxReportedErrors bounds the summary message lists.
	MaxReportedErrors int

	// MerchantMaxLength and MemoMaxLength cap the normalized text
	// fields. Zero means the normalize package defaults.
	MerchantMaxLength int
	MemoMaxLength     int
}

// Result is the outcome of one import run. Transactions is empty when
// a fatal error aborted the batch; the summary records what happened
// either way.
type Result struct {
	BatchID      string                         `json:"batch_id"`
	Encoding     string                         `json:"encoding"`
	Transactions []models.NormalizedTransaction `json:"transactions"`
	Summary      *models.ImportSummary          `json:"summary"`
}

// Importer runs import batches against a fixed rule snapshot. Safe for
// concurrent use; each call gets its own batch state.
type Importer struct {
	engine *ruleengine.Engine
	logger logging.Logger
}

// New creates an importer. A nil engine disables categorization for
// every batch regardless of per-run options.
func New(engine *ruleengine.Engine, logger logging.Logger) *Importer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Importer{engine: engine, logger: logger}
}

// ImportFile reads and imports a file from disk.
func (imp *Importer) ImportFile(ctx context.Context, path string, opts Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if opts.Filename == "" {
		opts.Filename = filepath.Base(path)
	}
	return imp.Import(ctx, data, opts)
}

// Import runs the full pipeline over raw file bytes. Fatal failures
// (undetectable format, missing required columns) return the error and
// a result with zero transactions and the failure recorded in the
// summary. Row-level failures are recorded and skipped.
func (imp *Importer) Import(ctx context.Context, data []byte, opts Options) (*Result, error) {
	batchID := uuid.New().String()
	summary := models.NewImportSummary(opts.MaxReportedErrors)
	log := imp.logger.WithFields(
		logging.Field{Key: logging.FieldBatch, Value: batchID},
		logging.Field{Key: logging.FieldFile, Value: opts.Filename},
		logging.Field{Key: logging.FieldUser, Value: opts.UserID},
	)

	text, encodingName := encodingutil.Decode(data)
	log.WithField(logging.FieldEncoding, encodingName).Debug("Decoded upload")

	result := &Result{
		BatchID:      batchID,
		Encoding:     encodingName,
		Transactions: []models.NormalizedTransaction{},
		Summary:      summary,
	}

	table, err := tableparse.Detect(text, opts.Filename)
	if err != nil {
		summary.AddError(err.Error())
		log.WithError(err).Error("File format detection failed")
		return result, err
	}
	summary.TotalRows = len(table.Rows)
	log.WithFields(
		logging.Field{Key: logging.FieldDelimiter, Value: string(table.Delimiter)},
		logging.Field{Key: logging.FieldCount, Value: len(table.Rows)},
	).Debug("Detected table layout")

	cm, err := columnmap.Build(table.Headers, imp.logger)
	if err != nil {
		summary.AddError(err.Error())
		log.WithError(err).Error("Column mapping failed")
		return result, err
	}

	b := builder.New(opts.UserID, opts.AccountID, batchID, opts.DefaultCurrency, imp.logger)
	b.MerchantMaxLength = opts.MerchantMaxLength
	b.MemoMaxLength = opts.MemoMaxLength

	for i, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		tx, err := b.Build(table, cm, row, i+1)
		if err != nil {
			summary.AddError(err.Error())
			log.WithError(err).WithField(logging.FieldRow, i+1).Warn("Skipping row")
			continue
		}

		imp.categorize(&tx, opts, summary)
		summary.ObserveTransaction(tx)
		result.Transactions = append(result.Transactions, tx)
	}

	summary.LogSummary(log)
	return result, nil
}

// categorize tries the category candidate name match first, then the
// rule engine, and writes the category when the best match clears the
// acceptance threshold. A failure here leaves the transaction
// uncategorized, never loses it.
func (imp *Importer) categorize(tx *models.NormalizedTransaction, opts Options, summary *models.ImportSummary) {
	if !opts.CategorizationEnabled {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			imp.logger.WithFields(
				logging.Field{Key: logging.FieldReason, Value: r},
			).Warn("Categorization failed, leaving transaction uncategorized")
			summary.AddWarning(fmt.Sprintf("categorization failed: %v", r))
		}
	}()

	match := ruleengine.MatchCandidates(opts.CategoryCandidates, *tx)
	if !match.Matched() && imp.engine != nil && imp.engine.RuleCount() > 0 {
		match = imp.engine.Categorize(*tx)
	}
	if !match.Matched() || match.Confidence < opts.ConfidenceThreshold {
		return
	}

	tx.Category = match.Category
	tx.CategoryID = match.CategoryID
	tx.CategoryConfidence = match.Confidence
	tx.CategoryRuleID = match.MatchedRule
	summary.ObserveCategorization(match)
}
