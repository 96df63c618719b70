package models

import (
	"time"

	"github.com/a1e5ya/smart-finance-planner/internal/logging"
)

// DefaultMaxMessages bounds the literal error/warning lists carried by a
// summary so a pathological file cannot produce an unbounded payload.
const DefaultMaxMessages = 50

// ImportSummary aggregates the outcome of one import run. Counts are
// always exact; the message lists are truncated at maxMessages.
type ImportSummary struct {
	TotalRows     int `json:"total_rows"`
	ProcessedRows int `json:"processed_rows"`
	Errors        int `json:"errors"`
	Warnings      int `json:"warnings"`

	ErrorMessages   []string `json:"error_messages"`
	WarningMessages []string `json:"warning_messages"`

	TypeCounts     map[string]int `json:"type_counts"`
	CategoryCounts map[string]int `json:"category_counts"`
	Categorized    int            `json:"categorized"`

	EarliestPostedAt *time.Time `json:"earliest_posted_at"`
	LatestPostedAt   *time.Time `json:"latest_posted_at"`

	maxMessages int
}

// NewImportSummary creates a summary with the given message cap.
// A non-positive cap falls back to DefaultMaxMessages.
func NewImportSummary(maxMessages int) *ImportSummary {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	return &ImportSummary{
		ErrorMessages:   []string{},
		WarningMessages: []string{},
		TypeCounts:      make(map[string]int),
		CategoryCounts:  make(map[string]int),
		maxMessages:     maxMessages,
	}
}

// AddError increments the error count and records the message if the
// bounded list still has room.
func (s *ImportSummary) AddError(msg string) {
	s.Errors++
	if len(s.ErrorMessages) < s.maxMessages {
		s.ErrorMessages = append(s.ErrorMessages, msg)
	}
}

// AddWarning increments the warning count and records the message if the
// bounded list still has room.
func (s *ImportSummary) AddWarning(msg string) {
	s.Warnings++
	if len(s.WarningMessages) < s.maxMessages {
		s.WarningMessages = append(s.WarningMessages, msg)
	}
}

// ObserveTransaction folds one built transaction into the aggregate
// counts and the posted-at range.
func (s *ImportSummary) ObserveTransaction(t NormalizedTransaction) {
	s.ProcessedRows++
	s.TypeCounts[t.TransactionType]++

	posted := t.PostedAt
	if s.EarliestPostedAt == nil || posted.Before(*s.EarliestPostedAt) {
		earliest := posted
		s.EarliestPostedAt = &earliest
	}
	if s.LatestPostedAt == nil || posted.After(*s.LatestPostedAt) {
		latest := posted
		s.LatestPostedAt = &latest
	}
}

// ObserveCategorization folds one categorization result into the counts.
func (s *ImportSummary) ObserveCategorization(r CategorizationResult) {
	if r.Matched() {
		s.Categorized++
		s.CategoryCounts[r.Category]++
	}
}

// SuccessRate returns the fraction of input rows that produced a
// transaction, in [0,1].
func (s *ImportSummary) SuccessRate() float64 {
	if s.TotalRows == 0 {
		return 0.0
	}
	return float64(s.ProcessedRows) / float64(s.TotalRows)
}

// LogSummary writes a structured one-line overview of the run.
func (s *ImportSummary) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}
	logger.Info("Import summary",
		logging.Field{Key: "total_rows", Value: s.TotalRows},
		logging.Field{Key: "processed_rows", Value: s.ProcessedRows},
		logging.Field{Key: "errors", Value: s.Errors},
		logging.Field{Key: "warnings", Value: s.Warnings},
		logging.Field{Key: "categorized", Value: s.Categorized},
		logging.Field{Key: "success_rate", Value: s.SuccessRate()},
	)
}
