// Package importerror defines the error types surfaced by the import
// pipeline. Fatal errors abort the whole batch; row errors are recorded
// in the summary while the batch continues.
package importerror

import "fmt"

// FormatError indicates the uploaded file could not be parsed into a
// multi-column table with any known delimiter and quote combination.
// This is fatal for the whole batch.
type FormatError struct {
	Filename string
	Msg      string
}

func (e *FormatError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("unsupported file format for '%s': %s", e.Filename, e.Msg)
	}
	return fmt.Sprintf("unsupported file format: %s", e.Msg)
}

// ColumnMappingError indicates a required canonical field could not be
// mapped to any header after all fallback strategies. Fatal for the file.
type ColumnMappingError struct {
	Field   string
	Headers []string
}

func (e *ColumnMappingError) Error() string {
	return fmt.Sprintf("required column '%s' not found in headers %v", e.Field, e.Headers)
}

// RowError records a failure while building a single row. It is
// accumulated in the import summary, never raised to the caller.
type RowError struct {
	Row    int // 1-based data row number
	Field  string
	Value  string
	Reason string
}

func (e *RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d: failed to parse %s='%s': %s", e.Row, e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// RulePatternError indicates a categorization rule carried a pattern
// that could not be compiled. The rule is skipped with a warning.
type RulePatternError struct {
	RuleID  string
	Pattern string
	Err     error
}

func (e *RulePatternError) Error() string {
	return fmt.Sprintf("invalid pattern in rule %s: '%s': %v", e.RuleID, e.Pattern, e.Err)
}

func (e *RulePatternError) Unwrap() error {
	return e.Err
}
