package logging

// Standardized field names for structured logging.
// Keeping the keys in one place makes log output consistent and easy to
// filter when debugging an import.
const (
	FieldFile      = "file"
	FieldUser      = "user_id"
	FieldBatch     = "batch_id"
	FieldRow       = "row"
	FieldColumn    = "column"
	FieldField     = "field"
	FieldValue     = "value"
	FieldRule      = "rule_id"
	FieldPattern   = "pattern"
	FieldCategory  = "category"
	FieldCount     = "count"
	FieldDelimiter = "delimiter"
	FieldEncoding  = "encoding"
	FieldReason    = "reason"
)
