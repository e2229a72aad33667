package log

import "ledger/internal/core"

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldErrorType = "error_type"
	FieldPath      = "path"
	FieldBackend   = "backend"
	FieldCount     = "count"
	FieldRecordID  = "record_id"
	FieldDate      = "date"
	FieldAmount    = "amount"
	FieldCurrency  = "currency"
	FieldCategory  = "category"
	FieldFound     = "found"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentBackend = "backend"
	ComponentExport  = "export"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpLoad     = "load"
	OpSave     = "save"
	OpExport   = "export"
	OpTotal    = "total"
	OpRollback = "rollback"
	OpStartup  = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeParse         = "parse_error"
	ErrorTypeWrite         = "write_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithPath adds the file path field
func (f LogFields) WithPath(path string) LogFields {
	f[FieldPath] = path
	return f
}

// WithCount adds a record count field
func (f LogFields) WithCount(n int) LogFields {
	f[FieldCount] = n
	return f
}

// WithRecord adds record-related fields
func (f LogFields) WithRecord(r core.Record) LogFields {
	f[FieldRecordID] = r.ID
	f[FieldDate] = r.Date.String()
	f[FieldAmount] = r.Amount.String()
	f[FieldCurrency] = r.Currency
	f[FieldCategory] = r.Category
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
