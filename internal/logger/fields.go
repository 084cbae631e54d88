package logger

// Standard field names for structured logging.
const (
	FieldModule     = "module"
	FieldModuleID   = "module_id"
	FieldPath       = "path"
	FieldDir        = "dir"
	FieldCount      = "count"
	FieldFailed     = "failed"
	FieldScore      = "score"
	FieldErrorCode  = "error_code"
	FieldError      = "error"
	FieldStatus     = "status"
	FieldDurationMS = "duration_ms"
	FieldSHA256     = "sha256"
	FieldRunID      = "run_id"
)
