package errors

import "maps"

// ErrorCategory groups errors by where they came from.
type ErrorCategory string

const (
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryAuth       ErrorCategory = "auth"
	CategoryNotFound   ErrorCategory = "not_found"

	// Board service: transport failures and non-success responses.
	CategoryNetwork ErrorCategory = "network"
	CategoryAPI     ErrorCategory = "api"

	// Local state: preview files and the credential database.
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryStorage    ErrorCategory = "storage"

	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity decides how loudly an error is reported.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
	SeverityInfo    ErrorSeverity = "info"
)

// RetryStrategy tells the user whether trying again makes sense.
// The client itself never retries.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryUserAction RetryStrategy = "user" // fix credentials or config first
	RetryManual     RetryStrategy = "manual"
)

// ErrorContext holds structured fields attached to an error and logged with it.
type ErrorContext map[string]any

// Merge returns a new context with the entries of c overridden by other.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	out := make(ErrorContext, len(c)+len(other))
	maps.Copy(out, c)
	maps.Copy(out, other)
	return out
}
