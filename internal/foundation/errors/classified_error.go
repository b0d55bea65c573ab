package errors

import (
	"errors"
	"fmt"
)

// ClassifiedError is an error tagged with a category, severity, retry hint and context.
// Build one with ErrorBuilder.
type ClassifiedError struct {
	category ErrorCategory
	severity ErrorSeverity
	retry    RetryStrategy
	message  string
	cause    error
	context  ErrorContext
}

func (e *ClassifiedError) Error() string {
	prefix := "[" + string(e.category) + "] " + e.message
	if e.cause == nil {
		return prefix
	}
	return fmt.Sprintf("%s: %v", prefix, e.cause)
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() ErrorCategory { return e.category }
func (e *ClassifiedError) Severity() ErrorSeverity { return e.severity }
func (e *ClassifiedError) Message() string         { return e.message }
func (e *ClassifiedError) Context() ErrorContext   { return e.context }

// WithContext returns a copy of e with key set in its context.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	cp := *e
	cp.context = e.context.Merge(ErrorContext{key: value})
	return &cp
}

// Is matches another ClassifiedError with the same category and message.
func (e *ClassifiedError) Is(target error) bool {
	other, ok := target.(*ClassifiedError)
	return ok && e.category == other.category && e.message == other.message
}

// CanRetry reports whether running the same action again may succeed without other changes.
func (e *ClassifiedError) CanRetry() bool { return e.retry == RetryManual }

// NeedsUserAction reports whether the user must change credentials or config first.
func (e *ClassifiedError) NeedsUserAction() bool { return e.retry == RetryUserAction }

// AsClassified finds the first ClassifiedError in the chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// IsClassified reports whether err wraps a ClassifiedError.
func IsClassified(err error) bool {
	_, ok := AsClassified(err)
	return ok
}

// HasCategory reports whether the first ClassifiedError in the chain has category.
func HasCategory(err error, category ErrorCategory) bool {
	return GetCategory(err) == category && IsClassified(err)
}

// GetCategory returns the category of err, or CategoryInternal for unclassified errors.
func GetCategory(err error) ErrorCategory {
	if classified, ok := AsClassified(err); ok {
		return classified.category
	}
	return CategoryInternal
}
