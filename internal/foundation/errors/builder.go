package errors

// ErrorBuilder assembles a ClassifiedError.
//
//	err := errors.APIError("HTTP error: 404").WithContext("url", u).WithCause(cause).Build()
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts an error with SeverityError and RetryNever.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityError,
		retry:    RetryNever,
		message:  message,
		context:  ErrorContext{},
	}}
}

func (b *ErrorBuilder) WithCause(cause error) *ErrorBuilder {
	b.err.cause = cause
	return b
}

func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.err.severity = severity
	return b
}

func (b *ErrorBuilder) WithRetry(strategy RetryStrategy) *ErrorBuilder {
	b.err.retry = strategy
	return b
}

func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context[key] = value
	return b
}

func (b *ErrorBuilder) Fatal() *ErrorBuilder      { return b.WithSeverity(SeverityFatal) }
func (b *ErrorBuilder) UserAction() *ErrorBuilder { return b.WithRetry(RetryUserAction) }
func (b *ErrorBuilder) Manual() *ErrorBuilder     { return b.WithRetry(RetryManual) }

// Build returns the error. The builder may be reused; later calls do not
// affect errors already built.
func (b *ErrorBuilder) Build() *ClassifiedError {
	out := b.err
	out.context = ErrorContext{}.Merge(b.err.context)
	return &out
}

func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal().UserAction()
}

// ValidationError covers bad input and a missing or unusable tree node.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).UserAction()
}

func AuthError(message string) *ErrorBuilder {
	return NewError(CategoryAuth, message).UserAction()
}

// NotFoundError is a board, list or card the service does not know.
func NotFoundError(message string) *ErrorBuilder {
	return NewError(CategoryNotFound, message)
}

// NetworkError is a transport failure talking to the board service.
func NetworkError(message string) *ErrorBuilder {
	return NewError(CategoryNetwork, message).Manual()
}

// APIError is a non-success response from the board service.
func APIError(message string) *ErrorBuilder {
	return NewError(CategoryAPI, message).Manual()
}

func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message)
}

func StorageError(message string) *ErrorBuilder {
	return NewError(CategoryStorage, message).Fatal()
}

func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
