package errors

// ValidationError provides specialized error handling for configuration and
// input validation failures. It extends the base error system with context
// about which field failed and what rule was violated, enabling precise
// feedback at construction time rather than obscure failures later.
type ValidationError struct {
	*baseError

	// Identifies which field or parameter failed validation.
	field string

	// Describes the validation rule that was violated (e.g., "required", "range").
	rule string

	// Captures the value that was actually provided.
	provided any
}

// NewValidationError creates a new validation-specific error.
func NewValidationError(err error, code ErrorCode, msg string) *ValidationError {
	return &ValidationError{baseError: NewBaseError(err, code, msg)}
}

// WithDetail adds contextual information while maintaining the ValidationError type.
func (ve *ValidationError) WithDetail(key string, value any) *ValidationError {
	ve.baseError.WithDetail(key, value)
	return ve
}

// WithField records which field or parameter failed validation.
func (ve *ValidationError) WithField(field string) *ValidationError {
	ve.field = field
	return ve
}

// WithRule records the validation rule that was violated.
func (ve *ValidationError) WithRule(rule string) *ValidationError {
	ve.rule = rule
	return ve
}

// WithProvided captures the value that was actually provided.
func (ve *ValidationError) WithProvided(provided any) *ValidationError {
	ve.provided = provided
	return ve
}

// Field returns the name of the field that failed validation.
func (ve *ValidationError) Field() string {
	return ve.field
}

// Rule returns the validation rule that was violated.
func (ve *ValidationError) Rule() string {
	return ve.rule
}

// Provided returns the value that was actually provided.
func (ve *ValidationError) Provided() any {
	return ve.provided
}
