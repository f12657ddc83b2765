package payments

import "fmt"

type ErrorReason string

const (
	ErrorReasonInvalidSignature ErrorReason = "INVALID_SIGNATURE"
	ErrorReasonInvalidEvent     ErrorReason = "INVALID_EVENT"
	ErrorReasonProviderFailure  ErrorReason = "PROVIDER_FAILURE"
)

type Error struct {
	Reason ErrorReason
	// Message carries the provider's own message so it can be passed through
	// to diagnostics unchanged.
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewInvalidSignatureError(message string, cause error) *Error {
	return &Error{Reason: ErrorReasonInvalidSignature, Message: message, Cause: cause}
}

func NewInvalidEventError(message string, cause error) *Error {
	return &Error{Reason: ErrorReasonInvalidEvent, Message: message, Cause: cause}
}

func NewProviderFailureError(message string, cause error) *Error {
	return &Error{Reason: ErrorReasonProviderFailure, Message: message, Cause: cause}
}
