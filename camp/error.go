package camp

import (
	"fmt"
	"strings"
)

type ErrorReason string

const (
	REASON_MISSING_REQUIRED_FIELDS         ErrorReason = "MISSING_REQUIRED_FIELDS"
	REASON_AGE_OUT_OF_RANGE                ErrorReason = "AGE_OUT_OF_RANGE"
	REASON_FAILED_TO_TRANSLATE_TO_DB_MODEL ErrorReason = "FAILED_TO_TRANSLATE_TO_DB_MODEL"
	REASON_FAILED_TO_WRITE                 ErrorReason = "FAILED_TO_WRITE"
	REASON_REGISTRATION_ALREADY_EXISTS     ErrorReason = "REGISTRATION_ALREADY_EXISTS"
	REASON_REGISTRATION_DOES_NOT_EXIST     ErrorReason = "REGISTRATION_DOES_NOT_EXIST"
	REASON_FAILED_TO_FETCH                 ErrorReason = "FAILED_TO_FETCH"
	REASON_INVALID_CURSOR                  ErrorReason = "INVALID_CURSOR"
	REASON_TIMEOUT                         ErrorReason = "TIMEOUT"
)

type Error struct {
	Reason  ErrorReason
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s. Cause: %s", e.Reason, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newCampError(reason ErrorReason, message string, cause error) *Error {
	return &Error{
		Reason:  reason,
		Message: message,
		Cause:   cause,
	}
}

func NewMissingRequiredFieldsError(fields []string) *Error {
	return newCampError(REASON_MISSING_REQUIRED_FIELDS, fmt.Sprintf("Missing required fields: %s", strings.Join(fields, ", ")), nil)
}

func NewAgeOutOfRangeError(age int) *Error {
	return newCampError(REASON_AGE_OUT_OF_RANGE, fmt.Sprintf("Camper age must be within %d and %d. Age is %d", MinCamperAge, MaxCamperAge, age), nil)
}

func NewFailedToTranslateToDBModelError(message string, cause error) *Error {
	return newCampError(REASON_FAILED_TO_TRANSLATE_TO_DB_MODEL, message, cause)
}

func NewFailedToWriteError(message string, cause error) *Error {
	return newCampError(REASON_FAILED_TO_WRITE, message, cause)
}

func NewRegistrationAlreadyExistsError(message string, cause error) *Error {
	return newCampError(REASON_REGISTRATION_ALREADY_EXISTS, message, cause)
}

func NewRegistrationDoesNotExistError(message string, cause error) *Error {
	return newCampError(REASON_REGISTRATION_DOES_NOT_EXIST, message, cause)
}

func NewFailedToFetchError(message string, cause error) *Error {
	return newCampError(REASON_FAILED_TO_FETCH, message, cause)
}

func NewInvalidCursorError(message string, cause error) *Error {
	return newCampError(REASON_INVALID_CURSOR, message, cause)
}

func NewTimeoutError(message string) *Error {
	return newCampError(REASON_TIMEOUT, message, nil)
}
