package domain

import "errors"

// Common domain errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalServer     = errors.New("internal server error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidPassword   = errors.New("invalid password")
)

// Laptop errors
var (
	ErrLaptopNotFound     = errors.New("laptop not found")
	ErrDuplicateSerial    = errors.New("laptop with this serial number already exists")
	ErrInvalidStatus      = errors.New("invalid laptop status")
	ErrLaptopNotAvailable = errors.New("laptop is not available")
)

// Distribution errors
var (
	ErrDistributionNotFound = errors.New("distribution record not found")
	ErrAlreadyDistributed   = errors.New("laptop already distributed")
	ErrAlreadyReturned      = errors.New("distribution already returned")
	ErrImmutableField       = errors.New("field cannot be updated")
)

// Storage errors. ErrWriteConflict means a guarded write matched zero rows
// because another transaction got there first; the retry policy may rerun the
// whole transaction. ErrRetryExhausted is what callers see once the retry
// budget runs out.
var (
	ErrWriteConflict  = errors.New("storage write conflict")
	ErrRetryExhausted = errors.New("operation failed after retries")
)

// IsNotFound reports whether err is a missing-resource error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrLaptopNotFound) ||
		errors.Is(err, ErrDistributionNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsConflict reports whether err is a business-rule conflict. A conflict is a
// final answer, not a transient storage failure, and must not be retried.
func IsConflict(err error) bool {
	return errors.Is(err, ErrLaptopNotAvailable) ||
		errors.Is(err, ErrAlreadyDistributed) ||
		errors.Is(err, ErrAlreadyReturned) ||
		errors.Is(err, ErrDuplicateSerial) ||
		errors.Is(err, ErrUserAlreadyExists)
}

// IsInvalidArgument reports whether err was caused by malformed or forbidden input.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrImmutableField) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidStatus)
}

// IsTransient reports whether err is worth retrying in a fresh transaction.
func IsTransient(err error) bool {
	return errors.Is(err, ErrWriteConflict)
}
