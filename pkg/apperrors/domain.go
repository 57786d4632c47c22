package apperrors

import (
	"fmt"
	"net/http"
)

// Factories and predefined variables for domain errors shared across services.

// ErrNotFound converts a repository miss (gorm.ErrRecordNotFound and friends)
// into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrInvalidTransition reports a state-machine move that is not in the
// transition table, naming both the current and the requested state.
func ErrInvalidTransition(domain, from, to string) *AppError {
	return New(
		CodeInvalidTransition,
		domain,
		fmt.Sprintf("invalid transition from %q to %q", from, to),
		http.StatusConflict,
	)
}

// ErrStaleReference reports that a referenced entity vanished between the
// triggering action and the dependent write (e.g. challenge deleted mid-flight).
func ErrStaleReference(domain, message string) *AppError {
	return New(CodeStaleReference, domain, message, http.StatusConflict)
}

func ErrNotEligible(domain, message string) *AppError {
	return New(CodeNotEligible, domain, message, http.StatusConflict)
}

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrWinnerAlreadySet guards the one-shot winner assignment on challenges.
var ErrWinnerAlreadySet = New(
	CodeConflict,
	"challenge",
	"Challenge winner is already set",
	http.StatusConflict,
)
