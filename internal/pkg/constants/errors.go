package constants

import (
	"net/http"
)

// CodedError is an error that knows which HTTP status it should be answered with.
// A derived error keeps its parent so errors.Is can match the broader class.
type CodedError struct {
	msg    string
	code   int
	parent error
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{msg: msg, code: code}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

func (e *CodedError) Unwrap() error {
	return e.parent
}

// Derive returns a narrower error of the same class.
func (e *CodedError) Derive(msg string) *CodedError {
	return &CodedError{msg: msg, code: e.code, parent: e}
}

var (
	ErrInvalidInput  = NewCodedError("invalid input", http.StatusBadRequest)
	ErrConfiguration = NewCodedError("configuration error", http.StatusUnprocessableEntity)
	ErrNotFound      = NewCodedError("not found", http.StatusNotFound)
	ErrConflict      = NewCodedError("conflict", http.StatusConflict)
	ErrUnauthorized  = NewCodedError("unauthorized", http.StatusUnauthorized)
)

var (
	ErrInvalidModel        = ErrInvalidInput.Derive("invalid model")
	ErrInvalidUnits        = ErrInvalidInput.Derive("consumed units must be a positive number")
	ErrInvalidArea         = ErrInvalidInput.Derive("area must be a positive number")
	ErrInvalidOutput       = ErrInvalidInput.Derive("annual output must be a non-negative number")
	ErrInvalidPanel        = ErrInvalidInput.Derive("invalid solar panel")
	ErrInvalidTierSchedule = ErrInvalidInput.Derive("invalid rate tier schedule")
	ErrInvalidRateMode     = ErrInvalidInput.Derive("unknown rate mode")

	ErrNoRatesConfigured  = ErrConfiguration.Derive("no electricity rate tiers configured")
	ErrModelNotConfigured = ErrConfiguration.Derive("no active coefficient set")

	ErrDBNotFound             = ErrNotFound.Derive("record not found")
	ErrPanelNotFound          = ErrNotFound.Derive("solar panel not found")
	ErrLocationNotFound       = ErrNotFound.Derive("location not found")
	ErrCoefficientSetNotFound = ErrNotFound.Derive("coefficient set not found")
	ErrVariableNotFound       = ErrNotFound.Derive("variable not found")
	ErrRateTierNotFound       = ErrNotFound.Derive("rate tier not found")
	ErrCalculationNotFound    = ErrNotFound.Derive("calculation not found")

	ErrDBConflict         = ErrConflict.Derive("record already exists")
	ErrDuplicateRateTier  = ErrConflict.Derive("rate tier with the same bounds already exists")
	ErrDuplicateVariable  = ErrConflict.Derive("variable with the same name already exists")
	ErrMissingAdminCookie = ErrUnauthorized.Derive("missing admin cookie")
	ErrInvalidAdminSecret = ErrUnauthorized.Derive("invalid admin secret")
)
