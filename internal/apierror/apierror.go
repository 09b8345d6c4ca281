// Package apierror provides the error envelope returned to clients and the
// domain error taxonomy used by the service layer. All 4xx/5xx responses go
// through this package so internals (stack traces, store errors, paths into
// the database tree) never leak to clients.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Error string `json:"error"`
}

func New(msg string) *APIError {
	return &APIError{Error: msg}
}

// FieldsError wraps multiple field validation errors.
type FieldsError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func NewFields(fields map[string]string) *FieldsError {
	return &FieldsError{Error: "validation failed", Fields: fields}
}

// ── Domain error taxonomy ────────────────────────────────────────────────────
// Services return these; the handler layer maps them to status codes with
// StatusFor. Anything unrecognized becomes a generic 500.

// ValidationError: missing or invalid input, rejected before any write.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError: a referenced entity does not exist.
type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }

func NotFoundf(format string, args ...interface{}) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError: duplicate invoice-for-LPO, colliding document numbers.
type ConflictError struct{ Msg string }

func (e *ConflictError) Error() string { return e.Msg }

func Conflictf(format string, args ...interface{}) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidStateError: an operation illegal in the document's current state,
// e.g. marking an already-delivered LPO delivered again.
type InvalidStateError struct{ Msg string }

func (e *InvalidStateError) Error() string { return e.Msg }

func InvalidStatef(format string, args ...interface{}) error {
	return &InvalidStateError{Msg: fmt.Sprintf(format, args...)}
}

// OverpaymentError: payment amount exceeds the outstanding balance beyond
// the accepted epsilon. Raised before any write.
type OverpaymentError struct{ Msg string }

func (e *OverpaymentError) Error() string { return e.Msg }

func Overpaymentf(format string, args ...interface{}) error {
	return &OverpaymentError{Msg: fmt.Sprintf(format, args...)}
}

// StatusFor maps a domain error to its HTTP status code.
func StatusFor(err error) int {
	var (
		ve *ValidationError
		nf *NotFoundError
		ce *ConflictError
		is *InvalidStateError
		op *OverpaymentError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ce), errors.As(err, &is):
		return http.StatusConflict
	case errors.As(err, &op):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
