// Package apperr defines the error taxonomy shared by every HTTP-facing
// service and the single table that maps it onto HTTP status codes.
package apperr

import (
	"errors"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
)

// Stable error codes carried by oops errors.
const (
	CodeMissingFields      = "MISSING_FIELDS"
	CodeValidationRejected = "VALIDATION_REJECTED"
	CodePasswordMismatch   = "PASSWORD_MISMATCH"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeDuplicateUsername  = "DUPLICATE_USERNAME"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeBadRequest         = "BAD_REQUEST"
	CodeRateLimited        = "RATE_LIMITED"
	CodeStorageFailure     = "STORAGE_FAILURE"
	CodeInternalFailure    = "INTERNAL_FAILURE"
)

// GenericMessage is the only text a client sees for a 5xx response.
const GenericMessage = "Internal server error"

var statusByCode = map[string]int{
	CodeMissingFields:      http.StatusBadRequest,
	CodeValidationRejected: http.StatusForbidden,
	CodePasswordMismatch:   http.StatusForbidden,
	CodeDuplicateEmail:     http.StatusBadRequest,
	CodeDuplicateUsername:  http.StatusBadRequest,
	CodeUnauthorized:       http.StatusUnauthorized,
	CodeForbidden:          http.StatusForbidden,
	CodeTokenExpired:       http.StatusUnauthorized,
	CodeInvalidToken:       http.StatusForbidden,
	CodeNotFound:           http.StatusNotFound,
	CodeConflict:           http.StatusConflict,
	CodeBadRequest:         http.StatusBadRequest,
	CodeRateLimited:        http.StatusTooManyRequests,
	CodeStorageFailure:     http.StatusInternalServerError,
	CodeInternalFailure:    http.StatusInternalServerError,
}

// Constraint names declared by the schema migrations.
const (
	ConstraintUsersEmail    = "users_email_key"
	ConstraintUsersUsername = "users_username_key"
)

// New builds a coded error with a client-safe message.
func New(code, msg string) error {
	return oops.Code(code).Errorf("%s", msg)
}

// MissingFields reports that required input was omitted.
func MissingFields(msg string) error {
	return New(CodeMissingFields, msg)
}

// NotFound reports an absent identity or resource.
func NotFound(msg string) error {
	return New(CodeNotFound, msg)
}

// Storage wraps a query or connection failure. Unique violations on known
// constraints are reclassified so callers can surface them as duplicates.
func Storage(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		switch pgErr.ConstraintName {
		case ConstraintUsersEmail:
			return conflict(CodeDuplicateEmail, op, pgErr, "Bad request: Email already exists.")
		case ConstraintUsersUsername:
			return conflict(CodeDuplicateUsername, op, pgErr, "Bad request: Username already exists.")
		default:
			return conflict(CodeConflict, op, pgErr, "Conflict: Record already exists.")
		}
	}
	return oops.Code(CodeStorageFailure).With("operation", op).Wrap(err)
}

// Internal wraps a server-side failure that is not a storage error.
func Internal(op string, err error) error {
	return oops.Code(CodeInternalFailure).With("operation", op).Wrap(err)
}

// conflict keeps the driver detail in the error context only, so the
// client-facing message stays clean.
func conflict(code, op string, pgErr *pgconn.PgError, msg string) error {
	return oops.Code(code).
		With("operation", op).
		With("constraint", pgErr.ConstraintName).
		With("cause", pgErr.Message).
		Errorf("%s", msg)
}

// Code returns the taxonomy code carried by err, or "" when err is uncoded.
func Code(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	code, _ := oopsErr.Code().(string)
	return code
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return err != nil && Code(err) == code
}

// Status maps err onto an HTTP status. Uncoded errors are internal failures.
func Status(err error) int {
	if status, ok := statusByCode[Code(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Message returns the client-facing text for err. Server-side failures never
// expose their underlying detail.
func Message(err error) string {
	if Status(err) >= http.StatusInternalServerError {
		return GenericMessage
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		return oopsErr.Error()
	}
	return err.Error()
}
