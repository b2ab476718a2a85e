package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestStatusTable(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{CodeMissingFields, http.StatusBadRequest},
		{CodeValidationRejected, http.StatusForbidden},
		{CodePasswordMismatch, http.StatusForbidden},
		{CodeDuplicateEmail, http.StatusBadRequest},
		{CodeDuplicateUsername, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeTokenExpired, http.StatusUnauthorized},
		{CodeInvalidToken, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeStorageFailure, http.StatusInternalServerError},
		{CodeInternalFailure, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "boom")
			assert.Equal(t, tt.code, Code(err))
			assert.Equal(t, tt.want, Status(err))
		})
	}
}

func TestUncodedErrorIsInternal(t *testing.T) {
	err := errors.New("raw driver failure")
	assert.Equal(t, "", Code(err))
	assert.Equal(t, http.StatusInternalServerError, Status(err))
	assert.Equal(t, GenericMessage, Message(err))
}

func TestStorageHidesDetail(t *testing.T) {
	err := Storage("select user", errors.New("relation \"users\" does not exist"))
	assert.True(t, Is(err, CodeStorageFailure))
	assert.Equal(t, GenericMessage, Message(err))
	assert.NotContains(t, Message(err), "relation")
}

func TestStorageClassifiesUniqueViolations(t *testing.T) {
	tests := []struct {
		constraint string
		want       string
	}{
		{ConstraintUsersEmail, CodeDuplicateEmail},
		{ConstraintUsersUsername, CodeDuplicateUsername},
		{"favourites_pkey", CodeConflict},
	}
	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: tt.constraint, Message: "duplicate key value"}
			err := Storage("insert", pgErr)
			assert.Equal(t, tt.want, Code(err))
			assert.NotContains(t, Message(err), "duplicate key value")
		})
	}
}

func TestMessagePassesClientErrorsThrough(t *testing.T) {
	err := MissingFields("Bad request: All fields are required.")
	assert.Equal(t, "Bad request: All fields are required.", Message(err))
	assert.Equal(t, http.StatusBadRequest, Status(err))
}

func TestInternalHidesCause(t *testing.T) {
	err := Internal("presign", errors.New("signing key leaked"))
	assert.Equal(t, CodeInternalFailure, Code(err))
	assert.Equal(t, http.StatusInternalServerError, Status(err))
	assert.Equal(t, GenericMessage, Message(err))
}
