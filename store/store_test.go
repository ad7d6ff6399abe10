package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolationMatchesPostgresCode(t *testing.T) {
	err := &pgconn.PgError{Code: postgresUniqueViolation}
	assert.True(t, isUniqueViolation(err))
}

func TestIsUniqueViolationRejectsOtherPgErrorCodes(t *testing.T) {
	err := &pgconn.PgError{Code: "23503"} // foreign_key_violation
	assert.False(t, isUniqueViolation(err))
}

func TestIsUniqueViolationRejectsNonPgError(t *testing.T) {
	assert.False(t, isUniqueViolation(errors.New("connection reset")))
}

func TestIsUniqueViolationUnwrapsWrappedError(t *testing.T) {
	err := fmt.Errorf("inserting run row: %w", &pgconn.PgError{Code: postgresUniqueViolation})
	assert.True(t, isUniqueViolation(err))
}
