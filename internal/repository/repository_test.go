package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), ErrNotFound},
		{"unique", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "user_email_key"}, ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: pgForeignKeyViolation}, ErrConstraint},
		{"check", &pgconn.PgError{Code: pgCheckViolation}, ErrConstraint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrap("op", tt.err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "op: ")
		})
	}
}

func TestWrap_PassesThroughOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	err := wrap("list", boom)

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrDuplicate)
	assert.NotErrorIs(t, err, ErrConstraint)

	err = wrap("insert", &pgconn.PgError{Code: "40001"})
	assert.NotErrorIs(t, err, ErrConstraint)
}
