package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	unique := &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "user_profiles_username_key"}
	fk := &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "ratings_note_id_fkey"}
	check := &pgconn.PgError{Code: codeCheckViolation}
	other := &pgconn.PgError{Code: "57P01"}

	assert.True(t, IsDuplicateConstraintError(fmt.Errorf("wrapped: %w", unique), "user_profiles_username_key"))
	assert.False(t, IsDuplicateConstraintError(unique, "other_key"))
	assert.True(t, IsForeignKeyError(fk, ""))
	assert.True(t, IsForeignKeyError(fk, "ratings_note_id_fkey"))
	assert.False(t, IsForeignKeyError(fk, "ratings_user_id_fkey"))
	assert.True(t, IsCheckViolation(check))

	for _, err := range []error{unique, fk, check} {
		assert.True(t, IsConstraintViolation(err), err.Error())
	}
	assert.False(t, IsConstraintViolation(other))
	assert.False(t, IsConstraintViolation(errors.New("connection reset")))

	assert.True(t, IsNoRows(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
}
