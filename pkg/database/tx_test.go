package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestPgErrorCodes(t *testing.T) {
	t.Parallel()

	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	foreign := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})
	other := errors.New("connection reset")

	if !IsUniqueViolation(unique) || IsUniqueViolation(foreign) || IsUniqueViolation(other) || IsUniqueViolation(nil) {
		t.Fatal("IsUniqueViolation misclassified an error")
	}
	if !IsForeignKeyViolation(foreign) || IsForeignKeyViolation(unique) || IsForeignKeyViolation(nil) {
		t.Fatal("IsForeignKeyViolation misclassified an error")
	}
}
