package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It can be used to wrap more specific driver errors.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

	// ErrForeignKey is returned when a row references a missing parent, or a
	// delete would orphan referencing rows.
	ErrForeignKey = errors.New("foreign key constraint violated")

	// ErrInvalidValue is returned when a value is rejected by a column's type
	// or CHECK constraint.
	ErrInvalidValue = errors.New("value rejected by column constraint")
)

// SQLExecutor defines an interface that can be satisfied by *sql.DB or *sql.Tx
// This allows repository methods to be used within transactions or with a direct DB connection.
type SQLExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

// scanner is an interface satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// classify maps driver errors onto the repository sentinels. what describes the
// failed operation for the wrapped message.
func classify(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, what, pqErr.Constraint)
		case "foreign_key_violation":
			return fmt.Errorf("%w: %s (constraint: %s)", ErrForeignKey, what, pqErr.Constraint)
		case "numeric_value_out_of_range", "check_violation":
			return fmt.Errorf("%w: %s: %s", ErrInvalidValue, what, pqErr.Message)
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrDatabaseError, what, err)
}

// expectAffected turns a zero-row write into ErrNotFound.
func expectAffected(result sql.Result, what string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDatabaseError, what, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// pageClause appends LIMIT/OFFSET placeholders starting at argCount.
func pageClause(page, limit, argCount int, args []interface{}) (string, []interface{}) {
	if limit <= 0 {
		return "", args
	}
	if page <= 0 {
		page = 1
	}
	clause := fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
	return clause, append(args, limit, (page-1)*limit)
}
