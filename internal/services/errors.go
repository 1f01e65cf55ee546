package services

import (
	"errors"
	"fmt"

	"oa_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// --- Service Errors shared by the OA modules ---
var (
	ErrValidation         = errors.New("validation failed")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrRecordNotFound     = errors.New("record not found")
	ErrConflict           = errors.New("record already exists")
	ErrInUse              = errors.New("record is referenced and cannot be deleted")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// translateRepoError lifts repository sentinels into service sentinels. Storage
// failures pass through unchanged so the handler can report them as internal.
func translateRepoError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrRecordNotFound, what)
	case errors.Is(err, repositories.ErrDuplicateKey):
		return fmt.Errorf("%w: %s", ErrConflict, what)
	case errors.Is(err, repositories.ErrForeignKey):
		return fmt.Errorf("%w: %s references a missing or protected record", ErrValidation, what)
	case errors.Is(err, repositories.ErrInvalidValue):
		return fmt.Errorf("%w: %s: %v", ErrValidation, what, err)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

// checkMoney bounds v to a NUMERIC(precision, 2) column: at most two decimal
// places and precision-2 integer digits.
func checkMoney(name string, v decimal.Decimal, precision int32) error {
	if !v.Equal(v.Round(2)) {
		return validationf("%s must have at most 2 decimal places", name)
	}
	if v.Abs().GreaterThanOrEqual(decimal.New(1, precision-2)) {
		return validationf("%s exceeds the maximum of %s", name, decimal.New(1, precision-2).Sub(decimal.New(1, -2)).StringFixed(2))
	}
	return nil
}
