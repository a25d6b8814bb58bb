package service

import (
	"errors"
	"fmt"

	"fsanano/storefront/internal/repository"
)

var (
	ErrValidation        = errors.New("validation")          // 400
	ErrUnauthorized      = errors.New("invalid credentials") // 401
	ErrForbidden         = errors.New("forbidden")           // 403
	ErrNotFound          = errors.New("not found")           // 404
	ErrConflict          = errors.New("conflict")            // 409
	ErrInsufficientStock = errors.New("insufficient stock")  // 409
	ErrWrite             = errors.New("write failed")        // 500
	ErrRead              = errors.New("read failed")         // 500
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// readError maps a repository read failure onto the service taxonomy.
func readError(what string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return fmt.Errorf("%w: %s: %v", ErrRead, what, err)
}

// writeError maps a repository write failure onto the service taxonomy.
func writeError(what string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%w: %s", ErrConflict, what)
	case errors.Is(err, repository.ErrConstraint):
		return fmt.Errorf("%w: %s: %v", ErrValidation, what, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrWrite, what, err)
}
