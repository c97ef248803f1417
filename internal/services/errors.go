package services

import (
	"errors"

	"warbler/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrIntegrity          = errors.New("integrity violation")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSelfFollow         = errors.New("users cannot follow themselves")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidMessage     = errors.New("message must be between 1 and 140 characters")
)

// storeError maps driver level errors onto the package sentinels.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, models.ErrMissingField):
		return errors.Join(ErrIntegrity, err)
	default:
		return err
	}
}
