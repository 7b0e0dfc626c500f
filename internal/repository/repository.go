// Package repository is the persistence boundary for cases and the identity
// records they reference. Every store has a GORM implementation backed by
// Postgres and an in-memory one used by tests and local runs.
package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// translate maps GORM errors onto the repository sentinels. The GORM
// connection must be opened with TranslateError for ErrDuplicatedKey to surface.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
