package catalog

import (
	"errors"
	"fmt"

	"github.com/NemecSoft/YunGame/internal/catalog/repo"
)

var (
	// ErrInit marks failures that prevent the store from opening.
	ErrInit = errors.New("catalog init failed")
	// ErrStorage marks failed writes.
	ErrStorage = errors.New("catalog storage failed")
	// ErrInvalidEntry is returned for entries that cannot be written.
	ErrInvalidEntry = errors.New("invalid catalog entry")
)

// MigrationWarning is a column that could not be added while opening. The
// store stays usable; only reads and writes touching that column may fail.
type MigrationWarning = repo.ColumnError

// RowParseError is a stored row that could not be reconstructed.
type RowParseError = repo.RowError

// InitError wraps the cause of a failed Open.
type InitError struct {
	Step string
	Err  error
}

func (e *InitError) Error() string { return fmt.Sprintf("catalog init: %s: %v", e.Step, e.Err) }
func (e *InitError) Unwrap() error { return e.Err }
func (e *InitError) Is(target error) bool {
	return target == ErrInit
}

// StorageError wraps a failed create, update or delete.
type StorageError struct {
	Op  string
	ID  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("catalog %s %s: %v", e.Op, e.ID, e.Err)
}
func (e *StorageError) Unwrap() error { return e.Err }
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
