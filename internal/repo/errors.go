package repo

import "errors"

var (
	// ErrNotFound means the statement ran and matched no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate means a unique constraint rejected the write.
	ErrDuplicate = errors.New("duplicate key")
	// ErrForeignKey means a referenced row does not exist.
	ErrForeignKey = errors.New("foreign key violation")
)

// StorageError is a failure of the store itself: unreachable, bad
// statement, scan mismatch. It has already been logged by the gateway.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return "storage " + e.Op + ": " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

// IsStorageFailure reports whether err came from a failing store rather
// than from a missing row or a constraint.
func IsStorageFailure(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
