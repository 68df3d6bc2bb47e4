package lending

import (
	"errors"
	"fmt"
)

var (
	// ErrBookNotFound is returned when a referenced book id does not exist.
	ErrBookNotFound = errors.New("book not found")

	// ErrMemberNotFound is returned when a referenced member id does not exist.
	ErrMemberNotFound = errors.New("member not found")

	// ErrLoanNotFound is returned when a referenced loan id does not exist.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrFineNotFound is returned when a referenced fine id does not exist.
	ErrFineNotFound = errors.New("fine not found")

	// ErrNoCopiesAvailable is returned when a borrow is attempted while no copy of the book is free.
	ErrNoCopiesAvailable = errors.New("no copies of the book are available")

	// ErrLoanAlreadyReturned is returned when Return is invoked on a loan that has already been returned.
	ErrLoanAlreadyReturned = errors.New("loan has already been returned")

	// ErrFineAlreadyPaid is returned when PayFine is invoked on a fine that has already been paid.
	ErrFineAlreadyPaid = errors.New("fine has already been paid")

	// ErrInvariantViolation is returned when an adjustment would push an available count
	// or an outstanding balance below its valid range. It indicates a bug or a race,
	// never an expected business outcome.
	ErrInvariantViolation = errors.New("adjustment would violate a non-negativity invariant")

	// ErrInvalidLoanPolicy is returned when a present-but-invalid duration or fine rate
	// is supplied. Defaults apply only to absent values, never to invalid ones.
	ErrInvalidLoanPolicy = errors.New("loan duration must be positive and fine rate must not be negative")

	// ErrInvalidFineAmount is returned when a fine record with a non-positive amount would be created.
	ErrInvalidFineAmount = errors.New("fine amount must be positive")

	// ErrNilStorage is returned when an Engine is constructed without a storage backend.
	ErrNilStorage = errors.New("storage must not be nil")

	// ErrNilClock is returned when a nil time source is supplied.
	ErrNilClock = errors.New("clock must not be nil")
)

// StorageError wraps a failure of the storage layer itself (connectivity, transaction
// management, driver errors) so callers can distinguish "the operation is logically
// invalid" from "the operation could not be attempted".
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err as a storage-layer failure of the given operation.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying storage-layer error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError reports whether err is (or wraps) a storage-layer failure.
func IsStorageError(err error) bool {
	var storageErr *StorageError
	return errors.As(err, &storageErr)
}
