package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique key collision.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidStatus is returned for order statuses outside the known set.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrStatusConflict is returned when an order is not in a status the
	// requested transition starts from.
	ErrStatusConflict = errors.New("order status conflict")
	// ErrUnavailable wraps storage reads that failed. Callers must not treat
	// the data as empty.
	ErrUnavailable = errors.New("storage unavailable")
)
