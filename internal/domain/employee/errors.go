package employee

import "errors"

var (
	ErrNotFound          = errors.New("employee not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrCorrupt           = errors.New("stored employee data is corrupt")
	ErrInvalidCollection = errors.New("invalid employee collection")
)
