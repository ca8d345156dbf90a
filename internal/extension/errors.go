package extension

import "errors"

// Errors returned by extension operations.
var (
	// ErrUnknownExtension indicates a lookup for an unregistered name.
	ErrUnknownExtension = errors.New("unknown extension")

	// ErrDuplicateName indicates a registration under a taken name.
	ErrDuplicateName = errors.New("extension name already registered")

	// ErrInvalidExtension indicates a nil or unnamed extension.
	ErrInvalidExtension = errors.New("invalid extension")
)
