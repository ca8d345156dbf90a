package template

import "errors"

// Errors returned by template operations.
var (
	// ErrInvalidArgument indicates a malformed registration: an empty
	// name, a nil template, a nil highlight function, or a broken
	// extension list. Malformed templates never enter the registry.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateName indicates a registration under a taken name.
	ErrDuplicateName = errors.New("template name already registered")
)
