package widget

import "errors"

// ErrNilHost indicates construction without a host element.
var ErrNilHost = errors.New("nil host element")
