package gdoc

import "errors"

// ErrMalformedInput is returned (wrapped) when document structure cannot be
// rendered, nothing is produced in this case.
var ErrMalformedInput = errors.New("malformed document")
