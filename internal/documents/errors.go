package documents

import "errors"

// ErrMalformed is returned when a stored body is not valid JSON for its
// collection.
var ErrMalformed = errors.New("malformed document")
