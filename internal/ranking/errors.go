package ranking

import "errors"

// ErrInvalidInput is returned when a caller violates the scoring contract,
// e.g. a nil listing, a listing without description or a negative limit.
var ErrInvalidInput = errors.New("invalid input")
