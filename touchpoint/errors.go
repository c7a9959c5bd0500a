package touchpoint

import "errors"

// ErrInputFormat is returned when input is not a well-formed three-column
// touchpoint table. Errors are wrapped with the offending row where known.
var ErrInputFormat = errors.New("touchpoint: invalid input format")
