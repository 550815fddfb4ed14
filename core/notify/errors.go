package notify

import "errors"

// ErrConfirmTimeout is returned when no consumer confirms a publication
// within the allotted time.
var ErrConfirmTimeout = errors.New("timeout waiting for confirmation")
