package sync

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound reports an id absent from both the remote and local stores.
var ErrNotFound = errors.New("not found")

// ErrNoSession reports an orchestrator call without a signed-in user.
var ErrNoSession = errors.New("no authenticated session")

// ValidationError is the only failure surfaced to callers before any I/O.
// Remote-store failures never reach the caller; they trigger the local
// fallback instead.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
