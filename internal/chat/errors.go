package chat

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyMessage = errors.New("message is required")
	ErrClosed       = errors.New("chat store is closed")
)

// NotFoundError reports an operation on a conversation id the store does not hold.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("conversation %q not found", e.ID)
}

// IsNotFound reports whether err wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
