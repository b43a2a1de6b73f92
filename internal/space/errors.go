package space

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSpace is returned for an ID the registry never issued.
	ErrUnknownSpace = errors.New("unknown space")

	// ErrUnknownKind is returned for a kind outside the closed set.
	ErrUnknownKind = errors.New("unknown space kind")

	// ErrOutOfOrder is returned when stored nodes are restored out of ID
	// order or with a malformed root.
	ErrOutOfOrder = errors.New("space restored out of order")
)

// ContainmentError reports a space whose ancestor chain lacks the kind its
// own kind requires.
type ContainmentError struct {
	Required  Kind
	Attempted Kind
}

func (e *ContainmentError) Error() string {
	return fmt.Sprintf("a %s must be inside a %s", e.Attempted, e.Required)
}

// IsContainmentError returns true if err is or wraps a ContainmentError.
func IsContainmentError(err error) bool {
	var ce *ContainmentError
	return errors.As(err, &ce)
}
