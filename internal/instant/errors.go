package instant

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrInvalidValue is returned when a constructor argument cannot be
	// interpreted as a point in time.
	ErrInvalidValue = errors.New("invalid instant value")

	// ErrOutOfNativeRange is returned when an instant does not fit the
	// int64 nanosecond primitive.
	ErrOutOfNativeRange = errors.New("instant outside native range")
)

// ConstructionAmbiguityError reports a nonzero year offset combined with
// several positional native arguments.
type ConstructionAmbiguityError struct {
	YearsOffset *big.Int
	Args        int
}

func (e *ConstructionAmbiguityError) Error() string {
	return fmt.Sprintf("cannot combine year offset %s with %d native arguments", e.YearsOffset, e.Args)
}

// FormatError reports native formatter output without a usable year field.
type FormatError struct {
	Layout string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot format instant with layout %q: %s", e.Layout, e.Reason)
}

// UnsupportedOperationError reports an operation extended instants do not
// offer: in-place mutation and two-digit years.
type UnsupportedOperationError struct {
	Op string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported instant operation: %s", e.Op)
}

// IsUnsupported reports whether err is an UnsupportedOperationError.
func IsUnsupported(err error) bool {
	var ue *UnsupportedOperationError
	return errors.As(err, &ue)
}
