package instant

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

// Fields names the calendar components of an instant. A zero Month means
// January and a zero Day means the first of the month.
type Fields struct {
	Year       int64      `json:"year"`
	Month      time.Month `json:"month"`
	Day        int        `json:"day"`
	Hour       int        `json:"hour"`
	Minute     int        `json:"minute"`
	Second     int        `json:"second"`
	Nanosecond int        `json:"nanosecond"`
}

func (f Fields) instant() Instant {
	month, day := f.Month, f.Day
	if month == 0 {
		month = time.January
	}
	if day == 0 {
		day = 1
	}
	return Date(big.NewInt(f.Year), month, day, f.Hour, f.Minute, f.Second, f.Nanosecond)
}

// New builds an instant from a single native-representable value: an
// Instant, a time.Time, an int64 or int nanosecond count since the epoch,
// an exact *big.Int nanosecond count, Fields, or a string accepted by
// ParseString.
func New(v any) (Instant, error) {
	switch tv := v.(type) {
	case Instant:
		return tv, nil
	case *Instant:
		if tv == nil {
			return Instant{}, fmt.Errorf("%w: nil instant", ErrInvalidValue)
		}
		return *tv, nil
	case time.Time:
		return fromTime(tv), nil
	case int64:
		return FromNative(tv), nil
	case int:
		return FromNative(int64(tv)), nil
	case *big.Int:
		if tv == nil {
			return Instant{}, fmt.Errorf("%w: nil integer", ErrInvalidValue)
		}
		return FromExact(tv), nil
	case Fields:
		return tv.instant(), nil
	case string:
		return ParseString(tv)
	default:
		return Instant{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidValue, v)
	}
}

// FromOffset builds an instant from native construction arguments and a
// whole-year offset.
//
// With no arguments the current time is used. A single argument is anything
// New accepts. Several arguments are positional calendar components (year,
// month, day, hour, minute, second, nanosecond); they cannot be combined with
// a nonzero offset and yield a ConstructionAmbiguityError.
func FromOffset(yearsOffset *big.Int, args ...any) (Instant, error) {
	if yearsOffset == nil {
		yearsOffset = new(big.Int)
	}

	var base Instant
	switch len(args) {
	case 0:
		base = Now()
	case 1:
		var err error
		if base, err = New(args[0]); err != nil {
			return Instant{}, err
		}
	default:
		if yearsOffset.Sign() != 0 {
			return Instant{}, &ConstructionAmbiguityError{
				YearsOffset: new(big.Int).Set(yearsOffset),
				Args:        len(args),
			}
		}
		return fromComponents(args)
	}

	if yearsOffset.Sign() == 0 {
		return base, nil
	}
	return base.AddYears(yearsOffset), nil
}

func fromComponents(args []any) (Instant, error) {
	if len(args) > 7 {
		return Instant{}, fmt.Errorf("%w: %d calendar components, at most 7", ErrInvalidValue, len(args))
	}

	year, ok := toBig(args[0])
	if !ok {
		return Instant{}, fmt.Errorf("%w: year must be an integer, got %T", ErrInvalidValue, args[0])
	}

	// month, day, hour, minute, second, nanosecond
	rest := [6]int{1, 1, 0, 0, 0, 0}
	for k, arg := range args[1:] {
		switch v := arg.(type) {
		case int:
			rest[k] = v
		case int64:
			rest[k] = int(v)
		case time.Month:
			rest[k] = int(v)
		default:
			return Instant{}, fmt.Errorf("%w: calendar component %d must be an integer, got %T", ErrInvalidValue, k+1, arg)
		}
	}

	return Date(year, time.Month(rest[0]), rest[1], rest[2], rest[3], rest[4], rest[5]), nil
}

func toBig(v any) (*big.Int, bool) {
	switch tv := v.(type) {
	case int:
		return big.NewInt(int64(tv)), true
	case int64:
		return big.NewInt(tv), true
	case *big.Int:
		if tv == nil {
			return nil, false
		}
		return new(big.Int).Set(tv), true
	}
	return nil, false
}

var (
	extendedDate = regexp.MustCompile(`^([+-]?\d{4,})(-\d{2}-\d{2})$`)
	extendedTime = regexp.MustCompile(`^([+-]?\d{4,})(-\d{2}-\d{2}[T ].+)$`)
	exactNanos   = regexp.MustCompile(`^[+-]?\d+$`)
)

// ParseString accepts an RFC 3339 timestamp or a YYYY-MM-DD date, both with
// signed years of four or more digits, or a decimal nanosecond count since
// the epoch.
func ParseString(s string) (Instant, error) {
	s = strings.TrimSpace(s)

	if m := extendedTime.FindStringSubmatch(s); m != nil {
		return parseExtended(m[1], m[2], time.RFC3339Nano, s)
	}
	if m := extendedDate.FindStringSubmatch(s); m != nil {
		return parseExtended(m[1], m[2], time.DateOnly, s)
	}
	if exactNanos.MatchString(s) {
		v, ok := new(big.Int).SetString(strings.TrimPrefix(s, "+"), 10)
		if ok {
			return FromExact(v), nil
		}
	}
	return Instant{}, fmt.Errorf("%w: cannot parse %q", ErrInvalidValue, s)
}

// ParseRFC3339 parses an RFC 3339 timestamp whose year may be signed and
// longer than four digits, as produced by String.
func ParseRFC3339(s string) (Instant, error) {
	m := extendedTime.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Instant{}, fmt.Errorf("%w: not an RFC 3339 timestamp: %q", ErrInvalidValue, s)
	}
	return parseExtended(m[1], m[2], time.RFC3339Nano, s)
}

// parseExtended substitutes a native year sharing the 400-year cycle
// position, parses with the host parser and moves the result back by whole
// blocks.
func parseExtended(yearText, rest, layout, input string) (Instant, error) {
	year, ok := new(big.Int).SetString(strings.TrimPrefix(yearText, "+"), 10)
	if !ok {
		return Instant{}, fmt.Errorf("%w: bad year in %q", ErrInvalidValue, input)
	}

	q, r := new(big.Int), new(big.Int)
	q.DivMod(new(big.Int).Sub(year, big.NewInt(epochYear)), blockYearsBig, r)

	native := fmt.Sprintf("%04d", epochYear+r.Int64()) + strings.Replace(rest, " ", "T", 1)
	t, err := time.Parse(layout, native)
	if err != nil {
		return Instant{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	exact := new(big.Int).Mul(q, blockNanos)
	return FromExact(exact.Add(exact, unixNanos(t))), nil
}
