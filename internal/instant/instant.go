// Package instant implements an exact timestamp whose range is not bounded by
// the int64 nanosecond primitive.
//
// An Instant is stored as a native component, an int64 nanosecond count
// since the Unix epoch kept inside [-HalfBlock, HalfBlock), plus an
// arbitrary-precision count of whole 400-year epoch blocks:
//
//	exact = block * BlockNanos() + native
//
// Instants are immutable values; the zero value is the Unix epoch.
package instant

import (
	"fmt"
	"log/slog"
	"math/big"
	"time"
)

type Instant struct {
	block  *big.Int
	native int64
}

// Now returns the current instant.
func Now() Instant {
	return fromTime(time.Now())
}

// FromNative wraps an int64 nanosecond count since the Unix epoch. A value
// outside the native span is still represented exactly, but it is reported
// as a warning since the primitive alone could not carry it.
func FromNative(ns int64) Instant {
	if ns >= -HalfBlock && ns < HalfBlock {
		return Instant{native: ns}
	}

	inst := FromExact(big.NewInt(ns))
	slog.With("component", "instant", "operation", "from_native").Warn(
		"Native value outside native span, normalized into block offset",
		"native_nanos", ns,
		"block_offset", inst.BlockOffset().String(),
	)
	return inst
}

// FromExact builds an instant from an exact nanosecond count since the
// Unix epoch.
func FromExact(v *big.Int) Instant {
	shifted := new(big.Int).Add(v, halfBlockNanos)
	q, m := new(big.Int), new(big.Int)
	q.DivMod(shifted, blockNanos, m)
	native := m.Sub(m, halfBlockNanos).Int64()
	return Instant{block: q, native: native}
}

// FromParts builds an instant from a block offset and a native component.
// The native component need not lie in the native span; the result is
// normalized.
func FromParts(block *big.Int, native int64) Instant {
	if block == nil {
		block = new(big.Int)
	}
	if native >= -HalfBlock && native < HalfBlock {
		return Instant{block: new(big.Int).Set(block), native: native}
	}
	exact := new(big.Int).Mul(block, blockNanos)
	return FromExact(exact.Add(exact, big.NewInt(native)))
}

// Date returns the instant for the given proleptic Gregorian date in UTC.
// Out-of-range month, day and clock values are normalized the way time.Date
// normalizes them, but without its overflow: the carry is computed exactly
// for any component values.
func Date(year *big.Int, month time.Month, day, hour, min, sec, nsec int) Instant {
	// Month carry goes into the year; months are 0-based here.
	carry, m := new(big.Int), new(big.Int)
	carry.DivMod(big.NewInt(int64(month)-1), big.NewInt(12), m)
	y := new(big.Int).Add(year, carry)

	q, r := new(big.Int), new(big.Int)
	q.DivMod(y.Sub(y, big.NewInt(epochYear)), blockYearsBig, r)

	t := time.Date(epochYear+int(r.Int64()), time.Month(m.Int64()+1), 1, 0, 0, 0, 0, time.UTC)

	exact := new(big.Int).Mul(q, blockNanos)
	exact.Add(exact, unixNanos(t))

	for _, c := range [...]struct {
		n    int64
		unit int64
	}{
		{int64(day) - 1, Day},
		{int64(hour), Hour},
		{int64(min), Minute},
		{int64(sec), Second},
		{int64(nsec), Nanosecond},
	} {
		part := new(big.Int).Mul(big.NewInt(c.n), big.NewInt(c.unit))
		exact.Add(exact, part)
	}
	return FromExact(exact)
}

func fromTime(t time.Time) Instant {
	return FromExact(unixNanos(t))
}

// unixNanos is t.UnixNano without the int64 overflow.
func unixNanos(t time.Time) *big.Int {
	ns := new(big.Int).Mul(big.NewInt(t.Unix()), secondBig)
	return ns.Add(ns, big.NewInt(int64(t.Nanosecond())))
}

// Exact returns the nanoseconds since the Unix epoch.
func (i Instant) Exact() *big.Int {
	exact := new(big.Int).Mul(i.blockOffset(), blockNanos)
	return exact.Add(exact, big.NewInt(i.native))
}

// BlockOffset returns the number of whole epoch blocks between the native
// component and the instant.
func (i Instant) BlockOffset() *big.Int {
	return new(big.Int).Set(i.blockOffset())
}

func (i Instant) blockOffset() *big.Int {
	if i.block == nil {
		return new(big.Int)
	}
	return i.block
}

// NativeNanos returns the native component.
func (i Instant) NativeNanos() int64 {
	return i.native
}

// UnixNano converts the instant back to the native primitive.
func (i Instant) UnixNano() (int64, error) {
	exact := i.Exact()
	if !exact.IsInt64() {
		return 0, fmt.Errorf("%w: %s ns", ErrOutOfNativeRange, exact)
	}
	return exact.Int64(), nil
}

// Year returns the proleptic Gregorian year, which may be zero or negative.
func (i Instant) Year() *big.Int {
	year := new(big.Int).Mul(i.blockOffset(), blockYearsBig)
	return year.Add(year, big.NewInt(int64(i.nativeTime().Year())))
}

// SetYear always fails: instants are immutable and a different year needs a
// new instant, see FromOffset and Date.
func (i Instant) SetYear(year *big.Int) error {
	return &UnsupportedOperationError{Op: "SetYear"}
}

// AddYears returns the instant shifted by whole calendar years, keeping
// month, day and time of day. February 29 moves to March 1 in common years.
func (i Instant) AddYears(years *big.Int) Instant {
	t := i.nativeTime()
	year := i.Year()
	return Date(year.Add(year, years), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond())
}

// Add returns the instant shifted by d.
func (i Instant) Add(d time.Duration) Instant {
	exact := i.Exact()
	return FromExact(exact.Add(exact, big.NewInt(int64(d))))
}

// Compare returns -1, 0 or +1 as i is before, equal to or after j.
func (i Instant) Compare(j Instant) int {
	if c := i.blockOffset().Cmp(j.blockOffset()); c != 0 {
		return c
	}
	switch {
	case i.native < j.native:
		return -1
	case i.native > j.native:
		return 1
	}
	return 0
}

func (i Instant) Equal(j Instant) bool  { return i.Compare(j) == 0 }
func (i Instant) Before(j Instant) bool { return i.Compare(j) < 0 }
func (i Instant) After(j Instant) bool  { return i.Compare(j) > 0 }

// nativeTime renders the native component with the host time package.
func (i Instant) nativeTime() time.Time {
	return time.Unix(0, i.native).UTC()
}
