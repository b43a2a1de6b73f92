package instant

import "math/big"

// Exact unit ratios, in nanoseconds.
const (
	Nanosecond  int64 = 1
	Microsecond       = 1000 * Nanosecond
	Millisecond       = 1000 * Microsecond
	Second            = 1000 * Millisecond
	Minute            = 60 * Second
	Hour              = 60 * Minute
	Day               = 24 * Hour
	CommonYear        = 365 * Day
	LeapYear          = 366 * Day

	// MeanYear is the mean Gregorian year, 365.2425 days. It is only used to
	// size epoch blocks, never for calendar arithmetic inside the native span.
	MeanYear = 31556952 * Second
)

const (
	// BlockYears is the width of one epoch block in mean years. A whole
	// Gregorian cycle keeps month, day, weekday and time of day unchanged
	// when an instant moves by one block.
	BlockYears = 400
	BlockDays  = 146097

	// HalfBlock bounds the native component: native ∈ [-HalfBlock, HalfBlock).
	HalfBlock = BlockDays * (Day / 2)

	epochYear = 1970
)

var (
	blockNanos     = new(big.Int).Mul(big.NewInt(HalfBlock), big.NewInt(2))
	halfBlockNanos = big.NewInt(HalfBlock)
	blockYearsBig  = big.NewInt(BlockYears)
	secondBig      = big.NewInt(Second)
)

// BlockNanos returns the width of one epoch block in nanoseconds.
func BlockNanos() *big.Int {
	return new(big.Int).Set(blockNanos)
}
