package instant

import (
	"errors"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bigInt(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "bad integer literal %q", s)
	return v
}

func TestUnits_BlockIsWholeMeanYears(t *testing.T) {
	assert.Equal(t, int64(BlockDays)*(Day/Second), BlockYears*(MeanYear/Second))
	assert.Equal(t, "12622780800000000000", BlockNanos().String())
	assert.Equal(t, int64(6311390400000000000), HalfBlock)
	assert.Equal(t, 365*Day, CommonYear)
	assert.Equal(t, LeapYear-CommonYear, Day)
}

func TestFromParts_ExactValue(t *testing.T) {
	cases := []struct {
		block  string
		native int64
	}{
		{"0", 0},
		{"1", 0},
		{"-1", 0},
		{"0", HalfBlock - 1},
		{"0", -HalfBlock},
		{"-1032505", 946684800000000000},
		{"123456789012345678901234567890", -42},
		{"-987654321098765432109876543210", HalfBlock - 1},
	}

	for _, tc := range cases {
		block := bigInt(t, tc.block)
		inst := FromParts(block, tc.native)

		want := new(big.Int).Mul(block, BlockNanos())
		want.Add(want, big.NewInt(tc.native))

		assert.Equal(t, want.String(), inst.Exact().String(), "block=%s native=%d", tc.block, tc.native)
		assert.Equal(t, tc.block, inst.BlockOffset().String())
		assert.Equal(t, tc.native, inst.NativeNanos())
	}
}

func TestFromParts_NormalizesNative(t *testing.T) {
	inst := FromParts(big.NewInt(2), HalfBlock)

	assert.Equal(t, "3", inst.BlockOffset().String())
	assert.Equal(t, -HalfBlock, inst.NativeNanos())

	want := new(big.Int).Mul(big.NewInt(2), BlockNanos())
	want.Add(want, big.NewInt(HalfBlock))
	assert.Equal(t, want.String(), inst.Exact().String())
}

func TestFromExact_KeepsNativeInSpan(t *testing.T) {
	for _, s := range []string{
		"0",
		"-1",
		"6311390400000000000",
		"-6311390400000000001",
		"-5212898401234567890123456789",
		"99999999999999999999999999999",
	} {
		v := bigInt(t, s)
		inst := FromExact(v)

		assert.GreaterOrEqual(t, inst.NativeNanos(), -HalfBlock, s)
		assert.Less(t, inst.NativeNanos(), HalfBlock, s)
		assert.Equal(t, s, inst.Exact().String())
	}
}

func TestFromNative(t *testing.T) {
	inst := FromNative(1_700_000_000_000_000_000)
	assert.Equal(t, "0", inst.BlockOffset().String())
	assert.Equal(t, int64(1_700_000_000_000_000_000), inst.NativeNanos())

	ns, err := inst.UnixNano()
	require.NoError(t, err)
	assert.Equal(t, int64(1_700_000_000_000_000_000), ns)
}

func TestFromNative_OutsideSpanIsAdvisory(t *testing.T) {
	// 2262-04-11 is representable as int64 nanoseconds but lies past the
	// native span; it is normalized rather than rejected.
	const ns = int64(9_223_372_036_854_775_807)
	inst := FromNative(ns)

	assert.Equal(t, "1", inst.BlockOffset().String())
	assert.Equal(t, big.NewInt(ns).String(), inst.Exact().String())
	assert.Equal(t, "2262", inst.Year().String())

	back, err := inst.UnixNano()
	require.NoError(t, err)
	assert.Equal(t, ns, back)
}

func TestUnixNano_OutOfNativeRange(t *testing.T) {
	inst := Date(big.NewInt(3000), time.January, 1, 0, 0, 0, 0)

	_, err := inst.UnixNano()
	assert.ErrorIs(t, err, ErrOutOfNativeRange)
}

func TestZeroValueIsEpoch(t *testing.T) {
	var inst Instant

	assert.Equal(t, "0", inst.Exact().String())
	assert.Equal(t, "1970", inst.Year().String())
	assert.Equal(t, "1970-01-01T00:00:00Z", inst.String())
}

func TestDate_MatchesHostCalendarInsideRange(t *testing.T) {
	host := time.Date(2024, time.February, 29, 13, 14, 15, 16, time.UTC)
	inst := Date(big.NewInt(2024), time.February, 29, 13, 14, 15, 16)

	assert.Equal(t, host.UnixNano(), inst.Exact().Int64())
	assert.Equal(t, "2024", inst.Year().String())
}

func TestDate_BlockShiftPreservesCalendar(t *testing.T) {
	a := Date(big.NewInt(1600), time.March, 1, 0, 0, 0, 0)
	b := Date(big.NewInt(2000), time.March, 1, 0, 0, 0, 0)

	diff := new(big.Int).Sub(b.Exact(), a.Exact())
	assert.Equal(t, BlockNanos().String(), diff.String())
}

func TestFromOffset_FarPast(t *testing.T) {
	inst, err := FromOffset(big.NewInt(-413_000_000), Fields{Month: time.January, Day: 1})
	require.NoError(t, err)

	assert.Equal(t, "-413000000", inst.Year().String())
	assert.Contains(t, inst.String(), "-413000000")
	assert.Equal(t, "-413000000-01-01T00:00:00Z", inst.String())

	_, err = inst.UnixNano()
	assert.ErrorIs(t, err, ErrOutOfNativeRange)
}

func TestFromOffset_AddsNativeYear(t *testing.T) {
	inst, err := FromOffset(big.NewInt(-413_000_000), Fields{Year: 1999, Month: time.June, Day: 30})
	require.NoError(t, err)

	assert.Equal(t, "-412998001", inst.Year().String())
	assert.Equal(t, "-412998001-06-30T00:00:00Z", inst.String())
}

func TestFromOffset_ShiftsStringAndTime(t *testing.T) {
	offset := big.NewInt(10_000_000)

	fromString, err := FromOffset(offset, "2020-05-17T08:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "10002020-05-17T08:00:00Z", fromString.String())

	fromTime, err := FromOffset(offset, time.Date(2020, time.May, 17, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, fromString.Equal(fromTime))
}

func TestFromOffset_ZeroOffsetPositionalArgs(t *testing.T) {
	inst, err := FromOffset(nil, 1999, 12, 31, 23, 59, 59, 999999999)
	require.NoError(t, err)
	assert.Equal(t, "1999-12-31T23:59:59.999999999Z", inst.String())

	withBigYear, err := FromOffset(big.NewInt(0), big.NewInt(-4), time.March, 15)
	require.NoError(t, err)
	assert.Equal(t, "-0004-03-15T00:00:00Z", withBigYear.String())
}

func TestFromOffset_AmbiguousArgs(t *testing.T) {
	_, err := FromOffset(big.NewInt(-413_000_000), 2000, 1, 1)

	var ambiguity *ConstructionAmbiguityError
	require.True(t, errors.As(err, &ambiguity))
	assert.Equal(t, "-413000000", ambiguity.YearsOffset.String())
	assert.Equal(t, 3, ambiguity.Args)
}

func TestFromOffset_InvalidArgs(t *testing.T) {
	_, err := FromOffset(nil, 2000, "January")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = FromOffset(nil, 1, 2, 3, 4, 5, 6, 7, 8)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = FromOffset(big.NewInt(1), 3.14)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestNew_Variants(t *testing.T) {
	want := Date(big.NewInt(2001), time.September, 9, 1, 46, 40, 0)

	for name, v := range map[string]any{
		"instant":  want,
		"pointer":  &want,
		"time":     time.Unix(1_000_000_000, 0),
		"int64":    int64(1_000_000_000_000_000_000),
		"int":      1_000_000_000_000_000_000,
		"big":      big.NewInt(1_000_000_000_000_000_000),
		"rfc3339":  "2001-09-09T01:46:40Z",
		"offset":   "2001-09-09T03:46:40+02:00",
		"fields":   Fields{Year: 2001, Month: time.September, Day: 9, Hour: 1, Minute: 46, Second: 40},
		"decimal":  "1000000000000000000",
		"spacesep": "2001-09-09 01:46:40Z",
	} {
		got, err := New(v)
		require.NoError(t, err, name)
		assert.True(t, want.Equal(got), "%s: got %s", name, got)
	}
}

func TestNew_Rejects(t *testing.T) {
	for _, v := range []any{nil, 1.5, "yesterday", (*Instant)(nil), (*big.Int)(nil)} {
		_, err := New(v)
		assert.ErrorIs(t, err, ErrInvalidValue, "%v", v)
	}
}

func TestSetYear_Unsupported(t *testing.T) {
	inst := Now()
	err := inst.SetYear(big.NewInt(1))

	assert.True(t, IsUnsupported(err))
}

func TestAddYears_LeapDay(t *testing.T) {
	leap := Date(big.NewInt(2024), time.February, 29, 0, 0, 0, 0)

	assert.Equal(t, "-0004-02-29T00:00:00Z", leap.AddYears(big.NewInt(-2028)).String())
	assert.Equal(t, "2025-03-01T00:00:00Z", leap.AddYears(big.NewInt(1)).String())
}

func TestCompareAndAdd(t *testing.T) {
	past := Date(big.NewInt(-413_000_000), time.January, 1, 0, 0, 0, 0)
	epoch := FromNative(0)
	future := Date(big.NewInt(10_000_000), time.January, 1, 0, 0, 0, 0)

	assert.True(t, past.Before(epoch))
	assert.True(t, future.After(epoch))
	assert.Equal(t, 0, epoch.Compare(FromExact(big.NewInt(0))))
	assert.Equal(t, -1, past.Compare(future))

	later := past.Add(36 * time.Hour)
	assert.Equal(t, "-413000000-01-02T12:00:00Z", later.String())
	assert.True(t, later.Add(-36*time.Hour).Equal(past))
}

func TestAdd_CrossesBlockBoundary(t *testing.T) {
	edge := FromParts(big.NewInt(0), HalfBlock-1)
	next := edge.Add(time.Nanosecond)

	assert.Equal(t, "1", next.BlockOffset().String())
	assert.Equal(t, -HalfBlock, next.NativeNanos())
}

func TestDate_LargeComponentsAreExact(t *testing.T) {
	jan2000 := Date(big.NewInt(2000), time.January, 1, 0, 0, 0, 0)

	days := int64(math.MaxInt64 / 86400)
	inst, err := FromOffset(nil, 2000, 1, int(days))
	require.NoError(t, err)
	assert.Equal(t, "9223372037801318400000000000", inst.Exact().String())

	want := new(big.Int).Mul(big.NewInt(days-1), big.NewInt(Day))
	want.Add(want, jan2000.Exact())
	assert.Equal(t, want.String(), inst.Exact().String())
	assert.Equal(t, 1, inst.Year().Sign())

	inst, err = FromOffset(nil, 2000, 1, math.MaxInt64)
	require.NoError(t, err)
	want = new(big.Int).Mul(big.NewInt(math.MaxInt64-1), big.NewInt(Day))
	want.Add(want, jan2000.Exact())
	assert.Equal(t, want.String(), inst.Exact().String())

	clock := Date(big.NewInt(2000), time.January, 1, math.MaxInt64, math.MinInt64, 0, 0)
	want = new(big.Int).Mul(big.NewInt(math.MaxInt64), big.NewInt(Hour))
	want.Add(want, new(big.Int).Mul(big.NewInt(math.MinInt64), big.NewInt(Minute)))
	want.Add(want, jan2000.Exact())
	assert.Equal(t, want.String(), clock.Exact().String())
}

func TestDate_NormalizesLikeHostCalendar(t *testing.T) {
	cases := []struct {
		month                     time.Month
		day, hour, min, sec, nsec int
	}{
		{time.February, 30, 0, 0, 0, 0},
		{13, 1, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{-25, 400, -30, 90, -1, 2_000_000_000},
		{time.December, 31, 24, 0, 0, 0},
	}

	for _, tc := range cases {
		host := time.Date(2023, tc.month, tc.day, tc.hour, tc.min, tc.sec, tc.nsec, time.UTC)
		inst := Date(big.NewInt(2023), tc.month, tc.day, tc.hour, tc.min, tc.sec, tc.nsec)
		assert.Equal(t, host.UnixNano(), inst.Exact().Int64(), "%+v", tc)
	}

	farMonth := Date(big.NewInt(-413_000_000), 14, 1, 0, 0, 0, 0)
	assert.Equal(t, "-412999999-02-01T00:00:00Z", farMonth.String())
}
