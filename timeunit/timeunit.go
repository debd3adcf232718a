// Package timeunit implements overflow-checked rational time values for
// media timestamps, durations, and trim windows. A TimeUnit is a tick count
// at a known rate; every arithmetic operation is checked and produces an
// invalid sentinel on overflow rather than wrapping silently.
package timeunit

import (
	"fmt"
	"math"
	"math/bits"
)

// MicrosPerSecond is the default tick rate for wall-clock style values.
const MicrosPerSecond = 1_000_000

// TimeUnit is a point in time or a duration expressed as an integer number
// of ticks at a rate (ticks per second). The zero value is invalid; use New,
// Zero, FromMicros, or FromFrames to construct valid values.
type TimeUnit struct {
	ticks int64
	rate  int64
	valid bool
}

// New returns a TimeUnit of ticks at the given rate. It panics if rate is
// not positive, which indicates a bug in the caller.
func New(ticks, rate int64) TimeUnit {
	if rate <= 0 {
		panic("timeunit: rate must be positive")
	}
	return TimeUnit{ticks: ticks, rate: rate, valid: true}
}

// Zero returns the zero time at the microsecond rate.
func Zero() TimeUnit {
	return TimeUnit{ticks: 0, rate: MicrosPerSecond, valid: true}
}

// Invalid returns the invalid sentinel produced by overflowing arithmetic.
func Invalid() TimeUnit {
	return TimeUnit{}
}

// FromMicros returns a TimeUnit of us microseconds.
func FromMicros(us int64) TimeUnit {
	return New(us, MicrosPerSecond)
}

// FromFrames returns the duration of frames audio frames at the given
// sample rate.
func FromFrames(frames int64, rate int64) TimeUnit {
	return New(frames, rate)
}

// IsValid reports whether the value is usable. Invalid values propagate
// through arithmetic.
func (t TimeUnit) IsValid() bool { return t.valid }

// IsZero reports whether the value is a valid zero time.
func (t TimeUnit) IsZero() bool { return t.valid && t.ticks == 0 }

// IsNegative reports whether the value is a valid negative time.
func (t TimeUnit) IsNegative() bool { return t.valid && t.ticks < 0 }

// Ticks returns the raw tick count.
func (t TimeUnit) Ticks() int64 { return t.ticks }

// Rate returns the tick rate in ticks per second.
func (t TimeUnit) Rate() int64 { return t.rate }

// Add returns t+other, rescaling other to t's rate. Overflow at any step
// yields the invalid sentinel.
func (t TimeUnit) Add(other TimeUnit) TimeUnit {
	if !t.valid || !other.valid {
		return Invalid()
	}
	o, ok := rescale(other.ticks, other.rate, t.rate)
	if !ok {
		return Invalid()
	}
	sum, ok := checkedAdd(t.ticks, o)
	if !ok {
		return Invalid()
	}
	return TimeUnit{ticks: sum, rate: t.rate, valid: true}
}

// Sub returns t-other, rescaling other to t's rate. Overflow at any step
// yields the invalid sentinel.
func (t TimeUnit) Sub(other TimeUnit) TimeUnit {
	if !t.valid || !other.valid {
		return Invalid()
	}
	o, ok := rescale(other.ticks, other.rate, t.rate)
	if !ok {
		return Invalid()
	}
	diff, ok := checkedSub(t.ticks, o)
	if !ok {
		return Invalid()
	}
	return TimeUnit{ticks: diff, rate: t.rate, valid: true}
}

// Compare returns -1, 0, or +1 as t is before, equal to, or after other.
// The comparison is exact: cross products are evaluated in 128 bits so no
// rate combination can overflow. Comparing invalid values panics.
func (t TimeUnit) Compare(other TimeUnit) int {
	if !t.valid || !other.valid {
		panic("timeunit: comparing invalid TimeUnit")
	}
	// t.ticks/t.rate vs other.ticks/other.rate
	// <=> t.ticks*other.rate vs other.ticks*t.rate (rates are positive).
	return cmp128(t.ticks, other.rate, other.ticks, t.rate)
}

// Before reports whether t is strictly earlier than other.
func (t TimeUnit) Before(other TimeUnit) bool { return t.Compare(other) < 0 }

// After reports whether t is strictly later than other.
func (t TimeUnit) After(other TimeUnit) bool { return t.Compare(other) > 0 }

// Equal reports whether t and other denote the same instant, regardless of
// rate. Two invalid values compare equal.
func (t TimeUnit) Equal(other TimeUnit) bool {
	if !t.valid || !other.valid {
		return t.valid == other.valid
	}
	return t.Compare(other) == 0
}

// ToTicksAtRate converts the value to a tick count at the given rate,
// flooring any fractional remainder. It panics if rate is not positive and
// returns 0 for invalid values.
func (t TimeUnit) ToTicksAtRate(rate int64) int64 {
	if rate <= 0 {
		panic("timeunit: rate must be positive")
	}
	if !t.valid {
		return 0
	}
	scaled, ok := rescale(t.ticks, t.rate, rate)
	if !ok {
		// Saturate rather than wrap; callers validate magnitude separately.
		if t.ticks < 0 {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return scaled
}

// IsBase reports whether the value is an integral number of ticks at the
// given rate, i.e. whether it lies exactly on a rate boundary. Used to
// distinguish container rounding slack from genuine timing bugs.
func (t TimeUnit) IsBase(rate int64) bool {
	if rate <= 0 {
		panic("timeunit: rate must be positive")
	}
	if !t.valid {
		return false
	}
	if t.rate == rate {
		return true
	}
	prod, ok := checkedMul(t.ticks, rate)
	if !ok {
		return false
	}
	return prod%t.rate == 0
}

// ToMicros converts the value to microseconds, flooring.
func (t TimeUnit) ToMicros() int64 {
	return t.ToTicksAtRate(MicrosPerSecond)
}

// Seconds returns the value as a float for display and rough math only.
func (t TimeUnit) Seconds() float64 {
	if !t.valid {
		return math.NaN()
	}
	return float64(t.ticks) / float64(t.rate)
}

func (t TimeUnit) String() string {
	if !t.valid {
		return "invalid"
	}
	return fmt.Sprintf("%d/%d (%.6fs)", t.ticks, t.rate, t.Seconds())
}

// Interval is a half-open-agnostic time span [Start, End] used for trim
// windows and original presentation windows.
type Interval struct {
	Start TimeUnit
	End   TimeUnit
}

// Length returns End-Start.
func (iv Interval) Length() TimeUnit {
	return iv.End.Sub(iv.Start)
}

// IsValid reports whether both endpoints are valid.
func (iv Interval) IsValid() bool {
	return iv.Start.IsValid() && iv.End.IsValid()
}

// Sub shifts both endpoints earlier by d.
func (iv Interval) Sub(d TimeUnit) Interval {
	return Interval{Start: iv.Start.Sub(d), End: iv.End.Sub(d)}
}

// Equal reports whether both endpoints match.
func (iv Interval) Equal(other Interval) bool {
	return iv.Start.Equal(other.Start) && iv.End.Equal(other.End)
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%s, %s]", iv.Start, iv.End)
}

func checkedAdd(a, b int64) (int64, bool) {
	sum := a + b
	if (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum >= 0) {
		return 0, false
	}
	return sum, true
}

func checkedSub(a, b int64) (int64, bool) {
	if b == math.MinInt64 {
		if a < 0 {
			return a - b, true
		}
		return 0, false
	}
	return checkedAdd(a, -b)
}

func checkedMul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	prod := a * b
	if prod/b != a {
		return 0, false
	}
	return prod, true
}

// rescale converts ticks at fromRate into toRate, flooring. Returns false
// if the intermediate product overflows 64 bits.
func rescale(ticks, fromRate, toRate int64) (int64, bool) {
	if fromRate == toRate {
		return ticks, true
	}
	prod, ok := checkedMul(ticks, toRate)
	if !ok {
		return 0, false
	}
	q := prod / fromRate
	if prod%fromRate != 0 && (prod < 0) != (fromRate < 0) {
		q-- // floor toward negative infinity
	}
	return q, true
}

// cmp128 compares a*b against c*d without overflow using 128-bit products.
// b and d must be positive (they are rates).
func cmp128(a, b, c, d int64) int {
	ahi, alo, aneg := mul64(a, b)
	chi, clo, cneg := mul64(c, d)
	if aneg != cneg {
		// Opposite signs; a zero product is never flagged negative.
		if aneg {
			return -1
		}
		return 1
	}
	cmp := 0
	if ahi != chi {
		if ahi > chi {
			cmp = 1
		} else {
			cmp = -1
		}
	} else if alo != clo {
		if alo > clo {
			cmp = 1
		} else {
			cmp = -1
		}
	}
	if aneg {
		return -cmp
	}
	return cmp
}

// mul64 returns |a*b| as a 128-bit value plus the sign of the product.
// A zero product reports non-negative.
func mul64(a, b int64) (hi, lo uint64, negative bool) {
	negative = (a < 0) != (b < 0) && a != 0 && b != 0
	ua := uint64(a)
	if a < 0 {
		ua = -ua
	}
	ub := uint64(b)
	if b < 0 {
		ub = -ub
	}
	hi, lo = bits.Mul64(ua, ub)
	return hi, lo, negative
}
