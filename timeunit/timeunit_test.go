package timeunit

import (
	"math"
	"testing"
)

func TestNewAndAccessors(t *testing.T) {
	t.Parallel()
	u := New(960, 48000)
	if !u.IsValid() {
		t.Fatal("value should be valid")
	}
	if u.Ticks() != 960 || u.Rate() != 48000 {
		t.Errorf("ticks/rate = %d/%d, want 960/48000", u.Ticks(), u.Rate())
	}
	if got := u.ToMicros(); got != 20_000 {
		t.Errorf("ToMicros() = %d, want 20000", got)
	}
}

func TestZeroValueIsInvalid(t *testing.T) {
	t.Parallel()
	var u TimeUnit
	if u.IsValid() {
		t.Error("zero value should be invalid")
	}
	if !u.Add(Zero()).Equal(Invalid()) {
		t.Error("arithmetic on invalid should stay invalid")
	}
}

func TestNewPanicsOnBadRate(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("New with rate 0 should panic")
		}
	}()
	New(1, 0)
}

func TestAddSubSameRate(t *testing.T) {
	t.Parallel()
	a := FromMicros(10_000)
	b := FromMicros(5_000)
	if got := a.Add(b).ToMicros(); got != 15_000 {
		t.Errorf("Add = %d, want 15000", got)
	}
	if got := a.Sub(b).ToMicros(); got != 5_000 {
		t.Errorf("Sub = %d, want 5000", got)
	}
	if got := b.Sub(a).ToMicros(); got != -5_000 {
		t.Errorf("Sub = %d, want -5000", got)
	}
}

func TestAddRescalesToLeftRate(t *testing.T) {
	t.Parallel()
	// 240 frames at 48kHz is 5ms.
	frames := New(240, 48000)
	us := FromMicros(5_000)
	sum := us.Add(frames)
	if got := sum.ToMicros(); got != 10_000 {
		t.Errorf("Add across rates = %dus, want 10000us", got)
	}
	if sum.Rate() != MicrosPerSecond {
		t.Errorf("result rate = %d, want left-hand rate", sum.Rate())
	}
}

func TestOverflowProducesInvalid(t *testing.T) {
	t.Parallel()
	huge := New(math.MaxInt64, 1)
	if got := huge.Add(New(1, 1)); got.IsValid() {
		t.Error("overflowing add should be invalid")
	}
	if got := New(math.MinInt64, 1).Sub(New(1, 1)); got.IsValid() {
		t.Error("overflowing sub should be invalid")
	}
	// Rescaling MaxInt64 ticks to a larger rate overflows the product.
	if got := FromMicros(1).Add(huge); got.IsValid() {
		t.Error("overflowing rescale should be invalid")
	}
}

func TestCompareAcrossRates(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		a, b TimeUnit
		want int
	}{
		{"equal same rate", FromMicros(100), FromMicros(100), 0},
		{"equal across rates", New(48, 48000), FromMicros(1_000), 0},
		{"before", FromMicros(99), FromMicros(100), -1},
		{"after", New(49, 48000), FromMicros(1_000), 1},
		{"negative vs positive", FromMicros(-1), FromMicros(1), -1},
		{"huge ticks exact", New(math.MaxInt64, 1_000_000), New(math.MaxInt64, 1_000_000), 0},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.a.Compare(tc.b); got != tc.want {
				t.Errorf("Compare = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestToTicksAtRateFloors(t *testing.T) {
	t.Parallel()
	// 10.5ms at 1kHz is 10.5 ticks, floored to 10.
	u := FromMicros(10_500)
	if got := u.ToTicksAtRate(1000); got != 10 {
		t.Errorf("ToTicksAtRate = %d, want 10", got)
	}
	// Negative values floor toward negative infinity.
	if got := FromMicros(-10_500).ToTicksAtRate(1000); got != -11 {
		t.Errorf("ToTicksAtRate = %d, want -11", got)
	}
}

func TestIsBase(t *testing.T) {
	t.Parallel()
	// 10ms is exactly 480 frames at 48kHz.
	if !FromMicros(10_000).IsBase(48000) {
		t.Error("10ms should lie on a 48kHz boundary")
	}
	// 10.01ms is 480.48 frames.
	if FromMicros(10_010).IsBase(48000) {
		t.Error("10.01ms should not lie on a 48kHz boundary")
	}
	if Invalid().IsBase(48000) {
		t.Error("invalid value is never on a boundary")
	}
}

func TestInterval(t *testing.T) {
	t.Parallel()
	iv := Interval{Start: FromMicros(10_000), End: FromMicros(15_000)}
	if got := iv.Length().ToMicros(); got != 5_000 {
		t.Errorf("Length = %dus, want 5000us", got)
	}
	shifted := iv.Sub(FromMicros(4_000))
	if got := shifted.Start.ToMicros(); got != 6_000 {
		t.Errorf("shifted start = %dus, want 6000us", got)
	}
	if got := shifted.End.ToMicros(); got != 11_000 {
		t.Errorf("shifted end = %dus, want 11000us", got)
	}
}

func TestStrings(t *testing.T) {
	t.Parallel()
	if got := Invalid().String(); got != "invalid" {
		t.Errorf("Invalid().String() = %q", got)
	}
	if got := New(480, 48000).String(); got != "480/48000 (0.010000s)" {
		t.Errorf("String() = %q", got)
	}
}
