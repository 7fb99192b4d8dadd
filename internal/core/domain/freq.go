package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Freq is a frequency in hertz.
type Freq float64

// Units of frequency.
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
)

// FreqFromPeriod returns the frequency of an event that repeats every
// period seconds. A non-positive period yields zero.
func FreqFromPeriod(seconds float64) Freq {
	if seconds <= 0 {
		return 0
	}
	return Freq(1 / seconds)
}

// Period returns the time between two consecutive events in seconds.
// Zero is returned for a non-positive frequency.
func (f Freq) Period() float64 {
	if f <= 0 {
		return 0
	}
	return 1 / float64(f)
}

// IsValid reports whether f is a finite, positive frequency.
func (f Freq) IsValid() bool {
	v := float64(f)
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// String formats the frequency with the largest unit that keeps the
// mantissa at or above one.
func (f Freq) String() string {
	switch {
	case f >= MHz:
		return fmt.Sprintf("%gMHz", float64(f/MHz))
	case f >= KHz:
		return fmt.Sprintf("%gkHz", float64(f/KHz))
	default:
		return fmt.Sprintf("%gHz", float64(f))
	}
}

// ParseFreq parses a frequency such as "8MHz", "31k", "500 kHz", "7000"
// or "1/60" (a fraction of a hertz). Units are case-insensitive and the
// trailing "Hz" is optional.
func ParseFreq(s string) (Freq, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	in = strings.TrimSuffix(in, "hz")
	in = strings.TrimSpace(in)

	unit := Hz
	switch {
	case strings.HasSuffix(in, "m"):
		unit, in = MHz, strings.TrimSuffix(in, "m")
	case strings.HasSuffix(in, "k"):
		unit, in = KHz, strings.TrimSuffix(in, "k")
	}
	in = strings.TrimSpace(in)

	var v float64
	if num, den, ok := strings.Cut(in, "/"); ok {
		n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, fmt.Errorf("%w: frequency %q", ErrInvalidInput, s)
		}
		v = n / d
	} else {
		f, err := strconv.ParseFloat(in, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: frequency %q", ErrInvalidInput, s)
		}
		v = f
	}

	f := Freq(v) * unit
	if !f.IsValid() {
		return 0, fmt.Errorf("%w: frequency %q", ErrInvalidInput, s)
	}
	return f, nil
}
