package domain

import (
	"fmt"
	"math"
	"strconv"
)

// SearchSpace is the immutable description of one solving run.
//
// The solver enumerates Sources x Prescalers x Postscalers in the order
// given. A timer without a postscaler stage uses the singleton {1} as its
// postscaler domain; there is no separate single-stage code path.
type SearchSpace struct {
	// Sources are the candidate clock source frequencies.
	Sources []Freq `json:"sources"`

	// Prescalers are the admissible prescaler divisors.
	Prescalers []int `json:"prescalers"`

	// Postscalers are the admissible postscaler divisors, {1} when the
	// hardware stage has none.
	Postscalers []int `json:"postscalers"`

	// CountMax is the exclusive upper bound of the count/reload register
	// (65536 for a 16-bit register).
	CountMax int `json:"count_max"`

	// Target is the desired output frequency.
	Target Freq `json:"target"`

	// Tolerance is the maximum admissible relative error.
	Tolerance float64 `json:"tolerance"`
}

// SingleStage reports whether the postscaler domain collapses to {1}.
func (s SearchSpace) SingleStage() bool {
	return len(s.Postscalers) == 1 && s.Postscalers[0] == 1
}

// Size returns the number of (source, prescaler, postscaler) triples.
func (s SearchSpace) Size() int {
	return len(s.Sources) * len(s.Prescalers) * len(s.Postscalers)
}

// WithTolerance returns a copy of the space with a different tolerance.
// The receiver's slices are shared, never modified.
func (s SearchSpace) WithTolerance(tolerance float64) SearchSpace {
	s.Tolerance = tolerance
	return s
}

// Validate checks that the space describes realisable hardware.
// All frequencies must be positive, every domain non-empty with values
// of at least one, and the tolerance non-negative.
func (s SearchSpace) Validate() error {
	if len(s.Sources) == 0 {
		return fmt.Errorf("%w: no clock sources", ErrInvalidParameter)
	}
	for _, f := range s.Sources {
		if !f.IsValid() {
			return fmt.Errorf("%w: source frequency %g", ErrInvalidParameter, float64(f))
		}
	}
	if err := validateDomain("prescaler", s.Prescalers); err != nil {
		return err
	}
	if err := validateDomain("postscaler", s.Postscalers); err != nil {
		return err
	}
	if s.CountMax < 2 {
		return fmt.Errorf("%w: count register max %d", ErrInvalidParameter, s.CountMax)
	}
	if !s.Target.IsValid() {
		return fmt.Errorf("%w: target frequency %g", ErrInvalidParameter, float64(s.Target))
	}
	if s.Tolerance < 0 || math.IsNaN(s.Tolerance) {
		return fmt.Errorf("%w: tolerance %g", ErrInvalidParameter, s.Tolerance)
	}
	return nil
}

func validateDomain(name string, values []int) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: empty %s domain", ErrInvalidParameter, name)
	}
	for _, v := range values {
		if v < 1 {
			return fmt.Errorf("%w: %s %d", ErrInvalidParameter, name, v)
		}
	}
	return nil
}

// PowersOfTwo returns 2^0 .. 2^(bits-1).
func PowersOfTwo(bits int) []int {
	if bits <= 0 {
		return nil
	}
	out := make([]int, bits)
	for b := range out {
		out[b] = 1 << b
	}
	return out
}

// Range returns lo .. hi inclusive.
func Range(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	out := make([]int, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		out = append(out, v)
	}
	return out
}

// MaxRegisterBits is the widest register whose bound fits in an int.
const MaxRegisterBits = strconv.IntSize - 2

// RegisterMax returns the exclusive upper bound of a register that is
// bits wide, or 0 when bits is outside 1..MaxRegisterBits.
func RegisterMax(bits int) int {
	if bits <= 0 || bits > MaxRegisterBits {
		return 0
	}
	return 1 << bits
}
