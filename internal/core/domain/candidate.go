package domain

import "fmt"

// Candidate is one admissible divisor chain found by the solver.
// It is a pure output record and is never mutated after emission.
type Candidate struct {
	Source     Freq `json:"source"`
	Prescaler  int  `json:"prescaler"`
	Postscaler int  `json:"postscaler"`
	Count      int  `json:"count"`

	// Actual is the frequency produced by this chain.
	Actual Freq `json:"actual"`

	// RelativeError is Actual/Target - 1.
	RelativeError float64 `json:"relative_error"`
}

// Divisor returns the total division ratio from source to output.
func (c Candidate) Divisor() int {
	return c.Prescaler * c.Postscaler * c.Count
}

// Reload returns the value to write into an up-counting register of the
// given exclusive maximum so that it overflows after Count ticks.
func (c Candidate) Reload(countMax int) RegisterLoad {
	v := uint32(countMax - c.Count)
	return RegisterLoad{
		Value: v,
		High:  uint8(v >> 8),
		Low:   uint8(v & 0xFF),
	}
}

// RegisterLoad is a reload value split into the byte writes a 16-bit
// timer expects.
type RegisterLoad struct {
	Value uint32 `json:"value"`
	High  uint8  `json:"high"`
	Low   uint8  `json:"low"`
}

// Defines renders the reload as C preprocessor definitions named
// prefix_REL, prefix_REL_H and prefix_REL_L.
func (r RegisterLoad) Defines(prefix string) string {
	return fmt.Sprintf("#define %s_REL 0x%04X\n", prefix, r.Value) +
		fmt.Sprintf("#define %s_REL_H 0x%02X\n", prefix, r.High) +
		fmt.Sprintf("#define %s_REL_L 0x%02X\n", prefix, r.Low)
}

// Verdict is the outcome of evaluating a single divisor triple.
type Verdict int

// Evaluation outcomes.
const (
	// VerdictAccepted means the triple is emitted as a candidate.
	VerdictAccepted Verdict = iota

	// VerdictZeroCount means the rounded count was zero.
	VerdictZeroCount

	// VerdictOutOfRange means the rounded count does not fit the register.
	VerdictOutOfRange

	// VerdictOutsideTolerance means the achieved error is too large.
	VerdictOutsideTolerance
)

// String returns a human-readable description of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictAccepted:
		return "accepted"
	case VerdictZeroCount:
		return "zero count"
	case VerdictOutOfRange:
		return "count out of range"
	case VerdictOutsideTolerance:
		return "outside tolerance"
	default:
		return unknownDescription
	}
}

// MarshalText encodes the verdict by name.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Evaluation records how one (source, prescaler, postscaler) triple fared.
// Actual and RelativeError are zero when the count was rejected before
// the achieved frequency could be computed.
type Evaluation struct {
	Candidate
	Verdict Verdict `json:"verdict"`
}

// Accepted reports whether the evaluation produced a candidate.
func (e Evaluation) Accepted() bool {
	return e.Verdict == VerdictAccepted
}
