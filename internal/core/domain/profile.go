package domain

// ClockSource is a named oscillator feeding a timer.
type ClockSource struct {
	Name      string `json:"name" toml:"name"`
	Frequency Freq   `json:"hz" toml:"hz"`
}

// TimerProfile is a named hardware timer channel: the clock sources it can
// select, its divisor domains, its register width and what it should hit.
type TimerProfile struct {
	// Name identifies the profile (e.g., "tmr0").
	Name string

	// Description explains what the timer is used for.
	Description string

	// Sources are the selectable clocks, in output order.
	Sources []ClockSource

	// Prescalers are the admissible prescaler divisors.
	Prescalers []int

	// Postscalers are the admissible postscaler divisors.
	// Empty means the timer has no postscaler stage.
	Postscalers []int

	// CountMax is the exclusive upper bound of the count register.
	CountMax int

	// Target is the desired output frequency.
	Target Freq

	// Tolerance is the maximum admissible relative error.
	Tolerance float64

	// Builtin marks profiles compiled into the binary.
	Builtin bool
}

// SearchSpace projects the profile onto the solver's input.
func (p *TimerProfile) SearchSpace() SearchSpace {
	sources := make([]Freq, len(p.Sources))
	for i, s := range p.Sources {
		sources[i] = s.Frequency
	}
	post := p.Postscalers
	if len(post) == 0 {
		post = []int{1}
	}
	return SearchSpace{
		Sources:     sources,
		Prescalers:  append([]int(nil), p.Prescalers...),
		Postscalers: append([]int(nil), post...),
		CountMax:    p.CountMax,
		Target:      p.Target,
		Tolerance:   p.Tolerance,
	}
}

// SourceName returns the name of the first source running at f,
// or an empty string when none does.
func (p *TimerProfile) SourceName(f Freq) string {
	for _, s := range p.Sources {
		if s.Frequency == f {
			return s.Name
		}
	}
	return ""
}

// Validate checks that the profile is named and describes valid hardware.
func (p *TimerProfile) Validate() error {
	if p.Name == "" {
		return ErrInvalidInput
	}
	return p.SearchSpace().Validate()
}

// Oscillators of the PIC16LF15323 used by the built-in profiles.
var (
	srcLFINTOSC  = ClockSource{Name: "LFINTOSC", Frequency: 31 * KHz}
	srcMFINT32K  = ClockSource{Name: "MFINTOSC/16", Frequency: 32 * KHz}
	srcMFINTOSC  = ClockSource{Name: "MFINTOSC", Frequency: 500 * KHz}
	srcFOSCQuart = ClockSource{Name: "FOSC/4", Frequency: 8 * MHz / 4}
	srcFOSC      = ClockSource{Name: "FOSC", Frequency: 8 * MHz}
)

// BuiltinProfiles returns the timer channels of the clock firmware:
// tmr0 ticks once a minute, tmr1 strobes the display.
// A fresh copy is returned on every call.
func BuiltinProfiles() []TimerProfile {
	return []TimerProfile{
		{
			Name:        "tmr0",
			Description: "Clock minute tick (16-bit, prescaler and postscaler)",
			Sources:     []ClockSource{srcLFINTOSC, srcMFINTOSC, srcFOSCQuart, srcFOSC},
			Prescalers:  PowersOfTwo(16),
			Postscalers: Range(1, 16),
			CountMax:    RegisterMax(16),
			Target:      FreqFromPeriod(60),
			Tolerance:   1e-8,
			Builtin:     true,
		},
		{
			Name:        "tmr1",
			Description: "Display strobe, 500Hz x 14 pulses (16-bit, prescaler only)",
			Sources:     []ClockSource{srcLFINTOSC, srcMFINT32K, srcMFINTOSC, srcFOSCQuart, srcFOSC},
			Prescalers:  PowersOfTwo(4),
			CountMax:    RegisterMax(16),
			Target:      500 * 14 * Hz,
			Tolerance:   0.2,
			Builtin:     true,
		},
	}
}
