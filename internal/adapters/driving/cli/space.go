package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/timerdiv/internal/core/domain"
)

// adHocName names profiles assembled from command-line flags.
const adHocName = "ad-hoc"

// spaceFlags describe a timer on the command line.
type spaceFlags struct {
	sources       []string
	prescalers    []int
	prescalerBits int
	postscalers   []int
	postscalerMax int
	countBits     int
	countMax      int
	target        string
	period        float64
	tolerance     float64
}

// hardwareFlags are the flags that define a timer; --tolerance is not among
// them because it may also adjust a named profile.
var hardwareFlags = []string{
	"source", "prescalers", "prescaler-bits", "postscalers", "postscaler-max",
	"count-bits", "count-max", "target", "period",
}

func (f *spaceFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringSliceVarP(&f.sources, "source", "s", nil,
		"clock source as FREQ or NAME=FREQ, e.g. FOSC=8MHz (repeatable)")
	fl.IntSliceVar(&f.prescalers, "prescalers", nil, "prescaler divisors, e.g. 1,8,64")
	fl.IntVar(&f.prescalerBits, "prescaler-bits", 0, "use prescalers 2^0 .. 2^(n-1)")
	fl.IntSliceVar(&f.postscalers, "postscalers", nil, "postscaler divisors (default none)")
	fl.IntVar(&f.postscalerMax, "postscaler-max", 0, "use postscalers 1 .. n")
	fl.IntVar(&f.countBits, "count-bits", 16, "width of the count register")
	fl.IntVar(&f.countMax, "count-max", 0, "exclusive upper bound of the count register (overrides --count-bits)")
	fl.StringVarP(&f.target, "target", "t", "", "target frequency, e.g. 7kHz or 1/60")
	fl.Float64Var(&f.period, "period", 0, "target period in seconds (alternative to --target)")
	fl.Float64Var(&f.tolerance, "tolerance", domain.DefaultTolerance,
		"maximum relative error (default for ad-hoc searches: setting solver.tolerance)")
}

// adHoc reports whether any hardware flag was given.
func (f *spaceFlags) adHoc(cmd *cobra.Command) bool {
	for _, name := range hardwareFlags {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// profile assembles a validated profile from the flags.
func (f *spaceFlags) profile(name string) (domain.TimerProfile, error) {
	p := domain.TimerProfile{
		Name:        name,
		Prescalers:  f.prescalers,
		Postscalers: f.postscalers,
		CountMax:    f.countMax,
		Tolerance:   f.tolerance,
	}

	for i, s := range f.sources {
		src, err := parseSource(s, i)
		if err != nil {
			return p, err
		}
		p.Sources = append(p.Sources, src)
	}

	switch {
	case f.target != "":
		target, err := domain.ParseFreq(f.target)
		if err != nil {
			return p, fmt.Errorf("--target: %w", err)
		}
		p.Target = target
	case f.period > 0:
		p.Target = domain.FreqFromPeriod(f.period)
	default:
		return p, fmt.Errorf("--target or --period is required: %w", domain.ErrInvalidInput)
	}

	if len(p.Prescalers) == 0 && f.prescalerBits > 0 {
		p.Prescalers = domain.PowersOfTwo(f.prescalerBits)
	}
	if len(p.Prescalers) == 0 {
		p.Prescalers = []int{1}
	}
	if len(p.Postscalers) == 0 && f.postscalerMax > 0 {
		p.Postscalers = domain.Range(1, f.postscalerMax)
	}
	if p.CountMax == 0 {
		countMax, err := f.registerMax()
		if err != nil {
			return p, err
		}
		p.CountMax = countMax
	}

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// registerMax is the bound given by --count-bits.
func (f *spaceFlags) registerMax() (int, error) {
	countMax := domain.RegisterMax(f.countBits)
	if countMax == 0 {
		return 0, fmt.Errorf("--count-bits must be between 1 and %d: %w", domain.MaxRegisterBits, domain.ErrInvalidInput)
	}
	return countMax, nil
}

// parseSource parses FREQ or NAME=FREQ. Unnamed sources are numbered.
func parseSource(s string, index int) (domain.ClockSource, error) {
	name, freq, named := strings.Cut(s, "=")
	if !named {
		freq = name
		name = fmt.Sprintf("src%d", index)
	}
	f, err := domain.ParseFreq(freq)
	if err != nil {
		return domain.ClockSource{}, fmt.Errorf("--source: %w", err)
	}
	return domain.ClockSource{Name: strings.TrimSpace(name), Frequency: f}, nil
}

var errProfileWithTimerFlags = errors.New("a profile name cannot be combined with timer flags other than --tolerance")

// resolveProfile returns the timer a command operates on: the named
// profile, or one assembled from flags. --tolerance adjusts either.
func resolveProfile(ctx context.Context, cmd *cobra.Command, f *spaceFlags, args []string) (*domain.TimerProfile, error) {
	if len(args) == 0 {
		if !f.adHoc(cmd) {
			return nil, errors.New("specify a profile name or --source and --target (see 'timerdiv profiles list')")
		}
		p, err := f.profile(adHocName)
		if err != nil {
			return nil, err
		}
		if !cmd.Flags().Changed("tolerance") && settingsService != nil {
			settings, err := settingsService.Get()
			if err != nil {
				return nil, fmt.Errorf("failed to get settings: %w", err)
			}
			p.Tolerance = settings.Solver.Tolerance
		}
		return &p, nil
	}

	if f.adHoc(cmd) {
		return nil, errProfileWithTimerFlags
	}
	if profileService == nil {
		return nil, errors.New("profile service not configured")
	}
	p, err := profileService.Get(ctx, args[0])
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", args[0], err)
	}
	if cmd.Flags().Changed("tolerance") {
		p.Tolerance = f.tolerance
	}
	return p, nil
}
