package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/timerdiv/internal/core/domain"
	"github.com/custodia-labs/timerdiv/internal/core/ports/driven"
)

// Ensure ProfileStore implements the interface.
var _ driven.ProfileStore = (*ProfileStore)(nil)

// ProfileStore keeps user timer profiles in a hand-editable TOML file:
//
//	[[timer]]
//	name = "pwm"
//	target_hz = 1000.0
//	tolerance = 0.005
//	prescaler_bits = 11
//	count_bits = 8
//
//	[[timer.source]]
//	name = "FOSC"
//	hz = 16e6
//
// A timer without a tolerance gets domain.DefaultTolerance. Entries are
// not validated here; the profile service rejects unsolvable ones.
//
// The file is re-read on every call so edits made while the program runs
// are picked up.
type ProfileStore struct {
	mu       sync.Mutex
	filePath string
}

// profilesFile is the on-disk document.
type profilesFile struct {
	Timers []timerEntry `toml:"timer"`
}

// timerEntry is one [[timer]] table. Divisor domains and the register bound
// may be given explicitly or by width; explicit values win.
type timerEntry struct {
	Name          string               `toml:"name"`
	Description   string               `toml:"description,omitempty"`
	TargetHz      float64              `toml:"target_hz,omitempty"`
	TargetPeriod  float64              `toml:"target_period_s,omitempty"`
	Tolerance     *float64             `toml:"tolerance,omitempty"`
	Prescalers    []int                `toml:"prescalers,omitempty"`
	PrescalerBits int                  `toml:"prescaler_bits,omitempty"`
	Postscalers   []int                `toml:"postscalers,omitempty"`
	PostscalerMax int                  `toml:"postscaler_max,omitempty"`
	CountMax      int                  `toml:"count_max,omitempty"`
	CountBits     int                  `toml:"count_bits,omitempty"`
	Sources       []domain.ClockSource `toml:"source"`
}

// NewProfileStore creates a profile store backed by path.
// If path is empty, profiles.toml in DefaultDir is used.
func NewProfileStore(path string) (*ProfileStore, error) {
	if path == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "profiles.toml")
	}
	return &ProfileStore{filePath: path}, nil
}

// Path returns the profiles file path.
func (s *ProfileStore) Path() string {
	return s.filePath
}

// Save stores or replaces a profile by name.
func (s *ProfileStore) Save(_ context.Context, profile domain.TimerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}

	entry := entryFromProfile(profile)
	replaced := false
	for i := range doc.Timers {
		if doc.Timers[i].Name == profile.Name {
			doc.Timers[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Timers = append(doc.Timers, entry)
	}
	return s.write(doc)
}

// Get retrieves a profile by name.
func (s *ProfileStore) Get(_ context.Context, name string) (*domain.TimerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	for _, e := range doc.Timers {
		if e.Name == name {
			p := e.profile()
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Delete removes a profile.
func (s *ProfileStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	for i, e := range doc.Timers {
		if e.Name == name {
			doc.Timers = append(doc.Timers[:i], doc.Timers[i+1:]...)
			return s.write(doc)
		}
	}
	return domain.ErrNotFound
}

// List returns all profiles in file order.
func (s *ProfileStore) List(_ context.Context) ([]domain.TimerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	profiles := make([]domain.TimerProfile, 0, len(doc.Timers))
	for _, e := range doc.Timers {
		profiles = append(profiles, e.profile())
	}
	return profiles, nil
}

// read loads the document (caller must hold lock). A missing file is empty.
func (s *ProfileStore) read() (*profilesFile, error) {
	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return &profilesFile{}, nil
	}
	if err != nil {
		return nil, err
	}

	var doc profilesFile
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.filePath, err)
	}
	for _, e := range doc.Timers {
		if e.Name == "" {
			return nil, fmt.Errorf("parse %s: timer without name: %w", s.filePath, domain.ErrInvalidInput)
		}
	}
	return &doc, nil
}

// write persists the document (caller must hold lock).
func (s *ProfileStore) write(doc *profilesFile) error {
	data, err := toml.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0700); err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0600)
}

func (e timerEntry) profile() domain.TimerProfile {
	p := domain.TimerProfile{
		Name:        e.Name,
		Description: e.Description,
		Sources:     e.Sources,
		Prescalers:  e.Prescalers,
		Postscalers: e.Postscalers,
		CountMax:    e.CountMax,
		Target:      domain.Freq(e.TargetHz),
		Tolerance:   domain.DefaultTolerance,
	}
	if e.Tolerance != nil {
		p.Tolerance = *e.Tolerance
	}
	if p.Target == 0 && e.TargetPeriod > 0 {
		p.Target = domain.FreqFromPeriod(e.TargetPeriod)
	}
	if len(p.Prescalers) == 0 && e.PrescalerBits > 0 {
		p.Prescalers = domain.PowersOfTwo(e.PrescalerBits)
	}
	if len(p.Postscalers) == 0 && e.PostscalerMax > 0 {
		p.Postscalers = domain.Range(1, e.PostscalerMax)
	}
	if p.CountMax == 0 && e.CountBits > 0 {
		p.CountMax = domain.RegisterMax(e.CountBits)
	}
	return p
}

func entryFromProfile(p domain.TimerProfile) timerEntry {
	return timerEntry{
		Name:        p.Name,
		Description: p.Description,
		TargetHz:    float64(p.Target),
		Tolerance:   &p.Tolerance,
		Prescalers:  p.Prescalers,
		Postscalers: p.Postscalers,
		CountMax:    p.CountMax,
		Sources:     p.Sources,
	}
}
