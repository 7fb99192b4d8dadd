// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/timerdiv/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewProfiles lists the timer profiles.
	ViewProfiles ViewType = iota
	// ViewCandidates shows the admissible configurations of a profile.
	ViewCandidates
	// ViewDetail shows one candidate and its reload defines.
	ViewDetail
	// ViewDigits shows the seven-segment digit table.
	ViewDigits
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewProfiles:
		return "profiles"
	case ViewCandidates:
		return "candidates"
	case ViewDetail:
		return "detail"
	case ViewDigits:
		return "digits"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ProfilesLoaded carries the list of profiles from the service.
type ProfilesLoaded struct {
	Profiles []domain.TimerProfile
	Err      error
}

// SolveRequested asks the app to solve the named profile.
type SolveRequested struct {
	Profile domain.TimerProfile
}

// SolveCompleted carries the run of a solved profile.
type SolveCompleted struct {
	Profile domain.TimerProfile
	Run     *domain.Run
	Err     error
}

// CandidateSelected signals a candidate was picked for the detail view.
type CandidateSelected struct {
	Profile   domain.TimerProfile
	CountMax  int
	Candidate domain.Candidate
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
