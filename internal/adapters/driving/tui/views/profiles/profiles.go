// Package profiles provides the timer profile list view for the TUI.
package profiles

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/timerdiv/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/timerdiv/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/timerdiv/internal/core/domain"
	"github.com/custodia-labs/timerdiv/internal/core/ports/driving"
)

// View lists the built-in and user timer profiles.
type View struct {
	styles         *styles.Styles
	profileService driving.ProfileService

	profiles []domain.TimerProfile
	selected int
	loading  bool
	err      error
	width    int
	height   int
	ready    bool
}

// NewView creates a new profiles view.
func NewView(s *styles.Styles, profileService driving.ProfileService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:         s,
		profileService: profileService,
		width:          80,
		height:         24,
	}
}

// Init loads the profile list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadProfiles()
}

func (v *View) loadProfiles() tea.Cmd {
	return func() tea.Msg {
		if v.profileService == nil {
			return messages.ProfilesLoaded{Err: fmt.Errorf("profile service not available")}
		}
		profiles, err := v.profileService.List(context.Background())
		return messages.ProfilesLoaded{Profiles: profiles, Err: err}
	}
}

// Update handles messages for the profiles view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ProfilesLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.profiles = msg.Profiles
			if v.selected >= len(v.profiles) {
				v.selected = 0
			}
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.profiles)-1 {
			v.selected++
		}
	case "enter":
		if p := v.SelectedProfile(); p != nil {
			profile := *p
			return v, func() tea.Msg {
				return messages.SolveRequested{Profile: profile}
			}
		}
	case "r":
		v.loading = true
		return v, v.loadProfiles()
	case "d":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDigits}
		}
	case "?":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewHelp}
		}
	case "q":
		return v, tea.Quit
	}
	return v, nil
}

// View renders the profile list.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("timerdiv"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Timer divider solver"))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.loading && len(v.profiles) == 0:
		b.WriteString(v.styles.Muted.Render("Loading profiles..."))
		b.WriteString("\n")
	case len(v.profiles) == 0:
		b.WriteString(v.styles.Muted.Render("No timer profiles."))
		b.WriteString("\n")
	}

	for i := range v.profiles {
		b.WriteString(v.renderProfile(i, &v.profiles[i]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Solve  [r] Refresh  [d] Digits  [?] Help  [q] Quit"))
	return b.String()
}

func (v *View) renderProfile(index int, p *domain.TimerProfile) string {
	cursor := "  "
	name := v.styles.Normal.Render(fmt.Sprintf("%-8s", p.Name))
	if index == v.selected {
		cursor = "> "
		name = v.styles.Selected.Render(fmt.Sprintf("%-8s", p.Name))
	}

	origin := "user"
	if p.Builtin {
		origin = "builtin"
	}
	summary := fmt.Sprintf("%-10s %5d triples  %s", p.Target, p.SearchSpace().Size(), origin)

	line := cursor + name + " " + v.styles.Muted.Render(summary)
	if p.Description != "" {
		line += "\n    " + v.styles.Muted.Render(truncate(p.Description, v.width-6))
	}
	return line
}

func truncate(s string, n int) string {
	if n < 10 {
		n = 10
	}
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Profiles returns the loaded profiles.
func (v *View) Profiles() []domain.TimerProfile {
	return v.profiles
}

// SelectedProfile returns the highlighted profile, or nil if none.
func (v *View) SelectedProfile() *domain.TimerProfile {
	if v.selected < 0 || v.selected >= len(v.profiles) {
		return nil
	}
	return &v.profiles[v.selected]
}
