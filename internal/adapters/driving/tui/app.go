package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/timerdiv/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/timerdiv/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/timerdiv/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/timerdiv/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/timerdiv/internal/adapters/driving/tui/views/candidates"
	"github.com/custodia-labs/timerdiv/internal/adapters/driving/tui/views/detail"
	"github.com/custodia-labs/timerdiv/internal/adapters/driving/tui/views/profiles"
	"github.com/custodia-labs/timerdiv/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusBar *status.Bar

	profilesView   *profiles.View
	candidatesView *candidates.View
	detailView     *detail.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		keymap:         km,
		statusBar:      status.NewBar(s, km),
		profilesView:   profiles.NewView(s, ports.Profile),
		candidatesView: candidates.NewView(s),
		detailView:     detail.NewView(s),
		currentView:    messages.ViewProfiles,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("timerdiv"),
		a.profilesView.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.handleKeyMsg(msg)

	case messages.ProfilesLoaded:
		a.profilesView, cmd = a.profilesView.Update(msg)
		if msg.Err != nil {
			a.setError(msg.Err)
		} else {
			a.statusBar.Clear()
			a.statusBar.SetMessage(fmt.Sprintf("%d profiles", len(msg.Profiles)))
		}
		return a, cmd

	case messages.SolveRequested:
		a.statusBar.SetState(status.StateSolving)
		return a, a.solve(msg.Profile)

	case messages.SolveCompleted:
		a.currentView = messages.ViewCandidates
		if msg.Err != nil {
			a.candidatesView.SetError(msg.Profile, msg.Err)
			a.setError(msg.Err)
			return a, nil
		}
		a.err = nil
		a.candidatesView.SetRun(msg.Profile, msg.Run)
		a.statusBar.SetState(status.StateCandidates)
		a.statusBar.SetCandidateCount(len(msg.Run.Candidates))
		return a, nil

	case messages.CandidateSelected:
		a.detailView.SetCandidate(msg)
		a.currentView = messages.ViewDetail
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewProfiles {
			a.statusBar.Clear()
			a.statusBar.SetMessage(fmt.Sprintf("%d profiles", len(a.profilesView.Profiles())))
		}
		return a, nil

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	if a.currentView == messages.ViewCandidates {
		a.candidatesView, cmd = a.candidatesView.Update(msg)
	}
	return a, cmd
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewProfiles:
		a.profilesView, cmd = a.profilesView.Update(msg)
	case messages.ViewCandidates:
		a.candidatesView, cmd = a.candidatesView.Update(msg)
	case messages.ViewDetail:
		a.detailView, cmd = a.detailView.Update(msg)
	case messages.ViewDigits, messages.ViewHelp:
		switch msg.String() {
		case "esc":
			return a.Update(messages.ViewChanged{View: messages.ViewProfiles})
		case "q":
			return a, tea.Quit
		}
	}
	return a, cmd
}

func (a *App) solve(profile domain.TimerProfile) tea.Cmd {
	ctx := a.ctx
	solver := a.ports.Solver
	return func() tea.Msg {
		run, err := solver.SolveProfile(ctx, profile.Name)
		return messages.SolveCompleted{Profile: profile, Run: run, Err: err}
	}
}

func (a *App) setError(err error) {
	a.err = err
	a.statusBar.SetState(status.StateError)
	a.statusBar.SetMessage(err.Error())
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewCandidates:
		body = a.candidatesView.View()
	case messages.ViewDetail:
		body = a.detailView.View()
	case messages.ViewDigits:
		body = a.viewDigits()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		body = a.profilesView.View()
	}
	return body + "\n" + a.statusBar.View()
}

func (a *App) viewDigits() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Seven-segment digits"))
	b.WriteString("\n\n")
	if a.ports.Display == nil {
		b.WriteString(a.styles.Muted.Render("Digit table not available."))
	} else {
		b.WriteString(a.styles.Code.Render(strings.TrimSuffix(a.ports.Display.Header(), "\n")))
	}
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[Esc] Back"))
	return b.String()
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back to profiles"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Candidates returns the candidates of the last solved profile.
func (a *App) Candidates() []domain.Candidate {
	return a.candidatesView.Candidates()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.statusBar.SetWidth(width)
	// One line for the status bar.
	a.profilesView.SetDimensions(width, height-1)
	a.candidatesView.SetDimensions(width, height-1)
	a.detailView.SetDimensions(width, height-1)
}
