// Package candidates provides the solver result table for the TUI.
package candidates

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/timerdiv/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/timerdiv/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/timerdiv/internal/core/domain"
)

// View shows the admissible configurations of one profile.
type View struct {
	styles *styles.Styles
	table  table.Model

	profile    domain.TimerProfile
	space      domain.SearchSpace
	candidates []domain.Candidate
	runID      string
	err        error
	width      int
	height     int
}

// NewView creates a new candidates view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	t := table.New(
		table.WithColumns(columns(false)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(s.Table())

	return &View{
		styles: s,
		table:  t,
		width:  80,
		height: 24,
	}
}

func columns(singleStage bool) []table.Column {
	cols := []table.Column{
		{Title: "Source", Width: 12},
		{Title: "Hz", Width: 10},
		{Title: "Pre", Width: 5},
	}
	if !singleStage {
		cols = append(cols, table.Column{Title: "Post", Width: 5})
	}
	return append(cols,
		table.Column{Title: "Count", Width: 7},
		table.Column{Title: "Actual Hz", Width: 14},
		table.Column{Title: "Error", Width: 9},
	)
}

// SetRun replaces the table contents with the candidates of a run.
func (v *View) SetRun(profile domain.TimerProfile, run *domain.Run) {
	v.profile = profile
	v.err = nil
	v.space = run.Space
	v.candidates = run.Candidates
	v.runID = run.ID

	single := v.space.SingleStage()
	rows := make([]table.Row, len(v.candidates))
	for i, c := range v.candidates {
		row := table.Row{
			profile.SourceName(c.Source),
			strconv.FormatFloat(float64(c.Source), 'f', -1, 64),
			strconv.Itoa(c.Prescaler),
		}
		if !single {
			row = append(row, strconv.Itoa(c.Postscaler))
		}
		row = append(row,
			strconv.Itoa(c.Count),
			strconv.FormatFloat(float64(c.Actual), 'g', 10, 64),
			fmt.Sprintf("%.1e", c.RelativeError),
		)
		rows[i] = row
	}

	// Rows must match the column count while the columns change.
	v.table.SetRows(nil)
	v.table.SetColumns(columns(single))
	v.table.SetRows(rows)
	v.table.SetCursor(0)
}

// SetError records a failed solve.
func (v *View) SetError(profile domain.TimerProfile, err error) {
	v.profile = profile
	v.err = err
	v.candidates = nil
	v.table.SetRows(nil)
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the candidates view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewProfiles}
			}
		case "enter":
			c := v.SelectedCandidate()
			if c == nil {
				return v, nil
			}
			selected := messages.CandidateSelected{
				Profile:   v.profile,
				CountMax:  v.space.CountMax,
				Candidate: *c,
			}
			return v, func() tea.Msg { return selected }
		}
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

// View renders the candidate table.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(v.profile.Name))
	b.WriteString("  ")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("target %s, tolerance %g", v.space.Target, v.space.Tolerance)))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.candidates) == 0:
		b.WriteString(v.styles.Muted.Render("No admissible configuration."))
	default:
		b.WriteString(v.table.View())
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Reload values  [Esc] Back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	// Title, blank, help and status bar.
	h := height - 6
	if h < 3 {
		h = 3
	}
	v.table.SetHeight(h)
}

// Candidates returns the candidates shown.
func (v *View) Candidates() []domain.Candidate {
	return v.candidates
}

// RunID returns the journal ID of the run shown, if it was recorded.
func (v *View) RunID() string {
	return v.runID
}

// Err returns the solve error, if any.
func (v *View) Err() error {
	return v.err
}

// SelectedCandidate returns the highlighted candidate, or nil if none.
func (v *View) SelectedCandidate() *domain.Candidate {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.candidates) {
		return nil
	}
	return &v.candidates[i]
}
