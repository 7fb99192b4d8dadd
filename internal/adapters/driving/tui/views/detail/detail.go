// Package detail provides the candidate detail view for the TUI.
package detail

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/timerdiv/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/timerdiv/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/timerdiv/internal/core/domain"
)

// View shows one candidate and the register writes that realise it.
type View struct {
	styles *styles.Styles

	selection *messages.CandidateSelected
	width     int
	height    int
}

// NewView creates a new detail view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, width: 80, height: 24}
}

// SetCandidate sets the candidate to display.
func (v *View) SetCandidate(sel messages.CandidateSelected) {
	v.selection = &sel
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewCandidates}
			}
		}
	}
	return v, nil
}

// View renders the candidate.
func (v *View) View() string {
	if v.selection == nil {
		return v.styles.Muted.Render("No candidate selected.")
	}

	p := v.selection.Profile
	c := v.selection.Candidate

	var b strings.Builder
	b.WriteString(v.styles.Title.Render(p.Name))
	b.WriteString("\n\n")

	source := c.Source.String()
	if name := p.SourceName(c.Source); name != "" {
		source = name + " (" + source + ")"
	}
	v.field(&b, "Source", source)
	v.field(&b, "Prescaler", fmt.Sprint(c.Prescaler))
	v.field(&b, "Postscaler", fmt.Sprint(c.Postscaler))
	v.field(&b, "Count", fmt.Sprint(c.Count))
	v.field(&b, "Divisor", fmt.Sprint(c.Divisor()))
	v.field(&b, "Actual", fmt.Sprintf("%.10g Hz", float64(c.Actual)))
	v.field(&b, "Error", fmt.Sprintf("%.3e", c.RelativeError))

	b.WriteString("\n")
	load := c.Reload(v.selection.CountMax)
	b.WriteString(v.styles.Code.Render(strings.TrimSuffix(load.Defines(strings.ToUpper(p.Name)), "\n")))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[Esc] Back"))
	return b.String()
}

func (v *View) field(b *strings.Builder, label, value string) {
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%-12s", label)))
	b.WriteString(v.styles.Normal.Render(value))
	b.WriteString("\n")
}

// Candidate returns the candidate shown, or nil.
func (v *View) Candidate() *domain.Candidate {
	if v.selection == nil {
		return nil
	}
	return &v.selection.Candidate
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}
