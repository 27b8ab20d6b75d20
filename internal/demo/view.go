package demo

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

var (
	toolbarTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(highlight).Padding(0, 1)
	toolbarButtonStyle = lipgloss.NewStyle().Foreground(special).Padding(0, 1)
	statusStyle        = lipgloss.NewStyle().Foreground(subtle)
)

// View implements tea.Model. Row 0 is the toolbar and the desk starts
// right below it, so terminal mouse rows line up with desk coordinates.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderToolbar())
	b.WriteString("\n")
	for _, line := range m.renderDeskLines() {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return zone.Scan(b.String())
}

func (m Model) renderToolbar() string {
	buttons := []struct {
		id    string
		label string
	}{
		{"new", "[+ pane]"},
		{"float", "[float]"},
		{"save", "[save]"},
		{"load", "[load]"},
		{"png", "[png]"},
		{"quit", "[quit]"},
	}

	views := make([]string, 0, len(buttons)+1)
	views = append(views, toolbarTitleStyle.Render("undock"))
	for _, btn := range buttons {
		views = append(views, zone.Mark(m.zoneID+btn.id, toolbarButtonStyle.Render(btn.label)))
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Center, views...)
	return lipgloss.NewStyle().MaxWidth(m.width).Render(bar)
}

func (m Model) renderStatus() string {
	text := m.status
	if payload, ok := m.bridge.CurrentPayload(); ok {
		text = "dragging " + m.payloadTitle(payload)
	}
	if text == "" {
		text = "drag a pane title or a tab to rearrange; drag past the window edge to tear off"
	}
	return statusStyle.MaxWidth(m.width).Render(text)
}
