package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/stubmock/internal/report"
	"github.com/unbound-force/stubmock/internal/taxonomy"
)

// keyMap defines keybindings for the interactive TUI.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
	Help     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Quit, k.Help},
	}
}

var defaultKeyMap = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("^/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("v/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// Styles for the TUI.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	tuiHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	tuiBorderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))
)

// maxMessage bounds the message column of the findings table.
const maxMessage = 50

// checkModel is the Bubble Tea model for browsing check results.
type checkModel struct {
	report   *taxonomy.Report
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	ready    bool
	content  string
}

func newCheckModel(r *taxonomy.Report) checkModel {
	return checkModel{
		report:  r,
		help:    help.New(),
		keys:    defaultKeyMap,
		content: renderCheckContent(r),
	}
}

func renderCheckContent(r *taxonomy.Report) string {
	var sb strings.Builder
	styles := report.DefaultStyles()

	files, findings := 0, 0
	if r != nil {
		files, findings = r.Summary.Files, r.Summary.Findings
	}
	sb.WriteString(titleStyle.Render(
		fmt.Sprintf("Stubmock: %d file(s), %d offense(s)", files, findings)))
	sb.WriteString("\n\n")
	if r == nil {
		return sb.String()
	}

	for _, f := range r.Files {
		sb.WriteString(tuiHeaderStyle.Render(fmt.Sprintf("=== %s ===", f.File)))
		sb.WriteString("\n")
		sb.WriteString(statusStyle.Render("    " + f.Input))
		sb.WriteString("\n")

		if len(f.Findings) == 0 {
			sb.WriteString(statusStyle.Render("    No offenses detected."))
			sb.WriteString("\n\n")
			continue
		}

		rows := make([][]string, 0, len(f.Findings))
		variants := make([]taxonomy.ReceiverVariant, 0, len(f.Findings))
		for _, fd := range f.Findings {
			msg := fd.Message
			if len(msg) > maxMessage {
				msg = msg[:maxMessage-3] + "..."
			}
			rows = append(rows, []string{
				fd.Span.Begin.String(),
				string(fd.Variant),
				string(fd.Response),
				msg,
			})
			variants = append(variants, fd.Variant)
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(tuiBorderStyle).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return tuiHeaderStyle
				}
				if col == 1 && row >= 0 && row < len(variants) {
					return styles.VariantStyle(variants[row])
				}
				return lipgloss.NewStyle()
			}).
			Headers("AT", "RECEIVER", "RESPONSE", "MESSAGE").
			Rows(rows...)

		sb.WriteString(t.String())
		sb.WriteString("\n\n")
	}

	return sb.String()
}

func (m checkModel) Init() tea.Cmd {
	return nil
}

func (m checkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		footerHeight := 2

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-footerHeight)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - footerHeight
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m checkModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	footer := statusStyle.Render(
		fmt.Sprintf(" %3.f%% ", m.viewport.ScrollPercent()*100)) +
		" " + m.help.View(m.keys)

	return m.viewport.View() + "\n" + footer
}

// runInteractiveCheck launches the Bubble Tea TUI for browsing check
// results.
func runInteractiveCheck(r *taxonomy.Report) error {
	model := newCheckModel(r)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
