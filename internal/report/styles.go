package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/unbound-force/stubmock/internal/taxonomy"
)

// Styles defines the visual theme for terminal report output.
// Lipgloss automatically degrades to no-color when output is not a TTY.
type Styles struct {
	// Header is used for per-file headers (e.g. "=== spec/a_spec.rb ===").
	Header lipgloss.Style

	// SubHeader is used for secondary information lines.
	SubHeader lipgloss.Style

	// Location styles the "line:col" of a finding.
	Location lipgloss.Style

	// Rule styles the rule name of a finding.
	Rule lipgloss.Style

	// Message wraps finding messages so they fit in 80 columns.
	Message lipgloss.Style

	// Caret styles the underline below an excerpt.
	Caret lipgloss.Style

	// Expect through ExpectAnyInstance color-code receiver variants.
	Expect            lipgloss.Style
	IsExpected        lipgloss.Style
	AreExpected       lipgloss.Style
	ExpectAnyInstance lipgloss.Style

	// TableHeader styles the header row of tables.
	TableHeader lipgloss.Style

	// TableCell styles regular table cells.
	TableCell lipgloss.Style

	// Pass styles the clean-run summary.
	Pass lipgloss.Style

	// Fail styles the summary when offenses were found.
	Fail lipgloss.Style

	// Border is used for table borders.
	Border lipgloss.Style

	// Muted is used for de-emphasized text.
	Muted lipgloss.Style
}

// DefaultStyles returns the default color scheme for terminal reports.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		SubHeader: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		Location: lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		Rule:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		Message:  lipgloss.NewStyle().Width(76).PaddingLeft(4),
		Caret:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

		Expect:            lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		IsExpected:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		AreExpected:       lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		ExpectAnyInstance: lipgloss.NewStyle().Foreground(lipgloss.Color("170")),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		TableCell:   lipgloss.NewStyle().PaddingRight(1),

		Pass: lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true),
		Fail: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

		Border: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),

		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// VariantStyle returns the style for a receiver variant.
func (s Styles) VariantStyle(v taxonomy.ReceiverVariant) lipgloss.Style {
	switch v {
	case taxonomy.ExpectCall:
		return s.Expect
	case taxonomy.IsExpected:
		return s.IsExpected
	case taxonomy.AreExpected:
		return s.AreExpected
	case taxonomy.ExpectAnyInstanceOf:
		return s.ExpectAnyInstance
	default:
		return s.Muted
	}
}
