package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/stubmock/internal/classify"
	"github.com/unbound-force/stubmock/internal/taxonomy"
)

// TextOptions configures WriteText.
type TextOptions struct {
	// Verbose also lists files without offenses and the input each
	// file was read from.
	Verbose bool
}

// WriteText writes a report as human-readable styled text to the
// writer. Output uses lipgloss for color and formatting when the output
// is a TTY; degrades gracefully for pipes and CI.
func WriteText(w io.Writer, r *taxonomy.Report, opts TextOptions) error {
	if r == nil {
		r = &taxonomy.Report{}
		r.Summarize()
	}
	s := DefaultStyles()

	written := 0
	for _, f := range r.Files {
		if len(f.Findings) == 0 && !opts.Verbose {
			continue
		}
		if written > 0 {
			fmt.Fprintln(w)
		}
		writeFileResult(w, f, s, opts)
		written++
	}

	if r.Summary.Findings > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, variantTable(r.Summary, s))
	}

	for _, warn := range r.Metadata.Warnings {
		fmt.Fprintln(w, s.Muted.Render("warning: "+warn))
	}

	line := fmt.Sprintf("%d file(s) inspected, %d offense(s) detected",
		r.Summary.Files, r.Summary.Findings)
	style := s.Pass
	if r.Summary.Findings > 0 {
		style = s.Fail
	}
	_, err := fmt.Fprintf(w, "\n%s\n", style.Render(line))
	return err
}

func writeFileResult(w io.Writer, f taxonomy.FileResult, s Styles, opts TextOptions) {
	fmt.Fprintln(w, s.Header.Render(fmt.Sprintf("=== %s ===", f.File)))
	if opts.Verbose {
		fmt.Fprintln(w, s.SubHeader.Render("    "+f.Input))
	}

	if len(f.Findings) == 0 {
		fmt.Fprintln(w, s.Muted.Render("    No offenses detected."))
		return
	}

	for _, fd := range f.Findings {
		fmt.Fprintf(w, "  %s %s\n",
			s.Location.Render(fd.Span.Begin.String()),
			s.Rule.Render("["+fd.Rule+"]"))
		fmt.Fprintln(w, s.Message.Render(fd.Message))
		if fd.Excerpt != "" {
			fmt.Fprintln(w, "    "+fd.Excerpt)
			fmt.Fprintln(w, "    "+s.Caret.Render(Underline(fd)))
		}
	}
}

// Underline returns the caret line placed under a finding's excerpt:
// spaces up to the start column, then one caret per character of the
// span on that line.
func Underline(fd taxonomy.Finding) string {
	lineLen := utf8.RuneCountInString(fd.Excerpt)
	from := fd.Span.Begin.Column - 1
	if from < 0 {
		from = 0
	}
	if from > lineLen {
		from = lineLen
	}

	to := lineLen
	if fd.Span.End.Line == fd.Span.Begin.Line {
		to = min(fd.Span.End.Column-1, lineLen)
	}
	width := max(to-from, 1)

	return strings.Repeat(" ", from) + strings.Repeat("^", width)
}

// variantTable summarizes findings per receiver variant with the
// allowance to use instead.
func variantTable(sum taxonomy.Summary, s Styles) *table.Table {
	var rows [][]string
	var variants []taxonomy.ReceiverVariant
	for _, v := range taxonomy.Variants {
		c := sum.ByVariant[v]
		if c == 0 {
			continue
		}
		prefer, _ := classify.Replacement(v)
		rows = append(rows, []string{string(v), strconv.Itoa(c), prefer})
		variants = append(variants, v)
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			if col == 0 && row >= 0 && row < len(variants) {
				return s.VariantStyle(variants[row]).PaddingRight(1)
			}
			return s.TableCell
		}).
		Headers("VARIANT", "OFFENSES", "PREFER").
		Rows(rows...)
}
