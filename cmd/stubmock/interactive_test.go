package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unbound-force/stubmock/internal/syntax"
	"github.com/unbound-force/stubmock/internal/taxonomy"
)

func tuiReport() *taxonomy.Report {
	r := &taxonomy.Report{
		Files: []taxonomy.FileResult{
			{
				File:  "spec/user_spec.rb",
				Input: "dump/user_spec.json",
				Findings: []taxonomy.Finding{
					{
						ID:       "sm-00000001",
						Rule:     "RSpec/StubbedMock",
						File:     "spec/user_spec.rb",
						Location: "spec/user_spec.rb:3:5",
						Span: syntax.Range{
							Begin: syntax.Position{Line: 3, Column: 5},
							End:   syntax.Position{Line: 3, Column: 16},
						},
						Message:  "Prefer `allow` over `expect` when configuring a response.",
						Variant:  taxonomy.ExpectCall,
						Verb:     taxonomy.Receive,
						Response: taxonomy.AndReturn,
					},
				},
			},
			{
				File:  "spec/post_spec.rb",
				Input: "dump/post_spec.json",
			},
		},
	}
	r.Summarize()
	return r
}

func TestRenderCheckContent_NilReport(t *testing.T) {
	output := renderCheckContent(nil)

	if !strings.Contains(output, "0 file(s)") {
		t.Errorf("expected output to contain '0 file(s)', got:\n%s", output)
	}
	if !strings.Contains(output, "0 offense(s)") {
		t.Errorf("expected output to contain '0 offense(s)', got:\n%s", output)
	}
}

func TestRenderCheckContent_WithFindings(t *testing.T) {
	output := renderCheckContent(tuiReport())

	for _, want := range []string{
		"2 file(s), 1 offense(s)",
		"=== spec/user_spec.rb ===",
		"dump/user_spec.json",
		"3:5",
		"expect",
		"and_return",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestRenderCheckContent_MessageTruncation(t *testing.T) {
	output := renderCheckContent(tuiReport())

	msg := "Prefer `allow` over `expect` when configuring a response."
	if strings.Contains(output, msg) {
		t.Error("expected long message to be truncated, but full message found in output")
	}
	truncated := msg[:maxMessage-3] + "..."
	if !strings.Contains(output, truncated) {
		t.Errorf("expected output to contain truncated message %q, got:\n%s", truncated, output)
	}
}

func TestRenderCheckContent_NoOffenses(t *testing.T) {
	output := renderCheckContent(tuiReport())

	if !strings.Contains(output, "=== spec/post_spec.rb ===") {
		t.Errorf("expected clean file header, got:\n%s", output)
	}
	if !strings.Contains(output, "No offenses detected.") {
		t.Errorf("expected 'No offenses detected.', got:\n%s", output)
	}
}

func TestCheckModel_Lifecycle(t *testing.T) {
	m := newCheckModel(tuiReport())
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() before sizing = %q, want Initializing...", got)
	}

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(checkModel)
	if !m.ready {
		t.Fatal("model not ready after WindowSizeMsg")
	}
	if m.viewport.Height != 28 {
		t.Errorf("viewport height = %d, want 28", m.viewport.Height)
	}
	if !strings.Contains(m.View(), "spec/user_spec.rb") {
		t.Error("View() does not show the report")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	m = updated.(checkModel)
	if !m.help.ShowAll {
		t.Error("? should toggle the full help")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit the program")
	}
}
