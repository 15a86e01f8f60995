// Package classify turns matcher hits into findings, selecting the
// fixed message for each receiver variant.
package classify

import (
	"fmt"

	"github.com/unbound-force/stubmock/internal/match"
	"github.com/unbound-force/stubmock/internal/syntax"
	"github.com/unbound-force/stubmock/internal/taxonomy"
)

// RuleName identifies findings produced by this rule.
const RuleName = "RSpec/StubbedMock"

// Description is the one-line summary of the rule.
const Description = "Checks that message expectations do not have a configured response."

const msgFormat = "Prefer %s over `%s` when configuring a response."

// Replacement returns the recommended allowance for a receiver variant,
// formatted the way it appears in the message.
func Replacement(v taxonomy.ReceiverVariant) (string, bool) {
	switch v {
	case taxonomy.ExpectCall:
		return "`allow`", true
	case taxonomy.IsExpected:
		return "`allow(subject)`", true
	case taxonomy.AreExpected:
		return "an allow statement", true
	case taxonomy.ExpectAnyInstanceOf:
		return "`allow_any_instance_of`", true
	default:
		return "", false
	}
}

// Message returns the diagnostic message for a receiver variant.
func Message(v taxonomy.ReceiverVariant) (string, bool) {
	replacement, ok := Replacement(v)
	if !ok {
		return "", false
	}
	return fmt.Sprintf(msgFormat, replacement, v), true
}

// Classify builds the finding rule reports for a hit in file. source,
// when non-nil, provides the excerpt line.
func Classify(rule, file string, hit match.Hit, source *syntax.Document) (taxonomy.Finding, bool) {
	msg, ok := Message(hit.Variant)
	if !ok {
		return taxonomy.Finding{}, false
	}

	loc := taxonomy.FormatLocation(file, hit.Span.Begin)
	f := taxonomy.Finding{
		ID:       taxonomy.GenerateID(rule, loc),
		Rule:     rule,
		File:     file,
		Location: loc,
		Span:     hit.Span,
		Message:  msg,
		Variant:  hit.Variant,
		Verb:     hit.Verb,
		Response: hit.Response,
	}
	if source != nil {
		if line, ok := source.Line(hit.Span.Begin.Line); ok {
			f.Excerpt = line
		}
	}
	return f, true
}
