// Package taxonomy defines the finding model shared by the matcher,
// the classifier and the report writers, together with stable ID
// generation for findings.
package taxonomy

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/unbound-force/stubmock/internal/syntax"
)

// ReceiverVariant enumerates the syntactic forms that introduce a
// strict expectation.
type ReceiverVariant string

// Receiver variants.
const (
	// ExpectCall is expect(target).
	ExpectCall ReceiverVariant = "expect"

	// IsExpected is the bare is_expected reference.
	IsExpected ReceiverVariant = "is_expected"

	// AreExpected is the bare are_expected reference.
	AreExpected ReceiverVariant = "are_expected"

	// ExpectAnyInstanceOf is expect_any_instance_of(Klass).
	ExpectAnyInstanceOf ReceiverVariant = "expect_any_instance_of"
)

// Variants lists every receiver variant in a fixed order.
var Variants = []ReceiverVariant{ExpectCall, IsExpected, AreExpected, ExpectAnyInstanceOf}

// StubVerb enumerates the matcher methods that configure a stub target.
type StubVerb string

// Stub verbs.
const (
	Receive             StubVerb = "receive"
	ReceiveMessages     StubVerb = "receive_messages"
	ReceiveMessageChain StubVerb = "receive_message_chain"
)

// ResponseKind records how a matched chain configures its response.
type ResponseKind string

// Response kinds. ResponseNone means the chain only verifies and is
// never reported.
const (
	ResponseNone ResponseKind = ""

	// AndReturn is a trailing response method such as .and_return(x).
	AndReturn ResponseKind = "and_return"

	// ReturnBlock is an attached block without declared parameters.
	ReturnBlock ResponseKind = "block"

	// InlineValues are return values passed as hash arguments to
	// receive_messages or receive_message_chain.
	InlineValues ResponseKind = "inline_values"

	// BlockPassed is a block-pass argument (&canned).
	BlockPassed ResponseKind = "block_pass"
)

// Finding is one reported diagnostic.
type Finding struct {
	// ID is a stable identifier for diffing across runs.
	// Generated from sha256(rule+file+location).
	ID string `json:"id"`

	// Rule is the name of the rule that produced the finding.
	Rule string `json:"rule"`

	// File is the Ruby source file the finding belongs to.
	File string `json:"file"`

	// Location is the start of the span as "file:line:col".
	Location string `json:"location"`

	// Span covers exactly the receiver construct (expect(foo),
	// is_expected, ...), never the rest of the chain.
	Span syntax.Range `json:"span"`

	// Message is the fixed message for the receiver variant.
	Message string `json:"message"`

	// Variant is the receiver variant that introduced the expectation.
	Variant ReceiverVariant `json:"variant"`

	// Verb is the stub verb at the root of the matcher chain.
	Verb StubVerb `json:"verb"`

	// Response is the way the chain configures a response.
	Response ResponseKind `json:"response"`

	// Excerpt is the source line the span starts on. Omitted from JSON
	// when the document carries no source.
	Excerpt string `json:"excerpt,omitempty"`
}

// FileResult is the outcome of checking one document.
type FileResult struct {
	// File is the Ruby source file path recorded in the document.
	File string `json:"file"`

	// Input is the path of the document the tree was read from.
	Input string `json:"input"`

	// Findings are ordered by source position.
	Findings []Finding `json:"findings"`
}

// Summary holds aggregate counts for a run.
type Summary struct {
	// Files is the number of documents checked.
	Files int `json:"files"`

	// Findings is the total number of findings.
	Findings int `json:"findings"`

	// ByVariant counts findings per receiver variant.
	ByVariant map[ReceiverVariant]int `json:"by_variant"`
}

// Metadata holds run metadata.
type Metadata struct {
	Version   string        `json:"stubmock_version"`
	Timestamp time.Time     `json:"-"`
	Duration  time.Duration `json:"-"`
	Warnings  []string      `json:"warnings"`
}

// MarshalJSON customizes JSON encoding to use duration_ms and
// ISO 8601 timestamp.
func (m Metadata) MarshalJSON() ([]byte, error) {
	type Alias Metadata
	ts := ""
	if !m.Timestamp.IsZero() {
		ts = m.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(&struct {
		Alias
		DurationMS int64  `json:"duration_ms"`
		Timestamp  string `json:"timestamp,omitempty"`
	}{
		Alias:      Alias(m),
		DurationMS: m.Duration.Milliseconds(),
		Timestamp:  ts,
	})
}

// Report is the complete output of a run.
type Report struct {
	Files    []FileResult `json:"files"`
	Summary  Summary      `json:"summary"`
	Metadata Metadata     `json:"metadata"`
}

// Summarize recomputes r.Summary from r.Files.
func (r *Report) Summarize() {
	s := Summary{Files: len(r.Files), ByVariant: make(map[ReceiverVariant]int)}
	for _, f := range r.Files {
		s.Findings += len(f.Findings)
		for _, fd := range f.Findings {
			s.ByVariant[fd.Variant]++
		}
	}
	r.Summary = s
}

// FormatLocation renders "file:line:col".
func FormatLocation(file string, pos syntax.Position) string {
	return fmt.Sprintf("%s:%d:%d", file, pos.Line, pos.Column)
}

// GenerateID produces a stable, deterministic ID for a finding based
// on its rule and location. The ID is a sha256 hash truncated to 8 hex
// characters, prefixed with "sm-".
func GenerateID(rule, location string) string {
	input := fmt.Sprintf("%s:%s", rule, location)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("sm-%x", hash[:4])
}
