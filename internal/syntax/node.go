// Package syntax defines the read-only Ruby syntax tree that stubmock
// inspects. Trees are produced by an external parser, serialized as
// JSON documents and decoded by the loader package. Nothing in this
// module mutates a tree after decoding.
package syntax

import (
	"fmt"
	"strings"
)

// Type discriminates syntax nodes. The names follow the node types of
// the Ruby "parser" gem so that dumpers can emit them unchanged.
type Type string

// Call nodes.
const (
	Send  Type = "send"
	CSend Type = "csend"
)

// Block nodes. A block wraps the call it is attached to.
const (
	Block     Type = "block"
	NumBlock  Type = "numblock"
	ItBlock   Type = "itblock"
	BlockPass Type = "block_pass"
	Lambda    Type = "lambda"
)

// Literals, references and containers.
const (
	Hash   Type = "hash"
	Pair   Type = "pair"
	Sym    Type = "sym"
	Str    Type = "str"
	Int    Type = "int"
	Lvar   Type = "lvar"
	Ivar   Type = "ivar"
	Const  Type = "const"
	Lvasgn Type = "lvasgn"
	Begin  Type = "begin"
)

// Position is a point in a source file. Line and Column are 1-based;
// Column counts characters, not bytes.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Before reports whether p sorts strictly before q.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// String returns "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range is a half-open source span: End is the position just past the
// last character.
type Range struct {
	Begin Position `json:"begin"`
	End   Position `json:"end"`
}

// String returns "line:col-line:col".
func (r Range) String() string {
	return r.Begin.String() + "-" + r.End.String()
}

// Node is a single syntax tree node. Which fields are populated
// depends on Type:
//
//   - send, csend: Receiver (nil for a bare call), Method, Args
//   - block, numblock, itblock: Call, Params, Body
//   - block_pass: Children[0] is the passed expression
//   - sym, str, int, lvar, ivar, const: Value
//   - everything else: Children
type Node struct {
	Type     Type     `json:"type"`
	Range    Range    `json:"range"`
	Receiver *Node    `json:"receiver,omitempty"`
	Method   string   `json:"method,omitempty"`
	Args     []*Node  `json:"args,omitempty"`
	Call     *Node    `json:"call,omitempty"`
	Params   []string `json:"params,omitempty"`
	Body     *Node    `json:"body,omitempty"`
	Value    string   `json:"value,omitempty"`
	Children []*Node  `json:"children,omitempty"`
}

// IsCall reports whether n is a method call (send or csend).
func (n *Node) IsCall() bool {
	return n != nil && (n.Type == Send || n.Type == CSend)
}

// IsBlock reports whether n is a block of any flavor.
func (n *Node) IsBlock() bool {
	return n != nil && (n.Type == Block || n.Type == NumBlock || n.Type == ItBlock)
}

// IsBareCall reports whether n is a receiver-less call to name.
func (n *Node) IsBareCall(name string) bool {
	return n.IsCall() && n.Receiver == nil && n.Method == name
}

// DeclaresParams reports whether the block n binds parameters, either
// explicitly (|x|) or implicitly through numbered or "it" parameters.
func (n *Node) DeclaresParams() bool {
	if !n.IsBlock() {
		return false
	}
	return n.Type == NumBlock || n.Type == ItBlock || len(n.Params) > 0
}

// HasBlockPass reports whether the last argument of the call n is a
// block-pass (&callable).
func (n *Node) HasBlockPass() bool {
	if !n.IsCall() || len(n.Args) == 0 {
		return false
	}
	return n.Args[len(n.Args)-1].Type == BlockPass
}

// ValueArgs returns the call arguments without a trailing block-pass.
func (n *Node) ValueArgs() []*Node {
	if n.HasBlockPass() {
		return n.Args[:len(n.Args)-1]
	}
	return n.Args
}

// String renders a compact s-expression, mostly for test failures.
func (n *Node) String() string {
	if n == nil {
		return "nil"
	}
	var b strings.Builder
	n.sexp(&b)
	return b.String()
}

func (n *Node) sexp(b *strings.Builder) {
	if n == nil {
		b.WriteString("nil")
		return
	}
	b.WriteString("(")
	b.WriteString(string(n.Type))
	switch {
	case n.IsCall():
		b.WriteString(" ")
		n.Receiver.sexp(b)
		b.WriteString(" :" + n.Method)
		for _, a := range n.Args {
			b.WriteString(" ")
			a.sexp(b)
		}
	case n.IsBlock():
		b.WriteString(" ")
		n.Call.sexp(b)
		fmt.Fprintf(b, " (args%s) ", joinParams(n.Params))
		n.Body.sexp(b)
	case n.Value != "":
		b.WriteString(" " + n.Value)
	}
	for _, c := range n.Children {
		b.WriteString(" ")
		c.sexp(b)
	}
	b.WriteString(")")
}

func joinParams(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return " " + strings.Join(params, " ")
}

// Document is one decoded syntax-tree file.
type Document struct {
	// Version is the document format version.
	Version string `json:"version"`

	// File is the path of the Ruby source the tree was built from.
	File string `json:"file"`

	// Source is the original source text. Optional; when present it is
	// used to render excerpts under findings.
	Source string `json:"source,omitempty"`

	// Root is the top-level node, usually a begin node.
	Root *Node `json:"root"`
}

// Line returns the text of the 1-based line n of the document source.
func (d *Document) Line(n int) (string, bool) {
	if d.Source == "" || n < 1 {
		return "", false
	}
	lines := strings.Split(d.Source, "\n")
	if n > len(lines) {
		return "", false
	}
	return lines[n-1], true
}

// Text returns the source text covered by r, or "" when the document
// carries no source or r lies outside it.
func (d *Document) Text(r Range) string {
	if d.Source == "" {
		return ""
	}
	lines := strings.Split(d.Source, "\n")
	if r.Begin.Line < 1 || r.End.Line > len(lines) || r.End.Before(r.Begin) {
		return ""
	}

	var b strings.Builder
	for ln := r.Begin.Line; ln <= r.End.Line; ln++ {
		line := []rune(lines[ln-1])
		from, to := 0, len(line)
		if ln == r.Begin.Line {
			from = clamp(r.Begin.Column-1, 0, len(line))
		}
		if ln == r.End.Line {
			to = clamp(r.End.Column-1, from, len(line))
		}
		if ln > r.Begin.Line {
			b.WriteString("\n")
		}
		b.WriteString(string(line[from:to]))
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
