// Package syntaxtest builds small Ruby syntax trees for tests. Trees
// are described with constructor helpers, rendered to Ruby source and
// returned as a syntax.Document whose node ranges point at the
// rendered text, so tests can assert spans by the text they cover.
package syntaxtest

import (
	"strconv"
	"strings"

	"github.com/unbound-force/stubmock/internal/syntax"
)

// Expr is an unrendered expression.
type Expr struct {
	typ      syntax.Type
	recv     *Expr
	method   string
	args     []*Expr
	text     string
	params   []string
	call     *Expr
	body     *Expr
	children []*Expr

	bare     bool
	newline  bool
	doEnd    bool
	rendered *syntax.Node
}

// Call is a receiver-less method call: Call("expect", Lvar("foo"))
// renders "expect(foo)", Call("is_expected") renders "is_expected".
func Call(method string, args ...*Expr) *Expr {
	return &Expr{typ: syntax.Send, method: method, args: args}
}

// Send is a call with an explicit receiver: recv.method(args).
func Send(recv *Expr, method string, args ...*Expr) *Expr {
	return &Expr{typ: syntax.Send, recv: recv, method: method, args: args}
}

// Dot chains a call onto e.
func (e *Expr) Dot(method string, args ...*Expr) *Expr {
	return Send(e, method, args...)
}

// Bare renders the call's arguments without parentheses.
func (e *Expr) Bare() *Expr {
	e.bare = true
	return e
}

// Break renders the call on a new line with a leading dot.
func (e *Expr) Break() *Expr {
	e.newline = true
	return e
}

// Node returns the syntax node e was rendered to, or nil before Render.
func (e *Expr) Node() *syntax.Node {
	return e.rendered
}

// Sym is a symbol literal (:name).
func Sym(name string) *Expr { return &Expr{typ: syntax.Sym, text: name} }

// Str is a single-quoted string literal.
func Str(s string) *Expr { return &Expr{typ: syntax.Str, text: s} }

// Int is an integer literal.
func Int(v int) *Expr { return &Expr{typ: syntax.Int, text: strconv.Itoa(v)} }

// Lvar is a local variable reference.
func Lvar(name string) *Expr { return &Expr{typ: syntax.Lvar, text: name} }

// Const is a constant reference.
func Const(name string) *Expr { return &Expr{typ: syntax.Const, text: name} }

// Pair is a "key: value" hash pair with a symbol key.
func Pair(key string, value *Expr) *Expr {
	return &Expr{typ: syntax.Pair, children: []*Expr{Sym(key), value}}
}

// Hash is a brace-less hash, as written in a trailing argument.
func Hash(pairs ...*Expr) *Expr {
	return &Expr{typ: syntax.Hash, children: pairs}
}

// BlockPass is "&value".
func BlockPass(value *Expr) *Expr {
	return &Expr{typ: syntax.BlockPass, children: []*Expr{value}}
}

// Block attaches a brace block to call.
func Block(call *Expr, params []string, body *Expr) *Expr {
	return &Expr{typ: syntax.Block, call: call, params: params, body: body}
}

// DoBlock attaches a do...end block to call.
func DoBlock(call *Expr, params []string, body *Expr) *Expr {
	b := Block(call, params, body)
	b.doEnd = true
	return b
}

// NumBlock attaches a brace block using numbered parameters to call.
func NumBlock(call *Expr, body *Expr) *Expr {
	return &Expr{typ: syntax.NumBlock, call: call, body: body}
}

// Lambda is "-> { body }".
func Lambda(body *Expr) *Expr {
	return &Expr{typ: syntax.Block, call: &Expr{typ: syntax.Lambda}, body: body}
}

// Assign is "name = value".
func Assign(name string, value *Expr) *Expr {
	return &Expr{typ: syntax.Lvasgn, text: name, children: []*Expr{value}}
}

// Render renders each statement on its own line and returns the
// resulting document for file.
func Render(file string, stmts ...*Expr) *syntax.Document {
	p := &printer{line: 1, col: 1}
	begin := p.pos()
	root := &syntax.Node{Type: syntax.Begin}
	for i, s := range stmts {
		if i > 0 {
			p.write("\n")
		}
		root.Children = append(root.Children, p.expr(s))
	}
	p.write("\n")
	root.Range = syntax.Range{Begin: begin, End: p.pos()}
	return &syntax.Document{
		Version: "1",
		File:    file,
		Source:  p.b.String(),
		Root:    root,
	}
}

type printer struct {
	b         strings.Builder
	line, col int
}

func (p *printer) pos() syntax.Position {
	return syntax.Position{Line: p.line, Column: p.col}
}

func (p *printer) write(s string) {
	for _, r := range s {
		p.b.WriteRune(r)
		if r == '\n' {
			p.line++
			p.col = 1
		} else {
			p.col++
		}
	}
}

func (p *printer) expr(e *Expr) *syntax.Node {
	begin := p.pos()
	n := &syntax.Node{Type: e.typ}

	switch e.typ {
	case syntax.Send:
		if e.recv != nil {
			n.Receiver = p.expr(e.recv)
			if e.newline {
				p.write("\n  ")
			}
			p.write(".")
		}
		n.Method = e.method
		p.write(e.method)
		n.Args = p.args(e)
	case syntax.Block, syntax.NumBlock:
		n.Call = p.expr(e.call)
		n.Params = e.params
		p.blockOpen(e)
		if e.body != nil {
			n.Body = p.expr(e.body)
		}
		p.blockClose(e)
	case syntax.Lambda:
		p.write("->")
	case syntax.Sym:
		n.Value = e.text
		p.write(":" + e.text)
	case syntax.Str:
		n.Value = e.text
		p.write("'" + e.text + "'")
	case syntax.Int, syntax.Lvar, syntax.Const:
		n.Value = e.text
		p.write(e.text)
	case syntax.Pair:
		key := e.children[0]
		keyBegin := p.pos()
		p.write(key.text)
		keyNode := &syntax.Node{Type: syntax.Sym, Value: key.text,
			Range: syntax.Range{Begin: keyBegin, End: p.pos()}}
		p.write(": ")
		n.Children = []*syntax.Node{keyNode, p.expr(e.children[1])}
	case syntax.Hash:
		for i, c := range e.children {
			if i > 0 {
				p.write(", ")
			}
			n.Children = append(n.Children, p.expr(c))
		}
	case syntax.BlockPass:
		p.write("&")
		n.Children = []*syntax.Node{p.expr(e.children[0])}
	case syntax.Lvasgn:
		n.Value = e.text
		p.write(e.text + " = ")
		n.Children = []*syntax.Node{p.expr(e.children[0])}
	}

	n.Range = syntax.Range{Begin: begin, End: p.pos()}
	e.rendered = n
	return n
}

func (p *printer) args(e *Expr) []*syntax.Node {
	if len(e.args) == 0 {
		return nil
	}
	if e.bare {
		p.write(" ")
	} else {
		p.write("(")
	}
	nodes := make([]*syntax.Node, 0, len(e.args))
	for i, a := range e.args {
		if i > 0 {
			p.write(", ")
		}
		nodes = append(nodes, p.expr(a))
	}
	if !e.bare {
		p.write(")")
	}
	return nodes
}

func (p *printer) blockOpen(e *Expr) {
	if e.doEnd {
		p.write(" do")
	} else {
		p.write(" {")
	}
	if len(e.params) > 0 {
		p.write(" |" + strings.Join(e.params, ", ") + "|")
	}
	if e.body != nil {
		p.write(" ")
	}
}

func (p *printer) blockClose(e *Expr) {
	if e.doEnd {
		p.write(" end")
		return
	}
	p.write(" }")
}
