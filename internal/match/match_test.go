package match_test

import (
	"testing"

	"github.com/unbound-force/stubmock/internal/match"
	"github.com/unbound-force/stubmock/internal/syntax"
	st "github.com/unbound-force/stubmock/internal/syntax/syntaxtest"
	"github.com/unbound-force/stubmock/internal/taxonomy"
)

func foo() *st.Expr { return st.Lvar("foo") }

func expect(x *st.Expr) *st.Expr { return st.Call("expect", x) }

func allow(x *st.Expr) *st.Expr { return st.Call("allow", x) }

func receive(args ...*st.Expr) *st.Expr { return st.Call("receive", args...) }

func to(recv, matcher *st.Expr) *st.Expr { return recv.Dot("to", matcher).Bare() }

// hits renders stmts and runs the matcher on every call site.
func hits(t *testing.T, opts match.Options, stmts ...*st.Expr) ([]match.Hit, *syntax.Document) {
	t.Helper()
	doc := st.Render("foo_spec.rb", stmts...)
	var out []match.Hit
	for _, site := range syntax.Calls(doc.Root) {
		if h, ok := match.Match(site.Call, site.Block, opts); ok {
			out = append(out, h)
		}
	}
	return out, doc
}

func TestMatch_Flags(t *testing.T) {
	tests := []struct {
		name     string
		stmt     *st.Expr
		variant  taxonomy.ReceiverVariant
		verb     taxonomy.StubVerb
		response taxonomy.ResponseKind
		span     string
	}{
		{
			name:     "and_return",
			stmt:     to(expect(foo()), receive(st.Sym("bar")).Dot("and_return", st.Str("hello world"))),
			variant:  taxonomy.ExpectCall,
			verb:     taxonomy.Receive,
			response: taxonomy.AndReturn,
			span:     "expect(foo)",
		},
		{
			name:     "block",
			stmt:     to(expect(foo()), st.Block(receive(st.Sym("bar")), nil, st.Str("hello world"))),
			variant:  taxonomy.ExpectCall,
			verb:     taxonomy.Receive,
			response: taxonomy.ReturnBlock,
			span:     "expect(foo)",
		},
		{
			name: "argument matching",
			stmt: to(expect(foo()), receive(st.Sym("bar")).
				Dot("with", st.Int(42)).Dot("and_return", st.Str("hello world"))),
			variant:  taxonomy.ExpectCall,
			verb:     taxonomy.Receive,
			response: taxonomy.AndReturn,
			span:     "expect(foo)",
		},
		{
			name: "argument matching and a block",
			stmt: to(expect(foo()), st.Block(receive(st.Sym("bar")).Dot("with", st.Int(42)),
				nil, st.Str("hello world"))),
			variant:  taxonomy.ExpectCall,
			verb:     taxonomy.Receive,
			response: taxonomy.ReturnBlock,
			span:     "expect(foo)",
		},
		{
			name: "receive_messages",
			stmt: to(expect(foo()), st.Call("receive_messages",
				st.Hash(st.Pair("foo", st.Int(42)), st.Pair("bar", st.Int(777))))),
			variant:  taxonomy.ExpectCall,
			verb:     taxonomy.ReceiveMessages,
			response: taxonomy.InlineValues,
			span:     "expect(foo)",
		},
		{
			name: "receive_message_chain with hash",
			stmt: to(expect(foo()), st.Call("receive_message_chain",
				st.Sym("foo"), st.Hash(st.Pair("bar", st.Int(777))))),
			variant:  taxonomy.ExpectCall,
			verb:     taxonomy.ReceiveMessageChain,
			response: taxonomy.InlineValues,
			span:     "expect(foo)",
		},
		{
			name: "receive_message_chain with and_return",
			stmt: to(expect(foo()), st.Call("receive_message_chain", st.Sym("foo"), st.Sym("bar")).
				Dot("and_return", st.Int(777))),
			variant:  taxonomy.ExpectCall,
			verb:     taxonomy.ReceiveMessageChain,
			response: taxonomy.AndReturn,
			span:     "expect(foo)",
		},
		{
			name: "receive_message_chain with a block",
			stmt: to(expect(foo()), st.Block(st.Call("receive_message_chain", st.Sym("foo"), st.Sym("bar")),
				nil, st.Int(777))),
			variant:  taxonomy.ExpectCall,
			verb:     taxonomy.ReceiveMessageChain,
			response: taxonomy.ReturnBlock,
			span:     "expect(foo)",
		},
		{
			name:     "block-pass on to",
			stmt:     expect(foo()).Dot("to", receive(st.Sym("bar")), st.BlockPass(st.Lvar("canned"))).Bare(),
			variant:  taxonomy.ExpectCall,
			verb:     taxonomy.Receive,
			response: taxonomy.BlockPassed,
			span:     "expect(foo)",
		},
		{
			name:     "block-pass on receive",
			stmt:     to(expect(foo()), receive(st.Sym("bar"), st.BlockPass(st.Lvar("canned")))),
			variant:  taxonomy.ExpectCall,
			verb:     taxonomy.Receive,
			response: taxonomy.BlockPassed,
			span:     "expect(foo)",
		},
		{
			name: "block-pass on with",
			stmt: to(expect(foo()), receive(st.Sym("bar")).
				Dot("with", st.Int(42), st.BlockPass(st.Lvar("canned")))),
			variant:  taxonomy.ExpectCall,
			verb:     taxonomy.Receive,
			response: taxonomy.BlockPassed,
			span:     "expect(foo)",
		},
		{
			name: "block-pass on receive_message_chain",
			stmt: to(expect(foo()), st.Call("receive_message_chain",
				st.Sym("foo"), st.Sym("bar"), st.BlockPass(st.Lvar("canned")))),
			variant:  taxonomy.ExpectCall,
			verb:     taxonomy.ReceiveMessageChain,
			response: taxonomy.BlockPassed,
			span:     "expect(foo)",
		},
		{
			name:     "is_expected",
			stmt:     to(st.Call("is_expected"), receive(st.Sym("bar")).Dot("and_return", st.Sym("baz"))),
			variant:  taxonomy.IsExpected,
			verb:     taxonomy.Receive,
			response: taxonomy.AndReturn,
			span:     "is_expected",
		},
		{
			name:     "are_expected",
			stmt:     to(st.Call("are_expected"), receive(st.Sym("bar")).Dot("and_return", st.Sym("baz"))),
			variant:  taxonomy.AreExpected,
			verb:     taxonomy.Receive,
			response: taxonomy.AndReturn,
			span:     "are_expected",
		},
		{
			name: "expect_any_instance_of",
			stmt: to(st.Call("expect_any_instance_of", st.Const("Foo")),
				receive(st.Sym("bar")).Dot("and_return", st.Sym("baz"))),
			variant:  taxonomy.ExpectAnyInstanceOf,
			verb:     taxonomy.Receive,
			response: taxonomy.AndReturn,
			span:     "expect_any_instance_of(Foo)",
		},
		{
			name:     "do block bound to to",
			stmt:     st.DoBlock(to(expect(foo()), receive(st.Sym("bar"))), nil, st.Str("hello world")),
			variant:  taxonomy.ExpectCall,
			verb:     taxonomy.Receive,
			response: taxonomy.ReturnBlock,
			span:     "expect(foo)",
		},
		{
			name: "count modifier after block",
			stmt: to(expect(foo()), st.Block(receive(st.Sym("bar")), nil, st.Str("hello world")).
				Dot("ordered")),
			variant:  taxonomy.ExpectCall,
			verb:     taxonomy.Receive,
			response: taxonomy.ReturnBlock,
			span:     "expect(foo)",
		},
		{
			name: "count modifiers around and_return",
			stmt: to(expect(foo()), receive(st.Sym("bar")).Dot("once").Dot("with", st.Int(42)).
				Dot("and_return", st.Str("hello world")).Dot("ordered")),
			variant:  taxonomy.ExpectCall,
			verb:     taxonomy.Receive,
			response: taxonomy.AndReturn,
			span:     "expect(foo)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, doc := hits(t, match.Options{}, tt.stmt)
			if len(got) != 1 {
				t.Fatalf("expected 1 hit, got %d for:\n%s", len(got), doc.Source)
			}
			h := got[0]
			if h.Variant != tt.variant {
				t.Errorf("Variant = %q, want %q", h.Variant, tt.variant)
			}
			if h.Verb != tt.verb {
				t.Errorf("Verb = %q, want %q", h.Verb, tt.verb)
			}
			if h.Response != tt.response {
				t.Errorf("Response = %q, want %q", h.Response, tt.response)
			}
			if span := doc.Text(h.Span); span != tt.span {
				t.Errorf("span covers %q, want %q", span, tt.span)
			}
		})
	}
}

func TestMatch_Ignores(t *testing.T) {
	tests := []struct {
		name string
		stmt *st.Expr
	}{
		{
			name: "block with a parameter",
			stmt: to(expect(foo()), st.Block(receive(st.Sym("bar")), []string{"x"}, st.Call("bar"))),
		},
		{
			name: "numbered block parameter",
			stmt: to(expect(foo()), st.NumBlock(receive(st.Sym("bar")), st.Lvar("_1"))),
		},
		{
			name: "do block with a parameter bound to to",
			stmt: st.DoBlock(to(expect(foo()), receive(st.Sym("bar"))), []string{"x"}, st.Call("bar")),
		},
		{
			name: "block parameter with argument matching",
			stmt: to(expect(foo()), st.Block(receive(st.Sym("bar")).Dot("with", st.Int(42)),
				[]string{"x"}, st.Call("bar"))),
		},
		{
			name: "have_received",
			stmt: to(expect(foo()), st.Call("have_received", st.Sym("bar"))),
		},
		{
			name: "have_received with and_return",
			stmt: to(expect(foo()), st.Call("have_received", st.Sym("bar")).Dot("and_return", st.Int(1))),
		},
		{
			name: "pure verification",
			stmt: to(expect(foo()), receive(st.Sym("bar"))),
		},
		{
			name: "verification with argument matching",
			stmt: to(expect(foo()), receive(st.Sym("bar")).Dot("with", st.Int(42)).Dot("once")),
		},
		{
			name: "receive_message_chain without values",
			stmt: to(expect(foo()), st.Call("receive_message_chain", st.Sym("foo"), st.Sym("bar"))),
		},
		{
			name: "allow with and_return",
			stmt: to(allow(foo()), receive(st.Sym("bar")).Dot("and_return", st.Str("hello world"))),
		},
		{
			name: "allow with a block",
			stmt: to(allow(foo()), st.Block(receive(st.Sym("bar")), nil, st.Str("hello world"))),
		},
		{
			name: "allow with receive_messages",
			stmt: to(allow(foo()), st.Call("receive_messages", st.Hash(st.Pair("foo", st.Int(42))))),
		},
		{
			name: "allow with block-pass",
			stmt: to(allow(foo()), receive(st.Sym("bar"), st.BlockPass(st.Lvar("canned")))),
		},
		{
			name: "allow_any_instance_of",
			stmt: to(st.Call("allow_any_instance_of", st.Const("Foo")),
				receive(st.Sym("bar")).Dot("and_return", st.Sym("baz"))),
		},
		{
			name: "expect with explicit receiver",
			stmt: to(st.Send(st.Const("RSpec"), "expect", foo()),
				receive(st.Sym("bar")).Dot("and_return", st.Int(1))),
		},
		{
			name: "expect without argument",
			stmt: to(st.Call("expect"), receive(st.Sym("bar")).Dot("and_return", st.Int(1))),
		},
		{
			name: "not_to",
			stmt: expect(foo()).Dot("not_to", receive(st.Sym("bar")).Dot("and_return", st.Int(1))).Bare(),
		},
		{
			name: "value matcher",
			stmt: to(expect(foo()), st.Call("eq", st.Int(42))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, doc := hits(t, match.Options{}, tt.stmt)
			if len(got) != 0 {
				t.Errorf("expected no hits, got %d for:\n%s", len(got), doc.Source)
			}
		})
	}
}

func TestMatch_WithoutParentheses(t *testing.T) {
	chain := st.Call("receive", st.Sym("new")).
		Dot("with", st.Lvar("bar")).Break().
		Dot("and_return", st.Lvar("baz")).Bare()
	stmt := st.Call("expect", st.Const("Foo")).Dot("to", chain).Bare().Break()

	got, doc := hits(t, match.Options{}, stmt)
	if len(got) != 1 {
		t.Fatalf("expected 1 hit, got %d for:\n%s", len(got), doc.Source)
	}
	h := got[0]
	if span := doc.Text(h.Span); span != "expect(Foo)" {
		t.Errorf("span covers %q, want %q", span, "expect(Foo)")
	}
	if h.Span.Begin.Line != 1 || h.Span.End.Line != 1 {
		t.Errorf("span %s should stay on the first line", h.Span)
	}
	if h.Response != taxonomy.AndReturn {
		t.Errorf("Response = %q, want %q", h.Response, taxonomy.AndReturn)
	}
}

func TestMatch_SkipCountModifiers(t *testing.T) {
	stmts := []*st.Expr{
		to(expect(foo()), st.Block(receive(st.Sym("bar")), nil, st.Str("hello world")).Dot("ordered")),
		to(expect(foo()), st.Block(receive(st.Sym("bar")).Dot("ordered"), nil, st.Str("hello world"))),
		to(expect(foo()), receive(st.Sym("bar")).Dot("once").Dot("with", st.Int(42)).
			Dot("and_return", st.Str("hello world")).Dot("ordered")),
	}

	flagged, _ := hits(t, match.Options{}, stmts...)
	if len(flagged) != 3 {
		t.Errorf("default options: expected 3 hits, got %d", len(flagged))
	}

	skipped, _ := hits(t, match.Options{SkipCountModifiers: true}, stmts...)
	if len(skipped) != 0 {
		t.Errorf("SkipCountModifiers: expected no hits, got %d", len(skipped))
	}

	// Chains without modifiers are unaffected.
	plain, _ := hits(t, match.Options{SkipCountModifiers: true},
		to(expect(foo()), receive(st.Sym("bar")).Dot("and_return", st.Int(1))))
	if len(plain) != 1 {
		t.Errorf("SkipCountModifiers: expected plain chain to match, got %d hits", len(plain))
	}
}

func TestMatch_ResponseMethods(t *testing.T) {
	stmt := func() *st.Expr {
		return to(expect(foo()), receive(st.Sym("bar")).Dot("and_raise", st.Const("Boom")))
	}

	got, _ := hits(t, match.Options{}, stmt())
	if len(got) != 0 {
		t.Errorf("default response methods: expected no hits for and_raise, got %d", len(got))
	}

	got, _ = hits(t, match.Options{ResponseMethods: []string{"and_return", "and_raise"}}, stmt())
	if len(got) != 1 {
		t.Fatalf("custom response methods: expected 1 hit, got %d", len(got))
	}
	if got[0].Response != taxonomy.AndReturn {
		t.Errorf("Response = %q, want %q", got[0].Response, taxonomy.AndReturn)
	}
}

func TestMatch_OneHitPerStatement(t *testing.T) {
	// A do block on .to plus and_return inside the chain is still a
	// single stub.
	stmt := st.DoBlock(to(expect(foo()), receive(st.Sym("bar")).Dot("and_return", st.Int(1))),
		nil, st.Int(2))

	got, _ := hits(t, match.Options{}, stmt)
	if len(got) != 1 {
		t.Errorf("expected 1 hit, got %d", len(got))
	}
}

func TestMatch_NonCallNodes(t *testing.T) {
	if _, ok := match.Match(nil, nil, match.Options{}); ok {
		t.Error("nil node should not match")
	}
	if _, ok := match.Match(&syntax.Node{Type: syntax.Lvar, Value: "foo"}, nil, match.Options{}); ok {
		t.Error("lvar should not match")
	}
	// A malformed tree with unknown node types must not panic.
	odd := &syntax.Node{
		Type:     syntax.Send,
		Receiver: &syntax.Node{Type: syntax.Send, Method: "expect", Args: []*syntax.Node{{Type: "weird"}}},
		Method:   "to",
		Args:     []*syntax.Node{{Type: "weird"}},
	}
	if _, ok := match.Match(odd, nil, match.Options{}); ok {
		t.Error("unknown matcher node should not match")
	}
}
