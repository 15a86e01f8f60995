// Package match recognizes expectation-based stubs: a strict
// expectation (expect, is_expected, are_expected,
// expect_any_instance_of) whose matcher configures a canned response
// instead of only verifying the call.
package match

import (
	"github.com/unbound-force/stubmock/internal/syntax"
	"github.com/unbound-force/stubmock/internal/taxonomy"
)

// Options tunes the matcher.
type Options struct {
	// ResponseMethods are the chained methods that configure a
	// response. Defaults to and_return when empty.
	ResponseMethods []string

	// SkipCountModifiers makes chains containing order or count
	// modifiers (.once, .ordered, ...) never match.
	SkipCountModifiers bool
}

// DefaultResponseMethods is used when Options.ResponseMethods is empty.
var DefaultResponseMethods = []string{"and_return"}

// Hit describes a matched expectation-based stub.
type Hit struct {
	Variant  taxonomy.ReceiverVariant
	Verb     taxonomy.StubVerb
	Response taxonomy.ResponseKind

	// Span covers the receiver construct only.
	Span syntax.Range
}

// Match reports whether call is "<receiver>.to <matcher-chain>" with a
// strict-expectation receiver and a stub verb chain that configures a
// response. block is the block attached to call (a do...end block
// binds to .to rather than to the matcher), or nil.
//
// Chains rooted at have_received or any other matcher, allow-style
// receivers, and chains with a block that declares parameters never
// match.
func Match(call, block *syntax.Node, opts Options) (Hit, bool) {
	if !call.IsCall() || call.Method != "to" || len(call.ValueArgs()) != 1 {
		return Hit{}, false
	}

	variant, ok := receiverVariant(call.Receiver)
	if !ok {
		return Hit{}, false
	}

	verb, response, ok := inspectChain(call.ValueArgs()[0], opts)
	if !ok {
		return Hit{}, false
	}

	if block != nil {
		if block.DeclaresParams() {
			return Hit{}, false
		}
		if response == taxonomy.ResponseNone {
			response = taxonomy.ReturnBlock
		}
	}
	if response == taxonomy.ResponseNone && call.HasBlockPass() {
		response = taxonomy.BlockPassed
	}

	if response == taxonomy.ResponseNone {
		return Hit{}, false
	}

	return Hit{
		Variant:  variant,
		Verb:     verb,
		Response: response,
		Span:     call.Receiver.Range,
	}, true
}

// receiverVariant classifies the receiver of .to.
func receiverVariant(n *syntax.Node) (taxonomy.ReceiverVariant, bool) {
	if !n.IsCall() || n.Receiver != nil {
		return "", false
	}
	args := len(n.ValueArgs())
	switch {
	case n.Method == "expect" && args == 1:
		return taxonomy.ExpectCall, true
	case n.Method == "is_expected" && len(n.Args) == 0:
		return taxonomy.IsExpected, true
	case n.Method == "are_expected" && len(n.Args) == 0:
		return taxonomy.AreExpected, true
	case n.Method == "expect_any_instance_of" && args == 1:
		return taxonomy.ExpectAnyInstanceOf, true
	default:
		return "", false
	}
}
