package match

import (
	"slices"

	"github.com/unbound-force/stubmock/internal/syntax"
	"github.com/unbound-force/stubmock/internal/taxonomy"
)

// inspectChain walks a matcher chain from its outermost link down to
// the stub verb at its root. It returns the verb and the first response
// configuration seen; ok is false when the chain does not root at a
// stub verb or is exempt.
func inspectChain(n *syntax.Node, opts Options) (taxonomy.StubVerb, taxonomy.ResponseKind, bool) {
	responseMethods := opts.ResponseMethods
	if len(responseMethods) == 0 {
		responseMethods = DefaultResponseMethods
	}

	response := taxonomy.ResponseNone
	record := func(k taxonomy.ResponseKind) {
		if response == taxonomy.ResponseNone {
			response = k
		}
	}

	for cur := n; cur != nil; {
		switch {
		case cur.IsBlock():
			// A block reading its arguments inspects the call rather
			// than canning a value.
			if cur.DeclaresParams() {
				return "", "", false
			}
			record(taxonomy.ReturnBlock)
			cur = cur.Call

		case cur.IsCall() && cur.Receiver == nil:
			verb, ok := taxonomy.VerbOf(cur.Method)
			if !ok {
				return "", "", false
			}
			if cur.HasBlockPass() {
				record(taxonomy.BlockPassed)
			}
			if hasInlineValues(verb, cur) {
				record(taxonomy.InlineValues)
			}
			return verb, response, true

		case cur.IsCall():
			switch {
			case slices.Contains(responseMethods, cur.Method):
				record(taxonomy.AndReturn)
			case taxonomy.IsCountModifier(cur.Method):
				if opts.SkipCountModifiers {
					return "", "", false
				}
			}
			if cur.HasBlockPass() {
				record(taxonomy.BlockPassed)
			}
			cur = cur.Receiver

		default:
			return "", "", false
		}
	}
	return "", "", false
}

// hasInlineValues reports whether a receive_messages or
// receive_message_chain call passes its return values as a hash.
func hasInlineValues(verb taxonomy.StubVerb, call *syntax.Node) bool {
	args := call.ValueArgs()
	if len(args) == 0 {
		return false
	}
	switch verb {
	case taxonomy.ReceiveMessages:
		return slices.ContainsFunc(args, func(a *syntax.Node) bool {
			return a.Type == syntax.Hash
		})
	case taxonomy.ReceiveMessageChain:
		return args[len(args)-1].Type == syntax.Hash
	default:
		return false
	}
}
