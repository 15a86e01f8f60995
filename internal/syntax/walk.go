package syntax

// Visitor is called for every non-block node in source order. block is
// the block attached to n when n is the call a block wraps, and nil
// otherwise. Returning false skips n's children.
type Visitor func(n, block *Node) bool

// Walk traverses the tree rooted at root in source order (receiver
// before arguments, call before block body). Block nodes are not
// visited themselves; their call is visited with the block attached so
// that every call is seen exactly once.
func Walk(root *Node, visit Visitor) {
	walk(root, nil, visit)
}

func walk(n, block *Node, visit Visitor) {
	if n == nil {
		return
	}
	if n.IsBlock() {
		walk(n.Call, n, visit)
		walk(n.Body, nil, visit)
		return
	}
	if !visit(n, block) {
		return
	}
	walk(n.Receiver, nil, visit)
	for _, a := range n.Args {
		walk(a, nil, visit)
	}
	walk(n.Call, nil, visit)
	walk(n.Body, nil, visit)
	for _, c := range n.Children {
		walk(c, nil, visit)
	}
}

// Calls returns every call node under root in source order together
// with its attached block.
func Calls(root *Node) []CallSite {
	var sites []CallSite
	Walk(root, func(n, block *Node) bool {
		if n.IsCall() {
			sites = append(sites, CallSite{Call: n, Block: block})
		}
		return true
	})
	return sites
}

// CallSite pairs a call node with the block attached to it, if any.
type CallSite struct {
	Call  *Node
	Block *Node
}
