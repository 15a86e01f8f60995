package taxonomy

// VerbOf returns the stub verb named by method. have_received and any
// other matcher name report false.
func VerbOf(method string) (StubVerb, bool) {
	v, ok := verbMap[method]
	return v, ok
}

var verbMap = map[string]StubVerb{
	"receive":               Receive,
	"receive_messages":      ReceiveMessages,
	"receive_message_chain": ReceiveMessageChain,
}

// IsCountModifier reports whether method constrains how often or in
// which order a stubbed message is expected (.once, .ordered, ...).
func IsCountModifier(method string) bool {
	return countModifiers[method]
}

var countModifiers = map[string]bool{
	"once":     true,
	"twice":    true,
	"thrice":   true,
	"exactly":  true,
	"at_least": true,
	"at_most":  true,
	"times":    true,
	"time":     true,
	"never":    true,
	"ordered":  true,
}
