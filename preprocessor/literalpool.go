package preprocessor

import (
	"fmt"
	"regexp"
)

var reLtorg = regexp.MustCompile(`^\s*\.ltorg\b`)

// LiteralPool interns the `=expr` operand of ARM `ldr Rn,=expr` pseudo-
// instructions into a monotonically-numbered label, shared by every
// occurrence of the same expression. Modeled on the address-keyed
// literal pool the teacher's encoder maintains for real `ldr` encoding
// (encoder/memory.go), adapted here to a label-keyed pool for a text
// rewrite rather than a binary encoding.
type LiteralPool struct {
	labels  map[string]string
	order   []string // expressions in first-sighting order, for drain determinism
	counter int
	prefix  string
}

// NewLiteralPool constructs an empty pool. An optional prefix overrides
// the default "Literal" label stem (config's pipeline.literal_label_prefix),
// producing labels of the form ".<prefix>_<N>" instead of ".Literal_<N>".
func NewLiteralPool(prefix ...string) *LiteralPool {
	p := "Literal"
	if len(prefix) > 0 && prefix[0] != "" {
		p = prefix[0]
	}
	return &LiteralPool{labels: make(map[string]string), prefix: p}
}

// Intern returns the label for expr, creating one on first sighting.
func (lp *LiteralPool) Intern(expr string) string {
	if label, ok := lp.labels[expr]; ok {
		return label
	}
	label := fmt.Sprintf(".%s_%d", lp.prefix, lp.counter)
	lp.counter++
	lp.labels[expr] = label
	lp.order = append(lp.order, expr)
	return label
}

// Pending returns the expressions currently interned but not yet
// drained, in first-sighting order, for introspection.
func (lp *LiteralPool) Pending() []string {
	return append([]string(nil), lp.order...)
}

// Drain emits every currently-pooled entry as `label:\n .word expr\n`
// and empties the pool. Called at `.ltorg` and once more at end of
// stream; the counter is never reset across drains.
func (lp *LiteralPool) Drain() []string {
	if len(lp.order) == 0 {
		return nil
	}
	out := make([]string, 0, len(lp.order)*2)
	for _, expr := range lp.order {
		out = append(out, lp.labels[expr]+":", " .word "+expr)
	}
	lp.labels = make(map[string]string)
	lp.order = nil
	return out
}
