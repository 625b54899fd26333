package preprocessor_test

import (
	"testing"

	"github.com/nberlette/gas-preprocessor/preprocessor"
)

func TestLiteralPool_SharesLabelForSameExpression(t *testing.T) {
	lp := preprocessor.NewLiteralPool()
	a := lp.Intern("0xdeadbeef")
	b := lp.Intern("0xdeadbeef")
	if a != b {
		t.Errorf("expected shared label, got %q and %q", a, b)
	}
	c := lp.Intern("0xcafe")
	if c == a {
		t.Errorf("expected distinct label for distinct expression")
	}
}

func TestLiteralPool_DrainEmptiesPool(t *testing.T) {
	lp := preprocessor.NewLiteralPool()
	lp.Intern("1")
	lp.Intern("2")

	first := lp.Drain()
	if len(first) != 4 {
		t.Fatalf("expected 2 labels x 2 lines, got %v", first)
	}
	if second := lp.Drain(); second != nil {
		t.Errorf("expected empty drain after first drain, got %v", second)
	}
}

func TestLiteralPool_CustomPrefix(t *testing.T) {
	lp := preprocessor.NewLiteralPool("Pool")
	label := lp.Intern("0x1")
	if label != ".Pool_0" {
		t.Errorf("expected custom-prefixed label, got %q", label)
	}
}

func TestLiteralPool_CounterNeverResets(t *testing.T) {
	lp := preprocessor.NewLiteralPool()
	first := lp.Intern("1")
	lp.Drain()
	second := lp.Intern("2")
	if first == second {
		t.Errorf("expected distinct labels across drains, got %q and %q", first, second)
	}
}
