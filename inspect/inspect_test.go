package inspect_test

import (
	"strings"
	"testing"

	"github.com/nberlette/gas-preprocessor/inspect"
	"github.com/nberlette/gas-preprocessor/preprocessor"
)

func TestDumpStages_ListsEveryPassInOrder(t *testing.T) {
	p := preprocessor.NewProcessor(preprocessor.Options{Arch: preprocessor.ARM})
	stages, err := p.RunStages([]string{
		".macro double reg",
		"add \\reg, \\reg, \\reg",
		".endm",
		"double r0",
	})
	if err != nil {
		t.Fatalf("RunStages failed: %v", err)
	}

	dump := inspect.DumpStages(stages)

	wantOrder := []string{"Normalize", "Macro expansion", "Repetition & architecture rewrite", "Conditional filter"}
	lastIdx := -1
	for _, name := range wantOrder {
		idx := strings.Index(dump, name)
		if idx < 0 {
			t.Fatalf("expected dump to mention stage %q, got:\n%s", name, dump)
		}
		if idx < lastIdx {
			t.Errorf("stage %q appeared out of order", name)
		}
		lastIdx = idx
	}

	if !strings.Contains(dump, "add r0, r0, r0") {
		t.Errorf("expected expanded macro body in dump, got:\n%s", dump)
	}
	if !strings.Contains(dump, "defined macros: double") {
		t.Errorf("expected macro table state in dump, got:\n%s", dump)
	}
}

func TestDumpStages_EmptyStagesProducesEmptyOutput(t *testing.T) {
	if got := inspect.DumpStages(nil); got != "" {
		t.Errorf("expected empty string for no stages, got %q", got)
	}
}
