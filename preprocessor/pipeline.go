package preprocessor

import (
	"fmt"
	"strings"
)

// Options configures one run of the pipeline.
type Options struct {
	Arch     ArchTag
	FixUnreq bool

	// LiteralPrefix overrides the default "Literal" literal-pool label
	// stem (config's pipeline.literal_label_prefix). Empty keeps the
	// default.
	LiteralPrefix string
	// AllowNonMachOSections relaxes the default rejection of a
	// `.section` name lacking the Mach-O two-part form (config's
	// pipeline.reject_non_macho_sections, inverted so the zero value
	// of Options keeps the out-of-the-box rejecting behavior).
	AllowNonMachOSections bool
	// ExtraAliases are project-specific directive rewrites layered on
	// top of the fixed .global/.rodata/.int/.float set (config's
	// aliases.directives).
	ExtraAliases map[string]string

	// Verbose logs pass transitions to stderr as the pipeline runs:
	// each macro definition/expansion, each repetition begin/end, and
	// each conditional-stack push (config's logging.verbose).
	Verbose bool
}

// Processor owns the shared state across the three passes for one
// input: the macro table, section stack, literal pool, and conditional
// stack. There is no process-wide static state — every run constructs
// its own Processor, so nothing leaks between files.
type Processor struct {
	opts Options
	pool *LiteralPool
}

func NewProcessor(opts Options) *Processor {
	return &Processor{opts: opts, pool: NewLiteralPool(opts.LiteralPrefix)}
}

func (p *Processor) normOptions() NormOptions {
	return NormOptions{ExtraAliases: p.opts.ExtraAliases, RejectBadSections: !p.opts.AllowNonMachOSections}
}

// Stage is one named step of a Processor run, captured for interactive
// inspection: its output lines plus a text snapshot of whatever
// component state changed during the step.
type Stage struct {
	Name  string
	Lines []string
	State string
}

// RunStages drives the same four steps as Run but returns the
// intermediate output and a state snapshot after each one, so a caller
// (the inspect package's stepping browser) can show how the macro
// table, section stack, literal pool, and conditional depth evolve
// pass by pass instead of only seeing the final result.
func (p *Processor) RunStages(lines []string) ([]Stage, error) {
	var stages []Stage

	normalized, err := Normalize(lines, p.opts.Arch, p.normOptions())
	if err != nil {
		return nil, err
	}
	stages = append(stages, Stage{Name: "Normalize", Lines: normalized})

	engine := NewEngine()
	engine.Verbose = p.opts.Verbose
	expanded, err := engine.Run(normalized)
	if err != nil {
		return nil, err
	}
	stages = append(stages, Stage{
		Name:  "Macro expansion",
		Lines: expanded,
		State: "defined macros: " + strings.Join(engine.Macros().Names(), ", "),
	})

	rewriter := NewRewriter(p.opts.Arch, p.opts.FixUnreq, p.pool)
	rewriter.Verbose = p.opts.Verbose
	rewritten, err := rewriter.Run(expanded)
	if err != nil {
		return nil, err
	}
	stages = append(stages, Stage{
		Name:  "Repetition & architecture rewrite",
		Lines: rewritten,
		State: fmt.Sprintf("sections: %s | pending literals: %s",
			strings.Join(rewriter.Sections.Entries(), " -> "),
			strings.Join(p.pool.Pending(), ", ")),
	})

	filter := NewFilter()
	filter.Verbose = p.opts.Verbose
	filtered, err := filter.Run(rewritten)
	if err != nil {
		return nil, err
	}
	out := append([]string(nil), filtered...)
	out = append(out, ".text")
	out = append(out, p.pool.Drain()...)
	stages = append(stages, Stage{
		Name:  "Conditional filter",
		Lines: out,
		State: fmt.Sprintf("unclosed .if depth at exit: %d", filter.Depth()),
	})

	return stages, nil
}

// Run pushes lines through Normalize -> macro Engine -> Rewriter ->
// Filter, then appends the trailing `.text` and any literals still
// pending in the pool.
func (p *Processor) Run(lines []string) ([]string, error) {
	normalized, err := Normalize(lines, p.opts.Arch, p.normOptions())
	if err != nil {
		return nil, err
	}

	engine := NewEngine()
	engine.Verbose = p.opts.Verbose
	expanded, err := engine.Run(normalized)
	if err != nil {
		return nil, err
	}

	rewriter := NewRewriter(p.opts.Arch, p.opts.FixUnreq, p.pool)
	rewriter.Verbose = p.opts.Verbose
	rewritten, err := rewriter.Run(expanded)
	if err != nil {
		return nil, err
	}

	filter := NewFilter()
	filter.Verbose = p.opts.Verbose
	filtered, err := filter.Run(rewritten)
	if err != nil {
		return nil, err
	}

	out := append([]string(nil), filtered...)
	out = append(out, ".text")
	out = append(out, p.pool.Drain()...)
	return out, nil
}
