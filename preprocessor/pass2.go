package preprocessor

import "log"

// Rewriter is Pass 2: repetition expansion plus the architecture-
// specific rewrites, sharing a SectionStack and a LiteralPool with the
// rest of the pipeline (the LiteralPool outlives Pass 2 — its
// remaining entries are flushed after Pass 3 completes).
type Rewriter struct {
	Arch     ArchTag
	FixUnreq bool

	Sections *SectionStack
	Pool     *LiteralPool

	rep *repetitionContext

	// Verbose gates logging of repetition begin/end to stderr, the way
	// main.go's -verbose flag gates its own log.Printf calls.
	Verbose bool
}

func NewRewriter(arch ArchTag, fixUnreq bool, pool *LiteralPool) *Rewriter {
	return &Rewriter{
		Arch:     arch,
		FixUnreq: fixUnreq,
		Sections: NewSectionStack(),
		Pool:     pool,
	}
}

func (r *Rewriter) logf(format string, args ...interface{}) {
	if r.Verbose {
		log.Printf(format, args...)
	}
}

func repKindName(k repKind) string {
	switch k {
	case repRPT:
		return ".rept"
	case repIRP:
		return ".irp"
	case repIRPC:
		return ".irpc"
	default:
		return "repetition"
	}
}

// Run expands `.rept`/`.irp`/`.irpc`, tracks the section stack, and
// applies the architecture rewrites, over the Pass 1 output. Repetition
// bodies are materialized back onto the front of the work queue so the
// rewrites below also apply to the lines they produce.
func (r *Rewriter) Run(lines []string) ([]string, error) {
	queue := append([]string(nil), lines...)
	var out []string

	for len(queue) > 0 {
		line := queue[0]
		queue = queue[1:]

		if r.rep != nil {
			if reEndr.MatchString(line) {
				materialized := r.rep.materialize()
				r.logf("%s: end, materialized %d lines from %d body lines", repKindName(r.rep.kind), len(materialized), len(r.rep.body))
				r.rep = nil
				queue = append(materialized, queue...)
				continue
			}
			if isRepetitionBegin(line) {
				return nil, NewError(UnsupportedConstruct, "nested .rept/.irp/.irpc is not supported", line)
			}
			r.rep.body = append(r.rep.body, line)
			continue
		}

		if isRepetitionBegin(line) {
			ctx, err := beginRepetition(line)
			if err != nil {
				return nil, err
			}
			r.logf("%s: begin", repKindName(ctx.kind))
			r.rep = ctx
			continue
		}

		produced, err := r.rewriteLine(line)
		if err != nil {
			return nil, err
		}
		out = append(out, produced...)
	}

	return out, nil
}

func (r *Rewriter) rewriteLine(line string) ([]string, error) {
	if rePrevious.MatchString(line) {
		resolved, err := r.Sections.Previous()
		if err != nil {
			return nil, err
		}
		return []string{resolved}, nil
	}
	if reSectionDirective.MatchString(line) {
		r.Sections.Push(line)
		return []string{line}, nil
	}

	if reLtorg.MatchString(line) {
		return r.Pool.Drain(), nil
	}

	if r.Arch == ARM {
		if rewritten, ok := rewriteARMLiteral(line, r.Pool); ok {
			line = rewritten
		}
		if r.FixUnreq {
			return rewriteUnreq(line), nil
		}
		return []string{line}, nil
	}

	// PowerPC
	line = rewritePPCRelocations(line)
	line = rewritePPCSPR(line)
	return []string{line}, nil
}
