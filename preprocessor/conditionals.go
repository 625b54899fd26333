package preprocessor

import (
	"log"
	"regexp"
	"strings"
)

// condState is the tri-state value of one `.if` nesting level. Modeled
// on the skip-stack state machine in the teacher's
// parser/preprocessor.go conditional-assembly handling, generalized
// from a single bool to the three-way TRUE/FALSE/STICKY_FALSE the gas
// `.elseif` chain needs.
type condState int

const (
	condTrue condState = iota
	condFalse
	condStickyFalse
)

var (
	reIfc     = regexp.MustCompile(`^\s*\.ifc\s+(.*)$`)
	reIfnc    = regexp.MustCompile(`^\s*\.ifnc\s+(.*)$`)
	reIfb     = regexp.MustCompile(`^\s*\.ifb\s+(.*)$`)
	reIfnb    = regexp.MustCompile(`^\s*\.ifnb\s+(.*)$`)
	reIfeq    = regexp.MustCompile(`^\s*\.ifeq\s+(.*)$`)
	reIflt    = regexp.MustCompile(`^\s*\.iflt\s+(.*)$`)
	reIfle    = regexp.MustCompile(`^\s*\.ifle\s+(.*)$`)
	reIfgt    = regexp.MustCompile(`^\s*\.ifgt\s+(.*)$`)
	reIfge    = regexp.MustCompile(`^\s*\.ifge\s+(.*)$`)
	reIfn     = regexp.MustCompile(`^\s*\.ifn\s+(.*)$`)
	reIfe     = regexp.MustCompile(`^\s*\.ife\s+(.*)$`)
	reIf      = regexp.MustCompile(`^\s*\.if\s+(.*)$`)
	reIfne    = regexp.MustCompile(`^\s*\.ifne\b`)
	reElseif  = regexp.MustCompile(`^\s*\.elseif\s+(.*)$`)
	reElse    = regexp.MustCompile(`^\s*\.else\b`)
	reEndif   = regexp.MustCompile(`^\s*\.endif\b`)
	reUnknown = regexp.MustCompile(`^\s*\.if\w+\b`)
)

// Filter is Pass 3: it evaluates the `.if` family and emits only lines
// inside truthy branches.
type Filter struct {
	stack []condState

	// Verbose gates logging of conditional-stack pushes to stderr, the
	// way main.go's -verbose flag gates its own log.Printf calls.
	Verbose bool
}

func NewFilter() *Filter {
	return &Filter{}
}

func (f *Filter) logf(format string, args ...interface{}) {
	if f.Verbose {
		log.Printf(format, args...)
	}
}

// Depth returns the current `.if` nesting depth, for introspection.
func (f *Filter) Depth() int {
	return len(f.stack)
}

func (f *Filter) allTrue() bool {
	for _, s := range f.stack {
		if s != condTrue {
			return false
		}
	}
	return true
}

// Run filters the Pass 2 output through the conditional stack.
func (f *Filter) Run(lines []string) ([]string, error) {
	var out []string
	for _, line := range lines {
		isDirective, err := f.evalDirective(line)
		if err != nil {
			return nil, err
		}
		if !isDirective && f.allTrue() {
			out = append(out, line)
		}
	}
	if len(f.stack) > 0 {
		return nil, NewError(MalformedInput, "unclosed .if at end of input", "")
	}
	return out, nil
}

// evalDirective handles one `.if`-family directive, mutating the stack.
// isDirective is false for any ordinary (non-`.if`-family) line.
func (f *Filter) evalDirective(line string) (isDirective bool, err error) {
	switch {
	case reElseif.MatchString(line):
		if len(f.stack) == 0 {
			return true, NewError(UnsupportedConstruct, ".elseif without matching .if", line)
		}
		expr := reElseif.FindStringSubmatch(line)[1]
		top := len(f.stack) - 1
		switch f.stack[top] {
		case condTrue:
			f.stack[top] = condStickyFalse
		case condFalse:
			if Eval(expr) != 0 {
				f.stack[top] = condTrue
			}
		}
		return true, nil

	case reElse.MatchString(line):
		if len(f.stack) == 0 {
			return true, NewError(UnsupportedConstruct, ".else without matching .if", line)
		}
		top := len(f.stack) - 1
		switch f.stack[top] {
		case condTrue:
			f.stack[top] = condFalse
		case condFalse:
			f.stack[top] = condTrue
		}
		return true, nil

	case reEndif.MatchString(line):
		if len(f.stack) == 0 {
			return true, NewError(UnsupportedConstruct, ".endif without matching .if", line)
		}
		f.stack = f.stack[:len(f.stack)-1]
		return true, nil

	case reIfne.MatchString(line):
		return true, NewError(UnsupportedConstruct, ".ifne is not a recognized directive", line)

	case reIfc.MatchString(line):
		truth, ok := ifcTruth(reIfc.FindStringSubmatch(line)[1], false)
		if !ok {
			return true, NewError(MalformedInput, "malformed .ifc operand list", line)
		}
		f.push(truth)
		return true, nil
	case reIfnc.MatchString(line):
		truth, ok := ifcTruth(reIfnc.FindStringSubmatch(line)[1], true)
		if !ok {
			return true, NewError(MalformedInput, "malformed .ifnc operand list", line)
		}
		f.push(truth)
		return true, nil
	case reIfb.MatchString(line):
		f.push(strings.TrimSpace(reIfb.FindStringSubmatch(line)[1]) == "")
		return true, nil
	case reIfnb.MatchString(line):
		f.push(strings.TrimSpace(reIfnb.FindStringSubmatch(line)[1]) != "")
		return true, nil
	case reIfeq.MatchString(line):
		f.push(Eval(reIfeq.FindStringSubmatch(line)[1]) == 0)
		return true, nil
	case reIflt.MatchString(line):
		f.push(Eval(reIflt.FindStringSubmatch(line)[1]) < 0)
		return true, nil
	case reIfle.MatchString(line):
		f.push(Eval(reIfle.FindStringSubmatch(line)[1]) <= 0)
		return true, nil
	case reIfgt.MatchString(line):
		f.push(Eval(reIfgt.FindStringSubmatch(line)[1]) > 0)
		return true, nil
	case reIfge.MatchString(line):
		f.push(Eval(reIfge.FindStringSubmatch(line)[1]) >= 0)
		return true, nil
	case reIfn.MatchString(line):
		f.push(Eval(reIfn.FindStringSubmatch(line)[1]) == 0)
		return true, nil
	case reIfe.MatchString(line):
		f.push(Eval(reIfe.FindStringSubmatch(line)[1]) != 0)
		return true, nil
	case reIf.MatchString(line):
		f.push(Eval(reIf.FindStringSubmatch(line)[1]) != 0)
		return true, nil

	case reUnknown.MatchString(line):
		return true, NewError(UnsupportedConstruct, "unrecognized .if variant", line)
	}

	return false, nil
}

func (f *Filter) push(truthy bool) {
	if truthy {
		f.stack = append(f.stack, condTrue)
	} else {
		f.stack = append(f.stack, condFalse)
	}
	f.logf("conditional: push %v (depth %d)", truthy, len(f.stack))
}

// ifcTruth evaluates `.ifc A,B` / `.ifnc A,B`: A equals B textually.
// ok is false when operands has no comma separating A from B.
func ifcTruth(operands string, negate bool) (truth, ok bool) {
	parts := strings.SplitN(operands, ",", 2)
	if len(parts) != 2 {
		return false, false
	}
	eq := strings.TrimSpace(parts[0]) == strings.TrimSpace(parts[1])
	if negate {
		return !eq, true
	}
	return eq, true
}
