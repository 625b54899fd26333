package preprocessor

import (
	"regexp"
	"strings"
)

type repKind int

const (
	repRPT repKind = iota
	repIRP
	repIRPC
)

// repetitionContext is the single active `.rept`/`.irp`/`.irpc` block.
// Nesting is not supported: starting a second one while the first is
// open is an error.
type repetitionContext struct {
	kind  repKind
	count int64
	param string
	args  []string
	body  []string
}

var (
	reRept = regexp.MustCompile(`^\s*\.rept\b(.*)$`)
	reIrpc = regexp.MustCompile(`^\s*\.irpc\b(.*)$`)
	reIrp  = regexp.MustCompile(`^\s*\.irp\b(.*)$`)
	reEndr = regexp.MustCompile(`^\s*\.endr\b`)
)

// beginRepetition parses a `.rept`/`.irp`/`.irpc` header line.
func beginRepetition(line string) (*repetitionContext, error) {
	switch {
	case reIrpc.MatchString(line):
		rest := strings.ReplaceAll(reIrpc.FindStringSubmatch(line)[1], ",", " ")
		fields := strings.Fields(rest)
		if len(fields) < 2 {
			return nil, NewError(MalformedInput, ".irpc requires a parameter and a string", line)
		}
		return &repetitionContext{kind: repIRPC, param: fields[0], args: strings.Split(fields[1], "")}, nil

	case reIrp.MatchString(line):
		rest := strings.ReplaceAll(reIrp.FindStringSubmatch(line)[1], ",", " ")
		fields := strings.Fields(rest)
		if len(fields) < 1 {
			return nil, NewError(MalformedInput, ".irp requires a parameter", line)
		}
		return &repetitionContext{kind: repIRP, param: fields[0], args: fields[1:]}, nil

	case reRept.MatchString(line):
		rest := strings.TrimSpace(reRept.FindStringSubmatch(line)[1])
		countExpr, trailer := rest, ""
		if i := strings.IndexAny(rest, " \t"); i >= 0 {
			countExpr, trailer = rest[:i], strings.TrimSpace(rest[i+1:])
		}
		ctx := &repetitionContext{kind: repRPT, count: Eval(countExpr)}
		if trailer != "" {
			ctx.body = append(ctx.body, trailer)
		}
		return ctx, nil
	}
	return nil, nil
}

func isRepetitionBegin(line string) bool {
	return reRept.MatchString(line) || reIrp.MatchString(line) || reIrpc.MatchString(line)
}

// materialize expands the accumulated body per the repetition kind.
func (ctx *repetitionContext) materialize() []string {
	switch ctx.kind {
	case repRPT:
		if ctx.count <= 0 {
			return nil
		}
		out := make([]string, 0, len(ctx.body)*int(ctx.count))
		for i := int64(0); i < ctx.count; i++ {
			out = append(out, ctx.body...)
		}
		return out
	default: // repIRP, repIRPC
		var out []string
		for _, val := range ctx.args {
			for _, line := range ctx.body {
				line = strings.ReplaceAll(line, `\`+ctx.param, val)
				line = strings.ReplaceAll(line, `\()`, "")
				out = append(out, line)
			}
		}
		return out
	}
}
