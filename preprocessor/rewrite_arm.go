package preprocessor

import (
	"regexp"
	"strings"
)

// reLdrLiteral matches `ldr Rn, =expr` (any amount of space around the
// comma and the `=`), mirroring the `LDR Rd, =value` pseudo-instruction
// the teacher's encoder special-cases in encodeMemory/encodeLDRPseudo
// before it ever reaches real encoding.
var reLdrLiteral = regexp.MustCompile(`(?i)^(.*\bldr\s+[^,]+,\s*)=\s*(\S+)\s*$`)

// rewriteARMLiteral rewrites `ldr Rn,=expr` to a reference to the
// interned literal-pool label for expr.
func rewriteARMLiteral(line string, pool *LiteralPool) (string, bool) {
	m := reLdrLiteral.FindStringSubmatch(line)
	if m == nil {
		return line, false
	}
	return m[1] + pool.Intern(m[2]), true
}

var reUnreq = regexp.MustCompile(`^(\s*)\.unreq\s+(\S+)\s*$`)

// rewriteUnreq works around a legacy-gas quirk where `.req` registers a
// name case-insensitively but `.unreq` only removes the exact case it
// is given: emit both the lower- and upper-case `.unreq` so either
// spelling of the `.req` that created the alias is cleared.
func rewriteUnreq(line string) []string {
	m := reUnreq.FindStringSubmatch(line)
	if m == nil {
		return []string{line}
	}
	indent, op := m[1], m[2]
	lower, upper := strings.ToLower(op), strings.ToUpper(op)
	out := []string{indent + ".unreq " + lower}
	if upper != lower {
		out = append(out, indent+".unreq "+upper)
	}
	return out
}
