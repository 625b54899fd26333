package preprocessor

import (
	"regexp"
	"strings"
)

// commentOutDirectives are directives the downstream assembler rejects
// outright; Pass 1a neutralizes them by prefixing the comment
// character so they become inert text. `.ltorg` is deliberately absent
// here even though section 6 lists it among the commented-out
// directives: Pass 2 still needs to see it verbatim to drain the
// literal pool, and once Pass 2 rewrites it to the drained `.word`
// entries nothing named `.ltorg` survives to reach the assembler
// anyway, which is the same end state a comment-out would produce.
var commentOutDirectives = []string{
	".type", ".func", ".endfunc", ".size", ".fpu", ".arch", ".object_arch",
}

var (
	reGlobal  = regexp.MustCompile(`\.global\b`)
	reInt     = regexp.MustCompile(`\.int\b`)
	reFloat   = regexp.MustCompile(`\.float\b`)
	reSection = regexp.MustCompile(`^(\s*)\.section\s+(\S.*)$`)
)

// NormOptions tunes Pass 1a beyond the fixed built-in alias/rejection
// rules, backing config's pipeline.reject_non_macho_sections and
// aliases.directives settings. The zero value is not the default for
// callers that omit it entirely: Normalize without a NormOptions
// argument behaves as if RejectBadSections were true, matching gas-
// preprocessor's own out-of-the-box behavior.
type NormOptions struct {
	// ExtraAliases rewrites whole-word directive names beyond the
	// fixed .global/.rodata/.int/.float set, e.g. a project-specific
	// ".word" -> ".long" quirk.
	ExtraAliases map[string]string
	// RejectBadSections controls whether a non-Mach-O `.section` name
	// is a fatal UnsupportedConstruct error or passed through as-is.
	RejectBadSections bool
}

// Normalize runs Pass 1a over the whole input: strip comments,
// comment-out unsupported directives, rewrite alias directives, and
// reject non-Mach-O `.section` names. An optional NormOptions supplies
// config-driven extra aliases and relaxes section-name rejection.
func Normalize(lines []string, arch ArchTag, opts ...NormOptions) ([]string, error) {
	o := NormOptions{RejectBadSections: true}
	if len(opts) > 0 {
		o = opts[0]
	}

	commentChar := string(arch.CommentChar())
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		stripped := stripComment(line, arch.CommentChar())

		rewritten, err := normalizeLine(stripped, commentChar, o)
		if err != nil {
			return nil, err
		}
		out = append(out, rewritten)
	}
	return out, nil
}

func stripComment(line string, commentChar byte) string {
	if idx := strings.IndexByte(line, commentChar); idx >= 0 {
		return line[:idx]
	}
	return line
}

func normalizeLine(line, commentChar string, o NormOptions) (string, error) {
	if m := reSection.FindStringSubmatch(line); m != nil {
		indent, name := m[1], m[2]
		if strings.Contains(strings.ToLower(name), "rodata") {
			return indent + ".const_data", nil
		}
		if o.RejectBadSections && !strings.Contains(name, ",") {
			return "", NewError(UnsupportedConstruct, ".section name must be a Mach-O two-part form (__SEGMENT,__section)", line)
		}
	}

	for _, directive := range commentOutDirectives {
		if idx := strings.Index(line, directive); idx >= 0 {
			line = line[:idx] + commentChar + line[idx:]
			break
		}
	}

	line = reGlobal.ReplaceAllString(line, ".globl")
	line = reInt.ReplaceAllString(line, ".long")
	line = reFloat.ReplaceAllString(line, ".single")

	for from, to := range o.ExtraAliases {
		line = regexp.MustCompile(regexp.QuoteMeta(from) + `\b`).ReplaceAllString(line, to)
	}

	return line, nil
}
