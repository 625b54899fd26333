package preprocessor

import (
	"fmt"
	"regexp"
)

var (
	rePPCHa = regexp.MustCompile(`,(\s*)([^\s,]+)@ha\b`)
	rePPCLo = regexp.MustCompile(`,(\s*)([^\s,]+)@l\b`)
)

// rewritePPCRelocations rewrites the `@l`/`@ha` relocation suffixes gas
// accepts on PowerPC operands into the `lo16()`/`ha16()` forms Apple's
// assembler expects.
func rewritePPCRelocations(line string) string {
	line = rePPCHa.ReplaceAllString(line, `,${1}ha16(${2})`)
	line = rePPCLo.ReplaceAllString(line, `,${1}lo16(${2})`)
	return line
}

// sprNumbers is the known Special-Purpose-Register table for the
// symbolic `mfspr`/`mtspr` forms gas accepts as `mfNAME`/`mtNAME`.
var sprNumbers = map[string]int{
	"ctr":    9,
	"vrsave": 256,
}

var (
	reMfSPR = regexp.MustCompile(`(?i)^(\s*)mf(ctr|vrsave)\s+(\S+)\s*$`)
	reMtSPR = regexp.MustCompile(`(?i)^(\s*)mt(ctr|vrsave)\s+(\S+)\s*$`)
)

// rewritePPCSPR rewrites the symbolic `mfNAME Rd`/`mtNAME Rs` forms to
// `mfspr Rd, NUM`/`mtspr NUM, Rs`. The operand ordering differs between
// the two: `mtspr` takes the numeric SPR first, `mfspr` takes it last.
func rewritePPCSPR(line string) string {
	if m := reMfSPR.FindStringSubmatch(line); m != nil {
		num := sprNumbers[lowerASCII(m[2])]
		return fmt.Sprintf("%smfspr %s, %d", m[1], m[3], num)
	}
	if m := reMtSPR.FindStringSubmatch(line); m != nil {
		num := sprNumbers[lowerASCII(m[2])]
		return fmt.Sprintf("%smtspr %d, %s", m[1], num, m[3])
	}
	return line
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
