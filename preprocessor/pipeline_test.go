package preprocessor_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nberlette/gas-preprocessor/preprocessor"
)

func TestProcessor_MacroExpansionEndToEnd(t *testing.T) {
	p := preprocessor.NewProcessor(preprocessor.Options{Arch: preprocessor.ARM})
	out, err := p.Run([]string{
		".macro double reg",
		"add \\reg, \\reg, \\reg",
		".endm",
		"double r0",
	})
	require.NoError(t, err)
	assert.Contains(t, strings.Join(out, "\n"), "add r0, r0, r0")
}

func TestProcessor_RepetitionEndToEnd(t *testing.T) {
	p := preprocessor.NewProcessor(preprocessor.Options{Arch: preprocessor.ARM})
	out, err := p.Run([]string{".rept 3", "nop", ".endr"})
	require.NoError(t, err)

	count := 0
	for _, l := range out {
		if strings.TrimSpace(l) == "nop" {
			count++
		}
	}
	assert.Equal(t, 3, count, "expected three nop lines, got %v", out)
}

func TestProcessor_LiteralPoolDrainsAtLtorgAndEOF(t *testing.T) {
	p := preprocessor.NewProcessor(preprocessor.Options{Arch: preprocessor.ARM})
	out, err := p.Run([]string{
		"ldr r0, =0xdeadbeef",
		"ldr r1, =0xdeadbeef",
		".ltorg",
		"ldr r2, =0xcafef00d",
	})
	require.NoError(t, err)

	joined := strings.Join(out, "\n")
	assert.Equal(t, 1, strings.Count(joined, "0xdeadbeef"),
		"shared literal should be drained exactly once at .ltorg:\n%s", joined)
	assert.Equal(t, 1, strings.Count(joined, "0xcafef00d"),
		"second literal should be flushed at end of stream:\n%s", joined)
}

func TestProcessor_PowerPCSPRAndRelocationEndToEnd(t *testing.T) {
	p := preprocessor.NewProcessor(preprocessor.Options{Arch: preprocessor.PowerPC})
	out, err := p.Run([]string{
		"mfctr 3",
		"mtvrsave 4",
		"lis 5, sym@ha",
		"addi 5, 5, sym@l",
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(out), 4)

	assert.Equal(t, "mfspr 3, 9", strings.TrimSpace(out[0]))
	assert.Equal(t, "mtspr 256, 4", strings.TrimSpace(out[1]))
	assert.Contains(t, out[2], "ha16(sym)")
	assert.Contains(t, out[3], "lo16(sym)")
}

func TestProcessor_ConditionalAssemblyEndToEnd(t *testing.T) {
	p := preprocessor.NewProcessor(preprocessor.Options{Arch: preprocessor.ARM})
	out, err := p.Run([]string{
		".if 1",
		"kept",
		".else",
		"dropped",
		".endif",
	})
	require.NoError(t, err)

	joined := strings.Join(out, "\n")
	assert.Contains(t, joined, "kept")
	assert.NotContains(t, joined, "dropped")
}

func TestProcessor_UnsupportedSectionNameRejected(t *testing.T) {
	p := preprocessor.NewProcessor(preprocessor.Options{Arch: preprocessor.ARM})
	_, err := p.Run([]string{".section notmacho"})
	require.Error(t, err)
}

func TestProcessor_GlobalAliasAndCommentStripping(t *testing.T) {
	p := preprocessor.NewProcessor(preprocessor.Options{Arch: preprocessor.ARM})
	out, err := p.Run([]string{
		".global foo @ exported entry point",
	})
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, ".globl foo", strings.TrimSpace(out[0]))
}

func TestProcessor_AllowNonMachOSectionsRelaxesRejection(t *testing.T) {
	p := preprocessor.NewProcessor(preprocessor.Options{Arch: preprocessor.ARM, AllowNonMachOSections: true})
	_, err := p.Run([]string{".section notmacho"})
	require.NoError(t, err)
}

func TestProcessor_ExtraAliasesConfigDriven(t *testing.T) {
	p := preprocessor.NewProcessor(preprocessor.Options{
		Arch:         preprocessor.ARM,
		ExtraAliases: map[string]string{".word": ".long"},
	})
	out, err := p.Run([]string{".word 42"})
	require.NoError(t, err)
	assert.Equal(t, ".long 42", strings.TrimSpace(out[0]))
}

func TestProcessor_LiteralPrefixConfigDriven(t *testing.T) {
	p := preprocessor.NewProcessor(preprocessor.Options{Arch: preprocessor.ARM, LiteralPrefix: "Pool"})
	out, err := p.Run([]string{"ldr r0, =0x1"})
	require.NoError(t, err)
	assert.Contains(t, strings.Join(out, "\n"), ".Pool_0")
}
