package preprocessor_test

import (
	"strings"
	"testing"

	"github.com/nberlette/gas-preprocessor/preprocessor"
)

func TestNormalize_StripsComments(t *testing.T) {
	out, err := preprocessor.Normalize([]string{"mov r0, r1 @ comment text"}, preprocessor.ARM)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if strings.Contains(out[0], "comment") {
		t.Errorf("expected comment stripped, got %q", out[0])
	}
}

func TestNormalize_FullLineCommentCollapsesToEmpty(t *testing.T) {
	line := "@ this whole line is a comment"
	out, err := preprocessor.Normalize([]string{line}, preprocessor.ARM)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if strings.TrimSpace(out[0]) != "" {
		t.Errorf("expected fully-commented line to collapse to empty, got %q", out[0])
	}
}

func TestNormalize_CommentsOutRejectedDirectives(t *testing.T) {
	out, err := preprocessor.Normalize([]string{".type foo,%function"}, preprocessor.ARM)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if !strings.HasPrefix(strings.TrimLeft(out[0], " \t"), "@") {
		t.Errorf("expected .type to be commented out, got %q", out[0])
	}
}

func TestNormalize_LtorgSurvivesUncommented(t *testing.T) {
	out, err := preprocessor.Normalize([]string{".ltorg"}, preprocessor.ARM)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if out[0] != ".ltorg" {
		t.Errorf("expected .ltorg untouched by Pass 1a, got %q", out[0])
	}
}

func TestNormalize_AliasRewrites(t *testing.T) {
	cases := map[string]string{
		".global foo": ".globl foo",
		".int 42":     ".long 42",
		".float 1.5":  ".single 1.5",
	}
	for in, want := range cases {
		out, err := preprocessor.Normalize([]string{in}, preprocessor.ARM)
		if err != nil {
			t.Fatalf("Normalize(%q) failed: %v", in, err)
		}
		if out[0] != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, out[0], want)
		}
	}
}

func TestNormalize_RodataBecomesConstData(t *testing.T) {
	out, err := preprocessor.Normalize([]string{".section __TEXT,__rodata"}, preprocessor.ARM)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if strings.TrimSpace(out[0]) != ".const_data" {
		t.Errorf("expected .const_data, got %q", out[0])
	}
}

func TestNormalize_RejectsNonMachOSection(t *testing.T) {
	_, err := preprocessor.Normalize([]string{".section .text"}, preprocessor.ARM)
	if err == nil {
		t.Fatal("expected error for non-Mach-O section name")
	}
}

func TestNormalize_ExtraAliasesFromOptions(t *testing.T) {
	out, err := preprocessor.Normalize([]string{".word 42"}, preprocessor.ARM, preprocessor.NormOptions{
		ExtraAliases:      map[string]string{".word": ".long"},
		RejectBadSections: true,
	})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if strings.TrimSpace(out[0]) != ".long 42" {
		t.Errorf("expected extra alias rewrite, got %q", out[0])
	}
}

func TestNormalize_RejectBadSectionsCanBeDisabled(t *testing.T) {
	out, err := preprocessor.Normalize([]string{".section notmacho"}, preprocessor.ARM, preprocessor.NormOptions{
		RejectBadSections: false,
	})
	if err != nil {
		t.Fatalf("expected no error with RejectBadSections=false, got %v", err)
	}
	if strings.TrimSpace(out[0]) != ".section notmacho" {
		t.Errorf("expected section line passed through unchanged, got %q", out[0])
	}
}

func TestNormalize_PowerPCCommentChar(t *testing.T) {
	out, err := preprocessor.Normalize([]string{"add 3, 4, 5 # comment"}, preprocessor.PowerPC)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if strings.Contains(out[0], "comment") {
		t.Errorf("expected PowerPC comment stripped, got %q", out[0])
	}
}
