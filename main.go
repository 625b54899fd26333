package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/nberlette/gas-preprocessor/config"
	"github.com/nberlette/gas-preprocessor/inspect"
	"github.com/nberlette/gas-preprocessor/preprocessor"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Command-line flags
	var (
		showVersion  = flag.Bool("version", false, "Show version information")
		showHelp     = flag.Bool("help", false, "Show help information")
		archFlag     = flag.String("arch", cfg.Pipeline.Arch, "Target architecture: arm or powerpc")
		fixUnreq     = flag.Bool("fix-unreq", cfg.Pipeline.FixUnreq, "Duplicate .unreq for both register-name cases")
		verboseMode  = flag.Bool("verbose", cfg.Logging.Verbose, "Log pass transitions to stderr")
		inspectMode  = flag.Bool("inspect", false, "Launch the interactive pass-by-pass state browser instead of writing output")
		dumpMacros   = flag.Bool("dump-macros", false, "Print every pass's output and state snapshot (including macro names) and exit instead of writing output")
		dumpLiterals = flag.Bool("dump-literals", false, "Same output as -dump-macros (its state snapshots include pending literals)")
		outFile      = flag.String("o", "", "Output file (default: stdout)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("gas-preprocessor %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	arch, err := parseArch(*archFlag)
	if err != nil {
		log.Fatalf("%v", err)
	}

	lines, err := readLines(flag.Args())
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	if *verboseMode {
		log.Printf("read %d lines (arch=%s, fix-unreq=%v)", len(lines), arch, *fixUnreq)
	}

	proc := preprocessor.NewProcessor(preprocessor.Options{
		Arch:                  arch,
		FixUnreq:              *fixUnreq,
		LiteralPrefix:         cfg.Pipeline.LiteralLabelPrefix,
		AllowNonMachOSections: !cfg.Pipeline.RejectBadSections,
		ExtraAliases:          cfg.Aliases.Directives,
		Verbose:               *verboseMode,
	})

	if *inspectMode || *dumpMacros || *dumpLiterals {
		stages, err := proc.RunStages(lines)
		if err != nil {
			log.Fatalf("%v", err)
		}
		if *inspectMode {
			if err := inspect.NewBrowser(stages).Run(); err != nil {
				log.Fatalf("inspect error: %v", err)
			}
			return
		}
		fmt.Print(inspect.DumpStages(stages))
		return
	}

	out, err := proc.Run(lines)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := writeLines(*outFile, out); err != nil {
		log.Fatalf("error: %v", err)
	}

	if *verboseMode {
		log.Printf("wrote %d lines", len(out))
	}
}

// parseArch maps the -arch flag's value to an ArchTag.
func parseArch(s string) (preprocessor.ArchTag, error) {
	switch strings.ToLower(s) {
	case "arm":
		return preprocessor.ARM, nil
	case "powerpc", "ppc":
		return preprocessor.PowerPC, nil
	default:
		return 0, fmt.Errorf("unknown -arch %q: expected arm or powerpc", s)
	}
}

// readLines reads the input file named by the first positional
// argument, or stdin if none was given.
func readLines(args []string) ([]string, error) {
	var f *os.File
	if len(args) > 0 {
		var err error
		f, err = os.Open(args[0]) // #nosec G304 -- user-specified input file path
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
	} else {
		f = os.Stdin
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return lines, nil
}

// writeLines writes the rewritten lines to path, or stdout if path is
// empty.
func writeLines(path string, lines []string) error {
	w := os.Stdout
	if path != "" {
		f, err := os.Create(path) // #nosec G304 -- user-specified output file path
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	writer := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return writer.Flush()
}

func printHelp() {
	fmt.Printf(`gas-preprocessor %s

Usage: gas-preprocessor [options] [input-file]

Rewrites GNU-as flavored assembly so Apple's legacy clang-integrated
assembler accepts it: comment normalization, macro and repetition
expansion, architecture-specific instruction rewrites, and conditional
assembly filtering. Reads stdin (or input-file) and writes stdout (or
-o).

Options:
  -help              Show this help message
  -version           Show version information
  -arch NAME         Target architecture: arm or powerpc (default: arm)
  -fix-unreq         Duplicate .unreq for both register-name cases (default: true)
  -verbose           Log pass transitions to stderr
  -o FILE            Output file (default: stdout)

Introspection:
  -inspect           Launch the interactive pass-by-pass state browser
  -dump-macros       Print every pass's output and state snapshot and exit
  -dump-literals     Same output as -dump-macros

Examples:
  gas-preprocessor < input.s > output.s
  gas-preprocessor -arch powerpc input.s -o output.s
  gas-preprocessor -inspect input.s

Configuration is read from ~/.config/gas-preprocessor/config.toml if
present; command-line flags override it.
`, Version)
}
