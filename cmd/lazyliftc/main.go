// Command lazyliftc drives the four-pass compiler backend: dead-code
// analysis, lowering, cycle weakening, then emission. It reads a
// source-IR program as JSON from stdin or a named file and writes the
// rendered runtime-targeting source to stdout or -o.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"lazylift/pkg/deadcode"
	"lazylift/pkg/emitter"
	"lazylift/pkg/ir"
	"lazylift/pkg/lowering"
	"lazylift/pkg/weakener"
)

var (
	outputFile = flag.String("o", "", "Output file (default: stdout)")
	verbose    = flag.Bool("v", false, "Print pass statistics to stderr")
	noColor    = flag.Bool("no-color", false, "Disable colored diagnostics")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "lazyliftc - lowering/weakening/emission backend\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [program.json]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Reads a source-IR program as JSON from the named file, or stdin if\n")
		fmt.Fprintf(os.Stderr, "omitted, and writes the emitted source to stdout (or -o).\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *noColor || !isatty.IsTerminal(os.Stderr.Fd()) {
		color.NoColor = true
	}

	var r io.Reader = os.Stdin
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			fail("cannot open input: %v", err)
		}
		defer f.Close()
		r = f
	}

	out, err := run(r)
	if err != nil {
		fail("%v", err)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(out), 0644); err != nil {
			fail("cannot write output: %v", err)
		}
	} else {
		fmt.Print(out)
	}
}

// run executes the whole pipeline and recovers exactly one compiler-pass
// Invariant panic, converting it to an error — recovered at this single
// CLI boundary so every pass above is free to panic with a stable message
// naming the violated invariant rather than thread errors through every
// return.
func run(r io.Reader) (out string, reportErr error) {
	defer func() {
		if rec := recover(); rec != nil {
			switch inv := rec.(type) {
			case *ir.Invariant:
				reportErr = fmt.Errorf("%s", inv.Error())
			case *emitter.Invariant:
				reportErr = fmt.Errorf("%s", inv.Error())
			default:
				panic(rec)
			}
		}
	}()

	prog, err := ir.Decode(r)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}

	prog = deadcode.Analyze(prog)
	mprog := lowering.Compile(prog)
	mprog = weakener.Weaken(mprog)

	stats := emitter.NewStats()
	out = emitter.Emit(mprog, stats)

	if *verbose {
		fmt.Fprintln(os.Stderr, color.New(color.FgCyan).Sprint("lazyliftc:"), stats.Summary())
	}

	return out, nil
}

func fail(format string, args ...interface{}) {
	fmt.Fprint(os.Stderr, color.New(color.FgRed, color.Bold).Sprint("error: "))
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
