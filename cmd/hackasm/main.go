// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ezrec/hackasm/emulator"
	"github.com/ezrec/hackasm/hack"
	"github.com/ezrec/hackasm/translate"
)

// outputPath replaces a trailing .asm with .hack.
func outputPath(input string) string {
	return strings.TrimSuffix(input, ".asm") + ".hack"
}

// parseDefine splits NAME=EXPR.
func parseDefine(text string) (name, expr string, err error) {
	name, expr, ok := strings.Cut(text, "=")
	if !ok || len(name) == 0 || len(expr) == 0 {
		err = hack.ErrPredefineSyntax
	}
	return
}

func main() {
	var output string
	var listing bool
	var run int
	var verbose bool

	asm := &hack.Assembler{}

	flag.StringVar(&output, "o", "", "Output .hack file (default: input with .hack suffix)")
	flag.Func("D", "Predefine a symbol as NAME=EXPR (repeatable)", func(text string) error {
		name, expr, err := parseDefine(text)
		if err != nil {
			return err
		}
		asm.Predefine(name, expr)
		return nil
	})
	flag.BoolVar(&listing, "l", false, "Print the symbol table")
	flag.IntVar(&run, "run", 0, "Execute up to N instructions, then print R0..R15")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("%v: %v", os.Args[0], translate.From("exactly one .asm file expected"))
	}

	input := flag.Arg(0)
	if len(output) == 0 {
		output = outputPath(input)
	}

	if verbose {
		log.Printf("%v: language %v", os.Args[0], translate.Language())
	}

	inf, err := os.Open(input)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}
	defer inf.Close()

	asm.Verbose = verbose
	prog, err := asm.Parse(inf)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	// Only a fully assembled program reaches the output file.
	var buf bytes.Buffer
	_, err = prog.WriteTo(&buf)
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}
	err = os.WriteFile(output, buf.Bytes(), 0o644)
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}

	if listing {
		for sym := range prog.Symbols.All() {
			fmt.Printf("%-24s %5d %v\n", sym.Name, sym.Address, sym.Kind)
		}
	}

	if run > 0 {
		emu := emulator.NewEmulator()
		emu.Program = prog
		emu.Verbose = verbose
		emu.Reset()

		err = emu.Run(run)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}

		for n := range 16 {
			fmt.Printf("R%-2d %04x %6d\n", n, emu.Ram[n], int16(emu.Ram[n]))
		}
	}
}
