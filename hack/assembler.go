// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package hack

import (
	"bufio"
	"io"
	"log"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefine is a caller supplied symbol.
type Predefine struct {
	Name string
	Expr string // Starlark integer expression over symbols defined before it.
}

// Assembler is a two pass assembler for the Hack machine.
//
// An Assembler holds only options; the state of each run lives in the run
// and in the Program it returns.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	predefine []Predefine
}

// Predefine adds a symbol to every subsequent run. The value is a starlark
// expression, evaluated when the run starts, which may refer to any symbol
// defined before it, for example ("ROW1", "SCREEN + 32").
func (asm *Assembler) Predefine(name string, expr string) {
	asm.predefine = append(asm.predefine, Predefine{Name: name, Expr: expr})
}

// run is the context of a single assembly.
type run struct {
	*Assembler
	symbols *SymbolTable
	lines   []string
}

// Parse reads an input stream and assembles it.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	var lines []string

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	return asm.Assemble(lines)
}

// Assemble translates source lines into a Program. On failure no Program
// is returned, and the error is an *ErrSyntax locating the failure.
func (asm *Assembler) Assemble(lines []string) (prog *Program, err error) {
	r := &run{
		Assembler: asm,
		symbols:   NewSymbolTable(),
		lines:     lines,
	}

	err = r.define()
	if err != nil {
		return
	}

	err = r.resolveLabels()
	if err != nil {
		return
	}

	return r.generate()
}

// define evaluates the predefines, in order.
func (r *run) define() (err error) {
	for _, pre := range r.predefine {
		var value int
		value, err = r.evaluate(pre.Expr)
		if err == nil {
			err = r.symbols.Define(pre.Name, value)
		}
		if err != nil {
			err = &ErrSyntax{Line: pre.Name + "=" + pre.Expr, Err: err}
			return
		}
		if r.Verbose {
			log.Printf("define %v = %v", pre.Name, value)
		}
	}

	return
}

// evaluate runs a starlark integer expression with the symbol table in scope.
func (r *run) evaluate(expr string) (value int, err error) {
	thread := starlark.Thread{Name: "predefine"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for name, address := range r.symbols.Dict() {
		pred[name] = starlark.MakeInt(address)
	}

	dict, err := starlark.ExecFileOptions(&opts, &thread, "predefine", "rc="+expr+"\n", pred)
	if err != nil {
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrPredefineNotValue
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrAddressRange
		return
	}

	value = int(st_int64)
	return
}

// wrap locates err at a source line.
func (r *run) wrap(lineno int, err error) error {
	return &ErrSyntax{LineNo: lineno, Line: r.lines[lineno-1], Err: err}
}

// resolveLabels is the first pass. Each label is bound to the ROM address
// of the next address or compute instruction.
func (r *run) resolveLabels() (err error) {
	pc := 0

	for n, line := range r.lines {
		lineno := n + 1

		switch ins := Classify(line).(type) {
		case Blank:
		case Invalid:
			err = ins.Err
		case Label:
			if r.Verbose {
				log.Printf("%v: label %v = %v", lineno, ins.Name, pc)
			}
			err = r.symbols.RegisterLabel(ins.Name, pc)
		case Address, Compute:
			pc++
			if pc > ROM_SIZE {
				err = ErrProgramTooLarge
			}
		default:
			err = ErrInstructionKind
		}

		if err != nil {
			return r.wrap(lineno, err)
		}
	}

	return
}

// generate is the second pass. Variables are allocated in order of first
// reference, and words are emitted in source order.
func (r *run) generate() (prog *Program, err error) {
	var words []Word
	var linenos []int

	for n, line := range r.lines {
		lineno := n + 1

		var word Word
		switch ins := Classify(line).(type) {
		case Blank, Label:
			continue
		case Address:
			word, err = r.encodeAddress(ins)
		case Compute:
			word, err = ins.Encode()
		case Invalid:
			err = ins.Err
		default:
			err = ErrInstructionKind
		}
		if err != nil {
			err = r.wrap(lineno, err)
			return
		}

		if r.Verbose {
			log.Printf("%v: %04x %v %v", lineno, len(words), word, StripLine(line))
		}

		words = append(words, word)
		linenos = append(linenos, lineno)
	}

	prog = &Program{
		Words:   words,
		LineNos: linenos,
		Symbols: r.symbols,
	}

	return
}

// encodeAddress resolves the operand of an address instruction.
func (r *run) encodeAddress(ins Address) (word Word, err error) {
	operand := ins.Operand

	var value int
	switch {
	case IsSymbol(operand):
		value, err = r.symbols.RegisterVariable(operand)
	default:
		value, err = ParseNumber(operand)
	}
	if err != nil {
		return
	}

	return MakeWordAddress(value)
}
