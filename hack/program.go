package hack

import (
	"bufio"
	"io"
	"iter"
)

const (
	ROM_SIZE = 0x8000 // Instruction memory size in words.
)

// Program is the output of a successful assembly run.
type Program struct {
	Words   []Word       // Encoded instructions, in source order.
	LineNos []int        // Source line of each word.
	Symbols *SymbolTable // Final symbol table of the run.
}

// Codes iterates over the ROM address and word of each instruction.
func (prog *Program) Codes() iter.Seq2[int, Word] {
	return func(yield func(pc int, word Word) bool) {
		for pc, word := range prog.Words {
			if !yield(pc, word) {
				return
			}
		}
	}
}

// Text returns each word as 16 binary digits.
func (prog *Program) Text() (lines []string) {
	lines = make([]string, 0, len(prog.Words))
	for _, word := range prog.Codes() {
		lines = append(lines, word.String())
	}
	return
}

// LineNo returns the source line of the instruction at pc, or 0.
func (prog *Program) LineNo(pc int) int {
	if pc < 0 || pc >= len(prog.LineNos) {
		return 0
	}
	return prog.LineNos[pc]
}

// WriteTo writes one word per line.
func (prog *Program) WriteTo(w io.Writer) (n int64, err error) {
	bw := bufio.NewWriter(w)

	for _, word := range prog.Codes() {
		var count int
		count, err = bw.WriteString(word.String() + "\n")
		n += int64(count)
		if err != nil {
			return
		}
	}

	err = bw.Flush()
	return
}
