// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator executes assembled Hack programs.
package emulator

import (
	"fmt"
	"log"

	"github.com/ezrec/hackasm/hack"
)

const (
	RAM_SIZE = 0x8000 // Data memory size in words.
)

// Emulator state. Registers, data memory, and the program in ROM.
type Emulator struct {
	Verbose bool          // If set, enables verbose logging.
	Program *hack.Program // Program in instruction memory.

	A   uint16           // Address register.
	D   uint16           // Data register.
	Pc  uint16           // Program counter.
	Ram [RAM_SIZE]uint16 // Data memory. Survives Reset.

	Ticks int // Instructions executed since Reset.
}

// NewEmulator creates a new emulator with an empty program.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Program: &hack.Program{},
	}

	return
}

// Reset the CPU state. Data memory is left untouched.
func (emu *Emulator) Reset() {
	if emu.Verbose {
		log.Printf("emulator: reset")
	}

	emu.A = 0
	emu.D = 0
	emu.Pc = 0
	emu.Ticks = 0
}

// String returns the current CPU state as a string.
func (emu *Emulator) String() string {
	return fmt.Sprintf("pc: %04x  a: %04x  d: %04x  m: %04x", emu.Pc, emu.A, emu.D, emu.m())
}

// m returns RAM[A], or 0 when A is outside data memory.
func (emu *Emulator) m() uint16 {
	if int(emu.A) >= RAM_SIZE {
		return 0
	}
	return emu.Ram[emu.A]
}

// LineNo returns the source line of the next instruction.
func (emu *Emulator) LineNo() int {
	return emu.Program.LineNo(int(emu.Pc))
}

// Tick executes a single instruction. A program is done when the program
// counter leaves the program, or when it reaches an idle loop: an
// unconditional jump to itself or to the '@here' immediately before it.
func (emu *Emulator) Tick() (done bool, err error) {
	words := emu.Program.Words
	pc := emu.Pc

	if int(pc) >= len(words) {
		done = true
		return
	}

	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: int(pc), LineNo: emu.Program.LineNo(int(pc)), Err: err}
		}
	}()

	word := words[pc]
	if emu.Verbose {
		text, _ := word.Disassemble()
		log.Printf("%04x: %v %v", pc, word, text)
	}

	emu.Ticks++

	if !word.IsCompute() {
		emu.A = uint16(word)
		emu.Pc++
		return
	}

	if uint16(word)&hack.COMPUTE_BITS != hack.COMPUTE_BITS {
		err = ErrOpcode(word)
		return
	}

	comp, dest, jump := word.ComputeDecode()

	y := emu.A
	if comp&0x40 != 0 {
		if int(emu.A) >= RAM_SIZE {
			err = ErrAddress(emu.A)
			return
		}
		y = emu.Ram[emu.A]
	}

	out := Alu(emu.D, y, comp&0x3f)

	// Jump target and M store both use A from before this instruction.
	addr := emu.A

	if dest&0b001 != 0 {
		if int(addr) >= RAM_SIZE {
			err = ErrAddress(addr)
			return
		}
		emu.Ram[addr] = out
	}
	if dest&0b010 != 0 {
		emu.D = out
	}
	if dest&0b100 != 0 {
		emu.A = out
	}

	if !Jump(out, jump) {
		emu.Pc++
		return
	}

	emu.Pc = addr

	if jump == 0b111 && dest == 0 {
		switch {
		case addr == pc:
			done = true
		case pc > 0 && addr == pc-1 && words[pc-1] == hack.Word(pc-1):
			done = true
		}
	}

	return
}

// Run ticks until the program is done, or until limit instructions have run.
func (emu *Emulator) Run(limit int) (err error) {
	for range limit {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}

	err = ErrTickLimit
	return
}

// Alu computes the Hack ALU function selected by the six control bits
// zx, nx, zy, ny, f, no (most to least significant).
func Alu(x, y uint16, control uint16) (out uint16) {
	if control&0b100000 != 0 {
		x = 0
	}
	if control&0b010000 != 0 {
		x = ^x
	}
	if control&0b001000 != 0 {
		y = 0
	}
	if control&0b000100 != 0 {
		y = ^y
	}
	if control&0b000010 != 0 {
		out = x + y
	} else {
		out = x & y
	}
	if control&0b000001 != 0 {
		out = ^out
	}
	return
}

// Jump returns true if the jump bits (lt, eq, gt) select the value.
func Jump(value uint16, jump uint16) bool {
	v := int16(value)
	switch {
	case v < 0:
		return jump&0b100 != 0
	case v == 0:
		return jump&0b010 != 0
	default:
		return jump&0b001 != 0
	}
}
