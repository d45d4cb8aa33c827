package hack

import (
	"fmt"
	"maps"
	"strconv"
)

const (
	ADDRESS_MAX  = 0x7fff // Largest value an address instruction can load.
	COMPUTE_BITS = 0xe000 // Opcode prefix of a compute instruction.
)

// Word is a single 16-bit Hack instruction.
type Word uint16

// compMap is the 'a' bit followed by the six ALU control bits.
var compMap = map[string]uint16{
	"0":   0b0_101010,
	"1":   0b0_111111,
	"-1":  0b0_111010,
	"D":   0b0_001100,
	"A":   0b0_110000,
	"!D":  0b0_001101,
	"!A":  0b0_110001,
	"-D":  0b0_001111,
	"-A":  0b0_110011,
	"D+1": 0b0_011111,
	"A+1": 0b0_110111,
	"D-1": 0b0_001110,
	"A-1": 0b0_110010,
	"D+A": 0b0_000010,
	"D-A": 0b0_010011,
	"A-D": 0b0_000111,
	"D&A": 0b0_000000,
	"D|A": 0b0_010101,
	"M":   0b1_110000,
	"!M":  0b1_110001,
	"-M":  0b1_110011,
	"M+1": 0b1_110111,
	"M-1": 0b1_110010,
	"D+M": 0b1_000010,
	"D-M": 0b1_010011,
	"M-D": 0b1_000111,
	"D&M": 0b1_000000,
	"D|M": 0b1_010101,
}

// destMap bits are A, D, M from most to least significant.
var destMap = map[string]uint16{
	"M":   0b001,
	"D":   0b010,
	"MD":  0b011,
	"A":   0b100,
	"AM":  0b101,
	"AD":  0b110,
	"AMD": 0b111,
}

var jumpMap = map[string]uint16{
	"JGT": 0b001,
	"JEQ": 0b010,
	"JGE": 0b011,
	"JLT": 0b100,
	"JNE": 0b101,
	"JLE": 0b110,
	"JMP": 0b111,
}

// Reverse tables for disassembly.
var (
	compName = invert(compMap)
	destName = invert(destMap)
	jumpName = invert(jumpMap)
)

func invert(table map[string]uint16) (out map[uint16]string) {
	out = make(map[uint16]string, len(table))
	for name, code := range maps.All(table) {
		out[code] = name
	}
	return
}

// EncodeComp returns the 7-bit code of a computation mnemonic.
func EncodeComp(mnemonic string) (code uint16, err error) {
	code, ok := compMap[mnemonic]
	if !ok {
		err = ErrUnknownMnemonic{Field: "comp", Mnemonic: mnemonic}
	}
	return
}

// EncodeDest returns the 3-bit code of a destination mnemonic.
func EncodeDest(mnemonic string) (code uint16, err error) {
	code, ok := destMap[mnemonic]
	if !ok {
		err = ErrUnknownMnemonic{Field: "dest", Mnemonic: mnemonic}
	}
	return
}

// EncodeJump returns the 3-bit code of a jump mnemonic.
func EncodeJump(mnemonic string) (code uint16, err error) {
	code, ok := jumpMap[mnemonic]
	if !ok {
		err = ErrUnknownMnemonic{Field: "jump", Mnemonic: mnemonic}
	}
	return
}

// MakeWordCompute assembles '111' + comp + dest + jump.
func MakeWordCompute(comp, dest, jump uint16) Word {
	return Word(COMPUTE_BITS | (comp&0x7f)<<6 | (dest&0x7)<<3 | (jump & 0x7))
}

// MakeWordAddress creates an address instruction loading value.
func MakeWordAddress(value int) (word Word, err error) {
	if value < 0 || value > ADDRESS_MAX {
		err = ErrAddressRange
		return
	}

	word = Word(value)
	return
}

// ParseNumber parses a decimal address literal.
func ParseNumber(text string) (value int, err error) {
	v64, err := strconv.ParseUint(text, 10, 15)
	if err != nil {
		err = ErrInvalidNumericOperand(text)
		return
	}

	value = int(v64)
	return
}

// Encode encodes a compute instruction. Absent dest and jump fields encode as 000.
func (c Compute) Encode() (word Word, err error) {
	var comp, dest, jump uint16

	comp, err = EncodeComp(c.Comp)
	if err != nil {
		return
	}

	if c.HasDest {
		dest, err = EncodeDest(c.Dest)
		if err != nil {
			return
		}
	}

	if c.HasJump {
		jump, err = EncodeJump(c.Jump)
		if err != nil {
			return
		}
	}

	word = MakeWordCompute(comp, dest, jump)
	return
}

// IsCompute returns true for compute instructions.
func (w Word) IsCompute() bool {
	return w&0x8000 != 0
}

// ComputeDecode returns the comp, dest and jump fields of the word.
func (w Word) ComputeDecode() (comp, dest, jump uint16) {
	word := uint16(w)
	comp = (word >> 6) & 0x7f
	dest = (word >> 3) & 0x7
	jump = (word >> 0) & 0x7
	return
}

// String returns the word as 16 binary digits.
func (w Word) String() string {
	return fmt.Sprintf("%016b", uint16(w))
}

// Disassemble returns the assembly text of the word.
func (w Word) Disassemble() (text string, err error) {
	if !w.IsCompute() {
		text = fmt.Sprintf("@%d", uint16(w))
		return
	}

	if uint16(w)&COMPUTE_BITS != COMPUTE_BITS {
		err = ErrUnknownMnemonic{Field: "opcode", Mnemonic: fmt.Sprintf("%03b", uint16(w)>>13)}
		return
	}

	comp, dest, jump := w.ComputeDecode()

	name, ok := compName[comp]
	if !ok {
		err = ErrUnknownMnemonic{Field: "comp", Mnemonic: fmt.Sprintf("%07b", comp)}
		return
	}

	ins := Compute{Comp: name}
	if dest != 0 {
		ins.Dest, ins.HasDest = destName[dest], true
	}
	if jump != 0 {
		ins.Jump, ins.HasJump = jumpName[jump], true
	}

	text = ins.String()
	return
}
