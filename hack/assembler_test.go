package hack

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Words))
	assert.Equal(VARIABLE_BASE, prog.Symbols.NextAddress())

	address, err := prog.Symbols.Lookup("KBD")
	assert.NoError(err)
	assert.Equal(24576, address)
}

func TestAssemblerAdd(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"@2",
		"D=A",
		"@3",
		"D=D+A",
		"0;JMP",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := []string{
		"0000000000000010",
		"1110110000010000",
		"0000000000000011",
		"1110000010010000",
		"1110101010000111",
	}

	assert.Equal(expected, prog.Text())
	assert.Equal([]int{1, 2, 3, 4, 5}, prog.LineNos)
}

func TestAssemblerMax(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"// Computes R2 = max(R0, R1)",
		"",
		"   @R0",
		"   D=M              // D = first number",
		"   @R1",
		"   D=D-M            // D = first number - second number",
		"   @OUTPUT_FIRST",
		"   D;JGT            // if D>0 (first is greater) goto output_first",
		"   @R1",
		"   D=M              // D = second number",
		"   @OUTPUT_D",
		"   0;JMP            // goto output_d",
		"(OUTPUT_FIRST)",
		"   @R0",
		"   D=M              // D = first number",
		"(OUTPUT_D)",
		"   @R2",
		"   M=D              // M[2] = D (greatest number)",
		"(INFINITE_LOOP)",
		"   @INFINITE_LOOP",
		"   0;JMP            // infinite loop",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := []string{
		"0000000000000000",
		"1111110000010000",
		"0000000000000001",
		"1111010011010000",
		"0000000000001010",
		"1110001100000001",
		"0000000000000001",
		"1111110000010000",
		"0000000000001100",
		"1110101010000111",
		"0000000000000000",
		"1111110000010000",
		"0000000000000010",
		"1110001100001000",
		"0000000000001110",
		"1110101010000111",
	}

	assert.Equal(expected, prog.Text())

	for name, address := range map[string]int{"OUTPUT_FIRST": 10, "OUTPUT_D": 12, "INFINITE_LOOP": 14} {
		got, err := prog.Symbols.Lookup(name)
		assert.NoError(err)
		assert.Equal(address, got, name)
	}

	// No variables were allocated.
	assert.Equal(VARIABLE_BASE, prog.Symbols.NextAddress())
	assert.Equal(3, prog.LineNo(0))
	assert.Equal(14, prog.LineNo(10))
	assert.Equal(0, prog.LineNo(16))
}

func TestAssemblerVariables(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"@i",
		"M=1",
		"@sum",
		"M=0",
		"(LOOP)",
		"@i",
		"D=M",
		"@100",
		"D=D-A",
		"@END",
		"D;JGT",
		"@i",
		"D=M",
		"@sum",
		"M=D+M",
		"@i",
		"M=M+1",
		"@LOOP",
		"0;JMP",
		"(END)",
		"@END",
		"0;JMP",
	}

	prog, err := asm.Assemble(program)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	assert.Equal(20, len(prog.Words))

	words := map[int]Word{
		0:  16, // @i
		2:  17, // @sum
		4:  16, // @i
		8:  18, // @END
		12: 17, // @sum
		16: 4,  // @LOOP
		18: 18, // @END
	}
	for pc, word := range words {
		assert.Equal(word, prog.Words[pc], pc)
	}

	assert.Equal(VARIABLE_BASE+2, prog.Symbols.NextAddress())

	sym, ok := prog.Symbols.Get("END")
	assert.True(ok)
	assert.Equal(SYMBOL_LABEL, sym.Kind)
	sym, ok = prog.Symbols.Get("sum")
	assert.True(ok)
	assert.Equal(SYMBOL_VARIABLE, sym.Kind)
}

func TestAssemblerVariableOrder(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// 'b' is referenced first, 'a' second, 'b' again third.
	prog, err := asm.Assemble([]string{"@b", "@a", "@b", "@c", "@R3", "@a"})
	assert.NoError(err)

	assert.Equal([]Word{16, 17, 16, 18, 3, 17}, prog.Words)
}

func TestAssemblerLabelForwardBackward(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"(TOP)",      // 0
		"@TOP",       // 0
		"@BOTTOM",    // 1
		"// comment", //
		"",           //
		"(MIDDLE)",   // 2
		"(ALIAS)",    // 2
		"D=D+1",      // 2
		"@MIDDLE",    // 3
		"(BOTTOM)",   // 4
		"@ALIAS",     // 4
	}

	prog, err := asm.Assemble(program)
	assert.NoError(err)

	assert.Equal([]Word{0, 4, 0b1110_0111_1101_0000, 2, 2}, prog.Words)
	assert.Equal([]int{2, 3, 8, 9, 11}, prog.LineNos)
	assert.Equal(VARIABLE_BASE, prog.Symbols.NextAddress())
}

func TestAssemblerNoDestNoJump(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Assemble([]string{"D"})
	assert.NoError(err)
	assert.Equal([]string{"1110001100000000"}, prog.Text())
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		lineno  int
		err     error
	}){
		{"malformed", []string{"@1", "   ", "#bad"}, 3, ErrMalformedInstruction},
		{"malformed after label", []string{"(X)", "@X", "!D"}, 3, ErrMalformedInstruction},
		{"unclosed label", []string{"(LOOP"}, 1, ErrMalformedInstruction},
		{"unknown comp", []string{"@1", "D=D+2"}, 2, ErrUnknownMnemonic{Field: "comp", Mnemonic: "D+2"}},
		{"unknown dest", []string{"X=D"}, 1, ErrUnknownMnemonic{Field: "dest", Mnemonic: "X"}},
		{"unknown jump", []string{"0;JUMP"}, 1, ErrUnknownMnemonic{Field: "jump", Mnemonic: "JUMP"}},
		{"too large", []string{"@32768"}, 1, ErrInvalidNumericOperand("32768")},
		{"negative", []string{"@-1"}, 1, ErrInvalidNumericOperand("-1")},
		{"empty operand", []string{"@"}, 1, ErrInvalidNumericOperand("")},
		{"digit led", []string{"@1abc"}, 1, ErrInvalidNumericOperand("1abc")},
		{"duplicate label", []string{"(A1)", "@0", "(A1)"}, 3, ErrLabelDuplicate},
		{"predefined label", []string{"(SP)"}, 1, ErrLabelDuplicate},
		{"bad label", []string{"(1st)"}, 1, ErrSymbolInvalid},
	}

	for _, entry := range table {
		asm := &Assembler{}
		prog, err := asm.Assemble(entry.program)
		assert.Nil(prog, entry.name)
		assert.ErrorIs(err, entry.err, entry.name)

		var syntax *ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.name) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.name)
			assert.Equal(entry.program[entry.lineno-1], syntax.Line, entry.name)
		}
	}
}

func TestAssemblerErrorInFirstPass(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// The malformed line is reported even though an encoding error precedes it.
	_, err := asm.Assemble([]string{"D=D+2", "%%%"})
	assert.ErrorIs(err, ErrMalformedInstruction)
}

func TestAssemblerUnknownMnemonic(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Assemble([]string{"D=D+2"})

	var unknown ErrUnknownMnemonic
	assert.True(errors.As(err, &unknown))
	assert.Equal("comp", unknown.Field)
	assert.Equal("D+2", unknown.Mnemonic)
}

func TestAssemblerReuse(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	first, err := asm.Assemble([]string{"(LOOP)", "@x", "@LOOP"})
	assert.NoError(err)

	// A second run starts from a fresh symbol table.
	second, err := asm.Assemble([]string{"@y", "(LOOP)", "@LOOP"})
	assert.NoError(err)

	assert.Equal([]Word{16, 0}, first.Words)
	assert.Equal([]Word{16, 1}, second.Words)
	assert.False(second.Symbols.Contains("x"))
	assert.True(first.Symbols.Contains("x"))
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("ROW1", "SCREEN + 32")
	asm.Predefine("ROW2", "ROW1 + 32")
	asm.Predefine("COUNT", "3 * 4")

	prog, err := asm.Assemble([]string{"@ROW2", "@COUNT", "@var"})
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal([]Word{16384 + 64, 12, 16}, prog.Words)

	sym, ok := prog.Symbols.Get("ROW1")
	assert.True(ok)
	assert.Equal(SYMBOL_DEFINE, sym.Kind)
}

func TestAssemblerPredefineErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		expr string
		err  error
	}){
		{"SP", "7", ErrPredefineShadow},
		{"TEXT", "'abc'", ErrPredefineNotValue},
		{"NEG", "0 - 1", ErrAddressRange},
		{"HUGE", "65536", ErrAddressRange},
		{"9X", "1", ErrSymbolInvalid},
	}

	for _, entry := range table {
		asm := &Assembler{}
		asm.Predefine(entry.name, entry.expr)
		_, err := asm.Assemble([]string{"@0"})
		assert.ErrorIs(err, entry.err, entry.name)
	}

	asm := &Assembler{}
	asm.Predefine("BAD", "UNDEFINED + 1")
	_, err := asm.Assemble([]string{"@0"})
	assert.Error(err)
}

func TestAssemblerPredefineAboveAddressRange(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("HIGH", "0x8000")

	_, err := asm.Assemble([]string{"@HIGH"})
	assert.ErrorIs(err, ErrAddressRange)
}
