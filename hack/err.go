package hack

import (
	"errors"

	"github.com/ezrec/hackasm/translate"
)

var f = translate.From

var (
	// Classification errors
	ErrMalformedInstruction = errors.New(f("malformed instruction"))

	// Symbol table errors
	ErrLabelDuplicate    = errors.New(f("label duplicated"))
	ErrPredefineSyntax   = errors.New(f("predefine syntax"))
	ErrPredefineShadow   = errors.New(f("predefine shadows a symbol"))
	ErrAddressRange      = errors.New(f("address out of range"))
	ErrVariableOverflow  = errors.New(f("variable space exhausted"))
	ErrSymbolInvalid     = errors.New(f("symbol invalid"))
	ErrInstructionKind   = errors.New(f("instruction kind unknown"))
	ErrProgramTooLarge   = errors.New(f("program exceeds instruction memory"))
	ErrPredefineNotValue = errors.New(f("predefine is not an integer"))
)

type ErrSymbolMissing string

func (es ErrSymbolMissing) Error() string {
	return f("symbol %v missing", string(es))
}

// ErrUnknownMnemonic indicates a comp, dest or jump field not found in its table.
type ErrUnknownMnemonic struct {
	Field    string
	Mnemonic string
}

func (err ErrUnknownMnemonic) Error() string {
	return f("unknown %v mnemonic '%v'", err.Field, err.Mnemonic)
}

type ErrInvalidNumericOperand string

func (err ErrInvalidNumericOperand) Error() string {
	return f("'%v' is not a number in 0..32767", string(err))
}

// ErrSyntax locates an assembly failure in the source text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
