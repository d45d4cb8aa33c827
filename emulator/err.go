package emulator

import (
	"errors"

	"github.com/ezrec/hackasm/hack"
	"github.com/ezrec/hackasm/translate"
)

var f = translate.From

var (
	ErrTickLimit = errors.New(f("tick limit reached"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc     int
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("pc %04x line %d %v", err.Pc, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

type ErrOpcode hack.Word

func (eo ErrOpcode) Error() string {
	return f("bad opcode %v", hack.Word(eo).String())
}

type ErrAddress uint16

func (ea ErrAddress) Error() string {
	return f("data address 0x%04x out of range", uint16(ea))
}
