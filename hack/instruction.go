package hack

import (
	"fmt"
	"strings"
	"unicode"
)

// Kind is the shape of a classified source line.
type Kind int

const (
	KIND_BLANK   = Kind(0) // blank
	KIND_ADDRESS = Kind(1) // address
	KIND_LABEL   = Kind(2) // label
	KIND_COMPUTE = Kind(3) // compute
	KIND_INVALID = Kind(4) // invalid
)

var kindName = [...]string{
	KIND_BLANK:   "blank",
	KIND_ADDRESS: "address",
	KIND_LABEL:   "label",
	KIND_COMPUTE: "compute",
	KIND_INVALID: "invalid",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindName) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindName[k]
}

// Instruction is a classified source line. The set of implementations is
// closed: Blank, Address, Label, Compute and Invalid.
type Instruction interface {
	Kind() Kind
	String() string
	instruction()
}

// Blank is a line holding only whitespace and/or a comment.
type Blank struct{}

// Address is '@operand'. The operand is not validated until encoding.
type Address struct {
	Operand string
}

// Label is '(name)'. It occupies no ROM address.
type Label struct {
	Name string
}

// Compute is '[dest=]comp[;jump]'.
type Compute struct {
	Dest    string // Destination mnemonic, valid if HasDest.
	HasDest bool
	Comp    string // Computation mnemonic.
	Jump    string // Jump mnemonic, valid if HasJump.
	HasJump bool
}

// Invalid is a non-blank line that matches none of the grammars.
type Invalid struct {
	Text string
	Err  error
}

func (Blank) Kind() Kind   { return KIND_BLANK }
func (Address) Kind() Kind { return KIND_ADDRESS }
func (Label) Kind() Kind   { return KIND_LABEL }
func (Compute) Kind() Kind { return KIND_COMPUTE }
func (Invalid) Kind() Kind { return KIND_INVALID }

func (Blank) instruction()   {}
func (Address) instruction() {}
func (Label) instruction()   {}
func (Compute) instruction() {}
func (Invalid) instruction() {}

func (Blank) String() string { return "" }

func (a Address) String() string { return "@" + a.Operand }

func (l Label) String() string { return "(" + l.Name + ")" }

func (c Compute) String() (text string) {
	if c.HasDest {
		text = c.Dest + "="
	}
	text += c.Comp
	if c.HasJump {
		text += ";" + c.Jump
	}
	return
}

func (i Invalid) String() string { return i.Text }

// StripLine removes a trailing '//' comment and surrounding whitespace.
func StripLine(line string) string {
	line, _, _ = strings.Cut(line, "//")
	return strings.TrimSpace(line)
}

// Classify strips and classifies a single raw source line.
func Classify(line string) Instruction {
	line = StripLine(line)

	if len(line) == 0 {
		return Blank{}
	}

	switch {
	case line[0] == '@':
		return Address{Operand: strings.TrimSpace(line[1:])}
	case line[0] == '(':
		name, rest, ok := strings.Cut(line[1:], ")")
		name = strings.TrimSpace(name)
		if !ok || len(name) == 0 || len(strings.TrimSpace(rest)) != 0 {
			return Invalid{Text: line, Err: ErrMalformedInstruction}
		}
		return Label{Name: name}
	case isAlnum(rune(line[0])):
		return classifyCompute(line)
	}

	return Invalid{Text: line, Err: ErrMalformedInstruction}
}

// classifyCompute splits 'dest=comp;jump'. Interior whitespace is not
// significant in compute instructions.
func classifyCompute(line string) (c Compute) {
	line = strings.Join(strings.Fields(line), "")

	rest := line
	if dest, after, ok := strings.Cut(line, "="); ok {
		c.Dest = dest
		c.HasDest = true
		rest = after
	}

	comp, jump, ok := strings.Cut(rest, ";")
	c.Comp = comp
	if ok {
		c.Jump = jump
		c.HasJump = true
	}

	return
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsSymbol returns true if text is a well formed symbol: a sequence of
// letters, digits, '_', '.', '$' and ':' that does not begin with a digit.
func IsSymbol(text string) bool {
	if len(text) == 0 {
		return false
	}

	for n, r := range text {
		switch {
		case unicode.IsLetter(r), r == '_', r == '.', r == '$', r == ':':
		case unicode.IsDigit(r) && n > 0:
		default:
			return false
		}
	}

	return true
}
