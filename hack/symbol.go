package hack

import (
	"iter"
	"slices"

	"github.com/ezrec/hackasm/internal"
)

const (
	VARIABLE_BASE  = 16     // First RAM address given to variables.
	VARIABLE_LIMIT = 0x4000 // Variables may not reach the screen map.
	ADDRESS_LIMIT  = 0xffff // Largest address a symbol may hold.
)

// SymbolKind is the origin of a symbol table entry.
type SymbolKind int

const (
	SYMBOL_PREDEFINED = SymbolKind(0) // predefined
	SYMBOL_DEFINE     = SymbolKind(1) // define
	SYMBOL_LABEL      = SymbolKind(2) // label
	SYMBOL_VARIABLE   = SymbolKind(3) // variable
)

var symbolKindName = [...]string{
	SYMBOL_PREDEFINED: "predefined",
	SYMBOL_DEFINE:     "define",
	SYMBOL_LABEL:      "label",
	SYMBOL_VARIABLE:   "variable",
}

func (k SymbolKind) String() string {
	if k < 0 || int(k) >= len(symbolKindName) {
		return "unknown"
	}
	return symbolKindName[k]
}

// Symbol is a single symbol table entry.
type Symbol struct {
	Name    string
	Address int
	Kind    SymbolKind
}

// Fixed entries, in listing order.
var predefined = []Symbol{
	{"SP", 0, SYMBOL_PREDEFINED},
	{"LCL", 1, SYMBOL_PREDEFINED},
	{"ARG", 2, SYMBOL_PREDEFINED},
	{"THIS", 3, SYMBOL_PREDEFINED},
	{"THAT", 4, SYMBOL_PREDEFINED},
	{"R0", 0, SYMBOL_PREDEFINED},
	{"R1", 1, SYMBOL_PREDEFINED},
	{"R2", 2, SYMBOL_PREDEFINED},
	{"R3", 3, SYMBOL_PREDEFINED},
	{"R4", 4, SYMBOL_PREDEFINED},
	{"R5", 5, SYMBOL_PREDEFINED},
	{"R6", 6, SYMBOL_PREDEFINED},
	{"R7", 7, SYMBOL_PREDEFINED},
	{"R8", 8, SYMBOL_PREDEFINED},
	{"R9", 9, SYMBOL_PREDEFINED},
	{"R10", 10, SYMBOL_PREDEFINED},
	{"R11", 11, SYMBOL_PREDEFINED},
	{"R12", 12, SYMBOL_PREDEFINED},
	{"R13", 13, SYMBOL_PREDEFINED},
	{"R14", 14, SYMBOL_PREDEFINED},
	{"R15", 15, SYMBOL_PREDEFINED},
	{"SCREEN", 16384, SYMBOL_PREDEFINED},
	{"KBD", 24576, SYMBOL_PREDEFINED},
}

// SymbolTable maps symbol names to addresses for a single assembly run.
type SymbolTable struct {
	entry map[string]Symbol

	defines   []string // Defines, in definition order.
	labels    []string // Labels, in definition order.
	variables []string // Variables, in allocation order.

	next int // Next free variable address.
}

// NewSymbolTable creates a table holding only the predefined symbols.
func NewSymbolTable() (st *SymbolTable) {
	st = &SymbolTable{
		entry: make(map[string]Symbol, len(predefined)+16),
		next:  VARIABLE_BASE,
	}

	for _, sym := range predefined {
		st.entry[sym.Name] = sym
	}

	return
}

// Contains returns true if name is in the table.
func (st *SymbolTable) Contains(name string) (ok bool) {
	_, ok = st.entry[name]
	return
}

// Lookup returns the address of name.
func (st *SymbolTable) Lookup(name string) (address int, err error) {
	sym, ok := st.entry[name]
	if !ok {
		err = ErrSymbolMissing(name)
		return
	}

	address = sym.Address
	return
}

// Get returns the full entry for name.
func (st *SymbolTable) Get(name string) (sym Symbol, ok bool) {
	sym, ok = st.entry[name]
	return
}

// NextAddress returns the address the next new variable will receive.
func (st *SymbolTable) NextAddress() int {
	return st.next
}

// insert adds a new entry, refusing to replace any existing one.
func (st *SymbolTable) insert(name string, address int, kind SymbolKind) (err error) {
	if !IsSymbol(name) {
		err = ErrSymbolInvalid
		return
	}

	if st.Contains(name) {
		err = ErrLabelDuplicate
		if kind == SYMBOL_DEFINE {
			err = ErrPredefineShadow
		}
		return
	}

	if address < 0 || address > ADDRESS_LIMIT {
		err = ErrAddressRange
		return
	}

	st.entry[name] = Symbol{Name: name, Address: address, Kind: kind}

	return
}

// Define adds a caller supplied symbol. Defines never replace an entry.
func (st *SymbolTable) Define(name string, address int) (err error) {
	err = st.insert(name, address, SYMBOL_DEFINE)
	if err != nil {
		return
	}

	st.defines = append(st.defines, name)
	return
}

// RegisterLabel binds a label to an instruction address. A label may be
// bound only once, and never to the name of an existing symbol.
func (st *SymbolTable) RegisterLabel(name string, address int) (err error) {
	err = st.insert(name, address, SYMBOL_LABEL)
	if err != nil {
		return
	}

	st.labels = append(st.labels, name)
	return
}

// RegisterVariable returns the address of name, allocating the next free
// variable address if name is not yet in the table.
func (st *SymbolTable) RegisterVariable(name string) (address int, err error) {
	sym, ok := st.entry[name]
	if ok {
		address = sym.Address
		return
	}

	if st.next >= VARIABLE_LIMIT {
		err = ErrVariableOverflow
		return
	}

	err = st.insert(name, st.next, SYMBOL_VARIABLE)
	if err != nil {
		return
	}

	address = st.next
	st.next++
	st.variables = append(st.variables, name)

	return
}

// All returns every symbol: predefined, defines, labels, then variables.
func (st *SymbolTable) All() iter.Seq[Symbol] {
	get := func(name string) Symbol {
		return st.entry[name]
	}

	return internal.IterSeqConcat(
		slices.Values(predefined),
		internal.IterSeqMap(slices.Values(st.defines), get),
		internal.IterSeqMap(slices.Values(st.labels), get),
		internal.IterSeqMap(slices.Values(st.variables), get),
	)
}

// Dict returns the table as a name to address map.
func (st *SymbolTable) Dict() (dict map[string]int) {
	dict = make(map[string]int, len(st.entry))
	for name, sym := range st.entry {
		dict[name] = sym.Address
	}
	return
}
