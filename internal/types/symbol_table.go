package types

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// Variable marks the symbol bound to the free variable of an expression.
type Variable struct{}

// Constant is a named real value bound at lex time.
type Constant float64

// SymbolTable resolves identifiers to a Variable, a Constant or a Function.
type SymbolTable struct {
	Symbols  map[string]any
	ReadOnly bool
	Parent   *SymbolTable
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		Symbols: map[string]any{},
	}
}

func (st *SymbolTable) Get(key string) (any, bool) {
	v, ok := st.Symbols[key]
	if ok {
		return v, true
	}
	if st.Parent != nil {
		return st.Parent.Get(key)
	}
	return nil, false
}

func (st *SymbolTable) Set(key string, value any) {
	switch value.(type) {
	case Variable, Constant, Function:
	default:
		panic(fmt.Sprintf("Cannot assign %q=%+v: unsupported symbol type %T", key, value, value))
	}
	if st.ReadOnly {
		panic(fmt.Sprintf("Cannot assign %q=%+v to read only symbol table", key, value))
	}
	st.Symbols[key] = value
}

// Keys returns every resolvable name in this table and its parents, sorted.
func (st *SymbolTable) Keys() []string {
	var keys []string
	for t := st; t != nil; t = t.Parent {
		keys = append(keys, lo.Keys(t.Symbols)...)
	}
	keys = lo.Uniq(keys)
	sort.Strings(keys)
	return keys
}

func (st *SymbolTable) ShallowClone() *SymbolTable {
	return &SymbolTable{
		Symbols:  lo.Assign(map[string]any{}, st.Symbols),
		ReadOnly: st.ReadOnly,
		Parent:   st.Parent,
	}
}

// Describe renders the value bound to key for listings: "variable",
// "constant = 3.14..." or a call signature.
func (st *SymbolTable) Describe(key string) (string, bool) {
	v, ok := st.Get(key)
	if !ok {
		return "", false
	}
	switch v := v.(type) {
	case Variable:
		return "variable", true
	case Constant:
		return fmt.Sprintf("constant = %v", float64(v)), true
	case Function:
		return "function " + Usage(v), true
	default:
		return fmt.Sprintf("%T", v), true
	}
}

type SymbolEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Listing describes every resolvable symbol, sorted by name.
func (st *SymbolTable) Listing() []SymbolEntry {
	return lo.Map(st.Keys(), func(key string, _ int) SymbolEntry {
		desc, _ := st.Describe(key)
		return SymbolEntry{Name: key, Description: desc}
	})
}
