package symx

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/benbjohnson/immutable"
)

// SymbolTable is a persistent binding environment mapping pattern variables
// to concrete expressions. Bind returns a derived table and never touches the
// receiver, so the matcher can branch candidate bindings cheaply and the
// interpreter sees each candidate as immutable.
type SymbolTable struct {
	m *immutable.SortedMap
}

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{m: immutable.NewSortedMap(&stringComparer{})}
}

// Bind returns a copy of the table with id bound to expr.
func (st *SymbolTable) Bind(id string, expr *Expr) *SymbolTable {
	return &SymbolTable{m: st.m.Set(id, expr)}
}

// Resolve returns the expression bound to id.
func (st *SymbolTable) Resolve(id string) (*Expr, bool) {
	v, ok := st.m.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Expr), true
}

// Len returns the number of bound variables.
func (st *SymbolTable) Len() int { return st.m.Len() }

// Range calls fn for every binding in identifier order until fn returns
// false. Used for diagnostics only.
func (st *SymbolTable) Range(fn func(id string, expr *Expr) bool) {
	itr := st.m.Iterator()
	for !itr.Done() {
		k, v := itr.Next()
		if !fn(k.(string), v.(*Expr)) {
			return
		}
	}
}

// String returns the bindings as a single trace-friendly line.
func (st *SymbolTable) String() string {
	var buf bytes.Buffer
	buf.WriteRune('{')
	first := true
	st.Range(func(id string, expr *Expr) bool {
		if !first {
			buf.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&buf, "%s: %s", id, expr)
		return true
	})
	buf.WriteRune('}')
	return buf.String()
}

// stringComparer compares two strings. Implements immutable.Comparer.
type stringComparer struct{}

// Compare returns -1 if a is less than b, returns 1 if a is greater than b,
// and returns 0 if a is equal to b. Panics if a or b is not a string.
func (c *stringComparer) Compare(a, b interface{}) int {
	return strings.Compare(a.(string), b.(string))
}
