package symx

import "fmt"

// Directive represents a node in a rewrite pattern tree.
//
// Directive trees are immutable and may share subtrees: the same node can be
// linked under many parents, forming a DAG, never a cycle. A node's shape is
// fully determined by its Op — both children absent means a leaf, only RHS
// present a unary operator, both present a binary operator — and the
// interpreter relies on that without re-validating.
type Directive struct {
	Op    Op
	ID    string // pattern variable name; empty on literal leaves
	Value uint64 // literal value; meaningful only when ID is empty
	LHS   *Directive
	RHS   *Directive
}

// Var returns a leaf directive referencing the pattern variable id.
func Var(id string) *Directive {
	assert(id != "", "pattern variable requires an identifier")
	return &Directive{ID: id}
}

// Num returns a leaf directive carrying a literal constant. The literal is
// materialized at the translation target width.
func Num(value uint64) *Directive {
	return &Directive{Value: value}
}

// NewDirective returns a new directive node combining the given children.
func NewDirective(op Op, lhs, rhs *Directive) *Directive {
	assert(op != Invalid, "leaf directives are built with Var or Num")
	assert(op.IsAlgebra() || op.IsDirective(), "unknown directive op: %d", int(op))
	wantLHS, wantRHS := op.shape()
	assert((lhs != nil) == wantLHS, "%s: bad lhs shape", op)
	assert((rhs != nil) == wantRHS, "%s: bad rhs shape", op)
	return &Directive{Op: op, LHS: lhs, RHS: rhs}
}

// Simplify returns a directive that accepts its operand only if the
// translated expression can be strictly reduced.
func Simplify(rhs *Directive) *Directive {
	return NewDirective(SIMPLIFY, nil, rhs)
}

// TrySimplify returns a directive that reduces its translated operand on a
// best-effort basis and accepts it either way.
func TrySimplify(rhs *Directive) *Directive {
	return NewDirective(TRY_SIMPLIFY, nil, rhs)
}

// OrAlso returns a left-biased alternation between two directives.
func OrAlso(lhs, rhs *Directive) *Directive {
	return NewDirective(OR_ALSO, lhs, rhs)
}

// Iff returns a directive that translates rhs only when cond resolves to a
// literal true over the bound variables.
func Iff(cond, rhs *Directive) *Directive {
	return NewDirective(IFF, cond, rhs)
}

// MaskUnknown extracts the unknown-bit mask of the translated operand.
func MaskUnknown(rhs *Directive) *Directive {
	return NewDirective(MASK_UNKNOWN, nil, rhs)
}

// MaskOne extracts the known-one mask of the translated operand.
func MaskOne(rhs *Directive) *Directive {
	return NewDirective(MASK_ONE, nil, rhs)
}

// MaskZero extracts the known-zero mask of the translated operand.
func MaskZero(rhs *Directive) *Directive {
	return NewDirective(MASK_ZERO, nil, rhs)
}

// Unreachable returns a directive that asserts the enclosing branch is never
// taken. Reaching it at translation time is a rule authoring error.
func Unreachable() *Directive {
	return &Directive{Op: UNREACHABLE}
}

// Warn returns a directive that logs a diagnostic and translates rhs
// unchanged.
func Warn(rhs *Directive) *Directive {
	return NewDirective(WARNING, nil, rhs)
}

// String returns the string representation of the directive.
func (d *Directive) String() string {
	switch {
	case d.Op == Invalid && d.ID != "":
		return d.ID
	case d.Op == Invalid:
		return fmt.Sprintf("%d", d.Value)
	case d.LHS == nil && d.RHS == nil:
		return fmt.Sprintf("(%s)", d.Op)
	case d.LHS == nil:
		return fmt.Sprintf("(%s %s)", d.Op, d.RHS)
	default:
		return fmt.Sprintf("(%s %s %s)", d.Op, d.LHS, d.RHS)
	}
}

// Vars calls fn once for every distinct pattern variable in the directive.
func (d *Directive) Vars(fn func(id string)) {
	seen := make(map[string]struct{})
	var walk func(d *Directive)
	walk = func(d *Directive) {
		if d == nil {
			return
		}
		if d.Op == Invalid && d.ID != "" {
			if _, ok := seen[d.ID]; !ok {
				seen[d.ID] = struct{}{}
				fn(d.ID)
			}
			return
		}
		walk(d.LHS)
		walk(d.RHS)
	}
	walk(d)
}

// ContainsDirectiveOp returns true if any node in the tree is a
// meta-directive. Match patterns must be free of them.
func (d *Directive) ContainsDirectiveOp() bool {
	if d == nil {
		return false
	}
	if d.Op.IsDirective() {
		return true
	}
	return d.LHS.ContainsDirectiveOp() || d.RHS.ContainsDirectiveOp()
}
