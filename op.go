package symx

import "fmt"

// Op identifies an operator in the shared expression/directive tag space.
// Algebra operators appear in both concrete expressions and directive trees;
// directive operators appear only in directive trees. The two families occupy
// disjoint ranges so an algebra id can never collide with a directive id.
type Op int

const (
	// Invalid marks a leaf node (constant or variable).
	Invalid = Op(iota)

	arithmetic_op_begin
	NEG
	NOT
	ADD
	SUB
	MUL
	UDIV
	SDIV
	UREM
	SREM
	AND
	OR
	XOR
	SHL
	LSHR
	ASHR
	UCAST
	CAST
	arithmetic_op_end

	compare_op_begin
	EQ
	NE
	ULT
	ULE
	UGT
	UGE
	SLT
	SLE
	SGT
	SGE
	compare_op_end

	directive_op_begin
	SIMPLIFY
	TRY_SIMPLIFY
	OR_ALSO
	IFF
	MASK_UNKNOWN
	MASK_ONE
	MASK_ZERO
	UNREACHABLE
	WARNING
	directive_op_end
)

var opNames = [...]string{
	NEG:  "neg",
	NOT:  "not",
	ADD:  "add",
	SUB:  "sub",
	MUL:  "mul",
	UDIV: "udiv",
	SDIV: "sdiv",
	UREM: "urem",
	SREM: "srem",
	AND:  "and",
	OR:   "or",
	XOR:  "xor",
	SHL:  "shl",
	LSHR: "lshr",
	ASHR: "ashr",

	UCAST: "ucast",
	CAST:  "cast",

	EQ:  "eq",
	NE:  "ne",
	ULT: "ult",
	ULE: "ule",
	UGT: "ugt",
	UGE: "uge",
	SLT: "slt",
	SLE: "sle",
	SGT: "sgt",
	SGE: "sge",

	SIMPLIFY:     "simplify",
	TRY_SIMPLIFY: "try_simplify",
	OR_ALSO:      "or_also",
	IFF:          "iff",
	MASK_UNKNOWN: "mask_unknown",
	MASK_ONE:     "mask_one",
	MASK_ZERO:    "mask_zero",
	UNREACHABLE:  "unreachable",
	WARNING:      "warning",
}

var opsByName map[string]Op

func init() {
	opsByName = make(map[string]Op, len(opNames))
	for op, name := range opNames {
		if name != "" {
			opsByName[name] = Op(op)
		}
	}
}

// OpByName returns the operator with the given name.
func OpByName(name string) (Op, bool) {
	op, ok := opsByName[name]
	return op, ok
}

// String returns the string representation of the operator.
func (op Op) String() string {
	if op >= 0 && op < Op(len(opNames)) && opNames[op] != "" {
		return opNames[op]
	}
	return fmt.Sprintf("Op<%d>", int(op))
}

// IsArithmetic returns true if op is an arithmetic or bitwise operator.
func (op Op) IsArithmetic() bool {
	return op > arithmetic_op_begin && op < arithmetic_op_end
}

// IsCompare returns true if op is a comparison operator.
func (op Op) IsCompare() bool {
	return op > compare_op_begin && op < compare_op_end
}

// IsAlgebra returns true if op belongs to the expression algebra.
func (op Op) IsAlgebra() bool {
	return op.IsArithmetic() || op.IsCompare()
}

// IsDirective returns true if op is a meta-directive operator.
func (op Op) IsDirective() bool {
	return op > directive_op_begin && op < directive_op_end
}

// IsUnary returns true if op takes a single operand.
func (op Op) IsUnary() bool {
	return op == NEG || op == NOT
}

// IsCast returns true if op is a resizing cast.
func (op Op) IsCast() bool {
	return op == UCAST || op == CAST
}

// IsCommutative returns true if op is invariant under operand order.
func (op Op) IsCommutative() bool {
	switch op {
	case ADD, MUL, AND, OR, XOR, EQ, NE:
		return true
	default:
		return false
	}
}

// shape returns which children a node with the given op carries.
func (op Op) shape() (lhs, rhs bool) {
	switch {
	case op == Invalid || op == UNREACHABLE:
		return false, false
	case op.IsUnary():
		return false, true
	case op == SIMPLIFY || op == TRY_SIMPLIFY || op == WARNING,
		op == MASK_UNKNOWN || op == MASK_ONE || op == MASK_ZERO:
		return false, true
	default:
		return true, true
	}
}
