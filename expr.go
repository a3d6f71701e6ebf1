package symx

import "fmt"

// Expr represents a concrete IR expression node.
//
// An expression is logically immutable once it is shared. The mutating
// operations (Resize, Simplify) may only be applied to a node the caller
// exclusively owns, such as one freshly returned by Translate; sub-expressions
// reachable from a node are never mutated through it.
type Expr struct {
	Op    Op
	LHS   *Expr
	RHS   *Expr
	Ident string // symbolic variable name; empty on constants
	Value uint64 // constant value; meaningful only on constant leaves
	Width uint

	simplifyHint bool
}

// NewConstantExpr returns a constant expression of the given width.
func NewConstantExpr(value uint64, width uint) *Expr {
	return &Expr{Value: value & bitmask(width), Width: width}
}

// NewBoolConstantExpr is an ease of use function for creating constant boolean expressions.
func NewBoolConstantExpr(value bool) *Expr {
	if value {
		return &Expr{Value: 1, Width: WidthBool}
	}
	return &Expr{Value: 0, Width: WidthBool}
}

// NewVarExpr returns a symbolic variable expression of the given width.
func NewVarExpr(ident string, width uint) *Expr {
	assert(ident != "", "variable expression requires an identifier")
	return &Expr{Ident: ident, Width: width}
}

// NewUnaryExpr returns a new expression with a single operand.
func NewUnaryExpr(op Op, rhs *Expr) *Expr {
	switch op {
	case NEG:
		return newNegExpr(rhs)
	case NOT:
		return newNotExpr(rhs)
	default:
		panic(fmt.Sprintf("invalid unary op: %s", op))
	}
}

// newNegExpr returns an expression representing the two's complement of rhs.
func newNegExpr(rhs *Expr) *Expr {
	if v, ok := rhs.ConstantValue(); ok {
		return NewConstantExpr(0-v, rhs.Width)
	}
	if rhs.Op == NEG { // -(-x) == x
		return rhs.RHS
	}
	return &Expr{Op: NEG, RHS: rhs, Width: rhs.Width}
}

// newNotExpr returns an expression representing the bitwise NOT of rhs.
func newNotExpr(rhs *Expr) *Expr {
	if v, ok := rhs.ConstantValue(); ok {
		return NewConstantExpr(^v, rhs.Width)
	}
	if rhs.Op == NOT { // ~(~x) == x
		return rhs.RHS
	}
	return &Expr{Op: NOT, RHS: rhs, Width: rhs.Width}
}

// NewBinaryExpr returns a new expression combining two operands with op.
func NewBinaryExpr(op Op, lhs, rhs *Expr) *Expr {
	switch op {
	case ADD:
		return newAddExpr(lhs, rhs)
	case SUB:
		return newSubExpr(lhs, rhs)
	case MUL:
		return newMulExpr(lhs, rhs)
	case UDIV, SDIV:
		return newDivExpr(op, lhs, rhs)
	case UREM, SREM:
		return newRemExpr(op, lhs, rhs)
	case AND:
		return newAndExpr(lhs, rhs)
	case OR:
		return newOrExpr(lhs, rhs)
	case XOR:
		return newXorExpr(lhs, rhs)
	case SHL, LSHR, ASHR:
		return newShiftExpr(op, lhs, rhs)
	case EQ, NE, ULT, ULE, UGT, UGE, SLT, SLE, SGT, SGE:
		return newCompareExpr(op, lhs, rhs)
	default:
		panic(fmt.Sprintf("invalid binary op: %s", op))
	}
}

// newAddExpr returns the expression representing the sum of lhs & rhs.
func newAddExpr(lhs, rhs *Expr) *Expr {
	// Move constant expression to left hand side.
	if !lhs.IsConstant() && rhs.IsConstant() {
		lhs, rhs = rhs, lhs
	}

	// Compute constant if both sides are constant.
	if lv, ok := lhs.ConstantValue(); ok {
		if lv == 0 {
			return rhs
		} else if rv, ok := rhs.ConstantValue(); ok {
			return NewConstantExpr(lv+rv, lhs.Width)
		}
	}
	return &Expr{Op: ADD, LHS: lhs, RHS: rhs, Width: lhs.Width}
}

// newSubExpr returns an expression representing the difference of lhs & rhs.
func newSubExpr(lhs, rhs *Expr) *Expr {
	// Subtracting a value from itself is zero.
	if Compare(lhs, rhs) == 0 {
		return NewConstantExpr(0, lhs.Width)
	}

	// Compute constant if both sides are constant.
	if lv, ok := lhs.ConstantValue(); ok {
		if rv, ok := rhs.ConstantValue(); ok {
			return NewConstantExpr(lv-rv, lhs.Width)
		}
	}

	// Subtracting zero is a no-op.
	if rv, ok := rhs.ConstantValue(); ok && rv == 0 {
		return lhs
	}
	return &Expr{Op: SUB, LHS: lhs, RHS: rhs, Width: lhs.Width}
}

// newMulExpr returns an expression that represents the product of lhs & rhs.
func newMulExpr(lhs, rhs *Expr) *Expr {
	// Move constant expression to left hand side.
	if !lhs.IsConstant() && rhs.IsConstant() {
		lhs, rhs = rhs, lhs
	}

	if lv, ok := lhs.ConstantValue(); ok {
		if rv, ok := rhs.ConstantValue(); ok {
			return NewConstantExpr(lv*rv, lhs.Width)
		}
		if lv == 1 {
			return rhs
		} else if lv == 0 {
			return lhs
		}
	}
	return &Expr{Op: MUL, LHS: lhs, RHS: rhs, Width: lhs.Width}
}

// newDivExpr returns an expression that represents the division of lhs by rhs.
func newDivExpr(op Op, lhs, rhs *Expr) *Expr {
	assert(op == UDIV || op == SDIV, "invalid div op: %s", op)

	// Division by zero is never folded.
	if lv, ok := lhs.ConstantValue(); ok {
		if rv, ok := rhs.ConstantValue(); ok && rv != 0 {
			if op == UDIV {
				return NewConstantExpr(lv/rv, lhs.Width)
			}
			q := signedValue(lv, lhs.Width) / signedValue(rv, rhs.Width)
			return NewConstantExpr(uint64(q), lhs.Width)
		}
	}
	if rv, ok := rhs.ConstantValue(); ok && rv == 1 {
		return lhs
	}
	return &Expr{Op: op, LHS: lhs, RHS: rhs, Width: lhs.Width}
}

// newRemExpr returns an expression that represents the remainder of lhs divided by rhs.
func newRemExpr(op Op, lhs, rhs *Expr) *Expr {
	assert(op == UREM || op == SREM, "invalid rem op: %s", op)

	if lv, ok := lhs.ConstantValue(); ok {
		if rv, ok := rhs.ConstantValue(); ok && rv != 0 {
			if op == UREM {
				return NewConstantExpr(lv%rv, lhs.Width)
			}
			r := signedValue(lv, lhs.Width) % signedValue(rv, rhs.Width)
			return NewConstantExpr(uint64(r), lhs.Width)
		}
	}
	if rv, ok := rhs.ConstantValue(); ok && rv == 1 {
		return NewConstantExpr(0, lhs.Width)
	}
	return &Expr{Op: op, LHS: lhs, RHS: rhs, Width: lhs.Width}
}

// newAndExpr returns an expression that represents the bitwise AND of lhs & rhs.
func newAndExpr(lhs, rhs *Expr) *Expr {
	// Move constant expression to right hand side.
	if lhs.IsConstant() && !rhs.IsConstant() {
		lhs, rhs = rhs, lhs
	}

	if rv, ok := rhs.ConstantValue(); ok {
		if lv, ok := lhs.ConstantValue(); ok {
			return NewConstantExpr(lv&rv, lhs.Width)
		}
		if rv == bitmask(lhs.Width) {
			return lhs
		} else if rv == 0 {
			return rhs
		}
	}
	if Compare(lhs, rhs) == 0 {
		return lhs
	}
	return &Expr{Op: AND, LHS: lhs, RHS: rhs, Width: lhs.Width}
}

// newOrExpr returns an expression that represents the bitwise OR of lhs & rhs.
func newOrExpr(lhs, rhs *Expr) *Expr {
	// Move constant expression to right hand side.
	if lhs.IsConstant() && !rhs.IsConstant() {
		lhs, rhs = rhs, lhs
	}

	if rv, ok := rhs.ConstantValue(); ok {
		if lv, ok := lhs.ConstantValue(); ok {
			return NewConstantExpr(lv|rv, lhs.Width)
		}
		if rv == bitmask(lhs.Width) {
			return rhs
		} else if rv == 0 {
			return lhs
		}
	}
	if Compare(lhs, rhs) == 0 {
		return lhs
	}
	return &Expr{Op: OR, LHS: lhs, RHS: rhs, Width: lhs.Width}
}

// newXorExpr returns an expression that represents the bitwise XOR of lhs & rhs.
func newXorExpr(lhs, rhs *Expr) *Expr {
	// Move constant expression to left hand side.
	if !lhs.IsConstant() && rhs.IsConstant() {
		lhs, rhs = rhs, lhs
	}

	if lv, ok := lhs.ConstantValue(); ok {
		if lv == 0 {
			return rhs
		} else if rv, ok := rhs.ConstantValue(); ok {
			return NewConstantExpr(lv^rv, lhs.Width)
		}
	}
	if Compare(lhs, rhs) == 0 {
		return NewConstantExpr(0, lhs.Width)
	}
	return &Expr{Op: XOR, LHS: lhs, RHS: rhs, Width: lhs.Width}
}

// newShiftExpr returns an expression that represents lhs shifted by rhs bits.
func newShiftExpr(op Op, lhs, rhs *Expr) *Expr {
	assert(op == SHL || op == LSHR || op == ASHR, "invalid shift op: %s", op)

	if lv, ok := lhs.ConstantValue(); ok {
		if rv, ok := rhs.ConstantValue(); ok {
			w := lhs.Width
			switch op {
			case SHL:
				if rv >= uint64(w) {
					return NewConstantExpr(0, w)
				}
				return NewConstantExpr(lv<<rv, w)
			case LSHR:
				if rv >= uint64(w) {
					return NewConstantExpr(0, w)
				}
				return NewConstantExpr(lv>>rv, w)
			case ASHR:
				if rv >= uint64(w) {
					rv = uint64(w) - 1
				}
				return NewConstantExpr(uint64(signedValue(lv, w)>>rv), w)
			}
		}
	}
	if rv, ok := rhs.ConstantValue(); ok && rv == 0 {
		return lhs
	}
	return &Expr{Op: op, LHS: lhs, RHS: rhs, Width: lhs.Width}
}

// newCompareExpr returns a width-1 expression comparing lhs and rhs.
func newCompareExpr(op Op, lhs, rhs *Expr) *Expr {
	if lv, ok := lhs.ConstantValue(); ok {
		if rv, ok := rhs.ConstantValue(); ok {
			ls, rs := signedValue(lv, lhs.Width), signedValue(rv, rhs.Width)
			switch op {
			case EQ:
				return NewBoolConstantExpr(lv == rv)
			case NE:
				return NewBoolConstantExpr(lv != rv)
			case ULT:
				return NewBoolConstantExpr(lv < rv)
			case ULE:
				return NewBoolConstantExpr(lv <= rv)
			case UGT:
				return NewBoolConstantExpr(lv > rv)
			case UGE:
				return NewBoolConstantExpr(lv >= rv)
			case SLT:
				return NewBoolConstantExpr(ls < rs)
			case SLE:
				return NewBoolConstantExpr(ls <= rs)
			case SGT:
				return NewBoolConstantExpr(ls > rs)
			case SGE:
				return NewBoolConstantExpr(ls >= rs)
			}
		}
	}

	if Compare(lhs, rhs) == 0 {
		switch op {
		case EQ, ULE, UGE, SLE, SGE:
			return NewBoolConstantExpr(true)
		default:
			return NewBoolConstantExpr(false)
		}
	}

	// A bit known one on one side and known zero on the other decides
	// equality without full values.
	if op == EQ || op == NE {
		if lhs.KnownOne()&rhs.KnownZero() != 0 || lhs.KnownZero()&rhs.KnownOne() != 0 {
			return NewBoolConstantExpr(op == NE)
		}
	}
	return &Expr{Op: op, LHS: lhs, RHS: rhs, Width: WidthBool}
}

// NewCastExpr returns an expression resizing src to a new width,
// sign-extending if signed is set.
func NewCastExpr(src *Expr, width uint, signed bool) *Expr {
	if width == src.Width { // nop
		return src
	}
	if v, ok := src.ConstantValue(); ok {
		if signed {
			return NewConstantExpr(uint64(signedValue(v, src.Width)), width)
		}
		return NewConstantExpr(v, width)
	}

	op := UCAST
	if signed {
		op = CAST
	}
	return &Expr{Op: op, LHS: src, Width: width}
}

// Clone returns a copy of e that the caller exclusively owns. Children are
// shared; only the root node may be mutated afterward.
func (e *Expr) Clone() *Expr {
	other := *e
	return &other
}

// Resize rewrites e in place to the given width. The caller must exclusively
// own e; the previous node is demoted to a child where folding cannot apply.
func (e *Expr) Resize(width uint, signed bool) {
	if e.Width == width {
		return
	}
	src := e.Clone()
	*e = *NewCastExpr(src, width, signed)
}

// IsConstant returns true if e is a constant leaf.
func (e *Expr) IsConstant() bool {
	return e.Op == Invalid && e.Ident == ""
}

// ConstantValue returns the literal value if e is a fully known constant.
func (e *Expr) ConstantValue() (uint64, bool) {
	if e.Op == Invalid && e.Ident == "" {
		return e.Value, true
	}
	return 0, false
}

// IsConstantTrue returns true if expr is a constant with a non-zero value.
func IsConstantTrue(expr *Expr) bool {
	v, ok := expr.ConstantValue()
	return ok && v != 0
}

// KnownOne returns the mask of bits known to be one.
func (e *Expr) KnownOne() uint64 {
	ones, _ := knownBits(e)
	return ones
}

// KnownZero returns the mask of bits known to be zero.
func (e *Expr) KnownZero() uint64 {
	_, zeros := knownBits(e)
	return zeros
}

// UnknownMask returns the mask of bits whose value cannot be determined.
func (e *Expr) UnknownMask() uint64 {
	ones, zeros := knownBits(e)
	return bitmask(e.Width) &^ (ones | zeros)
}

// knownBits returns the masks of bits of e that are known to be one and
// known to be zero. Operators without a cheap bit-level rule report nothing.
func knownBits(e *Expr) (ones, zeros uint64) {
	m := bitmask(e.Width)
	switch e.Op {
	case Invalid:
		if e.Ident != "" {
			return 0, 0
		}
		return e.Value, ^e.Value & m
	case AND:
		lo, lz := knownBits(e.LHS)
		ro, rz := knownBits(e.RHS)
		return lo & ro, (lz | rz) & m
	case OR:
		lo, lz := knownBits(e.LHS)
		ro, rz := knownBits(e.RHS)
		return (lo | ro) & m, lz & rz
	case XOR:
		lo, lz := knownBits(e.LHS)
		ro, rz := knownBits(e.RHS)
		known := (lo | lz) & (ro | rz)
		return ((lo & rz) | (lz & ro)) & known, ((lo & ro) | (lz & rz)) & known
	case NOT:
		o, z := knownBits(e.RHS)
		return z, o
	case UCAST:
		o, z := knownBits(e.LHS)
		if e.Width > e.LHS.Width {
			// Zero extension pins the new high bits.
			z |= m &^ bitmask(e.LHS.Width)
		}
		return o & m, z & m
	default:
		return 0, 0
	}
}

// Complexity returns a scalar cost estimate used by rewrite filters.
// Constants cost nothing so rewrites that fold to constants always win.
func (e *Expr) Complexity() float64 {
	if e.Op == Invalid {
		if e.Ident == "" {
			return 0
		}
		return 1
	}
	n := 1.0
	if e.LHS != nil {
		n += e.LHS.Complexity()
	}
	if e.RHS != nil {
		n += e.RHS.Complexity()
	}
	return n
}

// SimplifyHint returns true if e has already been through normalization.
func (e *Expr) SimplifyHint() bool { return e.simplifyHint }

// String returns the string representation of the expression.
func (e *Expr) String() string {
	switch {
	case e.Op == Invalid && e.Ident == "":
		return fmt.Sprintf("(const %d %d)", e.Value, e.Width)
	case e.Op == Invalid:
		return fmt.Sprintf("(var %s %d)", e.Ident, e.Width)
	case e.Op.IsCast():
		return fmt.Sprintf("(%s %s %d)", e.Op, e.LHS, e.Width)
	case e.LHS == nil:
		return fmt.Sprintf("(%s %s)", e.Op, e.RHS)
	default:
		return fmt.Sprintf("(%s %s %s)", e.Op, e.LHS, e.RHS)
	}
}

// Compare returns an integer comparing two expressions structurally.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
func Compare(a, b *Expr) int {
	if a == nil && b != nil {
		return -1
	} else if a != nil && b == nil {
		return 1
	} else if a == nil && b == nil {
		return 0
	}

	if a.Op < b.Op {
		return -1
	} else if a.Op > b.Op {
		return 1
	}
	if a.Width < b.Width {
		return -1
	} else if a.Width > b.Width {
		return 1
	}
	if a.Ident < b.Ident {
		return -1
	} else if a.Ident > b.Ident {
		return 1
	}
	if a.Value < b.Value {
		return -1
	} else if a.Value > b.Value {
		return 1
	}

	if cmp := Compare(a.LHS, b.LHS); cmp != 0 {
		return cmp
	}
	return Compare(a.RHS, b.RHS)
}

// signedValue reinterprets the low width bits of v as a signed integer.
func signedValue(v uint64, width uint) int64 {
	return int64(v<<(64-width)) >> (64 - width)
}

func bitmask(width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (1 << width) - 1
}
