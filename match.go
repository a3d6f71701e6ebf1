package symx

// Match returns every distinct binding environment under which pattern
// structurally matches expr. Candidates come back in deterministic order:
// commutative operators are tried with their operands unswapped first, so
// callers that prefer specific bindings can rely on candidate order.
func Match(pattern *Directive, expr *Expr) []*SymbolTable {
	return matchInto(nil, pattern, expr, NewSymbolTable())
}

func matchInto(dst []*SymbolTable, p *Directive, e *Expr, st *SymbolTable) []*SymbolTable {
	if p.Op == Invalid {
		// Variable leaf: bind, or require structural equality with the
		// existing binding.
		if p.ID != "" {
			if bound, ok := st.Resolve(p.ID); ok {
				if Compare(bound, e) == 0 {
					dst = append(dst, st)
				}
				return dst
			}
			return append(dst, st.Bind(p.ID, e))
		}

		// Literal leaf: the expression must be a constant of equal value.
		if v, ok := e.ConstantValue(); ok && v == p.Value&bitmask(e.Width) {
			dst = append(dst, st)
		}
		return dst
	}

	assert(!p.Op.IsDirective(), "meta-directive %s in match pattern", p.Op)
	if e.Op != p.Op {
		return dst
	}

	switch {
	case p.Op.IsCast():
		// The width operand matches against the concrete node's width.
		for _, st1 := range matchInto(nil, p.LHS, e.LHS, st) {
			dst = matchInto(dst, p.RHS, NewConstantExpr(uint64(e.Width), Width8), st1)
		}
	case p.Op.IsUnary():
		dst = matchInto(dst, p.RHS, e.RHS, st)
	default:
		for _, st1 := range matchInto(nil, p.LHS, e.LHS, st) {
			dst = matchInto(dst, p.RHS, e.RHS, st1)
		}
		// Commutative operators also propose the swapped operand order,
		// unless both operands are structurally identical anyway.
		if p.Op.IsCommutative() && Compare(e.LHS, e.RHS) != 0 {
			for _, st1 := range matchInto(nil, p.LHS, e.RHS, st) {
				dst = matchInto(dst, p.RHS, e.LHS, st1)
			}
		}
	}
	return dst
}
