package symx

// FilterFunc decides whether a rewritten expression is acceptable to the
// caller. It must be pure: the engine may invoke it for candidates that are
// later discarded.
type FilterFunc func(*Expr) bool

// Translate evaluates a directive tree against a symbol table and produces a
// concrete expression. Leaf literals are materialized at the given width.
//
// In speculative mode nothing is constructed: the boolean result reports
// whether a constructive translation would succeed and the returned
// expression is always nil, so a speculative result can never leak into
// caller-visible output. In constructive mode a successful translation
// returns the resulting expression, which the caller then owns.
//
// Ordinary translation failure is (nil, false) and carries no side effects.
// Malformed rules — an unreachable directive reached, an unknown directive
// op, a cast whose width operand is not a literal — panic instead, since they
// indicate an authoring error rather than a non-match.
func Translate(st *SymbolTable, dir *Directive, width uint, speculative bool) (*Expr, bool) {
	// Variable and constant leaves translate to their concrete equivalent.
	if dir.Op == Invalid {
		if dir.ID != "" {
			expr, ok := st.Resolve(dir.ID)
			if !ok {
				return nil, false
			}
			if speculative {
				return nil, true
			}
			return expr, true
		}
		if speculative {
			return nil, true
		}
		return NewConstantExpr(dir.Value, width), true
	}

	// Algebra operators, including casts.
	if dir.Op.IsAlgebra() {
		// Speculative evaluation only checks that the operands translate;
		// no expression is built.
		if speculative {
			if dir.LHS != nil {
				if _, ok := Translate(st, dir.LHS, width, true); !ok {
					return nil, false
				}
			}
			if _, ok := Translate(st, dir.RHS, width, true); !ok {
				return nil, false
			}
			return nil, true
		}

		switch {
		case dir.Op.IsCast():
			lhs, ok := Translate(st, dir.LHS, width, false)
			if !ok {
				return nil, false
			}
			rhs, ok := Translate(st, dir.RHS, width, false)
			if !ok {
				return nil, false
			}
			size, ok := rhs.ConstantValue()
			assert(ok, "cast width is not a literal: %s", dir.RHS)
			resized := lhs.Clone()
			resized.Resize(uint(size), dir.Op == CAST)
			return resized, true

		case dir.LHS != nil:
			lhs, ok := Translate(st, dir.LHS, width, false)
			if !ok {
				return nil, false
			}
			rhs, ok := Translate(st, dir.RHS, width, false)
			if !ok {
				return nil, false
			}
			return NewBinaryExpr(dir.Op, lhs, rhs), true

		default:
			rhs, ok := Translate(st, dir.RHS, width, false)
			if !ok {
				return nil, false
			}
			return NewUnaryExpr(dir.Op, rhs), true
		}
	}

	switch dir.Op {
	case SIMPLIFY:
		// Always constructive: the directive accepts its operand only if the
		// built expression strictly reduces and has not already been through
		// normalization.
		if e1, ok := Translate(st, dir.RHS, width, false); ok && !e1.SimplifyHint() {
			e1 = e1.Clone()
			if e1.Simplify() {
				if speculative {
					return nil, true
				}
				return e1, true
			}
		}
		logf("simplify: rejected, %s does not reduce", dir.RHS)
		return nil, false

	case TRY_SIMPLIFY:
		// Best effort: the translated expression is returned whether or not
		// normalization makes progress.
		e1, ok := Translate(st, dir.RHS, width, speculative)
		if !ok {
			return nil, false
		}
		if speculative {
			return nil, true
		}
		e1 = e1.Clone()
		e1.Simplify()
		return e1, true

	case OR_ALSO:
		// Left-biased alternation.
		if e1, ok := Translate(st, dir.LHS, width, speculative); ok {
			return e1, true
		}
		return Translate(st, dir.RHS, width, speculative)

	case IFF:
		// The condition is always evaluated constructively and must resolve
		// to a literal true.
		cond, ok := Translate(st, dir.LHS, width, false)
		if ok {
			cond = cond.Clone()
			cond.Simplify()
		}
		if !ok || !IsConstantTrue(cond) {
			logf("iff: rejected %s, condition %s not met", dir.RHS, dir.LHS)
			return nil, false
		}
		return Translate(st, dir.RHS, width, speculative)

	case MASK_UNKNOWN, MASK_ONE, MASK_ZERO:
		exp, ok := Translate(st, dir.RHS, width, speculative)
		if !ok {
			return nil, false
		}
		if speculative {
			return nil, true
		}
		switch dir.Op {
		case MASK_UNKNOWN:
			return NewConstantExpr(exp.UnknownMask(), exp.Width), true
		case MASK_ONE:
			return NewConstantExpr(exp.KnownOne(), exp.Width), true
		default:
			return NewConstantExpr(exp.KnownZero(), exp.Width), true
		}

	case UNREACHABLE:
		// A rule declared this branch impossible.
		panic("symx: directive-time assertion failure: " + st.String())

	case WARNING:
		logf("warning: %s", dir.RHS)
		return Translate(st, dir.RHS, width, speculative)

	default:
		panic("symx: invalid directive op: " + dir.Op.String())
	}
}

// Transform matches expr against the from pattern and, for the first viable
// candidate binding, instantiates the to pattern at expr's width.
//
// With a filter, each candidate is translated constructively and the first
// result the filter accepts wins. Without one, each candidate is first
// checked speculatively so non-viable bindings are skipped before any node is
// constructed; the constructive re-translation of a speculatively accepted
// candidate must succeed, anything else is an interpreter defect.
//
// Candidates are tried in matcher order; the first accepted result wins.
func Transform(expr *Expr, from, to *Directive, filter FilterFunc) (*Expr, bool) {
	matches := Match(from, expr)
	if len(matches) == 0 {
		return nil, false
	}

	if filter != nil {
		for _, match := range matches {
			logf("translating [%s] => [%s]: %s", from, to, match)
			out, ok := Translate(match, to, expr.Width, false)
			if !ok {
				logf("rejected by directive")
				continue
			}
			if !filter(out) {
				logf("rejected by filter (complexity: %g vs %g)", out.Complexity(), expr.Complexity())
				continue
			}
			return out, true
		}
		return nil, false
	}

	for _, match := range matches {
		// Cheap feasibility check before paying construction cost.
		if _, ok := Translate(match, to, expr.Width, true); !ok {
			logf("rejected by directive")
			continue
		}
		logf("translating [%s] => [%s]: %s", from, to, match)

		out, ok := Translate(match, to, expr.Width, false)
		assert(ok, "translation failed after speculative success: [%s] => [%s]", from, to)
		return out, true
	}
	return nil, false
}
