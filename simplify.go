package symx

// Simplify normalizes e in place and reports whether it reduced the node to a
// strictly simpler form. The caller must exclusively own e: the root node is
// rewritten, while sub-expressions reachable from it are left untouched and
// any rebuilt parts are fresh nodes. On failure e is unchanged except for the
// normalization hint.
func (e *Expr) Simplify() bool {
	s := normalize(e)
	if Compare(s, e) == 0 {
		e.simplifyHint = true
		return false
	}
	*e = *s
	e.simplifyHint = true
	return true
}

// normalize rebuilds the expression through the folding constructors,
// children first. It returns e itself when nothing reduces.
func normalize(e *Expr) *Expr {
	switch {
	case e.Op == Invalid:
		return e
	case e.Op.IsCast():
		return NewCastExpr(normalize(e.LHS), e.Width, e.Op == CAST)
	case e.LHS == nil:
		return NewUnaryExpr(e.Op, normalize(e.RHS))
	default:
		return NewBinaryExpr(e.Op, normalize(e.LHS), normalize(e.RHS))
	}
}

// Simplifier applies a rule set to expressions bottom-up, repeating until no
// rule makes further progress.
type Simplifier struct {
	Rules *RuleSet

	// MaxPasses bounds the number of whole-tree passes so a misbehaving rule
	// set cannot loop.
	MaxPasses int
}

// NewSimplifier returns a simplifier over the given rule set.
func NewSimplifier(rules *RuleSet) *Simplifier {
	return &Simplifier{Rules: rules, MaxPasses: 16}
}

// SimplifyExpr returns the simplified form of expr and reports whether any
// rule applied. expr itself is never mutated; rewrites only accept results
// that do not increase complexity.
func (s *Simplifier) SimplifyExpr(expr *Expr) (*Expr, bool) {
	// Numeric normalization first so rules see a canonical tree.
	out := expr.Clone()
	changed := out.Simplify()
	for pass := 0; pass < s.MaxPasses; pass++ {
		next, ok := s.simplifyOnce(out)
		if !ok {
			break
		}
		out, changed = next, true
	}
	return out, changed
}

// simplifyOnce rewrites children first, then tries each rule at the root.
func (s *Simplifier) simplifyOnce(e *Expr) (*Expr, bool) {
	changed := false
	switch {
	case e.Op == Invalid:
	case e.Op.IsCast():
		if lhs, ok := s.simplifyOnce(e.LHS); ok {
			e, changed = NewCastExpr(lhs, e.Width, e.Op == CAST), true
		}
	case e.LHS == nil:
		if rhs, ok := s.simplifyOnce(e.RHS); ok {
			e, changed = NewUnaryExpr(e.Op, rhs), true
		}
	default:
		lhs, lok := s.simplifyOnce(e.LHS)
		rhs, rok := s.simplifyOnce(e.RHS)
		if lok || rok {
			e, changed = NewBinaryExpr(e.Op, lhs, rhs), true
		}
	}

	before := e
	for _, rule := range s.Rules.Rules {
		out, ok := Transform(e, rule.From, rule.To, func(out *Expr) bool {
			return out.Complexity() <= before.Complexity()
		})
		if ok {
			logf("rule %q: %s => %s", rule.Name, e, out)
			return out, true
		}
	}
	return e, changed
}
