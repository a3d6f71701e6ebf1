package symx_test

import (
	"testing"

	"github.com/symx-lang/symx"
)

func TestMatch(t *testing.T) {
	t.Run("VariableLeaf", func(t *testing.T) {
		e := symx.NewVarExpr("a", 32)
		matches := symx.Match(symx.Var("x"), e)
		if len(matches) != 1 {
			t.Fatalf("unexpected match count: %d", len(matches))
		}
		if bound, ok := matches[0].Resolve("x"); !ok || bound != e {
			t.Fatalf("unexpected binding: %v", bound)
		}
	})
	t.Run("LiteralLeaf", func(t *testing.T) {
		if m := symx.Match(symx.Num(5), symx.NewConstantExpr(5, 32)); len(m) != 1 {
			t.Fatalf("unexpected match count: %d", len(m))
		}
		if m := symx.Match(symx.Num(5), symx.NewConstantExpr(6, 32)); len(m) != 0 {
			t.Fatalf("unexpected match count: %d", len(m))
		}
		if m := symx.Match(symx.Num(5), symx.NewVarExpr("a", 32)); len(m) != 0 {
			t.Fatalf("unexpected match count: %d", len(m))
		}
	})
	t.Run("LiteralMaskedToWidth", func(t *testing.T) {
		// The pattern literal is compared at the expression's width.
		if m := symx.Match(symx.Num(0x1FF), symx.NewConstantExpr(0xFF, 8)); len(m) != 1 {
			t.Fatalf("unexpected match count: %d", len(m))
		}
	})
	t.Run("OpMismatch", func(t *testing.T) {
		e := symx.NewBinaryExpr(symx.ADD, symx.NewVarExpr("a", 32), symx.NewVarExpr("b", 32))
		p := symx.NewDirective(symx.SUB, symx.Var("x"), symx.Var("y"))
		if m := symx.Match(p, e); len(m) != 0 {
			t.Fatalf("unexpected match count: %d", len(m))
		}
	})
	t.Run("RepeatedVariable", func(t *testing.T) {
		p := symx.NewDirective(symx.SUB, symx.Var("x"), symx.Var("x"))

		a1, a2 := symx.NewVarExpr("a", 32), symx.NewVarExpr("a", 32)
		e := &symx.Expr{Op: symx.SUB, LHS: a1, RHS: a2, Width: 32}
		if m := symx.Match(p, e); len(m) != 1 {
			t.Fatalf("unexpected match count: %d", len(m))
		}

		e = &symx.Expr{Op: symx.SUB, LHS: a1, RHS: symx.NewVarExpr("b", 32), Width: 32}
		if m := symx.Match(p, e); len(m) != 0 {
			t.Fatalf("unexpected match count: %d", len(m))
		}
	})
	t.Run("CommutativeOrder", func(t *testing.T) {
		a, b := symx.NewVarExpr("a", 32), symx.NewVarExpr("b", 32)
		e := symx.NewBinaryExpr(symx.ADD, a, b)
		p := symx.NewDirective(symx.ADD, symx.Var("x"), symx.Var("y"))
		matches := symx.Match(p, e)
		if len(matches) != 2 {
			t.Fatalf("unexpected match count: %d", len(matches))
		}
		if x, _ := matches[0].Resolve("x"); x != a {
			t.Fatalf("unexpected first binding: %s", x)
		}
		if x, _ := matches[1].Resolve("x"); x != b {
			t.Fatalf("unexpected second binding: %s", x)
		}
	})
	t.Run("CommutativeEqualOperands", func(t *testing.T) {
		// Structurally equal operands yield a single candidate.
		e := &symx.Expr{Op: symx.ADD, LHS: symx.NewVarExpr("a", 32), RHS: symx.NewVarExpr("a", 32), Width: 32}
		p := symx.NewDirective(symx.ADD, symx.Var("x"), symx.Var("y"))
		if m := symx.Match(p, e); len(m) != 1 {
			t.Fatalf("unexpected match count: %d", len(m))
		}
	})
	t.Run("NonCommutativeSingleOrder", func(t *testing.T) {
		a, b := symx.NewVarExpr("a", 32), symx.NewVarExpr("b", 32)
		e := symx.NewBinaryExpr(symx.SUB, a, b)
		p := symx.NewDirective(symx.SUB, symx.Var("x"), symx.Var("y"))
		matches := symx.Match(p, e)
		if len(matches) != 1 {
			t.Fatalf("unexpected match count: %d", len(matches))
		}
		if x, _ := matches[0].Resolve("x"); x != a {
			t.Fatalf("unexpected binding: %s", x)
		}
	})
	t.Run("Unary", func(t *testing.T) {
		a := symx.NewVarExpr("a", 32)
		e := symx.NewUnaryExpr(symx.NEG, a)
		p := symx.NewDirective(symx.NEG, nil, symx.Var("x"))
		matches := symx.Match(p, e)
		if len(matches) != 1 {
			t.Fatalf("unexpected match count: %d", len(matches))
		}
		if x, _ := matches[0].Resolve("x"); x != a {
			t.Fatalf("unexpected binding: %s", x)
		}
	})
	t.Run("Cast", func(t *testing.T) {
		e := symx.NewCastExpr(symx.NewVarExpr("a", 8), 32, false)
		p := symx.NewDirective(symx.UCAST, symx.Var("x"), symx.Var("w"))
		matches := symx.Match(p, e)
		if len(matches) != 1 {
			t.Fatalf("unexpected match count: %d", len(matches))
		}
		w, ok := matches[0].Resolve("w")
		if !ok {
			t.Fatal("width not bound")
		}
		if v, _ := w.ConstantValue(); v != 32 {
			t.Fatalf("unexpected width binding: %s", w)
		}
	})
	t.Run("CastLiteralWidth", func(t *testing.T) {
		e := symx.NewCastExpr(symx.NewVarExpr("a", 8), 32, false)
		if m := symx.Match(symx.NewDirective(symx.UCAST, symx.Var("x"), symx.Num(32)), e); len(m) != 1 {
			t.Fatalf("unexpected match count: %d", len(m))
		}
		if m := symx.Match(symx.NewDirective(symx.UCAST, symx.Var("x"), symx.Num(16)), e); len(m) != 0 {
			t.Fatalf("unexpected match count: %d", len(m))
		}
	})
	t.Run("Nested", func(t *testing.T) {
		// (a & 0x0F) | (b & 0xF0)
		a, b := symx.NewVarExpr("a", 8), symx.NewVarExpr("b", 8)
		e := symx.NewBinaryExpr(symx.OR,
			symx.NewBinaryExpr(symx.AND, a, symx.NewConstantExpr(0x0F, 8)),
			symx.NewBinaryExpr(symx.AND, b, symx.NewConstantExpr(0xF0, 8)))
		p := symx.NewDirective(symx.OR,
			symx.NewDirective(symx.AND, symx.Var("x"), symx.Var("m")),
			symx.NewDirective(symx.AND, symx.Var("y"), symx.Var("n")))

		matches := symx.Match(p, e)
		if len(matches) == 0 {
			t.Fatal("expected matches")
		}
		// The unswapped candidate comes first at every level.
		if x, _ := matches[0].Resolve("x"); x != a {
			t.Fatalf("unexpected binding: %s", x)
		}
		if y, _ := matches[0].Resolve("y"); y != b {
			t.Fatalf("unexpected binding: %s", y)
		}
	})
	t.Run("MetaDirectivePanics", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic")
			}
		}()
		symx.Match(symx.Simplify(symx.Var("x")), symx.NewVarExpr("a", 32))
	})
}
