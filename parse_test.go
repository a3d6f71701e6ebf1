package symx_test

import (
	"strings"
	"testing"

	"github.com/symx-lang/symx"
)

func TestParseExpr(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		for _, src := range []string{
			"(const 5 32)",
			"(var x 32)",
			"(neg (var x 8))",
			"(not (var x 8))",
			"(add (var x 32) (const 1 32))",
			"(mul (sub (var a 16) (var b 16)) (var c 16))",
			"(ucast (var x 8) 32)",
			"(cast (var x 8) 64)",
			"(eq (var x 32) (const 0 32))",
			"(ashr (var x 64) (const 3 64))",
		} {
			expr, err := symx.ParseExpr(src)
			if err != nil {
				t.Fatalf("%s: %s", src, err)
			}
			if s := expr.String(); s != src {
				t.Fatalf("round trip mismatch: %s != %s", s, src)
			}
		}
	})
	t.Run("UnfoldedNodes", func(t *testing.T) {
		// Parsed trees are taken verbatim so folding is left to Simplify.
		expr, err := symx.ParseExpr("(add (const 2 8) (const 3 8))")
		if err != nil {
			t.Fatal(err)
		}
		if expr.Op != symx.ADD {
			t.Fatalf("unexpected expr: %s", expr)
		}
	})
	t.Run("ConstMaskedToWidth", func(t *testing.T) {
		expr, err := symx.ParseExpr("(const 511 8)")
		if err != nil {
			t.Fatal(err)
		}
		if expr.Value != 0xFF {
			t.Fatalf("unexpected value: %#x", expr.Value)
		}
	})
	t.Run("HexConstant", func(t *testing.T) {
		expr, err := symx.ParseExpr("(const 0xFF 8)")
		if err != nil {
			t.Fatal(err)
		}
		if expr.Value != 0xFF {
			t.Fatalf("unexpected value: %#x", expr.Value)
		}
	})
	t.Run("CompareWidth", func(t *testing.T) {
		expr, err := symx.ParseExpr("(ult (var x 32) (var y 32))")
		if err != nil {
			t.Fatal(err)
		}
		if expr.Width != symx.WidthBool {
			t.Fatalf("unexpected width: %d", expr.Width)
		}
	})
	t.Run("Whitespace", func(t *testing.T) {
		expr, err := symx.ParseExpr("( add\n\t(var x 32)   (const 1 32) )")
		if err != nil {
			t.Fatal(err)
		}
		if s := expr.String(); s != "(add (var x 32) (const 1 32))" {
			t.Fatalf("unexpected expr: %s", s)
		}
	})
}

func TestParseExpr_Errors(t *testing.T) {
	for _, tt := range []struct {
		name string
		src  string
		want string
	}{
		{"Empty", "", "expected '('"},
		{"UnknownOperator", "(frob (var x 8))", `unknown operator "frob"`},
		{"DirectiveOpRejected", "(simplify (var x 8))", `unknown operator "simplify"`},
		{"MissingCloseParen", "(add (var x 8) (var y 8)", `expected ")"`},
		{"TrailingInput", "(var x 8) junk", "trailing input"},
		{"BadWidth", "(var x 0)", "invalid width 0"},
		{"WidthTooLarge", "(const 1 65)", "invalid width 65"},
		{"MissingIdent", "(var )", "expected identifier"},
		{"BadConstant", "(const nope 8)", "expected number"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := symx.ParseExpr(tt.src)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("unexpected error: %s", err)
			}
		})
	}
}
