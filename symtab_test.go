package symx_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/symx-lang/symx"
)

func TestSymbolTable(t *testing.T) {
	t.Run("BindResolve", func(t *testing.T) {
		x := symx.NewVarExpr("vx", 32)
		st := symx.NewSymbolTable().Bind("x", x)
		if e, ok := st.Resolve("x"); !ok || e != x {
			t.Fatalf("unexpected binding: %v, %v", e, ok)
		}
		if _, ok := st.Resolve("y"); ok {
			t.Fatal("expected miss")
		}
	})
	t.Run("BindIsPersistent", func(t *testing.T) {
		st0 := symx.NewSymbolTable()
		st1 := st0.Bind("x", symx.NewVarExpr("vx", 32))
		st2 := st1.Bind("y", symx.NewVarExpr("vy", 32))

		if st0.Len() != 0 || st1.Len() != 1 || st2.Len() != 2 {
			t.Fatalf("unexpected lengths: %d, %d, %d", st0.Len(), st1.Len(), st2.Len())
		}
		if _, ok := st1.Resolve("y"); ok {
			t.Fatal("derived binding leaked into parent")
		}
	})
	t.Run("Rebind", func(t *testing.T) {
		a, b := symx.NewConstantExpr(1, 8), symx.NewConstantExpr(2, 8)
		st1 := symx.NewSymbolTable().Bind("x", a)
		st2 := st1.Bind("x", b)
		if e, _ := st1.Resolve("x"); e != a {
			t.Fatalf("unexpected binding: %s", e)
		}
		if e, _ := st2.Resolve("x"); e != b {
			t.Fatalf("unexpected binding: %s", e)
		}
	})
	t.Run("RangeOrder", func(t *testing.T) {
		st := symx.NewSymbolTable().
			Bind("b", symx.NewConstantExpr(2, 8)).
			Bind("a", symx.NewConstantExpr(1, 8)).
			Bind("c", symx.NewConstantExpr(3, 8))

		var ids []string
		st.Range(func(id string, expr *symx.Expr) bool {
			ids = append(ids, id)
			return true
		})
		if diff := cmp.Diff([]string{"a", "b", "c"}, ids); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("String", func(t *testing.T) {
		st := symx.NewSymbolTable().
			Bind("y", symx.NewConstantExpr(2, 8)).
			Bind("x", symx.NewVarExpr("vx", 8))
		if s := st.String(); s != "{x: (var vx 8), y: (const 2 8)}" {
			t.Fatalf("unexpected string: %s", s)
		}
	})
}
