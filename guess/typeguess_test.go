package guess

import (
	"testing"

	"github.com/corelang/typeguess/ast"
	"github.com/corelang/typeguess/resolve"
	"github.com/corelang/typeguess/types"
)

func newTestContext() (*context, *resolve.StaticTable) {
	st := resolve.NewStaticTable()
	return newContext(newResult(), st), st
}

func TestGuessTypeLiterals(t *testing.T) {
	c, _ := newTestContext()
	tests := []struct {
		name string
		node ast.Node
		want string
	}{
		{"int", &ast.IntLit{Text: "1"}, "Int32"},
		{"int suffix", &ast.IntLit{Text: "1_i64"}, "Int64"},
		{"float", &ast.FloatLit{Text: "1.0"}, "Float64"},
		{"float suffix", &ast.FloatLit{Text: "1.0_f32"}, "Float32"},
		{"char", &ast.CharLit{}, "Char"},
		{"bool", &ast.BoolLit{Val: true}, "Bool"},
		{"nil", &ast.NilLit{}, "Nil"},
		{"string", &ast.StringLit{Text: "s"}, "String"},
		{"symbol", &ast.SymbolLit{Name: "s"}, "Symbol"},
		{"string interp", &ast.StringInterp{}, "String"},
		{"bool intrinsic", &ast.BoolIntrinsic{}, "Bool"},
		{"sizeof", &ast.SizeOfExpr{}, "Int32"},
		{"nop", &ast.Nop{}, "Nil"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := GuessType(c, tc.node)
			if got == nil || got.String() != tc.want {
				t.Errorf("GuessType(%s) = %v, want %s", tc.name, got, tc.want)
			}
		})
	}
}

func TestGuessTypeRange(t *testing.T) {
	c, _ := newTestContext()
	n := &ast.RangeLit{From: &ast.IntLit{Text: "0"}, To: &ast.IntLit{Text: "9"}}
	got := GuessType(c, n)
	if got == nil || got.String() != "Range(Int32, Int32)" {
		t.Errorf("GuessType(range) = %v", got)
	}
}

func TestGuessTypeArrayLitBareElements(t *testing.T) {
	c, _ := newTestContext()
	n := &ast.ArrayLit{Elements: []ast.Node{&ast.IntLit{Text: "1"}, &ast.IntLit{Text: "2"}}}
	got := GuessType(c, n)
	if got == nil || got.String() != "Array(Int32)" {
		t.Errorf("GuessType(bare array) = %v, want Array(Int32)", got)
	}
}

func TestGuessTypeArrayLitOf(t *testing.T) {
	c, _ := newTestContext()
	n := &ast.ArrayLit{Of: &ast.PathType{Parts: []string{"String"}}}
	got := GuessType(c, n)
	if got == nil || got.String() != "Array(String)" {
		t.Errorf("GuessType(array of String) = %v, want Array(String)", got)
	}
}

func TestGuessTypeHashLitBareEntries(t *testing.T) {
	c, _ := newTestContext()
	n := &ast.HashLit{Entries: []ast.HashEntry{
		{Key: &ast.StringLit{Text: "k"}, Value: &ast.IntLit{Text: "1"}},
	}}
	got := GuessType(c, n)
	if got == nil || got.String() != "Hash(String, Int32)" {
		t.Errorf("GuessType(bare hash) = %v, want Hash(String, Int32)", got)
	}
}

func TestGuessTypeTupleAllOrNothing(t *testing.T) {
	c, _ := newTestContext()
	full := &ast.TupleLit{Elements: []ast.Node{&ast.IntLit{Text: "1"}, &ast.StringLit{Text: "s"}}}
	got := GuessType(c, full)
	if got == nil || got.String() != "Tuple(Int32, String)" {
		t.Errorf("GuessType(full tuple) = %v", got)
	}

	partial := &ast.TupleLit{Elements: []ast.Node{&ast.IntLit{Text: "1"}, &ast.Var{Name: "unknown"}}}
	if got := GuessType(c, partial); got != nil {
		t.Errorf("GuessType(tuple with unguessable element) = %v, want nil", got)
	}
}

func TestGuessTypeBinaryOpMerges(t *testing.T) {
	c, _ := newTestContext()
	n := &ast.BinaryOp{Op: "||", Left: &ast.IntLit{Text: "1"}, Right: &ast.StringLit{Text: "s"}}
	got := GuessType(c, n)
	want := types.Merge(&types.Primitive{Kind: types.Int32}, &types.Primitive{Kind: types.String})
	if got == nil || got.String() != want.String() {
		t.Errorf("GuessType(binop) = %v, want %v", got, want)
	}
}

func TestGuessTypeIfMergesThenElse(t *testing.T) {
	c, _ := newTestContext()
	n := &ast.If{Cond: &ast.BoolLit{Val: true}, Then: &ast.IntLit{Text: "1"}, Else: &ast.IntLit{Text: "2"}}
	got := GuessType(c, n)
	if got == nil || got.String() != "Int32" {
		t.Errorf("GuessType(if) = %v, want Int32", got)
	}
}

func TestGuessTypeCaseWithoutElseExcludesNil(t *testing.T) {
	c, _ := newTestContext()
	n := &ast.Case{
		Whens: []ast.WhenClause{
			{Body: []ast.Node{&ast.IntLit{Text: "1"}}},
		},
	}
	got := GuessType(c, n)
	if got == nil || got.String() != "Int32" {
		t.Errorf("GuessType(case without else) = %v, want Int32 (no Nil widening)", got)
	}
}

func TestGuessTypeCaseWithElseMerges(t *testing.T) {
	c, _ := newTestContext()
	n := &ast.Case{
		Whens: []ast.WhenClause{
			{Body: []ast.Node{&ast.IntLit{Text: "1"}}},
		},
		Else: []ast.Node{&ast.StringLit{Text: "s"}},
	}
	got := GuessType(c, n)
	want := types.Merge(&types.Primitive{Kind: types.Int32}, &types.Primitive{Kind: types.String})
	if got == nil || got.String() != want.String() {
		t.Errorf("GuessType(case with else) = %v, want %v", got, want)
	}
}

func TestGuessTypeExpressionsIsLast(t *testing.T) {
	c, _ := newTestContext()
	n := &ast.Expressions{Nodes: []ast.Node{&ast.IntLit{Text: "1"}, &ast.StringLit{Text: "s"}}}
	got := GuessType(c, n)
	if got == nil || got.String() != "String" {
		t.Errorf("GuessType(expressions) = %v, want String (last)", got)
	}
}

func TestGuessTypeNilCase(t *testing.T) {
	c, _ := newTestContext()
	if got := GuessType(c, nil); got != nil {
		t.Errorf("GuessType(nil) = %v, want nil", got)
	}
}

func TestGuessTypeVarRestrictedParam(t *testing.T) {
	c, st := newTestContext()
	c.args = []ast.Param{{Name: "x", Restriction: &ast.PathType{Parts: []string{"String"}}}}
	_ = st
	got := GuessType(c, &ast.Var{Name: "x"})
	if got == nil || got.String() != "String" {
		t.Errorf("GuessType(restricted param) = %v, want String", got)
	}
}

func TestGuessTypeSelfOutsideOwnerIsNil(t *testing.T) {
	c, _ := newTestContext()
	if got := GuessType(c, &ast.Var{Name: "self"}); got != nil {
		t.Errorf("GuessType(self at top level) = %v, want nil", got)
	}
}

func TestGuessTypeSelfInsideConcreteOwner(t *testing.T) {
	c, st := newTestContext()
	owner := st.Declare("Widget", resolve.Class, false, nil)
	pop := c.pushOwner(owner)
	defer pop()
	got := GuessType(c, &ast.Var{Name: "self"})
	named, ok := got.(*types.Named)
	if !ok || named.Owner.OwnerName() != "Widget" || !named.Virtual {
		t.Errorf("GuessType(self) = %v, want virtual Named(Widget)", got)
	}
}

func TestGuessTypeCallNewOnResolvedReceiver(t *testing.T) {
	c, st := newTestContext()
	st.Declare("Widget", resolve.Class, false, nil)
	n := &ast.Call{Receiver: &ast.Path{Parts: []string{"Widget"}}, Name: "new"}
	got := GuessType(c, n)
	if got == nil || got.String() != "Widget" {
		t.Errorf("GuessType(Widget.new) = %v, want Widget", got)
	}
}
