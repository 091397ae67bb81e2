package guess

import (
	"testing"

	"github.com/corelang/typeguess/ast"
)

func TestContainsSelf(t *testing.T) {
	tests := []struct {
		name string
		node ast.Node
		want bool
	}{
		{"bare self", &ast.Var{Name: "self"}, true},
		{"other var", &ast.Var{Name: "x"}, false},
		{"self in binary op", &ast.BinaryOp{Op: "+", Left: &ast.Var{Name: "self"}, Right: &ast.IntLit{Text: "1"}}, true},
		{"self.class is not an escape", &ast.Call{Receiver: &ast.Var{Name: "self"}, Name: "class"}, false},
		{"self as a call argument escapes", &ast.Call{Name: "some_call", Args: []ast.Arg{{Value: &ast.Var{Name: "self"}}}}, true},
		{"self inside if branch", &ast.If{Cond: &ast.BoolLit{Val: true}, Then: &ast.Var{Name: "self"}}, true},
		{"self inside array literal", &ast.ArrayLit{Elements: []ast.Node{&ast.Var{Name: "self"}}}, true},
		{"nothing escapes", &ast.ArrayLit{Elements: []ast.Node{&ast.IntLit{Text: "1"}, &ast.IntLit{Text: "2"}}}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ContainsSelf(tc.node); got != tc.want {
				t.Errorf("ContainsSelf(%v) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}
