package guess

import (
	"testing"

	"github.com/corelang/typeguess/ast"
	"github.com/corelang/typeguess/resolve"
	"github.com/corelang/typeguess/types"
)

func TestGuessPathResolvingToConcreteTypeIsMetaclass(t *testing.T) {
	c, st := newTestContext()
	st.Declare("Widget", resolve.Class, false, nil)
	got := GuessType(c, &ast.Path{Parts: []string{"Widget"}})
	m, ok := got.(*types.Metaclass)
	if !ok || m.Owner.OwnerName() != "Widget" {
		t.Fatalf("GuessType($Widget) = %v, want Metaclass(Widget)", got)
	}
}

// A bare generic class referenced as a value (not instantiated) still
// denotes that class's metaclass, and is not itself subject to the
// legality check that would reject an uninstantiated generic used as
// a variable's annotation.
func TestGuessPathResolvingToUninstantiatedGenericIsMetaclassNotError(t *testing.T) {
	c, st := newTestContext()
	st.Declare("Box", resolve.Class, true, []string{"T"})
	p := &ast.Path{Parts: []string{"Box"}}
	got := GuessType(c, p)
	m, ok := got.(*types.Metaclass)
	if !ok || m.Owner.OwnerName() != "Box" {
		t.Fatalf("GuessType($Box) = %v, want Metaclass(Box)", got)
	}
	if c.err != nil {
		t.Errorf("GuessType($Box) set c.err = %v, want nil (no legality gate on this branch)", c.err)
	}
}

func TestGuessPathResolvingToValueFallsBackToConstant(t *testing.T) {
	c, st := newTestContext()
	st.SetConst("Max", &resolve.ConstInfo{Key: "Max", Value: &ast.IntLit{Text: "100"}})
	got := GuessType(c, &ast.Path{Parts: []string{"Max"}})
	if got == nil || got.String() != "Int32" {
		t.Errorf("GuessType(Max) = %v, want Int32", got)
	}
}
