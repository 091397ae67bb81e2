package guess

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/corelang/typeguess/ast"
	"github.com/corelang/typeguess/resolve"
	"github.com/corelang/typeguess/types"
)

// These tests exercise the foreign-library idioms: a fun's out
// parameter attributing an instance variable's type, and a call or
// bare reference to a lib resolving through ForeignFunc/ForeignVar.

func libPath(name string) *ast.Path { return &ast.Path{Parts: []string{name}} }

func TestRunOutParamAttributesInstanceVar(t *testing.T) {
	st := resolve.NewStaticTable()
	st.Declare("LibC", resolve.Lib, false, nil)
	owner := st.Declare("Env", resolve.Class, false, nil)

	st.AddLibFunc("LibC", "getenv", &resolve.LibFunc{
		Parms: []resolve.LibParmSig{
			{Out: true, Type: &types.Primitive{Kind: types.Int32}},
		},
		Ret: &types.Primitive{Kind: types.Bool},
	})

	p := prog(&ast.ClassDef{Name: "Env", Exprs: []ast.Node{
		&ast.Def{Name: "initialize", Exprs: []ast.Node{
			&ast.Call{
				Receiver: libPath("LibC"),
				Name:     "getenv",
				Args:     []ast.Arg{{Out: true, Value: &ast.InstanceVar{Name: "value"}}},
			},
		}},
	}})

	res, err := Run(p, st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	info, ok := res.GuessedInstanceVars[owner]["value"]
	if !ok {
		t.Fatal("GuessedInstanceVars[Env][value] missing")
	}
	want := []TypeExprElem{{Resolved: &types.Primitive{Kind: types.Int32}}}
	if diff := cmp.Diff(want, info.TypeVars); diff != "" {
		t.Errorf("TypeVars mismatch (-want +got):\n%s", diff)
	}
	if infos := res.InitializeInfos[owner]; len(infos) != 1 || len(infos[0].InstanceVars) != 1 {
		t.Errorf("InitializeInfos[Env] = %v, want one entry crediting @value", infos)
	}
}

func TestRunForeignFuncCallGuessesReturnType(t *testing.T) {
	st := resolve.NewStaticTable()
	st.Declare("LibC", resolve.Lib, false, nil)
	st.AddLibFunc("LibC", "time", &resolve.LibFunc{Ret: &types.Primitive{Kind: types.Int64}})

	p := prog(assign(&ast.Global{Name: "$t"}, &ast.Call{Receiver: libPath("LibC"), Name: "time"}))
	res, err := Run(p, st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	info, ok := res.Globals["$t"]
	if !ok {
		t.Fatal("globals[$t] missing")
	}
	want := &types.Primitive{Kind: types.Int64}
	if diff := cmp.Diff(want, info.Type); diff != "" {
		t.Errorf("globals[$t].Type mismatch (-want +got):\n%s", diff)
	}
}

func TestRunForeignVarCallGuessesDeclaredType(t *testing.T) {
	st := resolve.NewStaticTable()
	st.Declare("LibC", resolve.Lib, false, nil)
	st.AddLibVar("LibC", "errno", &resolve.ExternVar{Type: &types.Primitive{Kind: types.Int32}})

	p := prog(assign(&ast.Global{Name: "$e"}, &ast.Call{Receiver: libPath("LibC"), Name: "errno"}))
	res, err := Run(p, st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	info, ok := res.Globals["$e"]
	if !ok {
		t.Fatal("globals[$e] missing")
	}
	want := &types.Primitive{Kind: types.Int32}
	if diff := cmp.Diff(want, info.Type); diff != "" {
		t.Errorf("globals[$e].Type mismatch (-want +got):\n%s", diff)
	}
}
