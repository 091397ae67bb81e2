package guess

import (
	"testing"

	"github.com/corelang/typeguess/ast"
	"github.com/corelang/typeguess/resolve"
	"github.com/corelang/typeguess/types"
)

// These tests exercise Run end to end against a range of scenarios,
// one test per scenario.

func prog(body ...ast.Node) *ast.Program { return &ast.Program{Body: body} }

func assign(target, value ast.Node) *ast.Assign {
	return &ast.Assign{Targets: []ast.Node{target}, Values: []ast.Node{value}}
}

func TestRunS1SimpleIntGlobal(t *testing.T) {
	st := resolve.NewStaticTable()
	p := prog(assign(&ast.Global{Name: "$x"}, &ast.IntLit{Text: "42"}))
	res, err := Run(p, st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	info, ok := res.Globals["$x"]
	if !ok {
		t.Fatal("globals[$x] missing")
	}
	if info.Type.String() != "Int32" {
		t.Errorf("globals[$x].Type = %v, want Int32", info.Type)
	}
	if !info.OutsideDef {
		t.Error("globals[$x].OutsideDef = false, want true")
	}
}

func TestRunS2MergedGlobal(t *testing.T) {
	st := resolve.NewStaticTable()
	p := prog(
		assign(&ast.Global{Name: "$x"}, &ast.IntLit{Text: "1"}),
		assign(&ast.Global{Name: "$x"}, &ast.StringLit{Text: "s"}),
	)
	res, err := Run(p, st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	info := res.Globals["$x"]
	want := types.Merge(&types.Primitive{Kind: types.Int32}, &types.Primitive{Kind: types.String})
	if info.Type.String() != want.String() {
		t.Errorf("globals[$x].Type = %v, want %v", info.Type, want)
	}
	if !info.OutsideDef {
		t.Error("globals[$x].OutsideDef = false, want true")
	}
}

func TestRunS3DefiniteVsIndefiniteInitialization(t *testing.T) {
	st := resolve.NewStaticTable()
	owner := st.Declare("C", resolve.Class, false, nil)

	// def initialize; @a = 1; some_call(self); @b = 2; end
	initDef := &ast.Def{
		Name: "initialize",
		Exprs: []ast.Node{
			assign(&ast.InstanceVar{Name: "a"}, &ast.IntLit{Text: "1"}),
			&ast.Call{Name: "some_call", Args: []ast.Arg{{Value: &ast.Var{Name: "self"}}}},
			assign(&ast.InstanceVar{Name: "b"}, &ast.IntLit{Text: "2"}),
		},
	}
	p := prog(&ast.ClassDef{Name: "C", Exprs: []ast.Node{initDef}})

	res, err := Run(p, st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	infos := res.InitializeInfos[owner]
	if len(infos) != 1 {
		t.Fatalf("InitializeInfos[C] = %d entries, want 1", len(infos))
	}
	if got := infos[0].InstanceVars; len(got) != 1 || got[0] != "a" {
		t.Errorf("InitializeInfos[C][0].InstanceVars = %v, want [a]", got)
	}

	ivs := res.GuessedInstanceVars[owner]
	if a := ivs["a"]; a == nil || len(a.TypeVars) != 1 || a.TypeVars[0].String() != "Int32" {
		t.Errorf("guessed @a = %v, want [Int32]", a)
	}
	if b := ivs["b"]; b == nil || len(b.TypeVars) != 1 || b.TypeVars[0].String() != "Int32" {
		t.Errorf("guessed @b = %v, want [Int32]", b)
	}

	if out := res.InstanceVarsOutside[owner]; out != nil && len(out.Names()) != 0 {
		t.Errorf("instance_vars_outside[C] = %v, want empty", out.Names())
	}
}

func TestRunS4OutsideAnyDef(t *testing.T) {
	st := resolve.NewStaticTable()
	owner := st.Declare("C", resolve.Class, false, nil)
	p := prog(&ast.ClassDef{Name: "C", Exprs: []ast.Node{
		assign(&ast.ClassVar{Name: "count"}, &ast.IntLit{Text: "0"}),
	}})
	res, err := Run(p, st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	info := res.ClassVars[owner]["count"]
	if info == nil || info.Type.String() != "Int32" {
		t.Fatalf("class_vars[C][count] = %v, want Int32", info)
	}
	if !info.OutsideDef {
		t.Error("class_vars[C][count].OutsideDef = false, want true")
	}
}

func TestRunS5ForbiddenType(t *testing.T) {
	st := resolve.NewStaticTable()
	owner := st.Declare("C", resolve.Class, false, nil)
	// @x :: Array  (a bare, uninstantiated generic used as a variable type)
	p := prog(&ast.ClassDef{Name: "C", Exprs: []ast.Node{
		&ast.UninitializedDecl{
			Target: &ast.InstanceVar{Name: "x"},
			Type:   &ast.PathType{Parts: []string{"Array"}},
		},
	}})
	res, err := Run(p, st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	errs := res.Errors[owner]
	e, ok := errs["x"]
	if !ok {
		t.Fatal("errors[C][x] missing")
	}
	if e.Offending == nil || e.Offending.String() != "Array" {
		t.Errorf("errors[C][x].Offending = %v, want Array", e.Offending)
	}
	if _, ok := res.GuessedInstanceVars[owner]["x"]; ok {
		t.Error("guessed_instance_vars[C][x] set, want unchanged/absent")
	}
}

func TestRunS6TupleDestructuring(t *testing.T) {
	st := resolve.NewStaticTable()
	owner := st.Declare("C", resolve.Class, false, nil)
	owner2 := st.Declare("Pair", resolve.Class, false, nil)
	st.AddMethod(owner2, "some_call_returning_tuple_of", &resolve.MethodSig{
		Ret: &types.Tuple{Elems: []types.Type{
			&types.Primitive{Kind: types.String},
			&types.Primitive{Kind: types.Int32},
		}},
		ArgCount: 2,
	})

	// @a, @b = some_call_returning_tuple_of(String, Int32)
	call := &ast.Call{
		Receiver: &ast.Path{Parts: []string{"Pair"}},
		Name:     "some_call_returning_tuple_of",
		Args: []ast.Arg{
			{Value: &ast.Path{Parts: []string{"String"}}},
			{Value: &ast.Path{Parts: []string{"Int32"}}},
		},
	}
	p := prog(&ast.ClassDef{Name: "C", Exprs: []ast.Node{
		&ast.Def{Name: "initialize", Exprs: []ast.Node{
			&ast.Assign{
				Targets: []ast.Node{&ast.InstanceVar{Name: "a"}, &ast.InstanceVar{Name: "b"}},
				Values:  []ast.Node{call},
			},
		}},
	}})
	res, err := Run(p, st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	ivs := res.GuessedInstanceVars[owner]
	a := ivs["a"]
	if a == nil || len(a.TypeVars) != 1 || a.TypeVars[0].String() != "String" {
		t.Errorf("guessed @a = %v, want [String]", a)
	}
	b := ivs["b"]
	if b == nil || len(b.TypeVars) != 1 || b.TypeVars[0].String() != "Int32" {
		t.Errorf("guessed @b = %v, want [Int32]", b)
	}
}

func TestRunS7ConstantCycle(t *testing.T) {
	st := resolve.NewStaticTable()
	// A = B ; B = A ; $x = A
	st.SetConst("A", &resolve.ConstInfo{Key: "A", Value: &ast.Path{Parts: []string{"B"}}})
	st.SetConst("B", &resolve.ConstInfo{Key: "B", Value: &ast.Path{Parts: []string{"A"}}})
	p := prog(assign(&ast.Global{Name: "$x"}, &ast.Path{Parts: []string{"A"}}))
	res, err := Run(p, st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := res.Globals["$x"]; ok {
		t.Errorf("globals[$x] = %v, want absent (cycle)", res.Globals["$x"])
	}
}

func TestRunS8GenericOwnerInstanceVar(t *testing.T) {
	st := resolve.NewStaticTable()
	owner := st.Declare("G", resolve.Class, true, []string{"T"})
	// class G(T); def initialize(x : T); @v = x; end; end
	p := prog(&ast.ClassDef{Name: "G", TypeParms: []string{"T"}, Exprs: []ast.Node{
		&ast.Def{
			Name: "initialize",
			Args: []ast.Param{{Name: "x", Restriction: &ast.PathType{Parts: []string{"T"}}}},
			Exprs: []ast.Node{
				assign(&ast.InstanceVar{Name: "v"}, &ast.Var{Name: "x"}),
			},
		},
	}})
	res, err := Run(p, st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	v := res.GuessedInstanceVars[owner]["v"]
	if v == nil || len(v.TypeVars) != 1 {
		t.Fatalf("guessed @v = %v, want one element", v)
	}
	elem := v.TypeVars[0]
	if elem.Resolved != nil {
		t.Errorf("guessed @v element is resolved (%v), want unresolved type expression T", elem.Resolved)
	}
	pt, ok := elem.Expr.(*ast.PathType)
	if !ok || len(pt.Parts) != 1 || pt.Parts[0] != "T" {
		t.Errorf("guessed @v type expr = %v, want PathType{T}", elem.Expr)
	}
}

// Additional invariant coverage beyond S1-S8.

func TestRunExplicitInstanceVarSuppressesGuessing(t *testing.T) {
	st := resolve.NewStaticTable()
	owner := st.Declare("C", resolve.Class, false, nil)
	st.SetExplicitInstanceVar(owner, "x", resolve.TypeDeclWithLoc{Type: &types.Primitive{Kind: types.String}})
	p := prog(&ast.ClassDef{Name: "C", Exprs: []ast.Node{
		&ast.Def{Name: "initialize", Exprs: []ast.Node{
			assign(&ast.InstanceVar{Name: "x"}, &ast.IntLit{Text: "1"}),
		}},
	}})
	res, err := Run(p, st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := res.GuessedInstanceVars[owner]["x"]; ok {
		t.Error("guessed_instance_vars[C][x] present, want absent (explicit decl suppresses guessing)")
	}
}

func TestRunExplicitInstanceVarStillRecordsOutside(t *testing.T) {
	st := resolve.NewStaticTable()
	owner := st.Declare("C", resolve.Class, false, nil)
	st.SetExplicitInstanceVar(owner, "x", resolve.TypeDeclWithLoc{Type: &types.Primitive{Kind: types.String}})
	p := prog(&ast.ClassDef{Name: "C", Exprs: []ast.Node{
		assign(&ast.InstanceVar{Name: "x"}, &ast.IntLit{Text: "1"}),
	}})
	res, err := Run(p, st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := res.InstanceVarsOutside[owner]
	if out == nil || len(out.Names()) != 1 || out.Names()[0] != "x" {
		t.Errorf("instance_vars_outside[C] = %v, want [x] (outside-def recording is independent of explicit decl)", out)
	}
}

func TestRunInstanceVarForbiddenInLib(t *testing.T) {
	st := resolve.NewStaticTable()
	st.Declare("LibC", resolve.Lib, false, nil)
	p := prog(&ast.LibDef{Name: "LibC", Exprs: []ast.Node{
		assign(&ast.InstanceVar{Name: "x"}, &ast.IntLit{Text: "1"}),
	}})
	_, err := Run(p, st)
	if err == nil {
		t.Fatal("Run returned nil error, want ForbiddenInstanceVarError")
	}
	if _, ok := err.(*ForbiddenInstanceVarError); !ok {
		t.Errorf("Run error = %T, want *ForbiddenInstanceVarError", err)
	}
}

func TestRunInstanceVarIgnoredAtTopLevel(t *testing.T) {
	st := resolve.NewStaticTable()
	p := prog(assign(&ast.InstanceVar{Name: "x"}, &ast.IntLit{Text: "1"}))
	res, err := Run(p, st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.GuessedInstanceVars) != 0 {
		t.Errorf("GuessedInstanceVars = %v, want empty (top-level program forbids instance vars silently)", res.GuessedInstanceVars)
	}
}

func TestRunErrorRecordsFirstOnly(t *testing.T) {
	st := resolve.NewStaticTable()
	owner := st.Declare("C", resolve.Class, false, nil)
	p := prog(&ast.ClassDef{Name: "C", Exprs: []ast.Node{
		&ast.UninitializedDecl{Target: &ast.InstanceVar{Name: "x"}, Type: &ast.PathType{Parts: []string{"Object"}}},
		&ast.UninitializedDecl{Target: &ast.InstanceVar{Name: "x"}, Type: &ast.PathType{Parts: []string{"Array"}}},
	}})
	res, err := Run(p, st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	e := res.Errors[owner]["x"]
	if e == nil || e.Offending.String() != "Object" {
		t.Errorf("errors[C][x] = %v, want first offender Object", e)
	}
}

func TestRunDefRedefinitionShadowsPrevious(t *testing.T) {
	st := resolve.NewStaticTable()
	owner := st.Declare("C", resolve.Class, false, nil)
	first := &ast.Def{Name: "initialize", Exprs: []ast.Node{
		assign(&ast.InstanceVar{Name: "old"}, &ast.IntLit{Text: "1"}),
	}}
	second := &ast.Def{Name: "initialize", Previous: first, Exprs: []ast.Node{
		assign(&ast.InstanceVar{Name: "new"}, &ast.IntLit{Text: "1"}),
	}}
	p := prog(&ast.ClassDef{Name: "C", Exprs: []ast.Node{first, second}})
	res, err := Run(p, st)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	ivs := res.GuessedInstanceVars[owner]
	if _, ok := ivs["old"]; ok {
		t.Error("shadowed def's body was attributed: guessed @old present, want absent")
	}
	if _, ok := ivs["new"]; !ok {
		t.Error("guessed @new absent, want present")
	}
}
