package main

import (
	"fmt"

	"github.com/corelang/typeguess/ast"
	"github.com/corelang/typeguess/resolve"
)

// Fixture is the on-disk shape of a guesstype test program: the facts a
// real declaration pass and name resolver would have already produced
// (owners, globals, class variables, explicit instance variables,
// method signatures), plus the program body itself. It plays the role
// funvibe-funxy's funxy.yaml plays for its own tool: a yaml.v3-decoded
// configuration that drives what would otherwise require a real
// front end.
type Fixture struct {
	Owners    []OwnerDeclSpec    `yaml:"owners,omitempty"`
	Globals   []GlobalDeclSpec   `yaml:"globals,omitempty"`
	ClassVars []ClassVarDeclSpec `yaml:"class_vars,omitempty"`
	Explicit  []ExplicitIvarSpec `yaml:"explicit_instance_vars,omitempty"`
	Methods   []MethodDeclSpec   `yaml:"methods,omitempty"`
	Program   []NodeSpec         `yaml:"program"`
}

// OwnerDeclSpec pre-declares one class/module/enum/lib, standing in for
// the declaration pass that would normally allocate resolve.Owners
// before this pass ever runs.
type OwnerDeclSpec struct {
	Name      string   `yaml:"name"`
	Kind      string   `yaml:"kind"`
	Generic   bool     `yaml:"generic,omitempty"`
	TypeParms []string `yaml:"type_parms,omitempty"`
}

// GlobalDeclSpec pre-types a global, suppressing guessing for it.
type GlobalDeclSpec struct {
	Name string    `yaml:"name"`
	Type *TypeSpec `yaml:"type"`
}

// ClassVarDeclSpec pre-types a class variable on a named owner.
type ClassVarDeclSpec struct {
	Owner string    `yaml:"owner"`
	Name  string    `yaml:"name"`
	Type  *TypeSpec `yaml:"type"`
}

// ExplicitIvarSpec pre-declares an owner's instance variable, the way a
// written `@x : T` restriction would, suppressing the guess for it.
type ExplicitIvarSpec struct {
	Owner string    `yaml:"owner"`
	Name  string    `yaml:"name"`
	Type  *TypeSpec `yaml:"type"`
}

// MethodDeclSpec registers one candidate method signature for an
// owner, for the guess-from-method-annotation call rule.
type MethodDeclSpec struct {
	Owner    string    `yaml:"owner"`
	Name     string    `yaml:"name"`
	HasBlock bool      `yaml:"has_block,omitempty"`
	ArgCount int       `yaml:"arg_count"`
	Ret      *TypeSpec `yaml:"ret,omitempty"`
	IsNew    bool      `yaml:"is_new,omitempty"`
}

// TypeSpec is a type annotation, decoded recursively the same shape
// ast.PathType itself has.
type TypeSpec struct {
	Path []string    `yaml:"path"`
	Args []*TypeSpec `yaml:"args,omitempty"`
}

// toTypeNode converts a TypeSpec into the ast.TypeNode an Oracle
// expects, so a fixture's pre-typed facts are resolved through the
// exact same StaticTable.Lookup path the pass itself uses, instead of
// hand-building types.Type values that could drift from what Lookup
// would actually produce.
func (ts *TypeSpec) toTypeNode() ast.TypeNode {
	if ts == nil {
		return nil
	}
	args := make([]ast.TypeNode, len(ts.Args))
	for i, a := range ts.Args {
		args[i] = a.toTypeNode()
	}
	return &ast.PathType{Parts: ts.Path, Args: args}
}

// NodeSpec is one node of a fixture program: exactly one of its
// fields should be set, the way a real parser would hand back one of
// several concrete node types for a given yaml entry. buildNode
// dispatches on whichever field is non-nil/non-empty.
type NodeSpec struct {
	// Literals and simple references.
	Int    *string `yaml:"int,omitempty"`
	Float  *string `yaml:"float,omitempty"`
	Str    *string `yaml:"str,omitempty"`
	Bool   *bool   `yaml:"bool,omitempty"`
	Nil    bool    `yaml:"nil,omitempty"`
	Var    string  `yaml:"var,omitempty"`
	Ivar   string  `yaml:"ivar,omitempty"`
	Cvar   string  `yaml:"cvar,omitempty"`
	Global string  `yaml:"global,omitempty"`
	Path   []string `yaml:"path,omitempty"`

	BinOp *BinOpSpec `yaml:"binop,omitempty"`
	Call  *CallSpec  `yaml:"call,omitempty"`
	If    *IfSpec    `yaml:"if,omitempty"`
	Array *ArraySpec `yaml:"array,omitempty"`
	Hash  *HashSpec  `yaml:"hash,omitempty"`
	Tuple []NodeSpec `yaml:"tuple,omitempty"`

	// Statements and declarations.
	Assign *AssignSpec `yaml:"assign,omitempty"`
	Decl   *DeclSpec   `yaml:"decl,omitempty"`
	Def    *DefSpec    `yaml:"def,omitempty"`
	Class  *OwnerBodySpec `yaml:"class,omitempty"`
	Module *OwnerBodySpec `yaml:"module,omitempty"`
	Enum   *OwnerBodySpec `yaml:"enum,omitempty"`
	Lib    *OwnerBodySpec `yaml:"lib,omitempty"`
}

type BinOpSpec struct {
	Op    string   `yaml:"op"`
	Left  NodeSpec `yaml:"left"`
	Right NodeSpec `yaml:"right"`
}

type ArgSpec struct {
	Name  string   `yaml:"name,omitempty"`
	Value NodeSpec `yaml:"value"`
	Out   bool     `yaml:"out,omitempty"`
}

type CallSpec struct {
	Receiver *NodeSpec `yaml:"receiver,omitempty"`
	Name     string    `yaml:"name"`
	Args     []ArgSpec `yaml:"args,omitempty"`
	HasBlock bool      `yaml:"has_block,omitempty"`
}

type IfSpec struct {
	Cond NodeSpec  `yaml:"cond"`
	Then NodeSpec  `yaml:"then"`
	Else *NodeSpec `yaml:"else,omitempty"`
}

type ArraySpec struct {
	Ctor     *NodeSpec `yaml:"ctor,omitempty"`
	Of       *TypeSpec `yaml:"of,omitempty"`
	Elements []NodeSpec `yaml:"elements,omitempty"`
}

type HashEntrySpec struct {
	Key   NodeSpec `yaml:"key"`
	Value NodeSpec `yaml:"value"`
}

type HashSpec struct {
	OfKey   *TypeSpec       `yaml:"of_key,omitempty"`
	OfValue *TypeSpec       `yaml:"of_value,omitempty"`
	Entries []HashEntrySpec `yaml:"entries,omitempty"`
}

type AssignSpec struct {
	Targets []NodeSpec `yaml:"targets"`
	Values  []NodeSpec `yaml:"values"`
}

type DeclSpec struct {
	Target NodeSpec  `yaml:"target"`
	Type   *TypeSpec `yaml:"type"`
}

type ParamSpec struct {
	Name        string    `yaml:"name"`
	Restriction *TypeSpec `yaml:"restriction,omitempty"`
}

type DefSpec struct {
	Name string      `yaml:"name"`
	Args []ParamSpec `yaml:"args,omitempty"`
	Body []NodeSpec  `yaml:"body,omitempty"`
}

// OwnerBodySpec is a class/module/enum/lib block nested directly in a
// fixture's program; Name must match a prior OwnerDeclSpec.
type OwnerBodySpec struct {
	Name      string     `yaml:"name"`
	TypeParms []string   `yaml:"type_parms,omitempty"`
	Body      []NodeSpec `yaml:"body,omitempty"`
}

func buildParam(p ParamSpec) ast.Param {
	return ast.Param{Name: p.Name, Restriction: p.Restriction.toTypeNode()}
}

func buildArg(a ArgSpec) ast.Arg {
	return ast.Arg{Name: a.Name, Value: buildNode(a.Value), Out: a.Out}
}

// buildNode converts one fixture NodeSpec into the ast.Node it
// describes. Fields are checked in a fixed priority order since a
// fixture author is expected to set exactly one.
func buildNode(n NodeSpec) ast.Node {
	switch {
	case n.Int != nil:
		return &ast.IntLit{Text: *n.Int}
	case n.Float != nil:
		return &ast.FloatLit{Text: *n.Float}
	case n.Str != nil:
		return &ast.StringLit{Text: *n.Str}
	case n.Bool != nil:
		return &ast.BoolLit{Val: *n.Bool}
	case n.Nil:
		return &ast.NilLit{}
	case n.Var != "":
		return &ast.Var{Name: n.Var}
	case n.Ivar != "":
		return &ast.InstanceVar{Name: n.Ivar}
	case n.Cvar != "":
		return &ast.ClassVar{Name: n.Cvar}
	case n.Global != "":
		return &ast.Global{Name: n.Global}
	case len(n.Path) > 0:
		return &ast.Path{Parts: n.Path}
	case n.BinOp != nil:
		return &ast.BinaryOp{Op: n.BinOp.Op, Left: buildNode(n.BinOp.Left), Right: buildNode(n.BinOp.Right)}
	case n.Call != nil:
		c := &ast.Call{Name: n.Call.Name}
		if n.Call.Receiver != nil {
			c.Receiver = buildNode(*n.Call.Receiver)
		}
		for _, a := range n.Call.Args {
			c.Args = append(c.Args, buildArg(a))
		}
		if n.Call.HasBlock {
			c.Block = &ast.BlockArg{}
		}
		return c
	case n.If != nil:
		i := &ast.If{Cond: buildNode(n.If.Cond), Then: buildNode(n.If.Then)}
		if n.If.Else != nil {
			i.Else = buildNode(*n.If.Else)
		}
		return i
	case n.Array != nil:
		a := &ast.ArrayLit{Of: n.Array.Of.toTypeNode()}
		if n.Array.Ctor != nil {
			a.Ctor = buildNode(*n.Array.Ctor)
		}
		for _, e := range n.Array.Elements {
			a.Elements = append(a.Elements, buildNode(e))
		}
		return a
	case n.Hash != nil:
		h := &ast.HashLit{OfKey: n.Hash.OfKey.toTypeNode(), OfValue: n.Hash.OfValue.toTypeNode()}
		for _, e := range n.Hash.Entries {
			h.Entries = append(h.Entries, ast.HashEntry{Key: buildNode(e.Key), Value: buildNode(e.Value)})
		}
		return h
	case n.Tuple != nil:
		t := &ast.TupleLit{}
		for _, e := range n.Tuple {
			t.Elements = append(t.Elements, buildNode(e))
		}
		return t
	case n.Assign != nil:
		a := &ast.Assign{}
		for _, t := range n.Assign.Targets {
			a.Targets = append(a.Targets, buildNode(t))
		}
		for _, v := range n.Assign.Values {
			a.Values = append(a.Values, buildNode(v))
		}
		return a
	case n.Decl != nil:
		return &ast.UninitializedDecl{Target: buildNode(n.Decl.Target), Type: n.Decl.Type.toTypeNode()}
	case n.Def != nil:
		d := &ast.Def{Name: n.Def.Name}
		for _, p := range n.Def.Args {
			d.Args = append(d.Args, buildParam(p))
		}
		for _, b := range n.Def.Body {
			d.Exprs = append(d.Exprs, buildNode(b))
		}
		return d
	case n.Class != nil:
		c := &ast.ClassDef{Name: n.Class.Name, TypeParms: n.Class.TypeParms}
		for _, b := range n.Class.Body {
			c.Exprs = append(c.Exprs, buildNode(b))
		}
		return c
	case n.Module != nil:
		m := &ast.ModuleDef{Name: n.Module.Name, TypeParms: n.Module.TypeParms}
		for _, b := range n.Module.Body {
			m.Exprs = append(m.Exprs, buildNode(b))
		}
		return m
	case n.Enum != nil:
		e := &ast.EnumDef{Name: n.Enum.Name}
		for _, b := range n.Enum.Body {
			e.Exprs = append(e.Exprs, buildNode(b))
		}
		return e
	case n.Lib != nil:
		l := &ast.LibDef{Name: n.Lib.Name}
		for _, b := range n.Lib.Body {
			l.Exprs = append(l.Exprs, buildNode(b))
		}
		return l
	default:
		return &ast.Nop{}
	}
}

func ownerKind(s string) (resolve.OwnerKind, error) {
	switch s {
	case "class":
		return resolve.Class, nil
	case "module":
		return resolve.Module, nil
	case "enum":
		return resolve.Enum, nil
	case "lib":
		return resolve.Lib, nil
	default:
		return 0, fmt.Errorf("unknown owner kind %q", s)
	}
}

// build populates a StaticTable from the fixture's pre-typed facts and
// returns the ast.Program described by its Program field. Order
// matters: owners are declared first so every later TypeSpec/method
// registration can resolve paths against them.
func (f *Fixture) build() (*ast.Program, *resolve.StaticTable, error) {
	st := resolve.NewStaticTable()
	for _, o := range f.Owners {
		kind, err := ownerKind(o.Kind)
		if err != nil {
			return nil, nil, fmt.Errorf("owner %q: %w", o.Name, err)
		}
		st.Declare(o.Name, kind, o.Generic, o.TypeParms)
	}
	for _, g := range f.Globals {
		t, ok := st.Lookup(nil, g.Type.toTypeNode(), false)
		if !ok {
			return nil, nil, fmt.Errorf("global %q: unresolvable type", g.Name)
		}
		st.SetGlobalType(g.Name, t)
	}
	for _, cv := range f.ClassVars {
		owner, ok := st.OwnerOf(cv.Owner)
		if !ok {
			return nil, nil, fmt.Errorf("class var %q: unknown owner %q", cv.Name, cv.Owner)
		}
		t, ok := st.Lookup(owner, cv.Type.toTypeNode(), false)
		if !ok {
			return nil, nil, fmt.Errorf("class var %q: unresolvable type", cv.Name)
		}
		st.SetClassVarType(owner, cv.Name, t)
	}
	for _, iv := range f.Explicit {
		owner, ok := st.OwnerOf(iv.Owner)
		if !ok {
			return nil, nil, fmt.Errorf("explicit ivar %q: unknown owner %q", iv.Name, iv.Owner)
		}
		node := iv.Type.toTypeNode()
		t, ok := st.Lookup(owner, node, false)
		if !ok {
			return nil, nil, fmt.Errorf("explicit ivar %q: unresolvable type", iv.Name)
		}
		st.SetExplicitInstanceVar(owner, iv.Name, resolve.TypeDeclWithLoc{Type: t, TypeExpr: node})
	}
	for _, m := range f.Methods {
		owner, ok := st.OwnerOf(m.Owner)
		if !ok {
			return nil, nil, fmt.Errorf("method %q: unknown owner %q", m.Name, m.Owner)
		}
		sig := &resolve.MethodSig{Owner: owner, HasBlock: m.HasBlock, ArgCount: m.ArgCount, IsNew: m.IsNew}
		if m.Ret != nil {
			t, ok := st.Lookup(owner, m.Ret.toTypeNode(), false)
			if !ok {
				return nil, nil, fmt.Errorf("method %q: unresolvable return type", m.Name)
			}
			sig.Ret = t
		}
		st.AddMethod(owner, m.Name, sig)
	}

	prog := &ast.Program{}
	for _, n := range f.Program {
		prog.Body = append(prog.Body, buildNode(n))
	}
	return prog, st, nil
}
