package resolve

import (
	"strings"

	"github.com/corelang/typeguess/ast"
	"github.com/corelang/typeguess/types"
)

// structuralNames are the type-path names resolved against the
// structural type constructors rather than against a declared
// owner.
var structuralNames = map[string]bool{
	"Array": true, "Hash": true, "Pointer": true, "Proc": true,
	"Tuple": true, "NamedTuple": true, "Range": true,
}

var primNames = map[string]types.PrimKind{
	"Bool": types.Bool, "Int8": types.Int8, "Int16": types.Int16,
	"Int32": types.Int32, "Int64": types.Int64, "UInt8": types.Uint8,
	"UInt16": types.Uint16, "UInt32": types.Uint32, "UInt64": types.Uint64,
	"Float32": types.Float32, "Float64": types.Float64, "Char": types.Char,
	"String": types.String, "Symbol": types.Symbol, "Regex": types.Regex,
	"Nil": types.Nil, "Void": types.Void,
}

// StaticTable is a reference Oracle implementation populated
// explicitly by its caller (tests and cmd/guesstype), the way
// checker_test.go's testImporter stands in for a real module loader.
// It does not parse or infer anything; every fact it answers with was
// handed to it ahead of time.
type StaticTable struct {
	Table

	abstractRoots map[string]bool
	byName        map[string]*Owner

	globals   map[string]types.Type
	classVars map[*Owner]map[string]types.Type
	explicit  map[*Owner]map[string]TypeDeclWithLoc
	consts    map[string]*ConstInfo
	methods   map[*Owner]map[string][]*MethodSig
	libFuncs  map[string]map[string]*LibFunc
	libVars   map[string]map[string]*ExternVar
	isLib     map[string]bool
}

// NewStaticTable returns an empty StaticTable ready for population.
// The structural constructors (Array, Hash, Pointer, Proc, Tuple,
// NamedTuple, Range) are pre-declared as generic owners so that a bare
// mention of one of them (no type arguments) resolves to an
// uninstantiated generic Named type, which legalize then rejects —
// the shape a bare `@x : Array` annotation takes. With type
// arguments, lookupPath resolves Array, Hash, Pointer, Range and Tuple
// structurally, to the types.Array/Hash/... Go types rather than this
// synthetic Owner; Proc and NamedTuple with type arguments do not
// resolve.
func NewStaticTable() *StaticTable {
	st := &StaticTable{
		abstractRoots: map[string]bool{"Object": true, "Reference": true, "Value": true, "Number": true},
		byName:        map[string]*Owner{},
		globals:       map[string]types.Type{},
		classVars:     map[*Owner]map[string]types.Type{},
		explicit:      map[*Owner]map[string]TypeDeclWithLoc{},
		consts:        map[string]*ConstInfo{},
		methods:       map[*Owner]map[string][]*MethodSig{},
		libFuncs:      map[string]map[string]*LibFunc{},
		libVars:       map[string]map[string]*ExternVar{},
		isLib:         map[string]bool{},
	}
	for name, parms := range structuralTypeParms {
		st.Declare(name, Class, true, parms)
	}
	return st
}

var structuralTypeParms = map[string][]string{
	"Array": {"T"}, "Hash": {"K", "V"}, "Pointer": {"T"},
	"Proc": {"T"}, "Tuple": {"T"}, "NamedTuple": {"T"}, "Range": {"T"},
}

// Declare allocates an Owner and registers it under name for Lookup.
func (st *StaticTable) Declare(name string, kind OwnerKind, generic bool, typeParms []string) *Owner {
	o := st.NewOwner(name, kind, generic, typeParms)
	st.byName[name] = o
	if kind == Lib {
		st.isLib[name] = true
	}
	return o
}

// DeclareAbstractRoot registers name as a forbidden abstract root.
func (st *StaticTable) DeclareAbstractRoot(name string) { st.abstractRoots[name] = true }

// SetGlobalType pre-populates the symbol table with an already-typed
// global.
func (st *StaticTable) SetGlobalType(name string, t types.Type) { st.globals[name] = t }

// SetClassVarType pre-populates the symbol table with an already-typed
// class variable.
func (st *StaticTable) SetClassVarType(owner *Owner, name string, t types.Type) {
	m := st.classVars[owner]
	if m == nil {
		m = map[string]types.Type{}
		st.classVars[owner] = m
	}
	m[name] = t
}

// SetExplicitInstanceVar pre-populates an explicit instance-variable
// declaration, suppressing guessing for it.
func (st *StaticTable) SetExplicitInstanceVar(owner *Owner, name string, decl TypeDeclWithLoc) {
	m := st.explicit[owner]
	if m == nil {
		m = map[string]TypeDeclWithLoc{}
		st.explicit[owner] = m
	}
	m[name] = decl
}

// SetConst registers a constant's resolution info under its fully
// qualified name.
func (st *StaticTable) SetConst(name string, info *ConstInfo) { st.consts[name] = info }

// AddMethod registers one candidate definition for owner.name.
func (st *StaticTable) AddMethod(owner *Owner, name string, sig *MethodSig) {
	m := st.methods[owner]
	if m == nil {
		m = map[string][]*MethodSig{}
		st.methods[owner] = m
	}
	m[name] = append(m[name], sig)
}

// AddLibFunc registers a foreign function declaration under lib name.
func (st *StaticTable) AddLibFunc(lib, name string, fn *LibFunc) {
	st.isLib[lib] = true
	m := st.libFuncs[lib]
	if m == nil {
		m = map[string]*LibFunc{}
		st.libFuncs[lib] = m
	}
	m[name] = fn
}

// AddLibVar registers a foreign external variable declaration under
// lib name.
func (st *StaticTable) AddLibVar(lib, name string, v *ExternVar) {
	st.isLib[lib] = true
	m := st.libVars[lib]
	if m == nil {
		m = map[string]*ExternVar{}
		st.libVars[lib] = m
	}
	m[name] = v
}

func (st *StaticTable) Lookup(owner *Owner, node ast.TypeNode, allowTypeof bool) (types.Type, bool) {
	switch node := node.(type) {
	case nil:
		return nil, false
	case *ast.UnderscoreType:
		return nil, false
	case *ast.SelfType:
		if owner == nil {
			return nil, false
		}
		return &types.Named{Owner: owner, Virtual: owner.Kind == Class}, true
	case *ast.NilableType:
		elem, ok := st.Lookup(owner, node.Elem, allowTypeof)
		if !ok {
			return nil, false
		}
		return &types.Nilable{Elem: elem}, true
	case *ast.PointerType:
		elem, ok := st.Lookup(owner, node.Elem, allowTypeof)
		if !ok {
			return nil, false
		}
		return &types.Pointer{Elem: elem}, true
	case *ast.ProcType:
		parms := make([]types.Type, len(node.Parms))
		for i, p := range node.Parms {
			t, ok := st.Lookup(owner, p, allowTypeof)
			if !ok {
				return nil, false
			}
			parms[i] = t
		}
		var ret types.Type
		if node.Ret != nil {
			t, ok := st.Lookup(owner, node.Ret, allowTypeof)
			if !ok {
				return nil, false
			}
			ret = t
		}
		return &types.Proc{Parms: parms, Ret: ret}, true
	case *ast.TypeOfType:
		// typeof(...) requires re-guessing expressions, which only
		// the guess package can do; a static table cannot answer
		// this on its own even when allowTypeof is set.
		return nil, false
	case *ast.PathType:
		return st.lookupPath(node)
	default:
		return nil, false
	}
}

func (st *StaticTable) lookupPath(node *ast.PathType) (types.Type, bool) {
	name := strings.Join(node.Parts, "::")
	last := node.Parts[len(node.Parts)-1]

	if st.abstractRoots[name] {
		return &types.AbstractRoot{Name: name}, true
	}
	if kind, ok := primNames[last]; ok && len(node.Args) == 0 {
		return &types.Primitive{Kind: kind}, true
	}
	if structuralNames[last] && len(node.Args) > 0 {
		return st.lookupStructural(last, node.Args)
	}
	owner, ok := st.byName[name]
	if !ok {
		return nil, false
	}
	args := make([]types.Type, len(node.Args))
	for i, a := range node.Args {
		t, ok := st.Lookup(owner, a, false)
		if !ok {
			return nil, false
		}
		args[i] = t
	}
	return &types.Named{Owner: owner, Args: args, Virtual: owner.Kind == Class}, true
}

func (st *StaticTable) lookupStructural(name string, args []ast.TypeNode) (types.Type, bool) {
	resolve1 := func(n ast.TypeNode) (types.Type, bool) { return st.Lookup(nil, n, false) }
	switch name {
	case "Array":
		if len(args) != 1 {
			return nil, false
		}
		elem, ok := resolve1(args[0])
		if !ok {
			return nil, false
		}
		return &types.Array{Elem: elem}, true
	case "Hash":
		if len(args) != 2 {
			return nil, false
		}
		k, ok := resolve1(args[0])
		if !ok {
			return nil, false
		}
		v, ok := resolve1(args[1])
		if !ok {
			return nil, false
		}
		return &types.Hash{Key: k, Value: v}, true
	case "Pointer":
		if len(args) != 1 {
			return nil, false
		}
		elem, ok := resolve1(args[0])
		if !ok {
			return nil, false
		}
		return &types.Pointer{Elem: elem}, true
	case "Range":
		if len(args) != 2 {
			return nil, false
		}
		from, ok := resolve1(args[0])
		if !ok {
			return nil, false
		}
		to, ok := resolve1(args[1])
		if !ok {
			return nil, false
		}
		return &types.Range{From: from, To: to}, true
	case "Tuple":
		elems := make([]types.Type, len(args))
		for i, a := range args {
			t, ok := resolve1(a)
			if !ok {
				return nil, false
			}
			elems[i] = t
		}
		return &types.Tuple{Elems: elems}, true
	}
	return nil, false
}

func (st *StaticTable) ResolveValue(owner *Owner, path *ast.Path) (*ConstInfo, bool) {
	info, ok := st.consts[strings.Join(path.Parts, "::")]
	return info, ok
}

func (st *StaticTable) Methods(owner *Owner, name string, hasBlock bool, argCount int) []*MethodSig {
	m := st.methods[owner]
	if m == nil {
		return nil
	}
	var out []*MethodSig
	for _, sig := range m[name] {
		if sig.HasBlock == hasBlock && sig.ArgCount == argCount {
			out = append(out, sig)
		}
	}
	return out
}

func (st *StaticTable) libName(recv ast.Node) (string, bool) {
	p, ok := recv.(*ast.Path)
	if !ok || len(p.Parts) == 0 {
		return "", false
	}
	name := p.Parts[len(p.Parts)-1]
	return name, st.isLib[name]
}

func (st *StaticTable) ForeignFunc(recv ast.Node, name string) (*LibFunc, bool) {
	lib, ok := st.libName(recv)
	if !ok {
		return nil, false
	}
	fn, ok := st.libFuncs[lib][name]
	return fn, ok
}

func (st *StaticTable) ForeignVar(recv ast.Node, name string) (*ExternVar, bool) {
	lib, ok := st.libName(recv)
	if !ok {
		return nil, false
	}
	v, ok := st.libVars[lib][name]
	return v, ok
}

func (st *StaticTable) GlobalType(name string) (types.Type, bool) {
	t, ok := st.globals[name]
	return t, ok
}

func (st *StaticTable) ClassVarType(owner *Owner, name string) (types.Type, bool) {
	t, ok := st.classVars[owner][name]
	return t, ok
}

func (st *StaticTable) ExplicitInstanceVar(owner *Owner, name string) (TypeDeclWithLoc, bool) {
	d, ok := st.explicit[owner][name]
	return d, ok
}

func (st *StaticTable) OwnerOf(name string) (*Owner, bool) {
	o, ok := st.byName[name]
	return o, ok
}
