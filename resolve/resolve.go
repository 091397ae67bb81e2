// Package resolve describes the name-resolution oracle the guess
// package consults, and a reference in-memory implementation of it.
// The oracle itself is an external collaborator: the real symbol
// table and name resolver live outside this pass, which only consumes
// what they have already decided. This package exists so the pass has
// something concrete to call, the way
// github.com/eaburns/pea/checker/importer.go's Importer interface is
// paired with a defaultImporter for real use and a testImporter for
// tests.
package resolve

import (
	"github.com/corelang/typeguess/ast"
	"github.com/corelang/typeguess/loc"
	"github.com/corelang/typeguess/types"
)

// OwnerKind distinguishes the four declaration shapes that can own
// class variables and/or instance variables.
type OwnerKind int

const (
	// TopLevel is the implicit top-level program/file module.
	// Instance variables are silently ignored there; it is never
	// pushed as an *Owner, represented instead by a nil *Owner on
	// the owner stack.
	TopLevel OwnerKind = iota
	Class
	Module
	Enum
	// Lib is a foreign-library declaration block. Instance
	// variables are never legal inside one.
	Lib
)

// Owner is the arena-allocated identity of a class, module, enum, or
// lib declaration. Two Owners are the same declaration iff they are
// the same pointer; the pass never compares them structurally. Table
// below is the arena, and *Owner is its stable index.
type Owner struct {
	id        int
	Name      string
	Kind      OwnerKind
	Generic   bool
	TypeParms []string
}

func (o *Owner) OwnerID() int        { return o.id }
func (o *Owner) OwnerName() string   { return o.Name }
func (o *Owner) OwnerGeneric() bool  { return o.Generic }

// ForbidsInstanceVars reports whether assigning an instance variable
// under this owner is a hard error.
func (o *Owner) ForbidsInstanceVars() bool { return o.Kind == Lib }

// IsConcreteOwner reports whether this is a class/module/enum owner
// that is not generic, i.e. instance variables assigned here are
// resolved to concrete types rather than type expressions.
func (o *Owner) IsConcreteOwner() bool {
	return (o.Kind == Class || o.Kind == Module || o.Kind == Enum) && !o.Generic
}

// IsGenericOwner reports whether this is a generic class/module owner,
// whose instance variables must be recorded as type expressions.
func (o *Owner) IsGenericOwner() bool {
	return (o.Kind == Class || o.Kind == Module) && o.Generic
}

// Table is the owner arena. Every ClassDef/ModuleDef/EnumDef/LibDef in
// a program gets exactly one *Owner allocated in a Table, once, so
// that owner identity is stable across the whole pass.
type Table struct {
	owners []*Owner
}

// NewOwner allocates and returns a new Owner in the table.
func (t *Table) NewOwner(name string, kind OwnerKind, generic bool, typeParms []string) *Owner {
	o := &Owner{id: len(t.owners), Name: name, Kind: kind, Generic: generic, TypeParms: typeParms}
	t.owners = append(t.owners, o)
	return o
}

// Owners returns every owner allocated so far, in allocation order.
func (t *Table) Owners() []*Owner { return t.owners }

// TypeDeclWithLoc is an explicit instance-variable (or global/class
// variable) declaration that predates the guessing pass, pre-populated
// by an earlier declaration pass.
type TypeDeclWithLoc struct {
	Type     types.Type
	TypeExpr ast.TypeNode // the written annotation, for generic owners
	L        loc.Loc
}

// ConstInfo describes what a constant Path denotes, for the
// Path-to-value resolution rule.
type ConstInfo struct {
	// Key uniquely identifies this constant declaration, for the
	// constants-being-resolved cycle-breaking stack.
	Key string
	// EnumMember is true when the constant's body is already typed
	// as an enum member; EnumType is then its type and Value is
	// unused.
	EnumMember bool
	EnumType   types.Type
	// Value is the constant's initializer expression, guessed
	// recursively when the constant is not an enum member.
	Value ast.Node
}

// MethodSig is one candidate definition gathered by Methods, for the
// guess-from-method-annotation rule.
type MethodSig struct {
	Def      *ast.Def
	Owner    *Owner // owner whose scope the body should be guessed under
	HasBlock bool
	ArgCount int
	Ret      types.Type // nil if the method declares no return type
	IsNew    bool
}

// LibParmSig is one parameter of a foreign function declaration.
type LibParmSig struct {
	Out  bool
	Type types.Type // the pointee element type for an `out` parameter
}

// LibFunc describes a foreign-library function's signature, for the
// LibX.fn(...) call-guessing rule.
type LibFunc struct {
	Parms []LibParmSig
	Ret   types.Type
}

// ExternVar describes a foreign-library external variable
// declaration's type.
type ExternVar struct {
	Type types.Type
}

// Oracle is the name-resolution contract the guesser relies on: a
// core type-annotation lookup, plus the adjacent lookups it needs
// (constants, candidate methods, foreign functions, and the
// already-typed symbol table). The guess package never mutates
// anything reached through an Oracle.
type Oracle interface {
	// Lookup resolves a type annotation to a concrete type. It does
	// not itself run the legality check; that is the guess
	// package's job, wrapped around every call to Lookup.
	Lookup(owner *Owner, node ast.TypeNode, allowTypeof bool) (types.Type, bool)

	// ResolveValue resolves a constant path to what it denotes.
	ResolveValue(owner *Owner, path *ast.Path) (*ConstInfo, bool)

	// Methods returns every candidate definition on owner's
	// metaclass matching name, block-presence, and argument count.
	Methods(owner *Owner, name string, hasBlock bool, argCount int) []*MethodSig

	// ForeignFunc resolves recv.name to a foreign function
	// declaration when recv denotes a lib.
	ForeignFunc(recv ast.Node, name string) (*LibFunc, bool)

	// ForeignVar resolves recv.name to a foreign external variable
	// declaration.
	ForeignVar(recv ast.Node, name string) (*ExternVar, bool)

	// GlobalType reports the type of a global if the symbol table
	// already has it typed.
	GlobalType(name string) (types.Type, bool)

	// ClassVarType reports the type of a class variable if the
	// symbol table already has it typed.
	ClassVarType(owner *Owner, name string) (types.Type, bool)

	// ExplicitInstanceVar reports owner's pre-declared instance
	// variable named name, if any.
	ExplicitInstanceVar(owner *Owner, name string) (TypeDeclWithLoc, bool)

	// OwnerOf resolves a class/module/enum/lib definition's declared
	// name to the Owner a prior declaration pass allocated for it.
	// The attribution visitor uses this to find the owner to push
	// when it enters a ClassDef/ModuleDef/EnumDef/LibDef node; owner
	// allocation itself happens outside this pass, in the symbol
	// table it consults as an external collaborator.
	OwnerOf(name string) (*Owner, bool)
}
