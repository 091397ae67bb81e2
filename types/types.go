// Package types implements the type algebra the guesser returns:
// primitives, the structural type constructors (array, hash, range,
// tuple, named tuple, nilable, proc, pointer), and the resolved named
// types that stand for classes, modules, and enums. It mirrors
// github.com/eaburns/pea/checker's type.go/unify.go/eq.go, adapted
// from a statically-typed struct/union calculus to a class-based one
// where "merge" (widening to the smallest common union) replaces
// unification.
package types

import "strings"

// Type is any guessed or resolved type. A nil Type means "no guess
// was possible" throughout this module; it is never a sentinel value.
type Type interface {
	String() string
	isType()
}

// Owner identifies the class, module, or enum a Named type or
// Metaclass refers to. It is implemented by resolve.Owner; the types
// package never imports resolve, to avoid a cycle, since resolve must
// import types to describe what names resolve to.
type Owner interface {
	OwnerID() int
	OwnerName() string
	OwnerGeneric() bool
}

// PrimKind enumerates the primitive kinds a literal can guess to.
type PrimKind int

const (
	Bool PrimKind = iota + 1
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	Char
	String
	Symbol
	Regex
	Nil
	Void
)

var primNames = map[PrimKind]string{
	Bool: "Bool", Int8: "Int8", Int16: "Int16", Int32: "Int32", Int64: "Int64",
	Uint8: "UInt8", Uint16: "UInt16", Uint32: "UInt32", Uint64: "UInt64",
	Float32: "Float32", Float64: "Float64", Char: "Char", String: "String",
	Symbol: "Symbol", Regex: "Regex", Nil: "Nil", Void: "Void",
}

// Primitive is a built-in scalar type.
type Primitive struct{ Kind PrimKind }

func (p *Primitive) isType()        {}
func (p *Primitive) String() string { return primNames[p.Kind] }

// Range is `Range(From, To)`.
type Range struct{ From, To Type }

func (r *Range) isType() {}
func (r *Range) String() string {
	return "Range(" + str(r.From) + ", " + str(r.To) + ")"
}

// Array is `Array(Elem)`.
type Array struct{ Elem Type }

func (a *Array) isType()        {}
func (a *Array) String() string { return "Array(" + str(a.Elem) + ")" }

// Hash is `Hash(Key, Value)`.
type Hash struct{ Key, Value Type }

func (h *Hash) isType() {}
func (h *Hash) String() string {
	return "Hash(" + str(h.Key) + ", " + str(h.Value) + ")"
}

// Tuple is `Tuple(E1, E2, ...)`.
type Tuple struct{ Elems []Type }

func (t *Tuple) isType() {}
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = str(e)
	}
	return "Tuple(" + strings.Join(parts, ", ") + ")"
}

// NamedTupleEntry is one field of a NamedTuple.
type NamedTupleEntry struct {
	Name string
	Type Type
}

// NamedTuple is `NamedTuple(name: Type, ...)`.
type NamedTuple struct{ Entries []NamedTupleEntry }

func (n *NamedTuple) isType() {}
func (n *NamedTuple) String() string {
	parts := make([]string, len(n.Entries))
	for i, e := range n.Entries {
		parts[i] = e.Name + ": " + str(e.Type)
	}
	return "NamedTuple(" + strings.Join(parts, ", ") + ")"
}

// Nilable is `T?`, sugar for Union{T, Nil}. Kept distinct from a
// general Union so callers can recognize the common case without
// inspecting Union.Members.
type Nilable struct{ Elem Type }

func (n *Nilable) isType()        {}
func (n *Nilable) String() string { return str(n.Elem) + "?" }

// Proc is `Proc(Parm1, ..., Ret)`; Ret is nil for a proc producing
// void, as with an unrestricted block argument.
type Proc struct {
	Parms []Type
	Ret   Type
}

func (p *Proc) isType() {}
func (p *Proc) String() string {
	parts := make([]string, len(p.Parms))
	for i, t := range p.Parms {
		parts[i] = str(t)
	}
	ret := "Void"
	if p.Ret != nil {
		ret = str(p.Ret)
	}
	return "Proc(" + strings.Join(append(parts, ret), ", ") + ")"
}

// Pointer is `Pointer(Elem)`.
type Pointer struct{ Elem Type }

func (p *Pointer) isType()        {}
func (p *Pointer) String() string { return "Pointer(" + str(p.Elem) + ")" }

// Named is a resolved class, module, or enum, possibly instantiated
// with generic Args. Virtual is set by the legality check when the
// owner is a non-final class: a variable annotated with a non-final
// class's name is understood to admit subclass instances too, not
// just that exact class.
type Named struct {
	Owner   Owner
	Args    []Type
	Virtual bool
}

func (n *Named) isType() {}
func (n *Named) String() string {
	if len(n.Args) == 0 {
		return n.Owner.OwnerName()
	}
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = str(a)
	}
	return n.Owner.OwnerName() + "(" + strings.Join(parts, ", ") + ")"
}

// Metaclass is the type of a type: `T.class`. A path reference that
// resolves to a type guesses as its Metaclass.
type Metaclass struct{ Owner Owner }

func (m *Metaclass) isType()        {}
func (m *Metaclass) String() string { return m.Owner.OwnerName() + ".class" }

// AbstractRoot is an abstract root type that is syntactically
// forbidden as a variable's type, e.g. the top Object-like or
// numeric-root-like type.
type AbstractRoot struct{ Name string }

func (a *AbstractRoot) isType()        {}
func (a *AbstractRoot) String() string { return a.Name }

// Union is the result of merging incompatible types. Members is
// always de-duplicated and flattened (no Union directly nests another
// Union); see Merge.
type Union struct{ Members []Type }

func (u *Union) isType() {}
func (u *Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = str(m)
	}
	return strings.Join(parts, " | ")
}

func str(t Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

// IsUninstantiatedGeneric reports whether t is a generic class or
// module named without type arguments, which is forbidden as a
// variable's type.
func IsUninstantiatedGeneric(t Type) bool {
	n, ok := t.(*Named)
	return ok && n.Owner.OwnerGeneric() && len(n.Args) == 0
}

// IsAbstractRoot reports whether t is a root type forbidden as a
// variable's type.
func IsAbstractRoot(t Type) bool {
	_, ok := t.(*AbstractRoot)
	return ok
}
