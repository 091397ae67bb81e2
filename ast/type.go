package ast

import "github.com/corelang/typeguess/loc"

// PathType is a type annotation written as a constant path, optionally
// with generic arguments: `T`, `T(X)`, `Foo::Bar(X, Y)`.
type PathType struct {
	Parts []string
	Args  []TypeNode
	L     loc.Loc
}

func (p *PathType) Loc() loc.Loc { return p.L }
func (p *PathType) typeNode()    {}

// NilableType is `T?`, sugar for a union of T and nil.
type NilableType struct {
	Elem TypeNode
	L    loc.Loc
}

func (n *NilableType) Loc() loc.Loc { return n.L }
func (n *NilableType) typeNode()    {}

// ProcType is `Proc(A, B, R)` or `(A, B -> R)` syntax for a proc type.
type ProcType struct {
	Parms []TypeNode
	Ret   TypeNode // nil for a proc returning nothing
	L     loc.Loc
}

func (p *ProcType) Loc() loc.Loc { return p.L }
func (p *ProcType) typeNode()    {}

// PointerType is `Pointer(T)`.
type PointerType struct {
	Elem TypeNode
	L    loc.Loc
}

func (p *PointerType) Loc() loc.Loc { return p.L }
func (p *PointerType) typeNode()    {}

// TypeOfType is `typeof(x, y, ...)`. The concrete guesser only
// special-cases the single-expression form; the general form is
// resolved by the oracle like any other type node.
type TypeOfType struct {
	Exprs []Node
	L     loc.Loc
}

func (t *TypeOfType) Loc() loc.Loc { return t.L }
func (t *TypeOfType) typeNode()    {}

// SelfType is the bare `self` used as a type restriction or return
// annotation, resolving to the enclosing owner's (virtualized) type.
type SelfType struct{ L loc.Loc }

func (s *SelfType) Loc() loc.Loc { return s.L }
func (s *SelfType) typeNode()    {}

// UnderscoreType is `_`, an explicitly unrestricted annotation.
type UnderscoreType struct{ L loc.Loc }

func (u *UnderscoreType) Loc() loc.Loc { return u.L }
func (u *UnderscoreType) typeNode()    {}
