package ast

import "github.com/corelang/typeguess/loc"

// OwnerDef is any declaration that can own class variables and
// instance variables: a class, a module, an enum, or a lib block.
// Programs (the top-level file/module) are not an OwnerDef; they are
// represented by Program and are handled as a special case throughout
// the guess package, since instance variables are illegal there.
type OwnerDef interface {
	Node
	OwnerName() string
	Body() []Node
}

// ClassDef is a class declaration, optionally generic over TypeParms.
type ClassDef struct {
	Name      string
	TypeParms []string
	Exprs     []Node
	L         loc.Loc
}

func (c *ClassDef) Loc() loc.Loc    { return c.L }
func (c *ClassDef) OwnerName() string { return c.Name }
func (c *ClassDef) Body() []Node    { return c.Exprs }
func (c *ClassDef) Generic() bool   { return len(c.TypeParms) > 0 }

// ModuleDef is a module declaration, optionally generic.
type ModuleDef struct {
	Name      string
	TypeParms []string
	Exprs     []Node
	L         loc.Loc
}

func (m *ModuleDef) Loc() loc.Loc    { return m.L }
func (m *ModuleDef) OwnerName() string { return m.Name }
func (m *ModuleDef) Body() []Node    { return m.Exprs }
func (m *ModuleDef) Generic() bool   { return len(m.TypeParms) > 0 }

// EnumDef is an enum declaration. Enums are never generic.
type EnumDef struct {
	Name  string
	Exprs []Node
	L     loc.Loc
}

func (e *EnumDef) Loc() loc.Loc    { return e.L }
func (e *EnumDef) OwnerName() string { return e.Name }
func (e *EnumDef) Body() []Node    { return e.Exprs }

// LibDef is a foreign-library declaration block (`lib LibC; ...; end`).
// Instance variables may never be assigned inside one.
type LibDef struct {
	Name  string
	Exprs []Node
	L     loc.Loc
}

func (lb *LibDef) Loc() loc.Loc    { return lb.L }
func (lb *LibDef) OwnerName() string { return lb.Name }
func (lb *LibDef) Body() []Node    { return lb.Exprs }

// FunDecl is a foreign function declaration inside a LibDef, e.g.
// `fun getenv(name : Pointer(UInt8)) : Pointer(UInt8)`.
type FunDecl struct {
	Name  string
	Parms []FunParm
	Ret   TypeNode // nil if no return
	L     loc.Loc
}

func (f *FunDecl) Loc() loc.Loc { return f.L }

// FunParm is one parameter of a foreign function declaration. Out
// marks a parameter that, when passed `out @ivar`, attributes the
// pointed-to element type of Restriction to the instance variable.
type FunParm struct {
	Name        string
	Restriction TypeNode
	Out         bool
	L           loc.Loc
}

// ExternalVarDecl declares a foreign library global (`$errno : Int32`).
type ExternalVarDecl struct {
	Name        string
	Restriction TypeNode
	L           loc.Loc
}

func (e *ExternalVarDecl) Loc() loc.Loc { return e.L }

// Param is a method or block parameter.
type Param struct {
	Name        string
	Restriction TypeNode // nil if unrestricted
	Default     Node     // nil if no default
	L           loc.Loc
}

// Def is a method definition. Previous links to an earlier definition
// of the same name in the same owner, the way a parser represents a
// reopened method (a class body split across multiple `def`s for the
// same name); the attribution visitor walks this chain to decide
// which Def is the one actually in effect.
type Def struct {
	Name     string
	Args     []Param
	BlockArg *Param // nil if the method takes no block
	Exprs    []Node
	Previous *Def
	L        loc.Loc
}

func (d *Def) Loc() loc.Loc { return d.L }

// IsInitializer reports whether this definition is the owner's
// initializer method.
func (d *Def) IsInitializer() bool { return d.Name == "initialize" }

// Assign is `target = value` or, with len(Targets) > 1, a multi-assign
// `t1, t2, ... = v1, v2, ...`. A multi-assign with exactly one value
// is a tuple-destructuring assign.
type Assign struct {
	Targets []Node
	Values  []Node
	L       loc.Loc
}

func (a *Assign) Loc() loc.Loc { return a.L }

// UninitializedDecl is a bare `v :: T` declaration with no value; it
// is attributed exactly as an assignment whose guessed type is T,
// resolved via the name resolver.
type UninitializedDecl struct {
	Target Node
	Type   TypeNode
	L      loc.Loc
}

func (u *UninitializedDecl) Loc() loc.Loc { return u.L }

// TypedAssign is a `v : T = e` declaration. When it carries a value it
// is delegated to the Assign rule on (Target, Value); Type is kept
// only for downstream consumers, the guesser never reads it directly.
type TypedAssign struct {
	Target Node
	Type   TypeNode
	Value  Node
	L      loc.Loc
}

func (t *TypedAssign) Loc() loc.Loc { return t.L }

// Return is an explicit `return e` statement. Expr is nil for a bare
// `return`, which guesses as Nil.
type Return struct {
	Expr Node
	L    loc.Loc
}

func (r *Return) Loc() loc.Loc { return r.L }

// MacroLike is a macro-expanded top-level declaration. It is only
// traversed while the attribution visitor is outside a method body.
type MacroLike struct {
	Exprs []Node
	L     loc.Loc
}

func (m *MacroLike) Loc() loc.Loc { return m.L }
