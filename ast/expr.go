package ast

import "github.com/corelang/typeguess/loc"

// Var is a bare identifier in expression position: a local variable,
// a method argument, a block argument, or `self`.
type Var struct {
	Name string
	L    loc.Loc
}

func (v *Var) Loc() loc.Loc { return v.L }

// IsSelf reports whether this reference is to `self`.
func (v *Var) IsSelf() bool { return v.Name == "self" }

// InstanceVar is a reference or assignment target for `@name`.
type InstanceVar struct {
	Name string
	L    loc.Loc
}

func (i *InstanceVar) Loc() loc.Loc { return i.L }

// ClassVar is a reference or assignment target for `@@name`.
type ClassVar struct {
	Name string
	L    loc.Loc
}

func (c *ClassVar) Loc() loc.Loc { return c.L }

// Global is a reference or assignment target for `$name`.
type Global struct {
	Name string
	L    loc.Loc
}

func (g *Global) Loc() loc.Loc { return g.L }

// Path is a (possibly qualified) constant reference, e.g. `Foo::Bar`.
// Whether it denotes a type or a constant value is decided by the
// resolver, not by the AST.
type Path struct {
	Parts []string
	L     loc.Loc
}

func (p *Path) Loc() loc.Loc { return p.L }

// GenericInst is an explicit generic instantiation used in expression
// position, e.g. `T(X)` as the receiver of `.new` in `T(X).new`.
type GenericInst struct {
	Base *Path
	Args []TypeNode
	L    loc.Loc
}

func (g *GenericInst) Loc() loc.Loc { return g.L }

// Arg is one argument of a Call. Name is non-empty for a labeled
// argument such as `out name: @v`; Out marks the `out` modifier used
// by the LibX.fn(out @var) idiom.
type Arg struct {
	Name  string
	Value Node
	Out   bool
}

// BlockArg is the `do |...| ... end` or `{ |...| ... }` block attached
// to a call.
type BlockArg struct {
	Parms []Param
	Exprs []Node
	L     loc.Loc
}

// Call is a method call, with or without an explicit receiver. A nil
// Receiver means an implicit-self (or unqualified top-level) call.
type Call struct {
	Receiver Node
	Name     string
	Args     []Arg
	Block    *BlockArg
	L        loc.Loc
}

func (c *Call) Loc() loc.Loc { return c.L }

// Literal node kinds. Each carries only what the guesser needs: enough
// to know its primitive kind, never an evaluated value.
type (
	IntLit struct {
		Text string
		L    loc.Loc
	}
	FloatLit struct {
		Text string
		L    loc.Loc
	}
	CharLit struct {
		L loc.Loc
	}
	BoolLit struct {
		Val bool
		L   loc.Loc
	}
	NilLit struct{ L loc.Loc }
	StringLit struct {
		Text string
		L    loc.Loc
	}
	SymbolLit struct {
		Name string
		L    loc.Loc
	}
	RegexLit struct{ L loc.Loc }
	// StringInterp is a string with interpolated sub-expressions;
	// it always guesses to String regardless of the parts.
	StringInterp struct {
		Parts []Node
		L     loc.Loc
	}
)

func (n *IntLit) Loc() loc.Loc       { return n.L }
func (n *FloatLit) Loc() loc.Loc     { return n.L }
func (n *CharLit) Loc() loc.Loc      { return n.L }
func (n *BoolLit) Loc() loc.Loc      { return n.L }
func (n *NilLit) Loc() loc.Loc       { return n.L }
func (n *StringLit) Loc() loc.Loc    { return n.L }
func (n *SymbolLit) Loc() loc.Loc    { return n.L }
func (n *RegexLit) Loc() loc.Loc     { return n.L }
func (n *StringInterp) Loc() loc.Loc { return n.L }

// RangeLit is `a..b` or `a...b`.
type RangeLit struct {
	From, To  Node // either may be nil, for an endless/beginless range
	Exclusive bool
	L         loc.Loc
}

func (r *RangeLit) Loc() loc.Loc { return r.L }

// ArrayLit covers all three array-literal forms: a bare `[x, y]`, a
// `[x, y] of T`, and an explicit constructor `C{x, y}`. Exactly one of
// Ctor/Of is non-nil, or neither, for the bare form.
type ArrayLit struct {
	Ctor     Node // explicit constructor path/call, e.g. `C` in `C{x, y}`
	Of       TypeNode
	Elements []Node
	L        loc.Loc
}

func (a *ArrayLit) Loc() loc.Loc { return a.L }

// HashEntry is one `key => value` pair of a HashLit.
type HashEntry struct {
	Key, Value Node
}

// HashLit is `{k => v, ...}`, optionally typed with `of K => V`.
type HashLit struct {
	OfKey, OfValue TypeNode
	Entries        []HashEntry
	L              loc.Loc
}

func (h *HashLit) Loc() loc.Loc { return h.L }

// TupleLit is `{x, y, z}` in tuple-literal position.
type TupleLit struct {
	Elements []Node
	L        loc.Loc
}

func (t *TupleLit) Loc() loc.Loc { return t.L }

// NamedTupleEntry is one `name: value` pair of a NamedTupleLit.
type NamedTupleEntry struct {
	Name  string
	Value Node
}

// NamedTupleLit is `{name: value, ...}`.
type NamedTupleLit struct {
	Entries []NamedTupleEntry
	L       loc.Loc
}

func (n *NamedTupleLit) Loc() loc.Loc { return n.L }

// BinaryOp is any infix operator expression. The guesser does not
// care which operator it is: it merges both operand guesses.
type BinaryOp struct {
	Op          string
	Left, Right Node
	L           loc.Loc
}

func (b *BinaryOp) Loc() loc.Loc { return b.L }

// If is `if cond then else end`; Else is nil when absent.
type If struct {
	Cond, Then, Else Node
	L                loc.Loc
}

func (i *If) Loc() loc.Loc { return i.L }

// Unless is the negated-condition dual of If.
type Unless struct {
	Cond, Then, Else Node
	L                loc.Loc
}

func (u *Unless) Loc() loc.Loc { return u.L }

// WhenClause is one `when cond1, cond2 then body` arm of a Case.
type WhenClause struct {
	Conds []Node
	Body  []Node
}

// Case is a `case subject; when ...; else ...; end` expression.
// Else is nil when the case has no else clause, which is exactly when
// exhaustiveness of the when-arms becomes relevant to a guess.
type Case struct {
	Subject Node // nil for a subject-less case
	Whens   []WhenClause
	Else    []Node
	L       loc.Loc
}

func (c *Case) Loc() loc.Loc { return c.L }

// BoolIntrinsicKind enumerates the boolean-returning intrinsics that
// always guess to Bool: `!`, `is_a?`, `responds_to?`.
type BoolIntrinsicKind int

const (
	Not BoolIntrinsicKind = iota + 1
	IsA
	RespondsTo
)

// BoolIntrinsic is always guessed as Bool, regardless of its operand.
type BoolIntrinsic struct {
	Kind BoolIntrinsicKind
	Recv Node
	Args []Node
	L    loc.Loc
}

func (b *BoolIntrinsic) Loc() loc.Loc { return b.L }

// SizeOfKind distinguishes `sizeof` from `instance_sizeof`; both
// guess to Int32.
type SizeOfKind int

const (
	SizeOf SizeOfKind = iota + 1
	InstanceSizeOf
)

type SizeOfExpr struct {
	Kind SizeOfKind
	Type TypeNode
	L    loc.Loc
}

func (s *SizeOfExpr) Loc() loc.Loc { return s.L }

// Cast is `e.as(T)`. When T is `typeof(x)` for a single expression x,
// the guesser recurses on x instead of resolving T.
type Cast struct {
	Expr Node
	To   TypeNode
	L    loc.Loc
}

func (c *Cast) Loc() loc.Loc { return c.L }

// NilableCast is `e.as?(T)`; it guesses to T-or-nil when T resolves.
type NilableCast struct {
	Expr Node
	To   TypeNode
	L    loc.Loc
}

func (n *NilableCast) Loc() loc.Loc { return n.L }

// UninitializedExpr is `uninitialized T`, an expression yielding an
// uninitialized value of the declared type T.
type UninitializedExpr struct {
	Type TypeNode
	L    loc.Loc
}

func (u *UninitializedExpr) Loc() loc.Loc { return u.L }
