package guess

import (
	"strings"

	"github.com/corelang/typeguess/ast"
	"github.com/corelang/typeguess/types"
)

// GuessType is a pure function from an AST node to a concrete type, or
// nil if none can be guessed. It is used for owners of concrete class
// (or enum/lib) kind; GuessTypeVars is its counterpart for generic
// owners, which must keep unresolved type expressions around for
// re-resolution under each instantiation rather than resolved types.
func GuessType(c *context, node ast.Node) types.Type {
	switch n := node.(type) {
	case nil:
		return nil
	case *ast.IntLit:
		return &types.Primitive{Kind: intLitKind(n.Text)}
	case *ast.FloatLit:
		return &types.Primitive{Kind: floatLitKind(n.Text)}
	case *ast.CharLit:
		return &types.Primitive{Kind: types.Char}
	case *ast.BoolLit:
		return &types.Primitive{Kind: types.Bool}
	case *ast.NilLit:
		return &types.Primitive{Kind: types.Nil}
	case *ast.StringLit:
		return &types.Primitive{Kind: types.String}
	case *ast.SymbolLit:
		return &types.Primitive{Kind: types.Symbol}
	case *ast.RegexLit:
		return &types.Primitive{Kind: types.Regex}
	case *ast.StringInterp:
		return &types.Primitive{Kind: types.String}
	case *ast.RangeLit:
		from, to := GuessType(c, n.From), GuessType(c, n.To)
		if from == nil || to == nil {
			return nil
		}
		return &types.Range{From: from, To: to}
	case *ast.ArrayLit:
		return guessArrayLit(c, n)
	case *ast.HashLit:
		return guessHashLit(c, n)
	case *ast.TupleLit:
		return guessAllOrNothingTuple(c, n.Elements)
	case *ast.NamedTupleLit:
		return guessNamedTuple(c, n)
	case *ast.BinaryOp:
		return types.Merge(GuessType(c, n.Left), GuessType(c, n.Right))
	case *ast.If:
		return types.Merge(GuessType(c, n.Then), GuessType(c, n.Else))
	case *ast.Unless:
		return types.Merge(GuessType(c, n.Then), GuessType(c, n.Else))
	case *ast.Case:
		return guessCase(c, n)
	case *ast.BoolIntrinsic:
		return &types.Primitive{Kind: types.Bool}
	case *ast.SizeOfExpr:
		return &types.Primitive{Kind: types.Int32}
	case *ast.Nop:
		return &types.Primitive{Kind: types.Nil}
	case *ast.UninitializedExpr:
		return lookupLegal(c, n.Type, false)
	case *ast.Cast:
		return guessCast(c, n)
	case *ast.NilableCast:
		t := lookupLegal(c, n.To, false)
		if t == nil {
			return nil
		}
		return &types.Nilable{Elem: t}
	case *ast.Var:
		return guessVar(c, n)
	case *ast.InstanceVar:
		return guessInstanceVarRef(c, n)
	case *ast.Path:
		return guessPath(c, n)
	case *ast.Call:
		return guessCall(c, n)
	case *ast.Expressions:
		return guessLast(c, n.Nodes)
	default:
		return nil
	}
}

// guessLast is the "Expressions block: guess of its last expression"
// rule, shared by Expressions, Case arms, and method bodies.
func guessLast(c *context, nodes []ast.Node) types.Type {
	if len(nodes) == 0 {
		return nil
	}
	return GuessType(c, nodes[len(nodes)-1])
}

func guessCast(c *context, n *ast.Cast) types.Type {
	if tof, ok := n.To.(*ast.TypeOfType); ok && len(tof.Exprs) == 1 {
		return GuessType(c, tof.Exprs[0])
	}
	return lookupLegal(c, n.To, false)
}

func guessCase(c *context, n *ast.Case) types.Type {
	var ts []types.Type
	for _, w := range n.Whens {
		ts = append(ts, guessLast(c, w.Body))
	}
	// A case missing an else is treated as if it were fully
	// covering: its absent else branch contributes nothing to the
	// merge, so the result may not include Nil even though an
	// unmatched subject falls through. This is deliberate, not a
	// bug to "fix" here; a downstream exhaustiveness check is
	// better placed to decide whether that fallthrough matters.
	if n.Else != nil {
		ts = append(ts, guessLast(c, n.Else))
	}
	return types.Merge(ts...)
}

func guessAllOrNothingTuple(c *context, elems []ast.Node) types.Type {
	ts := make([]types.Type, len(elems))
	for i, e := range elems {
		t := GuessType(c, e)
		if t == nil {
			return nil
		}
		ts[i] = t
	}
	return &types.Tuple{Elems: ts}
}

func guessNamedTuple(c *context, n *ast.NamedTupleLit) types.Type {
	entries := make([]types.NamedTupleEntry, len(n.Entries))
	for i, e := range n.Entries {
		t := GuessType(c, e.Value)
		if t == nil {
			return nil
		}
		entries[i] = types.NamedTupleEntry{Name: e.Name, Type: t}
	}
	return &types.NamedTuple{Entries: entries}
}

func mergeElements(c *context, elems []ast.Node) types.Type {
	ts := make([]types.Type, len(elems))
	for i, e := range elems {
		ts[i] = GuessType(c, e)
	}
	return types.Merge(ts...)
}

func guessArrayLit(c *context, n *ast.ArrayLit) types.Type {
	switch {
	case n.Ctor != nil:
		return guessExplicitArrayCtor(c, n)
	case n.Of != nil:
		elem := lookupLegal(c, n.Of, false)
		if elem == nil {
			return nil
		}
		return &types.Array{Elem: elem}
	default:
		elem := mergeElements(c, n.Elements)
		if elem == nil {
			return nil
		}
		return &types.Array{Elem: elem}
	}
}

func guessExplicitArrayCtor(c *context, n *ast.ArrayLit) types.Type {
	pt := ctorPathType(n.Ctor)
	if pt == nil {
		return nil
	}
	t, ok := c.oracle.Lookup(c.owner(), pt, false)
	if !ok {
		return nil
	}
	if named, ok := t.(*types.Named); ok && named.Owner.OwnerGeneric() && len(named.Args) == 0 {
		elem := mergeElements(c, n.Elements)
		inst := &types.Named{Owner: named.Owner, Args: []types.Type{elem}}
		legal, err := legalize(inst, n)
		c.setErr(err)
		return legal
	}
	legal, err := legalize(t, n)
	c.setErr(err)
	return legal
}

// ctorPathType adapts an explicit-constructor expression (a bare
// constant Path) to a type-position node so it can go through the
// oracle the same way any other annotation does.
func ctorPathType(ctor ast.Node) *ast.PathType {
	p, ok := ctor.(*ast.Path)
	if !ok {
		return nil
	}
	return &ast.PathType{Parts: p.Parts, L: p.Loc()}
}

func guessHashLit(c *context, n *ast.HashLit) types.Type {
	if n.OfKey != nil && n.OfValue != nil {
		k := lookupLegal(c, n.OfKey, false)
		v := lookupLegal(c, n.OfValue, false)
		if k == nil || v == nil {
			return nil
		}
		return &types.Hash{Key: k, Value: v}
	}
	var keys, vals []ast.Node
	for _, e := range n.Entries {
		keys = append(keys, e.Key)
		vals = append(vals, e.Value)
	}
	k := mergeElements(c, keys)
	v := mergeElements(c, vals)
	if k == nil && v == nil {
		return nil
	}
	return &types.Hash{Key: k, Value: v}
}

func intLitKind(text string) types.PrimKind {
	switch suffix(text) {
	case "i8":
		return types.Int8
	case "i16":
		return types.Int16
	case "i64":
		return types.Int64
	case "u8":
		return types.Uint8
	case "u16":
		return types.Uint16
	case "u32":
		return types.Uint32
	case "u64":
		return types.Uint64
	default:
		return types.Int32
	}
}

func floatLitKind(text string) types.PrimKind {
	if suffix(text) == "f32" {
		return types.Float32
	}
	return types.Float64
}

// suffix extracts a trailing _i8/_u32/_f64-style literal suffix used
// to pin a numeric literal to a specific width.
func suffix(text string) string {
	i := strings.LastIndexByte(text, '_')
	if i < 0 {
		return ""
	}
	return strings.ToLower(text[i+1:])
}
