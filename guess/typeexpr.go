package guess

import (
	"github.com/corelang/typeguess/ast"
	"github.com/corelang/typeguess/types"
)

// GuessTypeVars is the generic-owner counterpart of GuessType. Where
// GuessType resolves to a concrete types.Type, GuessTypeVars resolves
// to a list of TypeExprElem that may still hold unresolved
// ast.TypeNode syntax, so that a later instantiation of the owning
// generic can re-resolve each element in the instantiated scope.
func GuessTypeVars(c *context, node ast.Node) []TypeExprElem {
	switch n := node.(type) {
	case nil:
		return nil
	case *ast.Call:
		if n.Name == "new" && n.Receiver != nil {
			return guessNewTypeVars(c, n)
		}
		return wrapConcrete(c, node)
	case *ast.Var:
		return guessVarTypeVars(c, n)
	case *ast.InstanceVar:
		return guessInstanceVarTypeVars(c, n)
	case *ast.ArrayLit:
		if n.Of != nil {
			return fabricateGeneric("Array", []ast.TypeNode{n.Of})
		}
		return wrapConcrete(c, node)
	case *ast.HashLit:
		if n.OfKey != nil && n.OfValue != nil {
			return fabricateGeneric("Hash", []ast.TypeNode{n.OfKey, n.OfValue})
		}
		return wrapConcrete(c, node)
	case *ast.If:
		return concatTypeVars(c, n.Then, n.Else)
	case *ast.Unless:
		return concatTypeVars(c, n.Then, n.Else)
	case *ast.Case:
		return guessCaseTypeVars(c, n)
	case *ast.BinaryOp:
		return concatTypeVars(c, n.Left, n.Right)
	case *ast.Expressions:
		return typeVarsLast(c, n.Nodes)
	default:
		return wrapConcrete(c, node)
	}
}

// wrapConcrete guesses a concrete type the ordinary way and wraps it
// as a single resolved element.
func wrapConcrete(c *context, node ast.Node) []TypeExprElem {
	t := GuessType(c, node)
	if t == nil {
		return nil
	}
	return []TypeExprElem{{Resolved: t}}
}

// guessNewTypeVars handles `T.new`: none for an uninstantiated generic
// receiver (no concrete value can be formed), else delegate to
// GuessType and wrap.
func guessNewTypeVars(c *context, call *ast.Call) []TypeExprElem {
	tn := exprReceiverToTypeNode(call.Receiver)
	if tn == nil {
		return wrapConcrete(c, call)
	}
	raw, ok := c.oracle.Lookup(c.owner(), tn, false)
	if !ok {
		return nil
	}
	if types.IsUninstantiatedGeneric(raw) {
		return nil
	}
	return wrapConcrete(c, call)
}

// guessVarTypeVars handles a Var or block argument: a restricted
// formal parameter yields its restriction node itself, unresolved,
// though resolving it once is still attempted to trigger the
// legality check.
func guessVarTypeVars(c *context, v *ast.Var) []TypeExprElem {
	if v.IsSelf() {
		return wrapConcrete(c, v)
	}
	p, ok := c.findParam(v.Name)
	if !ok {
		return nil
	}
	if p.Restriction != nil {
		lookupLegal(c, p.Restriction, false)
		return []TypeExprElem{{Expr: p.Restriction}}
	}
	if p.Default != nil {
		return GuessTypeVars(c, p.Default)
	}
	if c.blockArg != nil && c.blockArg.Name == v.Name {
		return wrapConcrete(c, v)
	}
	return nil
}

// guessInstanceVarTypeVars handles an InstanceVar reference: an
// explicit declaration's type expression wins, else whatever has
// already been recorded for this variable.
func guessInstanceVarTypeVars(c *context, iv *ast.InstanceVar) []TypeExprElem {
	o := c.owner()
	if o == nil {
		return nil
	}
	if decl, ok := c.oracle.ExplicitInstanceVar(o, iv.Name); ok {
		if decl.TypeExpr != nil {
			return []TypeExprElem{{Expr: decl.TypeExpr}}
		}
		if decl.Type != nil {
			return []TypeExprElem{{Resolved: decl.Type}}
		}
		return nil
	}
	info, ok := c.result.GuessedInstanceVars[o][iv.Name]
	if !ok {
		return nil
	}
	return append([]TypeExprElem(nil), info.TypeVars...)
}

// fabricateGeneric builds the synthetic Array(T)/Hash(K,V) type node
// an `of` clause implies, so that a later instantiation re-resolves
// it in the proper scope.
func fabricateGeneric(name string, args []ast.TypeNode) []TypeExprElem {
	pt := &ast.PathType{Parts: []string{name}, Args: args}
	return []TypeExprElem{{Expr: pt}}
}

func concatTypeVars(c *context, nodes ...ast.Node) []TypeExprElem {
	var out []TypeExprElem
	for _, n := range nodes {
		out = append(out, GuessTypeVars(c, n)...)
	}
	return out
}

func typeVarsLast(c *context, nodes []ast.Node) []TypeExprElem {
	if len(nodes) == 0 {
		return nil
	}
	return GuessTypeVars(c, nodes[len(nodes)-1])
}

func guessCaseTypeVars(c *context, n *ast.Case) []TypeExprElem {
	var out []TypeExprElem
	for _, w := range n.Whens {
		out = append(out, typeVarsLast(c, w.Body)...)
	}
	if n.Else != nil {
		out = append(out, typeVarsLast(c, n.Else)...)
	}
	return out
}
