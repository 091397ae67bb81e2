package guess

import "github.com/corelang/typeguess/ast"

// ContainsSelf walks node and reports whether `self` is mentioned in a
// way that would escape the enclosing initializer. `self.class` is
// special-cased to not count, since it yields the metaclass without
// exposing the instance.
func ContainsSelf(node ast.Node) bool {
	return selfWalk(node)
}

func selfWalk(node ast.Node) bool {
	switch n := node.(type) {
	case nil:
		return false
	case *ast.Var:
		return n.IsSelf()
	case *ast.Call:
		if isSelfDotClass(n) {
			return false
		}
		if selfWalk(n.Receiver) {
			return true
		}
		for _, a := range n.Args {
			if selfWalk(a.Value) {
				return true
			}
		}
		if n.Block != nil {
			for _, e := range n.Block.Exprs {
				if selfWalk(e) {
					return true
				}
			}
		}
		return false
	case *ast.Assign:
		for _, t := range n.Targets {
			if selfWalk(t) {
				return true
			}
		}
		for _, v := range n.Values {
			if selfWalk(v) {
				return true
			}
		}
		return false
	case *ast.TypedAssign:
		return selfWalk(n.Target) || selfWalk(n.Value)
	case *ast.Return:
		return selfWalk(n.Expr)
	case *ast.UninitializedDecl:
		return selfWalk(n.Target)
	case *ast.Expressions:
		return anyWalk(n.Nodes)
	case *ast.MacroLike:
		return anyWalk(n.Exprs)
	case *ast.BinaryOp:
		return selfWalk(n.Left) || selfWalk(n.Right)
	case *ast.If:
		return selfWalk(n.Cond) || selfWalk(n.Then) || selfWalk(n.Else)
	case *ast.Unless:
		return selfWalk(n.Cond) || selfWalk(n.Then) || selfWalk(n.Else)
	case *ast.Case:
		if selfWalk(n.Subject) {
			return true
		}
		for _, w := range n.Whens {
			if anyWalk(w.Conds) || anyWalk(w.Body) {
				return true
			}
		}
		return anyWalk(n.Else)
	case *ast.RangeLit:
		return selfWalk(n.From) || selfWalk(n.To)
	case *ast.ArrayLit:
		return selfWalk(n.Ctor) || anyWalk(n.Elements)
	case *ast.HashLit:
		for _, e := range n.Entries {
			if selfWalk(e.Key) || selfWalk(e.Value) {
				return true
			}
		}
		return false
	case *ast.TupleLit:
		return anyWalk(n.Elements)
	case *ast.NamedTupleLit:
		for _, e := range n.Entries {
			if selfWalk(e.Value) {
				return true
			}
		}
		return false
	case *ast.StringInterp:
		return anyWalk(n.Parts)
	case *ast.BoolIntrinsic:
		return selfWalk(n.Recv) || anyWalk(n.Args)
	case *ast.Cast:
		return selfWalk(n.Expr)
	case *ast.NilableCast:
		return selfWalk(n.Expr)
	default:
		return false
	}
}

func anyWalk(nodes []ast.Node) bool {
	for _, n := range nodes {
		if selfWalk(n) {
			return true
		}
	}
	return false
}

func isSelfDotClass(c *ast.Call) bool {
	if c.Name != "class" {
		return false
	}
	v, ok := c.Receiver.(*ast.Var)
	return ok && v.IsSelf()
}
