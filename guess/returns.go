package guess

import "github.com/corelang/typeguess/ast"

// Return is one explicit `return e` found by GatherReturns. Expr is
// nil for a bare `return`, which guesses as Nil.
type Return struct {
	Expr ast.Node
}

// GatherReturns collects every explicit `return e` anywhere in a
// method body, for use when a call's return type is inferred from the
// body of the single candidate method it resolves to. It does not
// descend into nested Def bodies (a method's returns belong to that
// method, not its enclosing one).
func GatherReturns(body []ast.Node) []Return {
	var out []Return
	for _, n := range body {
		gatherReturns(n, &out)
	}
	return out
}

func gatherReturns(node ast.Node, out *[]Return) {
	switch n := node.(type) {
	case nil:
		return
	case *ast.Return:
		*out = append(*out, Return{Expr: n.Expr})
		gatherReturns(n.Expr, out)
	case *ast.Expressions:
		for _, e := range n.Nodes {
			gatherReturns(e, out)
		}
	case *ast.MacroLike:
		for _, e := range n.Exprs {
			gatherReturns(e, out)
		}
	case *ast.If:
		gatherReturns(n.Cond, out)
		gatherReturns(n.Then, out)
		gatherReturns(n.Else, out)
	case *ast.Unless:
		gatherReturns(n.Cond, out)
		gatherReturns(n.Then, out)
		gatherReturns(n.Else, out)
	case *ast.Case:
		gatherReturns(n.Subject, out)
		for _, w := range n.Whens {
			for _, c := range w.Conds {
				gatherReturns(c, out)
			}
			for _, b := range w.Body {
				gatherReturns(b, out)
			}
		}
		for _, e := range n.Else {
			gatherReturns(e, out)
		}
	case *ast.BinaryOp:
		gatherReturns(n.Left, out)
		gatherReturns(n.Right, out)
	case *ast.Assign:
		for _, v := range n.Values {
			gatherReturns(v, out)
		}
	case *ast.TypedAssign:
		gatherReturns(n.Value, out)
	case *ast.Call:
		gatherReturns(n.Receiver, out)
		for _, a := range n.Args {
			gatherReturns(a.Value, out)
		}
		// A block is its own implicit scope but not a def; an
		// explicit return inside it still returns from the
		// enclosing method in this language.
		if n.Block != nil {
			for _, e := range n.Block.Exprs {
				gatherReturns(e, out)
			}
		}
	}
}
