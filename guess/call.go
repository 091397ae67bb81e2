package guess

import (
	"github.com/corelang/typeguess/ast"
	"github.com/corelang/typeguess/resolve"
	"github.com/corelang/typeguess/types"
)

// guessCall guesses the type of a call expression from a
// priority-ordered list of shapes: the first of which that matches
// decides the guess.
func guessCall(c *context, call *ast.Call) types.Type {
	switch {
	case call.Name == "new" && call.Receiver != nil:
		return guessNewOnReceiver(c, call)
	case call.Receiver == nil && call.Name == "new":
		return guessUnqualifiedNew(c, call)
	case isPointerMallocOrNull(call):
		return guessPointerMallocNull(c, call)
	case isPointerMallocTwoArg(call):
		return guessPointerMallocTwoArg(c, call)
	}

	if call.Receiver != nil {
		if fn, ok := c.oracle.ForeignFunc(call.Receiver, call.Name); ok {
			return fn.Ret
		}
		if v, ok := c.oracle.ForeignVar(call.Receiver, call.Name); ok {
			return v.Type
		}
	}

	if call.Receiver != nil {
		if t := resolveReceiverType(c, call.Receiver); t != nil {
			if owner, ok := namedOwner(t); ok {
				return guessFromMethodAnnotation(c, owner, call)
			}
		}
	}

	return nil
}

// guessNewOnReceiver is rule 1: `T.new` / `T(X).new`. If T itself
// fails to resolve there is no guess at all; otherwise the
// constructor's declared return-type annotation is tried first (for
// factory-style initialize overrides), falling back to T itself.
func guessNewOnReceiver(c *context, call *ast.Call) types.Type {
	recv := resolveReceiverType(c, call.Receiver)
	if recv == nil {
		return nil
	}
	if owner, ok := namedOwner(recv); ok {
		if ann := guessFromMethodAnnotation(c, owner, call); ann != nil {
			return ann
		}
	}
	return recv
}

// guessUnqualifiedNew is rule 2: a bare `new(...)` call inside a
// concrete (non-generic) class/module/enum owner.
func guessUnqualifiedNew(c *context, call *ast.Call) types.Type {
	o := c.owner()
	if o == nil || !o.IsConcreteOwner() {
		return nil
	}
	if ann := guessFromMethodAnnotation(c, o, call); ann != nil {
		return ann
	}
	return &types.Named{Owner: o, Virtual: o.Kind == resolve.Class}
}

// isPointerMallocOrNull matches rule 3: `Pointer(T).malloc` or
// `Pointer(T).null`, both taking no arguments.
func isPointerMallocOrNull(call *ast.Call) bool {
	if call.Receiver == nil || len(call.Args) != 0 {
		return false
	}
	if call.Name != "malloc" && call.Name != "null" {
		return false
	}
	pt, ok := exprReceiverToTypeNode(call.Receiver).(*ast.PathType)
	return ok && len(pt.Parts) > 0 && pt.Parts[len(pt.Parts)-1] == "Pointer"
}

func guessPointerMallocNull(c *context, call *ast.Call) types.Type {
	tn := exprReceiverToTypeNode(call.Receiver)
	if tn == nil {
		return nil
	}
	t := lookupLegal(c, tn, false)
	if _, ok := t.(*types.Pointer); ok {
		return t
	}
	return nil
}

// isPointerMallocTwoArg matches rule 4: `Pointer.malloc(n, v)`, the
// two-argument form that derives the pointee type from the value
// argument rather than from an explicit generic instantiation.
func isPointerMallocTwoArg(call *ast.Call) bool {
	if call.Name != "malloc" || len(call.Args) != 2 {
		return false
	}
	p, ok := call.Receiver.(*ast.Path)
	if !ok || len(p.Parts) == 0 {
		return false
	}
	return p.Parts[len(p.Parts)-1] == "Pointer"
}

func guessPointerMallocTwoArg(c *context, call *ast.Call) types.Type {
	elem := GuessType(c, call.Args[1].Value)
	if elem == nil {
		return nil
	}
	return &types.Pointer{Elem: elem}
}

// resolveReceiverType resolves an expression-position receiver that
// denotes a type (a bare constant path or an explicit generic
// instantiation `T(X)`) to its Type, running it through the same
// legality gate as any other type resolution.
func resolveReceiverType(c *context, recv ast.Node) types.Type {
	tn := exprReceiverToTypeNode(recv)
	if tn == nil {
		return nil
	}
	return lookupLegal(c, tn, false)
}

func exprReceiverToTypeNode(node ast.Node) ast.TypeNode {
	switch n := node.(type) {
	case *ast.Path:
		return &ast.PathType{Parts: n.Parts, L: n.L}
	case *ast.GenericInst:
		return &ast.PathType{Parts: n.Base.Parts, Args: n.Args, L: n.L}
	default:
		return nil
	}
}

func namedOwner(t types.Type) (*resolve.Owner, bool) {
	n, ok := t.(*types.Named)
	if !ok {
		return nil, false
	}
	o, ok := n.Owner.(*resolve.Owner)
	return o, ok
}

// guessFromMethodAnnotation gathers every candidate definition
// matching the call's shape, prefers an agreed declared return type,
// and falls back to inferring the body of a single remaining
// candidate.
func guessFromMethodAnnotation(c *context, owner *resolve.Owner, call *ast.Call) types.Type {
	hasBlock := call.Block != nil
	cands := c.oracle.Methods(owner, call.Name, hasBlock, len(call.Args))
	if len(cands) == 0 {
		return nil
	}
	if call.Name == "new" && len(call.Args) == 0 && call.Block == nil && len(cands) > 1 {
		// An inherited, argument-less `new` shadows every other
		// candidate: keep only the first.
		cands = cands[:1]
	}
	if t, ok := agreedRet(cands); ok {
		return t
	}
	if len(cands) == 1 {
		return guessMethodBody(c, cands[0])
	}
	return nil
}

// agreedRet reports the common declared return type, if every
// candidate declares one and they all agree.
func agreedRet(cands []*resolve.MethodSig) (types.Type, bool) {
	first := cands[0].Ret
	if first == nil {
		return nil, false
	}
	for _, m := range cands[1:] {
		if m.Ret == nil || !types.Equal(m.Ret, first) {
			return nil, false
		}
	}
	return first, true
}

// guessMethodBody infers a candidate method's return type from its
// body: every gathered return plus the implicit trailing-expression
// return, merged. The method-stack cycle breaker guards against a
// method whose own body guess recursively depends on itself.
func guessMethodBody(c *context, sig *resolve.MethodSig) types.Type {
	def := sig.Def
	if def == nil || c.onMethodStack(def) {
		return nil
	}
	popMethod := c.pushMethod(def)
	defer popMethod()

	popOwner := c.pushOwner(sig.Owner)
	defer popOwner()

	savedArgs, savedBlockArg := c.args, c.blockArg
	c.args, c.blockArg = def.Args, def.BlockArg
	defer func() { c.args, c.blockArg = savedArgs, savedBlockArg }()

	rets := GatherReturns(def.Exprs)
	ts := make([]types.Type, 0, len(rets)+1)
	for _, r := range rets {
		if r.Expr == nil {
			ts = append(ts, &types.Primitive{Kind: types.Nil})
			continue
		}
		ts = append(ts, GuessType(c, r.Expr))
	}
	ts = append(ts, guessLast(c, def.Exprs))
	return types.Merge(ts...)
}
