package guess

import (
	"fmt"

	"github.com/corelang/typeguess/ast"
	"github.com/corelang/typeguess/resolve"
	"github.com/corelang/typeguess/types"
)

// ForbiddenInstanceVarError reports that an instance variable was
// assigned under an owner whose kind disallows instance variables.
// Unlike the soft DisallowedVariableType errors recorded into
// Result.Errors, this one aborts the whole traversal immediately, so
// Run reports it as a returned error rather than through a Result
// bucket.
type ForbiddenInstanceVarError struct {
	Owner *resolve.Owner
	Name  string
	Node  ast.Node
}

func (e *ForbiddenInstanceVarError) Error() string {
	return fmt.Sprintf("instance variable @%s not allowed in %s %q", e.Name, ownerKindName(e.Owner.Kind), e.Owner.Name)
}

func ownerKindName(k resolve.OwnerKind) string {
	switch k {
	case resolve.Class:
		return "class"
	case resolve.Module:
		return "module"
	case resolve.Enum:
		return "enum"
	case resolve.Lib:
		return "lib"
	default:
		return "top-level"
	}
}

// Run drives a pre-order traversal of prog, routing every assignment
// to the right bucket of the returned Result. A
// ForbiddenInstanceVarError aborts the traversal immediately and is
// returned as err; every other outcome is folded into the Result.
func Run(prog *ast.Program, oracle resolve.Oracle) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			if fe, ok := r.(*ForbiddenInstanceVarError); ok {
				err = fe
				return
			}
			panic(r)
		}
	}()
	result = newResult()
	c := newContext(result, oracle)
	visitList(c, prog.Body)
	return result, nil
}

// visit is the single recursive dispatch every statement and
// sub-expression goes through: it both drives the top-level
// assignment routing and recurses into composite nodes so that nested
// assignments are never missed, wherever they occur.
func visit(c *context, node ast.Node) {
	switch n := node.(type) {
	case nil:
		return
	case *ast.ClassDef:
		visitOwnerDef(c, n)
	case *ast.ModuleDef:
		visitOwnerDef(c, n)
	case *ast.EnumDef:
		visitOwnerDef(c, n)
	case *ast.LibDef:
		visitOwnerDef(c, n)
	case *ast.Def:
		visitDef(c, n)
	case *ast.Assign:
		visitAssign(c, n)
	case *ast.UninitializedDecl:
		visitUninitializedDecl(c, n)
	case *ast.TypedAssign:
		if n.Value != nil {
			visitAssign(c, &ast.Assign{Targets: []ast.Node{n.Target}, Values: []ast.Node{n.Value}, L: n.L})
		}
	case *ast.MacroLike:
		// Traversed only outside a method body: nested macro-expanded
		// declarations at top level are still in scope; one
		// appearing inside a method is not.
		if c.outsideDef {
			visitList(c, n.Exprs)
		}
	case *ast.Call:
		visitCall(c, n)
	case *ast.Return:
		visit(c, n.Expr)
	case *ast.Var:
		if n.IsSelf() {
			c.foundSelf = true
		}
	case *ast.Expressions:
		visitList(c, n.Nodes)
	case *ast.If:
		visit(c, n.Cond)
		visit(c, n.Then)
		visit(c, n.Else)
	case *ast.Unless:
		visit(c, n.Cond)
		visit(c, n.Then)
		visit(c, n.Else)
	case *ast.Case:
		visit(c, n.Subject)
		for _, w := range n.Whens {
			for _, cond := range w.Conds {
				visit(c, cond)
			}
			visitList(c, w.Body)
		}
		visitList(c, n.Else)
	case *ast.BinaryOp:
		visit(c, n.Left)
		visit(c, n.Right)
	case *ast.Cast:
		visit(c, n.Expr)
	case *ast.NilableCast:
		visit(c, n.Expr)
	case *ast.BoolIntrinsic:
		visit(c, n.Recv)
		visitList(c, n.Args)
	case *ast.RangeLit:
		visit(c, n.From)
		visit(c, n.To)
	case *ast.ArrayLit:
		visitList(c, n.Elements)
	case *ast.HashLit:
		for _, e := range n.Entries {
			visit(c, e.Key)
			visit(c, e.Value)
		}
	case *ast.TupleLit:
		visitList(c, n.Elements)
	case *ast.NamedTupleLit:
		for _, e := range n.Entries {
			visit(c, e.Value)
		}
	case *ast.StringInterp:
		visitList(c, n.Parts)
	default:
		// Literals, type nodes, and other leaves: nothing to
		// recurse into.
	}
}

func visitList(c *context, nodes []ast.Node) {
	prev := c.shadowed
	c.shadowed = shadowedDefs(nodes)
	defer func() { c.shadowed = prev }()
	for _, n := range nodes {
		visit(c, n)
	}
}

// shadowedDefs finds every Def in nodes that is pointed to by some
// other Def's Previous field: a redefinition shadows it, so the
// visitor skips attributing its body a second time.
func shadowedDefs(nodes []ast.Node) map[*ast.Def]bool {
	var shadowed map[*ast.Def]bool
	for _, n := range nodes {
		if d, ok := n.(*ast.Def); ok && d.Previous != nil {
			if shadowed == nil {
				shadowed = map[*ast.Def]bool{}
			}
			shadowed[d.Previous] = true
		}
	}
	return shadowed
}

func visitOwnerDef(c *context, def ast.OwnerDef) {
	owner, ok := c.oracle.OwnerOf(def.OwnerName())
	if !ok {
		return
	}
	c.result.ensureInitializeInfos(owner)
	pop := c.pushOwner(owner)
	defer pop()
	visitList(c, def.Body())
}

func visitDef(c *context, def *ast.Def) {
	if c.shadowed[def] {
		return
	}
	owner := c.owner()
	restore := c.enterMethod(def)
	defer restore()
	if def.IsInitializer() && owner != nil {
		c.currentInit = newInitializeInfo(def)
	}
	visitList(c, def.Exprs)
	if c.currentInit != nil {
		c.result.InitializeInfos[owner] = append(c.result.InitializeInfos[owner], c.currentInit)
	}
}

// visitCall detects the LibX.fn(out @var) idiom, which runs
// unconditionally as a side effect of visiting any call-shaped node,
// and recurses into the receiver, arguments, and block body so nested
// assignments are not missed. Macro re-expansion is not this pass's
// job; the parser has already expanded everything this pass ever
// sees.
func visitCall(c *context, call *ast.Call) {
	visitOutParamAttribution(c, call)
	visit(c, call.Receiver)
	for _, a := range call.Args {
		visit(c, a.Value)
	}
	if call.Block != nil {
		visitList(c, call.Block.Exprs)
	}
}

func visitOutParamAttribution(c *context, call *ast.Call) {
	if call.Receiver == nil {
		return
	}
	fn, ok := c.oracle.ForeignFunc(call.Receiver, call.Name)
	if !ok {
		return
	}
	for i, a := range call.Args {
		if !a.Out || i >= len(fn.Parms) || !fn.Parms[i].Out {
			continue
		}
		iv, ok := a.Value.(*ast.InstanceVar)
		if !ok {
			continue
		}
		attributeInstanceVar(c, iv, fn.Parms[i].Type)
	}
}

// visitAssign dispatches an assignment by target shape, pairing up
// targets and values one at a time when their counts match.
func visitAssign(c *context, a *ast.Assign) {
	if len(a.Targets) == len(a.Values) {
		for i := range a.Targets {
			visitSingleAssign(c, a.Targets[i], a.Values[i])
		}
		return
	}
	visitMultiAssignUnequal(c, a)
}

func visitSingleAssign(c *context, target, value ast.Node) {
	if ContainsSelf(value) {
		c.foundSelf = true
	}
	c.err = nil

	switch t := target.(type) {
	case *ast.Global:
		visitGlobalAssign(c, t, value)
	case *ast.ClassVar:
		visitClassVarAssign(c, t, value)
	case *ast.InstanceVar:
		visitInstanceVarAssign(c, t, value)
	case *ast.Path:
		// Constants have their own typing rules.
	default:
		visit(c, value)
	}

	if owner, name, ok := targetOwnerAndName(c, target); ok && c.err != nil {
		c.result.recordError(owner, name, c.err)
	}
}

func targetOwnerAndName(c *context, target ast.Node) (*resolve.Owner, string, bool) {
	switch t := target.(type) {
	case *ast.Global:
		return nil, t.Name, true
	case *ast.ClassVar:
		return c.classVarOwner(), t.Name, true
	case *ast.InstanceVar:
		return c.owner(), t.Name, true
	default:
		return nil, "", false
	}
}

func visitGlobalAssign(c *context, g *ast.Global, value ast.Node) {
	if _, ok := c.oracle.GlobalType(g.Name); ok {
		return
	}
	t := GuessType(c, value)
	if t != nil {
		addTypeInfo(c.result.Globals, g.Name, t, g.L, c.outsideDef)
	}
}

func visitClassVarAssign(c *context, cv *ast.ClassVar, value ast.Node) {
	owner := c.classVarOwner()
	if owner == nil {
		return
	}
	if _, ok := c.oracle.ClassVarType(owner, cv.Name); ok {
		return
	}
	t := GuessType(c, value)
	if t != nil {
		addTypeInfo(c.result.classVarBucket(owner), cv.Name, t, cv.L, c.outsideDef)
	}
}

func visitInstanceVarAssign(c *context, iv *ast.InstanceVar, value ast.Node) {
	owner := c.owner()
	if owner == nil {
		// Top-level program/file module: instance variables are
		// illegal there and silently ignored.
		return
	}
	if (owner.IsConcreteOwner() || owner.IsGenericOwner()) && c.outsideDef {
		c.result.outsideSet(owner).add(iv.Name)
	}
	switch {
	case owner.IsConcreteOwner():
		if _, ok := c.oracle.ExplicitInstanceVar(owner, iv.Name); ok {
			visit(c, value)
		} else if t := GuessType(c, value); t != nil {
			addInstanceVarTypeInfo(c.result.instanceVarBucket(owner), iv.Name, TypeExprElem{Resolved: t}, iv.L, c.outsideDef)
		}
	case owner.IsGenericOwner():
		if _, ok := c.oracle.ExplicitInstanceVar(owner, iv.Name); ok {
			visit(c, value)
		} else {
			for _, elem := range GuessTypeVars(c, value) {
				addInstanceVarTypeInfo(c.result.instanceVarBucket(owner), iv.Name, elem, iv.L, c.outsideDef)
			}
		}
	default:
		// A Lib block's own body: nothing to guess; the
		// ForbidsInstanceVars check below fires for it.
	}
	if owner.ForbidsInstanceVars() {
		panic(&ForbiddenInstanceVarError{Owner: owner, Name: iv.Name, Node: iv})
	}
	if c.currentInit != nil && !c.foundSelf {
		c.currentInit.add(iv.Name)
	}
}

// attributeInstanceVar is the common "record a resolved type for
// this instance variable, marking outside-def sighting" step shared
// by a tuple-destructuring element, a concrete-owner uninitialized
// declaration, and an out-parameter attribution.
func attributeInstanceVar(c *context, iv *ast.InstanceVar, t types.Type) {
	owner := c.owner()
	if owner == nil {
		return
	}
	if c.outsideDef {
		c.result.outsideSet(owner).add(iv.Name)
	}
	if t != nil {
		addInstanceVarTypeInfo(c.result.instanceVarBucket(owner), iv.Name, TypeExprElem{Resolved: t}, iv.L, c.outsideDef)
	}
	if owner.ForbidsInstanceVars() {
		panic(&ForbiddenInstanceVarError{Owner: owner, Name: iv.Name, Node: iv})
	}
	if c.currentInit != nil && !c.foundSelf {
		c.currentInit.add(iv.Name)
	}
}

func attributeInstanceVarExpr(c *context, iv *ast.InstanceVar, elem TypeExprElem) {
	owner := c.owner()
	if owner == nil {
		return
	}
	addInstanceVarTypeInfo(c.result.instanceVarBucket(owner), iv.Name, elem, iv.L, c.outsideDef)
}

func visitUninitializedDecl(c *context, u *ast.UninitializedDecl) {
	iv, ok := u.Target.(*ast.InstanceVar)
	if !ok {
		return
	}
	owner := c.owner()
	if owner == nil {
		return
	}
	c.err = nil
	if (owner.IsConcreteOwner() || owner.IsGenericOwner()) && c.outsideDef {
		c.result.outsideSet(owner).add(iv.Name)
	}
	if owner.ForbidsInstanceVars() {
		panic(&ForbiddenInstanceVarError{Owner: owner, Name: iv.Name, Node: u})
	}
	if _, ok := c.oracle.ExplicitInstanceVar(owner, iv.Name); ok {
		if c.currentInit != nil && !c.foundSelf {
			c.currentInit.add(iv.Name)
		}
		return
	}
	switch {
	case owner.IsConcreteOwner():
		t := lookupLegal(c, u.Type, false)
		attributeInstanceVar(c, iv, t)
	case owner.IsGenericOwner():
		lookupLegal(c, u.Type, false)
		attributeInstanceVarExpr(c, iv, TypeExprElem{Expr: u.Type})
		if owner.ForbidsInstanceVars() {
			panic(&ForbiddenInstanceVarError{Owner: owner, Name: iv.Name, Node: u})
		}
		if c.currentInit != nil && !c.foundSelf {
			c.currentInit.add(iv.Name)
		}
	}
	if c.err != nil {
		c.result.recordError(owner, iv.Name, c.err)
	}
}

// visitMultiAssignUnequal handles a multi-assign whose target and
// value counts differ: self-escape scanning and initialize-info
// marking still happen for every target; a single tuple-typed source
// is distributed element-wise, and anything else simply recurses so
// nested assignments are not missed.
func visitMultiAssignUnequal(c *context, a *ast.Assign) {
	for _, v := range a.Values {
		if ContainsSelf(v) {
			c.foundSelf = true
		}
	}
	for _, t := range a.Targets {
		if iv, ok := t.(*ast.InstanceVar); ok && c.currentInit != nil && !c.foundSelf {
			c.currentInit.add(iv.Name)
		}
	}
	if len(a.Values) == 1 {
		if tup, ok := GuessType(c, a.Values[0]).(*types.Tuple); ok && len(tup.Elems) >= len(a.Targets) {
			for i, target := range a.Targets {
				distributeTupleElement(c, target, tup.Elems[i])
			}
			return
		}
		visit(c, a.Values[0])
		return
	}
	for _, v := range a.Values {
		visit(c, v)
	}
}

func distributeTupleElement(c *context, target ast.Node, elemType types.Type) {
	switch t := target.(type) {
	case *ast.Global:
		if _, ok := c.oracle.GlobalType(t.Name); ok {
			return
		}
		if elemType != nil {
			addTypeInfo(c.result.Globals, t.Name, elemType, t.L, c.outsideDef)
		}
	case *ast.ClassVar:
		owner := c.classVarOwner()
		if owner == nil {
			return
		}
		if _, ok := c.oracle.ClassVarType(owner, t.Name); ok {
			return
		}
		if elemType != nil {
			addTypeInfo(c.result.classVarBucket(owner), t.Name, elemType, t.L, c.outsideDef)
		}
	case *ast.InstanceVar:
		owner := c.owner()
		if owner == nil {
			return
		}
		if _, ok := c.oracle.ExplicitInstanceVar(owner, t.Name); ok {
			return
		}
		attributeInstanceVar(c, t, elemType)
	}
}
