package guess

import (
	"github.com/corelang/typeguess/ast"
	"github.com/corelang/typeguess/resolve"
)

// context is the single mutable structure the whole pass shares: a
// context structure owned by the pass, with push/pop saves through
// scoped acquisition at each scope boundary, rather than a scatter of
// loose fields threaded through every function.
type context struct {
	result *Result
	oracle resolve.Oracle

	// ownerStack holds the lexically enclosing class/module/enum/lib
	// owners, innermost last. An empty stack means the top-level
	// program scope.
	ownerStack []*resolve.Owner

	// outsideDef is true while not inside a method body.
	outsideDef bool

	// foundSelf is reset at each method entry and set the first
	// time a `self`-escaping expression is evaluated in that body.
	foundSelf bool

	// args/blockArg describe the current method's formal
	// parameters, consulted by GuessType's variable-reference rule.
	args     []ast.Param
	blockArg *ast.Param

	// currentInit is the InitializeInfo being built for the
	// initializer body currently being traversed, nil otherwise.
	currentInit *InitializeInfo

	// methodStack/constStack are the two cycle-breaking stacks that
	// guard against guessing a method's or a constant's own value
	// recursively depending on itself; every push is paired with a
	// pop on every return path.
	methodStack []*ast.Def
	constStack  []string

	// err is the one-shot error channel for the assignment currently
	// being guessed: the callers of legalize populate it through
	// setErr; the
	// assignment rule clears it at the start of every assignment and
	// drains it at the end.
	err *Error

	// shadowed holds the Def nodes of a statement list that are
	// superseded by a later redefinition in the same list (their
	// Previous chain is reachable from some other Def in that same
	// list); the attribution visitor skips them rather than
	// attributing their bodies a second time.
	shadowed map[*ast.Def]bool
}

// setErr records e as this assignment's captured error, if none has
// been captured yet: the node at which a forbidden type surfaced is
// the first one found while guessing this assignment's value.
func (c *context) setErr(e *Error) {
	if e == nil || c.err != nil {
		return
	}
	c.err = e
}

func newContext(result *Result, oracle resolve.Oracle) *context {
	return &context{result: result, oracle: oracle, outsideDef: true}
}

// owner returns the current lexically enclosing owner, or nil at
// top-level program scope.
func (c *context) owner() *resolve.Owner {
	if len(c.ownerStack) == 0 {
		return nil
	}
	return c.ownerStack[len(c.ownerStack)-1]
}

// pushOwner enters a class/module/enum/lib body; the returned func
// restores the prior owner.
func (c *context) pushOwner(o *resolve.Owner) func() {
	c.ownerStack = append(c.ownerStack, o)
	return func() { c.ownerStack = c.ownerStack[:len(c.ownerStack)-1] }
}

// classVarOwner climbs the owner stack to the first class or module
// frame, skipping enum/lib frames. It returns nil if no such frame
// exists (a class variable mentioned outside any class/module, which
// this language does not allow but which the pass must not crash on).
func (c *context) classVarOwner() *resolve.Owner {
	for i := len(c.ownerStack) - 1; i >= 0; i-- {
		o := c.ownerStack[i]
		if o.Kind == resolve.Class || o.Kind == resolve.Module {
			return o
		}
	}
	return nil
}

// methodState is the subset of context saved/restored across a Def
// boundary.
type methodState struct {
	outsideDef  bool
	foundSelf   bool
	args        []ast.Param
	blockArg    *ast.Param
	currentInit *InitializeInfo
}

func (c *context) saveMethodState() methodState {
	return methodState{
		outsideDef:  c.outsideDef,
		foundSelf:   c.foundSelf,
		args:        c.args,
		blockArg:    c.blockArg,
		currentInit: c.currentInit,
	}
}

func (c *context) restoreMethodState(s methodState) {
	c.outsideDef = s.outsideDef
	c.foundSelf = s.foundSelf
	c.args = s.args
	c.blockArg = s.blockArg
	c.currentInit = s.currentInit
}

// enterMethod sets up context for traversing a Def's body; the
// returned func restores the enclosing state.
func (c *context) enterMethod(def *ast.Def) func() {
	saved := c.saveMethodState()
	c.outsideDef = false
	c.foundSelf = false
	c.args = def.Args
	c.blockArg = def.BlockArg
	c.currentInit = nil
	return func() { c.restoreMethodState(saved) }
}

func (c *context) onMethodStack(def *ast.Def) bool {
	for _, d := range c.methodStack {
		if d == def {
			return true
		}
	}
	return false
}

func (c *context) pushMethod(def *ast.Def) func() {
	c.methodStack = append(c.methodStack, def)
	return func() { c.methodStack = c.methodStack[:len(c.methodStack)-1] }
}

func (c *context) onConstStack(key string) bool {
	for _, k := range c.constStack {
		if k == key {
			return true
		}
	}
	return false
}

func (c *context) pushConst(key string) func() {
	c.constStack = append(c.constStack, key)
	return func() { c.constStack = c.constStack[:len(c.constStack)-1] }
}

// findParam returns the formal parameter named name, among the
// current method's args and block arg.
func (c *context) findParam(name string) (*ast.Param, bool) {
	for i := range c.args {
		if c.args[i].Name == name {
			return &c.args[i], true
		}
	}
	if c.blockArg != nil && c.blockArg.Name == name {
		return c.blockArg, true
	}
	return nil, false
}
