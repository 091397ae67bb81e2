package guess

import (
	"github.com/corelang/typeguess/ast"
	"github.com/corelang/typeguess/resolve"
	"github.com/corelang/typeguess/types"
)

// legalize checks whether a resolved type is one the language allows
// as a variable's annotation. It is run after every resolution of a
// name to a type: it rejects abstract roots and uninstantiated
// generics (recording an *Error for the caller to file), virtualizes
// concrete class types, and passes everything else through unchanged.
//
// legalize never itself writes to Result.Errors: the caller holds a
// one-shot error slot that is drained at the end of the assignment
// step, so legalize only returns the Error and lets the assignment
// rule (attribute.go) decide whether and where to record it.
func legalize(t types.Type, node ast.Node) (types.Type, *Error) {
	if t == nil {
		return nil, nil
	}
	if types.IsAbstractRoot(t) {
		return nil, &Error{Node: node, Offending: t}
	}
	if types.IsUninstantiatedGeneric(t) {
		return nil, &Error{Node: node, Offending: t}
	}
	if n, ok := t.(*types.Named); ok && !n.Owner.OwnerGeneric() {
		if o, ok := n.Owner.(*resolve.Owner); ok && o.Kind == resolve.Class && !n.Virtual {
			virtual := *n
			virtual.Virtual = true
			return &virtual, nil
		}
	}
	return t, nil
}

// lookupLegal resolves node through the oracle and immediately runs
// it through legalize, the composition every type lookup in this
// package needs after resolving a name to a type. A legality failure
// is recorded on c's one-shot error slot and none is returned.
func lookupLegal(c *context, node ast.TypeNode, allowTypeof bool) types.Type {
	t, ok := c.oracle.Lookup(c.owner(), node, allowTypeof)
	if !ok {
		return nil
	}
	legal, err := legalize(t, node)
	c.setErr(err)
	return legal
}
