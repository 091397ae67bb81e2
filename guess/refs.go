package guess

import (
	"github.com/corelang/typeguess/ast"
	"github.com/corelang/typeguess/resolve"
	"github.com/corelang/typeguess/types"
)

// guessVar guesses the type of a bare variable reference: self, a
// restricted or defaulted parameter, or an unrestricted block
// parameter.
func guessVar(c *context, v *ast.Var) types.Type {
	if v.IsSelf() {
		o := c.owner()
		if o == nil || !o.IsConcreteOwner() {
			return nil
		}
		return &types.Named{Owner: o, Virtual: o.Kind == resolve.Class}
	}
	p, ok := c.findParam(v.Name)
	if !ok {
		return nil
	}
	if p.Restriction != nil {
		return lookupLegal(c, p.Restriction, false)
	}
	if p.Default != nil {
		return GuessType(c, p.Default)
	}
	if c.blockArg != nil && c.blockArg.Name == v.Name {
		// An unrestricted block parameter is taken to be a proc
		// producing void.
		return &types.Proc{}
	}
	return nil
}

// guessInstanceVarRef guesses the type of an instance-variable
// reference: explicit declaration wins, else fall back to whatever
// has already been guessed for it (without forcing assignment
// order).
func guessInstanceVarRef(c *context, iv *ast.InstanceVar) types.Type {
	o := c.owner()
	if o == nil {
		return nil
	}
	if decl, ok := c.oracle.ExplicitInstanceVar(o, iv.Name); ok {
		return decl.Type
	}
	info, ok := c.result.GuessedInstanceVars[o][iv.Name]
	if !ok || len(info.TypeVars) == 0 {
		return nil
	}
	first := info.TypeVars[0]
	if first.Resolved == nil {
		return nil
	}
	return first.Resolved
}

// guessPath guesses the type of a bare constant path: if it resolves
// to a type, the guess is that type's metaclass, not the type itself
// (a class referenced this way denotes the class object, not an
// instance of it); otherwise the path is resolved as an ordinary
// value and its own guessing rules apply.
func guessPath(c *context, p *ast.Path) types.Type {
	pt := &ast.PathType{Parts: p.Parts, L: p.L}
	if t, ok := c.oracle.Lookup(c.owner(), pt, false); ok {
		if m, isNamed := t.(*types.Named); isNamed {
			return &types.Metaclass{Owner: m.Owner}
		}
		legal, err := legalize(t, p)
		c.setErr(err)
		return legal
	}
	info, ok := c.oracle.ResolveValue(c.owner(), p)
	if !ok {
		return nil
	}
	if info.EnumMember {
		return info.EnumType
	}
	if c.onConstStack(info.Key) {
		return nil
	}
	pop := c.pushConst(info.Key)
	defer pop()
	return GuessType(c, info.Value)
}
