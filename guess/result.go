// Package guess implements the variable-type guessing pass: given a
// program's AST and a resolve.Oracle, it decides a candidate type (or
// type-expression list, for generic owners) for every global, class
// variable, and instance variable, without running full semantic
// analysis.
package guess

import (
	"github.com/corelang/typeguess/ast"
	"github.com/corelang/typeguess/loc"
	"github.com/corelang/typeguess/resolve"
	"github.com/corelang/typeguess/types"
)

// TypeInfo is the guessed state of one global or class variable.
type TypeInfo struct {
	Type       types.Type
	FirstLoc   loc.Loc
	OutsideDef bool
}

// InstanceVarTypeInfo is the guessed state of one instance variable.
// TypeVars accumulates every contributing guess, in first-sighting
// order; for a concrete owner every element is a resolved types.Type,
// for a generic owner an element may instead be an unresolved
// ast.TypeNode (see TypeExprElem).
type InstanceVarTypeInfo struct {
	FirstLoc   loc.Loc
	TypeVars   []TypeExprElem
	OutsideDef bool
}

// TypeExprElem is one element of an InstanceVarTypeInfo.TypeVars list:
// either a resolved type or an unresolved syntactic type expression.
// Exactly one of Resolved/Expr is non-nil.
type TypeExprElem struct {
	Resolved types.Type
	Expr     ast.TypeNode
}

// String renders whichever of Resolved/Expr is present, for
// diagnostics and tests.
func (e TypeExprElem) String() string {
	if e.Resolved != nil {
		return e.Resolved.String()
	}
	if e.Expr != nil {
		return "<type-expr>"
	}
	return "<none>"
}

// InitializeInfo records which instance variables one `initialize`-
// shaped definition definitely assigns before any `self` escape.
type InitializeInfo struct {
	Def          *ast.Def
	InstanceVars []string
	seen         map[string]bool
}

func newInitializeInfo(def *ast.Def) *InitializeInfo {
	return &InitializeInfo{Def: def, seen: map[string]bool{}}
}

func (ii *InitializeInfo) add(name string) {
	if ii.seen[name] {
		return
	}
	ii.seen[name] = true
	ii.InstanceVars = append(ii.InstanceVars, name)
}

// Error is a soft diagnostic recorded when a variable's guessed type
// turns out to be one the language forbids as a variable annotation
// (an abstract root, or a generic class/module named without type
// arguments). Node is where the offending type surfaced.
type Error struct {
	Node      ast.Node
	Offending types.Type
}

// Result holds every bucket the pass produces. Each bucket has its
// own accumulation rule: Globals/ClassVars accumulate by merge,
// GuessedInstanceVars accumulates by append, and Errors keeps only the
// first error per (owner, name).
type Result struct {
	Globals map[string]*TypeInfo

	// ClassVars is keyed by the owner on whose metaclass the
	// variable lives.
	ClassVars map[*resolve.Owner]map[string]*TypeInfo

	GuessedInstanceVars map[*resolve.Owner]map[string]*InstanceVarTypeInfo

	// InstanceVarsOutside preserves first-sighting order, so a
	// downstream diagnostic can report variables in the order a
	// reader would encounter them.
	InstanceVarsOutside map[*resolve.Owner]*orderedSet

	InitializeInfos map[*resolve.Owner][]*InitializeInfo

	Errors map[*resolve.Owner]map[string]*Error
}

func newResult() *Result {
	return &Result{
		Globals:             map[string]*TypeInfo{},
		ClassVars:           map[*resolve.Owner]map[string]*TypeInfo{},
		GuessedInstanceVars: map[*resolve.Owner]map[string]*InstanceVarTypeInfo{},
		InstanceVarsOutside: map[*resolve.Owner]*orderedSet{},
		InitializeInfos:     map[*resolve.Owner][]*InitializeInfo{},
		Errors:              map[*resolve.Owner]map[string]*Error{},
	}
}

// orderedSet is an insertion-ordered set of names.
type orderedSet struct {
	names []string
	seen  map[string]bool
}

func newOrderedSet() *orderedSet { return &orderedSet{seen: map[string]bool{}} }

func (s *orderedSet) add(name string) {
	if s.seen[name] {
		return
	}
	s.seen[name] = true
	s.names = append(s.names, name)
}

// Names returns the set's members in first-sighting order.
func (s *orderedSet) Names() []string { return s.names }

// addTypeInfo records a freshly guessed type for name: if this is the
// first guess for name, it is stored with its location; otherwise the
// stored type is widened by merging in the new guess. outsideDef is
// sticky-true once any contributing site sets it.
func addTypeInfo(bucket map[string]*TypeInfo, name string, t types.Type, l loc.Loc, outsideDef bool) {
	if existing, ok := bucket[name]; ok {
		existing.Type = types.Merge(existing.Type, t)
		existing.OutsideDef = existing.OutsideDef || outsideDef
		return
	}
	bucket[name] = &TypeInfo{Type: t, FirstLoc: l, OutsideDef: outsideDef}
}

// addInstanceVarTypeInfo records one more contributing type-expression
// element for an instance variable: if absent, it creates the entry
// with the first location; either way the element is appended to the
// running list.
func addInstanceVarTypeInfo(bucket map[string]*InstanceVarTypeInfo, name string, elem TypeExprElem, l loc.Loc, outsideDef bool) {
	existing, ok := bucket[name]
	if !ok {
		existing = &InstanceVarTypeInfo{FirstLoc: l}
		bucket[name] = existing
	}
	existing.TypeVars = append(existing.TypeVars, elem)
	existing.OutsideDef = existing.OutsideDef || outsideDef
}

// recordError files err against (owner, name), but only if no error
// has been filed there yet: the first offending site wins.
func (r *Result) recordError(owner *resolve.Owner, name string, err *Error) {
	m := r.Errors[owner]
	if m == nil {
		m = map[string]*Error{}
		r.Errors[owner] = m
	}
	if _, ok := m[name]; ok {
		return
	}
	m[name] = err
}

func (r *Result) classVarBucket(owner *resolve.Owner) map[string]*TypeInfo {
	m := r.ClassVars[owner]
	if m == nil {
		m = map[string]*TypeInfo{}
		r.ClassVars[owner] = m
	}
	return m
}

func (r *Result) instanceVarBucket(owner *resolve.Owner) map[string]*InstanceVarTypeInfo {
	m := r.GuessedInstanceVars[owner]
	if m == nil {
		m = map[string]*InstanceVarTypeInfo{}
		r.GuessedInstanceVars[owner] = m
	}
	return m
}

func (r *Result) outsideSet(owner *resolve.Owner) *orderedSet {
	s := r.InstanceVarsOutside[owner]
	if s == nil {
		s = newOrderedSet()
		r.InstanceVarsOutside[owner] = s
	}
	return s
}

func (r *Result) ensureInitializeInfos(owner *resolve.Owner) {
	if _, ok := r.InitializeInfos[owner]; !ok {
		r.InitializeInfos[owner] = nil
	}
}
