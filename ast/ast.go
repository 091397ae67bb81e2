// Package ast defines the syntax tree this module's guessing pass
// walks. It is intentionally thin: no types are resolved here, no
// scopes are tracked here. Node shapes mirror what a parser for a
// class-based, generic, type-inferred language would hand downstream,
// the same way github.com/eaburns/pea's parser package hands a raw
// tree to its checker.
package ast

import "github.com/corelang/typeguess/loc"

// Node is any syntax tree node that carries a source location.
type Node interface {
	Loc() loc.Loc
}

// TypeNode is the syntax of a type annotation or restriction, as
// written by the programmer. It is resolved into a types.Type by the
// name-resolution oracle; guess_type_vars instead returns the
// TypeNode itself, unresolved, when the owner is generic.
type TypeNode interface {
	Node
	typeNode()
}

// Program is the top-level scope. Instance variables may not be
// assigned here; it is the implicit top-level program/file module
// owner.
type Program struct {
	Body []Node
	L    loc.Loc
}

func (p *Program) Loc() loc.Loc { return p.L }

// Expressions is a sequence whose value, when guessed, is the value
// of its last element (or none, if the sequence is empty).
type Expressions struct {
	Nodes []Node
	L     loc.Loc
}

func (e *Expressions) Loc() loc.Loc { return e.L }

// Nop is a no-value statement, e.g. an explicit no-op intrinsic.
type Nop struct{ L loc.Loc }

func (n *Nop) Loc() loc.Loc { return n.L }
