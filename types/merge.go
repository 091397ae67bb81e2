package types

// Equal reports structural equality of two types. It is the building
// block Merge uses to decide whether two guesses at the same site (or
// across sites) are actually the same type, the way
// github.com/eaburns/pea/checker/eq.go decides identity for its typed
// tree before admitting a conversion.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *Primitive:
		b, ok := b.(*Primitive)
		return ok && a.Kind == b.Kind
	case *Range:
		b, ok := b.(*Range)
		return ok && Equal(a.From, b.From) && Equal(a.To, b.To)
	case *Array:
		b, ok := b.(*Array)
		return ok && Equal(a.Elem, b.Elem)
	case *Hash:
		b, ok := b.(*Hash)
		return ok && Equal(a.Key, b.Key) && Equal(a.Value, b.Value)
	case *Tuple:
		b, ok := b.(*Tuple)
		if !ok || len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !Equal(a.Elems[i], b.Elems[i]) {
				return false
			}
		}
		return true
	case *NamedTuple:
		b, ok := b.(*NamedTuple)
		if !ok || len(a.Entries) != len(b.Entries) {
			return false
		}
		for i := range a.Entries {
			if a.Entries[i].Name != b.Entries[i].Name || !Equal(a.Entries[i].Type, b.Entries[i].Type) {
				return false
			}
		}
		return true
	case *Nilable:
		b, ok := b.(*Nilable)
		return ok && Equal(a.Elem, b.Elem)
	case *Proc:
		b, ok := b.(*Proc)
		if !ok || len(a.Parms) != len(b.Parms) || !Equal(a.Ret, b.Ret) {
			return false
		}
		for i := range a.Parms {
			if !Equal(a.Parms[i], b.Parms[i]) {
				return false
			}
		}
		return true
	case *Pointer:
		b, ok := b.(*Pointer)
		return ok && Equal(a.Elem, b.Elem)
	case *Named:
		b, ok := b.(*Named)
		if !ok || a.Owner.OwnerID() != b.Owner.OwnerID() || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case *Metaclass:
		b, ok := b.(*Metaclass)
		return ok && a.Owner.OwnerID() == b.Owner.OwnerID()
	case *AbstractRoot:
		b, ok := b.(*AbstractRoot)
		return ok && a.Name == b.Name
	case *Union:
		b, ok := b.(*Union)
		if !ok || len(a.Members) != len(b.Members) {
			return false
		}
		for _, m := range a.Members {
			if !containsType(b.Members, m) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func containsType(members []Type, t Type) bool {
	for _, m := range members {
		if Equal(m, t) {
			return true
		}
	}
	return false
}

// Merge is the language's canonical union/widening operator producing
// the smallest type containing all inputs. Nil entries (no guess at
// that site) are dropped; merging zero non-nil types yields nil.
//
// Full unification, narrowing, and cross-assignment normalization is
// downstream work the pass deliberately leaves alone; Merge here only
// implements the one widening rule needed to combine two
// already-guessed types into one when a variable is assigned more
// than once.
func Merge(ts ...Type) Type {
	var members []Type
	for _, t := range ts {
		if t == nil {
			continue
		}
		if u, ok := t.(*Union); ok {
			for _, m := range u.Members {
				members = appendUnique(members, m)
			}
			continue
		}
		members = appendUnique(members, t)
	}
	switch len(members) {
	case 0:
		return nil
	case 1:
		return members[0]
	}
	if _, rest, ok := collapseNilable(members); ok {
		return &Nilable{Elem: Merge(rest...)}
	}
	return &Union{Members: members}
}

func appendUnique(members []Type, t Type) []Type {
	if containsType(members, t) {
		return members
	}
	return append(members, t)
}

// collapseNilable recognizes the common {Nil} + {T...} shape and
// reports the remaining non-nil members, so a merge like
// merge!(String, Nil) renders as "String?" rather than "Nil | String".
func collapseNilable(members []Type) (nilable bool, rest []Type, ok bool) {
	var hasNil bool
	for _, m := range members {
		if p, isPrim := m.(*Primitive); isPrim && p.Kind == Nil {
			hasNil = true
			continue
		}
		rest = append(rest, m)
	}
	if !hasNil || len(rest) == 0 {
		return false, nil, false
	}
	return true, rest, true
}
