package guess

import (
	"github.com/corelang/typeguess/loc"
	"github.com/corelang/typeguess/resolve"
)

// loc0 is a placeholder location for tests that don't care about
// exact source positions.
var loc0 = loc.Loc{}

// testOwner is a standalone owner for tests that only need a stable
// map key, not a fully wired StaticTable.
var testOwner = resolve.Owner{Name: "Test", Kind: resolve.Class}
