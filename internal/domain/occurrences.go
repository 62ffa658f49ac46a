package domain

import (
	"github.com/mouse-blink/pyintroduce/internal/domain/pylang"
	"github.com/mouse-blink/pyintroduce/internal/domain/syntax"
)

// FindOccurrences returns, in document order, every expression in scope that
// is structurally equivalent to expr and sits in a read position. Nested
// functions, classes and lambdas are not searched since their names may bind
// differently. expr itself is included when it is in a read position.
func FindOccurrences(tree *syntax.Tree, expr, scope syntax.NodeID) []syntax.NodeID {
	want := tree.Fingerprint(expr)
	wantType := tree.Type(expr)

	var out []syntax.NodeID

	tree.Walk(scope, func(id syntax.NodeID) bool {
		if id != scope && pylang.IsScopeOwner(tree.Type(id)) && !tree.IsAncestor(id, expr, false) {
			return false
		}

		if tree.Type(id) != wantType || !isReadPosition(tree, id) {
			return true
		}

		if tree.Fingerprint(id) == want && syntax.Equivalent(tree, id, tree, expr) {
			out = append(out, id)
			return false
		}

		return true
	})

	return out
}
