package domain

import (
	"github.com/mouse-blink/pyintroduce/internal/domain/syntax"
)

// FindAnchor returns the statement before which the declaration covering all
// occurrences goes. Starting from the statement enclosing the first
// occurrence, the candidate is promoted to its enclosing statement until the
// candidate's parent contains every occurrence. It returns the zero handle
// when an occurrence is not inside any statement.
func FindAnchor(tree *syntax.Tree, occurrences []syntax.NodeID) syntax.NodeID {
	if len(occurrences) == 0 {
		return syntax.NodeID{}
	}

	anchor := occurrences[0]

next:
	for {
		stmt := enclosingStatement(tree, anchor)
		if stmt.IsZero() {
			return stmt
		}

		parent := tree.Parent(stmt)

		for _, occ := range occurrences {
			if !tree.IsAncestor(parent, occ, true) {
				anchor = stmt
				continue next
			}
		}

		return stmt
	}
}
