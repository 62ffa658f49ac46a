package domain

import (
	"github.com/mouse-blink/pyintroduce/internal/domain/pylang"
	"github.com/mouse-blink/pyintroduce/internal/domain/syntax"
)

// NameValidator decides whether name may be used for a variable introduced
// for the expression at context.
type NameValidator interface {
	Check(name string, tree *syntax.Tree, context syntax.NodeID) bool
}

// ValidatorFunc adapts a function to NameValidator.
type ValidatorFunc func(name string, tree *syntax.Tree, context syntax.NodeID) bool

// Check calls f.
func (f ValidatorFunc) Check(name string, tree *syntax.Tree, context syntax.NodeID) bool {
	return f(name, tree, context)
}

// AllOf accepts a name only when every validator accepts it.
func AllOf(validators ...NameValidator) NameValidator {
	return ValidatorFunc(func(name string, tree *syntax.Tree, context syntax.NodeID) bool {
		for _, v := range validators {
			if !v.Check(name, tree, context) {
				return false
			}
		}

		return true
	})
}

// IdentifierValidator accepts syntactically valid, non-reserved identifiers.
func IdentifierValidator() NameValidator {
	return ValidatorFunc(func(name string, _ *syntax.Tree, _ syntax.NodeID) bool {
		return pylang.IsIdentifier(name)
	})
}

// ScopeValidator rejects names already used anywhere in the scope owning
// context or bound at module level.
func ScopeValidator() NameValidator {
	return ValidatorFunc(func(name string, tree *syntax.Tree, context syntax.NodeID) bool {
		return !usedInScope(tree, context, name)
	})
}

// DefaultValidator combines IdentifierValidator and ScopeValidator.
func DefaultValidator() NameValidator {
	return AllOf(IdentifierValidator(), ScopeValidator())
}

func usedInScope(tree *syntax.Tree, context syntax.NodeID, name string) bool {
	scope := scopeOwner(tree, context)
	if scope.IsZero() {
		scope = tree.Root()
	}

	for _, id := range identifierLeaves(tree, scope) {
		if tree.Text(id) == name {
			return true
		}
	}

	if scope == tree.Root() {
		return false
	}

	return moduleBindings(tree)[name]
}

// moduleBindings collects the names bound by module-level statements.
func moduleBindings(tree *syntax.Tree) map[string]bool {
	out := make(map[string]bool)

	for _, stmt := range tree.SignificantChildren(tree.Root()) {
		if tree.Type(stmt) == "decorated_definition" {
			stmt = tree.ChildByField(stmt, "definition")
		}

		switch tree.Type(stmt) {
		case "function_definition", "class_definition":
			out[tree.Text(tree.ChildByField(stmt, "name"))] = true
		case "expression_statement":
			for _, c := range tree.SignificantChildren(stmt) {
				if tree.Type(c) != "assignment" && tree.Type(c) != "augmented_assignment" {
					continue
				}

				for _, id := range identifierLeaves(tree, tree.ChildByField(c, "left")) {
					out[tree.Text(id)] = true
				}
			}
		case "import_statement", "import_from_statement":
			for _, id := range identifierLeaves(tree, stmt) {
				out[tree.Text(id)] = true
			}
		}
	}

	return out
}
