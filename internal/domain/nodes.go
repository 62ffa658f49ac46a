package domain

import (
	"strings"

	"github.com/mouse-blink/pyintroduce/internal/domain/pylang"
	"github.com/mouse-blink/pyintroduce/internal/domain/syntax"
)

func isType(tree *syntax.Tree, types ...string) func(syntax.NodeID) bool {
	return func(id syntax.NodeID) bool {
		typ := tree.Type(id)
		for _, t := range types {
			if typ == t {
				return true
			}
		}

		return false
	}
}

// enclosingStatement returns the nearest statement strictly above id.
func enclosingStatement(tree *syntax.Tree, id syntax.NodeID) syntax.NodeID {
	return tree.Ancestor(id, true, func(n syntax.NodeID) bool {
		return pylang.IsStatement(tree.Type(n))
	})
}

// scopeOwner returns the nearest function, lambda, class or module enclosing id.
func scopeOwner(tree *syntax.Tree, id syntax.NodeID) syntax.NodeID {
	return tree.Ancestor(id, true, func(n syntax.NodeID) bool {
		return pylang.IsScopeOwner(tree.Type(n))
	})
}

// expressionAt returns the lowest expression enclosing id, including id itself.
func expressionAt(tree *syntax.Tree, id syntax.NodeID) syntax.NodeID {
	return tree.Ancestor(id, false, func(n syntax.NodeID) bool {
		return pylang.IsExpression(tree.Type(n))
	})
}

// isNamePosition reports whether id is an identifier that names something
// rather than reading a value: keyword argument names, attribute names, and
// names of definitions.
func isNamePosition(tree *syntax.Tree, id syntax.NodeID) bool {
	parent := tree.Parent(id)
	field := tree.Field(id)

	switch tree.Type(parent) {
	case "keyword_argument":
		return field == "name"
	case "attribute":
		return field == "attribute"
	case "function_definition", "class_definition":
		return field == "name"
	}

	return false
}

// inParameters reports whether id sits in a parameter list, where a default
// value is still an expression but nothing can be declared before it.
func inParameters(tree *syntax.Tree, id syntax.NodeID) bool {
	return !tree.Ancestor(id, false, isType(tree, "parameters", "lambda_parameters")).IsZero()
}

// inDecoratorCallee reports whether id is part of the callable named by a
// decorator, as in @pytest.mark.parametrize(...).
func inDecoratorCallee(tree *syntax.Tree, id syntax.NodeID) bool {
	decorator := tree.Ancestor(id, false, isType(tree, "decorator"))
	if decorator.IsZero() {
		return false
	}

	callee := decorator
	for _, c := range tree.SignificantChildren(decorator) {
		if tree.Type(c) != "@" {
			callee = c
			break
		}
	}

	if tree.Type(callee) == "call" {
		callee = tree.ChildByField(callee, "function")
	}

	return tree.IsAncestor(callee, id, false)
}

// validIntroduceContext rejects selections the refactoring cannot act on.
func validIntroduceContext(tree *syntax.Tree, id syntax.NodeID) bool {
	return !inDecoratorCallee(tree, id) && !inParameters(tree, id)
}

// isCallee reports whether id is, or is inside, the callee of its nearest
// enclosing call.
func isCallee(tree *syntax.Tree, id syntax.NodeID) bool {
	call := tree.Ancestor(id, true, isType(tree, "call"))
	if call.IsZero() {
		return false
	}

	callee := tree.ChildByField(call, "function")

	return !callee.IsZero() && tree.IsAncestor(callee, id, false)
}

// isIntroduceVariant reports whether id can be offered as a caret target.
func isIntroduceVariant(tree *syntax.Tree, id syntax.NodeID) bool {
	return pylang.IsExpression(tree.Type(id)) && !isNamePosition(tree, id) && !isCallee(tree, id)
}

// isAssignmentTarget reports whether id is written rather than read: the
// target of an assignment, a for loop, a walrus, an "as" clause or a del.
func isAssignmentTarget(tree *syntax.Tree, id syntax.NodeID) bool {
	for cur := id; !cur.IsZero(); cur = tree.Parent(cur) {
		parent := tree.Parent(cur)

		if followsAs(tree, parent, cur) {
			return true
		}

		switch tree.Type(parent) {
		case "assignment", "augmented_assignment", "for_statement", "for_in_clause":
			return tree.Field(cur) == "left"
		case "named_expression":
			return tree.Field(cur) == "name"
		case "with_item", "as_pattern":
			return tree.Field(cur) == "alias"
		case "delete_statement", "as_pattern_target":
			return true
		case "pattern_list", "tuple_pattern", "list_pattern", "tuple", "list", "parenthesized_expression",
			"expression_list", "list_splat_pattern":
			continue
		}

		return false
	}

	return false
}

// followsAs reports whether id comes right after an "as" keyword in parent,
// as the bound name of a with item or an except clause does.
func followsAs(tree *syntax.Tree, parent, id syntax.NodeID) bool {
	prev := syntax.NodeID{}

	for _, c := range tree.SignificantChildren(parent) {
		if c == id {
			return !prev.IsZero() && tree.IsLeaf(prev) && tree.Text(prev) == "as"
		}

		prev = c
	}

	return false
}

// initializerFor returns the expression whose value a variable introduced for
// element would hold: the value of an assignment when its target is chosen.
func initializerFor(tree *syntax.Tree, element syntax.NodeID) syntax.NodeID {
	if parent := tree.Parent(element); tree.Type(parent) == "assignment" && tree.Field(element) == "left" {
		if right := tree.ChildByField(parent, "right"); !right.IsZero() {
			return right
		}
	}

	return element
}

// isReadPosition reports whether id is an expression whose value is read and
// could therefore be replaced by a variable.
func isReadPosition(tree *syntax.Tree, id syntax.NodeID) bool {
	if !pylang.IsExpression(tree.Type(id)) || isNamePosition(tree, id) || isAssignmentTarget(tree, id) {
		return false
	}

	if inDecoratorCallee(tree, id) {
		return false
	}

	return tree.Ancestor(id, true, isType(tree,
		"import_statement", "import_from_statement", "future_import_statement",
		"global_statement", "nonlocal_statement", "parameters", "lambda_parameters",
	)).IsZero()
}

// lineIndent returns the text between the start of the line holding offset and
// offset, and whether it is blank.
func lineIndent(text string, offset int) (string, bool) {
	start := strings.LastIndexByte(text[:offset], '\n') + 1
	prefix := text[start:offset]

	return prefix, strings.TrimLeft(prefix, " \t") == ""
}

// lineOf returns the 1-based line holding offset.
func lineOf(text string, offset int) int {
	return strings.Count(text[:min(offset, len(text))], "\n") + 1
}

// indentUnit guesses one level of indentation from an existing indent.
func indentUnit(indent string) string {
	if strings.Contains(indent, "\t") {
		return "\t"
	}

	return "    "
}

func firstSignificantLeaf(tree *syntax.Tree, id syntax.NodeID) syntax.NodeID {
	for _, l := range tree.Leaves(id) {
		if !tree.IsTrivia(l) {
			return l
		}
	}

	return syntax.NodeID{}
}

func identifierLeaves(tree *syntax.Tree, id syntax.NodeID) []syntax.NodeID {
	var out []syntax.NodeID

	tree.Walk(id, func(n syntax.NodeID) bool {
		if tree.Type(n) == "identifier" {
			out = append(out, n)
		}

		return true
	})

	return out
}

// statementsOf returns the statements directly inside block.
func statementsOf(tree *syntax.Tree, block syntax.NodeID) []syntax.NodeID {
	var out []syntax.NodeID

	for _, c := range tree.SignificantChildren(block) {
		if pylang.IsStatement(tree.Type(c)) {
			out = append(out, c)
		}
	}

	return out
}

// innerBinding returns a name expr reads that an enclosing lambda or
// comprehension binds. A declaration placed before the statement cannot see
// such a name.
func innerBinding(tree *syntax.Tree, expr syntax.NodeID) (string, bool) {
	bound := make(map[string]bool)

	for child, cur := expr, tree.Parent(expr); !cur.IsZero(); child, cur = cur, tree.Parent(cur) {
		typ := tree.Type(cur)
		if pylang.IsStatement(typ) || typ == "module" {
			break
		}

		switch typ {
		case "lambda":
			for _, name := range boundParameters(tree, tree.ChildByField(cur, "parameters")) {
				bound[name] = true
			}
		case "list_comprehension", "set_comprehension", "dictionary_comprehension", "generator_expression":
			comprehensionBindings(tree, cur, child, expr, bound)
		}
	}

	if len(bound) == 0 {
		return "", false
	}

	for _, id := range identifierLeaves(tree, expr) {
		if !isNamePosition(tree, id) && bound[tree.Text(id)] {
			return tree.Text(id), true
		}
	}

	return "", false
}

// comprehensionBindings adds the loop variables of comp to bound. The
// iterable of the first clause is evaluated outside the comprehension, so
// nothing is added when expr sits there.
func comprehensionBindings(tree *syntax.Tree, comp, child, expr syntax.NodeID, bound map[string]bool) {
	var clauses []syntax.NodeID

	for _, c := range tree.SignificantChildren(comp) {
		if tree.Type(c) == "for_in_clause" {
			clauses = append(clauses, c)
		}
	}

	if len(clauses) > 0 && child == clauses[0] &&
		tree.IsAncestor(tree.ChildByField(clauses[0], "right"), expr, false) {
		return
	}

	for _, clause := range clauses {
		for _, id := range identifierLeaves(tree, tree.ChildByField(clause, "left")) {
			bound[tree.Text(id)] = true
		}
	}
}

// boundParameters lists every name a parameter list binds, splats included.
func boundParameters(tree *syntax.Tree, params syntax.NodeID) []string {
	var out []string

	for _, p := range tree.SignificantChildren(params) {
		switch tree.Type(p) {
		case "identifier":
			out = append(out, tree.Text(p))
		case "default_parameter", "typed_parameter", "typed_default_parameter":
			name := tree.ChildByField(p, "name")
			if name.IsZero() {
				if ids := tree.SignificantChildren(p); len(ids) > 0 {
					name = ids[0]
				}
			}

			out = append(out, tree.Text(name))
		case "list_splat_pattern", "dictionary_splat_pattern":
			if ids := identifierLeaves(tree, p); len(ids) > 0 {
				out = append(out, tree.Text(ids[0]))
			}
		}
	}

	return out
}
