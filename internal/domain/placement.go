package domain

import (
	"context"
	"strings"

	"github.com/mouse-blink/pyintroduce/internal/domain/pylang"
	"github.com/mouse-blink/pyintroduce/internal/domain/syntax"
	m "github.com/mouse-blink/pyintroduce/internal/model"
)

const selfName = "self"

// fieldMethod returns the method a field placement assigns in.
func fieldMethod(place m.InitPlace) string {
	if place == m.InitSetUp {
		return "setUp"
	}

	return "__init__"
}

// insertBefore puts decl on its own line above anchor, with the anchor's
// indentation. When the anchor shares its line with other code, decl joins
// that line as a simple statement.
func (e *engine) insertBefore(anchor, decl syntax.NodeID) error {
	span, err := e.tree.Span(anchor)
	if err != nil {
		return treeError(err)
	}

	indent, blank := lineIndent(e.tree.String(), span.Start)
	if blank {
		return treeError(e.tree.InsertBefore(anchor, decl, e.whitespace("\n"+indent)))
	}

	return treeError(e.tree.InsertBefore(anchor, decl, e.tree.NewLeaf(";", syntax.KindToken, ";"), e.whitespace(" ")))
}

// insertAfter puts decl on its own line below stmt.
func (e *engine) insertAfter(stmt, decl syntax.NodeID) error {
	span, err := e.tree.Span(stmt)
	if err != nil {
		return treeError(err)
	}

	indent, blank := lineIndent(e.tree.String(), span.Start)
	if blank {
		return treeError(e.tree.InsertAfter(stmt, e.whitespace("\n"+indent), decl))
	}

	return treeError(e.tree.InsertAfter(stmt, e.tree.NewLeaf(";", syntax.KindToken, ";"), e.whitespace(" "), decl))
}

func (e *engine) whitespace(text string) syntax.NodeID {
	return e.tree.NewLeaf(syntax.TypeWhitespace, syntax.KindWhitespace, text)
}

// methodClass returns the class whose method holds id, or the zero handle
// when id is not inside a method. Code directly in a class body has no self.
func methodClass(tree *syntax.Tree, id syntax.NodeID) syntax.NodeID {
	class := tree.Ancestor(id, true, isType(tree, "class_definition"))
	if class.IsZero() {
		return class
	}

	fn := tree.Ancestor(id, true, isType(tree, "function_definition"))
	if fn.IsZero() || !tree.IsAncestor(class, fn, true) {
		return syntax.NodeID{}
	}

	return class
}

// checkFieldPlacement verifies that the initializer can be evaluated in
// another method: it must sit in a method and must not read locals of its
// function other than self.
func checkFieldPlacement(tree *syntax.Tree, t target, place m.InitPlace) (syntax.NodeID, error) {
	class := methodClass(tree, t.initializer)
	if class.IsZero() {
		return syntax.NodeID{}, newError(KindInvalidInitPlace, "%s placement needs an enclosing method", place)
	}

	fn := tree.Ancestor(t.initializer, true, isType(tree, "function_definition", "lambda"))
	if tree.Text(tree.ChildByField(fn, "name")) == fieldMethod(place) {
		return class, nil
	}

	locals := localNames(tree, fn)

	for _, id := range identifierLeaves(tree, t.initializer) {
		name := tree.Text(id)
		if name == selfName || isNamePosition(tree, id) {
			continue
		}

		if locals[name] {
			return syntax.NodeID{}, newError(KindInvalidInitPlace, "initializer reads local %q of %s", name,
				tree.Text(tree.ChildByField(fn, "name")))
		}
	}

	return class, nil
}

// localNames collects parameter names and assignment targets of fn.
func localNames(tree *syntax.Tree, fn syntax.NodeID) map[string]bool {
	out := make(map[string]bool)

	for _, name := range parameterNames(tree, fn) {
		out[name] = true
	}

	tree.Walk(tree.ChildByField(fn, "body"), func(id syntax.NodeID) bool {
		if pylang.IsScopeOwner(tree.Type(id)) {
			return false
		}

		if tree.Type(id) == "identifier" && isAssignmentTarget(tree, id) {
			out[tree.Text(id)] = true
		}

		return true
	})

	return out
}

// insertField places decl, a self.name assignment, at the end of the
// constructor or set-up method of class, creating the method when missing.
// When the initializer already lives in that method, decl goes before anchor
// instead so the value is computed before its first use.
func (e *engine) insertField(ctx context.Context, class, anchor, decl syntax.NodeID, t target, place m.InitPlace) error {
	body := e.tree.ChildByField(class, "body")
	methodName := fieldMethod(place)
	method := findDefinition(e.tree, body, "function_definition", methodName)

	if !method.IsZero() {
		if e.tree.IsAncestor(method, t.initializer, true) {
			return e.insertBefore(anchor, decl)
		}

		stmts := statementsOf(e.tree, e.tree.ChildByField(method, "body"))
		if len(stmts) == 0 {
			return newError(KindInvalidInitPlace, "%s has no body", methodName)
		}

		return e.insertAfter(stmts[len(stmts)-1], decl)
	}

	stmts := statementsOf(e.tree, body)
	if len(stmts) == 0 {
		return newError(KindInvalidInitPlace, "class body is empty")
	}

	first := stmts[0]

	span, err := e.tree.Span(first)
	if err != nil {
		return treeError(err)
	}

	indent, blank := lineIndent(e.tree.String(), span.Start)
	if !blank {
		return newError(KindInvalidInitPlace, "class body shares a line with its header")
	}

	unit := indentUnit(indent)

	methodNode, err := e.parseStatement(ctx, "def "+methodName+"("+selfName+"):\n"+unit+"pass")
	if err != nil {
		return err
	}

	var walkErr error

	e.tree.Walk(methodNode, func(id syntax.NodeID) bool {
		if e.tree.Kind(id) == syntax.KindWhitespace && strings.Contains(e.tree.Text(id), "\n") {
			if err := e.tree.SetText(id, strings.ReplaceAll(e.tree.Text(id), "\n", "\n"+indent)); err != nil {
				walkErr = err
				return false
			}
		}

		return true
	})

	if walkErr != nil {
		return treeError(walkErr)
	}

	placeholder := statementsOf(e.tree, e.tree.ChildByField(methodNode, "body"))
	if len(placeholder) != 1 {
		return newError(KindMalformedResult, "generated method has an unexpected body")
	}

	if err := e.tree.Replace(placeholder[0], decl); err != nil {
		return treeError(err)
	}

	if isDocstring(e.tree, first) {
		return treeError(e.tree.InsertAfter(first, e.whitespace("\n\n"+indent), methodNode))
	}

	return treeError(e.tree.InsertBefore(first, methodNode, e.whitespace("\n\n"+indent)))
}

func isDocstring(tree *syntax.Tree, stmt syntax.NodeID) bool {
	if tree.Type(stmt) != "expression_statement" {
		return false
	}

	children := tree.SignificantChildren(stmt)

	return len(children) == 1 && (tree.Type(children[0]) == "string" || tree.Type(children[0]) == "concatenated_string")
}
