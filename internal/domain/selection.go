package domain

import (
	"strings"

	"github.com/mouse-blink/pyintroduce/internal/domain/pylang"
	"github.com/mouse-blink/pyintroduce/internal/domain/syntax"
	m "github.com/mouse-blink/pyintroduce/internal/model"
)

// target is the resolved subject of an introduction.
type target struct {
	// element is what the user selected.
	element syntax.NodeID
	// initializer is the expression whose value the variable takes. It differs
	// from element when an assignment target was selected.
	initializer syntax.NodeID
	partial     *partialLiteral
}

func noExpression(format string, args ...any) error {
	return newError(KindNoValidExpression, format, args...)
}

// resolveSelection finds the expression exactly covered by a non-empty
// selection, ignoring surrounding whitespace.
func resolveSelection(tree *syntax.Tree, sel m.Span) (target, error) {
	text := tree.String()
	if sel.Start < 0 || sel.End > len(text) || sel.Empty() {
		return target{}, noExpression("selection %d-%d is outside the document", sel.Start, sel.End)
	}

	first := tree.LeafAt(sel.Start)
	for !first.IsZero() && tree.IsTrivia(first) {
		first = tree.NextLeaf(first)
	}

	last := tree.LeafAt(sel.End - 1)
	for !last.IsZero() && tree.IsTrivia(last) {
		last = tree.PrevLeaf(last)
	}

	if first.IsZero() || last.IsZero() {
		return target{}, noExpression("selection holds no code")
	}

	fs, err := tree.Span(first)
	if err != nil {
		return target{}, treeError(err)
	}

	ls, err := tree.Span(last)
	if err != nil {
		return target{}, treeError(err)
	}

	if fs.Start >= sel.End || ls.End <= sel.Start || fs.Start > ls.Start {
		return target{}, noExpression("selection holds no code")
	}

	var (
		element syntax.NodeID
		partial *partialLiteral
	)

	if first == last {
		element, partial, err = resolveSingleLeaf(tree, first, fs, sel)
	} else {
		element, err = resolveRange(tree, first, last, syntax.Span{Start: fs.Start, End: ls.End})
	}

	if err != nil {
		return target{}, err
	}

	return newTarget(tree, element, partial)
}

func resolveSingleLeaf(tree *syntax.Tree, leaf syntax.NodeID, span syntax.Span, sel m.Span) (syntax.NodeID, *partialLiteral, error) {
	if tree.Type(leaf) == "string" {
		if tree.Type(tree.Parent(leaf)) == "concatenated_string" {
			return syntax.NodeID{}, nil, newError(KindUnsupportedPartialLiteral,
				"substrings of implicitly concatenated literals are not supported")
		}

		covers := sel.Start <= span.Start && span.End <= sel.End
		if !covers {
			partial, err := checkPartialLiteral(tree, leaf, sel)

			return leaf, partial, err
		}

		return leaf, nil, nil
	}

	if tree.Type(leaf) == "identifier" && isNamePosition(tree, leaf) {
		if parent := tree.Parent(leaf); tree.Type(parent) == "attribute" {
			return parent, nil, nil
		}

		return syntax.NodeID{}, nil, noExpression("%q is a name, not an expression", tree.Text(leaf))
	}

	expr := expressionAt(tree, leaf)
	if expr.IsZero() {
		return syntax.NodeID{}, nil, noExpression("no expression at selection")
	}

	return expr, nil, nil
}

func resolveRange(tree *syntax.Tree, first, last syntax.NodeID, want syntax.Span) (syntax.NodeID, error) {
	lca := first
	for !lca.IsZero() && !tree.IsAncestor(lca, last, false) {
		lca = tree.Parent(lca)
	}

	for cur := lca; !cur.IsZero(); cur = tree.Parent(cur) {
		span, err := tree.Span(cur)
		if err != nil {
			return syntax.NodeID{}, treeError(err)
		}

		if span != want {
			break
		}

		if pylang.IsExpression(tree.Type(cur)) {
			return cur, nil
		}
	}

	return syntax.NodeID{}, noExpression("selection does not match an expression")
}

func newTarget(tree *syntax.Tree, element syntax.NodeID, partial *partialLiteral) (target, error) {
	if !validIntroduceContext(tree, element) {
		return target{}, noExpression("cannot introduce a variable in a parameter list or decorator name")
	}

	t := target{element: element, initializer: initializerFor(tree, element), partial: partial}
	if t.initializer != element {
		t.partial = nil
	}

	if !pylang.IsExpression(tree.Type(t.initializer)) {
		return target{}, noExpression("%q cannot be assigned to a variable", tree.Text(t.initializer))
	}

	if !isReadPosition(tree, t.initializer) {
		return target{}, noExpression("%q is written here, not read", tree.Text(t.initializer))
	}

	return t, nil
}

// caretCandidates lists the expressions enclosing the caret, innermost first,
// stopping at the enclosing statement. Callees are not offered.
func caretCandidates(tree *syntax.Tree, offset int) ([]syntax.NodeID, error) {
	leaf := tree.LeafAt(offset)
	if (leaf.IsZero() || tree.IsTrivia(leaf)) && offset > 0 {
		if prev := tree.LeafAt(offset - 1); !prev.IsZero() && !tree.IsTrivia(prev) {
			leaf = prev
		}
	}

	if leaf.IsZero() {
		return nil, nil
	}

	if !validIntroduceContext(tree, leaf) {
		return nil, noExpression("cannot introduce a variable in a parameter list or decorator name")
	}

	var out []syntax.NodeID

	for cur := leaf; !cur.IsZero(); cur = tree.Parent(cur) {
		typ := tree.Type(cur)
		if pylang.IsStatement(typ) || typ == "module" {
			break
		}

		if isIntroduceVariant(tree, cur) && isReadPosition(tree, initializerFor(tree, cur)) {
			out = append(out, cur)
		}
	}

	return out, nil
}

// lineSelection returns the span of the non-blank text on the line holding
// offset.
func lineSelection(text string, offset int) m.Span {
	offset = min(max(offset, 0), len(text))
	start := strings.LastIndexByte(text[:offset], '\n') + 1

	end := len(text)
	if i := strings.IndexByte(text[offset:], '\n'); i >= 0 {
		end = offset + i
	}

	line := text[start:end]
	trimmedLeft := strings.TrimLeft(line, " \t")
	start += len(line) - len(trimmedLeft)
	end = start + len(strings.TrimRight(trimmedLeft, " \t\r"))

	return m.Span{Start: start, End: end}
}
